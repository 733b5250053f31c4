package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/hibiken/asynq"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/internal/domain/service/deals"
	"github.com/nefeygt/wowscraper/internal/worker"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
	"github.com/nefeygt/wowscraper/pkg/httpx/reply"
	"github.com/nefeygt/wowscraper/pkg/httpx/req"
	"github.com/nefeygt/wowscraper/pkg/rest"
)

type dealService interface {
	Report(ctx context.Context) ([]entity.Deal, error)
	PageOf(ctx context.Context, page, pageSize int) ([]entity.Deal, int, error)
	ItemPrices(ctx context.Context, itemID int64) (deals.ItemPriceSummary, error)
	Thresholds() deals.Thresholds
}

type itemDirectory interface {
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Item, error)
}

type scanEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type DealServer struct {
	dealService dealService
	items       itemDirectory
	tasks       scanEnqueuer
}

func NewDealServer(dealService dealService, items itemDirectory, tasks scanEnqueuer) DealServer {
	return DealServer{
		dealService: dealService,
		items:       items,
		tasks:       tasks,
	}
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	report, err := s.dealService.Report(ctx)
	if err != nil {
		return fmt.Errorf("dealService.Report: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, s.newRESTDeals(ctx, report))

	return nil
}

func (s DealServer) getV1DealsPage(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	page, err := queryInt(r, "page", 1)
	if err != nil {
		return err
	}

	pageSize, err := queryInt(r, "pageSize", s.dealService.Thresholds().PageSize)
	if err != nil {
		return err
	}

	pageDeals, total, err := s.dealService.PageOf(ctx, page, pageSize)
	if err != nil {
		return fmt.Errorf("dealService.PageOf: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.DealPage{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Deals:    s.newRESTDeals(ctx, pageDeals),
	})

	return nil
}

func (s DealServer) getV1ItemPrices(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || itemID <= 0 {
		return failure.NewInvalidArgumentError(
			"item id must be a positive integer",
			failure.WithCode(errcodes.InvalidItemID),
			failure.WithDescription("item id must be a positive integer"),
		)
	}

	summary, err := s.dealService.ItemPrices(ctx, itemID)
	if err != nil {
		return fmt.Errorf("dealService.ItemPrices: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTItemPrices(summary))

	return nil
}

func (s DealServer) postV1Scans(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ScanRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	task, err := worker.NewScanTask(request.RealmIDs)
	if err != nil {
		return fmt.Errorf("worker.NewScanTask: %w", err)
	}

	info, err := s.tasks.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("tasks.EnqueueContext: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, rest.ScanAccepted{TaskID: info.ID})

	return nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.NewInvalidArgumentError(
			name+" must be an integer",
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription(name+" must be an integer"),
		)
	}

	return value, nil
}
