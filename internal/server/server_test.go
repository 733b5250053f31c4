package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/internal/domain/service/deals"
	"github.com/nefeygt/wowscraper/internal/server"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
	"github.com/nefeygt/wowscraper/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type stubDealService struct {
	report []entity.Deal
	prices deals.ItemPriceSummary
	err    error
}

func (s *stubDealService) Report(context.Context) ([]entity.Deal, error) {
	return s.report, s.err
}

func (s *stubDealService) PageOf(_ context.Context, page, pageSize int) ([]entity.Deal, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	if page < 1 {
		return nil, 0, domain.NewError(errcodes.InvalidPaging, "page must be >= 1")
	}

	start := (page - 1) * pageSize
	if start >= len(s.report) {
		return nil, len(s.report), nil
	}

	end := min(start+pageSize, len(s.report))
	return s.report[start:end], len(s.report), nil
}

func (s *stubDealService) ItemPrices(context.Context, int64) (deals.ItemPriceSummary, error) {
	return s.prices, s.err
}

func (s *stubDealService) Thresholds() deals.Thresholds {
	return deals.DefaultThresholds()
}

type stubItemDirectory struct {
	items []entity.Item
}

func (s *stubItemDirectory) GetByIDs(context.Context, []int64) ([]entity.Item, error) {
	return s.items, nil
}

type stubEnqueuer struct {
	enqueued []*asynq.Task
}

func (s *stubEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	s.enqueued = append(s.enqueued, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func newTestServer(svc *stubDealService, items *stubItemDirectory, tasks *stubEnqueuer) *httptest.Server {
	r := chi.NewRouter()
	server.NewServer(server.NewDealServer(svc, items, tasks)).RegisterRoutes(r)
	return httptest.NewServer(r)
}

func TestGetDeals(t *testing.T) {
	rq := require.New(t)

	svc := &stubDealService{report: []entity.Deal{
		{ItemID: 19019, MinPrice: 10_000_000, MaxPrice: 50_000_000, MinRealmID: 1080, MaxRealmID: 509, Ratio: 5},
	}}
	items := &stubItemDirectory{items: []entity.Item{{ID: 19019, Name: "Thunderfury"}}}

	srv := newTestServer(svc, items, &stubEnqueuer{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/deals")
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)

	var body []rest.Deal
	rq.NoError(json.NewDecoder(resp.Body).Decode(&body))
	rq.Len(body, 1)
	rq.Equal("Thunderfury", body[0].ItemName)
	rq.Equal("1000g 0s 0c", body[0].MinPriceDisplay)
	rq.Equal("5000g 0s 0c", body[0].MaxPriceDisplay)
	rq.Equal(int64(1080), body[0].MinRealmID)
}

func TestGetDealsPage(t *testing.T) {
	rq := require.New(t)

	report := make([]entity.Deal, 5)
	for i := range report {
		report[i] = entity.Deal{ItemID: int64(i + 1), MinPrice: 100, MaxPrice: 500, Ratio: 5}
	}

	srv := newTestServer(&stubDealService{report: report}, &stubItemDirectory{}, &stubEnqueuer{})
	defer srv.Close()

	t.Run("returns the requested slice", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/deals/page?page=2&pageSize=2")
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusOK, resp.StatusCode)

		var body rest.DealPage
		rq.NoError(json.NewDecoder(resp.Body).Decode(&body))
		rq.Equal(2, body.Page)
		rq.Equal(5, body.Total)
		rq.Len(body.Deals, 2)
		rq.Equal(int64(3), body.Deals[0].ItemID)
	})

	t.Run("rejects a non-numeric page", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/deals/page?page=abc")
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects page zero", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/deals/page?page=0")
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetItemPrices(t *testing.T) {
	rq := require.New(t)

	t.Run("returns the per-realm summary", func(t *testing.T) {
		svc := &stubDealService{prices: deals.ItemPriceSummary{
			ItemID: 19019,
			RealmPrices: []entity.RealmPrice{
				{RealmID: 1080, Price: 10_000_000},
				{RealmID: 509, Price: 50_000_000},
			},
			MinPrice:  10_000_000,
			MaxPrice:  50_000_000,
			MeanPrice: 30_000_000,
		}}

		srv := newTestServer(svc, &stubItemDirectory{}, &stubEnqueuer{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/v1/items/19019/prices")
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusOK, resp.StatusCode)

		var body rest.ItemPrices
		rq.NoError(json.NewDecoder(resp.Body).Decode(&body))
		rq.Equal(int64(19019), body.ItemID)
		rq.Len(body.RealmPrices, 2)
		rq.Equal("1000g 0s 0c", body.RealmPrices[0].PriceDisplay)
	})

	t.Run("rejects a malformed id", func(t *testing.T) {
		srv := newTestServer(&stubDealService{}, &stubItemDirectory{}, &stubEnqueuer{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/v1/items/abc/prices")
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("item without data is not found", func(t *testing.T) {
		svc := &stubDealService{err: domain.NewError(errcodes.NoPriceData, "no active buyout auctions for item")}

		srv := newTestServer(svc, &stubItemDirectory{}, &stubEnqueuer{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/v1/items/19019/prices")
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusNotFound, resp.StatusCode)
	})
}

func TestPostScans(t *testing.T) {
	rq := require.New(t)

	t.Run("accepts and enqueues a scan", func(t *testing.T) {
		tasks := &stubEnqueuer{}
		srv := newTestServer(&stubDealService{}, &stubItemDirectory{}, tasks)
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/v1/scans", "application/json",
			strings.NewReader(`{"realmIds":[1080,509]}`))
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusAccepted, resp.StatusCode)

		var body rest.ScanAccepted
		rq.NoError(json.NewDecoder(resp.Body).Decode(&body))
		rq.Equal("task-1", body.TaskID)
		rq.Len(tasks.enqueued, 1)
	})

	t.Run("rejects a non-positive realm id", func(t *testing.T) {
		tasks := &stubEnqueuer{}
		srv := newTestServer(&stubDealService{}, &stubItemDirectory{}, tasks)
		defer srv.Close()

		resp, err := http.Post(srv.URL+"/v1/scans", "application/json",
			strings.NewReader(`{"realmIds":[0]}`))
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusBadRequest, resp.StatusCode)
		rq.Empty(tasks.enqueued)
	})

	t.Run("upstream outage maps to bad gateway", func(t *testing.T) {
		svc := &stubDealService{err: domain.NewError(errcodes.UpstreamUnavailable, "snapshot source down")}

		srv := newTestServer(svc, &stubItemDirectory{}, &stubEnqueuer{})
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/v1/deals")
		rq.NoError(err)
		defer resp.Body.Close()

		rq.Equal(http.StatusBadGateway, resp.StatusCode)
	})
}
