package deals_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/internal/domain/service/deals"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
)

type stubObservationRepo struct {
	observations []entity.PriceObservation
	itemPrices   []entity.RealmPrice
	err          error
}

func (r *stubObservationRepo) RealmMinimums(context.Context) ([]entity.PriceObservation, error) {
	return r.observations, r.err
}

func (r *stubObservationRepo) ItemRealmMinimums(context.Context, int64) ([]entity.RealmPrice, error) {
	return r.itemPrices, r.err
}

func TestServiceReport(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	t.Run("empty snapshot means no deals, not an error", func(t *testing.T) {
		svc := deals.NewService(&stubObservationRepo{}, permissiveThresholds())

		report, err := svc.Report(ctx)

		rq.NoError(err)
		rq.Empty(report)
	})

	t.Run("upstream failure propagates as a reported error", func(t *testing.T) {
		svc := deals.NewService(&stubObservationRepo{err: errors.New("connection refused")}, permissiveThresholds())

		_, err := svc.Report(ctx)

		rq.Error(err)
		code, ok := domain.GetCode(err)
		rq.True(ok)
		rq.Equal(errcodes.UpstreamUnavailable, code)
	})

	t.Run("report is capped at the configured limit", func(t *testing.T) {
		thresholds := permissiveThresholds()
		thresholds.ReportLimit = 2

		var observations []entity.PriceObservation
		for item := int64(1); item <= 5; item++ {
			observations = append(observations, observationsFor(item, 100, 200, 300, 400, 500)...)
		}

		svc := deals.NewService(&stubObservationRepo{observations: observations}, thresholds)

		report, err := svc.Report(ctx)

		rq.NoError(err)
		rq.Len(report, 2)
	})
}

func TestServicePageOf(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var observations []entity.PriceObservation
	for item := int64(1); item <= 5; item++ {
		observations = append(observations, observationsFor(item, 100, 200, 300, 400, 500)...)
	}

	svc := deals.NewService(&stubObservationRepo{observations: observations}, permissiveThresholds())

	t.Run("pages slice the ranked list", func(t *testing.T) {
		page, total, err := svc.PageOf(ctx, 2, 2)

		rq.NoError(err)
		rq.Equal(5, total)
		rq.Len(page, 2)
		rq.Equal(int64(3), page[0].ItemID)
		rq.Equal(int64(4), page[1].ItemID)
	})

	t.Run("page beyond the end is empty", func(t *testing.T) {
		page, total, err := svc.PageOf(ctx, 100, 2)

		rq.NoError(err)
		rq.Equal(5, total)
		rq.Empty(page)
	})

	t.Run("page below one is invalid paging", func(t *testing.T) {
		_, _, err := svc.PageOf(ctx, 0, 2)

		rq.Error(err)
		code, ok := domain.GetCode(err)
		rq.True(ok)
		rq.Equal(errcodes.InvalidPaging, code)
	})
}

func TestServiceItemPrices(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	t.Run("summary is sorted with min, max and mean", func(t *testing.T) {
		repo := &stubObservationRepo{itemPrices: []entity.RealmPrice{
			{RealmID: 3, Price: 900},
			{RealmID: 1, Price: 300},
			{RealmID: 2, Price: 600},
		}}
		svc := deals.NewService(repo, permissiveThresholds())

		summary, err := svc.ItemPrices(ctx, 42)

		rq.NoError(err)
		rq.Equal(int64(42), summary.ItemID)
		rq.Equal(int64(300), summary.MinPrice)
		rq.Equal(int64(900), summary.MaxPrice)
		rq.Equal(int64(600), summary.MeanPrice)
		rq.Equal(int64(1), summary.RealmPrices[0].RealmID)
		rq.Equal(int64(3), summary.RealmPrices[2].RealmID)
	})

	t.Run("no data is a domain error", func(t *testing.T) {
		svc := deals.NewService(&stubObservationRepo{}, permissiveThresholds())

		_, err := svc.ItemPrices(ctx, 42)

		rq.Error(err)
		code, ok := domain.GetCode(err)
		rq.True(ok)
		rq.Equal(errcodes.NoPriceData, code)
	})
}
