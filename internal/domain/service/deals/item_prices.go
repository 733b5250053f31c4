package deals

import (
	"context"
	"sort"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
)

// ItemPriceSummary is the per-item lookup: every realm's cheapest listing,
// sorted by price ascending, with the raw min/max/mean.
type ItemPriceSummary struct {
	ItemID      int64
	RealmPrices []entity.RealmPrice
	MinPrice    int64
	MaxPrice    int64
	MeanPrice   int64
}

func (s *Service) ItemPrices(ctx context.Context, itemID int64) (ItemPriceSummary, error) {
	realmPrices, err := s.repo.ItemRealmMinimums(ctx, itemID)
	if err != nil {
		return ItemPriceSummary{}, domain.WrapError(err, errcodes.UpstreamUnavailable, "failed to load item prices")
	}

	if len(realmPrices) == 0 {
		return ItemPriceSummary{}, domain.NewError(errcodes.NoPriceData, "no active buyout auctions for item")
	}

	sort.Slice(realmPrices, func(i, j int) bool {
		if realmPrices[i].Price != realmPrices[j].Price {
			return realmPrices[i].Price < realmPrices[j].Price
		}
		return realmPrices[i].RealmID < realmPrices[j].RealmID
	})

	var sum int64
	for _, rp := range realmPrices {
		sum += rp.Price
	}

	return ItemPriceSummary{
		ItemID:      itemID,
		RealmPrices: realmPrices,
		MinPrice:    realmPrices[0].Price,
		MaxPrice:    realmPrices[len(realmPrices)-1].Price,
		MeanPrice:   sum / int64(len(realmPrices)),
	}, nil
}
