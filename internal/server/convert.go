package server

import (
	"context"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/internal/domain/service/deals"
	"github.com/nefeygt/wowscraper/pkg/moneyfmt"
	"github.com/nefeygt/wowscraper/pkg/rest"
)

// newRESTDeals resolves the item names in one batch. An unresolvable name is
// left empty rather than failing the whole response.
func (s DealServer) newRESTDeals(ctx context.Context, dealList []entity.Deal) []rest.Deal {
	names := s.itemNames(ctx, dealList)

	result := make([]rest.Deal, 0, len(dealList))
	for _, deal := range dealList {
		result = append(result, newRESTDeal(deal, names[deal.ItemID]))
	}

	return result
}

func newRESTDeal(deal entity.Deal, itemName string) rest.Deal {
	return rest.Deal{
		ItemID:          deal.ItemID,
		ItemName:        itemName,
		MinPrice:        deal.MinPrice,
		MaxPrice:        deal.MaxPrice,
		MinPriceDisplay: moneyfmt.Copper(deal.MinPrice),
		MaxPriceDisplay: moneyfmt.Copper(deal.MaxPrice),
		MinRealmID:      deal.MinRealmID,
		MaxRealmID:      deal.MaxRealmID,
		Ratio:           deal.Ratio,
	}
}

func newRESTItemPrices(summary deals.ItemPriceSummary) rest.ItemPrices {
	realmPrices := make([]rest.RealmPrice, 0, len(summary.RealmPrices))
	for _, realmPrice := range summary.RealmPrices {
		realmPrices = append(realmPrices, rest.RealmPrice{
			RealmID:      realmPrice.RealmID,
			Price:        realmPrice.Price,
			PriceDisplay: moneyfmt.Copper(realmPrice.Price),
		})
	}

	return rest.ItemPrices{
		ItemID:      summary.ItemID,
		RealmPrices: realmPrices,
		MinPrice:    summary.MinPrice,
		MaxPrice:    summary.MaxPrice,
		MeanPrice:   summary.MeanPrice,
	}
}

func (s DealServer) itemNames(ctx context.Context, dealList []entity.Deal) map[int64]string {
	if len(dealList) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(dealList))
	for _, deal := range dealList {
		ids = append(ids, deal.ItemID)
	}

	items, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil
	}

	names := make(map[int64]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}

	return names
}
