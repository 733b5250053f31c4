package deals

import (
	"github.com/nefeygt/wowscraper/internal/domain/entity"
)

// AggregateRealmMinimums reduces raw observations to one entry per
// (item, realm) pair, keeping the cheapest price. Observations without a
// positive price (bid-only listings) are dropped before aggregation. The
// result is order-independent: later stages never look at insertion order.
func AggregateRealmMinimums(observations []entity.PriceObservation) map[int64][]entity.RealmPrice {
	type itemRealm struct {
		itemID  int64
		realmID int64
	}

	minimums := make(map[itemRealm]int64, len(observations))

	for _, obs := range observations {
		if obs.Price <= 0 {
			continue
		}

		key := itemRealm{itemID: obs.ItemID, realmID: obs.RealmID}
		if current, ok := minimums[key]; !ok || obs.Price < current {
			minimums[key] = obs.Price
		}
	}

	byItem := make(map[int64][]entity.RealmPrice)
	for key, price := range minimums {
		byItem[key.itemID] = append(byItem[key.itemID], entity.RealmPrice{
			RealmID: key.realmID,
			Price:   price,
		})
	}

	return byItem
}
