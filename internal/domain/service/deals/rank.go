package deals

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
)

// Pipeline is the pure deal-detection transform: aggregate, reject outliers,
// rank. It holds no mutable state between runs.
type Pipeline struct {
	thresholds Thresholds
	workers    int
}

func NewPipeline(thresholds Thresholds) *Pipeline {
	return &Pipeline{
		thresholds: thresholds,
		workers:    runtime.GOMAXPROCS(0),
	}
}

func (p *Pipeline) WithWorkers(n int) *Pipeline {
	if n > 0 {
		p.workers = n
	}
	return p
}

// Run executes the whole transform over one marketplace snapshot. Items are
// evaluated independently across workers; each goroutine only reads its own
// item's slice and writes its own output slot, so no lock is needed. The
// final sort is the single sequential barrier, and it pins a total order:
// ratio descending, then item id ascending, so repeated runs over the same
// input produce byte-identical output.
func (p *Pipeline) Run(ctx context.Context, observations []entity.PriceObservation) ([]entity.Deal, error) {
	byItem := AggregateRealmMinimums(observations)

	itemIDs := make([]int64, 0, len(byItem))
	for id := range byItem {
		itemIDs = append(itemIDs, id)
	}

	results := make([]*entity.Deal, len(itemIDs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, itemID := range itemIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("ctx.Err: %w", err)
			}

			if deal, ok := p.dealFor(itemID, byItem[itemID]); ok {
				results[i] = &deal
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("g.Wait: %w", err)
	}

	deals := make([]entity.Deal, 0, len(results))
	for _, deal := range results {
		if deal != nil {
			deals = append(deals, *deal)
		}
	}

	sort.Slice(deals, func(i, j int) bool {
		if deals[i].Ratio != deals[j].Ratio {
			return deals[i].Ratio > deals[j].Ratio
		}
		return deals[i].ItemID < deals[j].ItemID
	})

	return deals, nil
}

// dealFor turns one item's realm price set into at most one deal.
func (p *Pipeline) dealFor(itemID int64, set []entity.RealmPrice) (entity.Deal, bool) {
	filtered := p.filterOutliers(set)
	if filtered == nil {
		return entity.Deal{}, false
	}

	// Price ties break by realm id ascending so the winner does not depend
	// on map iteration order.
	minEntry, maxEntry := filtered[0], filtered[0]
	for _, rp := range filtered[1:] {
		if rp.Price < minEntry.Price || (rp.Price == minEntry.Price && rp.RealmID < minEntry.RealmID) {
			minEntry = rp
		}
		if rp.Price > maxEntry.Price || (rp.Price == maxEntry.Price && rp.RealmID < maxEntry.RealmID) {
			maxEntry = rp
		}
	}

	if minEntry.Price < p.thresholds.FloorPrice || maxEntry.Price > p.thresholds.CeilingPrice {
		return entity.Deal{}, false
	}

	// A zero minimum would make the ratio infinite; such an item is junk
	// data, not a deal.
	if minEntry.Price == 0 {
		return entity.Deal{}, false
	}

	ratio := float64(maxEntry.Price) / float64(minEntry.Price)
	if ratio < p.thresholds.MinRatio {
		return entity.Deal{}, false
	}

	return entity.Deal{
		ItemID:     itemID,
		MinPrice:   minEntry.Price,
		MaxPrice:   maxEntry.Price,
		MinRealmID: minEntry.RealmID,
		MaxRealmID: maxEntry.RealmID,
		Ratio:      ratio,
	}, true
}

// TopDeals takes the first limit records of an already ranked list.
func TopDeals(ranked []entity.Deal, limit int) []entity.Deal {
	if limit < 0 {
		limit = 0
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// PageDeals slices a 1-based page out of an already ranked list, clamped to
// its bounds. A page past the end is an empty page, not an error.
func PageDeals(ranked []entity.Deal, page, pageSize int) []entity.Deal {
	if page < 1 || pageSize < 1 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(ranked) {
		return nil
	}

	end := start + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}

	return ranked[start:end]
}
