package config

import (
	"github.com/nefeygt/wowscraper/internal/domain/service/deals"
	"github.com/nefeygt/wowscraper/pkg/moneyfmt"
)

// Pipeline tunes the deal detection. Prices are configured in gold for
// operator sanity and converted to copper at the boundary.
type Pipeline struct {
	MinPriceRatio         float64 `env:"MIN_PRICE_RATIO" envDefault:"3.0" validate:"gt=0"`
	MinGoldPrice          int64   `env:"MIN_GOLD_PRICE" envDefault:"1000" validate:"gte=0"`
	MaxRealisticGoldPrice int64   `env:"MAX_REALISTIC_GOLD_PRICE" envDefault:"3000000" validate:"gtefield=MinGoldPrice"`
	MinRealmCount         int     `env:"MIN_REALM_COUNT" envDefault:"5" validate:"gte=1"`
	DealReportLimit       int     `env:"DEAL_REPORT_LIMIT" envDefault:"25" validate:"gte=1"`
	PageSize              int     `env:"DEAL_PAGE_SIZE" envDefault:"25" validate:"gte=1"`
}

func (p Pipeline) Thresholds() deals.Thresholds {
	return deals.Thresholds{
		MinRatio:      p.MinPriceRatio,
		MinRealmCount: p.MinRealmCount,
		FloorPrice:    moneyfmt.Gold(p.MinGoldPrice),
		CeilingPrice:  moneyfmt.Gold(p.MaxRealisticGoldPrice),
		ReportLimit:   p.DealReportLimit,
		PageSize:      p.PageSize,
	}
}
