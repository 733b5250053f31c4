package deals

// Thresholds are the business knobs of a single analysis run. They are read
// once at startup and never mutated while a run is in flight; a re-run with
// different values is an independent run.
type Thresholds struct {
	// MinRatio is the smallest max/min price ratio that still counts as a
	// deal (inclusive).
	MinRatio float64
	// MinRealmCount is required both before the quartile pass and after the
	// MAD pass. Counted over per-realm minimums, not raw listings.
	MinRealmCount int
	// FloorPrice and CeilingPrice are absolute sanity bounds in copper,
	// independent of the statistical filtering.
	FloorPrice   int64
	CeilingPrice int64
	// ReportLimit caps the top-N report.
	ReportLimit int
	// PageSize is the default page size of the paginated listing.
	PageSize int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinRatio:      3.0,
		MinRealmCount: 5,
		FloorPrice:    1_000 * 10_000,     // 1000 gold
		CeilingPrice:  3_000_000 * 10_000, // 3M gold hard cap
		ReportLimit:   25,
		PageSize:      25,
	}
}
