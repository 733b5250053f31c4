package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	scanCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wowscraper_scan_cycles_total",
		Help: "Completed full market scan cycles.",
	})

	scanErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wowscraper_scan_errors_total",
		Help: "Scan failures by stage.",
	}, []string{"stage"})

	realmScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wowscraper_realm_scan_duration_seconds",
		Help:    "Wall time of one realm auction snapshot refresh.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	snapshotAuctions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wowscraper_snapshot_auctions",
		Help: "Auctions stored in the latest snapshot per realm.",
	}, []string{"realm_id"})
)
