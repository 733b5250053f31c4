package config

import "time"

type Scanner struct {
	RequestInterval time.Duration `env:"SCAN_REQUEST_INTERVAL" envDefault:"200ms"`
	ScanInterval    time.Duration `env:"SCAN_INTERVAL" envDefault:"30m"`

	// RealmIDs pins the scan to specific connected realms; empty scans the
	// whole region.
	RealmIDs []int64 `env:"SCAN_REALM_IDS" envSeparator:","`

	ReportCacheTTL    time.Duration `env:"REPORT_CACHE_TTL" envDefault:"30m"`
	WorkerConcurrency int           `env:"WORKER_CONCURRENCY" envDefault:"2"`
}
