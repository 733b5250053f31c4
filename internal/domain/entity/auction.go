package entity

import "time"

// Auction is a raw listing from one realm's auction house dump. Buyout is nil
// for bid-only listings; those never reach the aggregation.
type Auction struct {
	ID        int64
	ItemID    int64
	RealmID   int64
	Buyout    *int64
	Quantity  int
	TimeLeft  string
	ScannedAt time.Time
}
