package entity

// Deal is the pipeline output for one item: cheapest and most expensive
// realistic realm price after outlier rejection, and the ratio that ranks it.
type Deal struct {
	ItemID     int64
	MinPrice   int64
	MaxPrice   int64
	MinRealmID int64
	MaxRealmID int64
	Ratio      float64
}
