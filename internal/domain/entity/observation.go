package entity

// PriceObservation is the aggregation input: the cheapest buyout of one item
// on one connected realm, in copper.
type PriceObservation struct {
	ItemID  int64 `db:"item_id"`
	RealmID int64 `db:"realm_id"`
	Price   int64 `db:"min_price"`
}

// RealmPrice is one element of an item's realm price set.
type RealmPrice struct {
	RealmID int64
	Price   int64
}
