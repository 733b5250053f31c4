package rest

// Deal is one cross-realm arbitrage opportunity: the cheapest realistic
// listing of an item against its highest realistic listing elsewhere.
type Deal struct {
	ItemID          int64   `json:"itemId"`
	ItemName        string  `json:"itemName,omitempty"`
	MinPrice        int64   `json:"minPrice"`
	MaxPrice        int64   `json:"maxPrice"`
	MinPriceDisplay string  `json:"minPriceDisplay"`
	MaxPriceDisplay string  `json:"maxPriceDisplay"`
	MinRealmID      int64   `json:"minRealmId"`
	MaxRealmID      int64   `json:"maxRealmId"`
	Ratio           float64 `json:"ratio"`
}

type DealPage struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int    `json:"total"`
	Deals    []Deal `json:"deals"`
}

type RealmPrice struct {
	RealmID      int64  `json:"realmId"`
	Price        int64  `json:"price"`
	PriceDisplay string `json:"priceDisplay"`
}

type ItemPrices struct {
	ItemID      int64        `json:"itemId"`
	RealmPrices []RealmPrice `json:"realmPrices"`
	MinPrice    int64        `json:"minPrice"`
	MaxPrice    int64        `json:"maxPrice"`
	MeanPrice   int64        `json:"meanPrice"`
}

// ScanRequest triggers an out-of-schedule market sweep. An empty realm list
// means the full connected-realm index.
type ScanRequest struct {
	RealmIDs []int64 `json:"realmIds" validate:"omitempty,dive,gt=0"`
}

type ScanAccepted struct {
	TaskID string `json:"taskId"`
}

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type ErrorCode string
