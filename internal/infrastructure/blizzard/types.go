package blizzard

type link struct {
	Href string `json:"href"`
}

type connectedRealmIndexResponse struct {
	ConnectedRealms []link `json:"connected_realms"`
}

type Realm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ConnectedRealm is one auction-house shard. Several realms share one
// connected realm and therefore one auction house.
type ConnectedRealm struct {
	ID     int64   `json:"id"`
	Realms []Realm `json:"realms"`
}

type AuctionItem struct {
	ID int64 `json:"id"`
}

// Auction is a single listing. Buyout is absent on bid-only listings;
// commodity listings carry UnitPrice instead of Buyout. All prices are in
// copper.
type Auction struct {
	ID        int64       `json:"id"`
	Item      AuctionItem `json:"item"`
	Bid       *int64      `json:"bid,omitempty"`
	Buyout    *int64      `json:"buyout,omitempty"`
	UnitPrice *int64      `json:"unit_price,omitempty"`
	Quantity  int64       `json:"quantity"`
	TimeLeft  string      `json:"time_left"`
}

// BuyoutPrice returns the instant-purchase price per listing, zero when the
// listing cannot be bought out.
func (a Auction) BuyoutPrice() int64 {
	switch {
	case a.Buyout != nil && *a.Buyout > 0:
		return *a.Buyout
	case a.UnitPrice != nil && *a.UnitPrice > 0:
		return *a.UnitPrice
	default:
		return 0
	}
}

type auctionsResponse struct {
	Auctions []Auction `json:"auctions"`
}

type ItemQuality struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type Item struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Quality       ItemQuality `json:"quality"`
	Level         int         `json:"level"`
	PurchasePrice int64       `json:"purchase_price"`
	SellPrice     int64       `json:"sell_price"`
}

type mediaAsset struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type itemMediaResponse struct {
	Assets []mediaAsset `json:"assets"`
}
