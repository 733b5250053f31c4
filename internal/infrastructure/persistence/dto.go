package persistence

import (
	"time"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
)

type auctionSchema struct {
	ID        int64     `db:"id"`
	ItemID    int64     `db:"item_id"`
	RealmID   int64     `db:"realm_id"`
	Buyout    *int64    `db:"buyout"`
	Quantity  int       `db:"quantity"`
	TimeLeft  string    `db:"time_left"`
	ScannedAt time.Time `db:"scanned_at"`
}

func fromAuction(e entity.Auction) auctionSchema {
	return auctionSchema{
		ID:        e.ID,
		ItemID:    e.ItemID,
		RealmID:   e.RealmID,
		Buyout:    e.Buyout,
		Quantity:  e.Quantity,
		TimeLeft:  e.TimeLeft,
		ScannedAt: e.ScannedAt,
	}
}

type itemSchema struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Quality   string    `db:"quality"`
	IconURL   string    `db:"icon_url"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s itemSchema) toDomain() entity.Item {
	return entity.Item{
		ID:      s.ID,
		Name:    s.Name,
		Quality: s.Quality,
		IconURL: s.IconURL,
	}
}

type realmSchema struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s realmSchema) toDomain() entity.Realm {
	return entity.Realm{
		ID:   s.ID,
		Name: s.Name,
	}
}
