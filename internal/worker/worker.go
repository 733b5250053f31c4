package worker

import (
	"context"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/internal/infrastructure/blizzard"
	"github.com/nefeygt/wowscraper/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// GameDataClient is the slice of the battle.net API the workers consume.
type GameDataClient interface {
	ConnectedRealmIDs(ctx context.Context) ([]int64, error)
	ConnectedRealm(ctx context.Context, id int64) (blizzard.ConnectedRealm, error)
	Auctions(ctx context.Context, connectedRealmID int64) ([]blizzard.Auction, error)
	Item(ctx context.Context, id int64) (blizzard.Item, error)
	ItemIconURL(ctx context.Context, id int64) (string, error)
}

type AuctionStore interface {
	ReplaceRealm(ctx context.Context, realmID int64, auctions []entity.Auction) error
	DistinctItemIDs(ctx context.Context) ([]int64, error)
}

type ItemStore interface {
	Upsert(ctx context.Context, item entity.Item) error
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
}

type RealmStore interface {
	UpsertBatch(ctx context.Context, realms []entity.Realm) error
	List(ctx context.Context) ([]entity.Realm, error)
}

// DealReporter is the analysis surface the scanner pokes after a refresh.
type DealReporter interface {
	InvalidateReport(ctx context.Context)
	Report(ctx context.Context) ([]entity.Deal, error)
}
