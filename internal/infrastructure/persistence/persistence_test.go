package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/internal/infrastructure/persistence"
	"github.com/nefeygt/wowscraper/pkg/dbtest"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/0001_init.sql"))
	db.MustExec(`TRUNCATE auctions, items, realms`)

	return db
}

func buyout(v int64) *int64 {
	return &v
}

func TestAuctionRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := persistence.NewAuctionRepository(testDB(t))

	now := time.Now()
	snapshot := []entity.Auction{
		{ID: 1, ItemID: 19019, RealmID: 1080, Buyout: buyout(1_000_000), Quantity: 1, ScannedAt: now},
		{ID: 2, ItemID: 19019, RealmID: 1080, Buyout: buyout(900_000), Quantity: 1, ScannedAt: now},
		{ID: 3, ItemID: 19019, RealmID: 1080, Quantity: 1, ScannedAt: now},
		{ID: 4, ItemID: 2589, RealmID: 1080, Buyout: buyout(75), Quantity: 200, ScannedAt: now},
	}

	rq.NoError(repo.ReplaceRealm(ctx, 1080, snapshot))
	rq.NoError(repo.ReplaceRealm(ctx, 509, []entity.Auction{
		{ID: 1, ItemID: 19019, RealmID: 509, Buyout: buyout(5_000_000), Quantity: 1, ScannedAt: now},
	}))

	t.Run("realm minimums keep the cheapest buyout per pair", func(t *testing.T) {
		observations, err := repo.RealmMinimums(ctx)
		rq.NoError(err)
		rq.Len(observations, 3)

		byKey := map[[2]int64]int64{}
		for _, obs := range observations {
			byKey[[2]int64{obs.ItemID, obs.RealmID}] = obs.Price
		}

		rq.Equal(int64(900_000), byKey[[2]int64{19019, 1080}], "bid-only listing is ignored")
		rq.Equal(int64(5_000_000), byKey[[2]int64{19019, 509}])
		rq.Equal(int64(75), byKey[[2]int64{2589, 1080}])
	})

	t.Run("item realm minimums", func(t *testing.T) {
		prices, err := repo.ItemRealmMinimums(ctx, 19019)
		rq.NoError(err)
		rq.Len(prices, 2)
	})

	t.Run("replace swaps the whole realm snapshot", func(t *testing.T) {
		rq.NoError(repo.ReplaceRealm(ctx, 1080, []entity.Auction{
			{ID: 9, ItemID: 2589, RealmID: 1080, Buyout: buyout(80), Quantity: 100, ScannedAt: now},
		}))

		observations, err := repo.RealmMinimums(ctx)
		rq.NoError(err)

		for _, obs := range observations {
			if obs.RealmID == 1080 {
				rq.Equal(int64(2589), obs.ItemID)
				rq.Equal(int64(80), obs.Price)
			}
		}
	})

	t.Run("distinct item ids", func(t *testing.T) {
		ids, err := repo.DistinctItemIDs(ctx)
		rq.NoError(err)
		rq.ElementsMatch([]int64{19019, 2589}, ids)
	})
}

func TestItemRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := persistence.NewItemRepository(testDB(t))

	item := entity.Item{ID: 19019, Name: "Thunderfury", Quality: "LEGENDARY", IconURL: "https://example.com/icon.jpg"}

	rq.NoError(repo.Upsert(ctx, item))

	got, err := repo.GetByID(ctx, 19019)
	rq.NoError(err)
	rq.Equal(item, got)

	item.Name = "Thunderfury, Blessed Blade"
	rq.NoError(repo.Upsert(ctx, item))

	got, err = repo.GetByID(ctx, 19019)
	rq.NoError(err)
	rq.Equal("Thunderfury, Blessed Blade", got.Name)

	existing, err := repo.ExistingIDs(ctx, []int64{19019, 2589})
	rq.NoError(err)
	rq.Contains(existing, int64(19019))
	rq.NotContains(existing, int64(2589))

	_, err = repo.GetByID(ctx, 2589)
	rq.Error(err)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.ItemNotFound, code)
}

func TestRealmRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := persistence.NewRealmRepository(testDB(t))

	rq.NoError(repo.UpsertBatch(ctx, []entity.Realm{
		{ID: 1080, Name: "Khadgar / Bloodhoof"},
		{ID: 509, Name: "Azuremyst"},
	}))

	realms, err := repo.List(ctx)
	rq.NoError(err)
	rq.Len(realms, 2)
	rq.Equal(int64(509), realms[0].ID, "listed in id order")

	got, err := repo.GetByID(ctx, 1080)
	rq.NoError(err)
	rq.Equal("Khadgar / Bloodhoof", got.Name)

	_, err = repo.GetByID(ctx, 42)
	rq.Error(err)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.RealmNotFound, code)
}
