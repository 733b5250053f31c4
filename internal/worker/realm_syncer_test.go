package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nefeygt/wowscraper/internal/infrastructure/blizzard"
	"github.com/nefeygt/wowscraper/internal/worker"
)

type syncerAPI struct {
	stubAPI
	details map[int64]blizzard.ConnectedRealm
}

func (s *syncerAPI) ConnectedRealm(_ context.Context, id int64) (blizzard.ConnectedRealm, error) {
	return s.details[id], nil
}

func TestRealmSyncer(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	api := &syncerAPI{
		stubAPI: stubAPI{realmIDs: []int64{1080, 509}},
		details: map[int64]blizzard.ConnectedRealm{
			1080: {ID: 1080, Realms: []blizzard.Realm{
				{ID: 1080, Name: "Khadgar", Slug: "khadgar"},
				{ID: 1081, Name: "Bloodhoof", Slug: "bloodhoof"},
			}},
			509: {ID: 509, Realms: []blizzard.Realm{
				{ID: 509, Name: "Azuremyst", Slug: "azuremyst"},
			}},
		},
	}
	store := &stubRealmStore{}

	syncer := worker.NewRealmSyncer(api, store).WithRateControl(time.Millisecond)

	rq.NoError(syncer.Sync(ctx))

	rq.Len(store.upserted, 2)
	rq.Equal(int64(1080), store.upserted[0].ID)
	rq.Equal("Khadgar / Bloodhoof", store.upserted[0].Name)
	rq.Equal("Azuremyst", store.upserted[1].Name)
}
