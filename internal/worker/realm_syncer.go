package worker

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/internal/infrastructure/blizzard"
	"github.com/nefeygt/wowscraper/pkg/logx"
)

// RealmSyncer mirrors the region's connected realm list into the database.
// A connected realm joins several in-game servers under one auction house,
// so its display name is the member names joined together.
type RealmSyncer struct {
	api    GameDataClient
	realms RealmStore

	requestInterval time.Duration
	lastRequest     time.Time
}

func NewRealmSyncer(api GameDataClient, realms RealmStore) *RealmSyncer {
	return &RealmSyncer{
		api:             api,
		realms:          realms,
		requestInterval: defaultRequestInterval,
	}
}

func (s *RealmSyncer) WithRateControl(interval time.Duration) *RealmSyncer {
	if interval > 0 {
		s.requestInterval = interval
	}
	return s
}

// Sync fetches every connected realm and upserts the batch. A realm whose
// detail call fails is logged and skipped; the sync fails only when nothing
// could be resolved.
func (s *RealmSyncer) Sync(ctx context.Context) error {
	ids, err := s.api.ConnectedRealmIDs(ctx)
	if err != nil {
		return err
	}

	realms := make([]entity.Realm, 0, len(ids))
	for _, id := range ids {
		if err := s.waitForNextSlot(ctx); err != nil {
			return err
		}

		detail, err := s.api.ConnectedRealm(ctx, id)
		if err != nil {
			logger(ctx).Warn("realm detail failed",
				slog.Int64(logx.FieldRealmID, id), logx.Error(err))
			continue
		}

		realms = append(realms, entity.Realm{
			ID:   detail.ID,
			Name: connectedRealmName(detail.Realms),
		})
	}

	if len(realms) == 0 {
		return errors.New("no connected realm could be resolved")
	}

	if err := s.realms.UpsertBatch(ctx, realms); err != nil {
		return err
	}

	logger(ctx).Info("realm list synced", slog.Int("count", len(realms)))

	return nil
}

func connectedRealmName(realms []blizzard.Realm) string {
	names := make([]string, 0, len(realms))
	for _, realm := range realms {
		names = append(names, realm.Name)
	}
	return strings.Join(names, " / ")
}

func (s *RealmSyncer) waitForNextSlot(ctx context.Context) error {
	if s.lastRequest.IsZero() {
		s.lastRequest = time.Now()
		return nil
	}

	elapsed := time.Since(s.lastRequest)
	if elapsed >= s.requestInterval {
		s.lastRequest = time.Now()
		return nil
	}

	select {
	case <-time.After(s.requestInterval - elapsed):
		s.lastRequest = time.Now()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
