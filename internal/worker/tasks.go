package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"github.com/nefeygt/wowscraper/pkg/application/modules"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	TaskMarketScan = "market:scan"
	TaskRealmsSync = "realms:sync"
)

type ScanPayload struct {
	RealmIDs []int64 `json:"realm_ids,omitempty"`
}

// NewScanTask enqueues a snapshot refresh for the given realms, or for all
// realms when ids is empty.
func NewScanTask(realmIDs []int64) (*asynq.Task, error) {
	payload, err := json.Marshal(ScanPayload{RealmIDs: realmIDs})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TaskMarketScan, payload), nil
}

func NewRealmsSyncTask() *asynq.Task {
	return asynq.NewTask(TaskRealmsSync, nil)
}

func (w *MarketScanner) AsynqHandler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TaskMarketScan,
		Handle: func(ctx context.Context, task *asynq.Task) error {
			var payload ScanPayload
			if len(task.Payload()) > 0 {
				if err := json.Unmarshal(task.Payload(), &payload); err != nil {
					return fmt.Errorf("json.Unmarshal: %w", err)
				}
			}

			return w.ScanRealms(ctx, payload.RealmIDs)
		},
	}
}

func (s *RealmSyncer) AsynqHandler() modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TaskRealmsSync,
		Handle: func(ctx context.Context, task *asynq.Task) error {
			return s.Sync(ctx)
		},
	}
}
