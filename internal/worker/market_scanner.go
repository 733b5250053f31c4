package worker

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/pkg/logx"
)

const (
	defaultRequestInterval = 200 * time.Millisecond
	defaultScanInterval    = 30 * time.Minute

	// itemMemoTTL stops the scanner from re-fetching metadata of an item the
	// static API could not resolve on every cycle.
	itemMemoTTL = 24 * time.Hour
)

// MarketScanner refreshes auction snapshots realm by realm, enriches newly
// seen items with static data and rebuilds the deal report after each cycle.
type MarketScanner struct {
	api      GameDataClient
	auctions AuctionStore
	items    ItemStore
	realms   RealmStore
	deals    DealReporter
	alerts   chan<- entity.Deal

	realmIDs []int64

	requestInterval time.Duration
	scanInterval    time.Duration
	lastRequest     time.Time
	itemMemo        *cache.Cache

	// Control fields
	mu         sync.Mutex
	scanMu     sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewMarketScanner(
	api GameDataClient,
	auctions AuctionStore,
	items ItemStore,
	realms RealmStore,
	deals DealReporter,
) *MarketScanner {
	return &MarketScanner{
		api:             api,
		auctions:        auctions,
		items:           items,
		realms:          realms,
		deals:           deals,
		requestInterval: defaultRequestInterval,
		scanInterval:    defaultScanInterval,
		itemMemo:        cache.New(itemMemoTTL, itemMemoTTL),
	}
}

// WithAlerts publishes the top deals of every cycle to ch.
func (w *MarketScanner) WithAlerts(ch chan<- entity.Deal) *MarketScanner {
	w.alerts = ch
	return w
}

func (w *MarketScanner) WithRateControl(interval time.Duration) *MarketScanner {
	if interval > 0 {
		w.requestInterval = interval
	}
	return w
}

func (w *MarketScanner) WithScanInterval(interval time.Duration) *MarketScanner {
	if interval > 0 {
		w.scanInterval = interval
	}
	return w
}

func (w *MarketScanner) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scanner is already running")
	}

	scanCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(scanCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(scanCtx).Error("scanner stopped", logx.Error(err))
		}
	}()

	return nil
}

func (w *MarketScanner) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *MarketScanner) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// Run scans until the context is cancelled. Auction dumps refresh upstream
// roughly once an hour, so cycles are spaced by scanInterval rather than
// back to back.
func (w *MarketScanner) Run(ctx context.Context) error {
	logger(ctx).Info("market scanner started",
		slog.Duration("scan_interval", w.scanInterval),
		slog.Duration("request_interval", w.requestInterval))

	for {
		if err := w.ScanRealms(ctx, w.Realms()); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger(ctx).Error("scan cycle failed", logx.Error(err))
		}

		select {
		case <-ctx.Done():
			logger(ctx).Info("market scanner stopped")
			return ctx.Err()
		case <-time.After(w.scanInterval):
		}
	}
}

// ScanRealms refreshes the given realms, or every known realm when ids is
// empty. One failing realm is logged and skipped; the cycle continues.
func (w *MarketScanner) ScanRealms(ctx context.Context, realmIDs []int64) error {
	// Cycles never overlap; an on-demand scan queued during the periodic one
	// waits its turn.
	w.scanMu.Lock()
	defer w.scanMu.Unlock()

	start := time.Now()

	if len(realmIDs) == 0 {
		var err error
		if realmIDs, err = w.allRealmIDs(ctx); err != nil {
			scanErrorsTotal.WithLabelValues("realm_list").Inc()
			return err
		}
	}

	logger(ctx).Info("scan cycle started", logx.Int64s("realm_ids", realmIDs))

	var scanned int
	for _, realmID := range realmIDs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := w.scanRealm(ctx, realmID); err != nil {
			scanErrorsTotal.WithLabelValues("realm_scan").Inc()
			logger(ctx).Error("realm scan failed",
				slog.Int64(logx.FieldRealmID, realmID), logx.Error(err))
			continue
		}
		scanned++
	}

	if scanned == 0 {
		return errors.New("no realm could be scanned")
	}

	if err := w.enrichItems(ctx); err != nil {
		scanErrorsTotal.WithLabelValues("item_enrich").Inc()
		logger(ctx).Error("item enrichment failed", logx.Error(err))
	}

	w.deals.InvalidateReport(ctx)
	w.publishReport(ctx)

	scanCyclesTotal.Inc()
	logger(ctx).Info("scan cycle completed",
		slog.Int("realms_scanned", scanned),
		slog.Duration("took", time.Since(start)))

	return nil
}

func (w *MarketScanner) allRealmIDs(ctx context.Context) ([]int64, error) {
	realms, err := w.realms.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(realms) == 0 {
		return w.api.ConnectedRealmIDs(ctx)
	}

	ids := make([]int64, 0, len(realms))
	for _, realm := range realms {
		ids = append(ids, realm.ID)
	}

	return ids, nil
}

func (w *MarketScanner) scanRealm(ctx context.Context, realmID int64) error {
	if err := w.waitForNextSlot(ctx); err != nil {
		return err
	}

	start := time.Now()

	listings, err := w.api.Auctions(ctx, realmID)
	if err != nil {
		return err
	}

	scannedAt := time.Now()

	auctions := make([]entity.Auction, 0, len(listings))
	for _, listing := range listings {
		var buyout *int64
		if price := listing.BuyoutPrice(); price > 0 {
			buyout = &price
		}

		auctions = append(auctions, entity.Auction{
			ID:        listing.ID,
			ItemID:    listing.Item.ID,
			RealmID:   realmID,
			Buyout:    buyout,
			Quantity:  int(listing.Quantity),
			TimeLeft:  listing.TimeLeft,
			ScannedAt: scannedAt,
		})
	}

	if err := w.auctions.ReplaceRealm(ctx, realmID, auctions); err != nil {
		return err
	}

	realmScanDuration.Observe(time.Since(start).Seconds())
	snapshotAuctions.WithLabelValues(strconv.FormatInt(realmID, 10)).Set(float64(len(auctions)))

	return nil
}

// enrichItems fetches static data for item ids that appeared in a snapshot
// but have no stored metadata yet.
func (w *MarketScanner) enrichItems(ctx context.Context) error {
	ids, err := w.auctions.DistinctItemIDs(ctx)
	if err != nil {
		return err
	}

	existing, err := w.items.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}

	var enriched int
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			continue
		}

		key := strconv.FormatInt(id, 10)
		if _, memoized := w.itemMemo.Get(key); memoized {
			continue
		}
		w.itemMemo.SetDefault(key, struct{}{})

		if err := w.enrichItem(ctx, id); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			logger(ctx).Warn("item lookup failed",
				slog.Int64(logx.FieldItemID, id), logx.Error(err))
			continue
		}
		enriched++
	}

	if enriched > 0 {
		logger(ctx).Info("items enriched", slog.Int("count", enriched))
	}

	return nil
}

func (w *MarketScanner) enrichItem(ctx context.Context, id int64) error {
	if err := w.waitForNextSlot(ctx); err != nil {
		return err
	}

	item, err := w.api.Item(ctx, id)
	if err != nil {
		return err
	}

	if err := w.waitForNextSlot(ctx); err != nil {
		return err
	}

	// A missing icon is cosmetic, the item is stored either way.
	iconURL, err := w.api.ItemIconURL(ctx, id)
	if err != nil {
		iconURL = ""
	}

	return w.items.Upsert(ctx, entity.Item{
		ID:      item.ID,
		Name:    item.Name,
		Quality: item.Quality.Type,
		IconURL: iconURL,
	})
}

func (w *MarketScanner) publishReport(ctx context.Context) {
	if w.alerts == nil {
		return
	}

	report, err := w.deals.Report(ctx)
	if err != nil {
		logger(ctx).Error("deal report failed", logx.Error(err))
		return
	}

	for _, deal := range report {
		select {
		case w.alerts <- deal:
		case <-ctx.Done():
			return
		}
	}
}

func (w *MarketScanner) waitForNextSlot(ctx context.Context) error {
	if w.lastRequest.IsZero() {
		w.lastRequest = time.Now()
		return nil
	}

	elapsed := time.Since(w.lastRequest)
	if elapsed >= w.requestInterval {
		w.lastRequest = time.Now()
		return nil
	}

	wait := w.requestInterval - elapsed

	select {
	case <-time.After(wait):
		w.lastRequest = time.Now()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
