package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/nefeygt/wowscraper/internal/config"
	"github.com/nefeygt/wowscraper/internal/domain/service/deals"
	"github.com/nefeygt/wowscraper/internal/infrastructure/persistence"
	"github.com/nefeygt/wowscraper/pkg/application/connectors"
	"github.com/nefeygt/wowscraper/pkg/moneyfmt"
)

// go run ./cmd/finddeals [min_ratio]
//
// Prints the current deal report from the stored auction snapshots without
// touching the upstream API.

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)

	if err := run(ctx, log); err != nil {
		log.Error("finddeals failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	thresholds := cfg.Pipeline.Thresholds()

	if len(os.Args) >= 2 {
		minRatio, err := strconv.ParseFloat(os.Args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid min ratio %q: %w", os.Args[1], err)
		}
		thresholds.MinRatio = minRatio
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	auctionRepo := persistence.NewAuctionRepository(db)
	itemRepo := persistence.NewItemRepository(db)
	realmRepo := persistence.NewRealmRepository(db)

	report, err := deals.NewService(auctionRepo, thresholds).Report(ctx)
	if err != nil {
		return fmt.Errorf("deal report: %w", err)
	}

	if len(report) == 0 {
		log.Info("no deals above the ratio threshold", "min_ratio", thresholds.MinRatio)
		return nil
	}

	for i, deal := range report {
		itemName := "item " + strconv.FormatInt(deal.ItemID, 10)
		if item, err := itemRepo.GetByID(ctx, deal.ItemID); err == nil && item.Name != "" {
			itemName = item.Name
		}

		buyRealm := "realm " + strconv.FormatInt(deal.MinRealmID, 10)
		if realm, err := realmRepo.GetByID(ctx, deal.MinRealmID); err == nil && realm.Name != "" {
			buyRealm = realm.Name
		}

		sellRealm := "realm " + strconv.FormatInt(deal.MaxRealmID, 10)
		if realm, err := realmRepo.GetByID(ctx, deal.MaxRealmID); err == nil && realm.Name != "" {
			sellRealm = realm.Name
		}

		fmt.Printf("%2d. %-40s %6.1fx  buy %s on %s, sell %s on %s\n",
			i+1,
			itemName,
			deal.Ratio,
			moneyfmt.Copper(deal.MinPrice), buyRealm,
			moneyfmt.Copper(deal.MaxPrice), sellRealm,
		)
	}

	return nil
}
