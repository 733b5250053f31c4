package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/nefeygt/wowscraper/internal/config"
	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/internal/domain/service/deals"
	"github.com/nefeygt/wowscraper/internal/infrastructure/blizzard"
	"github.com/nefeygt/wowscraper/internal/infrastructure/notifier"
	"github.com/nefeygt/wowscraper/internal/infrastructure/persistence"
	"github.com/nefeygt/wowscraper/internal/server"
	"github.com/nefeygt/wowscraper/internal/worker"
	"github.com/nefeygt/wowscraper/pkg/application/connectors"
	"github.com/nefeygt/wowscraper/pkg/application/modules"
	"github.com/nefeygt/wowscraper/pkg/contextx"
	"github.com/nefeygt/wowscraper/pkg/httpx"
	"github.com/nefeygt/wowscraper/pkg/logx"
	"github.com/nefeygt/wowscraper/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	appName = "wowscraper"

	httpReadHeaderTimeout = 10 * time.Second
	apiClientTimeout      = 120 * time.Second
	authClientTimeout     = 15 * time.Second
	alertsBufferSize      = 100
)

//nolint:funlen // linear wiring
func Run(ctx context.Context, version string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Postgres.ConnMaxIdleTime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	redisConnector := &connectors.Redis{
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		Address:            cfg.Redis.Address,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := redisConnector.Client(ctx)
	defer redisConnector.Close(ctx)

	auctionRepo := persistence.NewAuctionRepository(db)
	itemRepo := persistence.NewItemRepository(db)
	realmRepo := persistence.NewRealmRepository(db)

	masker := logx.NewSensitiveDataMasker()

	authenticator := blizzard.NewAuthenticator(
		cfg.Blizzard.OAuthTokenURL(),
		cfg.Blizzard.ClientID,
		cfg.Blizzard.ClientSecret,
		&http.Client{
			Timeout: authClientTimeout,
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithSensitiveDataMasker(masker),
				httpx.WithLogFieldMaxLen(cfg.Blizzard.LogBodyMaxLen),
			),
		},
	)

	api := blizzard.NewClient(
		cfg.Blizzard.BaseURL(),
		cfg.Blizzard.Region,
		cfg.Blizzard.Locale,
		&http.Client{
			Timeout: apiClientTimeout,
			Transport: httpx.NewAuthBearerRoundTripper(
				httpx.NewLoggingRoundTripper(
					http.DefaultTransport,
					httpx.WithSensitiveDataMasker(masker),
					httpx.WithLogFieldMaxLen(cfg.Blizzard.LogBodyMaxLen),
				),
				authenticator,
			),
		},
	)

	dealService := deals.NewService(auctionRepo, cfg.Pipeline.Thresholds()).
		WithReportCache(redisClient, cfg.Scanner.ReportCacheTTL)

	scanner := worker.NewMarketScanner(api, auctionRepo, itemRepo, realmRepo, dealService).
		WithRateControl(cfg.Scanner.RequestInterval).
		WithScanInterval(cfg.Scanner.ScanInterval)
	scanner.SetRealms(cfg.Scanner.RealmIDs)

	syncer := worker.NewRealmSyncer(api, realmRepo).
		WithRateControl(cfg.Scanner.RequestInterval)

	if cfg.Bot.Enabled() {
		alerts := make(chan entity.Deal, alertsBufferSize)
		scanner.WithAlerts(alerts)

		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID, itemRepo, realmRepo)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		g.Go(func() error {
			if err := alertBot.Run(ctx, alerts); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("alertBot.Run: %w", err)
			}
			return nil
		})
	}

	asynqRedis := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DatabaseNumber,
	}

	asynqClient := asynq.NewClient(asynqRedis)
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger(ctx).Error("asynqClient.Close", logx.Error(err))
		}
	}()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.Blizzard.LogBodyMaxLen),
		middlewarex.ResponseLogging(masker, cfg.Blizzard.LogBodyMaxLen),
	)
	server.NewServer(
		server.NewDealServer(dealService, itemRepo, asynqClient),
	).RegisterRoutes(router)

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	})

	modules.ProbeServer{
		Name:          appName,
		Version:       version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
	}.Run(ctx, g)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
		Concurrency:   cfg.Scanner.WorkerConcurrency,
	}.Run(ctx, g,
		modules.AsynqQueues{"default": 1},
		scanner.AsynqHandler(),
		syncer.AsynqHandler(),
	)

	g.Go(func() error {
		if err := syncer.Sync(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			// The scanner falls back to the connected realm index until the
			// next sync succeeds.
			logger(ctx).Error("initial realm sync failed", logx.Error(err))
		}

		if err := scanner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scanner.Run: %w", err)
		}

		return nil
	})

	return g.Wait() //nolint:wrapcheck
}
