package deals

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/nefeygt/wowscraper/internal/domain"
	"github.com/nefeygt/wowscraper/internal/domain/entity"
	"github.com/nefeygt/wowscraper/pkg/contextx"
	"github.com/nefeygt/wowscraper/pkg/errcodes"
	"github.com/nefeygt/wowscraper/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const reportCacheKey = "deals:ranked"

type ObservationRepository interface {
	RealmMinimums(ctx context.Context) ([]entity.PriceObservation, error)
	ItemRealmMinimums(ctx context.Context, itemID int64) ([]entity.RealmPrice, error)
}

// Service runs the pipeline over the latest stored snapshot. The ranked list
// is cached in redis while a scan is hot; the original recomputed the whole
// analysis on every request.
type Service struct {
	repo       ObservationRepository
	pipeline   *Pipeline
	thresholds Thresholds

	cache    *redis.Client
	cacheTTL time.Duration
}

func NewService(repo ObservationRepository, thresholds Thresholds) *Service {
	return &Service{
		repo:       repo,
		pipeline:   NewPipeline(thresholds),
		thresholds: thresholds,
	}
}

// WithReportCache enables the redis-backed ranked-list cache. Cache failures
// degrade to a recompute, never to a request failure.
func (s *Service) WithReportCache(client *redis.Client, ttl time.Duration) *Service {
	s.cache = client
	s.cacheTTL = ttl
	return s
}

func (s *Service) Thresholds() Thresholds {
	return s.thresholds
}

// Analyze returns the full ranked deal list for the current snapshot. An
// empty market yields an empty list; only a failing data source is an error.
func (s *Service) Analyze(ctx context.Context) ([]entity.Deal, error) {
	if cached, ok := s.cachedReport(ctx); ok {
		return cached, nil
	}

	observations, err := s.repo.RealmMinimums(ctx)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.UpstreamUnavailable, "failed to load realm minimums")
	}

	ranked, err := s.pipeline.Run(ctx, observations)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "pipeline run failed")
	}

	s.storeReport(ctx, ranked)

	return ranked, nil
}

// Report returns the top-N deals.
func (s *Service) Report(ctx context.Context) ([]entity.Deal, error) {
	ranked, err := s.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	return TopDeals(ranked, s.thresholds.ReportLimit), nil
}

// PageOf returns one page of the ranked list plus the total count.
func (s *Service) PageOf(ctx context.Context, page, pageSize int) ([]entity.Deal, int, error) {
	if pageSize <= 0 {
		pageSize = s.thresholds.PageSize
	}

	if page < 1 {
		return nil, 0, domain.NewError(errcodes.InvalidPaging, "page must be >= 1")
	}

	ranked, err := s.Analyze(ctx)
	if err != nil {
		return nil, 0, err
	}

	return PageDeals(ranked, page, pageSize), len(ranked), nil
}

// InvalidateReport drops the cached ranked list; the scanner calls this after
// refreshing a snapshot.
func (s *Service) InvalidateReport(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, reportCacheKey).Err(); err != nil {
		logger(ctx).Warn("report cache invalidate failed", logx.Error(err))
	}
}

func (s *Service) cachedReport(ctx context.Context) ([]entity.Deal, bool) {
	if s.cache == nil {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, reportCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger(ctx).Warn("report cache read failed", logx.Error(err))
		}
		return nil, false
	}

	var ranked []entity.Deal
	if err := json.Unmarshal(payload, &ranked); err != nil {
		logger(ctx).Warn("report cache decode failed", logx.Error(err))
		return nil, false
	}

	return ranked, true
}

func (s *Service) storeReport(ctx context.Context, ranked []entity.Deal) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(ranked)
	if err != nil {
		logger(ctx).Warn("report cache encode failed", logx.Error(err))
		return
	}

	if err := s.cache.Set(ctx, reportCacheKey, payload, s.cacheTTL).Err(); err != nil {
		logger(ctx).Warn("report cache write failed", logx.Error(err))
	}
}
