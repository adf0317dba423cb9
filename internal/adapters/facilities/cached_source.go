package facilities

import (
	"context"
	"time"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	"github.com/aicaremanager/backend/pkg/utils"
)

// CachedSource wraps a FacilitySource with a read-through record cache.
// Keys carry the query scope only, so lookups with different radius or
// limit share one upstream fetch. Failed fetches are never cached.
type CachedSource struct {
	source  providers.FacilitySource
	cache   providers.RecordCache
	metrics *observability.Metrics
	now     func() time.Time
}

// NewCachedSource creates a cached facility source
func NewCachedSource(source providers.FacilitySource, cache providers.RecordCache, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		source:  source,
		cache:   cache,
		metrics: metrics,
		now:     utils.SeoulNow,
	}
}

// WithClock overrides the clock used to derive the weekday of pharmacy keys
func (s *CachedSource) WithClock(now func() time.Time) *CachedSource {
	s.now = now
	return s
}

var _ providers.FacilitySource = (*CachedSource)(nil)

// FetchRecords returns cached records for the scope or fetches and stores them
func (s *CachedSource) FetchRecords(ctx context.Context, kind entities.FacilityKind, scope entities.RegionScope) ([]entities.RawRecord, error) {
	scope = scope.Trimmed()
	key := s.cacheKey(kind, scope)
	logger := observability.LoggerFromContext(ctx)

	if records, ok := s.cache.Get(ctx, key); ok {
		observability.RecordCacheHit(ctx, s.metrics, string(kind))
		logger.Debug().Str("key", key.String()).Int("records", len(records)).Msg("record cache hit")
		return records, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics, string(kind))
	logger.Debug().Str("key", key.String()).Msg("record cache miss")

	records, err := s.source.FetchRecords(ctx, kind, scope)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entities.RawRecord{}
	}

	s.cache.Put(ctx, key, records)
	return records, nil
}

func (s *CachedSource) cacheKey(kind entities.FacilityKind, scope entities.RegionScope) providers.RecordCacheKey {
	key := providers.RecordCacheKey{
		Kind:     kind,
		Province: scope.Province,
		District: scope.District,
		Weekday:  providers.NoWeekday,
	}
	// Pharmacy duty hours are read per weekday, so entries must not cross days.
	if kind == entities.FacilityKindPharmacy {
		key.Weekday = utils.WeekdayIndex(s.now())
	}
	return key
}
