package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
)

// RedisRecordCache stores raw record lists as JSON in a shared cache.
// Backend errors degrade to misses so lookups keep working without it.
type RedisRecordCache struct {
	provider   providers.CacheProvider
	ttlSeconds int
}

// NewRedisRecordCache creates a record cache over a byte-level provider
func NewRedisRecordCache(provider providers.CacheProvider, ttl time.Duration) providers.RecordCache {
	seconds := int(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return &RedisRecordCache{provider: provider, ttlSeconds: seconds}
}

// Get decodes the cached records for key
func (c *RedisRecordCache) Get(ctx context.Context, key providers.RecordCacheKey) ([]entities.RawRecord, bool) {
	raw, err := c.provider.Get(ctx, key.String())
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key.String()).Msg("record cache read failed")
		}
		return nil, false
	}

	var records []entities.RawRecord
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&records); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key.String()).Msg("record cache entry undecodable")
		return nil, false
	}
	if records == nil {
		records = []entities.RawRecord{}
	}
	return records, true
}

// Put encodes records and stores them with the configured TTL
func (c *RedisRecordCache) Put(ctx context.Context, key providers.RecordCacheKey, records []entities.RawRecord) {
	if records == nil {
		records = []entities.RawRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key.String()).Msg("record cache encode failed")
		return
	}
	if err := c.provider.Set(ctx, key.String(), payload, c.ttlSeconds); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key.String()).Msg("record cache write failed")
	}
}
