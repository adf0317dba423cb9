package cache

import (
	"context"
	"time"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
)

// MemoryRecordCache keeps raw record lists in process memory
type MemoryRecordCache struct {
	store *ExpiringCache[providers.RecordCacheKey, []entities.RawRecord]
}

// NewMemoryRecordCache creates an in-process record cache
func NewMemoryRecordCache(ttl time.Duration, now func() time.Time) providers.RecordCache {
	return &MemoryRecordCache{
		store: NewExpiringCache[providers.RecordCacheKey, []entities.RawRecord](ttl, now),
	}
}

// Get returns the cached records for key
func (c *MemoryRecordCache) Get(_ context.Context, key providers.RecordCacheKey) ([]entities.RawRecord, bool) {
	return c.store.Get(key)
}

// Put stores records for key
func (c *MemoryRecordCache) Put(_ context.Context, key providers.RecordCacheKey, records []entities.RawRecord) {
	c.store.Set(key, records)
}
