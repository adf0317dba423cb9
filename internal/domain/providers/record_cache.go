package providers

import (
	"context"
	"fmt"

	"github.com/aicaremanager/backend/internal/domain/entities"
)

// NoWeekday marks a cache key that does not depend on the day of week
const NoWeekday = -1

// RecordCacheKey identifies the query scope of a cached record list.
// Weekday is only set for pharmacy lookups.
type RecordCacheKey struct {
	Kind     entities.FacilityKind
	Province string
	District string
	Weekday  int
}

// String renders the key for string-keyed backends
func (k RecordCacheKey) String() string {
	return fmt.Sprintf("records:v1:%s:%s:%s:%d", k.Kind, k.Province, k.District, k.Weekday)
}

// RecordCache stores raw record lists per query scope
type RecordCache interface {
	// Get returns the cached records, or false when absent or expired
	Get(ctx context.Context, key RecordCacheKey) ([]entities.RawRecord, bool)

	// Put stores records under key, replacing any previous entry
	Put(ctx context.Context, key RecordCacheKey, records []entities.RawRecord)
}
