package providers

import (
	"context"

	"github.com/aicaremanager/backend/internal/domain/entities"
)

// FacilitySource fetches raw institution records for one region scope
type FacilitySource interface {
	// FetchRecords returns the raw records published for kind in scope.
	// A nil error with an empty slice means the source has no data.
	FetchRecords(ctx context.Context, kind entities.FacilityKind, scope entities.RegionScope) ([]entities.RawRecord, error)
}
