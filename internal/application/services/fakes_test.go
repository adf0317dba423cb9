package services

import (
	"context"
	"time"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/aicaremanager/backend/pkg/utils"
	"github.com/stretchr/testify/mock"
)

type MockFacilitySource struct {
	mock.Mock
}

func (m *MockFacilitySource) FetchRecords(ctx context.Context, kind entities.FacilityKind, scope entities.RegionScope) ([]entities.RawRecord, error) {
	args := m.Called(ctx, kind, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawRecord), args.Error(1)
}

type MockAdvisoryProvider struct {
	mock.Mock
}

func (m *MockAdvisoryProvider) GenerateAdvisory(ctx context.Context, req providers.AdvisoryRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Monday 2026-10-12 at the given Seoul wall-clock time
func mondayAt(hour, minute int) func() time.Time {
	t := time.Date(2026, 10, 12, hour, minute, 0, 0, utils.SeoulLocation)
	return func() time.Time { return t }
}

const (
	originLat = 37.5704
	originLng = 126.9830
)

var jongno = entities.RegionScope{Province: "서울특별시", District: "종로구"}
