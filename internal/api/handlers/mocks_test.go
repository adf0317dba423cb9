package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aicaremanager/backend/internal/application/services"
	"github.com/aicaremanager/backend/internal/domain/entities"
)

type MockPharmacyService struct {
	mock.Mock
}

func (m *MockPharmacyService) GetOpenStatus(ctx context.Context, req services.PharmacyStatusRequest) []entities.PharmacyOpenStatus {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]entities.PharmacyOpenStatus)
}

type MockNearbyService struct {
	mock.Mock
}

func (m *MockNearbyService) NearbyHospitals(ctx context.Context, query entities.PlaceQuery) []entities.NormalizedPlace {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]entities.NormalizedPlace)
}

func (m *MockNearbyService) NearbyEmergency(ctx context.Context, query entities.PlaceQuery) []entities.NormalizedPlace {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]entities.NormalizedPlace)
}

type MockVoiceTurnService struct {
	mock.Mock
}

func (m *MockVoiceTurnService) Run(ctx context.Context, req services.VoiceTurnRequest) entities.VoiceTurnResult {
	args := m.Called(ctx, req)
	return args.Get(0).(entities.VoiceTurnResult)
}
