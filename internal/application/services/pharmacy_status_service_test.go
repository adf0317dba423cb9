package services

import (
	"context"
	"testing"

	"github.com/aicaremanager/backend/internal/domain/entities"
	apperrors "github.com/aicaremanager/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jongnoPharmacies() []entities.RawRecord {
	return []entities.RawRecord{
		{"dutyName": "온누리약국종로점", "dutyTime1s": "0900", "dutyTime1c": "2100", "dutyTime8s": "1000", "dutyTime8c": "1400"},
		{"dutyName": "종로중앙약국", "dutyTime1s": "0800", "dutyTime1c": "2200"},
	}
}

func TestGetOpenStatus_MondayAfternoon(t *testing.T) {
	source := new(MockFacilitySource)
	source.On("FetchRecords", mock.Anything, entities.FacilityKindPharmacy, jongno).Return(jongnoPharmacies(), nil)

	now := 1430
	results := NewPharmacyStatusService(source).WithClock(mondayAt(3, 0)).GetOpenStatus(context.Background(), PharmacyStatusRequest{
		Region:  jongno,
		Names:   []string{"온누리약국 종로점", "종로 중앙약국", "없는약국"},
		NowHHMM: &now,
	})

	require.Len(t, results, 3)
	assert.Equal(t, entities.PharmacyOpenStatus{Name: "온누리약국 종로점", IsOpen: entities.OpenStatusOpen, OpenUntil: strPtr("21:00"), Source: "api"}, results[0])
	assert.Equal(t, entities.PharmacyOpenStatus{Name: "종로 중앙약국", IsOpen: entities.OpenStatusOpen, OpenUntil: strPtr("22:00"), Source: "api"}, results[1])
	assert.Equal(t, entities.PharmacyOpenStatus{Name: "없는약국", IsOpen: entities.OpenStatusUnknown, Source: "no_match"}, results[2])
}

func TestGetOpenStatus_DefaultsToClockAndHoliday(t *testing.T) {
	source := new(MockFacilitySource)
	source.On("FetchRecords", mock.Anything, entities.FacilityKindPharmacy, jongno).Return(jongnoPharmacies(), nil)
	svc := NewPharmacyStatusService(source).WithClock(mondayAt(21, 30))

	results := svc.GetOpenStatus(context.Background(), PharmacyStatusRequest{Region: jongno, Names: []string{"온누리약국", "종로중앙약국"}})
	require.Len(t, results, 2)
	assert.Equal(t, entities.OpenStatusClosed, results[0].IsOpen)
	assert.Nil(t, results[0].OpenUntil)
	assert.Equal(t, entities.OpenStatusOpen, results[1].IsOpen)

	results = svc.GetOpenStatus(context.Background(), PharmacyStatusRequest{Region: jongno, Names: []string{"온누리약국", "종로중앙약국"}, UseHoliday: true})
	assert.Equal(t, entities.OpenStatusClosed, results[0].IsOpen)
	assert.Equal(t, entities.OpenStatusUnknown, results[1].IsOpen, "no holiday hours published")
	assert.Equal(t, "api", results[1].Source)
}

func TestGetOpenStatus_FallbackDistrict(t *testing.T) {
	source := new(MockFacilitySource)
	primary := entities.RegionScope{Province: "경기도", District: "성남시 분당구"}
	fallback := entities.RegionScope{Province: "경기도", District: "성남시"}
	source.On("FetchRecords", mock.Anything, entities.FacilityKindPharmacy, primary).Return([]entities.RawRecord{}, nil)
	source.On("FetchRecords", mock.Anything, entities.FacilityKindPharmacy, fallback).Return([]entities.RawRecord{
		{"dutyName": "분당약국", "dutyTime1s": "0900", "dutyTime1c": "1800"},
	}, nil)

	now := 1000
	results := NewPharmacyStatusService(source).WithClock(mondayAt(10, 0)).GetOpenStatus(context.Background(), PharmacyStatusRequest{
		Region:           primary,
		Names:            []string{"분당약국"},
		NowHHMM:          &now,
		FallbackDistrict: "성남시",
	})

	require.Len(t, results, 1)
	assert.Equal(t, entities.OpenStatusOpen, results[0].IsOpen)
	source.AssertNumberOfCalls(t, "FetchRecords", 2)
}

func TestGetOpenStatus_NoFallbackWhenPrimaryHasRecords(t *testing.T) {
	source := new(MockFacilitySource)
	source.On("FetchRecords", mock.Anything, entities.FacilityKindPharmacy, jongno).Return(jongnoPharmacies(), nil)

	NewPharmacyStatusService(source).GetOpenStatus(context.Background(), PharmacyStatusRequest{
		Region: jongno, Names: []string{"없는약국"}, FallbackDistrict: "중구",
	})
	source.AssertNumberOfCalls(t, "FetchRecords", 1)
}

func TestGetOpenStatus_UpstreamFailureIsUniform(t *testing.T) {
	source := new(MockFacilitySource)
	source.On("FetchRecords", mock.Anything, entities.FacilityKindPharmacy, jongno).
		Return(nil, apperrors.NewExternalError("data.go.kr request failed", context.DeadlineExceeded))

	results := NewPharmacyStatusService(source).GetOpenStatus(context.Background(), PharmacyStatusRequest{
		Region: jongno, Names: []string{"온누리약국", "종로중앙약국"},
	})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, entities.OpenStatusUnknown, r.IsOpen)
		assert.Nil(t, r.OpenUntil)
		assert.Equal(t, "api_error", r.Source)
	}
}
