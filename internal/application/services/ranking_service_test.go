package services

import (
	"regexp"
	"testing"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(name string, distance float64, status entities.OpenStatus) entities.NormalizedPlace {
	lat, lng := 37.57, 126.98
	return entities.NormalizedPlace{
		Name: name, Address: name + " 주소", DistanceKm: distance, OpenStatus: status,
		Category: "clinic", Latitude: &lat, Longitude: &lng,
	}
}

func reasons(places []entities.VoiceTurnPlace) []string {
	out := make([]string, len(places))
	for i, p := range places {
		out[i] = *p.RankReason
	}
	return out
}

func TestRankHospitals_OpenFirstThenDistance(t *testing.T) {
	svc := NewRankingService()
	places := []entities.NormalizedPlace{
		place("a-closed-near", 0.2, entities.OpenStatusClosed),
		place("b-open-far", 3.0, entities.OpenStatusOpen),
		place("c-unknown", 0.5, entities.OpenStatusUnknown),
		place("d-open-near", 1.0, entities.OpenStatusOpen),
		place("e-closed", 2.0, entities.OpenStatusClosed),
		place("f-closed-far", 4.0, entities.OpenStatusClosed),
	}

	ranked := svc.RankHospitals(places, originLat, originLng)

	require.Len(t, ranked, 5)
	names := make([]string, len(ranked))
	for i, p := range ranked {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"d-open-near", "b-open-far", "a-closed-near", "c-unknown", "e-closed"}, names)

	assert.Equal(t, 0.87, ranked[0].FinalScore)
	assert.Equal(t, 0.77, ranked[1].FinalScore)
	assert.Equal(t, 0.74, ranked[2].FinalScore)
	assert.Equal(t, ranked[2].FinalScore, ranked[2].SuitabilityScore)
	assert.Equal(t, entities.VoicePlaceSourceHospital, ranked[0].Source)
	assert.Equal(t, "clinic", ranked[0].Category)
	assert.Equal(t, []string{RankReasonSymptomFit, RankReasonOpenNow, RankReasonNearby, RankReasonNearby, RankReasonNearby}, reasons(ranked))
	assert.Regexp(t, regexp.MustCompile(`^hospital-1-[0-9a-f]{8}$`), ranked[1].ID)

	assert.Equal(t, "a-closed-near", places[0].Name, "input is not reordered")
}

func TestRankHospitals_ScoreFloor(t *testing.T) {
	ranked := NewRankingService().RankHospitals([]entities.NormalizedPlace{
		place("far-closed", 19.0, entities.OpenStatusClosed),
	}, originLat, originLng)

	require.Len(t, ranked, 1)
	assert.Equal(t, 0.15, ranked[0].FinalScore)

	assert.Empty(t, NewRankingService().RankHospitals(nil, originLat, originLng))
}

func TestRankEmergency_KeepsDistanceOrder(t *testing.T) {
	svc := NewRankingService()
	noCoords := entities.NormalizedPlace{Name: "좌표없음", DistanceKm: 10, OpenStatus: entities.OpenStatusUnknown}
	places := []entities.NormalizedPlace{
		place("near-closed", 1.0, entities.OpenStatusClosed),
		place("mid-open", 4.0, entities.OpenStatusOpen),
		noCoords,
	}

	ranked := svc.RankEmergency(places, originLat, originLng)

	require.Len(t, ranked, 3)
	assert.Equal(t, "near-closed", ranked[0].Name)
	assert.InDelta(t, 0.95, ranked[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.8, ranked[1].FinalScore, 1e-9)
	assert.InDelta(t, 0.5, ranked[2].FinalScore, 1e-9)
	assert.Equal(t, "emergency_room", ranked[0].Category)
	assert.Equal(t, entities.VoicePlaceSourceEmergency, ranked[0].Source)
	assert.Equal(t, originLat, ranked[2].Latitude, "missing coordinates take the query origin")
	assert.Equal(t, originLng, ranked[2].Longitude)
	assert.Equal(t, []string{RankReasonSymptomFit, RankReasonOpenNow, RankReasonNearby}, reasons(ranked))
	assert.Regexp(t, regexp.MustCompile(`^emergency-0-[0-9a-f]{8}$`), ranked[0].ID)
}

func TestRankEmergency_CapsAtFive(t *testing.T) {
	var places []entities.NormalizedPlace
	for i := 0; i < 8; i++ {
		places = append(places, place("er", float64(i), entities.OpenStatusOpen))
	}
	ranked := NewRankingService().RankEmergency(places, originLat, originLng)
	assert.Len(t, ranked, TopPlacesLimit)
	assert.InDelta(t, 0.2, NewRankingService().RankEmergency([]entities.NormalizedPlace{place("x", 30, entities.OpenStatusOpen)}, 0, 0)[0].FinalScore, 1e-9)
}
