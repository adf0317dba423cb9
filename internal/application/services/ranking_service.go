package services

import (
	"math"
	"sort"
	"strconv"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/google/uuid"
)

// TopPlacesLimit caps every ranked voice-turn shortlist
const TopPlacesLimit = 5

// Rank reasons shown next to each shortlisted place
const (
	RankReasonSymptomFit = "증상 적합"
	RankReasonOpenNow    = "영업 중"
	RankReasonNearby     = "가까움"
)

const emergencyCategory = "emergency_room"

// RankingService scores lookup results into voice-turn places
type RankingService struct {
	newID func() string
}

// NewRankingService creates a ranking service with random place ids
func NewRankingService() *RankingService {
	return &RankingService{newID: func() string { return uuid.NewString() }}
}

// RankEmergency keeps upstream distance order and scores by distance only.
// Posted hours do not demote emergency institutions.
func (s *RankingService) RankEmergency(places []entities.NormalizedPlace, originLat, originLng float64) []entities.VoiceTurnPlace {
	if len(places) > TopPlacesLimit {
		places = places[:TopPlacesLimit]
	}

	out := make([]entities.VoiceTurnPlace, 0, len(places))
	for i, p := range places {
		score := 1.0 - math.Min(p.DistanceKm/20.0, 0.8)
		out = append(out, s.toVoicePlace("emergency", i, p, entities.VoicePlaceSourceEmergency, emergencyCategory, score, originLat, originLng))
	}
	AssignRankReasons(out)
	return out
}

// RankHospitals puts OPEN places first, then nearer ones, and keeps the top five
func (s *RankingService) RankHospitals(places []entities.NormalizedPlace, originLat, originLng float64) []entities.VoiceTurnPlace {
	ranked := make([]entities.NormalizedPlace, len(places))
	copy(ranked, places)
	sort.SliceStable(ranked, func(i, j int) bool {
		iOpen := ranked[i].OpenStatus == entities.OpenStatusOpen
		jOpen := ranked[j].OpenStatus == entities.OpenStatusOpen
		if iOpen != jOpen {
			return iOpen
		}
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	if len(ranked) > TopPlacesLimit {
		ranked = ranked[:TopPlacesLimit]
	}

	out := make([]entities.VoiceTurnPlace, 0, len(ranked))
	for i, p := range ranked {
		base := 0.75
		if p.OpenStatus == entities.OpenStatusOpen {
			base = 0.92
		}
		score := round3(math.Max(0.1, base-math.Min(p.DistanceKm/20.0, 0.6)))
		category := p.Category
		if category == "" {
			category = "hospital"
		}
		out = append(out, s.toVoicePlace("hospital", i, p, entities.VoicePlaceSourceHospital, category, score, originLat, originLng))
	}
	AssignRankReasons(out)
	return out
}

func (s *RankingService) toVoicePlace(prefix string, idx int, p entities.NormalizedPlace, source entities.VoicePlaceSource, category string, score, originLat, originLng float64) entities.VoiceTurnPlace {
	lat, lng := originLat, originLng
	if p.Latitude != nil {
		lat = *p.Latitude
	}
	if p.Longitude != nil {
		lng = *p.Longitude
	}
	return entities.VoiceTurnPlace{
		ID:               placeID(prefix, idx, s.newID()),
		Name:             p.Name,
		Source:           source,
		Category:         category,
		Address:          p.Address,
		Latitude:         lat,
		Longitude:        lng,
		DistanceKm:       p.DistanceKm,
		OpenStatus:       p.OpenStatus,
		SuitabilityScore: score,
		FinalScore:       score,
	}
}

func placeID(prefix string, idx int, id string) string {
	hex := make([]byte, 0, 8)
	for i := 0; i < len(id) && len(hex) < 8; i++ {
		if id[i] != '-' {
			hex = append(hex, id[i])
		}
	}
	return prefix + "-" + strconv.Itoa(idx) + "-" + string(hex)
}

// AssignRankReasons labels the first place as the symptom fit and the rest
// by open status. Ordering is never changed.
func AssignRankReasons(places []entities.VoiceTurnPlace) {
	for i := range places {
		reason := RankReasonNearby
		switch {
		case i == 0:
			reason = RankReasonSymptomFit
		case places[i].OpenStatus == entities.OpenStatusOpen:
			reason = RankReasonOpenNow
		}
		r := reason
		places[i].RankReason = &r
	}
}
