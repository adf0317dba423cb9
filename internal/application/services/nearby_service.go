package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	"github.com/aicaremanager/backend/pkg/geo"
	"github.com/aicaremanager/backend/pkg/utils"
)

const defaultEmergencyInstitutionType = "응급의료기관"

// dutyDivNam (종별구분명) to ranking category. Unlisted labels are hospitals.
var hospitalCategories = map[string]string{
	"의원":     "clinic",
	"치과의원":   "clinic",
	"치과병원":   "clinic",
	"한의원":    "clinic",
	"병원":     "hospital",
	"종합병원":   "hospital",
	"상급종합병원": "hospital",
	"요양병원":   "hospital",
	"한방병원":   "hospital",
}

// NearbyService turns raw hospital and emergency records into distance
// filtered, status annotated place lists. Upstream failures yield an empty
// list and are only logged.
type NearbyService struct {
	source    providers.FacilitySource
	hospital  *OperatingStatusEvaluator
	emergency *OperatingStatusEvaluator
	now       func() time.Time
}

// NewNearbyService creates a nearby lookup service
func NewNearbyService(source providers.FacilitySource) *NearbyService {
	return &NearbyService{
		source:    source,
		hospital:  NewOperatingStatusEvaluator(HospitalDutyFields),
		emergency: NewOperatingStatusEvaluator(EmergencyDutyFields),
		now:       utils.SeoulNow,
	}
}

// WithClock overrides the clock used for operating status
func (s *NearbyService) WithClock(now func() time.Time) *NearbyService {
	s.now = now
	return s
}

// NearbyHospitals returns clinics and hospitals around the query origin
func (s *NearbyService) NearbyHospitals(ctx context.Context, query entities.PlaceQuery) []entities.NormalizedPlace {
	return s.nearby(ctx, entities.FacilityKindHospital, query)
}

// NearbyEmergency returns emergency institutions around the query origin
func (s *NearbyService) NearbyEmergency(ctx context.Context, query entities.PlaceQuery) []entities.NormalizedPlace {
	return s.nearby(ctx, entities.FacilityKindEmergency, query)
}

func (s *NearbyService) nearby(ctx context.Context, kind entities.FacilityKind, query entities.PlaceQuery) []entities.NormalizedPlace {
	ctx, span := observability.StartSpan(ctx, "nearby."+string(kind))
	defer span.End()

	records, err := s.source.FetchRecords(ctx, kind, query.Region.Trimmed())
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("kind", string(kind)).
			Str("q0", query.Region.Province).
			Str("q1", query.Region.District).
			Msg("facility lookup failed, returning no places")
		return []entities.NormalizedPlace{}
	}

	now := s.now()
	nowHHMM := utils.ClockHHMM(now)
	weekday := utils.WeekdayIndex(now)

	places := make([]entities.NormalizedPlace, 0, len(records))
	for _, record := range records {
		place, ok := s.normalize(kind, record, query, nowHHMM, weekday)
		if ok {
			places = append(places, place)
		}
	}

	sort.SliceStable(places, func(i, j int) bool {
		if places[i].DistanceKm != places[j].DistanceKm {
			return places[i].DistanceKm < places[j].DistanceKm
		}
		// A record pinned to the radius sorts after a real one at the same distance.
		return places[i].HasCoordinates() && !places[j].HasCoordinates()
	})

	limit := query.Limit
	if limit < 0 {
		limit = 0
	}
	if len(places) > limit {
		places = places[:limit]
	}
	return places
}

func (s *NearbyService) normalize(kind entities.FacilityKind, record entities.RawRecord, query entities.PlaceQuery, nowHHMM, weekday int) (entities.NormalizedPlace, bool) {
	lat, lng, hasCoords := recordCoordinates(record)

	distance := query.RadiusKm
	if hasCoords {
		distance = geo.DistanceKm(query.Latitude, query.Longitude, lat, lng)
		if distance > query.RadiusKm {
			return entities.NormalizedPlace{}, false
		}
	}

	place := entities.NormalizedPlace{
		Name:       record.String("dutyName"),
		Address:    record.String("dutyAddr"),
		Phone:      optionalString(record.String("dutyTel1")),
		DistanceKm: round3(distance),
		Source:     entities.PlaceSourceDataGoKr,
		Kind:       kind,
	}
	if hasCoords {
		place.Latitude = &lat
		place.Longitude = &lng
	}

	switch kind {
	case entities.FacilityKindEmergency:
		place.OpenStatus, place.OpenUntil = s.emergency.Evaluate(record, nowHHMM, weekday, false)
		place.InstitutionType = record.String("dutyEmclsName")
		if place.InstitutionType == "" {
			place.InstitutionType = defaultEmergencyInstitutionType
		}
		place.Notes = optionalString(record.String("dutyInf"))
	default:
		place.OpenStatus, place.OpenUntil = s.hospital.Evaluate(record, nowHHMM, weekday, false)
		place.DutyDivName = record.String("dutyDivNam")
		place.Category = HospitalCategory(place.DutyDivName)
	}

	return place, true
}

// HospitalCategory maps a duty-division label to clinic or hospital
func HospitalCategory(dutyDivName string) string {
	if category, ok := hospitalCategories[dutyDivName]; ok {
		return category
	}
	return "hospital"
}

// recordCoordinates treats missing, unparsable and (0, 0) positions as absent
func recordCoordinates(record entities.RawRecord) (float64, float64, bool) {
	lat, latOK := record.Float("wgs84Lat")
	lng, lngOK := record.Float("wgs84Lon")
	if !latOK || !lngOK {
		return 0, 0, false
	}
	if lat == 0 && lng == 0 {
		return 0, 0, false
	}
	return lat, lng, true
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
