package services

import (
	"context"
	"time"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	"github.com/aicaremanager/backend/pkg/utils"
)

// PharmacyStatusRequest is the input of a name-keyed open-status lookup
type PharmacyStatusRequest struct {
	Region entities.RegionScope
	Names  []string
	// NowHHMM overrides the Seoul clock time when set
	NowHHMM    *int
	UseHoliday bool
	// FallbackDistrict is tried once when Region yields no records
	FallbackDistrict string
}

// PharmacyStatusService reports open status for caller-supplied pharmacy names
type PharmacyStatusService struct {
	source    providers.FacilitySource
	evaluator *OperatingStatusEvaluator
	now       func() time.Time
}

// NewPharmacyStatusService creates a pharmacy status service
func NewPharmacyStatusService(source providers.FacilitySource) *PharmacyStatusService {
	return &PharmacyStatusService{
		source:    source,
		evaluator: NewOperatingStatusEvaluator(PharmacyDutyFields),
		now:       utils.SeoulNow,
	}
}

// WithClock overrides the clock used for the weekday and default time
func (s *PharmacyStatusService) WithClock(now func() time.Time) *PharmacyStatusService {
	s.now = now
	return s
}

// GetOpenStatus returns one result per requested name, in request order
func (s *PharmacyStatusService) GetOpenStatus(ctx context.Context, req PharmacyStatusRequest) []entities.PharmacyOpenStatus {
	ctx, span := observability.StartSpan(ctx, "pharmacy.open_status")
	defer span.End()

	now := s.now()
	weekday := utils.WeekdayIndex(now)
	nowHHMM := utils.ClockHHMM(now)
	if req.NowHHMM != nil {
		nowHHMM = *req.NowHHMM
	}

	records, err := s.fetchWithFallback(ctx, req)
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("q0", req.Region.Province).
			Str("q1", req.Region.District).
			Int("names", len(req.Names)).
			Msg("pharmacy lookup failed, reporting api_error")
		return uniformResults(req.Names, entities.PharmacySourceAPIError)
	}

	dutyNames := make([]string, len(records))
	for i, record := range records {
		dutyNames[i] = record.String("dutyName")
	}

	results := make([]entities.PharmacyOpenStatus, 0, len(req.Names))
	for _, name := range req.Names {
		idx := utils.FindBestMatch(name, dutyNames)
		if idx < 0 {
			results = append(results, entities.PharmacyOpenStatus{
				Name:   name,
				IsOpen: entities.OpenStatusUnknown,
				Source: entities.PharmacySourceNoMatch,
			})
			continue
		}

		status, until := s.evaluator.Evaluate(records[idx], nowHHMM, weekday, req.UseHoliday)
		results = append(results, entities.PharmacyOpenStatus{
			Name:      name,
			IsOpen:    status,
			OpenUntil: until,
			Source:    entities.PharmacySourceAPI,
		})
	}
	return results
}

func (s *PharmacyStatusService) fetchWithFallback(ctx context.Context, req PharmacyStatusRequest) ([]entities.RawRecord, error) {
	primary := req.Region.Trimmed()
	records, err := s.source.FetchRecords(ctx, entities.FacilityKindPharmacy, primary)
	if err != nil {
		return nil, err
	}

	fallback := entities.RegionScope{Province: primary.Province, District: req.FallbackDistrict}.Trimmed()
	if len(records) == 0 && fallback.District != "" {
		observability.LoggerFromContext(ctx).Debug().
			Str("q1", primary.District).
			Str("q1_fallback", fallback.District).
			Msg("primary district empty, trying fallback")
		return s.source.FetchRecords(ctx, entities.FacilityKindPharmacy, fallback)
	}
	return records, nil
}

func uniformResults(names []string, source string) []entities.PharmacyOpenStatus {
	results := make([]entities.PharmacyOpenStatus, len(names))
	for i, name := range names {
		results[i] = entities.PharmacyOpenStatus{
			Name:   name,
			IsOpen: entities.OpenStatusUnknown,
			Source: source,
		}
	}
	return results
}
