package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aicaremanager/backend/internal/domain/entities"
	"github.com/aicaremanager/backend/internal/domain/providers"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	"github.com/google/uuid"
)

// Lookup parameters used by a voice turn
const (
	voiceEmergencyRadiusKm = 10.0
	voiceEmergencyLimit    = 5
	voiceHospitalRadiusKm  = 5.0
	voiceHospitalLimit     = 20
)

// VoiceTurnRequest is one recognized utterance with an optional location
type VoiceTurnRequest struct {
	Transcript string
	Latitude   *float64
	Longitude  *float64
	Region     entities.RegionScope
}

type turnState string

const (
	stateReceived          turnState = "RECEIVED"
	stateClassified        turnState = "CLASSIFIED"
	stateEmergencyDispatch turnState = "EMERGENCY_DISPATCH"
	stateHospitalDispatch  turnState = "HOSPITAL_DISPATCH"
	stateRanked            turnState = "RANKED"
	stateFallbackApplied   turnState = "FALLBACK_APPLIED"
	stateMessageComposed   turnState = "MESSAGE_COMPOSED"
	stateDone              turnState = "DONE"
)

// voiceTurn is the working state of one turn
type voiceTurn struct {
	req        VoiceTurnRequest
	transcript string
	level      entities.TriageLevel
	region     entities.RegionScope
	candidates []entities.NormalizedPlace
	emergency  bool
	places     []entities.VoiceTurnPlace
	safeMode   entities.SafeModeResult
	message    string
}

// VoiceTurnService runs the classify, dispatch, rank, fallback and compose
// pipeline for a voice turn. Run never fails; any internal failure ends in
// the static fallback shortlist.
type VoiceTurnService struct {
	triage        *TriageService
	nearby        *NearbyService
	ranking       *RankingService
	composer      *AdvisoryComposer
	advisor       providers.AdvisoryProvider
	defaultRegion entities.RegionScope
	newTurnID     func() string
}

// NewVoiceTurnService creates the orchestrator. advisor may be nil.
func NewVoiceTurnService(
	triage *TriageService,
	nearby *NearbyService,
	ranking *RankingService,
	composer *AdvisoryComposer,
	advisor providers.AdvisoryProvider,
	defaultRegion entities.RegionScope,
) *VoiceTurnService {
	return &VoiceTurnService{
		triage:        triage,
		nearby:        nearby,
		ranking:       ranking,
		composer:      composer,
		advisor:       advisor,
		defaultRegion: defaultRegion.Trimmed(),
		newTurnID:     uuid.NewString,
	}
}

// Run executes one voice turn
func (s *VoiceTurnService) Run(ctx context.Context, req VoiceTurnRequest) (result entities.VoiceTurnResult) {
	ctx, span := observability.StartSpan(ctx, "voice_turn.run")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	turn := &voiceTurn{req: req, level: entities.TriageGreen}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("voice turn panic: %v", r)
			observability.RecordError(span, err)
			logger.Error().Err(err).Str("triage_level", string(turn.level)).Msg("voice turn failed, returning fallback")
			result = s.recoverResult(turn)
		}
	}()

	state := stateReceived
	for state != stateDone {
		next := s.step(ctx, turn, state)
		logger.Debug().Str("from", string(state)).Str("to", string(next)).Msg("voice turn transition")
		state = next
	}

	return s.result(turn)
}

// step runs the action of state and returns the next state
func (s *VoiceTurnService) step(ctx context.Context, turn *voiceTurn, state turnState) turnState {
	switch state {
	case stateReceived:
		turn.transcript = strings.TrimSpace(turn.req.Transcript)
		return stateClassified

	case stateClassified:
		turn.level = s.triage.Classify(ctx, turn.transcript)
		turn.region = s.normalizeRegion(turn.req.Region)
		if turn.req.Latitude == nil || turn.req.Longitude == nil {
			return stateFallbackApplied
		}
		if turn.level == entities.TriageRed {
			return stateEmergencyDispatch
		}
		return stateHospitalDispatch

	case stateEmergencyDispatch:
		turn.emergency = true
		turn.candidates = s.nearby.NearbyEmergency(ctx, entities.PlaceQuery{
			Latitude:  *turn.req.Latitude,
			Longitude: *turn.req.Longitude,
			Region:    turn.region,
			RadiusKm:  voiceEmergencyRadiusKm,
			Limit:     voiceEmergencyLimit,
		})
		return stateRanked

	case stateHospitalDispatch:
		turn.candidates = s.nearby.NearbyHospitals(ctx, entities.PlaceQuery{
			Latitude:  *turn.req.Latitude,
			Longitude: *turn.req.Longitude,
			Region:    turn.region,
			RadiusKm:  voiceHospitalRadiusKm,
			Limit:     voiceHospitalLimit,
		})
		return stateRanked

	case stateRanked:
		if turn.emergency {
			turn.places = s.ranking.RankEmergency(turn.candidates, *turn.req.Latitude, *turn.req.Longitude)
		} else {
			turn.places = s.ranking.RankHospitals(turn.candidates, *turn.req.Latitude, *turn.req.Longitude)
		}
		if len(turn.places) == 0 {
			return stateFallbackApplied
		}
		return stateMessageComposed

	case stateFallbackApplied:
		turn.places = FallbackPlaces(turn.level)
		return stateMessageComposed

	case stateMessageComposed:
		if len(turn.places) > TopPlacesLimit {
			turn.places = turn.places[:TopPlacesLimit]
		}
		AssignRankReasons(turn.places)
		noResult := turn.level == entities.TriageRed && len(turn.places) == 0
		turn.safeMode = entities.SafeModeResult{Applied: noResult, NoResult: noResult}
		turn.message = s.advisory(ctx, turn)
		return stateDone
	}

	return stateDone
}

func (s *VoiceTurnService) normalizeRegion(region entities.RegionScope) entities.RegionScope {
	region = region.Trimmed()
	if region.Province == "" {
		region.Province = s.defaultRegion.Province
	}
	if region.District == "" {
		region.District = s.defaultRegion.District
	}
	return region
}

// advisory prefers the language model and falls back to the phrase bank
func (s *VoiceTurnService) advisory(ctx context.Context, turn *voiceTurn) string {
	if s.advisor != nil {
		req := providers.AdvisoryRequest{Transcript: turn.transcript, TriageLevel: turn.level}
		if len(turn.places) > 0 {
			name := turn.places[0].Name
			distance := turn.places[0].DistanceKm
			req.TopPlaceName = &name
			req.TopPlaceDistance = &distance
		}

		msg, err := s.advisor.GenerateAdvisory(ctx, req)
		msg = strings.TrimSpace(msg)
		logger := observability.LoggerFromContext(ctx)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("advisory generation failed, using phrase bank")
		case msg == "":
			logger.Debug().Msg("advisory generation returned an empty message, using phrase bank")
		default:
			return msg
		}
	}
	return s.composer.Compose(turn.level, turn.places)
}

func (s *VoiceTurnService) result(turn *voiceTurn) entities.VoiceTurnResult {
	places := turn.places
	if places == nil {
		places = []entities.VoiceTurnPlace{}
	}
	return entities.VoiceTurnResult{
		TurnID:           s.newTurnID(),
		Transcript:       turn.transcript,
		TriageLevel:      turn.level,
		Top5Places:       places,
		SafeModeResult:   turn.safeMode,
		AssistantMessage: turn.message,
	}
}

func (s *VoiceTurnService) recoverResult(turn *voiceTurn) entities.VoiceTurnResult {
	turn.places = FallbackPlaces(turn.level)
	AssignRankReasons(turn.places)
	turn.safeMode = entities.SafeModeResult{}
	turn.message = s.composer.Compose(turn.level, turn.places)
	if turn.transcript == "" {
		turn.transcript = strings.TrimSpace(turn.req.Transcript)
	}
	return s.result(turn)
}

// FallbackPlaces returns the built-in shortlist used when no live place is
// available: one emergency center for RED, one clinic otherwise.
func FallbackPlaces(level entities.TriageLevel) []entities.VoiceTurnPlace {
	if level == entities.TriageRed {
		return []entities.VoiceTurnPlace{{
			ID:               "fallback-emergency-1",
			Name:             "서울대학교병원 응급센터",
			Source:           entities.VoicePlaceSourceEmergency,
			Category:         emergencyCategory,
			Address:          "서울 종로구 대학로 101",
			Latitude:         37.5796,
			Longitude:        126.9996,
			DistanceKm:       1.0,
			OpenStatus:       entities.OpenStatusOpen,
			SuitabilityScore: 0.95,
			FinalScore:       0.95,
		}}
	}
	return []entities.VoiceTurnPlace{{
		ID:               "fallback-hospital-1",
		Name:             "종로 연세의원",
		Source:           entities.VoicePlaceSourceHospital,
		Category:         "clinic",
		Address:          "서울 종로구 종로 140",
		Latitude:         37.5703,
		Longitude:        126.9830,
		DistanceKm:       1.4,
		OpenStatus:       entities.OpenStatusOpen,
		SuitabilityScore: 0.80,
		FinalScore:       0.80,
	}}
}
