package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aicaremanager/backend/internal/api/handlers"
	"github.com/aicaremanager/backend/internal/application/services"
	"github.com/aicaremanager/backend/internal/domain/entities"
)

func TestVoiceTurnHandler_Handle(t *testing.T) {
	svc := new(MockVoiceTurnService)
	svc.On("Run", mock.Anything, mock.MatchedBy(func(req services.VoiceTurnRequest) bool {
		return req.Transcript == "가슴이 아파요" &&
			req.Latitude != nil && *req.Latitude == 37.5704 &&
			req.Longitude != nil && *req.Longitude == 126.983 &&
			req.Region == entities.RegionScope{Province: "서울특별시", District: "종로구"}
	})).Return(entities.VoiceTurnResult{
		TurnID:           "turn-1",
		Transcript:       "가슴이 아파요",
		TriageLevel:      entities.TriageRed,
		Top5Places:       []entities.VoiceTurnPlace{},
		AssistantMessage: "즉시 119에 연락하세요.",
	})

	h := handlers.NewVoiceTurnHandler(svc)
	body := `{"transcript":"  가슴이 아파요 ","lat":37.5704,"lng":126.983,"q0":"서울특별시","q1":"종로구"}`
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/voice-turn", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "RED", got["triage_level"])
	assert.Nil(t, got["tts_audio_url"])
	assert.Equal(t, map[string]interface{}{"applied": false, "no_result": false}, got["safe_mode_result"])
	svc.AssertExpectations(t)
}

func TestVoiceTurnHandler_OptionalFieldsAbsent(t *testing.T) {
	svc := new(MockVoiceTurnService)
	svc.On("Run", mock.Anything, services.VoiceTurnRequest{Transcript: "기침이 나요"}).
		Return(entities.VoiceTurnResult{TriageLevel: entities.TriageGreen})

	h := handlers.NewVoiceTurnHandler(svc)
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/voice-turn", strings.NewReader(`{"transcript":"기침이 나요"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestVoiceTurnHandler_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty transcript", `{"transcript":""}`, "transcript must not be empty"},
		{"whitespace transcript", `{"transcript":"   "}`, "transcript must not be empty"},
		{"missing transcript", `{"lat":37.5}`, "transcript is required"},
		{"invalid json", `{"transcript":`, "request body must be a JSON object"},
		{"wrong type", `{"transcript":42}`, "request body must be a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockVoiceTurnService)
			h := handlers.NewVoiceTurnHandler(svc)
			rec := httptest.NewRecorder()

			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/voice-turn", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			svc.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
