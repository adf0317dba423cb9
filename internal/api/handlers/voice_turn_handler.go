package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aicaremanager/backend/internal/application/services"
	"github.com/aicaremanager/backend/internal/domain/entities"
)

const maxVoiceTurnBody = 64 << 10

// VoiceTurnService runs one voice turn
type VoiceTurnService interface {
	Run(ctx context.Context, req services.VoiceTurnRequest) entities.VoiceTurnResult
}

// VoiceTurnHandler serves POST /api/voice-turn
type VoiceTurnHandler struct {
	service VoiceTurnService
}

// NewVoiceTurnHandler creates a voice turn handler
func NewVoiceTurnHandler(service VoiceTurnService) *VoiceTurnHandler {
	return &VoiceTurnHandler{service: service}
}

// VoiceTurnRequest is the JSON body of a voice turn
type VoiceTurnRequest struct {
	Transcript *string  `json:"transcript"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Q0         *string  `json:"q0"`
	Q1         *string  `json:"q1"`
}

// Handle handles POST /api/voice-turn
func (h *VoiceTurnHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var body VoiceTurnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxVoiceTurnBody)).Decode(&body); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "request body must be a JSON object")
		return
	}
	if body.Transcript == nil {
		respondWithError(w, http.StatusUnprocessableEntity, "transcript is required")
		return
	}
	transcript := strings.TrimSpace(*body.Transcript)
	if transcript == "" {
		respondWithError(w, http.StatusUnprocessableEntity, "transcript must not be empty")
		return
	}

	req := services.VoiceTurnRequest{
		Transcript: transcript,
		Latitude:   body.Lat,
		Longitude:  body.Lng,
		Region:     entities.RegionScope{Province: deref(body.Q0), District: deref(body.Q1)},
	}

	respondWithJSON(w, http.StatusOK, h.service.Run(r.Context(), req))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
