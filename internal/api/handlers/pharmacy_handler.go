package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/aicaremanager/backend/internal/application/services"
	"github.com/aicaremanager/backend/internal/domain/entities"
	apperrors "github.com/aicaremanager/backend/pkg/errors"
)

// PharmacyStatusService is the pharmacy lookup used by the handler
type PharmacyStatusService interface {
	GetOpenStatus(ctx context.Context, req services.PharmacyStatusRequest) []entities.PharmacyOpenStatus
}

// PharmacyHandler serves pharmacy open-status lookups
type PharmacyHandler struct {
	service    PharmacyStatusService
	configured bool
}

// NewPharmacyHandler creates a pharmacy handler. configured reports whether
// the data.go.kr credential is present.
func NewPharmacyHandler(service PharmacyStatusService, configured bool) *PharmacyHandler {
	return &PharmacyHandler{service: service, configured: configured}
}

// PharmacyOpenStatusResponse is the body of GET /api/pharmacy/open-status
type PharmacyOpenStatusResponse struct {
	Results []entities.PharmacyOpenStatus `json:"results"`
}

// GetOpenStatus handles GET /api/pharmacy/open-status
func (h *PharmacyHandler) GetOpenStatus(w http.ResponseWriter, r *http.Request) {
	req, err := parsePharmacyRequest(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !h.configured {
		respondWithAppError(w, apperrors.NewUnavailableError(missingServiceKeyMessage))
		return
	}

	results := h.service.GetOpenStatus(r.Context(), req)
	respondWithJSON(w, http.StatusOK, PharmacyOpenStatusResponse{Results: results})
}

func parsePharmacyRequest(r *http.Request) (services.PharmacyStatusRequest, error) {
	q := r.URL.Query()

	q0, err := requiredString(q, "q0")
	if err != nil {
		return services.PharmacyStatusRequest{}, err
	}
	q1, err := requiredString(q, "q1")
	if err != nil {
		return services.PharmacyStatusRequest{}, err
	}
	if _, ok := q["names"]; !ok {
		return services.PharmacyStatusRequest{}, apperrors.NewValidationError("names is required")
	}
	names := splitNames(q.Get("names"))
	if len(names) == 0 {
		return services.PharmacyStatusRequest{}, apperrors.NewValidationError("names must not be empty")
	}
	holiday, err := boolOrDefault(q, "holiday", false)
	if err != nil {
		return services.PharmacyStatusRequest{}, err
	}

	req := services.PharmacyStatusRequest{
		Region:           entities.RegionScope{Province: q0, District: q1},
		Names:            names,
		UseHoliday:       holiday,
		FallbackDistrict: strings.TrimSpace(q.Get("q1_fallback")),
	}

	if now := q.Get("now"); now != "" {
		hhmm, ok := services.ParseHHMM(now)
		if !ok {
			return services.PharmacyStatusRequest{}, apperrors.NewValidationError("now must be 4-digit HHMM string")
		}
		req.NowHHMM = &hhmm
	}
	return req, nil
}
