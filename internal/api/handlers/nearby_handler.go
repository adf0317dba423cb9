package handlers

import (
	"context"
	"net/http"

	"github.com/aicaremanager/backend/internal/domain/entities"
	apperrors "github.com/aicaremanager/backend/pkg/errors"
)

// NearbyService is the hospital and emergency lookup used by the handler
type NearbyService interface {
	NearbyHospitals(ctx context.Context, query entities.PlaceQuery) []entities.NormalizedPlace
	NearbyEmergency(ctx context.Context, query entities.PlaceQuery) []entities.NormalizedPlace
}

type nearbyLimits struct {
	defaultRadius float64
	maxRadius     float64
	defaultLimit  int
	maxLimit      int
}

var (
	hospitalLimits  = nearbyLimits{defaultRadius: 5, maxRadius: 20, defaultLimit: 20, maxLimit: 50}
	emergencyLimits = nearbyLimits{defaultRadius: 10, maxRadius: 50, defaultLimit: 10, maxLimit: 30}
)

// NearbyHandler serves coordinate-based hospital and emergency lookups
type NearbyHandler struct {
	service    NearbyService
	configured bool
}

// NewNearbyHandler creates a nearby lookup handler
func NewNearbyHandler(service NearbyService, configured bool) *NearbyHandler {
	return &NearbyHandler{service: service, configured: configured}
}

// NearbyResponse is the body of both nearby endpoints
type NearbyResponse struct {
	Places []entities.NormalizedPlace `json:"places"`
}

// Hospitals handles GET /api/hospitals/nearby
func (h *NearbyHandler) Hospitals(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, hospitalLimits, h.service.NearbyHospitals)
}

// Emergency handles GET /api/emergency/nearby
func (h *NearbyHandler) Emergency(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, emergencyLimits, h.service.NearbyEmergency)
}

func (h *NearbyHandler) serve(w http.ResponseWriter, r *http.Request, limits nearbyLimits, lookup func(context.Context, entities.PlaceQuery) []entities.NormalizedPlace) {
	query, err := parsePlaceQuery(r, limits)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if !h.configured {
		respondWithAppError(w, apperrors.NewUnavailableError(missingServiceKeyMessage))
		return
	}
	if err := checkRange(query.RadiusKm, limits.maxRadius, query.Limit, limits.maxLimit); err != nil {
		respondWithAppError(w, err)
		return
	}

	places := lookup(r.Context(), query)
	if places == nil {
		places = []entities.NormalizedPlace{}
	}
	respondWithJSON(w, http.StatusOK, NearbyResponse{Places: places})
}

func parsePlaceQuery(r *http.Request, limits nearbyLimits) (entities.PlaceQuery, error) {
	q := r.URL.Query()

	lat, err := requiredFloat(q, "lat")
	if err != nil {
		return entities.PlaceQuery{}, err
	}
	lng, err := requiredFloat(q, "lng")
	if err != nil {
		return entities.PlaceQuery{}, err
	}
	q0, err := requiredString(q, "q0")
	if err != nil {
		return entities.PlaceQuery{}, err
	}
	radius, err := floatOrDefault(q, "radius_km", limits.defaultRadius)
	if err != nil {
		return entities.PlaceQuery{}, err
	}
	limit, err := intOrDefault(q, "limit", limits.defaultLimit)
	if err != nil {
		return entities.PlaceQuery{}, err
	}

	return entities.PlaceQuery{
		Latitude:  lat,
		Longitude: lng,
		Region:    entities.RegionScope{Province: q0, District: q.Get("q1")}.Trimmed(),
		RadiusKm:  radius,
		Limit:     limit,
	}, nil
}
