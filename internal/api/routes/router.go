package routes

import (
	"net/http"

	"github.com/aicaremanager/backend/internal/api/handlers"
	"github.com/aicaremanager/backend/internal/api/middleware"
	"github.com/aicaremanager/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	pharmacyHandler  *handlers.PharmacyHandler
	nearbyHandler    *handlers.NearbyHandler
	voiceTurnHandler *handlers.VoiceTurnHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	pharmacyHandler *handlers.PharmacyHandler,
	nearbyHandler *handlers.NearbyHandler,
	voiceTurnHandler *handlers.VoiceTurnHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		pharmacyHandler:  pharmacyHandler,
		nearbyHandler:    nearbyHandler,
		voiceTurnHandler: voiceTurnHandler,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", handlers.Health)

	r.mux.HandleFunc("GET /api/pharmacy/open-status", r.pharmacyHandler.GetOpenStatus)
	r.mux.HandleFunc("GET /api/hospitals/nearby", r.nearbyHandler.Hospitals)
	r.mux.HandleFunc("GET /api/emergency/nearby", r.nearbyHandler.Emergency)
	r.mux.HandleFunc("POST /api/voice-turn", r.voiceTurnHandler.Handle)

	// Last applied wraps outermost. CORS stays outside so preflights skip the rest.
	var handler http.Handler = r.mux
	handler = middleware.Recovery(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Observability(r.metrics)(handler)
	handler = middleware.CORS(r.allowedOrigins)(handler)

	return handler
}
