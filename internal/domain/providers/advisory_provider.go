package providers

import (
	"context"

	"github.com/aicaremanager/backend/internal/domain/entities"
)

// AdvisoryRequest carries what a language model needs to phrase an advisory
type AdvisoryRequest struct {
	Transcript       string
	TriageLevel      entities.TriageLevel
	TopPlaceName     *string
	TopPlaceDistance *float64
}

// AdvisoryProvider generates a short natural-language advisory for a voice turn.
// Callers treat every error as "no advisory" and fall back to fixed phrasing.
type AdvisoryProvider interface {
	GenerateAdvisory(ctx context.Context, req AdvisoryRequest) (string, error)
}
