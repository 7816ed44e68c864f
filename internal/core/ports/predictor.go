package ports

import (
	"context"

	"github.com/sentiserve/ml-api/internal/core/domain"
)

// Predictor is the inference collaborator: an opaque, potentially slow,
// side-effect-free mapping from text to a label/score pair. It is invoked
// only after authorization has succeeded.
type Predictor interface {
	Predict(ctx context.Context, text string) (*domain.Prediction, error)
	Info() domain.ModelInfo
}

// PredictionService fronts the predictor with input normalization, caching,
// and metrics.
type PredictionService interface {
	Predict(ctx context.Context, text string) (*domain.Prediction, error)
	ModelInfo() domain.ModelInfo
	Loaded() bool
}

// PredictionCache stores inference results keyed by input text. A cache is
// optional; services must work without one.
type PredictionCache interface {
	Get(ctx context.Context, text string) (*domain.Prediction, bool, error)
	Set(ctx context.Context, text string, p *domain.Prediction) error
}
