package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentiserve/ml-api/internal/api/metrics"
	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/ports"
)

const maxPredictionTextLen = 512

// PredictionService fronts the inference collaborator with input
// normalization, an optional result cache, and metrics. The predictor itself
// is a black box invoked only after authorization has succeeded.
type PredictionService struct {
	predictor ports.Predictor
	cache     ports.PredictionCache // nil disables caching
	logger    zerolog.Logger
}

func NewPredictionService(predictor ports.Predictor, cache ports.PredictionCache, logger zerolog.Logger) *PredictionService {
	return &PredictionService{predictor: predictor, cache: cache, logger: logger}
}

// Predict normalizes the input text, consults the cache, and falls through
// to the predictor. Empty or oversized input is rejected before any call.
func (s *PredictionService) Predict(ctx context.Context, text string) (*domain.Prediction, error) {
	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return nil, domain.NewValidationError("text", "cannot be empty")
	}
	if len(cleaned) > maxPredictionTextLen {
		return nil, domain.NewValidationError("text", "exceeds maximum length of 512 characters")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, cleaned)
		if err != nil {
			s.logger.Warn().Err(err).Msg("prediction cache lookup failed, calling predictor")
		} else if ok {
			metrics.PredictionCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.PredictionCacheTotal.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	prediction, err := s.predictor.Predict(ctx, cleaned)
	if err != nil {
		metrics.PredictionDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		s.logger.Error().Err(err).Msg("prediction failed")
		return nil, err
	}
	metrics.PredictionDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	metrics.PredictionsTotal.WithLabelValues(prediction.Label).Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, cleaned, prediction); err != nil {
			s.logger.Warn().Err(err).Msg("prediction cache write failed")
		}
	}

	return prediction, nil
}

// ModelInfo describes the predictor behind the service.
func (s *PredictionService) ModelInfo() domain.ModelInfo {
	return s.predictor.Info()
}

// Loaded reports whether the predictor is ready to serve.
func (s *PredictionService) Loaded() bool {
	return s.predictor.Info().Loaded
}
