package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sentiserve/ml-api/internal/api/metrics"
	"github.com/sentiserve/ml-api/internal/core/ports"
)

// AuditService records auth-relevant events. Events arrive asynchronously
// through the queue dispatcher so the login path never waits on them.
type AuditService struct {
	logger zerolog.Logger
}

func NewAuditService(logger zerolog.Logger) *AuditService {
	return &AuditService{logger: logger}
}

// Record emits the event as a structured log line and bumps the counter.
func (s *AuditService) Record(_ context.Context, ev ports.AuditEvent) error {
	metrics.AuditEventsTotal.WithLabelValues(ev.Kind).Inc()

	entry := s.logger.Info().
		Str("kind", ev.Kind).
		Time("at", ev.Timestamp)
	if ev.Username != "" {
		entry = entry.Str("username", ev.Username)
	}
	if ev.ActorID != "" {
		entry = entry.Str("actor_id", ev.ActorID)
	}
	if ev.Detail != "" {
		entry = entry.Str("detail", ev.Detail)
	}
	entry.Msg("audit event")
	return nil
}
