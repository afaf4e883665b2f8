// Package delivery implements the outbound email fallback chain and the
// batch send coordinator on top of it.
package delivery

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// MetricsRecorder receives delivery outcomes. The zero dependency is
// allowed; the engine only records when one is set.
type MetricsRecorder interface {
	RecordAttempt(provider string, result string)
	RecordOutcome(delivered bool, attempts int)
}

// Engine tries providers in fixed descending priority order and returns
// the first success, or an aggregated failure holding the full attempt
// history. The ordering encodes cost and reliability: transactional API
// providers first, the SMTP safety net last.
type Engine struct {
	providers []domain.Provider
	logger    *slog.Logger
	metrics   MetricsRecorder
}

// NewEngine creates a delivery engine over the given providers, in
// priority order.
func NewEngine(logger *slog.Logger, providers ...domain.Provider) *Engine {
	return &Engine{
		providers: providers,
		logger:    logger,
	}
}

// SetMetrics sets the metrics recorder
func (e *Engine) SetMetrics(m MetricsRecorder) {
	e.metrics = m
}

// SendEmail walks the fallback chain. Unconfigured providers are
// skipped as a pre-flight filter, not recorded as failures. Individual
// failures inside a chain that eventually succeeds are diagnostic
// history, not errors.
func (e *Engine) SendEmail(ctx context.Context, msg domain.Message) domain.DeliveryResult {
	var attempts []domain.Attempt

	for _, p := range e.providers {
		if !p.IsConfigured() {
			e.logger.Debug("skipping unconfigured mail provider",
				"provider", p.Name(),
			)
			continue
		}

		messageID, err := p.Send(ctx, msg)
		if err == nil {
			e.logger.Info("email delivered",
				"provider", p.Name(),
				"recipient", msg.Recipient,
				"message_id", messageID,
				"prior_attempts", len(attempts),
			)
			if e.metrics != nil {
				e.metrics.RecordAttempt(p.Name(), "sent")
				e.metrics.RecordOutcome(true, len(attempts)+1)
			}
			return domain.DeliveryResult{
				Delivered: true,
				Provider:  p.Name(),
				MessageID: messageID,
				Attempts:  attempts,
			}
		}

		attempt := toAttempt(p.Name(), err)
		attempts = append(attempts, attempt)

		e.logger.Warn("mail provider attempt failed",
			"provider", p.Name(),
			"recipient", msg.Recipient,
			"error_kind", attempt.Kind,
			"error", err,
		)
		if e.metrics != nil {
			e.metrics.RecordAttempt(p.Name(), string(attempt.Kind))
		}
	}

	e.logger.Error("all mail providers failed",
		"recipient", msg.Recipient,
		"attempts", len(attempts),
	)
	if e.metrics != nil {
		e.metrics.RecordOutcome(false, len(attempts))
	}

	return domain.DeliveryResult{
		Delivered: false,
		Attempts:  attempts,
	}
}

// toAttempt converts a provider error into an attempt record. Providers
// return *DeliveryError by contract; anything else is classified as a
// transport error so the taxonomy stays closed.
func toAttempt(providerName string, err error) domain.Attempt {
	var deliveryErr *domain.DeliveryError
	if errors.As(err, &deliveryErr) {
		return domain.Attempt{
			Provider: providerName,
			Kind:     deliveryErr.Kind,
			Detail:   deliveryErr.Detail,
		}
	}
	return domain.Attempt{
		Provider: providerName,
		Kind:     domain.ErrKindTransport,
		Detail:   err.Error(),
	}
}
