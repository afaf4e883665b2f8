package delivery

import (
	"context"
	"log/slog"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// Sender is the part of the engine the coordinator needs
type Sender interface {
	SendEmail(ctx context.Context, msg domain.Message) domain.DeliveryResult
}

// Coordinator fans a single logical notification out to a group of
// recipients. Each recipient's delivery is independent: one failure
// never aborts the rest, and the batch call itself never fails because
// some deliveries did.
type Coordinator struct {
	sender Sender
	logger *slog.Logger
}

// NewCoordinator creates a batch send coordinator
func NewCoordinator(sender Sender, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		sender: sender,
		logger: logger,
	}
}

// SendToMany builds and sends one message per recipient, in the order
// the recipients are supplied. An empty recipient set is reported via
// NoRecipients so callers can tell "nobody to notify" apart from
// "tried and all failed".
func (c *Coordinator) SendToMany(ctx context.Context, recipients []string, build func(recipient string) domain.Message) domain.BatchResult {
	result := domain.BatchResult{
		TotalRecipients: len(recipients),
	}

	if len(recipients) == 0 {
		result.NoRecipients = true
		return result
	}

	for _, recipient := range recipients {
		res := c.sender.SendEmail(ctx, build(recipient))
		if res.Delivered {
			result.Sent++
			continue
		}

		result.Failed++
		result.Failures = append(result.Failures, domain.RecipientFailure{
			Recipient: recipient,
			Reason:    res.FailureKind(),
			Detail:    res.FailureDetail(),
		})
	}

	c.logger.Info("batch send completed",
		"total", result.TotalRecipients,
		"sent", result.Sent,
		"failed", result.Failed,
	)

	return result
}
