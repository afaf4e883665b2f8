package domain

import "context"

// Provider defines the uniform capability over one external email transport.
type Provider interface {
	// Name returns the provider identifier (e.g. "postmark", "smtp").
	Name() string

	// IsConfigured reports whether the adapter has the credentials it
	// needs. It must be side-effect-free; the delivery engine calls it
	// before every attempt and skips unconfigured adapters.
	IsConfigured() bool

	// Send delivers the message and returns the provider-assigned
	// message ID. On failure the returned error is a *DeliveryError.
	Send(ctx context.Context, msg Message) (string, error)
}
