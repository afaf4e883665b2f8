package domain

import (
	"fmt"
	"strings"
)

// Message represents a single outbound email. The body is pre-rendered
// HTML produced by the caller; the delivery layer never inspects it.
type Message struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// ErrorKind classifies a failed delivery attempt
type ErrorKind string

const (
	ErrKindNotConfigured ErrorKind = "not_configured"
	ErrKindAuth          ErrorKind = "auth_error"
	ErrKindConnection    ErrorKind = "connection_error"
	ErrKindHostNotFound  ErrorKind = "host_not_found"
	ErrKindTimeout       ErrorKind = "timeout"
	ErrKindTransport     ErrorKind = "transport_error"
)

// DeliveryError is the failure type every provider adapter returns.
// Transport errors that do not match a more specific kind are wrapped
// as ErrKindTransport with the raw detail preserved.
type DeliveryError struct {
	Provider string
	Kind     ErrorKind
	Detail   string
}

func (e *DeliveryError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Detail)
}

// NewDeliveryError creates a classified delivery error
func NewDeliveryError(provider string, kind ErrorKind, detail string) *DeliveryError {
	return &DeliveryError{Provider: provider, Kind: kind, Detail: detail}
}

// Attempt records one failed provider attempt within a fallback chain
type Attempt struct {
	Provider string    `json:"provider"`
	Kind     ErrorKind `json:"error_kind"`
	Detail   string    `json:"detail,omitempty"`
}

// DeliveryResult is the terminal outcome of a send through the fallback
// chain. On success Provider and MessageID identify the winning adapter;
// Attempts holds the failures that preceded it (empty when the first
// adapter succeeded). On failure Attempts holds every adapter invoked,
// in priority order.
type DeliveryResult struct {
	Delivered bool      `json:"delivered"`
	Provider  string    `json:"provider,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	Attempts  []Attempt `json:"attempts,omitempty"`
}

// FailureKind returns the error kind of the last attempt, which for a
// fully failed chain is the last-resort transport's failure. Empty when
// no attempt was recorded.
func (r DeliveryResult) FailureKind() ErrorKind {
	if len(r.Attempts) == 0 {
		return ""
	}
	return r.Attempts[len(r.Attempts)-1].Kind
}

// FailureDetail summarizes all recorded attempts as a single string
func (r DeliveryResult) FailureDetail() string {
	if len(r.Attempts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Provider, a.Kind))
	}
	return strings.Join(parts, "; ")
}
