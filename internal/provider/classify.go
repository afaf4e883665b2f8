// Package provider contains the concrete email transport adapters.
// Each adapter maps message fields onto one external transport and
// classifies its failures into the shared delivery error taxonomy.
package provider

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// classifyNetError maps low-level transport failures to the delivery
// error taxonomy. Anything unrecognized becomes a transport error with
// the raw detail, so no adapter ever surfaces an unclassified failure.
func classifyNetError(providerName string, err error) *domain.DeliveryError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.NewDeliveryError(providerName, domain.ErrKindHostNotFound, err.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewDeliveryError(providerName, domain.ErrKindTimeout, err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewDeliveryError(providerName, domain.ErrKindTimeout, err.Error())
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return domain.NewDeliveryError(providerName, domain.ErrKindConnection, err.Error())
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return domain.NewDeliveryError(providerName, domain.ErrKindConnection, err.Error())
	}

	return domain.NewDeliveryError(providerName, domain.ErrKindTransport, err.Error())
}
