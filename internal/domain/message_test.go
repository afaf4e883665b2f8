package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryError_Error(t *testing.T) {
	err := NewDeliveryError("smtp", ErrKindTimeout, "dial tcp: i/o timeout")
	assert.Equal(t, "smtp: timeout: dial tcp: i/o timeout", err.Error())

	err = NewDeliveryError("resend", ErrKindAuth, "")
	assert.Equal(t, "resend: auth_error", err.Error())
}

func TestDeliveryResult_FailureKind(t *testing.T) {
	t.Run("empty attempts", func(t *testing.T) {
		assert.Equal(t, ErrorKind(""), DeliveryResult{}.FailureKind())
	})

	t.Run("last attempt wins", func(t *testing.T) {
		result := DeliveryResult{
			Attempts: []Attempt{
				{Provider: "postmark", Kind: ErrKindAuth},
				{Provider: "smtp", Kind: ErrKindTimeout},
			},
		}
		assert.Equal(t, ErrKindTimeout, result.FailureKind())
	})
}

func TestDeliveryResult_FailureDetail(t *testing.T) {
	result := DeliveryResult{
		Attempts: []Attempt{
			{Provider: "postmark", Kind: ErrKindAuth},
			{Provider: "resend", Kind: ErrKindConnection},
			{Provider: "smtp", Kind: ErrKindTimeout},
		},
	}

	assert.Equal(t, "postmark: auth_error; resend: connection_error; smtp: timeout", result.FailureDetail())
	assert.Empty(t, DeliveryResult{}.FailureDetail())
}
