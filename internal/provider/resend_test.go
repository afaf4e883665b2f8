package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitciruelas/soteros-backend-sub001/internal/config"
	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

func resendConfig(baseURL string) config.MailConfig {
	return config.MailConfig{
		Resend: config.ResendConfig{
			APIKey:  "re_test_key",
			BaseURL: baseURL,
		},
		Sender: config.SenderConfig{
			Name:    "SOTEROS Alerts",
			Address: "alerts@soteros.local",
		},
		SendTimeout: 2 * time.Second,
	}
}

func TestResendProvider_IsConfigured(t *testing.T) {
	cfg := resendConfig("https://api.resend.com")
	assert.True(t, NewResendProvider(cfg).IsConfigured())

	cfg.Resend.APIKey = ""
	assert.False(t, NewResendProvider(cfg).IsConfigured())
}

func TestResendProvider_Send(t *testing.T) {
	msg := domain.Message{
		Recipient: "admin@example.com",
		Subject:   "Incident assigned",
		Body:      "<p>You have been assigned to incident #42.</p>",
	}

	t.Run("successful send returns message id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "Bearer re_test_key", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"4ef9a417-02e9-4d39-ad75-9611e0fcc33c"}`))
		}))
		defer server.Close()

		p := NewResendProvider(resendConfig(server.URL))
		id, err := p.Send(context.Background(), msg)

		require.NoError(t, err)
		assert.Equal(t, "4ef9a417-02e9-4d39-ad75-9611e0fcc33c", id)
	})

	t.Run("401 maps to auth error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"name":"validation_error","message":"API key is invalid"}`))
		}))
		defer server.Close()

		p := NewResendProvider(resendConfig(server.URL))
		_, err := p.Send(context.Background(), msg)

		var deliveryErr *domain.DeliveryError
		require.ErrorAs(t, err, &deliveryErr)
		assert.Equal(t, domain.ErrKindAuth, deliveryErr.Kind)
		assert.Contains(t, deliveryErr.Detail, "API key is invalid")
	})

	t.Run("500 maps to transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		p := NewResendProvider(resendConfig(server.URL))
		_, err := p.Send(context.Background(), msg)

		var deliveryErr *domain.DeliveryError
		require.ErrorAs(t, err, &deliveryErr)
		assert.Equal(t, domain.ErrKindTransport, deliveryErr.Kind)
	})

	t.Run("slow server maps to timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		cfg := resendConfig(server.URL)
		cfg.SendTimeout = 50 * time.Millisecond

		p := NewResendProvider(cfg)
		_, err := p.Send(context.Background(), msg)

		var deliveryErr *domain.DeliveryError
		require.ErrorAs(t, err, &deliveryErr)
		assert.Equal(t, domain.ErrKindTimeout, deliveryErr.Kind)
	})

	t.Run("refused connection maps to connection error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // nothing listening anymore

		p := NewResendProvider(resendConfig(server.URL))
		_, err := p.Send(context.Background(), msg)

		var deliveryErr *domain.DeliveryError
		require.ErrorAs(t, err, &deliveryErr)
		assert.Equal(t, domain.ErrKindConnection, deliveryErr.Kind)
	})
}

func TestClassifyNetError_Unrecognized(t *testing.T) {
	err := classifyNetError("resend", errors.New("something odd"))
	assert.Equal(t, domain.ErrKindTransport, err.Kind)
	assert.Equal(t, "resend", err.Provider)
}
