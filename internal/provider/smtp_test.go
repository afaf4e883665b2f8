package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kitciruelas/soteros-backend-sub001/internal/config"
	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

func smtpConfig() config.MailConfig {
	return config.MailConfig{
		SMTP: config.SMTPConfig{
			Host: "mail.soteros.local",
			Port: 587,
		},
		Sender: config.SenderConfig{
			Name:    "SOTEROS Alerts",
			Address: "alerts@soteros.local",
		},
		SendTimeout: 5 * time.Second,
	}
}

func TestSMTPProvider_IsConfigured(t *testing.T) {
	// The SMTP relay is the last resort and has no configuration gate.
	cfg := smtpConfig()
	cfg.SMTP.Username = ""
	cfg.SMTP.Password = ""

	p := NewSMTPProvider(cfg)
	assert.True(t, p.IsConfigured())
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	p := NewSMTPProvider(smtpConfig())

	raw := string(p.buildMessage(domain.Message{
		Recipient: "admin@example.com",
		Subject:   "Password reset",
		Body:      "<p>Click the link to reset your password.</p>",
	}))

	assert.Contains(t, raw, "From: SOTEROS Alerts <alerts@soteros.local>\r\n")
	assert.Contains(t, raw, "To: admin@example.com\r\n")
	assert.Contains(t, raw, "Subject: Password reset\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	assert.Contains(t, raw, "\r\n\r\n<p>Click the link to reset your password.</p>\r\n")
}

func TestPostmarkProvider_IsConfigured(t *testing.T) {
	cfg := smtpConfig()
	cfg.Postmark.ServerToken = "pm-server-token"

	assert.True(t, NewPostmarkProvider(cfg).IsConfigured())

	cfg.Postmark.ServerToken = ""
	assert.False(t, NewPostmarkProvider(cfg).IsConfigured())
}
