package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/mrz1836/postmark"

	"github.com/kitciruelas/soteros-backend-sub001/internal/config"
	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// Postmark API error code for a bad or missing server token.
const postmarkBadTokenCode = 10

// PostmarkProvider delivers via Postmark's transactional API. It is the
// preferred transport: low latency and reliable, but only usable when
// the server token is configured.
type PostmarkProvider struct {
	client      *postmark.Client
	serverToken string
	from        string
	timeout     time.Duration
}

// NewPostmarkProvider creates a Postmark adapter. Missing tokens do not
// fail construction; they make IsConfigured report false so the engine
// skips the adapter.
func NewPostmarkProvider(cfg config.MailConfig) *PostmarkProvider {
	return &PostmarkProvider{
		client:      postmark.NewClient(cfg.Postmark.ServerToken, cfg.Postmark.AccountToken),
		serverToken: cfg.Postmark.ServerToken,
		from:        fmt.Sprintf("%s <%s>", cfg.Sender.Name, cfg.Sender.Address),
		timeout:     cfg.SendTimeout,
	}
}

// Name returns the provider identifier
func (p *PostmarkProvider) Name() string {
	return "postmark"
}

// IsConfigured reports whether a server token is present
func (p *PostmarkProvider) IsConfigured() bool {
	return p.serverToken != ""
}

// Send delivers the message through the Postmark API
func (p *PostmarkProvider) Send(ctx context.Context, msg domain.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.from,
		To:       msg.Recipient,
		Subject:  msg.Subject,
		HTMLBody: msg.Body,
	})
	if err != nil {
		return "", classifyNetError(p.Name(), err)
	}

	if resp.ErrorCode > 0 {
		kind := domain.ErrKindTransport
		if resp.ErrorCode == postmarkBadTokenCode {
			kind = domain.ErrKindAuth
		}
		return "", domain.NewDeliveryError(p.Name(), kind,
			fmt.Sprintf("postmark error %d: %s", resp.ErrorCode, resp.Message))
	}

	return resp.MessageID, nil
}
