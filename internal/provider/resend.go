package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kitciruelas/soteros-backend-sub001/internal/config"
	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// ResendProvider delivers via the Resend transactional API. Second in
// the fallback chain behind Postmark.
type ResendProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	from    string
}

// NewResendProvider creates a Resend adapter
func NewResendProvider(cfg config.MailConfig) *ResendProvider {
	return &ResendProvider{
		client: &http.Client{
			Timeout: cfg.SendTimeout,
		},
		baseURL: cfg.Resend.BaseURL,
		apiKey:  cfg.Resend.APIKey,
		from:    fmt.Sprintf("%s <%s>", cfg.Sender.Name, cfg.Sender.Address),
	}
}

// Name returns the provider identifier
func (p *ResendProvider) Name() string {
	return "resend"
}

// IsConfigured reports whether an API key is present
func (p *ResendProvider) IsConfigured() bool {
	return p.apiKey != ""
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send delivers the message through the Resend API
func (p *ResendProvider) Send(ctx context.Context, msg domain.Message) (string, error) {
	body, err := json.Marshal(resendRequest{
		From:    p.from,
		To:      []string{msg.Recipient},
		Subject: msg.Subject,
		HTML:    msg.Body,
	})
	if err != nil {
		return "", domain.NewDeliveryError(p.Name(), domain.ErrKindTransport,
			fmt.Sprintf("failed to marshal request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", domain.NewDeliveryError(p.Name(), domain.ErrKindTransport,
			fmt.Sprintf("failed to create request: %v", err))
	}

	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", classifyNetError(p.Name(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewDeliveryError(p.Name(), domain.ErrKindTransport,
			fmt.Sprintf("failed to read response body: %v", err))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", p.classifyStatus(resp.StatusCode, respBody)
	}

	var apiResp resendResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil || apiResp.ID == "" {
		// The send was accepted even if the body is unparseable.
		return fmt.Sprintf("resend-%d", time.Now().UnixNano()), nil
	}

	return apiResp.ID, nil
}

func (p *ResendProvider) classifyStatus(status int, body []byte) *domain.DeliveryError {
	detail := fmt.Sprintf("status %d", status)

	var apiErr resendErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		detail = fmt.Sprintf("status %d: %s", status, apiErr.Message)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewDeliveryError(p.Name(), domain.ErrKindAuth, detail)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return domain.NewDeliveryError(p.Name(), domain.ErrKindTimeout, detail)
	default:
		return domain.NewDeliveryError(p.Name(), domain.ErrKindTransport, detail)
	}
}
