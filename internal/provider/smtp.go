package provider

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/kitciruelas/soteros-backend-sub001/internal/config"
	"github.com/kitciruelas/soteros-backend-sub001/internal/domain"
)

// SMTPProvider is the last-resort transport: a directly configured SMTP
// relay with no configuration gate. Slower and less reliable than the
// transactional APIs, but always attempted when everything before it
// in the chain has failed.
type SMTPProvider struct {
	host        string
	port        int
	username    string
	password    string
	senderName  string
	senderAddr  string
	dialTimeout time.Duration
}

// NewSMTPProvider creates the SMTP adapter
func NewSMTPProvider(cfg config.MailConfig) *SMTPProvider {
	return &SMTPProvider{
		host:        cfg.SMTP.Host,
		port:        cfg.SMTP.Port,
		username:    cfg.SMTP.Username,
		password:    cfg.SMTP.Password,
		senderName:  cfg.Sender.Name,
		senderAddr:  cfg.Sender.Address,
		dialTimeout: cfg.SendTimeout,
	}
}

// Name returns the provider identifier
func (p *SMTPProvider) Name() string {
	return "smtp"
}

// IsConfigured always reports true. The SMTP relay is the safety net of
// the fallback chain; absence of credentials surfaces as a send failure
// rather than a skip.
func (p *SMTPProvider) IsConfigured() bool {
	return true
}

// Send delivers the message over a fresh SMTP session. The socket
// deadline bounds the whole session, connect through data transfer.
func (p *SMTPProvider) Send(ctx context.Context, msg domain.Message) (string, error) {
	addr := net.JoinHostPort(p.host, strconv.Itoa(p.port))

	conn, err := net.DialTimeout("tcp", addr, p.dialTimeout)
	if err != nil {
		return "", classifyNetError(p.Name(), err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(p.dialTimeout)); err != nil {
		return "", classifyNetError(p.Name(), err)
	}

	client, err := smtp.NewClient(conn, p.host)
	if err != nil {
		return "", classifyNetError(p.Name(), err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: p.host}); err != nil {
			return "", classifyNetError(p.Name(), err)
		}
	}

	if p.username != "" {
		auth := smtp.PlainAuth("", p.username, p.password, p.host)
		if err := client.Auth(auth); err != nil {
			return "", domain.NewDeliveryError(p.Name(), domain.ErrKindAuth, err.Error())
		}
	}

	if err := client.Mail(p.senderAddr); err != nil {
		return "", classifyNetError(p.Name(), err)
	}
	if err := client.Rcpt(msg.Recipient); err != nil {
		return "", classifyNetError(p.Name(), err)
	}

	w, err := client.Data()
	if err != nil {
		return "", classifyNetError(p.Name(), err)
	}
	if _, err := w.Write(p.buildMessage(msg)); err != nil {
		return "", classifyNetError(p.Name(), err)
	}
	if err := w.Close(); err != nil {
		return "", classifyNetError(p.Name(), err)
	}

	// The relay accepted the message on DATA close; a failed QUIT is
	// not a delivery failure.
	_ = client.Quit()

	// SMTP has no provider-assigned ID; synthesize one for the result.
	return fmt.Sprintf("smtp-%d", time.Now().UnixNano()), nil
}

// buildMessage assembles the RFC 5322 message with an HTML body
func (p *SMTPProvider) buildMessage(msg domain.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", p.senderName, p.senderAddr)
	fmt.Fprintf(&b, "To: %s\r\n", msg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
