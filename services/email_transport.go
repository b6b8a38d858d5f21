package services

import (
	"context"
	"fmt"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"sync"
	"time"

	"github.com/resend/resend-go/v3"
	"github.com/wneessen/go-mail"
)

const (
	webmailHost = "smtp.gmail.com"
	webmailPort = 587
)

type mailMessage struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// mailTransport delivers a rendered message. Verify is called once before
// every Send.
type mailTransport interface {
	Name() string
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg *mailMessage) error
}

// resolveTransport picks the transport for a send: explicit SMTP, then the
// Resend API, then the webmail account.
func resolveTransport(cfg *structs.EmailConfig) (mailTransport, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	switch {
	case cfg.SMTPHost != "":
		port := cfg.SMTPPort
		if port == 0 {
			port = 587
		}
		return &smtpTransport{
			name:     "smtp",
			host:     cfg.SMTPHost,
			port:     port,
			username: cfg.SMTPUser,
			password: cfg.SMTPPassword,
			timeout:  timeout,
		}, nil
	case cfg.ResendAPIKey != "":
		return &resendTransport{client: getResendClient(cfg.ResendAPIKey)}, nil
	case cfg.WebmailUser != "" && cfg.WebmailPassword != "":
		return &smtpTransport{
			name:     "webmail",
			host:     webmailHost,
			port:     webmailPort,
			username: cfg.WebmailUser,
			password: cfg.WebmailPassword,
			timeout:  timeout,
		}, nil
	}
	return nil, lib.ErrEmailNotConfigured
}

// ============================================================================
// SMTP
// ============================================================================

type smtpTransport struct {
	name     string
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
}

func (t *smtpTransport) Name() string {
	return t.name
}

// client builds a go-mail client: STARTTLS when the server offers it, PLAIN
// auth when credentials are set.
func (t *smtpTransport) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(t.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(t.timeout),
	}
	if t.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.username),
			mail.WithPassword(t.password),
		)
	}
	c, err := mail.NewClient(t.host, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s client: %w", t.name, err)
	}
	return c, nil
}

// Verify dials, negotiates TLS and authenticates, then hangs up.
func (t *smtpTransport) Verify(ctx context.Context) error {
	c, err := t.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("%s verify: %w", t.name, err)
	}
	return c.Close()
}

func (t *smtpTransport) Send(ctx context.Context, msg *mailMessage) error {
	m, err := newMailMsg(msg)
	if err != nil {
		return err
	}
	c, err := t.client()
	if err != nil {
		return err
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%s send: %w", t.name, err)
	}
	return nil
}

// newMailMsg renders msg as multipart/alternative with a plain text body and
// an HTML alternative.
func newMailMsg(msg *mailMessage) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", msg.From, err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to %v: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

// ============================================================================
// Resend
// ============================================================================

var (
	resendMu      sync.Mutex
	resendClients = map[string]*resend.Client{}
)

func getResendClient(apiKey string) *resend.Client {
	resendMu.Lock()
	defer resendMu.Unlock()

	if client, ok := resendClients[apiKey]; ok {
		return client
	}
	client := resend.NewClient(apiKey)
	resendClients[apiKey] = client
	return client
}

type resendTransport struct {
	client *resend.Client
}

func (t *resendTransport) Name() string {
	return "resend"
}

// Verify only checks the client exists; the API has no handshake.
func (t *resendTransport) Verify(ctx context.Context) error {
	if t.client == nil {
		return lib.ErrEmailNotConfigured
	}
	return ctx.Err()
}

func (t *resendTransport) Send(ctx context.Context, msg *mailMessage) error {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	_, err := t.client.Emails.SendWithContext(ctx, params)
	return err
}
