package services

import (
	"context"
	"errors"
	"fmt"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
)

var errNoAdminAddress = errors.New("admin notification address not configured")

type mailData struct {
	AppName      string
	AdminAddress string
	Order        *structs.OrderNotification
	Custom       *tables.CustomOrder
	Review       *tables.Review
	Contact      *tables.ContactMessage
}

// EmailService renders and delivers transactional emails. The transport is
// resolved for every message.
type EmailService struct {
	logger  *gecho.Logger
	cfg     *structs.Config
	resolve func(cfg *structs.EmailConfig) (mailTransport, error)
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger:  logger,
		cfg:     cfg,
		resolve: resolveTransport,
	}
}

func (es *EmailService) from() string {
	if es.cfg.Email.From != "" {
		return es.cfg.Email.From
	}
	return es.cfg.Email.WebmailUser
}

func (es *EmailService) newMailData() *mailData {
	return &mailData{
		AppName:      es.cfg.Server.AppName,
		AdminAddress: es.cfg.Email.AdminAddress,
	}
}

// deliver renders the template for kind and performs one verify and one send.
func (es *EmailService) deliver(ctx context.Context, kind string, to []string, data *mailData, subjectArgs ...any) (err error) {
	start := time.Now()
	defer func() { recordNotification("email", kind, err) }()

	tmpl, ok := mailTemplates[kind]
	if !ok {
		return fmt.Errorf("unknown email template %q", kind)
	}

	subject, html, text, err := tmpl.render(data, subjectArgs...)
	if err != nil {
		return err
	}

	transport, err := es.resolve(es.cfg.Email)
	if err != nil {
		es.logger.Warn("Email not sent", gecho.Field("kind", kind), gecho.Field("error", err))
		return err
	}

	if err = transport.Verify(ctx); err != nil {
		es.logger.Error("Email transport verification failed",
			gecho.Field("transport", transport.Name()),
			gecho.Field("kind", kind),
			gecho.Field("error", err),
		)
		return err
	}

	err = transport.Send(ctx, &mailMessage{
		From:    es.from(),
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		es.logger.Error("Failed to send email",
			gecho.Field("transport", transport.Name()),
			gecho.Field("kind", kind),
			gecho.Field("to", to),
			gecho.Field("error", err),
		)
		return err
	}

	es.logger.Debug("Email sent",
		gecho.Field("transport", transport.Name()),
		gecho.Field("kind", kind),
		gecho.Field("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func (es *EmailService) adminRecipients() ([]string, error) {
	if es.cfg.Email.AdminAddress == "" {
		return nil, errNoAdminAddress
	}
	return []string{es.cfg.Email.AdminAddress}, nil
}

func (es *EmailService) SendOrderConfirmation(ctx context.Context, n *structs.OrderNotification) error {
	data := es.newMailData()
	data.Order = n
	return es.deliver(ctx, mailKindOrderConfirmation, []string{n.Email}, data, n.OrderNumber)
}

func (es *EmailService) SendAdminOrderAlert(ctx context.Context, n *structs.OrderNotification) error {
	to, err := es.adminRecipients()
	if err != nil {
		recordNotification("email", mailKindAdminOrderAlert, err)
		return err
	}
	data := es.newMailData()
	data.Order = n
	return es.deliver(ctx, mailKindAdminOrderAlert, to, data, n.OrderNumber)
}

func (es *EmailService) SendCustomOrderConfirmation(ctx context.Context, order *tables.CustomOrder) error {
	data := es.newMailData()
	data.Custom = order
	return es.deliver(ctx, mailKindCustomConfirmation, []string{order.Email}, data)
}

func (es *EmailService) SendCustomOrderAlert(ctx context.Context, order *tables.CustomOrder) error {
	to, err := es.adminRecipients()
	if err != nil {
		recordNotification("email", mailKindCustomOrderAlert, err)
		return err
	}
	data := es.newMailData()
	data.Custom = order
	return es.deliver(ctx, mailKindCustomOrderAlert, to, data, order.Name)
}

func (es *EmailService) SendReviewNotification(ctx context.Context, review *tables.Review) error {
	to, err := es.adminRecipients()
	if err != nil {
		recordNotification("email", mailKindReviewNotification, err)
		return err
	}
	data := es.newMailData()
	data.Review = review
	return es.deliver(ctx, mailKindReviewNotification, to, data, review.Rating)
}

func (es *EmailService) SendContactNotification(ctx context.Context, msg *tables.ContactMessage) error {
	to, err := es.adminRecipients()
	if err != nil {
		recordNotification("email", mailKindContactNotification, err)
		return err
	}
	data := es.newMailData()
	data.Contact = msg
	return es.deliver(ctx, mailKindContactNotification, to, data, msg.Subject)
}
