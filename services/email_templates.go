package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shopspring/decimal"
)

const (
	mailKindOrderConfirmation   = "order_confirmation"
	mailKindAdminOrderAlert     = "admin_order_alert"
	mailKindCustomConfirmation  = "custom_order_confirmation"
	mailKindCustomOrderAlert    = "custom_order_alert"
	mailKindReviewNotification  = "review_notification"
	mailKindContactNotification = "contact_notification"
)

var templateFuncs = map[string]any{
	"money": formatMoney,
}

func formatMoney(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

const htmlLayoutStart = `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #b5838d; color: white; padding: 20px; text-align: center; }
		.content { padding: 20px; background-color: #faf6f2; }
		.details { background-color: white; padding: 15px; margin: 15px 0; border-radius: 5px; }
		.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
		ul { list-style-type: none; padding: 0; }
		li { padding: 5px 0; border-bottom: 1px solid #eee; }
	</style>
</head>
<body>
<div class="container">`

const htmlLayoutEnd = `
	<div class="footer"><p>{{.AppName}} | Handmade with love</p></div>
</div>
</body>
</html>`

type mailTemplate struct {
	subject string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

func newMailTemplate(name, subject, htmlBody, textBody string) *mailTemplate {
	return &mailTemplate{
		subject: subject,
		html:    htmltemplate.Must(htmltemplate.New(name).Funcs(templateFuncs).Parse(htmlLayoutStart + htmlBody + htmlLayoutEnd)),
		text:    texttemplate.Must(texttemplate.New(name).Funcs(templateFuncs).Parse(textBody)),
	}
}

// render fills subject, HTML and text bodies from the same data.
func (t *mailTemplate) render(data any, subjectArgs ...any) (subject, html, text string, err error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := t.html.Execute(&htmlBuf, data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	if err := t.text.Execute(&textBuf, data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return fmt.Sprintf(t.subject, subjectArgs...), htmlBuf.String(), textBuf.String(), nil
}

var mailTemplates = map[string]*mailTemplate{
	mailKindOrderConfirmation: newMailTemplate(mailKindOrderConfirmation,
		"Your order %s",
		`
	<div class="header"><h1>Thank you for your order!</h1></div>
	<div class="content">
		<p>Dear {{.Order.ClientName}},</p>
		<p>We received your order and will start crafting it soon.</p>
		<div class="details">
			<h3>Order number: <strong>{{.Order.OrderNumber}}</strong></h3>
			<ul>{{range .Order.Items}}<li>{{.Quantity}}x {{.Name}} - {{money .Price}}{{range .Customizations}}<br><small>{{.Name}}: {{.Value}}</small>{{end}}</li>{{end}}</ul>
			<p><strong>Total: {{money .Order.Total}}</strong></p>
			<h4>Delivery address</h4>
			<p>{{.Order.Address}}</p>
			<p>Estimated production time: {{.Order.Delivery.DaysMin}}-{{.Order.Delivery.DaysMax}} days</p>
		</div>
		<p>Questions? Reply to this email or write to {{.AdminAddress}}.</p>
	</div>`,
		`Dear {{.Order.ClientName}},

We received your order {{.Order.OrderNumber}}.
{{range .Order.Items}}
- {{.Quantity}}x {{.Name}} - {{money .Price}}{{range .Customizations}}
    {{.Name}}: {{.Value}}{{end}}{{end}}

Total: {{money .Order.Total}}
Delivery address: {{.Order.Address}}
Estimated production time: {{.Order.Delivery.DaysMin}}-{{.Order.Delivery.DaysMax}} days

Questions? Write to {{.AdminAddress}}.
{{.AppName}}
`),

	mailKindAdminOrderAlert: newMailTemplate(mailKindAdminOrderAlert,
		"New order %s",
		`
	<div class="header"><h1>New order {{.Order.OrderNumber}}</h1></div>
	<div class="content">
		<div class="details">
			<p><strong>Client:</strong> {{.Order.ClientName}}</p>
			<p><strong>Email:</strong> {{.Order.Email}}</p>
			<p><strong>Phone:</strong> {{.Order.Phone}}</p>
			<p><strong>Address:</strong> {{.Order.Address}}</p>
			<p><strong>Channel:</strong> {{.Order.Channel}}</p>
			{{if .Order.Notes}}<p><strong>Notes:</strong> {{.Order.Notes}}</p>{{end}}
			<ul>{{range .Order.Items}}<li>{{.Quantity}}x {{.Name}} - {{money .Price}}{{range .Customizations}}<br><small>{{.Name}}: {{.Value}}</small>{{end}}</li>{{end}}</ul>
			<p><strong>Total: {{money .Order.Total}}</strong></p>
		</div>
	</div>`,
		`New order {{.Order.OrderNumber}} via {{.Order.Channel}}

Client: {{.Order.ClientName}}
Email: {{.Order.Email}}
Phone: {{.Order.Phone}}
Address: {{.Order.Address}}
{{if .Order.Notes}}Notes: {{.Order.Notes}}
{{end}}{{range .Order.Items}}
- {{.Quantity}}x {{.Name}} - {{money .Price}}{{range .Customizations}}
    {{.Name}}: {{.Value}}{{end}}{{end}}

Total: {{money .Order.Total}}
`),

	mailKindCustomConfirmation: newMailTemplate(mailKindCustomConfirmation,
		"We received your custom order request",
		`
	<div class="header"><h1>Your request is in!</h1></div>
	<div class="content">
		<p>Dear {{.Custom.Name}},</p>
		<p>Thank you for your custom order request. We will review it and get back to you shortly.</p>
		<div class="details">
			<p>{{.Custom.Description}}</p>
			{{if .Custom.Requirements}}<p><strong>Requirements:</strong> {{.Custom.Requirements}}</p>{{end}}
		</div>
	</div>`,
		`Dear {{.Custom.Name}},

Thank you for your custom order request. We will review it and get back to you shortly.

{{.Custom.Description}}
{{if .Custom.Requirements}}Requirements: {{.Custom.Requirements}}
{{end}}
{{.AppName}}
`),

	mailKindCustomOrderAlert: newMailTemplate(mailKindCustomOrderAlert,
		"New custom order request from %s",
		`
	<div class="header"><h1>New custom order request</h1></div>
	<div class="content">
		<div class="details">
			<p><strong>Name:</strong> {{.Custom.Name}}</p>
			<p><strong>Email:</strong> {{.Custom.Email}}</p>
			{{if .Custom.Phone}}<p><strong>Phone:</strong> {{.Custom.Phone}}</p>{{end}}
			<p><strong>Description:</strong> {{.Custom.Description}}</p>
			{{if .Custom.Requirements}}<p><strong>Requirements:</strong> {{.Custom.Requirements}}</p>{{end}}
			{{if .Custom.Budget}}<p><strong>Budget:</strong> {{money .Custom.Budget}}</p>{{end}}
			{{if .Custom.Deadline}}<p><strong>Deadline:</strong> {{.Custom.Deadline.Format "2006-01-02"}}</p>{{end}}
		</div>
	</div>`,
		`New custom order request

Name: {{.Custom.Name}}
Email: {{.Custom.Email}}
{{if .Custom.Phone}}Phone: {{.Custom.Phone}}
{{end}}Description: {{.Custom.Description}}
{{if .Custom.Requirements}}Requirements: {{.Custom.Requirements}}
{{end}}{{if .Custom.Budget}}Budget: {{money .Custom.Budget}}
{{end}}{{if .Custom.Deadline}}Deadline: {{.Custom.Deadline.Format "2006-01-02"}}
{{end}}`),

	mailKindReviewNotification: newMailTemplate(mailKindReviewNotification,
		"New %d-star review",
		`
	<div class="header"><h1>New review</h1></div>
	<div class="content">
		<div class="details">
			<p><strong>{{.Review.AuthorName}}</strong> rated {{.Review.Rating}}/5{{if .Review.IsVerified}} (verified purchase){{end}}</p>
			<p>{{.Review.Comment}}</p>
		</div>
	</div>`,
		`New review by {{.Review.AuthorName}}: {{.Review.Rating}}/5{{if .Review.IsVerified}} (verified purchase){{end}}

{{.Review.Comment}}
`),

	mailKindContactNotification: newMailTemplate(mailKindContactNotification,
		"Contact form: %s",
		`
	<div class="header"><h1>New message</h1></div>
	<div class="content">
		<div class="details">
			<p><strong>From:</strong> {{.Contact.Name}} &lt;{{.Contact.Email}}&gt;</p>
			<p><strong>Subject:</strong> {{.Contact.Subject}}</p>
			<p>{{.Contact.Message}}</p>
		</div>
	</div>`,
		`From: {{.Contact.Name}} <{{.Contact.Email}}>
Subject: {{.Contact.Subject}}

{{.Contact.Message}}
`),
}
