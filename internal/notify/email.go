// Package notify provides email notifications for application review decisions.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/baristahub/baristahub-backend/database"
	application "github.com/baristahub/baristahub-backend/events/modules/applications"
	"github.com/baristahub/baristahub-backend/model"
	"go.uber.org/zap"
)

var logger = database.InitLogger()

// EmailConfig holds email service configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	BaseURL      string // Front end base URL for links in the email
}

// Configured reports whether SMTP credentials are present
func (c EmailConfig) Configured() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != ""
}

// sendFunc matches smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends review decision emails. Without SMTP credentials it logs instead.
type Mailer struct {
	config EmailConfig
	send   sendFunc
}

// NewMailer creates a Mailer that delivers through net/smtp
func NewMailer(config EmailConfig) *Mailer {
	return &Mailer{config: config, send: smtp.SendMail}
}

// ReviewEmailData holds data for the review email template
type ReviewEmailData struct {
	Username     string
	Accepted     bool
	Note         string
	Link         string
	SupportEmail string
}

// NotifyApplicationReviewed emails the barista about the decision
func (m *Mailer) NotifyApplicationReviewed(_ context.Context, event application.ApplicationReviewedEvent) error {
	data := ReviewEmailData{
		Username:     event.Username,
		Accepted:     event.Decision == model.StatusAccepted,
		Note:         event.Note,
		SupportEmail: m.config.FromEmail,
	}
	if data.Accepted {
		data.Link = m.config.BaseURL + "/"
	} else {
		data.Link = m.config.BaseURL + "/ProfileAuth"
	}

	if !m.config.Configured() {
		logger.Info("email not configured, review notification logged only",
			zap.String("email", event.Email),
			zap.String("decision", event.Decision.String()),
			zap.String("link", data.Link))
		return nil
	}

	subject := "Your barista application was rejected"
	if data.Accepted {
		subject = "Welcome aboard: your barista application was accepted"
	}

	body, err := renderReviewEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return m.sendEmail(event.Email, subject, body)
}

var reviewTemplate = template.Must(template.New("review").Parse(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #6F4E37; color: white; padding: 20px; text-align: center; }
		.content { padding: 30px; background-color: #f9f9f9; }
		.note { background-color: #f3ebe4; border-left: 4px solid #6F4E37; padding: 15px; margin: 20px 0; }
		.footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>{{if .Accepted}}You're on the team!{{else}}Application update{{end}}</h1>
		</div>

		<div class="content">
			<p>Hi <strong>{{.Username}}</strong>,</p>
			{{if .Accepted}}
			<p>Your barista application has been accepted. You can log in and start taking orders.</p>
			{{else}}
			<p>Your barista application has been rejected. You can update your profile and apply again.</p>
			{{end}}
			{{if .Note}}<div class="note"><strong>Reviewer note:</strong> {{.Note}}</div>{{end}}
			<p><a href="{{.Link}}">{{if .Accepted}}Go to BaristaHub{{else}}Update your profile{{end}}</a></p>
		</div>

		<div class="footer">
			<p>BaristaHub<br>
			Questions? Contact <a href="mailto:{{.SupportEmail}}">{{.SupportEmail}}</a></p>
		</div>
	</div>
</body>
</html>
`))

func renderReviewEmail(data ReviewEmailData) (string, error) {
	var buf bytes.Buffer
	if err := reviewTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sendEmail sends an email using SMTP
func (m *Mailer) sendEmail(to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", m.config.SMTPUsername, m.config.SMTPPassword, m.config.SMTPHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.config.FromName, m.config.FromEmail, to, subject, htmlBody,
	))

	addr := fmt.Sprintf("%s:%s", m.config.SMTPHost, m.config.SMTPPort)
	return m.send(addr, auth, m.config.FromEmail, []string{to}, msg)
}
