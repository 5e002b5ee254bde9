// backend/src/services/email_service.go
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/username/hosteltracker/backend/src/config"
	"github.com/username/hosteltracker/backend/src/logger"
)

// EmailService delivers the monthly dashboard report to flagged users.
type EmailService interface {
	SendMonthlyReport(toEmail, name, month string, attachment []byte, filename string) error
}

func NewEmailService() EmailService {
	if config.Cfg == nil {
		slog.Error("Configuration (config.Cfg) is nil. Email service will default to mock.")
		return &MockEmailService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
		}
	case "smtp":
		if config.Cfg.SMTPServer == "" || config.Cfg.SMTPUser == "" || config.Cfg.SMTPPassword == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("SMTP configuration incomplete. Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		return &SMTPEmailService{
			SMTPServer:   config.Cfg.SMTPServer,
			SMTPPort:     config.Cfg.SMTPPort,
			SMTPUser:     config.Cfg.SMTPUser,
			SMTPPassword: config.Cfg.SMTPPassword,
			SenderEmail:  config.Cfg.SenderEmail,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

type MailgunEmailService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunEmailService) SendMonthlyReport(toEmail, name, month string, attachment []byte, filename string) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	subject := fmt.Sprintf("Monthly Dashboard Report - %s", month)

	plainTextBody := fmt.Sprintf(`Hi %s,

Attached is the dashboard report for %s: total revenue, total expenses,
net profit, and the expense breakdown by category.

Thanks,
%s`, name, month, s.senderName)

	message := s.mg.NewMessage(from, subject, plainTextBody, toEmail)
	message.AddBufferAttachment(filename, attachment)
	message.AddTag("monthly-report")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send monthly report via Mailgun", "error", err, "to", toEmail, "month", month, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Monthly report sent via Mailgun", "to", toEmail, "month", month, "id", id)
	return nil
}

type SMTPEmailService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

func (s *SMTPEmailService) SendMonthlyReport(toEmail, name, month string, attachment []byte, filename string) error {
	from := s.SenderEmail
	to := []string{toEmail}
	subject := fmt.Sprintf("Monthly Dashboard Report - %s", month)
	body := fmt.Sprintf("Hi %s,\r\n\r\nAttached is the dashboard report for %s.\r\n", name, month)

	boundary := "hosteltracker-report-boundary"
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: application/vnd.openxmlformats-officedocument.spreadsheetml.sheet\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)
	msg.WriteString(base64.StdEncoding.EncodeToString(attachment))
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
	if err := smtp.SendMail(addr, auth, from, to, []byte(msg.String())); err != nil {
		logger.L.Error("Failed to send monthly report via SMTP", "error", err, "to", toEmail, "month", month)
		return fmt.Errorf("failed to send monthly report via SMTP: %w", err)
	}
	logger.L.Info("Monthly report sent via SMTP", "to", toEmail, "month", month)
	return nil
}

type MockEmailService struct{}

func (m *MockEmailService) SendMonthlyReport(toEmail, name, month string, attachment []byte, filename string) error {
	if logger.L != nil {
		logger.L.Info("MockEmailService: Would send monthly report.",
			"to", toEmail, "name", name, "month", month, "filename", filename, "attachmentBytes", len(attachment))
	}
	return nil
}
