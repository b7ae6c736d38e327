package report

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"MorningScan/internal/domain/models"
	domsvc "MorningScan/internal/domain/service"
	applogger "MorningScan/pkg/logger"
)

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// EmailSender delivers the morning report over SMTP.
type EmailSender struct {
	cfg        EmailConfig
	logger     *applogger.Logger
	attachment string
}

func NewEmailSender(cfg EmailConfig, logger *applogger.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: logger}
}

// SetAttachment attaches a file (the CSV pick log) to each report.
func (s *EmailSender) SetAttachment(path string) { s.attachment = path }

// SendDailyReport formats the batch and mails it to the configured
// recipients. One connection per report; the scanner sends once a day.
func (s *EmailSender) SendDailyReport(ctx context.Context, items []*models.ScoredArticle, insights models.InsightSummary) error {
	body := FormatDailyReport(items, insights, time.Now())

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("report from address: %w", err)
	}
	if err := msg.To(s.cfg.To...); err != nil {
		return fmt.Errorf("report recipients: %w", err)
	}
	msg.Subject(fmt.Sprintf("Morgonscan %s", time.Now().Format("2006-01-02")))
	msg.SetBodyString(mail.TypeTextPlain, body)
	if s.attachment != "" {
		msg.AttachFile(s.attachment)
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("daily report sent",
			applogger.Int("items", len(items)),
			applogger.Int("recipients", len(s.cfg.To)))
	}
	return nil
}

var _ domsvc.ReportSender = (*EmailSender)(nil)
