package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/okonjo-dev/fx-tracker/internal/config"
	"github.com/okonjo-dev/fx-tracker/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendRateAlert notifies a user that a rate threshold was crossed
func (s *Sender) SendRateAlert(to, username string, alert *models.RateAlert, rate float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Rate Alert: %s is %s %.2f", alert.Currency, alert.Direction, alert.Threshold)

	body := fmt.Sprintf(
		"Dear %s,\n\n", username,
	)
	body += fmt.Sprintf(
		"The %s exchange rate is now %.4f %s, %s your threshold of %.4f.\n"+
			"Alert time: %s\n\n"+
			"This alert will stay silent until you re-enable it.\n",
		alert.Currency, rate, s.cfg.HomeCurrency, alert.Direction, alert.Threshold,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	body += "\nBest regards,\nFX Tracker"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send rate alert to %s: %v", to, err)
		return fmt.Errorf("failed to send rate alert: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// SendWelcome greets a newly registered user
func (s *Sender) SendWelcome(to, username string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to FX Tracker"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your account has been created. Log your transactions, follow exchange\n"+
			"rates and set threshold alerts from your dashboard.\n",
		username,
	)
	body += "\nBest regards,\nFX Tracker"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send welcome email to %s: %v", to, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
