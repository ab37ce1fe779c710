// Package smtpmail delivers deadline alerts by plain SMTP.
package smtpmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/lowrester/Veriqko/internal/observability/notify"
)

// Config captures SMTP connection settings. When Host is empty the sender
// runs in mock mode: alerts are logged and reported as sent, which keeps
// dev environments working without a relay.
type Config struct {
	Host             string
	Port             int
	Username         string
	Password         string
	From             string
	DefaultRecipient string
	Logger           *slog.Logger
}

// Sender delivers deadline alerts over SMTP.
type Sender struct {
	addr             string
	auth             smtp.Auth
	from             string
	defaultRecipient string
	logger           *slog.Logger
	send             func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender builds an SMTP sender.
func NewSender(cfg Config) (*Sender, error) {
	from := strings.TrimSpace(cfg.From)
	if from == "" && strings.TrimSpace(cfg.Host) != "" {
		return nil, errors.New("smtp from address is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "smtp_sink")

	s := &Sender{
		from:             from,
		defaultRecipient: strings.TrimSpace(cfg.DefaultRecipient),
		logger:           logger,
		send:             smtp.SendMail,
	}

	host := strings.TrimSpace(cfg.Host)
	if host != "" {
		port := cfg.Port
		if port <= 0 {
			port = 587
		}
		s.addr = fmt.Sprintf("%s:%d", host, port)
		if cfg.Username != "" {
			s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, host)
		}
	}

	return s, nil
}

// SendSLAAlert formats and sends the alert mail. With no relay configured
// the alert is logged instead and treated as delivered.
func (s *Sender) SendSLAAlert(ctx context.Context, payload notify.SLAAlertPayload) error {
	recipient := strings.TrimSpace(payload.Recipient)
	if recipient == "" {
		recipient = s.defaultRecipient
	}
	if recipient == "" {
		return errors.New("no recipient for sla alert")
	}

	if s.addr == "" {
		s.logger.InfoContext(ctx, "smtp not configured, logging alert instead",
			"job_id", payload.JobID,
			"serial_number", payload.SerialNumber,
			"level", payload.Level,
			"recipient", recipient,
		)
		return nil
	}

	subject := fmt.Sprintf("[%s] SLA %s: %s", payload.Level, strings.ToLower(payload.Level), payload.SerialNumber)
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", s.from)
	fmt.Fprintf(&body, "To: %s\r\n", recipient)
	fmt.Fprintf(&body, "Subject: %s\r\n", subject)
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&body, "Job %s (serial %s) has SLA status %s.\r\n", payload.JobID, payload.SerialNumber, payload.Level)
	if !payload.DueAt.IsZero() {
		fmt.Fprintf(&body, "Deadline: %s\r\n", payload.DueAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	if payload.Status != "" {
		fmt.Fprintf(&body, "Current phase: %s\r\n", payload.Status)
	}

	if err := s.send(s.addr, s.auth, s.from, []string{recipient}, []byte(body.String())); err != nil {
		return fmt.Errorf("send sla alert mail: %w", err)
	}
	return nil
}
