package infrastructure

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/internal/domain"
)

// Mailer sends verification codes over SMTP. When no host is configured
// it runs in dev fallback mode: the code is logged instead of sent, and
// Send reports that nothing left the machine.
type Mailer struct {
	config *domain.SMTPConfig
	logger *zap.Logger
}

// NewMailer creates a verification mailer
func NewMailer(config *domain.SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{config: config, logger: logger}
}

// Configured reports whether SMTP delivery is available
func (m *Mailer) Configured() bool {
	return m.config.Host != ""
}

// SendVerification delivers a verification code to the given address.
// Returns sent=false (and no error) in dev fallback mode. SMTP failures,
// including timeout expiry, are hard errors.
func (m *Mailer) SendVerification(ctx context.Context, email, code, name string) (sent bool, err error) {
	if !m.Configured() {
		m.logger.Warn("SMTP not configured, verification code not sent",
			zap.String("email", email),
			zap.String("code", code))
		return false, nil
	}

	sender := m.config.From
	if sender == "" {
		sender = m.config.Username
	}
	if sender == "" {
		return false, fmt.Errorf("smtp from address not configured")
	}

	displayName := name
	if displayName == "" {
		displayName = "there"
	}

	msg := mail.NewMsg()
	if err := msg.From(sender); err != nil {
		return false, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return false, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(fmt.Sprintf("%s — verification code", m.config.AppName))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Hi %s!\n\nYour verification code: %s\n\nThe code is valid for 15 minutes. If this wasn't you, just ignore this message.\n\n— The %s team\n",
		displayName, code, m.config.AppName))

	client, err := m.buildClient()
	if err != nil {
		return false, err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return false, fmt.Errorf("smtp send: %w", err)
	}

	m.logger.Info("Verification email sent", zap.String("email", email))
	return true, nil
}

func (m *Mailer) buildClient() (*mail.Client, error) {
	options := []mail.Option{
		mail.WithPort(m.config.Port),
		// The hard timeout covers dial, handshake and delivery
		mail.WithTimeout(m.config.Timeout),
	}

	if m.config.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.Username),
			mail.WithPassword(m.config.Password))
	}

	switch {
	case m.config.UseSSL:
		options = append(options, mail.WithSSL())
	case m.config.UseTLS:
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.config.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}
