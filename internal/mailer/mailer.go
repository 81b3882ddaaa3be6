// Package mailer delivers password reset links. Delivery failures are surfaced
// as ordinary errors so callers can distinguish them from lookup failures.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends a password reset link to a user.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetLink string) error
}

// SMTPMailer sends reset mail over SMTP.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPMailer creates an SMTPMailer for the given server and sender address.
func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

// SendPasswordReset sends the reset link by email.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, resetLink string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}

	msg.Subject("Reset your CourseTrack password")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Open the link below to choose a new password. The link expires shortly.\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n",
		resetLink,
	))

	opts := []gomail.Option{
		gomail.WithPort(m.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if m.user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.user),
			gomail.WithPassword(m.pass),
		)
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending reset mail: %w", err)
	}

	return nil
}

// LogMailer logs reset links instead of sending them. Used in development
// when no SMTP server is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, to, resetLink string) error {
	slog.Info("password reset link (mail transport disabled)", "to", to, "link", resetLink)
	return nil
}
