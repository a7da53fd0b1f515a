package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
}

type EmailNotifier struct {
	SMTPConfig SMTPConfig
	to         string
	client     *mail.Client
}

// NewEmailNotifier sends every notice to the operator address to.
func NewEmailNotifier(config SMTPConfig, to string) (*EmailNotifier, error) {
	if to == "" {
		return nil, fmt.Errorf("email notifier requires an operator address")
	}

	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(30 * time.Second),
	}

	// Only add authentication if username and password are provided
	if config.Username != "" && config.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	if config.TLS {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{ServerName: config.Host}),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	slog.Info("Creating mail client", "host", config.Host, "port", config.Port, "tls", config.TLS)
	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &EmailNotifier{SMTPConfig: config, to: to, client: client}, nil
}

func (e *EmailNotifier) newMessage(notice Notice) (*mail.Msg, error) {
	to := notice.To
	if to == "" {
		to = e.to
	}

	msg := mail.NewMsg()
	if err := msg.From(e.SMTPConfig.From); err != nil {
		return nil, fmt.Errorf("failed to set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("failed to set to address: %w", err)
	}
	msg.Subject(notice.Subject)
	msg.SetBodyString(mail.TypeTextPlain, notice.Body)
	return msg, nil
}

func (e *EmailNotifier) Notify(ctx context.Context, notice Notice) error {
	msg, err := e.newMessage(notice)
	if err != nil {
		slog.Error("Failed to build email", "err", err)
		return err
	}

	if err := e.client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Error("Failed to send email", "err", err)
		return err
	}

	slog.Info("Email sent successfully", "type", notice.Type, "host", e.SMTPConfig.Host)
	return nil
}
