package config

import (
	"github.com/tendant/simple-wishlist/pkg/notification"
)

// EmailConfig holds SMTP settings for operator alerts
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:""`
	Password string `env:"EMAIL_PASSWORD" env-default:""`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`

	// OperatorAddress receives alerts such as broken group links.
	// Alerts are only logged when it is empty.
	OperatorAddress string `env:"OPERATOR_EMAIL" env-default:""`
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}

// AlertsEnabled reports whether operator alerts should be mailed.
func (e EmailConfig) AlertsEnabled() bool {
	return e.OperatorAddress != ""
}
