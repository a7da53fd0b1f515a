package config

import (
	"net/http"
	"time"
)

// SessionConfig holds session token and cookie settings
type SessionConfig struct {
	Secret         string        `env:"SESSION_SECRET" env-default:"very-secure-session-secret"`
	Issuer         string        `env:"SESSION_ISSUER" env-default:"simple-wishlist"`
	Audience       string        `env:"SESSION_AUDIENCE" env-default:"simple-wishlist"`
	Expiry         time.Duration `env:"SESSION_EXPIRY" env-default:"720h"`
	CookieName     string        `env:"SESSION_COOKIE_NAME" env-default:"wishlist_session"`
	CookieHttpOnly bool          `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure   bool          `env:"COOKIE_SECURE" env-default:"true"`
}

// CookieSameSite returns the appropriate SameSite setting based on CookieSecure
func (s SessionConfig) CookieSameSite() http.SameSite {
	if s.CookieSecure {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}
