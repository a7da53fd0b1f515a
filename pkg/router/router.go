package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-wishlist/pkg/account"
	pkgconfig "github.com/tendant/simple-wishlist/pkg/config"
	"github.com/tendant/simple-wishlist/pkg/errors"
	"github.com/tendant/simple-wishlist/pkg/sessions"
	"github.com/tendant/simple-wishlist/pkg/signup"
	"github.com/tendant/simple-wishlist/pkg/tokengenerator"
)

type contextKey string

const sessionKey contextKey = "session"

// AccountLookup loads the account behind a session
type AccountLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	PrefixConfig pkgconfig.PrefixConfig

	SignupHandle   *signup.Handle
	SessionService *sessions.Service
	Accounts       AccountLookup

	// HMACAuth verifies session tokens signed with the session secret
	HMACAuth     *jwtauth.JWTAuth
	CookieName   string
	CookieSetter tokengenerator.CookieSetter
}

// MeResponse describes the caller's current session
type MeResponse struct {
	AccountID uuid.UUID        `json:"account_id"`
	SessionID uuid.UUID        `json:"session_id"`
	ExpiresAt time.Time        `json:"expires_at"`
	Account   *account.Account `json:"account,omitempty"`
}

// TokenFromCookie returns a jwtauth token finder reading the named cookie
func TokenFromCookie(name string) func(r *http.Request) string {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"code":    errors.ErrCodeUnauthorized,
		"message": http.StatusText(http.StatusUnauthorized),
	})
}

// SessionMiddleware requires the verified token's session to be stored and active
func SessionMiddleware(svc *sessions.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				writeUnauthorized(w, r)
				return
			}
			sid, _ := claims["sid"].(string)
			sub, _ := claims["sub"].(string)

			session, err := svc.ValidateID(r.Context(), sid, sub)
			if err != nil {
				slog.Info("Session rejected", "session_id", sid, "err", err)
				writeUnauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session set by SessionMiddleware
func SessionFromContext(ctx context.Context) (*sessions.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*sessions.Session)
	return session, ok
}

// SetupRoutes mounts the signup and session routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	if cfg.PrefixConfig.Signup != "" && cfg.SignupHandle != nil {
		router.Mount(cfg.PrefixConfig.Signup, signup.Handler(cfg.SignupHandle))
	}

	if cfg.PrefixConfig.Session == "" || cfg.SessionService == nil || cfg.HMACAuth == nil {
		return
	}

	router.Route(cfg.PrefixConfig.Session, func(r chi.Router) {
		r.Use(jwtauth.Verify(cfg.HMACAuth, TokenFromCookie(cfg.CookieName), jwtauth.TokenFromHeader))
		r.Use(jwtauth.Authenticator(cfg.HMACAuth))
		r.Use(SessionMiddleware(cfg.SessionService))

		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, r)
				return
			}

			resp := MeResponse{
				AccountID: session.AccountID,
				SessionID: session.ID,
				ExpiresAt: session.ExpiresAt,
			}
			if cfg.Accounts != nil {
				acct, err := cfg.Accounts.GetByID(r.Context(), session.AccountID)
				if err != nil {
					slog.Error("Failed getting me", "account_id", session.AccountID, "err", err)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				resp.Account = acct
			}
			render.JSON(w, r, resp)
		})

		r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, r)
				return
			}
			if err := cfg.SessionService.Revoke(r.Context(), session.ID); err != nil {
				slog.Error("Failed to revoke session", "session_id", session.ID, "err", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if cfg.CookieSetter != nil {
				cfg.CookieSetter.ClearCookie(w, cfg.CookieName)
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	slog.Info("Routes mounted", "signup", cfg.PrefixConfig.Signup, "session", cfg.PrefixConfig.Session)
}
