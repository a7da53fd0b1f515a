// Package main runs the wishlist signup API without a database using in-memory repositories.
// This is useful for:
// - Quick development and testing
// - Trying the invite flow without database setup
//
// Note: All data is lost when the server stops. For production, use cmd/wishlist with PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/simple-wishlist/pkg/account"
	"github.com/tendant/simple-wishlist/pkg/config"
	"github.com/tendant/simple-wishlist/pkg/invite"
	"github.com/tendant/simple-wishlist/pkg/notification"
	"github.com/tendant/simple-wishlist/pkg/ratelimit"
	"github.com/tendant/simple-wishlist/pkg/router"
	"github.com/tendant/simple-wishlist/pkg/sessions"
	"github.com/tendant/simple-wishlist/pkg/signup"
	"github.com/tendant/simple-wishlist/pkg/tokengenerator"
)

const (
	sessionSecret = "inmem-dev-secret-change-in-production"
	baseURL       = "http://localhost:4000"
	issuer        = "inmem-wishlist"
	cookieName    = "wishlist_session"
)

type Config struct {
	Signup    config.SignupConfig
	RateLimit config.RateLimitConfig
	Prefix    config.PrefixConfig
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting In-Memory Wishlist Service (no database required)")
	slog.Info(strings.Repeat("=", 60))

	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read config", "err", err)
		os.Exit(1)
	}

	accounts := account.NewInMemoryRepository()
	invites := invite.NewService(invite.NewInMemoryRepository())

	groupID := uuid.New()
	accounts.AddGroup(groupID, "family")

	issued, err := invites.Issue(context.Background(), &groupID)
	if err != nil {
		slog.Error("Failed to seed invite", "err", err)
		os.Exit(1)
	}

	generator := tokengenerator.NewJwtTokenGenerator(sessionSecret, issuer, "")
	sessionSvc := sessions.NewService(sessions.NewInMemoryRepository(), generator)
	cookieSetter := tokengenerator.NewCookieSetter(true, false, http.SameSiteLaxMode)

	signupSvc := signup.NewService(
		signup.NewPolicy(cfg.Signup),
		invites,
		account.NewRegistrar(accounts),
		sessionSvc,
		signup.WithNotifier(notification.NewManager(notification.NewLogNotifier(logger))),
	)

	limiter := ratelimit.NewMiddleware(cfg.RateLimit)
	handle := signup.NewHandle(signupSvc,
		signup.WithCookieName(cookieName),
		signup.WithCookieSetter(cookieSetter),
		signup.WithSessionValidator(sessionSvc),
		signup.WithSignupMiddleware(limiter.Handler),
	)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	prefixes := cfg.Prefix
	router.SetupRoutes(r, router.Config{
		PrefixConfig:   prefixes,
		SignupHandle:   handle,
		SessionService: sessionSvc,
		Accounts:       accounts,
		HMACAuth:       jwtauth.New("HS256", []byte(sessionSecret), nil),
		CookieName:     cookieName,
		CookieSetter:   cookieSetter,
	})

	slog.Info(strings.Repeat("=", 60))
	slog.Info("In-Memory Wishlist Service Ready")
	slog.Info("Base URL: " + baseURL)
	slog.Info("")
	slog.Info("Seeded invite:", "group_id", groupID, "token", issued.RawToken)
	slog.Info("  GET  " + prefixes.Signup + "/?token=" + issued.RawToken)
	slog.Info("")
	slog.Info("API Endpoints:")
	slog.Info("  GET  " + prefixes.Signup + "/       - Check invite token")
	slog.Info("  POST " + prefixes.Signup + "/       - Create account")
	slog.Info("  GET  " + prefixes.Session + "/me    - Current session (auth required)")
	slog.Info("  POST " + prefixes.Session + "/logout - Logout (auth required)")
	slog.Info(strings.Repeat("=", 60))

	if err := http.ListenAndServe(":4000", r); err != nil {
		slog.Error("Server failed", "err", err)
		os.Exit(1)
	}
}
