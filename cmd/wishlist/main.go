// Package main runs the wishlist signup and session API against PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
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

type Config struct {
	Database  config.DatabaseConfig
	Signup    config.SignupConfig
	Session   config.SessionConfig
	Email     config.EmailConfig
	RateLimit config.RateLimitConfig
	Prefix    config.PrefixConfig
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
	}))
	slog.SetDefault(logger)

	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read config", "err", err)
		os.Exit(1)
	}

	pool, err := dbutils.NewDbPool(context.Background(), cfg.Database.ToDbConfig())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", cfg.Database.Database, "host", cfg.Database.Host, "port", cfg.Database.Port, "user", cfg.Database.User)
		os.Exit(-1)
	}
	defer pool.Close()

	accounts := account.NewPostgresRepository(pool)
	registrar := account.NewRegistrar(accounts)
	invites := invite.NewService(invite.NewPostgresRepository(pool))

	generator := tokengenerator.NewJwtTokenGenerator(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.Audience)
	sessionSvc := sessions.NewService(sessions.NewPostgresRepository(pool), generator, sessions.WithExpiry(cfg.Session.Expiry))
	cookieSetter := tokengenerator.NewCookieSetter(cfg.Session.CookieHttpOnly, cfg.Session.CookieSecure, cfg.Session.CookieSameSite())

	notifier := notification.NewManager(notification.NewLogNotifier(logger))
	if cfg.Email.AlertsEnabled() {
		emailNotifier, err := notification.NewEmailNotifier(cfg.Email.ToSMTPConfig(), cfg.Email.OperatorAddress)
		if err != nil {
			slog.Error("Failed creating email notifier", "host", cfg.Email.Host, "err", err)
			os.Exit(1)
		}
		notifier.RegisterNotifier(emailNotifier)
	}

	signupSvc := signup.NewService(signup.NewPolicy(cfg.Signup), invites, registrar, sessionSvc, signup.WithNotifier(notifier))

	handleOpts := []signup.HandleOption{
		signup.WithCookieName(cfg.Session.CookieName),
		signup.WithCookieSetter(cookieSetter),
		signup.WithSessionValidator(sessionSvc),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewMiddleware(cfg.RateLimit)
		go limiter.Limiter().RunCleanup(ctx, 5*time.Minute, 10*time.Minute)
		handleOpts = append(handleOpts, signup.WithSignupMiddleware(limiter.Handler))
	}

	server := app.DefaultApp()
	app.RegisterHealthzRoutes(server.R)

	router.SetupRoutes(server.R, router.Config{
		PrefixConfig:   cfg.Prefix,
		SignupHandle:   signup.NewHandle(signupSvc, handleOpts...),
		SessionService: sessionSvc,
		Accounts:       accounts,
		HMACAuth:       jwtauth.New("HS256", []byte(cfg.Session.Secret), nil),
		CookieName:     cfg.Session.CookieName,
		CookieSetter:   cookieSetter,
	})

	slog.Info("Signup policy", "open_signup", cfg.Signup.EnableSignup, "token_ttl_hours", cfg.Signup.TokenTTLHours())
	server.Run()
}
