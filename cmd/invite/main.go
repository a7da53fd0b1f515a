package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/simple-wishlist/pkg/config"
	"github.com/tendant/simple-wishlist/pkg/invite"
	"github.com/tendant/simple-wishlist/pkg/signup"
)

type Config struct {
	Database config.DatabaseConfig
	Signup   config.SignupConfig
}

func main() {
	group := flag.String("group", "", "Group ID the invited account joins (optional)")
	baseURL := flag.String("base-url", "", "Signup page URL; when set a full invite link is printed")
	outputFormat := flag.String("format", "compact", "Output format: compact or full")
	flag.Parse()

	var groupID *uuid.UUID
	if *group != "" {
		id, err := uuid.Parse(*group)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid group id %q: %v\n", *group, err)
			os.Exit(1)
		}
		groupID = &id
	}

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

	issued, err := invite.NewService(invite.NewPostgresRepository(pool)).Issue(context.Background(), groupID)
	if err != nil {
		slog.Error("Failed to issue invite", "err", err)
		fmt.Fprintf(os.Stderr, "Error: Failed to issue invite: %v\n", err)
		os.Exit(1)
	}

	link := issued.RawToken
	if *baseURL != "" {
		u, err := url.Parse(*baseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid base url %q: %v\n", *baseURL, err)
			os.Exit(1)
		}
		q := u.Query()
		q.Set("token", issued.RawToken)
		u.RawQuery = q.Encode()
		link = u.String()
	}

	switch *outputFormat {
	case "compact":
		fmt.Println(link)
	case "full":
		expiresAt := signup.ComputeExpiry(issued.Token.CreatedAt, cfg.Signup.TokenTTLHours())
		fmt.Printf("Invite: %s\nToken ID: %s\nExpires: %s\n", link, issued.Token.ID, expiresAt.Format(time.RFC3339))
		if groupID != nil {
			fmt.Printf("Group: %s\n", groupID)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown output format: %s\n", *outputFormat)
		os.Exit(1)
	}
}
