// Command seed creates the first admin account. Running it again with the
// same email is a no-op. It reads the server's environment but never
// verifies a captcha, so CAPTCHA_SECRET_KEY is not required.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-envconfig"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/service"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/captcha"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/config"
	mongostore "github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/db/mongo"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/session"
	"github.com/ridmikaw/backend-macro-labs-news-app/pkg/logger"
)

// loadConfig reads the environment with captcha verification switched off.
func loadConfig(ctx context.Context, env envconfig.Lookuper) (*config.Config, error) {
	return config.LoadFrom(ctx, envconfig.MultiLookuper(
		envconfig.MapLookuper(map[string]string{"CAPTCHA_ENABLED": "false"}),
		env,
	))
}

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, envconfig.OsLookuper())
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "news-seed"})

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal().Msg("-email and -password are required")
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongostore.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}

	auth := service.NewAuthService(users, session.NewJWT(cfg.JWTSecret, cfg.JWTTTL), captcha.Disabled{}, cfg.BcryptCost, log)
	admin, created, err := auth.EnsureAdmin(ctx, *username, *email, *password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin")
	}
	if !created {
		log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("admin already exists")
		return
	}
	log.Info().Str("user_id", admin.ID).Str("username", admin.Username).Msg("admin created")
}
