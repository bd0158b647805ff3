// Command server runs the news platform HTTP API.
//
// @title                       News Platform API
// @version                     1.0
// @description                 Articles, authentication and user administration for the news platform.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/handler"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/service"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/captcha"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/config"
	mongostore "github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/db/mongo"
	redisstore "github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/db/redis"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/infrastructure/session"
	"github.com/ridmikaw/backend-macro-labs-news-app/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "news-api",
	})

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	users := mongostore.NewUserRepository(db)
	articles := mongostore.NewArticleRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, articles); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	trustedProxies, err := cfg.TrustedProxyRanges()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid trusted proxies")
	}

	// --- Core ---
	sessions := session.NewJWT(cfg.JWTSecret, cfg.JWTTTL)

	var verifier ports.CaptchaVerifier = captcha.Disabled{}
	if cfg.Captcha.Enabled {
		verifier = captcha.NewRecaptcha(captcha.Config{
			SecretKey: cfg.Captcha.SecretKey,
			VerifyURL: cfg.Captcha.VerifyURL,
			Timeout:   cfg.Captcha.Timeout,
		}, log)
	} else {
		log.Warn().Msg("captcha verification disabled")
	}

	router := api.NewRouter(api.Deps{
		Auth:     service.NewAuthService(users, sessions, verifier, cfg.BcryptCost, log),
		Articles: service.NewArticleService(articles, log),
		Users:    service.NewUserService(users, log),
		Sessions: sessions,
		Limiter:  redisstore.NewFixedWindowLimiter(rdb),
		RateLimits: api.RateLimits{
			AuthPerMinute: cfg.RateLimit.AuthPerMinute,
			LikePerMinute: cfg.RateLimit.LikePerMinute,
		},
		HealthChecks: map[string]handler.Check{
			"mongodb": mongostore.Pinger(mongoClient),
			"redis":   redisstore.Pinger(rdb),
		},
		TrustedProxies: trustedProxies,
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         log,
		Registerer:     prometheus.DefaultRegisterer,
		Gatherer:       prometheus.DefaultGatherer,
	})

	// --- Serve ---
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
