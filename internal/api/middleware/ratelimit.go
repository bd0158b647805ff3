package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Limiter decides whether one more request for key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitConfig configures a per-client request budget for a route group.
type RateLimitConfig struct {
	// Name prefixes the limiter key and labels the rejection metric.
	Name   string
	Limit  int
	Window time.Duration
	// OnLimited is called for every rejected request.
	OnLimited func(name string)
}

// RateLimit rejects requests beyond the budget with 429. Limiter failures let
// the request through.
func RateLimit(limiter Limiter, cfg RateLimitConfig, log zerolog.Logger) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	retryAfter := strconv.Itoa(int(cfg.Window.Seconds()))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil || cfg.Limit <= 0 {
				return next(c)
			}

			key := cfg.Name + ":" + c.RealIP()
			ok, err := limiter.Allow(c.Request().Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				log.Warn().Err(err).Str("limiter", cfg.Name).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				if cfg.OnLimited != nil {
					cfg.OnLimited(cfg.Name)
				}
				c.Response().Header().Set("Retry-After", retryAfter)
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, try again later")
			}
			return next(c)
		}
	}
}
