package api

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ridmikaw/backend-macro-labs-news-app/docs"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/handler"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/metrics"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/middleware"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

// RateLimits holds the per-minute budgets per client IP. Zero disables a limiter.
type RateLimits struct {
	AuthPerMinute int
	LikePerMinute int
}

// Deps carries everything the router needs to build the HTTP surface.
type Deps struct {
	Auth     ports.AuthService
	Articles ports.ArticleService
	Users    ports.UserService
	Sessions ports.SessionVerifier

	// Limiter may be nil, in which case no route is rate limited.
	Limiter    middleware.Limiter
	RateLimits RateLimits

	// TrustedProxies are the ranges allowed to set X-Forwarded-For. Empty
	// means clients are identified by their peer address.
	TrustedProxies []*net.IPNet

	HealthChecks map[string]handler.Check
	CORSOrigins  []string
	Logger       zerolog.Logger

	// Registerer and Gatherer default to a fresh registry when both are nil.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil && d.Gatherer == nil {
		reg := prometheus.NewRegistry()
		d.Registerer, d.Gatherer = reg, reg
	}
	m := metrics.New(d.Registerer)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.IPExtractor = middleware.ClientIP(d.TrustedProxies)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	// Outside the request logger, which renders errors, so status labels are final.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "news",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/metrics", "/health", "/health/ready":
				return true
			}
			return false
		},
	}))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, m)
	articleHandler := handler.NewArticleHandler(d.Articles, m)
	userHandler := handler.NewUserHandler(d.Users, m)
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	requireAuth := middleware.Auth(d.Sessions)

	limit := func(name string, perMinute int) echo.MiddlewareFunc {
		return middleware.RateLimit(d.Limiter, middleware.RateLimitConfig{
			Name:   name,
			Limit:  perMinute,
			Window: time.Minute,
			OnLimited: func(name string) {
				m.RateLimitedTotal.WithLabelValues(name).Inc()
			},
		}, d.Logger)
	}

	// --- Auth routes ---
	auth := e.Group("/auth", limit("auth", d.RateLimits.AuthPerMinute))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Article routes ---
	articles := e.Group("/articles")
	articles.GET("", articleHandler.List)
	articles.GET("/:id", articleHandler.Get)
	articles.POST("/:id/like", articleHandler.Like, limit("like", d.RateLimits.LikePerMinute))
	articles.POST("", articleHandler.Create, requireAuth)
	articles.PUT("/:id", articleHandler.Update, requireAuth)
	articles.DELETE("/:id", articleHandler.Delete, requireAuth)

	// --- User administration (admin checks live in the service) ---
	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.List)
	users.GET("/stats", userHandler.Stats)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id/role", userHandler.UpdateRole)
	users.PUT("/:id/status", userHandler.ToggleStatus)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
