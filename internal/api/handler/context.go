package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/middleware"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
)

// ctxActor returns the caller identity injected by the Auth middleware.
// Routes without Auth have no actor; reaching this on such a route is a
// wiring bug and is reported as 401.
func ctxActor(c echo.Context) (domain.Actor, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.Subject == "" || claims.Role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims.Actor(), nil
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
