package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// domainStatus lists each error kind with its HTTP status and code. The
// order matters only for readability; kinds are disjoint.
var domainStatus = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{domain.ErrPermissionDenied, http.StatusForbidden, "PERMISSION_DENIED"},
	{domain.ErrSelfActionDenied, http.StatusForbidden, "SELF_ACTION_DENIED"},
	{domain.ErrProtectedAccount, http.StatusForbidden, "PROTECTED_ACCOUNT"},
	{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrAccountDisabled, http.StatusForbidden, "ACCOUNT_DISABLED"},
	{domain.ErrValidation, http.StatusBadRequest, "VALIDATION"},
	{domain.ErrCaptchaFailed, http.StatusBadRequest, "CAPTCHA_FAILED"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<KIND>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	for _, m := range domainStatus {
		if errors.Is(err, m.kind) {
			return m.status, errorResponse{Error: publicMessage(err), Code: m.code}
		}
	}

	// Echo's own errors (bind failures, unknown routes, auth and rate limits).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnexpected(log, c, err)
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message), Code: statusCode(he.Code)}
	}

	logUnexpected(log, c, err)
	return http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "INTERNAL"}
}

// publicMessage returns the message of the outermost domain error, dropping
// any operation prefixes added while the error travelled up.
func publicMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}

func statusCode(status int) string {
	if status == http.StatusTooManyRequests {
		return "RATE_LIMITED"
	}
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("HTTP_%d", status)
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
