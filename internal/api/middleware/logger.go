package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger writes one zerolog access entry per request through echo's
// RequestLogger middleware. Handler errors go through the HTTP error handler
// first so the logged status is the one the client sees.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:     true,
		LogMethod:       true,
		LogURI:          true,
		LogRemoteIP:     true,
		LogRequestID:    true,
		LogStatus:       true,
		LogLatency:      true,
		LogResponseSize: true,
		LogError:        true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var evt *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			default:
				evt = log.Info()
			}

			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Int64("bytes_out", v.ResponseSize)
			if claims, ok := ClaimsFrom(c); ok {
				evt.Str("user_id", claims.Subject)
			}
			evt.Msg("request")
			return nil
		},
	})
}
