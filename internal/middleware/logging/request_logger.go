package logging

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mbelyaev/taskboard/internal/logging"
)

// RequestLogger injects a request-scoped logger into the context and logs
// one line per completed request.
func RequestLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			rl := l.With("request_id", reqID)
			ctx := logging.IntoContext(c.Request().Context(), rl)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			rl.Info("http_request",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}
