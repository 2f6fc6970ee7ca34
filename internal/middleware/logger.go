package middleware

import (
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
)

const (
    RequestIDHeader = "X-Request-ID"
    loggerKey       = "logger"
)

// RequestLogger tags every request with an id (taken from X-Request-ID when
// the client sent one), stores a request-scoped logger on the context and
// logs one line when the handler returns.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id := c.Request().Header.Get(RequestIDHeader)
            if id == "" {
                id = uuid.NewString()
            }
            c.Response().Header().Set(RequestIDHeader, id)

            entry := log.WithField("request_id", id)
            c.Set(loggerKey, entry)

            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }

            fields := logrus.Fields{
                "method":  c.Request().Method,
                "path":    c.Path(),
                "status":  c.Response().Status,
                "latency": time.Since(start).String(),
            }
            if err != nil {
                entry.WithFields(fields).WithError(err).Warn("request failed")
            } else {
                entry.WithFields(fields).Info("request")
            }
            return nil
        }
    }
}

// Logger returns the request-scoped logger, or fallback outside a request
// that went through RequestLogger.
func Logger(c echo.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
    if l, ok := c.Get(loggerKey).(logrus.FieldLogger); ok {
        return l
    }
    return fallback
}
