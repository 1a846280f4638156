package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/propmarket/backend/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

func responseStatus(c *fiber.Ctx, err error) int {
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return fe.Code
		}
		return fiber.StatusInternalServerError
	}
	return c.Response().StatusCode()
}

// RequestLogger writes one http_request line per request. A caller supplied
// X-Request-ID is reused, otherwise one is generated and echoed back.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		c.Locals("requestID", requestID)
		c.Set(RequestIDHeader, requestID)

		err := c.Next()

		status := responseStatus(c, err)
		details := map[string]interface{}{
			"method":        c.Method(),
			"path":          c.Path(),
			"status_code":   status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"user_agent":    c.Get("User-Agent"),
			"ip":            c.IP(),
			"request_body":  logger.GetRequestBodySummary(c),
			"response_body": logger.GetResponseSizeSummary(c),
			"request_id":    requestID,
		}

		userID := logger.GetUserIDFromContext(c)
		switch {
		case status >= 500 && userID != nil:
			logger.ErrorWithUser(*userID, "http_request", err, details)
		case status >= 500:
			logger.Error("http_request", err, details)
		case status >= 400 && userID != nil:
			logger.WarnWithUser(*userID, "http_request", details)
		case status >= 400:
			logger.Warn("http_request", details)
		case userID != nil:
			logger.InfoWithUser(*userID, "http_request", details)
		default:
			logger.Info("http_request", details)
		}
		return err
	}
}

var securityReasons = map[int]string{
	fiber.StatusUnauthorized: "unauthenticated",
	fiber.StatusForbidden:    "access_denied",
	fiber.StatusNotFound:     "not_found",
}

// SecurityLogger adds a warning for denied and missing resources so they
// can be filtered apart from ordinary request lines.
func SecurityLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := responseStatus(c, err)
		reason, ok := securityReasons[status]
		if !ok {
			return err
		}

		details := map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"ip":     c.IP(),
			"reason": reason,
		}
		if userID := logger.GetUserIDFromContext(c); userID != nil {
			logger.WarnWithUser(*userID, reason, details)
		} else {
			logger.Warn(reason+"_anonymous", details)
		}
		return err
	}
}
