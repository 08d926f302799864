package gateway

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

const requestIDLocal = "request_id"

type requestIDKey struct{}

// RequestID echoes the caller's X-Request-ID or mints one, and makes it
// available both as a fiber local and on the request's user context so
// services several calls deep can log it.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := strings.Clone(strings.TrimSpace(c.Get(RequestIDHeader)))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Locals(requestIDLocal, requestID)
		c.SetUserContext(context.WithValue(c.UserContext(), requestIDKey{}, requestID))
		c.Set(RequestIDHeader, requestID)
		return c.Next()
	}
}

func RequestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(requestIDLocal); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// RequestIDFromContext returns the id stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
