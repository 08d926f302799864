package apperr

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorView names the template and layout used for HTML error pages.
type ErrorView struct {
	Name   string
	Layout string
}

// Handler is the fiber ErrorHandler for the portal. Requests under /api get
// the JSON Payload; everything else gets an HTML error page, rendered through
// view when one is given.
func Handler(logger *logrus.Logger, view ...ErrorView) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := Status(err)
		code := Code(err)
		message := Message(err)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			code = strings.ToLower(strings.ReplaceAll(http.StatusText(fe.Code), " ", "_"))
			message = fe.Message
		}

		if status >= http.StatusInternalServerError && logger != nil {
			logger.WithFields(logrus.Fields{
				"path":  c.Path(),
				"code":  code,
				"error": err.Error(),
			}).Error("request failed")
		}

		if strings.HasPrefix(c.Path(), "/api") {
			payload := Payload(err)
			payload["code"] = code
			payload["message"] = message
			return c.Status(status).JSON(payload)
		}

		title := http.StatusText(status)
		if len(view) > 0 && view[0].Name != "" {
			rerr := c.Status(status).Render(view[0].Name, fiber.Map{
				"Title":   title,
				"Status":  status,
				"Message": message,
			}, view[0].Layout)
			if rerr == nil {
				return nil
			}
			if logger != nil {
				logger.WithError(rerr).WithField("view", view[0].Name).Warn("error page render failed")
			}
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(status).SendString("<!DOCTYPE html><html><head><title>" +
			html.EscapeString(title) + "</title></head><body><h1>" +
			html.EscapeString(title) + "</h1><p>" +
			html.EscapeString(message) + "</p></body></html>")
	}
}
