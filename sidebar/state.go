// Package sidebar owns the navigation sidebar: its open/closed state, the
// cookie that persists it, and the provider component that scopes it around
// page content. State travels explicitly as a value; nothing reads it from
// ambient context.
package sidebar

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	CookieName   = "sidebar_state"
	CookieMaxAge = 7 * 24 * time.Hour

	// Width is the expanded sidebar width exposed as a CSS variable.
	Width = "16rem"
)

type Item struct {
	Label string
	Href  string
}

// State is the sidebar context handed down to the provider.
type State struct {
	Open   bool
	Active string
	Items  []Item
}

// DataState is the value of the wrapper's data-state attribute.
func (s State) DataState() string {
	if s.Open {
		return "expanded"
	}
	return "collapsed"
}

// FromCtx builds the sidebar state for a request. The cookie wins over
// defaultOpen; unparsable cookie values are ignored.
func FromCtx(c *fiber.Ctx, defaultOpen bool, items []Item) State {
	return State{
		Open:   openFromCookie(c.Cookies(CookieName), defaultOpen),
		Active: strings.Clone(c.Path()),
		Items:  items,
	}
}

func openFromCookie(value string, defaultOpen bool) bool {
	if value == "" {
		return defaultOpen
	}
	open, err := strconv.ParseBool(value)
	if err != nil {
		return defaultOpen
	}
	return open
}

// Toggle flips the persisted sidebar state and sends the browser back where
// it came from.
func Toggle(defaultOpen bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		open := !openFromCookie(c.Cookies(CookieName), defaultOpen)
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    strconv.FormatBool(open),
			Path:     "/",
			MaxAge:   int(CookieMaxAge.Seconds()),
			SameSite: fiber.CookieSameSiteLaxMode,
			HTTPOnly: true,
		})
		return c.Redirect(backTo(c.Get(fiber.HeaderReferer)), fiber.StatusSeeOther)
	}
}

// backTo keeps redirects on this site: only absolute paths from the referer
// survive.
func backTo(referer string) string {
	if referer == "" {
		return "/"
	}
	if i := strings.Index(referer, "://"); i >= 0 {
		rest := referer[i+3:]
		slash := strings.IndexByte(rest, '/')
		if slash < 0 {
			return "/"
		}
		referer = rest[slash:]
	}
	if !strings.HasPrefix(referer, "/") || strings.HasPrefix(referer, "//") {
		return "/"
	}
	return referer
}
