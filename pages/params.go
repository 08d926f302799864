package pages

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Params maps the named segments of the matched route pattern to the values
// captured from the request path. Page functions receive it as an argument.
type Params map[string]string

// ID returns the `id` segment, or "" when the route has none.
func (p Params) ID() string {
	return p["id"]
}

// ParamsFromCtx collects every named segment of the matched fiber route.
// Values are copied out of fiber's request buffer so they outlive the handler.
func ParamsFromCtx(c *fiber.Ctx) Params {
	params := Params{}
	r := c.Route()
	if r == nil {
		return params
	}
	for _, name := range r.Params {
		params[name] = strings.Clone(c.Params(name))
	}
	return params
}
