package pages

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	gateway "github.com/adonese/hrportal/apigateway"
	"github.com/adonese/hrportal/apperr"
	"github.com/adonese/hrportal/sidebar"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rohanthewiz/element"
)

//go:embed views/*.html
var viewsFS embed.FS

//go:embed assets/*
var assetsFS embed.FS

// Layout is the document shell every page is embedded into.
const Layout = "base"

// ErrorPage renders non-API errors inside the same document shell.
var ErrorPage = apperr.ErrorView{Name: "error", Layout: Layout}

// Views returns the template engine for fiber's Views config.
func Views() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// Assets serves the embedded stylesheet under whatever prefix it is mounted on.
func Assets() fiber.Handler {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return filesystem.New(filesystem.Config{
		Root:   http.FS(sub),
		MaxAge: 3600,
	})
}

// PageFunc builds a page from the request context and the matched route
// params.
type PageFunc func(ctx context.Context, params Params) element.Component

// Handle adapts a page function to a fiber handler.
func Handle(title string, page PageFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return Render(c, title, page(c.UserContext(), ParamsFromCtx(c)))
	}
}

// NavFunc lists the sidebar entries for a page.
type NavFunc func(params Params) []sidebar.Item

// HandlePayslip renders page inside PayslipLayout. The sidebar state is read
// from the request here and passed down as a value.
func HandlePayslip(title string, defaultOpen bool, nav NavFunc, page PageFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := ParamsFromCtx(c)
		var items []sidebar.Item
		if nav != nil {
			items = nav(params)
		}
		state := sidebar.FromCtx(c, defaultOpen, items)
		return Render(c, title, PayslipLayout(state, page(c.UserContext(), params)))
	}
}

// Render writes comp as the body of the page view.
func Render(c *fiber.Ctx, title string, comp element.Component) error {
	c.Type("html", "utf-8")
	return c.Render("page", fiber.Map{
		"Title":     title,
		"Body":      template.HTML(RenderString(comp)),
		"RequestID": gateway.RequestIDFromCtx(c),
	}, Layout)
}

// RenderString renders a component tree to HTML.
func RenderString(comps ...element.Component) string {
	b := element.NewBuilder()
	element.RenderComponents(b, comps...)
	return b.String()
}
