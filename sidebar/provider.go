package sidebar

import (
	"html"

	"github.com/rohanthewiz/element"
)

// Provider scopes a sidebar around its children. It renders the navigation
// from State and places Children, untouched and in order, inside the inset.
type Provider struct {
	State    State
	Children []element.Component
}

func (p Provider) Render(b *element.Builder) any {
	b.Div("class", "sidebar-wrapper", "data-state", p.State.DataState(),
		"style", "--sidebar-width: "+Width).R(
		b.Nav("class", "sidebar", "aria-label", "Main").R(
			b.Ul("class", "sidebar-menu").R(
				p.renderItems(b),
			),
			b.Form("method", "POST", "action", "/sidebar/toggle").R(
				b.Button("type", "submit", "class", "sidebar-trigger").T(p.toggleLabel()),
			),
		),
		b.Div("class", "sidebar-inset").R(
			element.RenderComponents(b, p.Children...),
		),
	)
	return nil
}

func (p Provider) renderItems(b *element.Builder) any {
	for _, item := range p.State.Items {
		attrs := []string{"href", html.EscapeString(item.Href)}
		if item.Href == p.State.Active {
			attrs = append(attrs, "aria-current", "page")
		}
		b.Li("class", "sidebar-menu-item").R(
			b.A(attrs...).T(html.EscapeString(item.Label)),
		)
	}
	return nil
}

func (p Provider) toggleLabel() string {
	if p.State.Open {
		return "Collapse sidebar"
	}
	return "Expand sidebar"
}
