package pages

import (
	"html"

	"github.com/adonese/hrportal/sidebar"
	"github.com/rohanthewiz/element"
)

// StackClass is the container styling: a vertical flex stack with fixed gap
// and padding.
const StackClass = "flex flex-col gap-4 p-4"

// Stack is the static container PayslipLayout puts around its children.
type Stack struct {
	Children []element.Component
}

func (s Stack) Render(b *element.Builder) any {
	b.Div("class", StackClass).R(
		element.RenderComponents(b, s.Children...),
	)
	return nil
}

// PayslipLayout wraps children as sidebar provider > stack > children. The
// sidebar state is supplied by the caller; the layout only scopes it.
func PayslipLayout(state sidebar.State, children ...element.Component) element.Component {
	return sidebar.Provider{
		State:    state,
		Children: []element.Component{Stack{Children: children}},
	}
}

// Text is an escaped text node.
type Text string

func (t Text) Render(b *element.Builder) any {
	b.T(html.EscapeString(string(t)))
	return nil
}
