package pages

import (
	"html"

	"github.com/rohanthewiz/element"
)

type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is the inline message views render in place of content they could
// not load.
type Notice struct {
	Kind    NoticeKind
	Message string
}

func (n Notice) Render(b *element.Builder) any {
	kind := n.Kind
	if kind == "" {
		kind = NoticeInfo
	}
	role := "status"
	if kind == NoticeError {
		role = "alert"
	}
	b.P("class", "notice notice-"+string(kind), "role", role).T(html.EscapeString(n.Message))
	return nil
}
