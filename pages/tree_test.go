package pages

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses rendered markup as the children of a <body>.
func parseFragment(t *testing.T, markup string) []*html.Node {
	t.Helper()
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	require.NoError(t, err)
	return nodes
}

// canonicalHTML renders markup back with attributes sorted by name, so two
// renders compare by tags, attribute sets and child order only.
func canonicalHTML(t *testing.T, markup string) string {
	t.Helper()
	var sb strings.Builder
	for _, n := range parseFragment(t, markup) {
		writeCanonical(&sb, n)
	}
	return sb.String()
}

func writeCanonical(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}
	attrs := append([]html.Attribute(nil), n.Attr...)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })
	sb.WriteString("<" + n.Data)
	for _, a := range attrs {
		sb.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	sb.WriteString(">")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeCanonical(sb, c)
	}
	sb.WriteString("</" + n.Data + ">")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// elementChildren skips text and comment nodes.
func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}
