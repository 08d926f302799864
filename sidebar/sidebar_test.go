package sidebar

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rohanthewiz/element"
)

type textComponent string

func (t textComponent) Render(b *element.Builder) any {
	b.T(string(t))
	return nil
}

func render(c element.Component) string {
	b := element.NewBuilder()
	element.RenderComponents(b, c)
	return b.String()
}

func TestOpenFromCookie(t *testing.T) {
	tests := []struct {
		value       string
		defaultOpen bool
		want        bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"false", true, false},
		{"garbage", true, true},
	}
	for _, tt := range tests {
		if got := openFromCookie(tt.value, tt.defaultOpen); got != tt.want {
			t.Errorf("openFromCookie(%q, %v) = %v, want %v", tt.value, tt.defaultOpen, got, tt.want)
		}
	}
}

func TestFromCtx(t *testing.T) {
	items := []Item{{Label: "Payslips", Href: "/payslips/emp-1"}}
	var got State
	app := fiber.New()
	app.Get("/payslips/:id", func(c *fiber.Ctx) error {
		got = FromCtx(c, true, items)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/payslips/emp-1", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "false"})
	if _, err := app.Test(req); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got.Open {
		t.Fatalf("cookie should collapse the sidebar")
	}
	if got.Active != "/payslips/emp-1" || len(got.Items) != 1 {
		t.Fatalf("unexpected state: %#v", got)
	}
}

func TestToggle(t *testing.T) {
	app := fiber.New()
	app.Post("/sidebar/toggle", Toggle(true))

	req := httptest.NewRequest(http.MethodPost, "/sidebar/toggle", nil)
	req.Header.Set("Referer", "http://portal.local/payslips/emp-1?x=1")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/payslips/emp-1?x=1" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	cookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(cookie, CookieName+"=false") || !strings.Contains(cookie, "max-age=604800") {
		t.Fatalf("unexpected cookie %q", cookie)
	}

	req = httptest.NewRequest(http.MethodPost, "/sidebar/toggle", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "false"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !strings.Contains(resp.Header.Get("Set-Cookie"), CookieName+"=true") {
		t.Fatalf("collapsed sidebar should toggle open, got %q", resp.Header.Get("Set-Cookie"))
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("missing referer should redirect home, got %q", loc)
	}
}

func TestBackTo(t *testing.T) {
	tests := map[string]string{
		"":                              "/",
		"/leave/emp-1":                  "/leave/emp-1",
		"https://evil.example":          "/",
		"https://evil.example/x":        "/x",
		"//evil.example/x":              "/",
		"javascript:alert(1)":           "/",
		"http://portal.local/payslips/": "/payslips/",
	}
	for in, want := range tests {
		if got := backTo(in); got != want {
			t.Errorf("backTo(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProvider_Render(t *testing.T) {
	p := Provider{
		State: State{
			Open:   false,
			Active: "/payslips/emp-1",
			Items: []Item{
				{Label: "Payslips", Href: "/payslips/emp-1"},
				{Label: "Leave", Href: "/leave/emp-1"},
			},
		},
		Children: []element.Component{textComponent("first"), textComponent("second")},
	}
	out := render(p)

	for _, want := range []string{`data-state="collapsed"`, `aria-current="page"`, "Expand sidebar", "/leave/emp-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %s", want, out)
		}
	}
	inset := strings.Index(out, "sidebar-inset")
	first := strings.Index(out, "first")
	second := strings.Index(out, "second")
	if inset < 0 || !(inset < first && first < second) {
		t.Fatalf("children should render in order inside the inset: %s", out)
	}
	if strings.Count(out, "aria-current") != 1 {
		t.Fatalf("only the active item should be marked: %s", out)
	}
}
