package gateway

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adonese/hrportal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pquerna/otp/totp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	var fromCtx string
	app.Get("/", func(c *fiber.Ctx) error {
		fromCtx = RequestIDFromContext(c.UserContext())
		return c.SendString(RequestIDFromCtx(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
	if fromCtx != "abc-123" {
		t.Fatalf("user context should carry the request id, got %q", fromCtx)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); len(got) != 36 {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}

func TestLogSampler(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := newLogSampler(LogSamplingConfig{Tick: 5 * time.Second, After: 2 * time.Second})
	s.now = func() time.Time { return now }

	if !s.Allow(time.Millisecond) {
		t.Fatal("first request in a window should be logged")
	}
	if s.Allow(time.Millisecond) {
		t.Fatal("second fast request in the same window should be dropped")
	}
	if !s.Allow(3 * time.Second) {
		t.Fatal("slow requests are always logged")
	}
	now = now.Add(6 * time.Second)
	if !s.Allow(time.Millisecond) {
		t.Fatal("a new window should log again")
	}
}

func TestRequestLogger_AlwaysLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(nil)})
	app.Use(RequestID(), RequestLogger(logger, LogSamplingConfig{Tick: time.Hour}))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom/:id", func(c *fiber.Ctx) error { return apperr.ErrDatabase })

	for i := 0; i < 3; i++ {
		if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil)); err != nil {
			t.Fatalf("request failed: %v", err)
		}
	}
	if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom/emp-7", nil)); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one sampled success and one failure, got %d lines:\n%s", len(lines), buf.String())
	}
	last := lines[1]
	for _, want := range []string{`"status":500`, `"employee_id":"emp-7"`, `"path":"/boom/:id"`, `"level":"error"`} {
		if !strings.Contains(last, want) {
			t.Fatalf("expected %s in %s", want, last)
		}
	}
}

func TestInstrumentation(t *testing.T) {
	reg := prometheus.NewRegistry()
	app := fiber.New()
	app.Use(Instrumentation(reg))
	app.Get("/leave/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for _, id := range []string{"a", "b"} {
		if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/leave/"+id, nil)); err != nil {
			t.Fatalf("request failed: %v", err)
		}
	}

	count, err := testutil.GatherAndCount(reg, "hrportal_request_requests_count")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("both requests should share one route series, got %d", count)
	}
}

func TestRequireAdmin(t *testing.T) {
	basic := "Basic " + base64.StdEncoding.EncodeToString([]byte("hr:s3cret"))
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	const secret = "JBSWY3DPEHPK3PXP"
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("totp: %v", err)
	}
	tests := []struct {
		name   string
		cfg    AdminAuthConfig
		header map[string]string
		want   int
	}{
		{"not configured", AdminAuthConfig{}, nil, http.StatusServiceUnavailable},
		{"debug bypass", AdminAuthConfig{Debug: true}, nil, http.StatusOK},
		{"valid key", AdminAuthConfig{Key: "k1"}, map[string]string{AdminKeyHeader: "k1"}, http.StatusOK},
		{"wrong key", AdminAuthConfig{Key: "k1"}, map[string]string{AdminKeyHeader: "k2"}, http.StatusUnauthorized},
		{"valid basic", AdminAuthConfig{User: "hr", Password: "s3cret"}, map[string]string{"Authorization": basic}, http.StatusOK},
		{"basic wrong scheme", AdminAuthConfig{User: "hr", Password: "s3cret"}, map[string]string{"Authorization": "Bearer x"}, http.StatusUnauthorized},
		{"bcrypt hash", AdminAuthConfig{User: "hr", PasswordHash: string(hash)}, map[string]string{"Authorization": basic}, http.StatusOK},
		{"bcrypt hash wins", AdminAuthConfig{User: "hr", Password: "s3cret", PasswordHash: "$2a$04$invalid"}, map[string]string{"Authorization": basic}, http.StatusUnauthorized},
		{"totp missing", AdminAuthConfig{Key: "k1", TOTPSecret: secret}, map[string]string{AdminKeyHeader: "k1"}, http.StatusUnauthorized},
		{"totp wrong", AdminAuthConfig{Key: "k1", TOTPSecret: secret}, map[string]string{AdminKeyHeader: "k1", AdminOTPHeader: "000000x"}, http.StatusUnauthorized},
		{"totp valid", AdminAuthConfig{Key: "k1", TOTPSecret: secret}, map[string]string{AdminKeyHeader: "k1", AdminOTPHeader: code}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler(nil)})
			app.Post("/api/x", RequireAdmin(tt.cfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/api/x", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
