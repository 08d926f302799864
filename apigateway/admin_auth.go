package gateway

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"time"

	"github.com/adonese/hrportal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the shared admin key.
const AdminKeyHeader = "X-Admin-Key"

// AdminOTPHeader carries the current TOTP code when a TOTP secret is set.
const AdminOTPHeader = "X-Admin-OTP"

var (
	errAdminNotConfigured = apperr.New("admin_auth_not_configured", fiber.StatusServiceUnavailable, "admin auth not configured")
	errAdminOTP           = apperr.New("admin_otp_invalid", fiber.StatusUnauthorized, "missing or invalid one-time code")
)

// AdminAuthConfig controls access to the write side of the JSON API.
// PasswordHash is a bcrypt hash and takes precedence over Password.
type AdminAuthConfig struct {
	Key          string
	User         string
	Password     string
	PasswordHash string
	TOTPSecret   string
	Debug        bool

	now func() time.Time
}

func (cfg AdminAuthConfig) configured() bool {
	return cfg.Key != "" || (cfg.User != "" && (cfg.Password != "" || cfg.PasswordHash != ""))
}

// RequireAdmin accepts either the admin key header or HTTP Basic
// credentials, plus a TOTP code when a secret is configured. Debug mode
// bypasses the guard.
func RequireAdmin(cfg AdminAuthConfig) fiber.Handler {
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return func(c *fiber.Ctx) error {
		if cfg.Debug {
			return c.Next()
		}
		if !cfg.configured() {
			return errAdminNotConfigured
		}
		if !cfg.checkKey(c.Get(AdminKeyHeader)) && !cfg.checkBasic(c.Get(fiber.HeaderAuthorization)) {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="hrportal"`)
			return apperr.ErrUnauthorized
		}
		if cfg.TOTPSecret != "" {
			code := strings.TrimSpace(c.Get(AdminOTPHeader))
			if code == "" || !validAt(code, cfg.TOTPSecret, cfg.now()) {
				return errAdminOTP
			}
		}
		return c.Next()
	}
}

func validAt(code, secret string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t, totp.ValidateOpts{Period: 30, Skew: 1, Digits: 6})
	return err == nil && ok
}

func (cfg AdminAuthConfig) checkKey(key string) bool {
	key = strings.TrimSpace(key)
	return cfg.Key != "" && key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(cfg.Key)) == 1
}

func (cfg AdminAuthConfig) checkBasic(header string) bool {
	if cfg.User == "" {
		return false
	}
	gotUser, gotPass, ok := parseBasicAuth(header)
	if !ok || subtle.ConstantTimeCompare([]byte(gotUser), []byte(cfg.User)) != 1 {
		return false
	}
	if cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(gotPass)) == nil
	}
	return cfg.Password != "" && subtle.ConstantTimeCompare([]byte(gotPass), []byte(cfg.Password)) == 1
}

func parseBasicAuth(header string) (user, pass string, ok bool) {
	scheme, encoded, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "basic") {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(decoded), ":")
}
