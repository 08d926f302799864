package hr_fields

import "time"

// PortalConfig is decoded from the `hrportal` section of config.yaml merged
// with secrets.yaml.
type PortalConfig struct {
	Port    string `json:"port"`
	IsDebug bool   `json:"debug"`

	DatabasePath   string `json:"db_path"`
	DatabaseURL    string `json:"db_url"`
	DatabaseDriver string `json:"db_driver"`
	DataKey        string `json:"data_key"`

	RedisAddr        string `json:"redis_addr"`
	RedisPassword    string `json:"redis_password"`
	RedisDB          int    `json:"redis_db"`
	EmployeeCacheTTL int    `json:"employee_cache_ttl_seconds"`

	AdminKey      string `json:"admin_key"`
	AdminUser     string `json:"admin_user"`
	AdminPassword string `json:"admin_password"`

	// AdminPasswordHash is a bcrypt hash used instead of AdminPassword.
	AdminPasswordHash string `json:"admin_password_hash"`
	AdminTOTPSecret   string `json:"admin_totp_secret"`

	Currency           string `json:"currency"`
	SidebarCollapsed   bool   `json:"sidebar_collapsed"`
	LogSamplingTickMs  int    `json:"log_sampling_tick_ms"`
	LogSamplingAfterMs int    `json:"log_sampling_after_ms"`

	OtelEnabled        bool    `json:"otel_enabled"`
	OtelEndpoint       string  `json:"otel_endpoint"`
	OtelInsecure       bool    `json:"otel_insecure"`
	OtelServiceName    string  `json:"otel_service_name"`
	OtelServiceVersion string  `json:"otel_service_version"`
	OtelSampleRate     float64 `json:"otel_sample_rate"`
}

const (
	defaultPort             = ":8080"
	defaultDatabasePath     = "hrportal.db"
	defaultCurrency         = "USD"
	defaultEmployeeCacheTTL = 300
)

// Defaults fills zero values with the portal defaults.
func (c *PortalConfig) Defaults() {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.DatabasePath == "" && c.DatabaseURL == "" {
		c.DatabasePath = defaultDatabasePath
	}
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	if c.EmployeeCacheTTL <= 0 {
		c.EmployeeCacheTTL = defaultEmployeeCacheTTL
	}
}

func (c PortalConfig) CacheTTL() time.Duration {
	return time.Duration(c.EmployeeCacheTTL) * time.Second
}
