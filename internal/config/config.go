// Package config loads the gateway configuration from CONSOLE_ environment
// variables and an optional consoleapi.yaml, through viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goodsone/console/pkg/sdk"
)

// EnvPrefix is prepended to every environment variable: session.driver is
// read from CONSOLE_SESSION_DRIVER.
const EnvPrefix = "CONSOLE"

// Config holds the application configuration
type Config struct {
	// Server bind address (host:port)
	ServerAddr string `mapstructure:"server_addr"`

	// Backend API every /backend request is forwarded to
	APIBaseURL string `mapstructure:"api_base_url"`

	// Page the HTTP client sends the user to after a 401
	LoginPath string `mapstructure:"login_path"`

	// Roles redirected from "/" to the approval dashboard
	PrivilegedRoles []string `mapstructure:"privileged_roles"`

	// Redirect hops allowed per navigation before it fails
	MaxRedirects int `mapstructure:"max_redirects"`

	// Optional JSON file replacing the built-in navigation menus
	NavigationFile string `mapstructure:"navigation_file"`

	// Origins allowed by the CORS policy
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Number of built abilities kept in memory
	AbilityCacheSize int `mapstructure:"ability_cache_size"`

	// Enable debug logging
	Debug bool `mapstructure:"debug"`

	Session SessionConfig `mapstructure:"session"`

	Observability ObservabilityConfig `mapstructure:"observability"`
}

// SessionConfig selects where the gateway keeps session entries.
//
//   - memory: process-local, lost on restart
//   - sql: bun over postgres or sqlite, DSN required
//   - redis: a hash per session, RedisAddr required
//   - cookie: the entries themselves travel in signed cookies
//
// Every driver except cookie identifies the session through a signed id
// cookie, so HashKey is used by all of them. An empty HashKey gets a random
// key at startup, which invalidates sessions on restart.
type SessionConfig struct {
	Driver        string        `mapstructure:"driver"`
	DSN           string        `mapstructure:"dsn"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	HashKey       string        `mapstructure:"hash_key"`
	BlockKey      string        `mapstructure:"block_key"`
	Secure        bool          `mapstructure:"secure"`
}

// ObservabilityConfig configures OpenTelemetry export. An empty endpoint
// disables export.
type ObservabilityConfig struct {
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPProtocol   string `mapstructure:"otlp_protocol"` // http/protobuf or grpc
	OTLPInsecure   bool   `mapstructure:"otlp_insecure"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"`
}

var defaults = map[string]any{
	"server_addr":        "localhost:8080",
	"api_base_url":       sdk.DefaultBaseURL,
	"login_path":         sdk.DefaultLoginPath,
	"privileged_roles":   []string{"Super Admin"},
	"max_redirects":      10,
	"navigation_file":    "",
	"cors_origins":       []string{"http://localhost:5173"},
	"ability_cache_size": 256,
	"debug":              false,

	"session.driver":         "memory",
	"session.dsn":            "",
	"session.redis_addr":     "",
	"session.redis_password": "",
	"session.redis_db":       0,
	"session.ttl":            24 * time.Hour,
	"session.cookie_name":    "console_sid",
	"session.hash_key":       "",
	"session.block_key":      "",
	"session.secure":         false,

	"observability.otlp_endpoint":   "",
	"observability.otlp_protocol":   "http/protobuf",
	"observability.otlp_insecure":   false,
	"observability.service_name":    "consoleapi",
	"observability.service_version": "dev",
	"observability.environment":     "development",
}

// Setup prepares v for Load: defaults, the CONSOLE_ prefix and the standard
// OTEL_ variables as fallbacks for the observability keys.
func Setup(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("observability.otlp_endpoint", "CONSOLE_OBSERVABILITY_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("observability.otlp_protocol", "CONSOLE_OBSERVABILITY_OTLP_PROTOCOL", "OTEL_EXPORTER_OTLP_PROTOCOL")
	_ = v.BindEnv("observability.otlp_insecure", "CONSOLE_OBSERVABILITY_OTLP_INSECURE", "OTEL_EXPORTER_OTLP_INSECURE")
	_ = v.BindEnv("observability.service_name", "CONSOLE_OBSERVABILITY_SERVICE_NAME", "OTEL_SERVICE_NAME")
}

// ReadFile reads the YAML config file at path, or looks for consoleapi.yaml
// in the working directory and ~/.goodsone when path is empty. A missing
// default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("consoleapi")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.goodsone")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads configuration from the global viper instance.
func Load() (*Config, error) {
	Setup(viper.GetViper())
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields that have no usable fallback.
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server_addr is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url %q is not an absolute URL", c.APIBaseURL)
	}
	if c.MaxRedirects <= 0 {
		return fmt.Errorf("max_redirects must be positive, got %d", c.MaxRedirects)
	}
	if c.AbilityCacheSize <= 0 {
		return fmt.Errorf("ability_cache_size must be positive, got %d", c.AbilityCacheSize)
	}

	switch c.Session.Driver {
	case "memory", "cookie":
	case "sql":
		if c.Session.DSN == "" {
			return fmt.Errorf("session.dsn is required for the sql session driver")
		}
	case "redis":
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("session.redis_addr is required for the redis session driver")
		}
	default:
		return fmt.Errorf("unknown session driver %q (want memory, sql, redis or cookie)", c.Session.Driver)
	}

	switch n := len(c.Session.BlockKey); n {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("session.block_key must be 16, 24 or 32 bytes, got %d", n)
	}

	switch c.Observability.OTLPProtocol {
	case "http/protobuf", "grpc":
	default:
		return fmt.Errorf("observability.otlp_protocol %q is not supported (want http/protobuf or grpc)", c.Observability.OTLPProtocol)
	}
	return nil
}
