package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, file string) (*Config, error) {
	t.Helper()
	v := viper.New()
	Setup(v)
	if file != "" {
		require.NoError(t, ReadFile(v, file))
	}
	return LoadFrom(v)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ServerAddr)
	assert.Equal(t, "http://goodsone-be.dev.com/api/v2", cfg.APIBaseURL)
	assert.Equal(t, "/auth/login", cfg.LoginPath)
	assert.Equal(t, []string{"Super Admin"}, cfg.PrivilegedRoles)
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.Equal(t, "memory", cfg.Session.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "console_sid", cfg.Session.CookieName)
	assert.Equal(t, "http/protobuf", cfg.Observability.OTLPProtocol)
	assert.Empty(t, cfg.Observability.OTLPEndpoint)
}

// TestLoad_WithEnvironmentVariables tests that CONSOLE_ prefixed environment variables work
func TestLoad_WithEnvironmentVariables(t *testing.T) {
	t.Setenv("CONSOLE_SERVER_ADDR", "0.0.0.0:9090")
	t.Setenv("CONSOLE_API_BASE_URL", "https://api.goodsone.test/api/v2")
	t.Setenv("CONSOLE_DEBUG", "true")
	t.Setenv("CONSOLE_MAX_REDIRECTS", "4")
	t.Setenv("CONSOLE_PRIVILEGED_ROLES", "Super Admin,Owner")
	t.Setenv("CONSOLE_SESSION_DRIVER", "redis")
	t.Setenv("CONSOLE_SESSION_REDIS_ADDR", "localhost:6379")
	t.Setenv("CONSOLE_SESSION_TTL", "30m")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")

	cfg, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddr)
	assert.Equal(t, "https://api.goodsone.test/api/v2", cfg.APIBaseURL)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 4, cfg.MaxRedirects)
	assert.Equal(t, []string{"Super Admin", "Owner"}, cfg.PrivilegedRoles)
	assert.Equal(t, "redis", cfg.Session.Driver)
	assert.Equal(t, "localhost:6379", cfg.Session.RedisAddr)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "collector:4318", cfg.Observability.OTLPEndpoint)
}

// TestLoad_WithConfigFile tests config file loading
func TestLoad_WithConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "consoleapi.yaml")
	configContent := `
server_addr: "127.0.0.1:8888"
api_base_url: "http://file.example.com/api/v2"
navigation_file: "/etc/console/menus.json"
session:
  driver: sql
  dsn: "file:/var/lib/console/sessions.db"
  ttl: 2h
observability:
  otlp_protocol: grpc
  service_name: console-file
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o644))

	cfg, err := load(t, configPath)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8888", cfg.ServerAddr)
	assert.Equal(t, "http://file.example.com/api/v2", cfg.APIBaseURL)
	assert.Equal(t, "/etc/console/menus.json", cfg.NavigationFile)
	assert.Equal(t, "sql", cfg.Session.Driver)
	assert.Equal(t, "file:/var/lib/console/sessions.db", cfg.Session.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "grpc", cfg.Observability.OTLPProtocol)
	assert.Equal(t, "console-file", cfg.Observability.ServiceName)
}

// TestLoad_EnvOverridesFile tests that environment variables take precedence
func TestLoad_EnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "consoleapi.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server_addr: \"file:1\"\n"), 0o644))
	t.Setenv("CONSOLE_SERVER_ADDR", "env:2")

	cfg, err := load(t, configPath)
	require.NoError(t, err)
	assert.Equal(t, "env:2", cfg.ServerAddr)
}

func TestReadFile_MissingDefaultIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	assert.NoError(t, ReadFile(v, ""))

	err := ReadFile(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "sql without dsn",
			env:     map[string]string{"CONSOLE_SESSION_DRIVER": "sql"},
			wantErr: "session.dsn is required",
		},
		{
			name:    "redis without address",
			env:     map[string]string{"CONSOLE_SESSION_DRIVER": "redis"},
			wantErr: "session.redis_addr is required",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"CONSOLE_SESSION_DRIVER": "etcd"},
			wantErr: "unknown session driver",
		},
		{
			name:    "relative base url",
			env:     map[string]string{"CONSOLE_API_BASE_URL": "/api/v2"},
			wantErr: "not an absolute URL",
		},
		{
			name:    "bad block key",
			env:     map[string]string{"CONSOLE_SESSION_BLOCK_KEY": "short"},
			wantErr: "block_key must be 16, 24 or 32 bytes",
		},
		{
			name:    "unsupported otlp protocol",
			env:     map[string]string{"CONSOLE_OBSERVABILITY_OTLP_PROTOCOL": "http/json"},
			wantErr: "otlp_protocol",
		},
		{
			name: "cookie driver",
			env:  map[string]string{"CONSOLE_SESSION_DRIVER": "cookie"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load(t, "")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
