package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cortexai/toolhost/internal/config"
)

var envKeys = []string{
	"TOOLHOST_CONFIG", "TOOLHOST_ENV", "HOST", "PORT", "LOG_LEVEL", "LOG_FORMAT",
	"CORS_ENABLED", "CORS_ORIGIN", "API_KEYS", "API_KEY_HEADER",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX",
	"SCHEMAS_PATH", "TOOLS_PATH", "UPSTREAM_TIMEOUT",
	"IMPACT_API_URL", "CATEGORY_LEVEL_API_URL", "AUDIT_LOGGING",
	"ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "ANTHROPIC_MODEL",
}

// cleanEnv blanks every variable Load reads and runs the test from an empty
// directory so no stray .env is picked up.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3000 || cfg.Host != "0.0.0.0" {
		t.Errorf("addr = %s", cfg.Addr())
	}
	if !cfg.CORSEnabled || len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORS = %v %v", cfg.CORSEnabled, cfg.CORSOrigins)
	}
	if cfg.RateLimitEnabled {
		t.Error("rate limiting should be off by default")
	}
	if cfg.RateLimitWindow != 15*time.Minute || cfg.RateLimitMax != 100 {
		t.Errorf("rate limit = %s/%d", cfg.RateLimitWindow, cfg.RateLimitMax)
	}
	if cfg.UpstreamTimeout != 0 {
		t.Errorf("UpstreamTimeout = %s, want none", cfg.UpstreamTimeout)
	}
	if cfg.SchemasPath != "./schemas" || cfg.ToolsPath != "./tools.d" {
		t.Errorf("paths = %q %q", cfg.SchemasPath, cfg.ToolsPath)
	}
	if len(cfg.APIKeys) != 0 {
		t.Errorf("APIKeys = %v, want none", cfg.APIKeys)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ORIGIN", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WINDOW", "900000")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("UPSTREAM_TIMEOUT", "30s")
	t.Setenv("API_KEYS", "k1,,k2")
	t.Setenv("IMPACT_API_URL", "http://impact.local/rate")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.RateLimitEnabled || cfg.RateLimitWindow != 15*time.Minute || cfg.RateLimitMax != 5 {
		t.Errorf("rate limit = %v %s %d", cfg.RateLimitEnabled, cfg.RateLimitWindow, cfg.RateLimitMax)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("UpstreamTimeout = %s", cfg.UpstreamTimeout)
	}
	if len(cfg.APIKeys) != 2 {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if cfg.ImpactAPIURL != "http://impact.local/rate" {
		t.Errorf("ImpactAPIURL = %q", cfg.ImpactAPIURL)
	}
}

func TestLoadBadEnv(t *testing.T) {
	tests := map[string]string{
		"PORT":             "eighty",
		"RATE_LIMIT_MAX":   "many",
		"UPSTREAM_TIMEOUT": "soon",
	}
	for k, v := range tests {
		t.Run(k, func(t *testing.T) {
			cleanEnv(t)
			t.Setenv(k, v)
			if _, err := config.Load(); err == nil {
				t.Errorf("%s=%q should fail", k, v)
			}
		})
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	cleanEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "toolhost.yaml")
	body := `
port: 9000
log_level: debug
rate_limit_window: 1m
tools_path: /etc/toolhost/tools.d
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOOLHOST_CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.ToolsPath != "/etc/toolhost/tools.d" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %s", cfg.RateLimitWindow)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("env should override file, LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadJSONFile(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "toolhost.json")
	if err := os.WriteFile(path, []byte(`{"port": 7000, "cors_origins": ["https://x.example"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOOLHOST_CONFIG", path)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7000 || cfg.CORSOrigins[0] != "https://x.example" {
		t.Errorf("json config not applied: port=%d origins=%v", cfg.Port, cfg.CORSOrigins)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cleanEnv(t)
	t.Setenv("TOOLHOST_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := config.Load(); err == nil {
		t.Error("expected error for a missing config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	cleanEnv(t)
	os.Unsetenv("PORT")
	if err := os.WriteFile(".env", []byte("PORT=4123\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4123 {
		t.Errorf("Port = %d, want value from .env", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"port", func(c *config.Config) { c.Port = 70000 }},
		{"rate max", func(c *config.Config) { c.RateLimitEnabled = true; c.RateLimitMax = 0 }},
		{"rate window", func(c *config.Config) { c.RateLimitEnabled = true; c.RateLimitWindow = 0 }},
		{"timeout", func(c *config.Config) { c.UpstreamTimeout = -time.Second }},
		{"body", func(c *config.Config) { c.MaxBodyBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := config.Defaults().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
