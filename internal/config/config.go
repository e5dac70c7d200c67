package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	// CORS
	CORSEnabled bool     `yaml:"cors_enabled"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Auth
	APIKeyHeader string   `yaml:"api_key_header"`
	APIKeys      []string `yaml:"api_keys"`

	// Rate Limiting
	RateLimitEnabled bool          `yaml:"rate_limit_enabled"`
	RateLimitWindow  time.Duration `yaml:"rate_limit_window"`
	RateLimitMax     int           `yaml:"rate_limit_max"`

	// Tools
	SchemasPath     string        `yaml:"schemas_path"`
	ToolsPath       string        `yaml:"tools_path"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"` // 0 = no deadline
	ImpactAPIURL    string        `yaml:"impact_api_url"`
	CategoryAPIURL  string        `yaml:"category_level_api_url"`
	AuditLogging    bool          `yaml:"audit_logging"`

	// AI / LLM
	AnthropicAPIKey  string `yaml:"anthropic_api_key"`
	AnthropicBaseURL string `yaml:"anthropic_base_url"` // override for a compatible proxy
	AnthropicModel   string `yaml:"anthropic_model"`
}

// Load builds the configuration from defaults, an optional YAML or JSON file
// named by TOOLHOST_CONFIG, then environment variables. Outside production a
// .env file in the working directory is loaded first.
func Load() (*Config, error) {
	if getEnv("TOOLHOST_ENV", DefaultEnvironment) != EnvProduction {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := Defaults()

	if path := getEnv("TOOLHOST_CONFIG", ""); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a Config holding every default value.
func Defaults() *Config {
	return &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		Environment:     DefaultEnvironment,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		CORSEnabled:     true,
		CORSOrigins:     append([]string(nil), DefaultCORSOrigins...),
		APIKeyHeader:    DefaultAPIKeyHeader,
		RateLimitWindow: DefaultRateLimitWindow,
		RateLimitMax:    DefaultRateLimitMax,
		SchemasPath:     DefaultSchemasPath,
		ToolsPath:       DefaultToolsPath,
		MaxBodyBytes:    DefaultMaxBodyBytes,
		AuditLogging:    true,
	}
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimitEnabled {
		if c.RateLimitMax <= 0 {
			return fmt.Errorf("rate_limit_max must be positive, got %d", c.RateLimitMax)
		}
		if c.RateLimitWindow <= 0 {
			return fmt.Errorf("rate_limit_window must be positive, got %s", c.RateLimitWindow)
		}
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("upstream_timeout must not be negative, got %s", c.UpstreamTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := getEnv("HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("PORT", ""); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		cfg.Port = p
	}
	if v := getEnv("TOOLHOST_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("LOG_FORMAT", ""); v != "" {
		cfg.LogFormat = v
	}
	if v := getEnv("CORS_ENABLED", ""); v != "" {
		cfg.CORSEnabled = parseBool(v)
	}
	if v := getEnv("CORS_ORIGIN", ""); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := getEnv("API_KEYS", ""); v != "" {
		cfg.APIKeys = splitList(v)
	}
	if v := getEnv("API_KEY_HEADER", ""); v != "" {
		cfg.APIKeyHeader = v
	}
	if v := getEnv("RATE_LIMIT_ENABLED", ""); v != "" {
		cfg.RateLimitEnabled = parseBool(v)
	}
	if v := getEnv("RATE_LIMIT_WINDOW", ""); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_WINDOW: %w", err)
		}
		cfg.RateLimitWindow = d
	}
	if v := getEnv("RATE_LIMIT_MAX", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_MAX: %w", err)
		}
		cfg.RateLimitMax = n
	}
	if v := getEnv("SCHEMAS_PATH", ""); v != "" {
		cfg.SchemasPath = v
	}
	if v := getEnv("TOOLS_PATH", ""); v != "" {
		cfg.ToolsPath = v
	}
	if v := getEnv("UPSTREAM_TIMEOUT", ""); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.UpstreamTimeout = d
	}
	if v := getEnv("IMPACT_API_URL", ""); v != "" {
		cfg.ImpactAPIURL = v
	}
	if v := getEnv("CATEGORY_LEVEL_API_URL", ""); v != "" {
		cfg.CategoryAPIURL = v
	}
	if v := getEnv("AUDIT_LOGGING", ""); v != "" {
		cfg.AuditLogging = parseBool(v)
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("ANTHROPIC_MODEL", ""); v != "" {
		cfg.AnthropicModel = v
	}
	return nil
}

// parseDuration accepts Go durations ("15m") or a bare number of milliseconds.
func parseDuration(v string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes"
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
