package config

import "time"

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 3000
	DefaultEnvironment = "development"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"

	DefaultRateLimitWindow = 15 * time.Minute
	DefaultRateLimitMax    = 100

	DefaultSchemasPath = "./schemas"
	DefaultToolsPath   = "./tools.d"

	DefaultAPIKeyHeader = "X-API-Key"

	DefaultMaxBodyBytes = 1 << 20

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	EnvProduction = "production"
)

var DefaultCORSOrigins = []string{"*"}
