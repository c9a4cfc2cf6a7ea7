package config

import (
	"time"

	"sharkdash/pkg/contracts"
)

// Application constants
const (
	AppName    = "sharkdash"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. SHARKDASH_SERVER_PORT
	EnvPrefix = "SHARKDASH"

	// EnvHome overrides the directory relative paths are resolved against
	EnvHome = "SHARKDASH_HOME"

	DefaultPort           = 8080
	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimitRPS   = 20
	DefaultBurstSize      = 40

	DefaultSource     = "data/attacks.csv"
	DefaultReportsDir = "reports"
)
