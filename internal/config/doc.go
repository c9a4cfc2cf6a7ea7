// Package config provides configuration management for the shark incident
// dashboard.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SHARKDASH_<SECTION>_<FIELD>:
//
//	SHARKDASH_SERVER_PORT=8080
//	SHARKDASH_DATA_SOURCE=/srv/data/attacks.csv
//	SHARKDASH_LOGGING_LEVEL=debug
//	SHARKDASH_SECURITY_RATE_LIMIT_RPS=50
//	SHARKDASH_TELEMETRY_TRACING_ENABLED=true
//
// SHARKDASH_CONFIG names the YAML file. Without it config.yaml and
// configs/config.yaml are tried.
//
// # Paths
//
// Relative paths (data source, log file) are resolved against SHARKDASH_HOME,
// or the working directory when it is unset.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
