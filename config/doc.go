// Package config loads service configuration from YAML files, .env files
// and environment variables using Viper.
//
// Files are searched in the conventional locations (./cmd/<service>/config.yml,
// ./config/config.yml, ./config.yml). Environment variables prefixed with the
// upper-cased service name override file values, with underscores mapping to
// nested keys:
//
//	DIARSPLIT_SERVER_PORT=9000        -> server.port
//	DIARSPLIT_BATCH_TEMP_DIR=/scratch -> batch.temp_dir
//
// # Usage
//
//	var cfg AppConfig
//	if err := config.LoadConfig("diarsplit", &cfg); err != nil { ... }
package config
