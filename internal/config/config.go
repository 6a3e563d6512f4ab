package config

import (
	"os"
	"strconv"

	"regdiag/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Logging LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds dataset loading settings
type DataConfig struct {
	// TargetColumn and PredictionColumn are the default column roles used
	// when a request does not carry an explicit mapping.
	TargetColumn     string
	PredictionColumn string
	// XLSXSheet is the sheet read from workbook files.
	XLSXSheet string
	// MaxInlineRows bounds inline API payload size; 0 disables the bound.
	MaxInlineRows int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  loadServerConfig(),
		Data:    loadDataConfig(),
		Logging: loadLoggingConfig(),
	}
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		TargetColumn:     getEnvOrDefault("TARGET_COLUMN", "target"),
		PredictionColumn: getEnvOrDefault("PREDICTION_COLUMN", "prediction"),
		XLSXSheet:        getEnvOrDefault("XLSX_SHEET", "Sheet1"),
		MaxInlineRows:    getEnvIntOrDefault("MAX_INLINE_ROWS", 1_000_000),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Data.TargetColumn == config.Data.PredictionColumn {
		return errors.ConfigInvalid("TARGET_COLUMN and PREDICTION_COLUMN cannot be identical")
	}
	if config.Data.MaxInlineRows < 0 {
		return errors.ConfigInvalid("MAX_INLINE_ROWS cannot be negative")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
