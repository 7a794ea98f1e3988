// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Exporter selection values for OTEL_EXPORTER.
const (
	ExporterOff      = "off"
	ExporterStdout   = "stdout"
	ExporterOTLPGRPC = "otlp-grpc"
	ExporterOTLPHTTP = "otlp-http"
)

// Config holds all configuration for the application.
type Config struct {
	Port         int
	DatabaseURL  string
	GeminiAPIKey string
	LogLevel     string
	LogFormat    string
	OTelExporter string
	OTLPEndpoint string
}

// Load reads configuration from environment variables. DATABASE_URL is
// optional: when empty the server runs on the in-memory store, which
// is intended for development and tests only.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogFormat:    os.Getenv("LOG_FORMAT"),
		OTelExporter: os.Getenv("OTEL_EXPORTER"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	cfg.Port = 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil || p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", portStr)
		}
		cfg.Port = p
	}

	if cfg.OTelExporter == "" {
		cfg.OTelExporter = ExporterOff
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that the configuration values that have a fixed
// vocabulary are within it.
func (c *Config) validate() error {
	var errs []string

	switch c.OTelExporter {
	case ExporterOff, ExporterStdout, ExporterOTLPGRPC, ExporterOTLPHTTP:
	default:
		errs = append(errs, fmt.Sprintf("OTEL_EXPORTER must be one of off, stdout, otlp-grpc, otlp-http (got %q)", c.OTelExporter))
	}

	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be json or console (got %q)", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// UseMemoryStore reports whether the server should run on the
// in-memory store instead of Postgres.
func (c *Config) UseMemoryStore() bool {
	return c.DatabaseURL == ""
}
