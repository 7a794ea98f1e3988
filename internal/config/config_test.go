package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so tests see only what
// they set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "GEMINI_API_KEY",
		"LOG_LEVEL", "LOG_FORMAT",
		"OTEL_EXPORTER", "OTEL_EXPORTER_OTLP_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, ExporterOff, cfg.OTelExporter)
	require.True(t, cfg.UseMemoryStore())
}

func TestLoad_Port(t *testing.T) {
	t.Run("accepts a valid port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "3000")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, 3000, cfg.Port)
	})

	tests := []struct {
		name string
		port string
	}{
		{name: "non-numeric", port: "http"},
		{name: "zero", port: "0"},
		{name: "out of range", port: "70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", tt.port)

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid PORT")
		})
	}
}

func TestLoad_Validation(t *testing.T) {
	t.Run("rejects an unknown exporter", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OTEL_EXPORTER", "jaeger")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "OTEL_EXPORTER")
	})

	t.Run("rejects an unknown log format", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_FORMAT", "xml")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "LOG_FORMAT")
	})

	t.Run("collects every violation", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OTEL_EXPORTER", "jaeger")
		t.Setenv("LOG_FORMAT", "xml")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "OTEL_EXPORTER")
		require.Contains(t, err.Error(), "LOG_FORMAT")
	})
}

func TestUseMemoryStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/expenses")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.UseMemoryStore())
}
