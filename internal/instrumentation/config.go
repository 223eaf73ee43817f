package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Supported metrics exporters.
const (
	ExporterPrometheus = "prometheus"
	ExporterStdout     = "stdout"
)

// Result values recorded on metrics.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Config holds the instrumentation configuration.
type Config struct {
	// ServiceName identifies the service on exported metrics.
	ServiceName string

	// ServiceVersion is the running version.
	ServiceVersion string

	// Enabled determines whether metrics are collected at all.
	// Set INSTRUMENTATION_ENABLED=false to disable.
	Enabled bool

	// MetricsExporter is "prometheus" (default) or "stdout".
	MetricsExporter string

	// PrometheusEndpoint is the HTTP path for the scrape endpoint.
	PrometheusEndpoint string
}

// DefaultConfig returns a Config populated from environment variables
// with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName:        getEnvOrDefault("OTEL_SERVICE_NAME", "schedulenudge"),
		ServiceVersion:     "unknown",
		Enabled:            getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:    getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		PrometheusEndpoint: getEnvOrDefault("PROMETHEUS_ENDPOINT", "/metrics"),
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	switch c.MetricsExporter {
	case ExporterPrometheus, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q (want %s or %s)",
			c.MetricsExporter, ExporterPrometheus, ExporterStdout)
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service name must not be empty")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
