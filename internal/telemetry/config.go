package telemetry

import (
	"github.com/felixgeelhaar/testrank/internal/config"
)

// Config holds configuration for the tracer
type Config struct {
	// ServiceName is the name of the service
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Enabled determines whether tracing is enabled.
	// When false, a noop tracer is used
	Enabled bool

	// Endpoint is the OTLP/HTTP collector endpoint, either host:port or a
	// full URL. If empty, spans are sampled but not exported
	Endpoint string

	// SampleRate is the fraction of traces to sample (0.0 to 1.0)
	SampleRate float64
}

// DefaultConfig returns the CLI default: tracing disabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "testrank",
		ServiceVersion: "dev",
		SampleRate:     1.0,
	}
}

// FromConfig builds a tracer configuration from the telemetry section of
// the engine configuration.
func FromConfig(cfg config.TelemetryConfig, version string) Config {
	c := DefaultConfig()
	c.Enabled = cfg.Enabled
	c.Endpoint = cfg.Endpoint
	if cfg.SampleRate > 0 {
		c.SampleRate = cfg.SampleRate
	}
	if version != "" {
		c.ServiceVersion = version
	}
	return c
}
