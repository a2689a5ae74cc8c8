// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for the structdiff binary in its CLI and MCP modes.
package observability

import "log/slog"

// AppMode identifies the application execution mode.
type AppMode string

const (
	// ModeCLI is the CLI command execution mode.
	ModeCLI AppMode = "cli"
	// ModeMCP is the MCP stdio server mode.
	ModeMCP AppMode = "mcp"
)

const (
	// defaultServiceName is the default OTel service name.
	defaultServiceName = "structdiff"

	// defaultShutdownTimeoutSec is the default shutdown timeout in seconds.
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "dev", "ci").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export; providers become no-op.
	OTLPEndpoint string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// MetricsAddr, when set, serves a Prometheus scrape endpoint on the
	// given address (e.g. ":9090").
	MetricsAddr string

	// DebugTrace forces 100% trace sampling when true.
	DebugTrace bool

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON switches the log handler from text to JSON.
	LogJSON bool

	// ShutdownTimeoutSec bounds the telemetry flush on exit.
	ShutdownTimeoutSec int
}

// DefaultConfig returns the baseline configuration for CLI execution.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
