package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/randlee/structdiff/internal/config"
	"github.com/randlee/structdiff/internal/mcp"
	"github.com/randlee/structdiff/pkg/observability"
	"github.com/randlee/structdiff/pkg/version"
)

// metricsReadHeaderTimeout bounds header reads on the scrape endpoint.
const metricsReadHeaderTimeout = 10 * time.Second

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(configFile *string) *cobra.Command {
	var (
		debug       bool
		metricsAddr string
	)

	cobraCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes structdiff capabilities as tools that AI agents can
discover and invoke:
  - structdiff_compare: semantic diff of two inline source versions
  - structdiff_parse: parse inline source into the structural tree`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runMCP(cobraCmd.Context(), *configFile, debug, metricsAddr)
		},
	}

	cobraCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging to stderr")
	cobraCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve a Prometheus /metrics endpoint on this address")

	return cobraCmd
}

func runMCP(ctx context.Context, configFile string, debug bool, metricsAddr string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err //nolint:wrapcheck // Config errors are already descriptive.
	}

	obsCfg := cfg.ObservabilityOptions(observability.ModeMCP, version.Version)
	obsCfg.LogJSON = true

	if debug {
		obsCfg.LogLevel = slog.LevelDebug
		obsCfg.DebugTrace = true
	}

	if metricsAddr != "" {
		obsCfg.MetricsAddr = metricsAddr
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	if obsCfg.MetricsAddr != "" {
		err = serveMetrics(obsCfg.MetricsAddr, providers.Logger)
		if err != nil {
			return err
		}
	}

	metrics, err := observability.NewCompareMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	deps := mcp.ServerDeps{Logger: providers.Logger, Metrics: metrics, Tracer: providers.Tracer}

	return mcp.NewServer(deps).Run(ctx)
}

// serveMetrics starts the Prometheus scrape endpoint in the background.
func serveMetrics(addr string, logger *slog.Logger) error {
	_, handler, err := observability.PrometheusHandler()
	if err != nil {
		return fmt.Errorf("create metrics handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		serveErr := server.ListenAndServe()
		if serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Warn("metrics endpoint failed", "error", serveErr)
		}
	}()

	return nil
}
