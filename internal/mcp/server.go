// Package mcp implements a Model Context Protocol server exposing structdiff
// comparison capabilities as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randlee/structdiff/pkg/observability"
	"github.com/randlee/structdiff/pkg/version"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "structdiff"

	// toolCount is the expected number of registered tools.
	toolCount = 2
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.CompareMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil
	// disables tracing.
	Tracer trace.Tracer
}

// Server wraps the MCP SDK server with structdiff tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	metrics *observability.CompareMetrics
	tracer  trace.Tracer
}

// NewServer creates a new MCP server with all structdiff tools registered.
func NewServer(deps ServerDeps) *Server {
	serverOpts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		serverOpts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		serverOpts,
	)

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all structdiff MCP tools to the server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameCompare,
		Description: compareToolDescription,
	}, withMetrics(s.metrics, ToolNameCompare, withTracing(s.tracer, ToolNameCompare, handleCompare)))

	s.trackTool(ToolNameCompare)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameParse,
		Description: parseToolDescription,
	}, withMetrics(s.metrics, ToolNameParse, withTracing(s.tracer, ToolNameParse, handleParse)))

	s.trackTool(ToolNameParse)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// withTracing wraps an MCP tool handler to create an OTel span per
// invocation.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		return handler(ctx, req, input)
	}
}

// withMetrics wraps an MCP tool handler to record metrics per invocation.
func withMetrics[Input any](
	metrics *observability.CompareMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		result, output, err := handler(ctx, req, input)

		status := "ok"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}

		metrics.RecordCompare(ctx, "mcp."+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	compareToolDescription = "Compare two versions of a C# source file and return a " +
		"hierarchical list of semantic changes (added/removed/modified/renamed/moved) " +
		"classified by API-impact severity."

	parseToolDescription = "Parse C# source code into the structural declaration tree " +
		"the diff engine operates on. Returns a JSON representation."
)
