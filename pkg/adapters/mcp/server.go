package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ProgramsURI lists the stored programs.
const ProgramsURI = "turing://programs"

// RunResponse aligns with the HTTP adapter and is returned by the run tools.
type RunResponse struct {
	Verdict string `json:"verdict,omitempty" jsonschema_description:"ACCEPT or REJECT once the machine halted"`
	Halted  bool   `json:"halted" jsonschema_description:"Whether the machine reached a halting state"`
	Steps   uint64 `json:"steps" jsonschema_description:"Number of steps performed"`
	State   string `json:"state" jsonschema_description:"Final state of the machine"`
	Tape    string `json:"tape" jsonschema_description:"Final tape in LEFT|RIGHT notation relative to the starting cell"`
}

type runArgs struct {
	Name     string `mapstructure:"name"`
	Source   string `mapstructure:"source"`
	Tape     string `mapstructure:"tape"`
	MaxSteps uint64 `mapstructure:"max_steps"`
}

// Server wraps a program registry and exposes it as an MCP Server.
type Server struct {
	registry  *registry.Registry
	maxSteps  uint64
	metrics   *observability.Metrics
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithMaxSteps caps the steps of every run. Zero means unbounded.
func WithMaxSteps(n uint64) Option {
	return func(s *Server) {
		s.maxSteps = n
	}
}

// WithMetrics records runs into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		registry:  reg,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL(addr)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func baseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: run_program
	s.mcpServer.AddTool(mcp.NewTool("run_program",
		mcp.WithDescription("Run a stored program on a tape until it halts or hits the step limit."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the stored program")),
		mcp.WithString("tape", mcp.Description("Tape as LEFT|RIGHT, the head starts on the first cell of RIGHT (default: blank tape)")),
		mcp.WithNumber("max_steps", mcp.Description("Step limit, capped by the server")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleRunProgram))

	// TOOL: run_source
	s.mcpServer.AddTool(mcp.NewTool("run_source",
		mcp.WithDescription("Parse an inline program and run it on a tape."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Program text in the line-based format")),
		mcp.WithString("tape", mcp.Description("Tape as LEFT|RIGHT, the head starts on the first cell of RIGHT (default: blank tape)")),
		mcp.WithNumber("max_steps", mcp.Description("Step limit, capped by the server")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleRunSource))

	// TOOL: list_programs
	s.mcpServer.AddTool(mcp.NewTool("list_programs",
		mcp.WithDescription("List stored program names."),
	), s.handleListPrograms)

	// TOOL: validate_program
	s.mcpServer.AddTool(mcp.NewTool("validate_program",
		mcp.WithDescription("Report unreachable states, dead ends and other structural issues."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the stored program")),
	), s.handleValidateProgram)

	// TOOL: graph_program
	s.mcpServer.AddTool(mcp.NewTool("graph_program",
		mcp.WithDescription("Render a stored program as a Mermaid flowchart."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the stored program")),
	), s.handleGraphProgram)
}

func (s *Server) handleRunProgram(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	var in runArgs
	if err := config.Decode(args, &in); err != nil {
		return RunResponse{}, err
	}
	if in.Name == "" {
		return RunResponse{}, errors.New("name is required")
	}
	schematic, err := s.registry.Get(ctx, in.Name)
	if err != nil {
		return RunResponse{}, err
	}
	return s.run(ctx, schematic, in)
}

func (s *Server) handleRunSource(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	var in runArgs
	if err := config.Decode(args, &in); err != nil {
		return RunResponse{}, err
	}
	schematic, err := turing.ParseString(in.Source)
	if err != nil {
		return RunResponse{}, err
	}
	return s.run(ctx, schematic, in)
}

func (s *Server) run(ctx context.Context, schematic *domain.Schematic, in runArgs) (RunResponse, error) {
	m, err := turing.NewFromNotation(schematic, in.Tape, turing.WithLifecycleHooks(s.metrics.Hooks()))
	if err != nil {
		return RunResponse{}, err
	}

	res, err := runner.Run(ctx, m, runner.WithMaxSteps(s.stepLimit(in.MaxSteps)))
	s.metrics.ObserveRun(res, err)
	if err != nil {
		s.logger.Debug("MCP Run: stopped", "error", err, "steps", res.Steps)
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}

	return RunResponse{
		Verdict: res.Verdict.String(),
		Halted:  res.Halted,
		Steps:   res.Steps,
		State:   res.State.String(),
		Tape:    res.Tape,
	}, nil
}

func (s *Server) stepLimit(requested uint64) uint64 {
	if s.maxSteps == 0 {
		return requested
	}
	if requested == 0 || requested > s.maxSteps {
		return s.maxSteps
	}
	return requested
}

func (s *Server) handleListPrograms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.registry.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleValidateProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schematic, errResult := s.lookup(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(validator.Validate(schematic).String()), nil
}

func (s *Server) handleGraphProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schematic, errResult := s.lookup(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(schematic, nil)), nil
}

func (s *Server) lookup(ctx context.Context, request mcp.CallToolRequest) (*domain.Schematic, *mcp.CallToolResult) {
	name, err := request.RequireString("name")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	schematic, err := s.registry.Get(ctx, name)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err))
	}
	return schematic, nil
}

func (s *Server) registerResources() {
	// EXPOSE: turing://programs
	s.mcpServer.AddResource(mcp.NewResource(ProgramsURI, "Stored Programs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.registry.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list programs: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ProgramsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
