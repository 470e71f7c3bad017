package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds uploaded programs and run requests.
const maxBodyBytes = 1 << 20

// DefaultTraceMaxSteps caps streamed traces unless WithTraceMaxSteps says otherwise.
const DefaultTraceMaxSteps = 10_000

// traceRadius is how many cells either side of the head a trace frame carries.
const traceRadius = 32

// Server exposes a program registry over HTTP.
type Server struct {
	Registry *registry.Registry

	// MaxSteps caps every run. Zero means unbounded.
	MaxSteps uint64

	// TraceMaxSteps additionally caps /trace, which writes one frame per step.
	// Zero leaves traces under MaxSteps alone.
	TraceMaxSteps uint64

	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithMaxSteps caps the steps of every run. Requests may ask for less, never more.
func WithMaxSteps(n uint64) Option {
	return func(s *Server) error {
		s.MaxSteps = n
		return nil
	}
}

// WithTraceMaxSteps caps the steps of a streamed trace.
func WithTraceMaxSteps(n uint64) Option {
	return func(s *Server) error {
		s.TraceMaxSteps = n
		return nil
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics records runs into reg and serves it on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) error {
		m, err := observability.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		s.metrics = m
		s.gatherer = reg
		return nil
	}
}

// NewServer creates a server over reg.
func NewServer(reg *registry.Registry, opts ...Option) (*Server, error) {
	s := &Server{
		Registry:      reg,
		TraceMaxSteps: DefaultTraceMaxSteps,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/run", s.RunSource)

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", s.ListPrograms)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetProgram)
			r.Put("/", s.PutProgram)
			r.Delete("/", s.DeleteProgram)
			r.Get("/graph", s.GetGraph)
			r.Get("/validate", s.ValidateProgram)
			r.Post("/run", s.RunProgram)
			r.Get("/trace", s.TraceProgram)
		})
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RunRequest is the body of the run endpoints.
type RunRequest struct {
	Source   string `json:"source,omitempty"` // only for POST /run
	Tape     string `json:"tape"`
	MaxSteps uint64 `json:"max_steps,omitempty"`
}

// RunResponse reports the outcome of a run.
type RunResponse struct {
	Verdict string `json:"verdict,omitempty"`
	Halted  bool   `json:"halted"`
	Steps   uint64 `json:"steps"`
	State   string `json:"state"`
	Tape    string `json:"tape"`
	Error   string `json:"error,omitempty"`
}

// ProgramInfo summarizes a stored program.
type ProgramInfo struct {
	Name         string `json:"name"`
	InitialState string `json:"initial_state"`
	BlankSymbol  string `json:"blank_symbol"`
	States       int    `json:"states"`
	Transitions  int    `json:"transitions"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": strings.TrimSpace(turing.Version),
	})
}

// ListPrograms handles GET /programs.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Registry.List(r.Context())
	if err != nil {
		s.writeError(w, "ListPrograms", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"programs": names})
}

// GetProgram handles GET /programs/{name}. ?format=yaml returns the YAML form.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if r.URL.Query().Get("format") == string(compiler.EncodingYAML) {
		schematic, err := s.Registry.Get(r.Context(), name)
		if err != nil {
			s.writeError(w, "GetProgram", err)
			return
		}
		out, err := compiler.FormatYAML(schematic)
		if err != nil {
			s.writeError(w, "GetProgram", err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)
		return
	}

	source, err := s.Registry.Source(r.Context(), name)
	if err != nil {
		s.writeError(w, "GetProgram", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(source)
}

// PutProgram handles PUT /programs/{name}. YAML content types select the YAML form.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutProgram: Invalid request body", "error", err)
		return
	}

	schematic, err := s.Registry.Put(r.Context(), name, body, encodingFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		s.writeError(w, "PutProgram", err)
		return
	}

	writeJSON(w, http.StatusOK, ProgramInfo{
		Name:         name,
		InitialState: schematic.InitialState().String(),
		BlankSymbol:  schematic.BlankSymbol().String(),
		States:       len(schematic.Table().States()),
		Transitions:  schematic.Table().Len(),
	})
}

// DeleteProgram handles DELETE /programs/{name}.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.Registry.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, "DeleteProgram", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /programs/{name}/graph and returns Mermaid text.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	schematic, err := s.Registry.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "GetGraph", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(schematic, nil))
}

// ValidateProgram handles GET /programs/{name}/validate.
func (s *Server) ValidateProgram(w http.ResponseWriter, r *http.Request) {
	schematic, err := s.Registry.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "ValidateProgram", err)
		return
	}
	writeJSON(w, http.StatusOK, validator.Validate(schematic))
}

// RunProgram handles POST /programs/{name}/run.
func (s *Server) RunProgram(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("RunProgram: Invalid request body", "error", err)
		return
	}

	schematic, err := s.Registry.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "RunProgram", err)
		return
	}
	s.run(r.Context(), w, schematic, body)
}

// RunSource handles POST /run with an inline program.
func (s *Server) RunSource(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("RunSource: Invalid request body", "error", err)
		return
	}

	schematic, err := turing.ParseString(body.Source)
	if err != nil {
		s.writeError(w, "RunSource", err)
		return
	}
	s.run(r.Context(), w, schematic, body)
}

func (s *Server) run(ctx context.Context, w http.ResponseWriter, schematic *domain.Schematic, body RunRequest) {
	m, err := turing.NewFromNotation(schematic, body.Tape, turing.WithLifecycleHooks(s.metrics.Hooks()))
	if err != nil {
		s.writeError(w, "Run", err)
		return
	}

	res, err := runner.Run(ctx, m, runner.WithMaxSteps(s.stepLimit(body.MaxSteps)))
	s.metrics.ObserveRun(res, err)

	resp := toRunResponse(res)
	if err != nil {
		resp.Error = err.Error()
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("Run failed", "error", err)
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TraceProgram handles GET /programs/{name}/trace?tape=...&max_steps=...
// It streams one SSE "step" event per frame and a final "result" event.
// Frames carry the cells around the head, the result carries the whole tape.
func (s *Server) TraceProgram(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("TraceProgram: Streaming not supported")
		return
	}

	var maxSteps uint64
	if raw := r.URL.Query().Get("max_steps"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, "Invalid max_steps", http.StatusBadRequest)
			return
		}
		maxSteps = n
	}

	schematic, err := s.Registry.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, "TraceProgram", err)
		return
	}
	m, err := turing.NewFromNotation(schematic, r.URL.Query().Get("tape"), turing.WithLifecycleHooks(s.metrics.Hooks()))
	if err != nil {
		s.writeError(w, "TraceProgram", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	observer := func(f runner.Frame) {
		cells, offset := window(f.Tape, traceRadius)
		data, _ := json.Marshal(map[string]any{
			"step":   f.Step,
			"state":  f.State.String(),
			"head":   f.Tape.Head(),
			"cells":  cells,
			"offset": offset,
		})
		fmt.Fprintf(w, "event: step\ndata: %s\n\n", data)
		flusher.Flush()
	}

	res, err := runner.Run(r.Context(), m,
		runner.WithMaxSteps(s.traceLimit(maxSteps)),
		runner.WithObserver(observer),
	)
	s.metrics.ObserveRun(res, err)

	resp := toRunResponse(res)
	if err != nil {
		resp.Error = err.Error()
	}
	data, _ := json.Marshal(resp)
	fmt.Fprintf(w, "event: result\ndata: %s\n\n", data)
	flusher.Flush()
}

// stepLimit applies the server cap to a requested bound.
func (s *Server) stepLimit(requested uint64) uint64 {
	if s.MaxSteps == 0 {
		return requested
	}
	if requested == 0 || requested > s.MaxSteps {
		return s.MaxSteps
	}
	return requested
}

// traceLimit is stepLimit further bounded by TraceMaxSteps.
func (s *Server) traceLimit(requested uint64) uint64 {
	limit := s.stepLimit(requested)
	if s.TraceMaxSteps > 0 && (limit == 0 || limit > s.TraceMaxSteps) {
		return s.TraceMaxSteps
	}
	return limit
}

// window returns the materialized cells within radius of the head and the
// position of the first one.
func window(v turing.TapeView, radius int) (string, int) {
	lo, hi := v.Bounds()
	from, to := max(lo, v.Head()-radius), min(hi, v.Head()+radius)
	var sb strings.Builder
	for p := from; p <= to; p++ {
		sb.WriteRune(rune(v.At(p)))
	}
	return sb.String(), from
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Debug(op+" rejected", "error", err, "status", status)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	var syntaxErr *compiler.SyntaxError
	switch {
	case errors.As(err, &syntaxErr),
		errors.Is(err, domain.ErrInvalidProgramName),
		errors.Is(err, tape.ErrNotation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProgramNotFound):
		return http.StatusNotFound
	case errors.Is(err, runner.ErrStepLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toRunResponse(res runner.Result) RunResponse {
	resp := RunResponse{
		Halted: res.Halted,
		Steps:  res.Steps,
		State:  res.State.String(),
		Tape:   res.Tape,
	}
	if res.Halted {
		resp.Verdict = res.Verdict.String()
	}
	return resp
}

func encodingFromContentType(contentType string) compiler.Encoding {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return compiler.EncodingYAML
	default:
		return compiler.EncodingText
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
