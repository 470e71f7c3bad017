package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	turinghttp "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loopSource = "INITIAL STATE: q\nBLANK SYMBOL: [_]\nTRANSITIONS:\nq_: _>q\n"

func newTestServer(t *testing.T, opts ...turinghttp.Option) http.Handler {
	t.Helper()
	reg := registry.New(memory.NewStore())
	_, err := reg.Import(context.Background(), "../../../examples/compare.turing")
	require.NoError(t, err)

	srv, err := turinghttp.NewServer(reg, opts...)
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) turinghttp.RunResponse {
	t.Helper()
	var resp turinghttp.RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"turing-http"`)
}

func TestCORS(t *testing.T) {
	w := do(t, newTestServer(t), "OPTIONS", "/programs", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunProgram(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		status  int
		verdict string
	}{
		{"Accept", `{"tape":"xxxxxxx|_xxx"}`, http.StatusOK, "ACCEPT"},
		{"Reject", `{"tape":"xxx|_xxxxxxx"}`, http.StatusOK, "REJECT"},
		{"StepLimit", `{"tape":"xxxxxxx|_xxx","max_steps":3}`, http.StatusUnprocessableEntity, ""},
		{"BadTape", `{"tape":"a|b|c"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/programs/compare/run", "application/json", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusBadRequest {
				return
			}
			resp := decode(t, w)
			assert.Equal(t, tt.verdict, resp.Verdict)
			assert.Equal(t, tt.verdict != "", resp.Halted)
		})
	}

	w := do(t, h, "POST", "/programs/compare/run", "application/json", `{"tape":"xxxxxxx|_xxx","max_steps":3}`)
	resp := decode(t, w)
	assert.Equal(t, uint64(3), resp.Steps)
	assert.Contains(t, resp.Error, "step limit")
}

func TestRunProgram_NotFoundAndBadBody(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "POST", "/programs/missing/run", "application/json", `{"tape":""}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "POST", "/programs/compare/run", "application/json", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunSource(t *testing.T) {
	h := newTestServer(t, turinghttp.WithMaxSteps(100))

	body, _ := json.Marshal(turinghttp.RunRequest{Source: loopSource, Tape: ""})
	w := do(t, h, "POST", "/run", "application/json", string(body))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, uint64(100), decode(t, w).Steps, "server cap applies when the request sets none")

	body, _ = json.Marshal(turinghttp.RunRequest{Source: loopSource, MaxSteps: 1_000})
	w = do(t, h, "POST", "/run", "application/json", string(body))
	assert.Equal(t, uint64(100), decode(t, w).Steps, "requests cannot raise the cap")

	w = do(t, h, "POST", "/run", "application/json", `{"source":"INITIAL STATE: q\n"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BLANK SYMBOL")
}

func TestProgramLifecycle(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "PUT", "/programs/loop", "text/plain", loopSource)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"name":"loop","initial_state":"q","blank_symbol":"_","states":1,"transitions":1}`, w.Body.String())

	yml := "initial_state: a\nblank_symbol: _\ntransitions:\n  - {state: a, read: _, halt: accept}\n"
	w = do(t, h, "PUT", "/programs/acc", "application/yaml; charset=utf-8", yml)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, "GET", "/programs", "", "")
	assert.JSONEq(t, `{"programs":["acc","compare","loop"]}`, w.Body.String())

	w = do(t, h, "GET", "/programs/acc", "", "")
	assert.Equal(t, "INITIAL STATE: a\nBLANK SYMBOL: [_]\nTRANSITIONS:\na_: ACC\n", w.Body.String())

	w = do(t, h, "GET", "/programs/acc?format=yaml", "", "")
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "halt: ACC")

	w = do(t, h, "PUT", "/programs/bad", "text/plain", "nonsense")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "DELETE", "/programs/loop", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, "DELETE", "/programs/loop", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGraphAndValidate(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "GET", "/programs/compare/graph", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR\n"))

	w = do(t, h, "GET", "/programs/compare/validate", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var report struct {
		Reachable []string `json:"reachable"`
		Warnings  []any    `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, []string{"B", "F", "L", "R", "S"}, report.Reachable)
	assert.Empty(t, report.Warnings)
}

func TestTraceProgram(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, "GET", "/programs/compare/trace?tape=x%7C_x", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	// 7 steps plus the initial frame
	assert.Equal(t, 8, strings.Count(body, "event: step\n"))
	assert.Contains(t, body, `"cells":"x_x","head":0,"offset":-1`)
	assert.Contains(t, body, "event: result\n")
	assert.Contains(t, body, `"verdict":"ACCEPT"`)

	w = do(t, h, "GET", "/programs/compare/trace?max_steps=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTraceProgram_Capped(t *testing.T) {
	h := newTestServer(t, turinghttp.WithTraceMaxSteps(5))
	w := do(t, h, "PUT", "/programs/loop", "text/plain", loopSource)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, "GET", "/programs/loop/trace", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	// The initial frame plus one per step.
	assert.Equal(t, 6, strings.Count(body, "event: step\n"))
	assert.Contains(t, body, "step limit exceeded: 5")

	// A smaller request still wins.
	w = do(t, h, "GET", "/programs/loop/trace?max_steps=2", "", "")
	assert.Equal(t, 3, strings.Count(w.Body.String(), "event: step\n"))
}

func TestTraceProgram_WindowFollowsHead(t *testing.T) {
	h := newTestServer(t, turinghttp.WithTraceMaxSteps(100))
	w := do(t, h, "PUT", "/programs/loop", "text/plain", loopSource)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, "GET", "/programs/loop/trace", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var last struct {
		Head   int    `json:"head"`
		Cells  string `json:"cells"`
		Offset int    `json:"offset"`
	}
	for _, line := range strings.Split(w.Body.String(), "\n") {
		data, ok := strings.CutPrefix(line, "data: ")
		if ok && strings.Contains(data, `"cells"`) {
			require.NoError(t, json.Unmarshal([]byte(data), &last))
		}
	}
	assert.Equal(t, 100, last.Head)
	assert.Equal(t, 100-32, last.Offset)
	assert.Len(t, last.Cells, 33, "the tape right of the head is not materialized yet")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, turinghttp.WithMetrics(prometheus.NewRegistry()))

	w := do(t, h, "POST", "/programs/compare/run", "application/json", `{"tape":"x|_x"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `turing_halts_total{implicit="false",verdict="ACCEPT"} 1`)
	assert.Contains(t, w.Body.String(), "turing_steps_total 6")

	without := newTestServer(t)
	w = do(t, without, "GET", "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWithMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := registry.New(memory.NewStore())
	_, err := turinghttp.NewServer(r, turinghttp.WithMetrics(reg))
	require.NoError(t, err)
	_, err = turinghttp.NewServer(r, turinghttp.WithMetrics(reg))
	assert.Error(t, err)
}
