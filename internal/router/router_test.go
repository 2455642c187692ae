package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gotigergraph/internal/app"
	"gotigergraph/internal/tigergraph"
)

type stubGraph struct {
	mu    sync.Mutex
	loads []string
	token string
}

func (s *stubGraph) RunLoadingJobWithData(_ context.Context, _ []byte, _, jobName string, _ *tigergraph.LoadOptions) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads = append(s.loads, jobName)
	return json.RawMessage(`[]`), nil
}

func (s *stubGraph) GetToken(context.Context, string, bool, int64) (tigergraph.Token, error) {
	return tigergraph.Token{Value: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubGraph) RefreshToken(context.Context, string, string, int64) (tigergraph.Token, error) {
	return tigergraph.Token{Value: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubGraph) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func newTestEngine(t *testing.T, graph *stubGraph) *stubEngine {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "p.csv")
	if err := os.WriteFile(path, []byte("1,Alice\n"), 0o644); err != nil {
		t.Fatalf("write data file: %v", err)
	}
	cfg := app.Config{
		Load: app.Load{
			Jobs: []app.LoadJob{
				{Name: "persons", JobName: "load_person", FileTag: "file1", FilePath: path},
			},
		},
	}
	svc, err := app.NewService(context.Background(), cfg, graph)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &stubEngine{engine: NewEngine(NewLoadHandler(svc, nil))}
}

type stubEngine struct {
	engine http.Handler
}

func (e *stubEngine) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	e := newTestEngine(t, &stubGraph{})
	w := e.do(t, http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d", w.Code)
	}
}

func TestLoadJobEndpoint(t *testing.T) {
	graph := &stubGraph{}
	e := newTestEngine(t, graph)

	w := e.do(t, http.MethodPost, "/api/v1/load/persons")
	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Job    string `json:"job"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Job != "persons" || resp.Status != "ok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(graph.loads) != 1 || graph.loads[0] != "load_person" {
		t.Fatalf("unexpected loads: %v", graph.loads)
	}
}

func TestLoadJobEndpointUnknownJob(t *testing.T) {
	e := newTestEngine(t, &stubGraph{})
	w := e.do(t, http.MethodPost, "/api/v1/load/missing")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expect 500 for unknown job, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "missing") {
		t.Fatalf("expect error to name the job, got %s", w.Body.String())
	}
}

func TestLoadAllEndpoint(t *testing.T) {
	graph := &stubGraph{}
	e := newTestEngine(t, graph)
	w := e.do(t, http.MethodPost, "/api/v1/load")
	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d body=%s", w.Code, w.Body.String())
	}
	if len(graph.loads) != 1 {
		t.Fatalf("expect 1 load, got %d", len(graph.loads))
	}
}

func TestTokenStatusEndpoint(t *testing.T) {
	e := newTestEngine(t, &stubGraph{token: "tok123"})
	w := e.do(t, http.MethodGet, "/api/v1/token")
	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d", w.Code)
	}
	var resp struct {
		HasToken bool `json:"has_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.HasToken {
		t.Fatalf("expect has_token=true, got %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEngine(t, &stubGraph{})
	w := e.do(t, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expect 200, got %d", w.Code)
	}
}
