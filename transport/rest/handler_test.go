package rest_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tailored-agentic-units/bidon/registry"
	"github.com/tailored-agentic-units/bidon/snapshot"
	"github.com/tailored-agentic-units/bidon/transport/rest"
)

func newTestServer(t *testing.T, opts rest.Options, regOpts ...registry.Option) *httptest.Server {
	t.Helper()
	reg, err := registry.Start(context.Background(), registry.DefaultConfig(), regOpts...)
	if err != nil {
		t.Fatalf("registry.Start() error = %v", err)
	}
	t.Cleanup(func() { reg.Shutdown(5 * time.Second) })

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := httptest.NewServer(rest.NewHandler(reg, opts))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

type step struct {
	method     string
	path       string
	body       string
	wantStatus int
	wantBody   string
	checkBody  bool
}

func runSteps(t *testing.T, srv *httptest.Server, steps []step) {
	t.Helper()
	for _, s := range steps {
		status, body := do(t, srv, s.method, s.path, s.body)
		if status != s.wantStatus {
			t.Fatalf("%s %s status = %d, want %d (body %q)", s.method, s.path, status, s.wantStatus, body)
		}
		if s.checkBody && body != s.wantBody {
			t.Fatalf("%s %s body = %q, want %q", s.method, s.path, body, s.wantBody)
		}
	}
}

func TestHandler_DefaultScenario(t *testing.T) {
	srv := newTestServer(t, rest.Options{})

	runSteps(t, srv, []step{
		{method: http.MethodGet, path: "/default/foo", wantStatus: http.StatusNotFound},
		{method: http.MethodPut, path: "/default/foo", body: "bar", wantStatus: http.StatusOK, checkBody: true, wantBody: ""},
		{method: http.MethodGet, path: "/default/foo", wantStatus: http.StatusOK, checkBody: true, wantBody: "bar"},
		{method: http.MethodPut, path: "/default/foo", body: "baz", wantStatus: http.StatusOK, checkBody: true, wantBody: "bar"},
		{method: http.MethodDelete, path: "/default/foo", wantStatus: http.StatusOK, checkBody: true, wantBody: "baz"},
		{method: http.MethodDelete, path: "/default/foo", wantStatus: http.StatusNotFound},
		{method: http.MethodGet, path: "/default/foo", wantStatus: http.StatusNotFound},
	})
}

func TestHandler_Namespaces(t *testing.T) {
	srv := newTestServer(t, rest.Options{})

	runSteps(t, srv, []step{
		{method: http.MethodGet, path: "/users/alice", wantStatus: http.StatusNotFound},
		{method: http.MethodPut, path: "/users/alice", body: "1", wantStatus: http.StatusNotFound},
		{method: http.MethodPost, path: "/users", wantStatus: http.StatusCreated},
		{method: http.MethodPost, path: "/users", wantStatus: http.StatusConflict},
		{method: http.MethodPost, path: "/default", wantStatus: http.StatusConflict},
		{method: http.MethodPut, path: "/users/alice", body: "1", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/users/alice", wantStatus: http.StatusOK, checkBody: true, wantBody: "1"},
		{method: http.MethodGet, path: "/default/alice", wantStatus: http.StatusNotFound},
	})
}

func TestHandler_EmptyValue(t *testing.T) {
	srv := newTestServer(t, rest.Options{})

	runSteps(t, srv, []step{
		{method: http.MethodPut, path: "/default/empty", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/default/empty", wantStatus: http.StatusOK, checkBody: true, wantBody: ""},
	})
}

func TestHandler_ValueTooLarge(t *testing.T) {
	srv := newTestServer(t, rest.Options{MaxValueBytes: 8})

	runSteps(t, srv, []step{
		{method: http.MethodPut, path: "/default/k", body: strings.Repeat("x", 9), wantStatus: http.StatusRequestEntityTooLarge},
		{method: http.MethodGet, path: "/default/k", wantStatus: http.StatusNotFound},
		{method: http.MethodPut, path: "/default/k", body: strings.Repeat("x", 8), wantStatus: http.StatusOK},
	})
}

func TestHandler_SaveLoadWithoutStore(t *testing.T) {
	srv := newTestServer(t, rest.Options{})

	runSteps(t, srv, []step{
		{method: http.MethodPost, path: "/default/_save", wantStatus: http.StatusInternalServerError},
		{method: http.MethodPost, path: "/default/_load", wantStatus: http.StatusNotFound},
	})
}

func TestHandler_SaveLoadWithStore(t *testing.T) {
	store := snapshot.NewFileStore(t.TempDir())
	srv := newTestServer(t, rest.Options{}, registry.WithStore(store))

	runSteps(t, srv, []step{
		{method: http.MethodPost, path: "/missing/_save", wantStatus: http.StatusNotFound},
		{method: http.MethodPut, path: "/default/k", body: "saved", wantStatus: http.StatusOK},
		{method: http.MethodPost, path: "/default/_save", wantStatus: http.StatusNoContent},
		{method: http.MethodPut, path: "/default/k", body: "changed", wantStatus: http.StatusOK},
		{method: http.MethodPost, path: "/default/_load", wantStatus: http.StatusNoContent},
		{method: http.MethodGet, path: "/default/k", wantStatus: http.StatusOK, checkBody: true, wantBody: "saved"},
	})
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, rest.Options{})

	status, _ := do(t, srv, http.MethodPatch, "/default/k", "x")
	if status != http.StatusMethodNotAllowed {
		t.Errorf("PATCH status = %d, want %d", status, http.StatusMethodNotAllowed)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHandler_LogsRequests(t *testing.T) {
	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	srv := newTestServer(t, rest.Options{Logger: logger})

	do(t, srv, http.MethodGet, "/default/missing", "")

	output := buf.String()
	for _, want := range []string{"http.request", "method=GET", "path=/default/missing", "status=404"} {
		if !strings.Contains(output, want) {
			t.Errorf("log output missing %q: %s", want, output)
		}
	}
}

type unavailableStore struct{ rest.Store }

func (unavailableStore) Get(context.Context, string, string) ([]byte, error) {
	return nil, registry.ErrUnavailable
}

func TestHandler_TransportFailure(t *testing.T) {
	h := rest.NewHandler(unavailableStore{}, rest.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/default/k", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
