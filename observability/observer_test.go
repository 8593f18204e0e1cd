package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tailored-agentic-units/bidon/observability"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		name  string
		level observability.Level
		want  string
	}{
		{name: "trace range", level: 1, want: "TRACE"},
		{name: "verbose maps to DEBUG", level: observability.LevelVerbose, want: "DEBUG"},
		{name: "info maps to INFO", level: observability.LevelInfo, want: "INFO"},
		{name: "warning maps to WARN", level: observability.LevelWarning, want: "WARN"},
		{name: "error maps to ERROR", level: observability.LevelError, want: "ERROR"},
		{name: "fatal range", level: 21, want: "FATAL"},
		{name: "zero is trace", level: 0, want: "TRACE"},
		{name: "top of trace band", level: 4, want: "TRACE"},
		{name: "top of debug band", level: 8, want: "DEBUG"},
		{name: "top of warn band", level: 16, want: "WARN"},
		{name: "top of error band", level: 20, want: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  slog.Level
	}{
		{level: observability.LevelVerbose, want: slog.LevelDebug},
		{level: observability.LevelInfo, want: slog.LevelInfo},
		{level: observability.LevelWarning, want: slog.LevelWarn},
		{level: observability.LevelError, want: slog.LevelError},
		{level: 2, want: slog.LevelDebug},
		{level: 12, want: slog.LevelInfo},
		{level: 24, want: slog.LevelError},
	}

	for _, tt := range tests {
		if got := tt.level.SlogLevel(); got != tt.want {
			t.Errorf("Level(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestEmit_StampsTimestamp(t *testing.T) {
	rec := observability.NewRecorder()

	observability.Emit(context.Background(), rec, observability.Event{
		Type:  "namespace.create",
		Level: observability.LevelInfo,
	})

	events := rec.Events()
	if len(events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events))
	}
	if events[0].Timestamp.IsZero() {
		t.Error("Emit() should stamp a zero Timestamp")
	}
}

func TestEmit_NilObserver(t *testing.T) {
	observability.Emit(context.Background(), nil, observability.Event{Type: "ignored"})
}

func TestMultiObserver_NilFiltering(t *testing.T) {
	a := observability.NewRecorder()
	b := observability.NewRecorder()

	multi := observability.NewMultiObserver(nil, a, nil, b)
	multi.OnEvent(context.Background(), observability.Event{Type: "bucket.start"})

	if a.Count("bucket.start") != 1 || b.Count("bucket.start") != 1 {
		t.Errorf("counts = %d, %d, want 1, 1", a.Count("bucket.start"), b.Count("bucket.start"))
	}
}

func TestSlogObserver_LevelMapping(t *testing.T) {
	tests := []struct {
		name      string
		level     observability.Level
		minLevel  slog.Level
		expectLog bool
	}{
		{name: "verbose at debug handler", level: observability.LevelVerbose, minLevel: slog.LevelDebug, expectLog: true},
		{name: "verbose at info handler", level: observability.LevelVerbose, minLevel: slog.LevelInfo, expectLog: false},
		{name: "info at warn handler", level: observability.LevelInfo, minLevel: slog.LevelWarn, expectLog: false},
		{name: "error at error handler", level: observability.LevelError, minLevel: slog.LevelError, expectLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.minLevel}))

			observability.NewSlogObserver(logger).OnEvent(context.Background(), observability.Event{
				Type:      "test.event",
				Level:     tt.level,
				Timestamp: time.Now(),
				Source:    "test",
			})

			if hasOutput := buf.Len() > 0; hasOutput != tt.expectLog {
				t.Errorf("log output = %v, want %v (buf: %q)", hasOutput, tt.expectLog, buf.String())
			}
		})
	}
}

func TestSlogObserver_Attributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	observability.NewSlogObserver(logger).OnEvent(context.Background(), observability.Event{
		Type:      "namespace.create",
		Level:     observability.LevelInfo,
		Source:    "registry",
		Namespace: "users",
		RequestID: "req-1",
		Data:      map[string]any{"namespaces": 2},
	})

	output := buf.String()
	for _, want := range []string{"namespace.create", "source=registry", "namespace=users", "request_id=req-1", "namespaces=2"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		got, err := observability.ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := observability.NewLogger(&buf, "info", "json")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("hello")
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json logger output = %q, want JSON object", buf.String())
	}

	if _, err := observability.NewLogger(&buf, "info", "xml"); err == nil {
		t.Error("NewLogger() should reject unknown format")
	}
}

func TestRegistry_GetObserver(t *testing.T) {
	for _, name := range []string{"noop", "slog"} {
		if obs, err := observability.GetObserver(name); err != nil || obs == nil {
			t.Errorf("GetObserver(%q) = %v, %v", name, obs, err)
		}
	}
	if _, err := observability.GetObserver("nonexistent"); err == nil {
		t.Error("GetObserver(nonexistent) should fail")
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	rec := observability.NewRecorder()
	observability.RegisterObserver("test-recorder", rec)

	obs, err := observability.GetObserver("test-recorder")
	if err != nil {
		t.Fatalf("GetObserver() error = %v", err)
	}
	obs.OnEvent(context.Background(), observability.Event{Type: "test.event"})

	if rec.Count("test.event") != 1 {
		t.Errorf("Count() = %d, want 1", rec.Count("test.event"))
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	rec := observability.NewRecorder()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for range n {
		go func() {
			defer wg.Done()
			rec.OnEvent(context.Background(), observability.Event{Type: "bucket.put"})
		}()
	}
	wg.Wait()

	if got := rec.Count("bucket.put"); got != n {
		t.Errorf("Count() = %d, want %d", got, n)
	}
}

func TestGetObserver_CommaSeparated(t *testing.T) {
	a := observability.NewRecorder()
	b := observability.NewRecorder()
	observability.RegisterObserver("test-a", a)
	observability.RegisterObserver("test-b", b)

	obs, err := observability.GetObserver("test-a, test-b")
	if err != nil {
		t.Fatalf("GetObserver() error = %v", err)
	}
	obs.OnEvent(context.Background(), observability.Event{Type: "bucket.start"})

	if a.Count("bucket.start") != 1 || b.Count("bucket.start") != 1 {
		t.Errorf("counts = %d, %d, want 1, 1", a.Count("bucket.start"), b.Count("bucket.start"))
	}

	for _, bad := range []string{"", " , ", "test-a,missing"} {
		if _, err := observability.GetObserver(bad); err == nil {
			t.Errorf("GetObserver(%q) should fail", bad)
		}
	}
}

func TestGetObserver_SlogFollowsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	obs, err := observability.GetObserver("slog")
	if err != nil {
		t.Fatalf("GetObserver() error = %v", err)
	}
	obs.OnEvent(context.Background(), observability.Event{Type: "registry.start", Level: observability.LevelInfo})

	if !strings.Contains(buf.String(), "registry.start") {
		t.Errorf("default logger output = %q, want event", buf.String())
	}
}

func TestGetObserver_UnknownListsAvailable(t *testing.T) {
	_, err := observability.GetObserver("nonexistent")
	if err == nil {
		t.Fatal("GetObserver(nonexistent) should fail")
	}
	for _, want := range []string{"nonexistent", "noop", "slog"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
