// Package observability provides event-based observability for the registry
// and bucket actors. Level values align with OpenTelemetry SeverityNumbers so
// events can be forwarded to OTel collectors without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is the severity of an actor event. Each value is the lowest
// SeverityNumber of its OpenTelemetry band, so a level exports unchanged.
type Level int

const (
	LevelVerbose Level = 5
	LevelInfo    Level = 9
	LevelWarning Level = 13
	LevelError   Level = 17
)

// severityNames holds one name per four-wide band, starting at band 1-4.
var severityNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

// String names the band l falls in. Values past 20 read as FATAL.
func (l Level) String() string {
	band := int(l-1) / 4
	if l < 1 {
		band = 0
	}
	if band >= len(severityNames) {
		return "FATAL"
	}
	return severityNames[band]
}

// SlogLevel is the level used when the event is written through slog.
// TRACE and DEBUG collapse to slog.LevelDebug; FATAL collapses to LevelError.
func (l Level) SlogLevel() slog.Level {
	switch l.String() {
	case "TRACE", "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType identifies the kind of event, e.g. "namespace.create".
type EventType string

// Event is emitted by the actors. Namespace and RequestID are promoted out of
// Data because nearly every event carries them.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Namespace string
	RequestID string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Emit stamps event and forwards it to obs. A nil observer discards it.
func Emit(ctx context.Context, obs Observer, event Event) {
	if obs == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	obs.OnEvent(ctx, event)
}

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// MultiObserver fans out events to multiple observers.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver forwards events to every non-nil observer given.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}
	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
