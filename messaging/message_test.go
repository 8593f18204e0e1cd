package messaging_test

import (
	"errors"
	"testing"

	"github.com/tailored-agentic-units/bidon/messaging"
)

func TestKind_Err(t *testing.T) {
	tests := []struct {
		name string
		kind messaging.Kind
		want error
	}{
		{name: "none", kind: messaging.KindNone, want: nil},
		{name: "not found", kind: messaging.KindNotFound, want: messaging.ErrNotFound},
		{name: "conflict", kind: messaging.KindConflict, want: messaging.ErrConflict},
		{name: "failure", kind: messaging.KindFailure, want: messaging.ErrFailure},
		{name: "unknown falls back to failure", kind: messaging.Kind(42), want: messaging.ErrFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Err(); !errors.Is(got, tt.want) {
				t.Errorf("Kind(%d).Err() = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if got := messaging.KindNotFound.String(); got != "not_found" {
		t.Errorf("String() = %q, want %q", got, "not_found")
	}
	if got := messaging.Kind(9).String(); got != "kind(9)" {
		t.Errorf("String() = %q, want %q", got, "kind(9)")
	}
}

func TestReply_Found(t *testing.T) {
	if messaging.Failed(messaging.KindNotFound).Found() {
		t.Error("Failed reply should not report a value")
	}
	if !messaging.Success([]byte{}).Found() {
		t.Error("empty but present value should be reported as found")
	}
	if messaging.Success(nil).Found() {
		t.Error("nil value should not be reported as found")
	}
}

func TestDeliver_ExactlyOnce(t *testing.T) {
	reply := messaging.NewReplyTo()

	if !messaging.Deliver(reply, messaging.Success([]byte("first"))) {
		t.Fatal("first Deliver() = false, want true")
	}
	if messaging.Deliver(reply, messaging.Success([]byte("second"))) {
		t.Error("second Deliver() = true, want false for a used destination")
	}

	got := <-reply
	if string(got.Value) != "first" {
		t.Errorf("Value = %q, want %q", got.Value, "first")
	}
}

func TestDeliver_AbandonedDestination(t *testing.T) {
	reply := messaging.NewReplyTo()
	// Nobody reads reply; delivery must still return immediately.
	messaging.Deliver(reply, messaging.Failed(messaging.KindFailure))

	if messaging.Deliver(nil, messaging.Success(nil)) {
		t.Error("Deliver(nil) = true, want false")
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := messaging.NewID()
		if id == "" {
			t.Fatal("NewID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("NewID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}
