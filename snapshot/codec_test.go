package snapshot_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/tailored-agentic-units/bidon/snapshot"
)

func TestCodec_RoundTrip(t *testing.T) {
	want := snapshot.FromMap("users", map[string][]byte{
		"b":     []byte("two"),
		"a":     []byte("one"),
		"empty": {},
	})

	got, err := snapshot.Decode(snapshot.Encode(want))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_EmptySnapshot(t *testing.T) {
	got, err := snapshot.Decode(snapshot.Encode(&snapshot.Snapshot{Namespace: "default"}))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Namespace != "default" || got.Len() != 0 {
		t.Errorf("Decode() = %+v, want empty default snapshot", got)
	}
}

func TestCodec_SkipsUnknownFields(t *testing.T) {
	data := snapshot.Encode(snapshot.FromMap("ns", map[string][]byte{"k": []byte("v")}))
	data = protowire.AppendTag(data, 99, protowire.VarintType)
	data = protowire.AppendVarint(data, 7)

	got, err := snapshot.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Len() != 1 || string(got.Entries[0].Value) != "v" {
		t.Errorf("Decode() = %+v, want one entry k=v", got)
	}
}

func TestCodec_Rejects(t *testing.T) {
	futureVersion := protowire.AppendTag(nil, 1, protowire.VarintType)
	futureVersion = protowire.AppendVarint(futureVersion, snapshot.FormatVersion+1)

	noVersion := protowire.AppendTag(nil, 2, protowire.BytesType)
	noVersion = protowire.AppendString(noVersion, "ns")

	truncated := snapshot.Encode(snapshot.FromMap("ns", map[string][]byte{"key": []byte("value")}))
	truncated = truncated[:len(truncated)-2]

	tests := []struct {
		name string
		data []byte
	}{
		{name: "future version", data: futureVersion},
		{name: "missing version", data: noVersion},
		{name: "truncated entry", data: truncated},
		{name: "garbage", data: []byte{0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := snapshot.Decode(tt.data); !errors.Is(err, snapshot.ErrCorrupt) {
				t.Errorf("Decode() error = %v, want %v", err, snapshot.ErrCorrupt)
			}
		})
	}
}

func TestFromMap_SortedCopies(t *testing.T) {
	value := []byte("original")
	snap := snapshot.FromMap("ns", map[string][]byte{"z": value, "a": []byte("x"), "m": []byte("y")})

	keys := make([]string, 0, snap.Len())
	for _, e := range snap.Entries {
		keys = append(keys, e.Key)
	}
	if diff := cmp.Diff([]string{"a", "m", "z"}, keys); diff != "" {
		t.Errorf("entry order mismatch (-want +got):\n%s", diff)
	}

	value[0] = 'X'
	if got := string(snap.Map()["z"]); got != "original" {
		t.Errorf("FromMap() kept a live reference, got %q", got)
	}
}
