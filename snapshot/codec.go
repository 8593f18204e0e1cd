package snapshot

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// FormatVersion is the snapshot wire format written by Encode.
const FormatVersion = 1

// Wire layout, in protobuf encoding:
//
//	message Snapshot {
//	  uint64 version   = 1;
//	  string namespace = 2;
//	  repeated Entry entries = 3;
//	}
//	message Entry {
//	  string key   = 1;
//	  bytes  value = 2;
//	}
const (
	fieldVersion   protowire.Number = 1
	fieldNamespace protowire.Number = 2
	fieldEntry     protowire.Number = 3

	fieldEntryKey   protowire.Number = 1
	fieldEntryValue protowire.Number = 2
)

// Encode serializes snap in the versioned wire format.
func Encode(snap *Snapshot) []byte {
	b := protowire.AppendTag(nil, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, FormatVersion)
	b = protowire.AppendTag(b, fieldNamespace, protowire.BytesType)
	b = protowire.AppendString(b, snap.Namespace)

	var entry []byte
	for _, e := range snap.Entries {
		entry = entry[:0]
		entry = protowire.AppendTag(entry, fieldEntryKey, protowire.BytesType)
		entry = protowire.AppendString(entry, e.Key)
		entry = protowire.AppendTag(entry, fieldEntryValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, e.Value)

		b = protowire.AppendTag(b, fieldEntry, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b
}

// Decode parses data produced by Encode. Unknown fields are skipped.
func Decode(data []byte) (*Snapshot, error) {
	snap := &Snapshot{}
	var version uint64
	versioned := false

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, corrupt(protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, corrupt(protowire.ParseError(n))
			}
			version, versioned = v, true
			data = data[n:]
		case num == fieldNamespace && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, corrupt(protowire.ParseError(n))
			}
			snap.Namespace = v
			data = data[n:]
		case num == fieldEntry && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, corrupt(protowire.ParseError(n))
			}
			e, err := decodeEntry(v)
			if err != nil {
				return nil, err
			}
			snap.Entries = append(snap.Entries, e)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, corrupt(protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	if !versioned {
		return nil, fmt.Errorf("%w: missing version", ErrCorrupt)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, version)
	}
	return snap, nil
}

func decodeEntry(data []byte) (Entry, error) {
	e := Entry{Value: []byte{}}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Entry{}, corrupt(protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldEntryKey && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return Entry{}, corrupt(protowire.ParseError(n))
			}
			e.Key = v
			data = data[n:]
		case num == fieldEntryValue && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Entry{}, corrupt(protowire.ParseError(n))
			}
			e.Value = clone(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Entry{}, corrupt(protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return e, nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", ErrCorrupt, err)
}
