package messaging

import (
	"fmt"

	"github.com/google/uuid"
)

// Op identifies the operation a request asks for.
type Op string

const (
	OpCreate Op = "create"
	OpGet    Op = "get"
	OpPut    Op = "put"
	OpDelete Op = "delete"
	OpSave   Op = "save"
	OpLoad   Op = "load"
)

// Kind classifies the outcome carried by a Reply.
type Kind int

const (
	KindNone Kind = iota
	KindNotFound
	KindConflict
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindFailure:
		return "failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Err returns the sentinel error for k, or nil for KindNone.
func (k Kind) Err() error {
	switch k {
	case KindNone:
		return nil
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	default:
		return ErrFailure
	}
}

// Reply is the single result written to a request's reply destination.
// Value is a private copy owned by the receiver.
type Reply struct {
	Value []byte
	Kind  Kind
}

// Err reports the reply kind as an error.
func (r Reply) Err() error {
	return r.Kind.Err()
}

// Found reports whether the reply carries a value.
func (r Reply) Found() bool {
	return r.Value != nil
}

// Success builds a KindNone reply carrying value, which may be nil.
func Success(value []byte) Reply {
	return Reply{Value: value, Kind: KindNone}
}

// Failed builds a valueless reply of the given kind.
func Failed(kind Kind) Reply {
	return Reply{Kind: kind}
}

// ReplyTo is a single-use reply destination.
type ReplyTo chan Reply

// NewReplyTo allocates a reply destination with room for exactly one reply.
func NewReplyTo() ReplyTo {
	return make(ReplyTo, 1)
}

// Deliver writes r to dest without blocking. It reports false when the
// destination is nil or already holds a reply; the reply is dropped.
func Deliver(dest ReplyTo, r Reply) bool {
	if dest == nil {
		return false
	}
	select {
	case dest <- r:
		return true
	default:
		return false
	}
}

// NewID returns a time-sortable request identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
