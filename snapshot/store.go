// Package snapshot defines durable storage for namespace snapshots.
//
// A Snapshot is the full contents of one namespace at a point in time. Stores
// are stateless translators between snapshots and external storage: they
// perform I/O on every call and never cache. Two implementations ship:
//
//   - NewFileStore: one file per namespace under a root directory
//   - NewBoltStore: one bbolt database holding every namespace
//
// Both persist snapshots in the wire format produced by Encode.
package snapshot

import "context"

// Store persists namespace snapshots. Implementations must be safe for
// concurrent use by several bucket actors.
type Store interface {
	// List returns the namespaces that have a stored snapshot, sorted.
	List(ctx context.Context) ([]string, error)
	// Load retrieves the snapshot for namespace, or ErrNotFound.
	Load(ctx context.Context, namespace string) (*Snapshot, error)
	// Save persists snap, replacing any previous snapshot of its namespace.
	Save(ctx context.Context, snap *Snapshot) error
	// Close releases resources held by the store.
	Close() error
}
