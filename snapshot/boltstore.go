package snapshot

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var snapshotsBucket = []byte("snapshots")

type boltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at path and stores every
// namespace snapshot as one value keyed by namespace name.
func NewBoltStore(path string) (Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open snapshot database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot bucket: %w", err)
	}

	return &boltStore{db: db}, nil
}

func (s *boltStore) List(_ context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return names, nil
}

func (s *boltStore) Load(_ context.Context, namespace string) (*Snapshot, error) {
	if namespace == "" {
		return nil, ErrInvalidName
	}

	var snap *Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(snapshotsBucket).Get([]byte(namespace))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, namespace)
		}
		// Decode copies every value, so nothing escapes the transaction.
		decoded, err := Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", namespace, err)
		}
		snap = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *boltStore) Save(_ context.Context, snap *Snapshot) error {
	if snap.Namespace == "" {
		return ErrInvalidName
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put([]byte(snap.Namespace), Encode(snap))
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, snap.Namespace, err)
	}
	return nil
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
