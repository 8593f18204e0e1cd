package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".snap"

type fileStore struct {
	root string
}

// NewFileStore creates a Store keeping one file per namespace under root.
// Namespace names are path-escaped so any name maps to a single file.
func NewFileStore(root string) Store {
	return &fileStore{root: root}
}

func (s *fileStore) path(namespace string) (string, error) {
	if namespace == "" {
		return "", ErrInvalidName
	}
	return filepath.Join(s.root, url.PathEscape(namespace)+fileExt), nil
}

func (s *fileStore) List(_ context.Context) ([]string, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	var names []string
	for _, d := range dirEntries {
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") || !strings.HasSuffix(d.Name(), fileExt) {
			continue
		}
		name, err := url.PathUnescape(strings.TrimSuffix(d.Name(), fileExt))
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *fileStore) Load(_ context.Context, namespace string) (*Snapshot, error) {
	path, err := s.path(namespace)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, namespace)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, namespace, err)
	}

	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", namespace, err)
	}
	return snap, nil
}

func (s *fileStore) Save(_ context.Context, snap *Snapshot) error {
	path, err := s.path(snap.Namespace)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, snap.Namespace, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, snap.Namespace, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(Encode(snap)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, snap.Namespace, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, snap.Namespace, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, snap.Namespace, err)
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}
