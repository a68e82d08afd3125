package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists the store as a single JSON object.
type FileStore struct {
	*cache
	path string
}

// OpenFile loads the JSON store at path. A missing file yields an empty
// store; the file and its directory are created on the first Save.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: empty path")
	}

	values := make(map[string]string)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read store %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse store %s: %w", path, err)
		}
	}

	return &FileStore{cache: newCache(values), path: path}, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Save writes the whole store to a temporary file and renames it over the
// previous one so a failed write never leaves a truncated store behind.
func (f *FileStore) Save() error {
	pending := f.pending()
	snapshot := f.snapshot()

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}

	f.markClean(pending)
	return nil
}

// Close is a no-op; unsaved changes are discarded.
func (f *FileStore) Close() error { return nil }
