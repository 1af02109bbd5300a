package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the portal mapping in a single JSON document.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the JSON document at path. The
// file need not exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the backing document.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document. A missing document is an empty mapping, not an
// error.
func (s *FileStore) Load(ctx context.Context) (Portals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Portals{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read portal config: %w", err)
	}

	portals := Portals{}
	if err := json.Unmarshal(data, &portals); err != nil {
		return nil, fmt.Errorf("failed to parse portal config %s: %w", s.path, err)
	}
	if portals == nil {
		// a literal null document
		return Portals{}, nil
	}

	return portals, nil
}

// Save replaces the document with portals. The new content is written to a
// temporary file next to the document and renamed over it.
func (s *FileStore) Save(ctx context.Context, portals Portals) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if portals == nil {
		portals = Portals{}
	}

	data, err := json.MarshalIndent(portals, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal portal config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write portal config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write portal config: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace portal config: %w", err)
	}

	return nil
}
