package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const credentialsFile = "credentials.json"

// FileBackend stores all keys in one JSON document, replaced atomically
// on every write.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend creates dir (0700) if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, errors.New("credential directory is empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create credential directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Path returns the file holding the credentials.
func (f *FileBackend) Path() string {
	return filepath.Join(f.dir, credentialsFile)
}

func (f *FileBackend) Read(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDoc()
	if err != nil {
		return nil, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *FileBackend) Write(_ context.Context, values map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDoc()
	if err != nil {
		return err
	}
	for k, v := range values {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = string(v)
	}
	return f.writeDoc(doc)
}

func (f *FileBackend) readDoc() (map[string]string, error) {
	doc := make(map[string]string)
	b, err := os.ReadFile(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path(), err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path(), err)
	}
	return doc, nil
}

func (f *FileBackend) writeDoc(doc map[string]string) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, credentialsFile+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path()); err != nil {
		return fmt.Errorf("replace %s: %w", f.Path(), err)
	}
	return nil
}
