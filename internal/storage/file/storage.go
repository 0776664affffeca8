package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/storage"
)

// DefaultPath is where the document lives when no path is configured
const DefaultPath = "data/game_state.json"

// Storage keeps the whole document in a single JSON file
type Storage struct {
	// mu serializes Update so this process is the only writer
	mu   sync.Mutex
	path string
}

// New creates a file storage backed by path
func New(path string) *Storage {
	if path == "" {
		path = DefaultPath
	}
	return &Storage{path: path}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Path returns the backing file path
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) Load(ctx context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Storage) Save(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *Storage) Update(ctx context.Context, fn storage.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *Storage) load() (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.NewDocument(), nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return storage.Decode(data)
}

// save writes to a sibling temp file and renames it over the target, so a
// reader never sees a half-written document
func (s *Storage) save(doc *model.Document) error {
	data, err := storage.Encode(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	return nil
}
