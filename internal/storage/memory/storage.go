package memory

import (
	"context"
	"sync"

	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are cloned on the way in and out so callers never share state.
type Storage struct {
	mu  sync.RWMutex
	doc *model.Document
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return model.NewDocument(), nil
	}
	return s.doc.Clone(), nil
}

func (s *Storage) Save(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return nil
}

func (s *Storage) Update(ctx context.Context, fn storage.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := model.NewDocument()
	if s.doc != nil {
		working = s.doc.Clone()
	}
	if err := fn(working); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.doc = working
	return nil
}
