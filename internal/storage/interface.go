package storage

import (
	"context"

	"github.com/mcoot/partyscore/internal/model"
)

// UpdateFunc mutates a working copy of the document. Returning an error
// discards the copy; nothing is saved.
type UpdateFunc func(doc *model.Document) error

// Storage defines the interface for document persistence.
//
// Load returns the default document when nothing has been stored yet.
// Update is the only safe way to mutate: implementations serialize the
// load-modify-save cycle so concurrent writers cannot lose each other's
// changes.
type Storage interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
	Update(ctx context.Context, fn UpdateFunc) error
}
