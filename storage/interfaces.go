package storage

import (
	"context"

	"github.com/poiesic/storyline/core"
)

// StateStore loads and saves the document owned by one pipeline run.
// Failures are reported as *core.PersistenceError.
type StateStore interface {
	// Load returns the current document.
	// A document that was never saved yields an error wrapping ErrNotFound.
	Load(ctx context.Context) (*core.ContentDocument, error)

	// Save replaces the stored document with doc.
	Save(ctx context.Context, doc *core.ContentDocument) error
}

// DocumentRepository stores many documents keyed by core.DocumentID.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// PutDocuments stores documents under their IDs, replacing existing ones.
	PutDocuments(ctx context.Context, docs ...*core.ContentDocument) error

	// GetDocument retrieves a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.ContentDocument, error)

	// DeleteDocuments removes documents by ID.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteDocuments(ctx context.Context, ids ...core.ID) error

	// ListDocuments returns every stored document ordered by search term.
	ListDocuments(ctx context.Context) ([]*core.ContentDocument, error)

	// Slot returns a StateStore bound to the document with the given ID.
	Slot(id core.ID) StateStore

	// Close releases resources held by the repository.
	Close() error
}
