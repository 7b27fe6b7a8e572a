package badger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{
		backend: backend,
	}
}

// Close releases resources. DocumentRepository has no resources to release;
// the backend is closed by its owner.
func (r *DocumentRepository) Close() error {
	return nil
}

// PutDocuments stores documents under their IDs, replacing existing ones.
func (r *DocumentRepository) PutDocuments(ctx context.Context, docs ...*core.ContentDocument) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if err := putDocument(tx, doc.ID(), doc); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves a document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.ContentDocument, error) {
	var doc *core.ContentDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = readDocument(tx, makeDocumentKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// DeleteDocuments removes documents by ID.
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeDocumentKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ListDocuments returns every stored document ordered by search term.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]*core.ContentDocument, error) {
	var docs []*core.ContentDocument
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = documentScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc *core.ContentDocument
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("read %s: %w", iter.Item().Key(), err)
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(docs, func(a, b *core.ContentDocument) int {
		return cmp.Compare(a.SearchTerm, b.SearchTerm)
	})
	return docs, nil
}

// Slot returns a StateStore bound to the document with the given ID.
func (r *DocumentRepository) Slot(id core.ID) storage.StateStore {
	return &slot{repo: r, id: id}
}

// slot adapts one repository entry to storage.StateStore.
type slot struct {
	repo *DocumentRepository
	id   core.ID
}

func (s *slot) Load(ctx context.Context) (*core.ContentDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "load", Err: err}
	}
	doc, err := s.repo.GetDocument(ctx, s.id)
	if err != nil {
		return nil, &core.PersistenceError{Op: "load", Err: err}
	}
	return doc, nil
}

func (s *slot) Save(ctx context.Context, doc *core.ContentDocument) error {
	if err := ctx.Err(); err != nil {
		return &core.PersistenceError{Op: "save", Err: err}
	}
	err := s.repo.backend.WithTx(func(tx *badger.Txn) error {
		if err := putDocument(tx, s.id, doc); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return &core.PersistenceError{Op: "save", Err: err}
	}
	s.repo.backend.logger.Debug("saved document", "id", s.id, "sentences", len(doc.Sentences))
	return nil
}

func putDocument(tx *badger.Txn, id core.ID, doc *core.ContentDocument) error {
	value, err := storage.MarshalDocument(doc)
	if err != nil {
		return err
	}
	return tx.Set(makeDocumentKey(id), value)
}

// readDocument reads a document from a transaction.
// Returns nil, nil if the key doesn't exist.
func readDocument(tx *badger.Txn, key []byte) (*core.ContentDocument, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.ContentDocument
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
