package badger

import (
	"context"
	"testing"

	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *DocumentRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func sampleDocument(term string) *core.ContentDocument {
	doc := core.NewContentDocument(term, "", 2)
	doc.SourceContentOriginal = "Cats purr (loudly). Dogs bark."
	doc.SourceContentSanitized = "Cats purr. Dogs bark."
	doc.Sentences = []core.Sentence{
		{Text: "Cats purr.", Keywords: []string{"cats"}, Images: []string{}},
		{Text: "Dogs bark.", Keywords: []string{}, Images: []string{}},
	}
	return doc
}

func TestPutGetDocument(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	doc := sampleDocument("Cat")
	require.NoError(t, repo.PutDocuments(ctx, doc))

	got, err := repo.GetDocument(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestGetDocument_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetDocument(context.Background(), core.DocumentID("missing"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPutDocuments_Replaces(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	doc := sampleDocument("Cat")
	require.NoError(t, repo.PutDocuments(ctx, doc))

	updated := core.NewContentDocument("cat", "", 5)
	require.NoError(t, repo.PutDocuments(ctx, updated))

	got, err := repo.GetDocument(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, 5, got.MaximumSentences)
	assert.Empty(t, got.Sentences)
}

func TestDeleteDocuments(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	doc := sampleDocument("Cat")
	require.NoError(t, repo.PutDocuments(ctx, doc))
	require.NoError(t, repo.DeleteDocuments(ctx, doc.ID()))

	_, err := repo.GetDocument(ctx, doc.ID())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repo.DeleteDocuments(ctx, doc.ID())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListDocuments(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutDocuments(ctx, sampleDocument("Zebra"), sampleDocument("Aardvark"), sampleDocument("Moose")))

	docs, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "Aardvark", docs[0].SearchTerm)
	assert.Equal(t, "Moose", docs[1].SearchTerm)
	assert.Equal(t, "Zebra", docs[2].SearchTerm)
}

func TestListDocuments_Empty(t *testing.T) {
	repo := newTestRepository(t)

	docs, err := repo.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSlot_RoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	doc := sampleDocument("Cat")
	store := repo.Slot(doc.ID())

	require.NoError(t, store.Save(ctx, doc))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestSlot_LoadMissing(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Slot(core.DocumentID("missing")).Load(context.Background())
	require.Error(t, err)

	var persistErr *core.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "load", persistErr.Op)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, err, core.ErrPersistence)
}

func TestSlot_SaveAfterClose(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	err = repo.Slot(core.DocumentID("Cat")).Save(context.Background(), sampleDocument("Cat"))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, err, core.ErrPersistence)
}

func TestSlot_CanceledContext(t *testing.T) {
	repo := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Slot(core.DocumentID("Cat")).Save(ctx, sampleDocument("Cat"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.GetDocument(context.Background(), core.DocumentID("Cat"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
