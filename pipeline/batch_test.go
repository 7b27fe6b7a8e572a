package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/storyline/ai"
	aimock "github.com/poiesic/storyline/ai/mock"
	"github.com/poiesic/storyline/core"
	sourcemock "github.com/poiesic/storyline/source/mock"
	"github.com/poiesic/storyline/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchFixture struct {
	stores   map[string]*memStore
	fetcher  *sourcemock.MockFetcher
	analyzer *aimock.MockKeywordAnalyzer
}

func newBatchFixture(t *testing.T, terms ...string) *batchFixture {
	t.Helper()
	f := &batchFixture{
		stores:   map[string]*memStore{},
		fetcher:  sourcemock.NewMockFetcher(nil),
		analyzer: aimock.NewMockKeywordAnalyzer(),
	}
	for _, term := range terms {
		f.stores[term] = newMemStore(t, core.NewContentDocument(term, "", 2))
		f.fetcher.Articles[term] = fmt.Sprintf("%s is a topic. It has facts.", term)
	}
	return f
}

func (f *batchFixture) factory(t *testing.T) Factory {
	segmenter, err := text.NewSegmenter()
	require.NoError(t, err)
	return func(ctx context.Context, searchTerm string) (*Pipeline, error) {
		store, ok := f.stores[searchTerm]
		if !ok {
			return nil, fmt.Errorf("no store for %q", searchTerm)
		}
		return NewPipeline(store, f.fetcher, f.analyzer, WithSegmenter(segmenter))
	}
}

func TestNewBatch_RequiresFactory(t *testing.T) {
	_, err := NewBatch(nil)
	assert.ErrorIs(t, err, ErrFactoryRequired)
}

func TestBatch_ResultsInInputOrder(t *testing.T) {
	terms := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
	f := newBatchFixture(t, terms...)

	// later terms finish first
	delays := map[string]time.Duration{
		"Alpha": 40 * time.Millisecond,
		"Beta":  30 * time.Millisecond,
		"Gamma": 20 * time.Millisecond,
		"Delta": 10 * time.Millisecond,
	}
	f.fetcher.FetchFunc = func(ctx context.Context, searchTerm string) (string, error) {
		time.Sleep(delays[searchTerm])
		return f.fetcher.Articles[searchTerm], nil
	}

	batch, err := NewBatch(f.factory(t), WithPoolSize(5))
	require.NoError(t, err)
	defer batch.Release()

	results := batch.Run(context.Background(), terms)
	require.Len(t, results, len(terms))
	for i, r := range results {
		assert.Equal(t, terms[i], r.SearchTerm)
		require.NoError(t, r.Err)
		assert.Equal(t, core.DocumentID(terms[i]), r.Report.DocumentID)
		assert.Equal(t, 2, r.Report.Sentences)
	}
	assert.NoError(t, Errors(results))
}

func TestBatch_FailuresAreIndependent(t *testing.T) {
	f := newBatchFixture(t, "Alpha", "Beta", "Gamma")
	delete(f.fetcher.Articles, "Beta")
	f.analyzer.AnalyzeKeywordsFunc = func(ctx context.Context, text string) ([]ai.Keyword, error) {
		if text == "Gamma is a topic." {
			return nil, errors.New("quota exceeded")
		}
		return []ai.Keyword{{Text: "kw"}}, nil
	}

	batch, err := NewBatch(f.factory(t), WithPoolSize(2))
	require.NoError(t, err)
	defer batch.Release()

	results := batch.Run(context.Background(), []string{"Alpha", "Beta", "Gamma", "Missing"})
	require.Len(t, results, 4)

	require.NoError(t, results[0].Err)
	assert.Empty(t, results[0].Report.Diagnostics)

	assert.ErrorIs(t, results[1].Err, core.ErrRetrieval)
	assert.Nil(t, results[1].Report)
	assert.Equal(t, 0, f.stores["Beta"].saves)

	require.NoError(t, results[2].Err)
	assert.Equal(t, []int{0}, results[2].Report.FailedSentences())
	assert.Equal(t, []string{"kw"}, f.stores["Gamma"].stored(t).Sentences[1].Keywords)

	assert.Error(t, results[3].Err)
	assert.Contains(t, results[3].Err.Error(), "no store")

	joined := Errors(results)
	assert.ErrorIs(t, joined, core.ErrRetrieval)
}

func TestBatch_SameDocumentRunsOnce(t *testing.T) {
	f := newBatchFixture(t, "Cat", "Dog")
	factory := f.factory(t)

	var built atomic.Int32
	counting := func(ctx context.Context, searchTerm string) (*Pipeline, error) {
		built.Add(1)
		return factory(ctx, searchTerm)
	}

	batch, err := NewBatch(counting, WithPoolSize(4))
	require.NoError(t, err)
	defer batch.Release()

	terms := []string{"Cat", "cat", "Dog", " CAT "}
	results := batch.Run(context.Background(), terms)
	require.Len(t, results, len(terms))

	assert.Equal(t, int32(2), built.Load())
	assert.Equal(t, 2, f.fetcher.CallCount())
	assert.Equal(t, 1, f.stores["Cat"].saves)

	for i, r := range results {
		assert.Equal(t, terms[i], r.SearchTerm)
		require.NoError(t, r.Err)
	}
	assert.Same(t, results[0].Report, results[1].Report)
	assert.Same(t, results[0].Report, results[3].Report)
	assert.NotSame(t, results[0].Report, results[2].Report)
}

func TestBatch_Progress(t *testing.T) {
	terms := []string{"Alpha", "Beta", "Gamma"}
	f := newBatchFixture(t, terms...)

	var buf bytes.Buffer
	batch, err := NewBatch(f.factory(t), WithPoolSize(1), WithProgress(&buf, 1))
	require.NoError(t, err)
	defer batch.Release()

	batch.Run(context.Background(), terms)

	output := buf.String()
	assert.Contains(t, output, "1/3")
	assert.Contains(t, output, "3/3")
	assert.Contains(t, output, "0 failed")
}

func TestBatch_Empty(t *testing.T) {
	f := newBatchFixture(t)
	batch, err := NewBatch(f.factory(t))
	require.NoError(t, err)
	defer batch.Release()

	results := batch.Run(context.Background(), nil)
	assert.Empty(t, results)
	assert.NoError(t, Errors(results))
}
