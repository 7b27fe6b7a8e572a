// Package mock provides a test double for source.Fetcher.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/source"
)

// MockFetcher serves article text from an in-memory map.
type MockFetcher struct {
	// Articles maps search terms to raw article text.
	Articles map[string]string

	// FetchFunc is called by Fetch if set, replacing the map lookup.
	FetchFunc func(ctx context.Context, searchTerm string) (string, error)

	mu    sync.Mutex
	calls int
}

var _ source.Fetcher = (*MockFetcher)(nil)

// NewMockFetcher creates a fetcher serving the given articles.
func NewMockFetcher(articles map[string]string) *MockFetcher {
	if articles == nil {
		articles = map[string]string{}
	}
	return &MockFetcher{Articles: articles}
}

// Fetch returns the article for searchTerm, or a RetrievalError wrapping
// source.ErrNoContent when there is none.
func (m *MockFetcher) Fetch(ctx context.Context, searchTerm string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, searchTerm)
	}

	text, ok := m.Articles[searchTerm]
	if !ok || text == "" {
		return "", &core.RetrievalError{SearchTerm: searchTerm, Err: source.ErrNoContent}
	}
	return text, nil
}

// CallCount returns the number of Fetch calls.
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
