package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/storyline/ai"
)

// MockKeywordAnalyzer is a test double for ai.KeywordAnalyzer.
// It allows custom behavior injection via function fields.
type MockKeywordAnalyzer struct {
	// AnalyzeKeywordsFunc is called by AnalyzeKeywords if set.
	// If nil, uses default simple word extraction.
	AnalyzeKeywordsFunc func(ctx context.Context, text string) ([]ai.Keyword, error)

	mu    sync.Mutex
	calls []string
}

var _ ai.KeywordAnalyzer = (*MockKeywordAnalyzer)(nil)

// NewMockKeywordAnalyzer creates a mock analyzer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockKeywordAnalyzer() *MockKeywordAnalyzer {
	return &MockKeywordAnalyzer{}
}

// AnalyzeKeywords records the call and returns mock keywords.
// Default behavior: the first five words of text, lowercased and stripped of punctuation.
func (m *MockKeywordAnalyzer) AnalyzeKeywords(ctx context.Context, text string) ([]ai.Keyword, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.AnalyzeKeywordsFunc != nil {
		return m.AnalyzeKeywordsFunc(ctx, text)
	}

	words := strings.Fields(strings.ToLower(text))
	keywords := make([]ai.Keyword, 0, len(words))
	relevance := 1.0
	for _, word := range words {
		if len(keywords) >= 5 {
			break
		}

		word = strings.Trim(word, ".,!?;:\"'()[]{}—–-")
		if word == "" {
			continue
		}

		keywords = append(keywords, ai.Keyword{Text: word, Relevance: relevance})
		relevance -= 0.1
	}

	return keywords, nil
}

// CallCount returns the number of times AnalyzeKeywords was called.
func (m *MockKeywordAnalyzer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns the texts passed to AnalyzeKeywords, in call order.
func (m *MockKeywordAnalyzer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Reset clears recorded calls and the custom function.
func (m *MockKeywordAnalyzer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.AnalyzeKeywordsFunc = nil
}
