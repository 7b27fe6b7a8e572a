package ai

import "context"

// KeywordAnalyzer extracts keyword terms from a span of text.
// Implementations must be thread-safe for concurrent use.
type KeywordAnalyzer interface {
	// AnalyzeKeywords requests keyword analysis of text and returns the
	// keywords in the order the service reported them.
	// An empty slice is a valid result meaning no keywords were found.
	// Returns an error (normally a *core.AnalysisError) if the call fails
	// or the response cannot be understood.
	AnalyzeKeywords(ctx context.Context, text string) ([]Keyword, error)
}

// Keyword is one keyword entry returned by an analysis service.
type Keyword struct {
	// Text is the keyword term as reported by the service.
	// Example: "eiffel tower", "paris"
	Text string

	// Relevance is the service's relevance score in [0, 1], or 0 when the
	// service does not report one. It is informational only.
	Relevance float64
}

// Terms returns the Text of each keyword, preserving order.
func Terms(keywords []Keyword) []string {
	terms := make([]string, len(keywords))
	for i, k := range keywords {
		terms[i] = k.Text
	}
	return terms
}

// AIProvider owns a configured keyword analyzer and its resources.
type AIProvider interface {
	// KeywordAnalyzer returns the keyword analysis service.
	// The returned KeywordAnalyzer is safe for concurrent use.
	KeywordAnalyzer() KeywordAnalyzer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
