// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.KeywordAnalyzer and
// ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	keywords, err := mockProvider.KeywordAnalyzer().AnalyzeKeywords(ctx, "Cats purr.")
//
//	// Custom behavior injection
//	analyzer := mock.NewMockKeywordAnalyzer()
//	analyzer.AnalyzeKeywordsFunc = func(ctx context.Context, text string) ([]ai.Keyword, error) {
//	    return nil, errors.New("service unavailable")
//	}
//
//	// Check call counts
//	count := analyzer.CallCount()
//
// # Default Behavior
//
//   - MockKeywordAnalyzer: returns the lowercased words of the text, in order, up to five
//   - MockProvider: wraps a MockKeywordAnalyzer
package mock
