// Package source defines how the text stage obtains raw article text.
package source

import (
	"context"
	"errors"
)

// ErrNoContent is wrapped when a search term resolves to no article text.
var ErrNoContent = errors.New("no content for search term")

// Fetcher retrieves the raw article text for a search term.
// Implementations must be thread-safe for concurrent use.
type Fetcher interface {
	// Fetch returns the raw text of the article selected by searchTerm.
	// Failures, including an empty result, are reported as *core.RetrievalError.
	Fetch(ctx context.Context, searchTerm string) (string, error)
}
