package badger

import (
	"fmt"

	"github.com/poiesic/storyline/core"
)

// Key prefixes for different data types
const (
	documentPrefix = "docrec"
)

// makeDocumentKey generates a key for a content document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// documentScanPrefix matches every document key.
func documentScanPrefix() []byte {
	return []byte(documentPrefix + ":")
}
