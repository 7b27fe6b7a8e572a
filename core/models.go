package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for a content document.
// It is derived from the document's search term.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentID returns the storage ID for the document built from searchTerm.
// Search terms differing only in case or surrounding whitespace share an ID.
func DocumentID(searchTerm string) ID {
	return IDFromContent(strings.ToLower(strings.TrimSpace(searchTerm)))
}

// ContentDocument carries a search term through retrieval, sanitization,
// segmentation and keyword enrichment to persistence.
// A single pipeline run owns it exclusively.
type ContentDocument struct {
	SearchTerm             string     `json:"searchTerm"`
	Prefix                 string     `json:"prefix,omitempty"` // set by the input stage, carried through untouched
	MaximumSentences       int        `json:"maximumSentences"`
	SourceContentOriginal  string     `json:"sourceContentOriginal,omitempty"`
	SourceContentSanitized string     `json:"sourceContentSanitized,omitempty"`
	Sentences              []Sentence `json:"sentences"`
}

// NewContentDocument creates a document ready to be saved for the text stage.
func NewContentDocument(searchTerm, prefix string, maximumSentences int) *ContentDocument {
	return &ContentDocument{
		SearchTerm:       searchTerm,
		Prefix:           prefix,
		MaximumSentences: maximumSentences,
		Sentences:        []Sentence{},
	}
}

// ID returns the document's storage ID.
func (d *ContentDocument) ID() ID {
	return DocumentID(d.SearchTerm)
}

// Sentence is one segmented unit of text plus its derived keywords.
type Sentence struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
	Images   []string `json:"images"` // reserved for the image stage
}

// NewSentence creates a sentence with empty keywords and images.
func NewSentence(text string) Sentence {
	return Sentence{
		Text:     text,
		Keywords: []string{},
		Images:   []string{},
	}
}
