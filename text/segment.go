package text

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"github.com/poiesic/storyline/core"
)

// tokenizer is the part of a Punkt tokenizer the segmenter relies on.
type tokenizer interface {
	Tokenize(text string) []*sentences.Sentence
}

// Segmenter splits sanitized text into sentence records.
// A Segmenter holds no per-call state and is safe for concurrent use.
type Segmenter struct {
	tokenizer tokenizer
}

// NewSegmenter creates a Segmenter backed by the English Punkt model.
func NewSegmenter() (*Segmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &Segmenter{tokenizer: tok}, nil
}

// Segment returns one sentence per detected boundary, in text order.
// Keywords and images start empty. Empty input yields an empty slice.
func (s *Segmenter) Segment(sanitized string) []core.Sentence {
	result := []core.Sentence{}
	if strings.TrimSpace(sanitized) == "" {
		return result
	}

	for _, detected := range s.tokenizer.Tokenize(sanitized) {
		text := strings.TrimSpace(detected.Text)
		if text == "" {
			continue
		}
		result = append(result, core.NewSentence(text))
	}

	return result
}
