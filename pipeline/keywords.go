package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/storyline/ai"
	"github.com/poiesic/storyline/core"
)

// keywordEnricher attaches keywords to sentences, one analyzer call at a time.
type keywordEnricher struct {
	analyzer ai.KeywordAnalyzer
	logger   *slog.Logger
}

func newKeywordEnricher(analyzer ai.KeywordAnalyzer, logger *slog.Logger) *keywordEnricher {
	return &keywordEnricher{
		analyzer: analyzer,
		logger:   logger.With("component", "keyword_enricher"),
	}
}

// enrich sets Keywords on each sentence in place and returns one diagnostic
// per failed sentence. A sentence's keywords are either the full result of
// its call or empty. If ctx ends, the remaining sentences keep empty keywords
// and a single ErrEnrichmentInterrupted diagnostic is added.
func (e *keywordEnricher) enrich(ctx context.Context, sentences []core.Sentence) []error {
	var diagnostics []error

	for i := range sentences {
		sentences[i].Keywords = []string{}
		if sentences[i].Images == nil {
			sentences[i].Images = []string{}
		}
	}

	for i := range sentences {
		if err := ctx.Err(); err != nil {
			diagnostics = append(diagnostics, e.interrupted(i, len(sentences), err))
			break
		}

		keywords, err := e.analyzer.AnalyzeKeywords(ctx, sentences[i].Text)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				diagnostics = append(diagnostics, e.interrupted(i, len(sentences), ctxErr))
				break
			}
			analysisErr := sentenceError(i, sentences[i].Text, err)
			e.logger.Warn("keyword analysis failed", "sentence", i, "err", err)
			diagnostics = append(diagnostics, analysisErr)
			continue
		}

		terms := ai.Terms(keywords)
		if terms == nil {
			terms = []string{}
		}
		sentences[i].Keywords = terms
		e.logger.Debug("enriched sentence", "sentence", i, "keywords", len(terms))
	}

	return diagnostics
}

func (e *keywordEnricher) interrupted(index, total int, cause error) error {
	e.logger.Warn("keyword enrichment interrupted", "sentence", index, "remaining", total-index, "err", cause)
	return fmt.Errorf("%w at sentence %d of %d: %w", ErrEnrichmentInterrupted, index, total, cause)
}

// sentenceError returns err as an AnalysisError positioned at index.
// Analyzer errors that already are AnalysisErrors keep their cause.
func sentenceError(index int, text string, err error) *core.AnalysisError {
	var analysisErr *core.AnalysisError
	if errors.As(err, &analysisErr) {
		return &core.AnalysisError{Index: index, Text: text, Err: analysisErr.Err}
	}
	return &core.AnalysisError{Index: index, Text: text, Err: err}
}
