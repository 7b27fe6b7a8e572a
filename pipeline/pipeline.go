package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/storyline/ai"
	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/source"
	"github.com/poiesic/storyline/storage"
	"github.com/poiesic/storyline/text"
)

// Pipeline runs the text stage over the document held by one state store.
type Pipeline struct {
	store     storage.StateStore
	fetcher   source.Fetcher
	analyzer  ai.KeywordAnalyzer
	segmenter *text.Segmenter
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithSegmenter shares a Segmenter between pipelines.
// Default is a new English segmenter per pipeline.
func WithSegmenter(segmenter *text.Segmenter) Option {
	return func(p *Pipeline) error {
		p.segmenter = segmenter
		return nil
	}
}

// Report summarizes a completed run.
type Report struct {
	RunID      string
	DocumentID core.ID
	SearchTerm string
	// Sentences is the number of sentences saved.
	Sentences int
	// Diagnostics holds the non-fatal enrichment failures, in sentence order.
	Diagnostics []error
	Duration    time.Duration
}

// FailedSentences returns the indexes of sentences whose keyword analysis failed.
func (r *Report) FailedSentences() []int {
	var failed []int
	for _, d := range r.Diagnostics {
		var analysisErr *core.AnalysisError
		if errors.As(d, &analysisErr) {
			failed = append(failed, analysisErr.Index)
		}
	}
	return failed
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(
	store storage.StateStore,
	fetcher source.Fetcher,
	analyzer ai.KeywordAnalyzer,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStateStoreRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	p := &Pipeline{
		store:    store,
		fetcher:  fetcher,
		analyzer: analyzer,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if p.segmenter == nil {
		segmenter, err := text.NewSegmenter()
		if err != nil {
			return nil, err
		}
		p.segmenter = segmenter
	}

	return p, nil
}

// Run loads the document, rebuilds its content and sentences from the
// source article, enriches every sentence with keywords and saves it.
//
// Load and save failures are returned as *core.PersistenceError and fetch
// failures as *core.RetrievalError; in those cases nothing is saved.
// Keyword failures never fail the run and are listed in the report.
// If ctx ends during enrichment the partially enriched document is still saved.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With("component", "pipeline", "run_id", runID)

	doc, err := p.store.Load(ctx)
	if err != nil {
		return nil, persistenceError("load", err)
	}
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	logger = logger.With("term", doc.SearchTerm)

	raw, err := p.fetcher.Fetch(ctx, doc.SearchTerm)
	if err != nil {
		logger.Error("source fetch failed", "err", err)
		return nil, retrievalError(doc.SearchTerm, err)
	}

	doc.SourceContentOriginal = raw
	doc.SourceContentSanitized = text.Sanitize(raw)
	segmented := p.segmenter.Segment(doc.SourceContentSanitized)
	doc.Sentences = text.Limit(segmented, doc.MaximumSentences)
	logger.Debug("segmented source", "detected", len(segmented), "kept", len(doc.Sentences))

	enricher := newKeywordEnricher(p.analyzer, logger)
	diagnostics := enricher.enrich(ctx, doc.Sentences)

	if err := p.store.Save(context.WithoutCancel(ctx), doc); err != nil {
		logger.Error("saving document failed", "err", err)
		return nil, persistenceError("save", err)
	}

	report := &Report{
		RunID:       runID,
		DocumentID:  doc.ID(),
		SearchTerm:  doc.SearchTerm,
		Sentences:   len(doc.Sentences),
		Diagnostics: diagnostics,
		Duration:    time.Since(start),
	}
	logger.Info("document enriched",
		"sentences", report.Sentences,
		"failed", len(diagnostics),
		"duration", report.Duration)

	return report, nil
}

// retrievalError passes typed fetch errors through and wraps the rest.
func retrievalError(term string, err error) error {
	var retrievalErr *core.RetrievalError
	if errors.As(err, &retrievalErr) {
		return err
	}
	return &core.RetrievalError{SearchTerm: term, Err: err}
}

// persistenceError passes typed store errors through and wraps the rest.
func persistenceError(op string, err error) error {
	var persistErr *core.PersistenceError
	if errors.As(err, &persistErr) {
		return err
	}
	return &core.PersistenceError{Op: op, Err: err}
}
