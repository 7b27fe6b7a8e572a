package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/storyline/core"
)

// Factory builds the pipeline for one search term.
type Factory func(ctx context.Context, searchTerm string) (*Pipeline, error)

// Result is the outcome of one batch entry.
// Exactly one of Report and Err is set.
type Result struct {
	SearchTerm string
	Report     *Report
	Err        error
}

// Batch runs independent pipelines concurrently on a worker pool.
type Batch struct {
	factory          Factory
	pool             *ants.Pool
	progressWriter   io.Writer
	progressInterval int
	logger           *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch) error

// WithPoolSize sets the number of pipelines run at once.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BatchOption {
	return func(b *Batch) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if b.pool != nil {
			b.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithProgress writes progress to w every interval finished documents.
func WithProgress(w io.Writer, interval int) BatchOption {
	return func(b *Batch) error {
		if interval < 1 {
			interval = 1
		}
		b.progressWriter = w
		b.progressInterval = interval
		return nil
	}
}

// WithBatchLogger sets a custom logger.
// Default is slog.Default().
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBatch creates a batch runner. Call Release when done.
func NewBatch(factory Factory, opts ...BatchOption) (*Batch, error) {
	if factory == nil {
		return nil, ErrFactoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Batch{
		factory: factory,
		pool:    pool,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Run builds and runs one pipeline per document and waits for all of them.
// Results are in the order of searchTerms. A failed entry never affects the others.
// Terms that map to the same document ID run once; later spellings share the
// result of the first one, so no document has two concurrent writers.
func (b *Batch) Run(ctx context.Context, searchTerms []string) []Result {
	logger := b.logger.With("component", "batch")
	results := make([]Result, len(searchTerms))

	first := make(map[core.ID]int, len(searchTerms))
	duplicates := make(map[int]int)
	unique := make([]int, 0, len(searchTerms))
	for i, term := range searchTerms {
		id := core.DocumentID(term)
		if j, ok := first[id]; ok {
			duplicates[i] = j
			logger.Debug("duplicate search term", "term", term, "same_as", searchTerms[j])
			continue
		}
		first[id] = i
		unique = append(unique, i)
	}

	var tracker *ProgressTracker
	if b.progressWriter != nil {
		tracker = NewProgressTracker(b.progressWriter, len(unique), b.progressInterval)
		tracker.Start()
	}

	var wg sync.WaitGroup
	for _, i := range unique {
		term := searchTerms[i]
		wg.Add(1)
		err := b.pool.Submit(func() {
			defer wg.Done()
			results[i] = b.runOne(ctx, term)
			if tracker != nil {
				tracker.Done(results[i].Err != nil)
			}
		})
		if err != nil {
			wg.Done()
			results[i] = Result{SearchTerm: term, Err: fmt.Errorf("submit %q: %w", term, err)}
			if tracker != nil {
				tracker.Done(true)
			}
		}
	}
	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}

	for i, j := range duplicates {
		results[i] = results[j]
		results[i].SearchTerm = searchTerms[i]
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("batch finished", "documents", len(unique), "failed", failed)

	return results
}

func (b *Batch) runOne(ctx context.Context, term string) Result {
	p, err := b.factory(ctx, term)
	if err != nil {
		b.logger.Error("building pipeline failed", "term", term, "err", err)
		return Result{SearchTerm: term, Err: err}
	}

	report, err := p.Run(ctx)
	if err != nil {
		return Result{SearchTerm: term, Err: err}
	}
	return Result{SearchTerm: term, Report: report}
}

// Release releases the worker pool.
// The batch should not be used after calling Release.
func (b *Batch) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// Errors joins the errors of failed results, or returns nil if all succeeded.
func Errors(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}
