// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storyline wires the text stage together: a badger document store,
// a Wikipedia fetcher and a keyword analyzer, exposed as pipelines.
package storyline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/storyline/ai"
	"github.com/poiesic/storyline/ai/openai"
	"github.com/poiesic/storyline/ai/watson"
	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/pipeline"
	"github.com/poiesic/storyline/source"
	"github.com/poiesic/storyline/source/wikipedia"
	"github.com/poiesic/storyline/storage"
	"github.com/poiesic/storyline/storage/badger"
	"github.com/poiesic/storyline/text"
)

type Workspace struct {
	backend   *badger.Backend
	docs      *badger.DocumentRepository
	provider  ai.AIProvider
	fetcher   source.Fetcher
	segmenter *text.Segmenter
	logger    *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	aiConfig   *ai.Config
	wikiConfig wikipedia.Config
	provider   ai.AIProvider
	fetcher    source.Fetcher
	inMemory   bool
}

// WithAIConfig sets the keyword analyzer configuration.
func WithAIConfig(cfg *ai.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.aiConfig = cfg
	}
}

// WithWikipediaConfig sets the article fetcher configuration.
func WithWikipediaConfig(cfg wikipedia.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.wikiConfig = cfg
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The workspace takes ownership and closes it.
func WithProvider(provider ai.AIProvider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = provider
	}
}

// WithFetcher uses fetcher instead of the Wikipedia fetcher.
func WithFetcher(fetcher source.Fetcher) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.fetcher = fetcher
	}
}

// WithInMemory keeps documents in memory only. The path is ignored.
func WithInMemory() WorkspaceOption {
	return func(o *workspaceOptions) {
		o.inMemory = true
	}
}

// OpenWorkspace opens (or creates) the document store at filePath and builds
// the collaborators the pipelines need.
func OpenWorkspace(filePath string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{
		aiConfig:   ai.DefaultConfig(),
		wikiConfig: wikipedia.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	segmenter, err := text.NewSegmenter()
	if err != nil {
		return nil, err
	}

	fetcher := options.fetcher
	if fetcher == nil {
		fetcher, err = wikipedia.NewFetcher(options.wikiConfig)
		if err != nil {
			return nil, err
		}
	}

	provider := options.provider
	if provider == nil {
		provider, err = NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &Workspace{
		backend:   backend,
		docs:      badger.NewDocumentRepository(backend),
		provider:  provider,
		fetcher:   fetcher,
		segmenter: segmenter,
		logger:    slog.Default().With("component", "workspace"),
	}, nil
}

// NewProvider builds the keyword analysis provider selected by cfg.Backend.
func NewProvider(cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case ai.BackendWatson:
		return watson.NewProvider(cfg)
	case ai.BackendOpenAI:
		return openai.NewProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown analyzer backend %q", cfg.Backend)
	}
}

func (w *Workspace) Close() error {
	// Close AI provider first
	if err := w.provider.Close(); err != nil {
		w.logger.Error("error closing AI provider", "err", err)
	}

	if err := w.docs.Close(); err != nil {
		w.logger.Error("error closing document repository", "err", err)
		return err
	}

	// Close backend
	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (w *Workspace) Documents() storage.DocumentRepository {
	return w.docs
}

// AddDocument stores a new document for searchTerm, replacing any previous
// document with the same ID.
func (w *Workspace) AddDocument(ctx context.Context, searchTerm, prefix string, maximumSentences int) (*core.ContentDocument, error) {
	doc := core.NewContentDocument(searchTerm, prefix, maximumSentences)
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	if err := w.docs.PutDocuments(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// NewPipeline returns a pipeline over the stored document with the given ID.
func (w *Workspace) NewPipeline(id core.ID, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	opts = append([]pipeline.Option{pipeline.WithSegmenter(w.segmenter)}, opts...)
	return pipeline.NewPipeline(w.docs.Slot(id), w.fetcher, w.provider.KeywordAnalyzer(), opts...)
}

// Run runs the pipeline for the stored document of searchTerm.
func (w *Workspace) Run(ctx context.Context, searchTerm string, opts ...pipeline.Option) (*pipeline.Report, error) {
	p, err := w.NewPipeline(core.DocumentID(searchTerm), opts...)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

// NewBatch returns a batch runner whose pipelines use this workspace's
// stored documents. The caller must Release it.
func (w *Workspace) NewBatch(opts ...pipeline.BatchOption) (*pipeline.Batch, error) {
	factory := func(ctx context.Context, searchTerm string) (*pipeline.Pipeline, error) {
		return w.NewPipeline(core.DocumentID(searchTerm))
	}
	return pipeline.NewBatch(factory, opts...)
}
