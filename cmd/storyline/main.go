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


package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/storyline"
	"github.com/poiesic/storyline/config"
	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/pipeline"
	"github.com/poiesic/storyline/source/wikipedia"
	"github.com/poiesic/storyline/storage"
	"github.com/poiesic/storyline/storage/file"
	"github.com/urfave/cli/v2"
)

const defaultMaxSentences = 7

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	maxSentencesFlag := &cli.IntFlag{
		Name:    "max-sentences",
		Aliases: []string{"m"},
		Usage:   "Maximum number of sentences kept from the article",
		Value:   defaultMaxSentences,
	}
	prefixFlag := &cli.StringFlag{
		Name:  "prefix",
		Usage: "Narration prefix stored with the document",
	}

	return &cli.App{
		Name:  "storyline",
		Usage: "Turn a search term into keyword-annotated article sentences",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				EnvVars: []string{"STORYLINE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Keyword analysis backend: openai or watson (overrides config)",
			},
			&cli.StringFlag{
				Name:  "classifier-host",
				Usage: "OpenAI-compatible service host URL (overrides config)",
			},
			&cli.StringFlag{
				Name:  "classifier-model",
				Usage: "Model used for keyword extraction (overrides config)",
			},
			&cli.StringFlag{
				Name:  "watson-url",
				Usage: "Natural Language Understanding instance URL (overrides config)",
			},
			&cli.StringFlag{
				Name:    "watson-api-key",
				Usage:   "Natural Language Understanding API key (overrides config)",
				EnvVars: []string{"WATSON_API_KEY"},
			},
			&cli.IntFlag{
				Name:  "max-keywords",
				Usage: "Maximum keywords requested per sentence, 0 for no limit (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Store a new document for a search term",
				ArgsUsage: "<search term>",
				Action:    initCommand,
				Flags:     []cli.Flag{maxSentencesFlag, prefixFlag},
			},
			{
				Name:      "run",
				Usage:     "Fetch, segment and enrich the stored document of a search term",
				ArgsUsage: "<search term>",
				Action:    runCommand,
			},
			{
				Name:      "show",
				Usage:     "Print the stored document of a search term as JSON",
				ArgsUsage: "<search term>",
				Action:    showCommand,
			},
			{
				Name:   "list",
				Usage:  "List stored documents",
				Action: listCommand,
			},
			{
				Name:      "batch",
				Usage:     "Create and enrich documents for many search terms concurrently",
				ArgsUsage: "<search term>...",
				Action:    batchCommand,
				Flags: []cli.Flag{
					maxSentencesFlag,
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of documents processed at once (overrides config)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 1,
					},
				},
			},
			{
				Name:   "process-file",
				Usage:  "Run the text stage on a JSON state file in place",
				Action: processFileCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "state",
						Aliases: []string{"s"},
						Usage:   "Path to the JSON state file",
						Value:   "content.json",
					},
				},
			},
		},
	}
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(c *cli.Context) (*config.File, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("db") {
		cfg.Database = c.String("db")
	}
	if c.IsSet("backend") {
		cfg.Analyzer.Backend = c.String("backend")
	}
	if c.IsSet("classifier-host") {
		cfg.Analyzer.Host = c.String("classifier-host")
	}
	if c.IsSet("classifier-model") {
		cfg.Analyzer.Model = c.String("classifier-model")
	}
	if c.IsSet("watson-url") {
		cfg.Watson.URL = c.String("watson-url")
	}
	if c.IsSet("watson-api-key") {
		cfg.Watson.APIKey = c.String("watson-api-key")
	}
	if c.IsSet("max-keywords") {
		cfg.Analyzer.MaxKeywords = c.Int("max-keywords")
	}
	if c.IsSet("pool-size") {
		cfg.Batch.PoolSize = c.Int("pool-size")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openWorkspace(c *cli.Context) (*storyline.Workspace, *config.File, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	ws, err := storyline.OpenWorkspace(cfg.Database,
		storyline.WithAIConfig(cfg.AIConfig()),
		storyline.WithWikipediaConfig(cfg.WikipediaConfig()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return ws, cfg, nil
}

func searchTermArg(c *cli.Context) (string, error) {
	term := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if term == "" {
		return "", fmt.Errorf("search term is required")
	}
	return term, nil
}

func initCommand(c *cli.Context) error {
	term, err := searchTermArg(c)
	if err != nil {
		return err
	}

	ws, _, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	doc, err := ws.AddDocument(c.Context, term, c.String("prefix"), c.Int("max-sentences"))
	if err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "%d\t%s\n", doc.ID(), doc.SearchTerm)
	return nil
}

func runCommand(c *cli.Context) error {
	term, err := searchTermArg(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	ws, _, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	report, err := ws.Run(ctx, term)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no document for %q, run 'storyline init' first: %w", term, err)
		}
		return fmt.Errorf("run failed: %w", err)
	}

	printReport(c, report)
	return nil
}

func showCommand(c *cli.Context) error {
	term, err := searchTermArg(c)
	if err != nil {
		return err
	}

	ws, _, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	doc, err := ws.Documents().GetDocument(c.Context, core.DocumentID(term))
	if err != nil {
		return fmt.Errorf("failed to read document %q: %w", term, err)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func listCommand(c *cli.Context) error {
	ws, _, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	docs, err := ws.Documents().ListDocuments(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	for _, doc := range docs {
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%d/%d sentences\n",
			doc.ID(), doc.SearchTerm, len(doc.Sentences), doc.MaximumSentences)
	}
	return nil
}

func batchCommand(c *cli.Context) error {
	terms := make([]string, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		if term := strings.TrimSpace(arg); term != "" {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return fmt.Errorf("at least one search term is required")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	ws, cfg, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	added := make(map[core.ID]bool, len(terms))
	for _, term := range terms {
		id := core.DocumentID(term)
		if added[id] {
			continue
		}
		added[id] = true
		if _, err := ws.AddDocument(ctx, term, "", c.Int("max-sentences")); err != nil {
			return fmt.Errorf("failed to store document %q: %w", term, err)
		}
	}

	opts := []pipeline.BatchOption{pipeline.WithProgress(c.App.ErrWriter, c.Int("report-interval"))}
	if cfg.Batch.PoolSize > 0 {
		opts = append(opts, pipeline.WithPoolSize(cfg.Batch.PoolSize))
	}
	batch, err := ws.NewBatch(opts...)
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	defer batch.Release()

	results := batch.Run(ctx, terms)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(c.App.Writer, "FAIL\t%s\t%v\n", r.SearchTerm, r.Err)
			continue
		}
		fmt.Fprintf(c.App.Writer, "OK\t%s\t%d sentences, %d keyword failures\n",
			r.SearchTerm, r.Report.Sentences, len(r.Report.Diagnostics))
	}

	if err := pipeline.Errors(results); err != nil {
		return fmt.Errorf("batch finished with failures: %w", err)
	}
	return nil
}

func processFileCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	provider, err := storyline.NewProvider(cfg.AIConfig())
	if err != nil {
		return fmt.Errorf("failed to create keyword analyzer: %w", err)
	}
	defer provider.Close()

	fetcher, err := wikipedia.NewFetcher(cfg.WikipediaConfig())
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}

	p, err := pipeline.NewPipeline(file.NewStore(c.String("state")), fetcher, provider.KeywordAnalyzer())
	if err != nil {
		return err
	}

	report, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printReport(c, report)
	return nil
}

func printReport(c *cli.Context, report *pipeline.Report) {
	fmt.Fprintf(c.App.Writer, "%s: %d sentences in %s\n",
		report.SearchTerm, report.Sentences, report.Duration.Round(time.Millisecond))
	for _, d := range report.Diagnostics {
		fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", d)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
