// Package config loads storyline settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/poiesic/storyline/ai"
	"github.com/poiesic/storyline/source/wikipedia"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration.
// String values may reference environment variables as ${NAME}.
type File struct {
	Database  string    `yaml:"database"`
	Analyzer  Analyzer  `yaml:"analyzer"`
	Watson    Watson    `yaml:"watson"`
	Wikipedia Wikipedia `yaml:"wikipedia"`
	Batch     Batch     `yaml:"batch"`
}

// Analyzer selects and configures the keyword analysis backend.
type Analyzer struct {
	Backend     string        `yaml:"backend"`
	Host        string        `yaml:"host"`
	Model       string        `yaml:"model"`
	Token       string        `yaml:"token"`
	MaxKeywords int           `yaml:"max_keywords"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Watson holds Natural Language Understanding credentials.
type Watson struct {
	URL     string `yaml:"url"`
	APIKey  string `yaml:"api_key"`
	Version string `yaml:"version"`
}

// Wikipedia configures the article fetcher.
type Wikipedia struct {
	Host              string        `yaml:"host"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	MaxAttempts       int           `yaml:"max_attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	Timeout           time.Duration `yaml:"timeout"`
}

// Batch configures concurrent runs.
type Batch struct {
	PoolSize int `yaml:"pool_size"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	aiDefaults := ai.DefaultConfig()
	wikiDefaults := wikipedia.DefaultConfig()
	return &File{
		Database: "./storyline.db",
		Analyzer: Analyzer{
			Backend: aiDefaults.Backend,
			Host:    aiDefaults.ClassifierHost,
			Model:   aiDefaults.ClassifierModel,
			Timeout: aiDefaults.Timeout,
		},
		Watson: Watson{
			Version: aiDefaults.WatsonVersion,
		},
		Wikipedia: Wikipedia{
			Host:              wikiDefaults.Host,
			UserAgent:         wikiDefaults.UserAgent,
			RequestsPerSecond: wikiDefaults.RequestsPerSecond,
			Burst:             wikiDefaults.Burst,
			MaxAttempts:       wikiDefaults.MaxAttempts,
			RetryDelay:        wikiDefaults.RetryDelay,
			Timeout:           wikiDefaults.Timeout,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(expandEnv(data), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} references with the value of NAME.
// Any other '$' is left as written.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(envRef.FindSubmatch(ref)[1])))
	})
}

// AIConfig converts the analyzer settings to an ai.Config.
func (f *File) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithBackend(f.Analyzer.Backend),
		ai.WithClassifierHost(f.Analyzer.Host),
		ai.WithClassifierModel(f.Analyzer.Model),
		ai.WithClassifierToken(f.Analyzer.Token),
		ai.WithMaxKeywords(f.Analyzer.MaxKeywords),
		ai.WithTimeout(f.Analyzer.Timeout),
		ai.WithWatsonURL(f.Watson.URL),
		ai.WithWatsonAPIKey(f.Watson.APIKey),
		ai.WithWatsonVersion(f.Watson.Version),
	)
}

// WikipediaConfig converts the fetcher settings to a wikipedia.Config.
func (f *File) WikipediaConfig() wikipedia.Config {
	return wikipedia.Config{
		Host:              f.Wikipedia.Host,
		UserAgent:         f.Wikipedia.UserAgent,
		RequestsPerSecond: f.Wikipedia.RequestsPerSecond,
		Burst:             f.Wikipedia.Burst,
		MaxAttempts:       f.Wikipedia.MaxAttempts,
		RetryDelay:        f.Wikipedia.RetryDelay,
		Timeout:           f.Wikipedia.Timeout,
	}
}

// Validate checks the settings that cannot be defaulted.
func (f *File) Validate() error {
	if f.Database == "" {
		return fmt.Errorf("config: database path is required")
	}
	if f.Batch.PoolSize < 0 {
		return fmt.Errorf("config: batch pool_size cannot be negative")
	}
	return f.AIConfig().Validate()
}
