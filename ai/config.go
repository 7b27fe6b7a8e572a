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


package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported keyword analysis backends.
const (
	BackendOpenAI = "openai"
	BackendWatson = "watson"
)

// Config holds configuration for keyword analysis providers.
type Config struct {
	// Backend selects the analysis service: BackendOpenAI or BackendWatson.
	Backend string

	// ClassifierHost is the base URL for the OpenAI-compatible chat API.
	// Example: "http://localhost:11434/v1" for a local server
	ClassifierHost string

	// ClassifierModel is the chat model used for keyword extraction.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ClassifierModel string

	// ClassifierToken is the bearer token for the chat API.
	// Local servers accept any value; "none" is used when empty.
	ClassifierToken string

	// WatsonURL is the service URL of a Natural Language Understanding instance.
	// Example: "https://api.us-south.natural-language-understanding.watson.cloud.ibm.com/instances/<id>"
	WatsonURL string

	// WatsonAPIKey is the IAM API key of the NLU instance.
	WatsonAPIKey string

	// WatsonVersion is the API version date sent with every request.
	// Default: "2021-08-01"
	WatsonVersion string

	// MaxKeywords caps how many keywords the service is asked to return.
	// Zero lets the service decide.
	MaxKeywords int

	// Timeout bounds a single analysis request.
	// Default: 30s
	Timeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend selects the analysis backend.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithClassifierHost sets the chat API host URL.
func WithClassifierHost(host string) ConfigOption {
	return func(c *Config) {
		c.ClassifierHost = host
	}
}

// WithClassifierModel sets the chat model identifier.
func WithClassifierModel(model string) ConfigOption {
	return func(c *Config) {
		c.ClassifierModel = model
	}
}

// WithClassifierToken sets the chat API token.
func WithClassifierToken(token string) ConfigOption {
	return func(c *Config) {
		c.ClassifierToken = token
	}
}

// WithWatsonURL sets the Natural Language Understanding service URL.
func WithWatsonURL(url string) ConfigOption {
	return func(c *Config) {
		c.WatsonURL = url
	}
}

// WithWatsonAPIKey sets the Natural Language Understanding API key.
func WithWatsonAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.WatsonAPIKey = key
	}
}

// WithWatsonVersion sets the Natural Language Understanding API version date.
func WithWatsonVersion(version string) ConfigOption {
	return func(c *Config) {
		c.WatsonVersion = version
	}
}

// WithMaxKeywords sets the per-request keyword cap.
func WithMaxKeywords(max int) ConfigOption {
	return func(c *Config) {
		c.MaxKeywords = max
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Backend:         BackendOpenAI,
		ClassifierHost:  "http://localhost:11434/v1",
		ClassifierModel: "qwen2.5:3b",
		WatsonVersion:   "2021-08-01",
		Timeout:         30 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBackend(BackendWatson),
//	    WithWatsonURL(url),
//	    WithWatsonAPIKey(key),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the classifier host, which OpenAI-compatible
// servers (Ollama, LocalAI, vLLM) expect, and trims a trailing slash from
// the Watson URL.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.ClassifierHost != "" && !strings.HasSuffix(c.ClassifierHost, "/v1") {
		c.ClassifierHost = strings.TrimSuffix(c.ClassifierHost, "/")
		c.ClassifierHost = c.ClassifierHost + "/v1"
	}
	c.WatsonURL = strings.TrimSuffix(c.WatsonURL, "/")
}

// Validate checks that the configuration is valid and complete for the
// selected backend. It normalizes the configuration first.
func (c *Config) Validate() error {
	c.Normalize()

	if c.MaxKeywords < 0 {
		return errors.New("ai config: MaxKeywords cannot be negative")
	}
	if c.Timeout < 0 {
		return errors.New("ai config: Timeout cannot be negative")
	}

	switch c.Backend {
	case BackendOpenAI:
		if c.ClassifierHost == "" {
			return errors.New("ai config: ClassifierHost is required")
		}
		if c.ClassifierModel == "" {
			return errors.New("ai config: ClassifierModel is required")
		}
	case BackendWatson:
		if c.WatsonURL == "" {
			return errors.New("ai config: WatsonURL is required")
		}
		if c.WatsonAPIKey == "" {
			return errors.New("ai config: WatsonAPIKey is required")
		}
		if c.WatsonVersion == "" {
			return errors.New("ai config: WatsonVersion is required")
		}
	default:
		return fmt.Errorf("ai config: unknown backend %q", c.Backend)
	}
	return nil
}
