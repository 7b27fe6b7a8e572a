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


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/storyline/ai"
	"github.com/poiesic/storyline/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxParseAttempts = 3

// ErrMalformedResponse is wrapped when the model never produced parseable JSON.
var ErrMalformedResponse = errors.New("malformed keyword response")

// KeywordAnalyzer implements ai.KeywordAnalyzer using OpenAI-compatible chat APIs.
type KeywordAnalyzer struct {
	client      llms.Model
	maxKeywords int
	timeout     time.Duration
	logger      *slog.Logger
}

var _ ai.KeywordAnalyzer = (*KeywordAnalyzer)(nil)

// keyword is an internal type used for JSON unmarshaling.
// It matches the structure requested in the prompt.
type keyword struct {
	Text      string  `json:"text"`
	Relevance float64 `json:"relevance"`
}

// analysis is the wrapper structure for the model's JSON response.
type analysis struct {
	Keywords []keyword `json:"keywords"`
}

// newKeywordAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newKeywordAnalyzer(config *ai.Config) (*KeywordAnalyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.ClassifierToken
	if token == "" {
		// Local OpenAI-compatible servers ignore the token but the client requires one
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken(token),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return newKeywordAnalyzerWithModel(client, config), nil
}

// newKeywordAnalyzerWithModel wraps an existing model. Tests use it to
// substitute a fake llms.Model.
func newKeywordAnalyzerWithModel(client llms.Model, config *ai.Config) *KeywordAnalyzer {
	return &KeywordAnalyzer{
		client:      client,
		maxKeywords: config.MaxKeywords,
		timeout:     config.Timeout,
		logger:      slog.Default().With("component", "openai-keywords"),
	}
}

// NewKeywordAnalyzer creates a new keyword analyzer using the provided configuration.
//
// Returns ai.KeywordAnalyzer interface to enforce abstraction.
func NewKeywordAnalyzer(config *ai.Config) (ai.KeywordAnalyzer, error) {
	return newKeywordAnalyzer(config)
}

// AnalyzeKeywords asks the model for the keywords of text.
// Keywords are returned in the order the model listed them.
func (a *KeywordAnalyzer) AnalyzeKeywords(ctx context.Context, text string) ([]ai.Keyword, error) {
	text = normalizeWhitespace(text)
	if text == "" {
		return []ai.Keyword{}, nil
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt(a.maxKeywords)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Retry only on malformed JSON; transport errors fail immediately
	var result analysis
	var lastErr error
	for attempt := 0; attempt < maxParseAttempts; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, &core.AnalysisError{Index: -1, Text: text, Err: err}
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model")
			return []ai.Keyword{}, nil
		}

		responseText := stripCodeFence(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		result = analysis{}
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			a.logger.Warn("error parsing keyword response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		a.logger.Error("failed to parse keyword response after retries", "err", lastErr)
		return nil, &core.AnalysisError{Index: -1, Text: text, Err: errors.Join(ErrMalformedResponse, lastErr)}
	}

	keywords := make([]ai.Keyword, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		term := strings.TrimSpace(k.Text)
		if term == "" {
			continue
		}
		keywords = append(keywords, ai.Keyword{Text: term, Relevance: k.Relevance})
	}

	if a.maxKeywords > 0 && len(keywords) > a.maxKeywords {
		keywords = keywords[:a.maxKeywords]
	}

	a.logger.Debug("extracted keywords", "total", len(result.Keywords), "kept", len(keywords))
	return keywords, nil
}

// stripCodeFence removes a markdown code fence around a JSON payload.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
