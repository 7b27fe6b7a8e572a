package watson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/poiesic/storyline/ai"
	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/retry"
)

const (
	analyzePath = "/v1/analyze"
	// Short sentences are too small for language detection; the stage is English only.
	analyzeLanguage = "en"

	defaultMaxAttempts = 3
	defaultRetryDelay  = 500 * time.Millisecond
)

var (
	// ErrUnexpectedStatus is wrapped when the service answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrMalformedResponse is wrapped when the response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed analyze response")
)

// Analyzer implements ai.KeywordAnalyzer against a Watson NLU instance.
type Analyzer struct {
	endpoint    string
	apiKey      string
	maxKeywords int
	maxAttempts int
	retryDelay  time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ ai.KeywordAnalyzer = (*Analyzer)(nil)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Analyzer) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithRetry sets the attempt count and base backoff delay for retryable failures.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(a *Analyzer) {
		if maxAttempts < 1 {
			maxAttempts = 1
		}
		a.maxAttempts = maxAttempts
		a.retryDelay = baseDelay
	}
}

type analyzeRequest struct {
	Text     string   `json:"text"`
	Language string   `json:"language"`
	Features features `json:"features"`
}

type features struct {
	Keywords keywordOptions `json:"keywords"`
}

type keywordOptions struct {
	Limit int `json:"limit,omitempty"`
}

type analyzeResponse struct {
	Keywords []struct {
		Text      string  `json:"text"`
		Relevance float64 `json:"relevance"`
	} `json:"keywords"`
}

type errorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func newAnalyzer(config *ai.Config, opts ...Option) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(config.WatsonURL + analyzePath)
	if err != nil {
		return nil, fmt.Errorf("watson: invalid service URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("version", config.WatsonVersion)
	endpoint.RawQuery = query.Encode()

	a := &Analyzer{
		endpoint:    endpoint.String(),
		apiKey:      config.WatsonAPIKey,
		maxKeywords: config.MaxKeywords,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		httpClient:  &http.Client{Timeout: config.Timeout},
		logger:      slog.Default().With("component", "watson-keywords"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// NewAnalyzer creates a Watson keyword analyzer.
//
// Returns ai.KeywordAnalyzer interface to enforce abstraction.
func NewAnalyzer(config *ai.Config, opts ...Option) (ai.KeywordAnalyzer, error) {
	return newAnalyzer(config, opts...)
}

// AnalyzeKeywords requests keyword analysis of text.
func (a *Analyzer) AnalyzeKeywords(ctx context.Context, text string) ([]ai.Keyword, error) {
	body, err := json.Marshal(analyzeRequest{
		Text:     text,
		Language: analyzeLanguage,
		Features: features{Keywords: keywordOptions{Limit: a.maxKeywords}},
	})
	if err != nil {
		return nil, &core.AnalysisError{Index: -1, Text: text, Err: err}
	}

	var payload analyzeResponse
	err = retry.WithBackoff(ctx, func() error {
		var sendErr error
		payload, sendErr = a.send(ctx, body)
		return sendErr
	}, a.maxAttempts, a.retryDelay)
	if err != nil {
		a.logger.Debug("keyword analysis failed", "err", err)
		return nil, &core.AnalysisError{Index: -1, Text: text, Err: err}
	}

	keywords := make([]ai.Keyword, 0, len(payload.Keywords))
	for _, k := range payload.Keywords {
		keywords = append(keywords, ai.Keyword{Text: k.Text, Relevance: k.Relevance})
	}
	return keywords, nil
}

// send performs one request. Errors that retrying cannot fix are marked permanent.
func (a *Analyzer) send(ctx context.Context, body []byte) (analyzeResponse, error) {
	var payload analyzeResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return payload, retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth("apikey", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return payload, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return payload, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, serviceMessage(data))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return payload, statusErr
		}
		return payload, retry.Permanent(statusErr)
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, retry.Permanent(fmt.Errorf("%w: %w", ErrMalformedResponse, err))
	}
	return payload, nil
}

// serviceMessage extracts the error text from a Watson error body.
func serviceMessage(data []byte) string {
	var e errorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return string(bytes.TrimSpace(data))
}
