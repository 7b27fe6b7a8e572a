// Package wikipedia fetches plain-text article extracts from a MediaWiki API.
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/storyline/core"
	"github.com/poiesic/storyline/retry"
	"github.com/poiesic/storyline/source"
	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus is wrapped when the API answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Config holds Fetcher settings.
type Config struct {
	// Host is the wiki's base URL. Default: "https://en.wikipedia.org"
	Host string
	// UserAgent identifies the client, as Wikimedia's API policy requires.
	UserAgent string
	// RequestsPerSecond and Burst shape the token bucket shared by all calls.
	RequestsPerSecond float64
	Burst             int
	// MaxAttempts and RetryDelay control retries of throttled or failed requests.
	MaxAttempts int
	RetryDelay  time.Duration
	// Timeout bounds a single HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns conservative settings for the public English Wikipedia.
func DefaultConfig() Config {
	return Config{
		Host:              "https://en.wikipedia.org",
		UserAgent:         "storyline/1.0 (https://github.com/poiesic/storyline)",
		RequestsPerSecond: 5,
		Burst:             5,
		MaxAttempts:       3,
		RetryDelay:        time.Second,
		Timeout:           30 * time.Second,
	}
}

// Fetcher implements source.Fetcher with the MediaWiki TextExtracts API.
type Fetcher struct {
	endpoint    string
	userAgent   string
	limiter     *rate.Limiter
	maxAttempts int
	retryDelay  time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ source.Fetcher = (*Fetcher)(nil)

type queryResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Missing bool   `json:"missing"`
			Invalid bool   `json:"invalid"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// NewFetcher creates a Fetcher. Zero fields in cfg take DefaultConfig values.
func NewFetcher(cfg Config) (*Fetcher, error) {
	def := DefaultConfig()
	if cfg.Host == "" {
		cfg.Host = def.Host
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	host, err := url.Parse(strings.TrimSuffix(cfg.Host, "/"))
	if err != nil {
		return nil, fmt.Errorf("wikipedia: invalid host: %w", err)
	}
	if host.Scheme == "" || host.Host == "" {
		return nil, fmt.Errorf("wikipedia: host %q must be an absolute URL", cfg.Host)
	}

	return &Fetcher{
		endpoint:    host.String() + "/w/api.php",
		userAgent:   cfg.UserAgent,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      slog.Default().With("component", "wikipedia"),
	}, nil
}

// SetHTTPClient replaces the HTTP client. Intended for tests.
func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}

// Fetch returns the plain-text extract of the article titled searchTerm.
// Redirects are followed. Section headings come back as "== Heading ==" lines.
func (f *Fetcher) Fetch(ctx context.Context, searchTerm string) (string, error) {
	term := strings.TrimSpace(searchTerm)
	if term == "" {
		return "", &core.RetrievalError{SearchTerm: searchTerm, Err: core.ErrEmptySearchTerm}
	}

	var payload queryResponse
	err := retry.WithBackoff(ctx, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}
		var sendErr error
		payload, sendErr = f.query(ctx, term)
		return sendErr
	}, f.maxAttempts, f.retryDelay)
	if err != nil {
		return "", &core.RetrievalError{SearchTerm: searchTerm, Err: err}
	}

	if payload.Error != nil {
		return "", &core.RetrievalError{
			SearchTerm: searchTerm,
			Err:        fmt.Errorf("api error %s: %s", payload.Error.Code, payload.Error.Info),
		}
	}

	for _, page := range payload.Query.Pages {
		if page.Missing || page.Invalid || strings.TrimSpace(page.Extract) == "" {
			continue
		}
		f.logger.Debug("fetched article", "term", term, "title", page.Title, "length", len(page.Extract))
		return page.Extract, nil
	}

	return "", &core.RetrievalError{SearchTerm: searchTerm, Err: source.ErrNoContent}
}

func (f *Fetcher) query(ctx context.Context, term string) (queryResponse, error) {
	var payload queryResponse

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", term)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return payload, retry.Permanent(err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return payload, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		statusErr := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			f.logger.Warn("wikipedia request failed", "status", resp.StatusCode)
			return payload, statusErr
		}
		return payload, retry.Permanent(statusErr)
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return payload, retry.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return payload, nil
}
