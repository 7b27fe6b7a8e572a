package watson

import (
	"log/slog"

	"github.com/poiesic/storyline/ai"
)

// Provider implements ai.AIProvider for Watson NLU.
type Provider struct {
	analyzer *Analyzer
	logger   *slog.Logger
}

// NewProvider creates a provider around a Watson keyword analyzer.
func NewProvider(config *ai.Config, opts ...Option) (ai.AIProvider, error) {
	analyzer, err := newAnalyzer(config, opts...)
	if err != nil {
		return nil, err
	}
	return &Provider{
		analyzer: analyzer,
		logger:   slog.Default().With("component", "watson-provider"),
	}, nil
}

// KeywordAnalyzer returns the keyword analysis service.
func (p *Provider) KeywordAnalyzer() ai.KeywordAnalyzer {
	return p.analyzer
}

// Close releases idle connections.
func (p *Provider) Close() error {
	p.logger.Debug("closing Watson provider")
	p.analyzer.httpClient.CloseIdleConnections()
	return nil
}
