package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, BackendOpenAI, cfg.Backend)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	assert.Equal(t, "qwen2.5:3b", cfg.ClassifierModel)
	assert.Equal(t, "2021-08-01", cfg.WatsonVersion)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Zero(t, cfg.MaxKeywords)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, BackendOpenAI, cfg.Backend)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	})

	t.Run("with classifier settings", func(t *testing.T) {
		cfg := NewConfig(
			WithClassifierHost("http://classify:9090/v1"),
			WithClassifierModel("gpt-4o-mini"),
			WithClassifierToken("secret"),
		)

		assert.Equal(t, "http://classify:9090/v1", cfg.ClassifierHost)
		assert.Equal(t, "gpt-4o-mini", cfg.ClassifierModel)
		assert.Equal(t, "secret", cfg.ClassifierToken)
	})

	t.Run("with watson settings", func(t *testing.T) {
		cfg := NewConfig(
			WithBackend(BackendWatson),
			WithWatsonURL("https://nlu.example.com"),
			WithWatsonAPIKey("key"),
			WithWatsonVersion("2022-04-07"),
		)

		assert.Equal(t, BackendWatson, cfg.Backend)
		assert.Equal(t, "https://nlu.example.com", cfg.WatsonURL)
		assert.Equal(t, "key", cfg.WatsonAPIKey)
		assert.Equal(t, "2022-04-07", cfg.WatsonVersion)
	})

	t.Run("with limits", func(t *testing.T) {
		cfg := NewConfig(WithMaxKeywords(5), WithTimeout(time.Second))

		assert.Equal(t, 5, cfg.MaxKeywords)
		assert.Equal(t, time.Second, cfg.Timeout)
	})
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		host      string
		wantHost  string
		watson    string
		wantWats  string
		backend   string
		wantBackd string
	}{
		{"adds v1", "http://localhost:11434", "http://localhost:11434/v1", "", "", "openai", "openai"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1", "", "", "openai", "openai"},
		{"already v1", "http://localhost:11434/v1", "http://localhost:11434/v1", "", "", "openai", "openai"},
		{"empty host untouched", "", "", "", "", "openai", "openai"},
		{"watson trailing slash", "", "", "https://nlu.example.com/", "https://nlu.example.com", " Watson ", "watson"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ClassifierHost: tt.host, WatsonURL: tt.watson, Backend: tt.backend}
			cfg.Normalize()
			assert.Equal(t, tt.wantHost, cfg.ClassifierHost)
			assert.Equal(t, tt.wantWats, cfg.WatsonURL)
			assert.Equal(t, tt.wantBackd, cfg.Backend)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("valid watson", func(t *testing.T) {
		cfg := NewConfig(WithBackend(BackendWatson), WithWatsonURL("https://nlu"), WithWatsonAPIKey("k"))
		require.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name    string
		opts    []ConfigOption
		wantErr string
	}{
		{"unknown backend", []ConfigOption{WithBackend("spacy")}, "unknown backend"},
		{"missing classifier host", []ConfigOption{WithClassifierHost("")}, "ClassifierHost"},
		{"missing classifier model", []ConfigOption{WithClassifierModel("")}, "ClassifierModel"},
		{"missing watson url", []ConfigOption{WithBackend(BackendWatson), WithWatsonAPIKey("k")}, "WatsonURL"},
		{"missing watson key", []ConfigOption{WithBackend(BackendWatson), WithWatsonURL("https://nlu")}, "WatsonAPIKey"},
		{"missing watson version", []ConfigOption{WithBackend(BackendWatson), WithWatsonURL("https://nlu"), WithWatsonAPIKey("k"), WithWatsonVersion("")}, "WatsonVersion"},
		{"negative max keywords", []ConfigOption{WithMaxKeywords(-1)}, "MaxKeywords"},
		{"negative timeout", []ConfigOption{WithTimeout(-time.Second)}, "Timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfig(tt.opts...).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTerms(t *testing.T) {
	keywords := []Keyword{{Text: "cats", Relevance: 0.9}, {Text: "mammals", Relevance: 0.7}}
	assert.Equal(t, []string{"cats", "mammals"}, Terms(keywords))
	assert.Equal(t, []string{}, Terms(nil))
}
