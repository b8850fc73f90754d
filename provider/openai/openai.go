// Package openai provides the OpenAI provider adapter.
package openai

import (
	"github.com/rs/zerolog"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/oai"
)

// DefaultModel is used when the caller specifies no model.
const DefaultModel = "gpt-4o"

// Config is the OpenAI vendor record.
var Config = parley.Config{
	Name:         parley.ProviderOpenAI,
	DisplayName:  "OpenAI",
	EnvKey:       "OPENAI_API_KEY",
	DefaultModel: DefaultModel,
	Models: []parley.ModelInfo{
		{ID: "gpt-4o", Name: "GPT-4o", MaxTokens: 16384},
		{ID: "gpt-4o-mini", Name: "GPT-4o Mini", MaxTokens: 16384},
		{ID: "gpt-4.1", Name: "GPT-4.1", MaxTokens: 32768},
		{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", MaxTokens: 32768},
		{ID: "o1", Name: "o1", MaxTokens: 100000},
		{ID: "o3-mini", Name: "o3 Mini", MaxTokens: 100000},
	},
}

// Client is the OpenAI adapter. It is the one provider family that
// honors the reasoning-effort option.
type Client struct {
	*oai.Core
}

type settings struct {
	lookup parley.LookupFunc
	logger *zerolog.Logger
}

// Option configures the OpenAI client.
type Option func(*settings)

// WithLookup overrides the environment lookup used for credential
// resolution. Tests inject a fake environment here.
func WithLookup(lookup parley.LookupFunc) Option {
	return func(s *settings) {
		s.lookup = lookup
	}
}

// WithLogger sets the logger used for catalog-fetch diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = &log
	}
}

// New creates an OpenAI adapter, resolving OPENAI_API_KEY and the
// OPENAI_BASE_URL override from the environment.
func New(opts ...Option) *Client {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	coreOpts := []oai.Option{oai.WithReasoningEffort()}
	if s.logger != nil {
		coreOpts = append(coreOpts, oai.WithLogger(*s.logger))
	}
	if s.lookup != nil {
		coreOpts = append(coreOpts, oai.WithLookup(s.lookup))
	}
	return &Client{Core: oai.New(Config, coreOpts...)}
}

var _ parley.Provider = (*Client)(nil)
