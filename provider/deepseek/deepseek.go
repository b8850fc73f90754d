// Package deepseek provides the DeepSeek provider adapter. DeepSeek
// speaks the OpenAI-compatible chat protocol at the deepseek.com
// endpoint.
package deepseek

import (
	"github.com/rs/zerolog"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/oai"
)

// DefaultModel is used when the caller specifies no model.
const DefaultModel = "deepseek-chat"

// Config is the DeepSeek vendor record.
var Config = parley.Config{
	Name:         parley.ProviderDeepSeek,
	DisplayName:  "DeepSeek",
	EnvKey:       "DEEPSEEK_API_KEY",
	BaseURL:      "https://api.deepseek.com/v1",
	DefaultModel: DefaultModel,
	Models: []parley.ModelInfo{
		{ID: "deepseek-chat", Name: "DeepSeek Chat", MaxTokens: 8192},
		{ID: "deepseek-reasoner", Name: "DeepSeek Reasoner", MaxTokens: 65536},
	},
}

// Client is the DeepSeek adapter.
type Client struct {
	*oai.Core
}

type settings struct {
	lookup parley.LookupFunc
	logger *zerolog.Logger
}

// Option configures the DeepSeek client.
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

// New creates a DeepSeek adapter, resolving DEEPSEEK_API_KEY and the
// DEEPSEEK_BASE_URL override from the environment.
func New(opts ...Option) *Client {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	var coreOpts []oai.Option
	if s.logger != nil {
		coreOpts = append(coreOpts, oai.WithLogger(*s.logger))
	}
	if s.lookup != nil {
		coreOpts = append(coreOpts, oai.WithLookup(s.lookup))
	}
	return &Client{Core: oai.New(Config, coreOpts...)}
}

var _ parley.Provider = (*Client)(nil)
