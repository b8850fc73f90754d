// Package kimi provides the Kimi (Moonshot) provider adapter. Moonshot
// speaks the OpenAI-compatible chat protocol at the moonshot.ai
// endpoint.
package kimi

import (
	"github.com/rs/zerolog"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/oai"
)

// DefaultModel is used when the caller specifies no model.
const DefaultModel = "moonshot-v1-8k"

// Config is the Moonshot vendor record.
var Config = parley.Config{
	Name:         parley.ProviderKimi,
	DisplayName:  "Kimi (Moonshot)",
	EnvKey:       "KIMI_API_KEY",
	AltEnvKeys:   []string{"MOONSHOT_API_KEY"},
	BaseURL:      "https://api.moonshot.ai/v1",
	DefaultModel: DefaultModel,
	Models: []parley.ModelInfo{
		{ID: "moonshot-v1-8k", Name: "Moonshot v1 8K", MaxTokens: 8192},
		{ID: "moonshot-v1-32k", Name: "Moonshot v1 32K", MaxTokens: 32768},
		{ID: "moonshot-v1-128k", Name: "Moonshot v1 128K", MaxTokens: 131072},
		{ID: "kimi-latest", Name: "Kimi Latest", MaxTokens: 131072},
	},
}

// Client is the Kimi adapter.
type Client struct {
	*oai.Core
}

type settings struct {
	lookup parley.LookupFunc
	logger *zerolog.Logger
}

// Option configures the Kimi client.
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

// New creates a Kimi adapter, resolving KIMI_API_KEY (or
// MOONSHOT_API_KEY) and the KIMI_BASE_URL override from the environment.
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
