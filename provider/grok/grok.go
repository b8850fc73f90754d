// Package grok provides the X.AI Grok provider adapter. Grok speaks the
// OpenAI-compatible chat protocol at the x.ai endpoint.
package grok

import (
	"github.com/rs/zerolog"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/oai"
)

// DefaultModel is used when the caller specifies no model.
const DefaultModel = "grok-3"

// Config is the X.AI vendor record.
var Config = parley.Config{
	Name:         parley.ProviderGrok,
	DisplayName:  "Grok (X.AI)",
	EnvKey:       "XAI_API_KEY",
	AltEnvKeys:   []string{"GROK_API_KEY"},
	BaseURL:      "https://api.x.ai/v1",
	DefaultModel: DefaultModel,
	Models: []parley.ModelInfo{
		{ID: "grok-3", Name: "Grok 3", MaxTokens: 131072},
		{ID: "grok-3-mini", Name: "Grok 3 Mini", MaxTokens: 131072},
		{ID: "grok-2-1212", Name: "Grok 2", MaxTokens: 131072},
		{ID: "grok-2-vision-1212", Name: "Grok 2 Vision", MaxTokens: 32768},
	},
}

// Client is the Grok adapter.
type Client struct {
	*oai.Core
}

type settings struct {
	lookup parley.LookupFunc
	logger *zerolog.Logger
}

// Option configures the Grok client.
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

// New creates a Grok adapter, resolving XAI_API_KEY (or GROK_API_KEY)
// and the XAI_BASE_URL override from the environment.
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
