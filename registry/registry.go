// Package registry constructs and resolves the supported provider
// adapters. A Registry is built once per process; its name-to-adapter
// mapping is write-once at construction and read-only thereafter, so no
// locking is needed.
package registry

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/provider/anthropic"
	"github.com/parley-ai/parley/provider/deepseek"
	"github.com/parley-ai/parley/provider/gemini"
	"github.com/parley-ai/parley/provider/grok"
	"github.com/parley-ai/parley/provider/kimi"
	"github.com/parley-ai/parley/provider/openai"
)

// configs lists the vendor records in registration order. The order
// establishes the tie-break for first-available selection.
var configs = []parley.Config{
	openai.Config,
	gemini.Config,
	grok.Config,
	deepseek.Config,
	kimi.Config,
	anthropic.Config,
}

// Registry holds one adapter per supported provider family, keyed by
// short name.
type Registry struct {
	order     []string
	providers map[string]parley.Provider
}

type settings struct {
	lookup parley.LookupFunc
	logger *zerolog.Logger
}

// Option configures a Registry.
type Option func(*settings)

// WithLookup overrides the environment lookup used for credential
// resolution across all adapters. Tests inject a fake environment here.
func WithLookup(lookup parley.LookupFunc) Option {
	return func(s *settings) {
		s.lookup = lookup
	}
}

// WithLogger sets the logger adapters use for catalog-fetch diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = &log
	}
}

// New constructs a Registry with one adapter per supported provider, in
// fixed registration order: openai, gemini, grok, deepseek, kimi,
// anthropic. Each adapter resolves its credentials once, here.
func New(opts ...Option) *Registry {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	adapters := []parley.Provider{
		openai.New(applyOpts(s, openai.WithLookup, openai.WithLogger)...),
		gemini.New(applyOpts(s, gemini.WithLookup, gemini.WithLogger)...),
		grok.New(applyOpts(s, grok.WithLookup, grok.WithLogger)...),
		deepseek.New(applyOpts(s, deepseek.WithLookup, deepseek.WithLogger)...),
		kimi.New(applyOpts(s, kimi.WithLookup, kimi.WithLogger)...),
		anthropic.New(applyOpts(s, anthropic.WithLookup, anthropic.WithLogger)...),
	}

	r := &Registry{
		providers: make(map[string]parley.Provider, len(adapters)),
	}
	for _, p := range adapters {
		r.order = append(r.order, p.Name())
		r.providers[p.Name()] = p
	}
	return r
}

// applyOpts maps the registry settings onto one provider package's
// option constructors.
func applyOpts[T any](s settings, withLookup func(parley.LookupFunc) T, withLogger func(zerolog.Logger) T) []T {
	var opts []T
	if s.lookup != nil {
		opts = append(opts, withLookup(s.lookup))
	}
	if s.logger != nil {
		opts = append(opts, withLogger(*s.logger))
	}
	return opts
}

// Get resolves a provider by short name. Lookup is case-sensitive and
// exact-match. Unknown names fail with a NotFoundError listing the
// registered providers.
func (r *Registry) Get(name string) (parley.Provider, error) {
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, &parley.NotFoundError{
		Name:  name,
		Known: r.Names(),
	}
}

// Names returns the registered provider names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// ProviderStatus describes one registered provider for listings.
type ProviderStatus struct {
	Name        string
	DisplayName string
	Available   bool
	// Models is the static catalog; live fetches are a separate,
	// explicit operation so a simple listing never touches the network.
	Models []string
}

// Status reports every registered provider in registration order with
// its availability and static model catalog.
func (r *Registry) Status() []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(r.order))
	for _, name := range r.order {
		p := r.providers[name]
		statuses = append(statuses, ProviderStatus{
			Name:        p.Name(),
			DisplayName: p.DisplayName(),
			Available:   p.Available(),
			Models:      p.Models(),
		})
	}
	return statuses
}

// ValidateModel checks a model id against the named provider's static
// catalog. A miss returns a ModelNotFoundError; callers decide whether
// that is fatal, since static catalogs can lag the vendor's lineup.
func (r *Registry) ValidateModel(provider, model string) error {
	for _, cfg := range configs {
		if cfg.Name == provider {
			return cfg.ValidateModel(model)
		}
	}
	return &parley.NotFoundError{
		Name:  provider,
		Known: r.Names(),
	}
}

// FirstAvailable returns the earliest-registered provider with
// credentials configured. When none is available it fails with a
// NoProviderError naming the credential variables to set.
func (r *Registry) FirstAvailable() (parley.Provider, error) {
	for _, name := range r.order {
		if p := r.providers[name]; p.Available() {
			return p, nil
		}
	}

	envKeys := make([]string, len(configs))
	for i, cfg := range configs {
		envKeys[i] = cfg.EnvKey
	}
	return nil, &parley.NoProviderError{EnvKeys: envKeys}
}

// ProviderModels pairs a provider with its fetched model catalog.
type ProviderModels struct {
	Name        string
	DisplayName string
	Available   bool
	Models      []string
}

// FetchAllModels fetches the live model catalog of every registered
// provider concurrently and waits for all to settle. One provider's
// failure never blocks the others: each adapter absorbs its own fetch
// failure by falling back to its static catalog.
func (r *Registry) FetchAllModels(ctx context.Context) []ProviderModels {
	results := make([]ProviderModels, len(r.order))

	var wg sync.WaitGroup
	for i, name := range r.order {
		wg.Add(1)
		go func(i int, p parley.Provider) {
			defer wg.Done()
			results[i] = ProviderModels{
				Name:        p.Name(),
				DisplayName: p.DisplayName(),
				Available:   p.Available(),
				Models:      p.FetchModels(ctx),
			}
		}(i, r.providers[name])
	}
	wg.Wait()

	return results
}
