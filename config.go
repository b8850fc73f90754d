package parley

import (
	"fmt"
	"os"
	"strings"
)

// ModelInfo describes one entry in a provider's static model catalog.
type ModelInfo struct {
	// ID is the vendor model identifier sent on the wire.
	ID string
	// Name is the human-readable model label.
	Name string
	// MaxTokens is the model's maximum output token budget, 0 if unknown.
	MaxTokens int
}

// Config is the immutable per-vendor record compiled into each provider
// at construction.
type Config struct {
	// Name is the unique short identifier (e.g. "openai").
	Name string
	// DisplayName is the human-readable label (e.g. "OpenAI").
	DisplayName string
	// EnvKey is the primary credential environment variable.
	EnvKey string
	// AltEnvKeys are fallback credential variables, tried in order.
	AltEnvKeys []string
	// BaseURL is the default API endpoint, empty for the vendor default.
	BaseURL string
	// DefaultModel is used when the caller specifies no model.
	DefaultModel string
	// Models is the ordered static model catalog.
	Models []ModelInfo
}

// Validate checks the catalog invariants: a name, a default model, and
// the default model appearing in the catalog.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("provider config: missing name")
	}
	if c.EnvKey == "" {
		return fmt.Errorf("provider config %q: missing credential variable", c.Name)
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("provider config %q: missing default model", c.Name)
	}
	for _, m := range c.Models {
		if m.ID == c.DefaultModel {
			return nil
		}
	}
	return fmt.Errorf("provider config %q: default model %q not in catalog", c.Name, c.DefaultModel)
}

// ValidateModel checks a model id against the static catalog, failing
// with a ModelNotFoundError when absent. Catalogs can lag the vendor's
// actual lineup, so callers decide whether a miss is fatal.
func (c Config) ValidateModel(id string) error {
	for _, m := range c.Models {
		if m.ID == id {
			return nil
		}
	}
	return &ModelNotFoundError{
		Provider: c.Name,
		Model:    id,
		Known:    c.ModelIDs(),
	}
}

// ModelIDs returns the catalog identifiers in declaration order.
func (c Config) ModelIDs() []string {
	ids := make([]string, len(c.Models))
	for i, m := range c.Models {
		ids[i] = m.ID
	}
	return ids
}

// LookupFunc looks up an environment variable, reporting whether it was
// set. os.LookupEnv satisfies this signature.
type LookupFunc func(key string) (string, bool)

// ResolveKey resolves the provider credential using the given lookup:
// the primary variable first, then each alternate in order. The first
// non-empty value wins. It returns the value and the variable it came
// from, or empty strings when nothing is set.
func (c Config) ResolveKey(lookup LookupFunc) (value, source string) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range append([]string{c.EnvKey}, c.AltEnvKeys...) {
		if v, ok := lookup(key); ok && v != "" {
			return v, key
		}
	}
	return "", ""
}

// BaseURLVar returns the environment variable consulted for a base URL
// override, derived from the primary credential variable by stripping
// its "_API_KEY" suffix and appending "_BASE_URL" (for example
// OPENAI_API_KEY -> OPENAI_BASE_URL).
func (c Config) BaseURLVar() string {
	return strings.TrimSuffix(c.EnvKey, "_API_KEY") + "_BASE_URL"
}

// ResolveBaseURL returns the endpoint for the provider: the derived
// override variable when set, otherwise the configured default.
func (c Config) ResolveBaseURL(lookup LookupFunc) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(c.BaseURLVar()); ok && v != "" {
		return v
	}
	return c.BaseURL
}
