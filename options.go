package parley

import "fmt"

// ReasoningEffort controls the inference depth/cost trade-off for models
// that support it. Only the OpenAI family honors this parameter; other
// providers ignore it.
type ReasoningEffort string

const (
	ReasoningMinimal ReasoningEffort = "minimal"
	ReasoningLow     ReasoningEffort = "low"
	ReasoningMedium  ReasoningEffort = "medium"
	ReasoningHigh    ReasoningEffort = "high"
)

// ParseReasoningEffort validates a reasoning-effort label, for callers
// accepting it as free-form input.
func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	switch e := ReasoningEffort(s); e {
	case ReasoningMinimal, ReasoningLow, ReasoningMedium, ReasoningHigh:
		return e, nil
	}
	return "", fmt.Errorf("invalid reasoning effort %q (valid: minimal, low, medium, high)", s)
}

// Options contains configuration for a chat request. Adapters forward
// values as-is: temperature is not clamped, and an absent MaxTokens
// means the vendor default. The calling layer owns documented defaults
// (temperature 0.7, streaming on).
type Options struct {
	Model           string
	MaxTokens       int
	Temperature     *float64
	SystemPrompt    string
	ReasoningEffort ReasoningEffort
	Timing          bool
}

// Option is a functional option for configuring chat requests.
type Option func(*Options)

// WithModel sets the model to use for the request. When empty, the
// provider's configured default model is used.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature (0.0 to 2.0).
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithSystemPrompt injects a system-role entry ahead of the user message.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithReasoningEffort sets the reasoning effort for providers that
// support it.
func WithReasoningEffort(e ReasoningEffort) Option {
	return func(o *Options) {
		o.ReasoningEffort = e
	}
}

// WithTiming requests timing collection for the call. The rendering
// layer decides how to present it.
func WithTiming() Option {
	return func(o *Options) {
		o.Timing = true
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ResolveModel returns the explicit model from the options, or the given
// default when none was set.
func (o *Options) ResolveModel(defaultModel string) string {
	if o.Model != "" {
		return o.Model
	}
	return defaultModel
}
