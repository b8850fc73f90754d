package parley

import "context"

// Supported provider names, in registration order.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderGrok      = "grok"
	ProviderDeepSeek  = "deepseek"
	ProviderKimi      = "kimi"
	ProviderAnthropic = "anthropic"
)

// Provider is the uniform facade over one vendor backend.
//
// Credentials are resolved once at construction; Available and
// RequireCredentials reflect that snapshot for the life of the provider.
// Every operation that talks to the network checks credentials first and
// fails with a CredentialError before any call is attempted.
type Provider interface {
	// Name returns the short provider identifier (e.g. "openai").
	Name() string

	// DisplayName returns the human-readable provider label.
	DisplayName() string

	// Available reports whether a credential was resolved at construction.
	Available() bool

	// RequireCredentials returns a CredentialError naming the expected
	// environment variable when no credential is configured, nil otherwise.
	RequireCredentials() error

	// Models returns the static model catalog from configuration.
	// It performs no I/O and never fails.
	Models() []string

	// FetchModels returns the live model catalog for the provider.
	// Results are cached for a freshness window; on any fetch failure the
	// static catalog is returned instead and the existing cache is left
	// intact. When the provider has no credential configured this
	// degrades immediately to Models() without network I/O.
	FetchModels(ctx context.Context) []string

	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

	// ChatStream sends a conversation and returns a channel of streaming
	// events. Fragments arrive in vendor delivery order; the channel is
	// closed when the stream completes. Callers must check
	// StreamEvent.Err -- a mid-stream failure is delivered as the final
	// event rather than silently truncating output.
	ChatStream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error)
}
