// Package oai implements the shared adapter core for OpenAI-compatible
// backends. OpenAI itself, X.AI (Grok), DeepSeek, and Kimi (Moonshot)
// all speak the same chat-completion wire protocol, so each provider
// package is a thin per-vendor record over this core.
package oai

import (
	"context"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/catalog"
)

// maxRetries bounds the SDK-managed retry loop for chat calls.
const maxRetries = 3

// Core is an OpenAI-compatible provider adapter. It resolves its
// credential and base URL once at construction and builds the vendor
// client lazily on first use.
type Core struct {
	cfg       parley.Config
	apiKey    string
	keySource string
	baseURL   string
	reasoning bool
	cache     *catalog.Cache

	initClient sync.Once
	client     openai.Client
}

// Option configures a Core.
type Option func(*Core)

// WithReasoningEffort enables pass-through of the reasoning-effort
// parameter. Only the OpenAI family supports it.
func WithReasoningEffort() Option {
	return func(c *Core) {
		c.reasoning = true
	}
}

// WithLookup overrides the environment lookup used for credential and
// base-URL resolution. Tests inject a fake environment here.
func WithLookup(lookup parley.LookupFunc) Option {
	return func(c *Core) {
		c.apiKey, c.keySource = c.cfg.ResolveKey(lookup)
		c.baseURL = c.cfg.ResolveBaseURL(lookup)
	}
}

// WithLogger sets the logger used for catalog-fetch diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Core) {
		c.cache = catalog.New(catalog.WithLogger(log))
	}
}

// New creates an adapter from the given per-vendor record. The
// credential is resolved from the process environment: the primary
// variable first, then each alternate in order.
func New(cfg parley.Config, opts ...Option) *Core {
	c := &Core{
		cfg:   cfg,
		cache: catalog.New(),
	}
	c.apiKey, c.keySource = cfg.ResolveKey(nil)
	c.baseURL = cfg.ResolveBaseURL(nil)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the short provider identifier.
func (c *Core) Name() string { return c.cfg.Name }

// DisplayName returns the human-readable provider label.
func (c *Core) DisplayName() string { return c.cfg.DisplayName }

// KeySource returns the environment variable the credential came from,
// empty when none resolved.
func (c *Core) KeySource() string { return c.keySource }

// Available reports whether a credential was resolved at construction.
func (c *Core) Available() bool { return c.apiKey != "" }

// RequireCredentials fails with a CredentialError naming the expected
// variable when no credential is configured.
func (c *Core) RequireCredentials() error {
	if c.Available() {
		return nil
	}
	return &parley.CredentialError{
		Provider:    c.cfg.Name,
		DisplayName: c.cfg.DisplayName,
		EnvKey:      c.cfg.EnvKey,
		AltEnvKeys:  c.cfg.AltEnvKeys,
	}
}

// Models returns the static model catalog.
func (c *Core) Models() []string {
	return c.cfg.ModelIDs()
}

// FetchModels returns the live model catalog, cached for an hour, with
// fallback to the static catalog on any failure. Without a credential it
// degrades to the static catalog immediately.
func (c *Core) FetchModels(ctx context.Context) []string {
	if !c.Available() {
		return c.Models()
	}
	return c.cache.Fetch(ctx, c.cfg.Name, c.listModels, c.cfg.ModelIDs())
}

func (c *Core) listModels(ctx context.Context) ([]string, error) {
	page, err := c.api().Models.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// api returns the vendor client, constructing it on first use. The
// handle is cached for the adapter's lifetime.
func (c *Core) api() *openai.Client {
	c.initClient.Do(func() {
		opts := []option.RequestOption{
			option.WithAPIKey(c.apiKey),
			option.WithMaxRetries(maxRetries),
		}
		if c.baseURL != "" {
			opts = append(opts, option.WithBaseURL(c.baseURL))
		}
		c.client = openai.NewClient(opts...)
	})
	return &c.client
}

func (c *Core) buildParams(model string, messages []parley.Message, options *parley.Options) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(messages, options.SystemPrompt),
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if c.reasoning && options.ReasoningEffort != "" {
		params.ReasoningEffort = shared.ReasoningEffort(options.ReasoningEffort)
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Core) Chat(ctx context.Context, messages []parley.Message, opts ...parley.Option) (*parley.Response, error) {
	if err := c.RequireCredentials(); err != nil {
		return nil, err
	}
	options := parley.ApplyOptions(opts...)
	model := options.ResolveModel(c.cfg.DefaultModel)

	resp, err := c.api().Chat.Completions.New(ctx, c.buildParams(model, messages, options))
	if err != nil {
		return nil, c.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, parley.NewPermanentError(c.cfg.Name+": response contained no choices", 0, nil)
	}

	return &parley.Response{
		Content:  resp.Choices[0].Message.Content,
		Provider: c.cfg.Name,
		Model:    model,
		Usage:    normalizeUsage(resp.Usage),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming
// events. Fragments are forwarded exactly as received, in arrival order.
func (c *Core) ChatStream(ctx context.Context, messages []parley.Message, opts ...parley.Option) (<-chan parley.StreamEvent, error) {
	if err := c.RequireCredentials(); err != nil {
		return nil, err
	}
	options := parley.ApplyOptions(opts...)
	model := options.ResolveModel(c.cfg.DefaultModel)

	params := c.buildParams(model, messages, options)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.api().Chat.Completions.NewStreaming(ctx, params)
	ch := make(chan parley.StreamEvent)

	go func() {
		defer close(ch)
		var acc openai.ChatCompletionAccumulator

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				ch <- parley.StreamEvent{
					Delta: chunk.Choices[0].Delta.Content,
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- parley.StreamEvent{Err: c.wrapError(err)}
			return
		}

		content := ""
		if len(acc.Choices) > 0 {
			content = acc.Choices[0].Message.Content
		}
		ch <- parley.StreamEvent{
			Done: true,
			Response: &parley.Response{
				Content:  content,
				Provider: c.cfg.Name,
				Model:    model,
				Usage:    normalizeUsage(acc.Usage),
			},
		}
	}()

	return ch, nil
}

// normalizeUsage maps the vendor usage block into the uniform shape,
// computing the total when the vendor does not supply one. A usage block
// with no counts at all normalizes to nil.
func normalizeUsage(u openai.CompletionUsage) *parley.Usage {
	if u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0 {
		return nil
	}
	return parley.NormalizeUsage(int(u.PromptTokens), int(u.CompletionTokens), int(u.TotalTokens))
}

var _ parley.Provider = (*Core)(nil)
