// Package anthropic provides the Anthropic (Claude) provider adapter.
package anthropic

import (
	"context"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/catalog"
)

// DefaultModel is used when the caller specifies no model.
const DefaultModel = "claude-sonnet-4-20250514"

// defaultMaxTokens applies when the caller sets no token budget; the
// Anthropic API requires the field on every request.
const defaultMaxTokens = int64(4096)

const maxRetries = 3

// Config is the Anthropic vendor record.
var Config = parley.Config{
	Name:         parley.ProviderAnthropic,
	DisplayName:  "Anthropic",
	EnvKey:       "ANTHROPIC_API_KEY",
	DefaultModel: DefaultModel,
	Models: []parley.ModelInfo{
		{ID: "claude-opus-4-20250514", Name: "Claude Opus 4", MaxTokens: 32000},
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", MaxTokens: 64000},
		{ID: "claude-3-7-sonnet-20250219", Name: "Claude 3.7 Sonnet", MaxTokens: 64000},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", MaxTokens: 8192},
	},
}

// Client is the Anthropic adapter.
type Client struct {
	cfg       parley.Config
	apiKey    string
	keySource string
	baseURL   string
	cache     *catalog.Cache

	initClient sync.Once
	client     anthropic.Client
}

type settings struct {
	lookup parley.LookupFunc
	logger *zerolog.Logger
}

// Option configures the Anthropic client.
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

// New creates an Anthropic adapter, resolving ANTHROPIC_API_KEY and the
// ANTHROPIC_BASE_URL override from the environment.
func New(opts ...Option) *Client {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	cacheOpts := []catalog.Option{}
	if s.logger != nil {
		cacheOpts = append(cacheOpts, catalog.WithLogger(*s.logger))
	}

	c := &Client{
		cfg:   Config,
		cache: catalog.New(cacheOpts...),
	}
	c.apiKey, c.keySource = Config.ResolveKey(s.lookup)
	c.baseURL = Config.ResolveBaseURL(s.lookup)
	return c
}

// Name returns the short provider identifier.
func (c *Client) Name() string { return c.cfg.Name }

// DisplayName returns the human-readable provider label.
func (c *Client) DisplayName() string { return c.cfg.DisplayName }

// Available reports whether a credential was resolved at construction.
func (c *Client) Available() bool { return c.apiKey != "" }

// RequireCredentials fails with a CredentialError naming the expected
// variable when no credential is configured.
func (c *Client) RequireCredentials() error {
	if c.Available() {
		return nil
	}
	return &parley.CredentialError{
		Provider:    c.cfg.Name,
		DisplayName: c.cfg.DisplayName,
		EnvKey:      c.cfg.EnvKey,
	}
}

// Models returns the static model catalog.
func (c *Client) Models() []string {
	return c.cfg.ModelIDs()
}

// FetchModels returns the live model catalog, cached for an hour, with
// fallback to the static catalog on any failure.
func (c *Client) FetchModels(ctx context.Context) []string {
	if !c.Available() {
		return c.Models()
	}
	return c.cache.Fetch(ctx, c.cfg.Name, c.listModels, c.cfg.ModelIDs())
}

func (c *Client) listModels(ctx context.Context) ([]string, error) {
	page, err := c.api().Models.List(ctx, anthropic.ModelListParams{})
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
func (c *Client) api() *anthropic.Client {
	c.initClient.Do(func() {
		opts := []option.RequestOption{
			option.WithAPIKey(c.apiKey),
			option.WithMaxRetries(maxRetries),
		}
		if c.baseURL != "" {
			opts = append(opts, option.WithBaseURL(c.baseURL))
		}
		c.client = anthropic.NewClient(opts...)
	})
	return &c.client
}

func (c *Client) buildParams(model string, messages []parley.Message, options *parley.Options) anthropic.MessageNewParams {
	maxTokens := defaultMaxTokens
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages, options.SystemPrompt)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []parley.Message, opts ...parley.Option) (*parley.Response, error) {
	if err := c.RequireCredentials(); err != nil {
		return nil, err
	}
	options := parley.ApplyOptions(opts...)
	model := options.ResolveModel(c.cfg.DefaultModel)

	resp, err := c.api().Messages.New(ctx, c.buildParams(model, messages, options))
	if err != nil {
		return nil, wrapError(c.cfg.Name, err)
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &parley.Response{
		Content:  content,
		Provider: c.cfg.Name,
		Model:    model,
		Usage:    normalizeUsage(resp.Usage.InputTokens, resp.Usage.OutputTokens),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming
// events. Fragments are forwarded exactly as received, in arrival order.
func (c *Client) ChatStream(ctx context.Context, messages []parley.Message, opts ...parley.Option) (<-chan parley.StreamEvent, error) {
	if err := c.RequireCredentials(); err != nil {
		return nil, err
	}
	options := parley.ApplyOptions(opts...)
	model := options.ResolveModel(c.cfg.DefaultModel)

	stream := c.api().Messages.NewStreaming(ctx, c.buildParams(model, messages, options))
	ch := make(chan parley.StreamEvent)

	go func() {
		defer close(ch)
		var acc anthropic.Message

		for stream.Next() {
			event := stream.Current()
			acc.Accumulate(event)

			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" {
					ch <- parley.StreamEvent{
						Delta: textDelta.Text,
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- parley.StreamEvent{Err: wrapError(c.cfg.Name, err)}
			return
		}

		content := ""
		for _, block := range acc.Content {
			if block.Type == "text" {
				content += block.Text
			}
		}

		ch <- parley.StreamEvent{
			Done: true,
			Response: &parley.Response{
				Content:  content,
				Provider: c.cfg.Name,
				Model:    model,
				Usage:    normalizeUsage(acc.Usage.InputTokens, acc.Usage.OutputTokens),
			},
		}
	}()

	return ch, nil
}

// normalizeUsage maps Anthropic's input/output counts into the uniform
// shape. Anthropic reports no total, so it is computed.
func normalizeUsage(input, output int64) *parley.Usage {
	if input == 0 && output == 0 {
		return nil
	}
	return parley.NormalizeUsage(int(input), int(output), 0)
}

var _ parley.Provider = (*Client)(nil)
