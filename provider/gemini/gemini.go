// Package gemini provides the Google Gemini provider adapter.
package gemini

import (
	"context"
	"iter"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/catalog"
	"github.com/parley-ai/parley/retry"
)

// DefaultModel is used when the caller specifies no model.
const DefaultModel = "gemini-2.0-flash"

// Config is the Gemini vendor record. GOOGLE_API_KEY is accepted as an
// alternate credential variable.
var Config = parley.Config{
	Name:         parley.ProviderGemini,
	DisplayName:  "Google Gemini",
	EnvKey:       "GEMINI_API_KEY",
	AltEnvKeys:   []string{"GOOGLE_API_KEY"},
	DefaultModel: DefaultModel,
	Models: []parley.ModelInfo{
		{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", MaxTokens: 8192},
		{ID: "gemini-2.0-flash-lite", Name: "Gemini 2.0 Flash Lite", MaxTokens: 8192},
		{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", MaxTokens: 8192},
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", MaxTokens: 8192},
	},
}

// Client is the Gemini adapter.
type Client struct {
	cfg       parley.Config
	apiKey    string
	keySource string
	baseURL   string
	cache     *catalog.Cache
	retryCfg  retry.Config

	// Lazy-initialized vendor client; construction can fail, so the
	// error is memoized alongside the handle.
	mu      sync.Mutex
	client  *genai.Client
	initErr error
}

type settings struct {
	lookup parley.LookupFunc
	logger *zerolog.Logger
}

// Option configures the Gemini client.
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

// New creates a Gemini adapter, resolving GEMINI_API_KEY (or
// GOOGLE_API_KEY) and the GEMINI_BASE_URL override from the environment.
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
		cfg:      Config,
		cache:    catalog.New(cacheOpts...),
		retryCfg: retry.DefaultConfig(),
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
// variables when no credential is configured.
func (c *Client) RequireCredentials() error {
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
	client, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	page, err := client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(page.Items))
	for _, m := range page.Items {
		// The API reports fully qualified names like "models/gemini-2.0-flash".
		ids = append(ids, strings.TrimPrefix(m.Name, "models/"))
	}
	return ids, nil
}

// api returns the vendor client, constructing it on first use. Both the
// handle and a construction failure are memoized for the adapter's
// lifetime.
func (c *Client) api(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.initErr != nil {
		return nil, c.initErr
	}

	cfg := &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		c.initErr = err
		return nil, err
	}

	c.client = client
	return c.client, nil
}

func buildConfig(options *parley.Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if options.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: options.SystemPrompt}},
		}
	}
	return config
}

// Chat sends a conversation and returns a complete response. The genai
// SDK manages no retries of its own, so transient failures are retried
// here with exponential backoff.
func (c *Client) Chat(ctx context.Context, messages []parley.Message, opts ...parley.Option) (*parley.Response, error) {
	if err := c.RequireCredentials(); err != nil {
		return nil, err
	}
	options := parley.ApplyOptions(opts...)
	model := options.ResolveModel(c.cfg.DefaultModel)

	client, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	contents := convertMessages(messages)
	config := buildConfig(options)

	resp, err := retry.Do(ctx, c.retryCfg, func() (*genai.GenerateContentResponse, error) {
		resp, err := client.Models.GenerateContent(ctx, model, contents, config)
		return resp, wrapError(c.cfg.Name, err)
	})
	if err != nil {
		return nil, err
	}

	content := ""
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	return &parley.Response{
		Content:  content,
		Provider: c.cfg.Name,
		Model:    model,
		Usage:    normalizeUsage(resp.UsageMetadata),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming
// events. Fragments are forwarded exactly as received, in arrival order.
// Establishing the stream is retried like a buffered call: the first
// pull issues the request, so a transient failure there is retried
// before any delta has been delivered. Once fragments flow, a failure is
// delivered as the terminal Err event instead.
func (c *Client) ChatStream(ctx context.Context, messages []parley.Message, opts ...parley.Option) (<-chan parley.StreamEvent, error) {
	if err := c.RequireCredentials(); err != nil {
		return nil, err
	}
	options := parley.ApplyOptions(opts...)
	model := options.ResolveModel(c.cfg.DefaultModel)

	client, err := c.api(ctx)
	if err != nil {
		return nil, err
	}

	contents := convertMessages(messages)
	config := buildConfig(options)

	return retry.DoStream(ctx, c.retryCfg, func() (<-chan parley.StreamEvent, error) {
		next, stop := iter.Pull2(client.Models.GenerateContentStream(ctx, model, contents, config))
		first, err, ok := next()
		if ok && err != nil {
			stop()
			return nil, wrapError(c.cfg.Name, err)
		}

		ch := make(chan parley.StreamEvent)

		go func() {
			defer close(ch)
			defer stop()

			var fullContent string
			var usage *parley.Usage

			for resp := first; ok; resp, err, ok = next() {
				if err != nil {
					ch <- parley.StreamEvent{Err: wrapError(c.cfg.Name, err)}
					return
				}

				if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
					for _, part := range resp.Candidates[0].Content.Parts {
						if part.Text != "" {
							ch <- parley.StreamEvent{Delta: part.Text}
							fullContent += part.Text
						}
					}
				}

				if resp.UsageMetadata != nil {
					usage = normalizeUsage(resp.UsageMetadata)
				}
			}

			ch <- parley.StreamEvent{
				Done: true,
				Response: &parley.Response{
					Content:  fullContent,
					Provider: c.cfg.Name,
					Model:    model,
					Usage:    usage,
				},
			}
		}()

		return ch, nil
	})
}

func convertMessages(messages []parley.Message) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		role := "user"
		if msg.Role == parley.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role: role,
			Parts: []*genai.Part{
				{Text: msg.Content},
			},
		})
	}
	return contents
}

// normalizeUsage maps the usage metadata into the uniform shape, using
// the reported total when present and computing it otherwise.
func normalizeUsage(meta *genai.GenerateContentResponseUsageMetadata) *parley.Usage {
	if meta == nil {
		return nil
	}
	return parley.NormalizeUsage(
		int(meta.PromptTokenCount),
		int(meta.CandidatesTokenCount),
		int(meta.TotalTokenCount),
	)
}

var _ parley.Provider = (*Client)(nil)
