package oai

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/parley"
)

func testConfig() parley.Config {
	return parley.Config{
		Name:         "testvendor",
		DisplayName:  "Test Vendor",
		EnvKey:       "TESTVENDOR_API_KEY",
		AltEnvKeys:   []string{"TESTVENDOR_ALT_KEY"},
		DefaultModel: "test-model",
		Models: []parley.ModelInfo{
			{ID: "test-model", Name: "Test Model", MaxTokens: 4096},
			{ID: "test-model-mini", Name: "Test Model Mini", MaxTokens: 2048},
		},
	}
}

func lookupFrom(env map[string]string) parley.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestAvailableWithPrimaryKey(t *testing.T) {
	c := New(testConfig(), WithLookup(lookupFrom(map[string]string{
		"TESTVENDOR_API_KEY": "sk-test",
	})))

	assert.True(t, c.Available())
	assert.Equal(t, "TESTVENDOR_API_KEY", c.KeySource())
	assert.NoError(t, c.RequireCredentials())
}

func TestAvailableWithAlternateKey(t *testing.T) {
	c := New(testConfig(), WithLookup(lookupFrom(map[string]string{
		"TESTVENDOR_ALT_KEY": "sk-alt",
	})))

	assert.True(t, c.Available())
	assert.Equal(t, "TESTVENDOR_ALT_KEY", c.KeySource())
}

func TestUnavailableWithoutKey(t *testing.T) {
	c := New(testConfig(), WithLookup(lookupFrom(nil)))

	assert.False(t, c.Available())

	err := c.RequireCredentials()
	require.Error(t, err)

	var credErr *parley.CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "testvendor", credErr.Provider)
	assert.Contains(t, err.Error(), "TESTVENDOR_API_KEY")
}

func TestChatFailsFastWithoutCredentials(t *testing.T) {
	c := New(testConfig(), WithLookup(lookupFrom(nil)))

	_, err := c.Chat(context.Background(), []parley.Message{parley.NewUserMessage("hi")})
	var credErr *parley.CredentialError
	assert.ErrorAs(t, err, &credErr)

	_, err = c.ChatStream(context.Background(), []parley.Message{parley.NewUserMessage("hi")})
	assert.ErrorAs(t, err, &credErr)
}

func TestFetchModelsDegradesWithoutCredentials(t *testing.T) {
	c := New(testConfig(), WithLookup(lookupFrom(nil)))

	models := c.FetchModels(context.Background())
	assert.Equal(t, []string{"test-model", "test-model-mini"}, models)
}

func TestModelsReturnsStaticCatalog(t *testing.T) {
	c := New(testConfig(), WithLookup(lookupFrom(nil)))
	assert.Equal(t, []string{"test-model", "test-model-mini"}, c.Models())
}

func TestBuildParamsResolvesDefaultModel(t *testing.T) {
	c := New(testConfig(), WithLookup(lookupFrom(map[string]string{
		"TESTVENDOR_API_KEY": "sk-test",
	})))

	options := parley.ApplyOptions()
	params := c.buildParams(options.ResolveModel(c.cfg.DefaultModel), nil, options)
	assert.Equal(t, "test-model", params.Model)

	options = parley.ApplyOptions(parley.WithModel("test-model-mini"))
	params = c.buildParams(options.ResolveModel(c.cfg.DefaultModel), nil, options)
	assert.Equal(t, "test-model-mini", params.Model)
}

func TestBuildParamsReasoningGated(t *testing.T) {
	cfg := testConfig()
	options := parley.ApplyOptions(parley.WithReasoningEffort(parley.ReasoningHigh))

	// Reasoning disabled: the option is not forwarded.
	c := New(cfg, WithLookup(lookupFrom(nil)))
	params := c.buildParams("test-model", nil, options)
	assert.Empty(t, string(params.ReasoningEffort))

	// Reasoning enabled: passed through.
	c = New(cfg, WithLookup(lookupFrom(nil)), WithReasoningEffort())
	params = c.buildParams("test-model", nil, options)
	assert.Equal(t, "high", string(params.ReasoningEffort))
}

func TestConvertMessagesInjectsSystemPrompt(t *testing.T) {
	msgs := convertMessages([]parley.Message{
		parley.NewUserMessage("hello"),
	}, "be terse")

	require.Len(t, msgs, 2)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
}

func TestConvertMessagesRoles(t *testing.T) {
	msgs := convertMessages([]parley.Message{
		{Role: parley.RoleSystem, Content: "sys"},
		{Role: parley.RoleUser, Content: "hi"},
		{Role: parley.RoleAssistant, Content: "hello"},
	}, "")

	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}

func TestNormalizeUsage(t *testing.T) {
	// Vendor reports a total: keep it.
	u := normalizeUsage(openai.CompletionUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	require.NotNil(t, u)
	assert.Equal(t, 15, u.TotalTokens)

	// No total reported: computed from the parts.
	u = normalizeUsage(openai.CompletionUsage{PromptTokens: 10, CompletionTokens: 5})
	require.NotNil(t, u)
	assert.Equal(t, 15, u.TotalTokens)

	// Nothing reported: usage is absent.
	assert.Nil(t, normalizeUsage(openai.CompletionUsage{}))
}

func TestWrapErrorPassesThroughNonAPIErrors(t *testing.T) {
	c := New(testConfig(), WithLookup(lookupFrom(nil)))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, c.wrapError(plain))
	assert.Nil(t, c.wrapError(nil))
}
