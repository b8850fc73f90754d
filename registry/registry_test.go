package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-ai/parley"
)

func lookupFrom(env map[string]string) parley.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

var registrationOrder = []string{"openai", "gemini", "grok", "deepseek", "kimi", "anthropic"}

func TestNamesInRegistrationOrder(t *testing.T) {
	r := New(WithLookup(lookupFrom(nil)))
	assert.Equal(t, registrationOrder, r.Names())
}

func TestGetKnownProvider(t *testing.T) {
	r := New(WithLookup(lookupFrom(nil)))

	for _, name := range registrationOrder {
		p, err := r.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}
}

func TestGetUnknownProvider(t *testing.T) {
	r := New(WithLookup(lookupFrom(nil)))

	_, err := r.Get("nonexistent")
	require.Error(t, err)

	var notFound *parley.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nonexistent", notFound.Name)
	assert.Equal(t, registrationOrder, notFound.Known)
}

func TestGetIsCaseSensitive(t *testing.T) {
	r := New(WithLookup(lookupFrom(nil)))

	_, err := r.Get("OpenAI")
	var notFound *parley.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFirstAvailableNone(t *testing.T) {
	r := New(WithLookup(lookupFrom(nil)))

	_, err := r.FirstAvailable()
	require.Error(t, err)

	var noProvider *parley.NoProviderError
	require.ErrorAs(t, err, &noProvider)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestFirstAvailableSingleProvider(t *testing.T) {
	r := New(WithLookup(lookupFrom(map[string]string{
		"DEEPSEEK_API_KEY": "sk-deepseek",
	})))

	p, err := r.FirstAvailable()
	require.NoError(t, err)
	assert.Equal(t, "deepseek", p.Name())
}

func TestFirstAvailableRegistrationOrderWins(t *testing.T) {
	r := New(WithLookup(lookupFrom(map[string]string{
		"OPENAI_API_KEY":   "sk-openai",
		"DEEPSEEK_API_KEY": "sk-deepseek",
	})))

	p, err := r.FirstAvailable()
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestStatusReflectsAvailability(t *testing.T) {
	r := New(WithLookup(lookupFrom(map[string]string{
		"XAI_API_KEY": "sk-grok",
	})))

	statuses := r.Status()
	require.Len(t, statuses, len(registrationOrder))

	byName := map[string]ProviderStatus{}
	for _, s := range statuses {
		byName[s.Name] = s
	}

	assert.True(t, byName["grok"].Available)
	assert.False(t, byName["openai"].Available)
	assert.Equal(t, "Grok (X.AI)", byName["grok"].DisplayName)
	assert.NotEmpty(t, byName["grok"].Models)
}

func TestGeminiAlternateCredential(t *testing.T) {
	r := New(WithLookup(lookupFrom(map[string]string{
		"GOOGLE_API_KEY": "sk-google",
	})))

	p, err := r.Get("gemini")
	require.NoError(t, err)
	assert.True(t, p.Available())
}

func TestValidateModel(t *testing.T) {
	r := New(WithLookup(lookupFrom(nil)))

	assert.NoError(t, r.ValidateModel("deepseek", "deepseek-chat"))

	err := r.ValidateModel("deepseek", "deepseek-v9")
	var notFound *parley.ModelNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "deepseek", notFound.Provider)
	assert.Contains(t, notFound.Known, "deepseek-chat")

	var unknownProvider *parley.NotFoundError
	err = r.ValidateModel("nonexistent", "deepseek-chat")
	require.ErrorAs(t, err, &unknownProvider)
}

func TestChatFailsFastWithoutCredential(t *testing.T) {
	r := New(WithLookup(lookupFrom(nil)))

	p, err := r.Get("openai")
	require.NoError(t, err)

	_, err = p.Chat(context.Background(), []parley.Message{parley.NewUserMessage("hi")})
	require.Error(t, err)

	var credErr *parley.CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestFetchAllModelsDegradesWithoutCredentials(t *testing.T) {
	// With no credentials configured, every adapter degrades to its
	// static catalog without touching the network, so the fan-out is
	// safe to run in tests.
	r := New(WithLookup(lookupFrom(nil)))

	results := r.FetchAllModels(context.Background())
	require.Len(t, results, len(registrationOrder))

	for i, res := range results {
		assert.Equal(t, registrationOrder[i], res.Name)
		assert.False(t, res.Available)
		assert.NotEmpty(t, res.Models)

		p, err := r.Get(res.Name)
		require.NoError(t, err)
		assert.Equal(t, p.Models(), res.Models)
	}
}
