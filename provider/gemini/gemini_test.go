package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/retry"
)

func lookupFrom(env map[string]string) parley.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigIsValid(t *testing.T) {
	assert.NoError(t, Config.Validate())
	assert.Equal(t, DefaultModel, Config.DefaultModel)
}

func TestAlternateCredential(t *testing.T) {
	c := New(WithLookup(lookupFrom(map[string]string{"GOOGLE_API_KEY": "sk-google"})))
	assert.True(t, c.Available())
	assert.Equal(t, "GOOGLE_API_KEY", c.keySource)
}

func TestPrimaryCredentialWins(t *testing.T) {
	c := New(WithLookup(lookupFrom(map[string]string{
		"GEMINI_API_KEY": "primary",
		"GOOGLE_API_KEY": "alternate",
	})))
	assert.Equal(t, "GEMINI_API_KEY", c.keySource)
}

func TestChatWithoutCredentialMentionsBothVars(t *testing.T) {
	c := New(WithLookup(lookupFrom(nil)))

	_, err := c.Chat(context.Background(), []parley.Message{parley.NewUserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestFetchModelsDegradesWithoutCredentials(t *testing.T) {
	c := New(WithLookup(lookupFrom(nil)))
	assert.Equal(t, Config.ModelIDs(), c.FetchModels(context.Background()))
}

func TestConvertMessagesRoles(t *testing.T) {
	contents := convertMessages([]parley.Message{
		parley.NewUserMessage("hi"),
		{Role: parley.RoleAssistant, Content: "hello"},
	})

	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
}

func TestBuildConfigSystemInstruction(t *testing.T) {
	options := parley.ApplyOptions(parley.WithSystemPrompt("be brief"), parley.WithMaxTokens(256))
	config := buildConfig(options)

	require.NotNil(t, config.SystemInstruction)
	assert.Equal(t, "be brief", config.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(256), config.MaxOutputTokens)
}

func TestNormalizeUsage(t *testing.T) {
	assert.Nil(t, normalizeUsage(nil))

	u := normalizeUsage(&genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     7,
		CandidatesTokenCount: 3,
	})
	require.NotNil(t, u)
	assert.Equal(t, 10, u.TotalTokens)

	u = normalizeUsage(&genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     7,
		CandidatesTokenCount: 3,
		TotalTokenCount:      12,
	})
	assert.Equal(t, 12, u.TotalTokens)
}

// newTestClient points the adapter at a stub vendor endpoint with a
// fast retry schedule.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c := New(WithLookup(lookupFrom(map[string]string{
		"GEMINI_API_KEY":  "sk-test",
		"GEMINI_BASE_URL": ts.URL,
	})))
	c.retryCfg = retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
	return c
}

func writeOverloaded(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprint(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
}

func TestChatStreamRetriesTransientEstablishment(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeOverloaded(w)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"Hel\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"lo\"}]}}],\"usageMetadata\":{\"promptTokenCount\":3,\"candidatesTokenCount\":2,\"totalTokenCount\":5}}\n\n")
	}))

	stream, err := c.ChatStream(context.Background(), []parley.Message{parley.NewUserMessage("hi")})
	require.NoError(t, err)

	var deltas []string
	var final *parley.Response
	for event := range stream {
		require.NoError(t, event.Err)
		if event.Delta != "" {
			deltas = append(deltas, event.Delta)
		}
		if event.Done {
			final = event.Response
		}
	}

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
	require.NotNil(t, final)
	assert.Equal(t, "Hello", final.Content)
	require.NotNil(t, final.Usage)
	assert.Equal(t, 5, final.Usage.TotalTokens)
}

func TestChatStreamExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeOverloaded(w)
	}))

	stream, err := c.ChatStream(context.Background(), []parley.Message{parley.NewUserMessage("hi")})
	require.Error(t, err)
	assert.Nil(t, stream)
	assert.True(t, parley.IsTransient(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestChatRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			writeOverloaded(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"pong"}]}}],"usageMetadata":{"promptTokenCount":1,"candidatesTokenCount":1,"totalTokenCount":2}}`)
	}))

	resp, err := c.Chat(context.Background(), []parley.Message{parley.NewUserMessage("ping")})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "pong", resp.Content)
}
