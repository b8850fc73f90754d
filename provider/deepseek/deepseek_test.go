package deepseek

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parley-ai/parley"
)

func lookupFrom(env map[string]string) parley.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigIsValid(t *testing.T) {
	assert.NoError(t, Config.Validate())
	assert.Equal(t, "https://api.deepseek.com/v1", Config.BaseURL)
}

func TestAvailability(t *testing.T) {
	c := New(WithLookup(lookupFrom(nil)))
	assert.False(t, c.Available())

	c = New(WithLookup(lookupFrom(map[string]string{"DEEPSEEK_API_KEY": "sk-test"})))
	assert.True(t, c.Available())
	assert.Equal(t, "deepseek", c.Name())
}
