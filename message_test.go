package parley

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")
	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
}

func TestNewSystemMessage(t *testing.T) {
	msg := NewSystemMessage("be brief")
	assert.Equal(t, RoleSystem, msg.Role)
	assert.Equal(t, "be brief", msg.Content)
}

func TestGenerateMessageID(t *testing.T) {
	id1 := GenerateMessageID()
	id2 := GenerateMessageID()

	assert.True(t, strings.HasPrefix(id1, "msg-"))
	assert.NotEqual(t, id1, id2)
}

func TestNormalizeUsageComputesTotal(t *testing.T) {
	u := NormalizeUsage(10, 5, 0)
	require.NotNil(t, u)
	assert.Equal(t, 10, u.PromptTokens)
	assert.Equal(t, 5, u.CompletionTokens)
	assert.Equal(t, 15, u.TotalTokens)
}

func TestNormalizeUsageKeepsReportedTotal(t *testing.T) {
	// Some vendors include cached or reasoning tokens in their total;
	// a reported total is trusted over the sum of the parts.
	u := NormalizeUsage(10, 5, 20)
	assert.Equal(t, 20, u.TotalTokens)
}
