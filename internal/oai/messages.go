package oai

import (
	"github.com/openai/openai-go"

	"github.com/parley-ai/parley"
)

// convertMessages maps parley messages onto the wire format. When a
// system prompt is supplied it is injected ahead of everything else.
func convertMessages(messages []parley.Message, systemPrompt string) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		result = append(result, openai.SystemMessage(systemPrompt))
	}
	for _, msg := range messages {
		switch msg.Role {
		case parley.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		case parley.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
