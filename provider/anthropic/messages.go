package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/parley-ai/parley"
)

// convertMessages maps parley messages onto the wire format. Anthropic
// carries system text in a dedicated request field rather than the
// message list; system-role entries and the system prompt option are
// collected there, with the option taking the lead position.
func convertMessages(messages []parley.Message, systemPrompt string) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	if systemPrompt != "" {
		system = append(system, anthropic.TextBlockParam{Text: systemPrompt})
	}

	for _, msg := range messages {
		switch msg.Role {
		case parley.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case parley.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return result, system
}
