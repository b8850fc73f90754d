// Package parley provides a unified interface for chatting with hosted
// LLM providers.
//
// The parley library abstracts away provider-specific APIs, allowing you
// to write code once and switch between OpenAI, Google (Gemini), X.AI
// (Grok), DeepSeek, Kimi (Moonshot), and Anthropic (Claude) with minimal
// changes.
//
// # Core Interface
//
// Every backend implements [Provider]: credential availability checks,
// model catalogs (static and live-fetched), buffered chat, and streaming
// chat. Use the [github.com/parley-ai/parley/registry] package as the
// entry point for provider discovery and selection.
//
// # Basic Usage
//
// Send a simple chat message:
//
//	reg := registry.New()
//	p, err := reg.Get("openai")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	messages := []parley.Message{
//	    parley.NewUserMessage("What is the capital of France?"),
//	}
//
//	resp, err := p.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Streaming Responses
//
// For real-time output, use ChatStream:
//
//	stream, err := p.ChatStream(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range stream {
//	    if event.Err != nil {
//	        log.Fatal(event.Err)
//	    }
//	    fmt.Print(event.Delta)
//	}
//
// # Configuration Options
//
// Customize requests with functional options:
//
//	resp, err := p.Chat(ctx, messages,
//	    parley.WithModel("gpt-4o-mini"),
//	    parley.WithMaxTokens(1000),
//	    parley.WithTemperature(0.7),
//	    parley.WithSystemPrompt("Answer in one sentence."),
//	)
//
// # Credentials
//
// Each provider resolves its API key once at construction from the
// process environment, trying a primary variable and then documented
// alternates (for example GEMINI_API_KEY, then GOOGLE_API_KEY). A
// provider with no resolved key reports Available() == false and fails
// fast with a [CredentialError] before any network call.
package parley
