package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/registry"
)

var (
	flagProvider    string
	flagModel       string
	flagTemperature float64
	flagMaxTokens   int
	flagSystem      string
	flagEffort      string
	flagNoStream    bool
	flagTiming      bool
	flagVerbose     bool
)

var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "parley [flags] \"prompt\"",
	Short: "Chat with hosted LLM providers from the command line",
	Long: `Parley sends a prompt to a hosted LLM provider and renders the
response, streamed token by token by default.

The provider is chosen with --provider, or the first one with
credentials configured in the environment. Keys are read from the
provider's environment variable (OPENAI_API_KEY, GEMINI_API_KEY,
XAI_API_KEY, DEEPSEEK_API_KEY, KIMI_API_KEY, ANTHROPIC_API_KEY), with a
.env file loaded if present.

Examples:
  parley "Explain UTF-8 in two sentences"
  parley --provider deepseek --no-stream "Write a haiku about Go"
  parley --provider openai --model o3-mini --effort high "Prove it"`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		godotenv.Load()

		level := zerolog.WarnLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).
			With().
			Timestamp().
			Logger()
	},
	RunE: runChat,
}

func init() {
	rootCmd.Flags().StringVarP(&flagProvider, "provider", "p", "", "Provider to use (default: first with credentials)")
	rootCmd.Flags().StringVarP(&flagModel, "model", "m", "", "Model ID (default: provider default)")
	rootCmd.Flags().Float64VarP(&flagTemperature, "temperature", "t", 0.7, "Sampling temperature (0-2)")
	rootCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "Maximum output tokens (0 = vendor default)")
	rootCmd.Flags().StringVarP(&flagSystem, "system", "s", "", "System prompt")
	rootCmd.Flags().StringVar(&flagEffort, "effort", "", "Reasoning effort: minimal, low, medium, high (OpenAI only)")
	rootCmd.Flags().BoolVar(&flagNoStream, "no-stream", false, "Buffer the full response instead of streaming")
	rootCmd.Flags().BoolVar(&flagTiming, "timing", false, "Report timing and token usage on stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(modelsCmd)
}

func newRegistry() *registry.Registry {
	return registry.New(registry.WithLogger(logger))
}

// selectProvider resolves --provider, or falls back to the first
// provider with credentials configured.
func selectProvider(reg *registry.Registry) (parley.Provider, error) {
	if flagProvider != "" {
		return reg.Get(flagProvider)
	}
	return reg.FirstAvailable()
}

func chatOptions() []parley.Option {
	opts := []parley.Option{
		parley.WithTemperature(flagTemperature),
	}
	if flagModel != "" {
		opts = append(opts, parley.WithModel(flagModel))
	}
	if flagMaxTokens > 0 {
		opts = append(opts, parley.WithMaxTokens(flagMaxTokens))
	}
	if flagSystem != "" {
		opts = append(opts, parley.WithSystemPrompt(flagSystem))
	}
	if flagEffort != "" {
		opts = append(opts, parley.WithReasoningEffort(parley.ReasoningEffort(flagEffort)))
	}
	if flagTiming {
		opts = append(opts, parley.WithTiming())
	}
	return opts
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	prompt := strings.Join(args, " ")

	if flagEffort != "" {
		if _, err := parley.ParseReasoningEffort(flagEffort); err != nil {
			return err
		}
	}

	reg := newRegistry()
	p, err := selectProvider(reg)
	if err != nil {
		return err
	}
	logger.Debug().Str("provider", p.Name()).Msg("provider selected")

	if flagModel != "" {
		if err := reg.ValidateModel(p.Name(), flagModel); err != nil {
			// Static catalogs can lag the vendor; let the vendor have
			// the final say.
			logger.Warn().Err(err).Msg("model not in static catalog, sending anyway")
		}
	}

	ctx := cmd.Context()
	messages := []parley.Message{parley.NewUserMessage(prompt)}
	start := time.Now()

	if flagNoStream {
		resp, err := p.Chat(ctx, messages, chatOptions()...)
		if err != nil {
			return err
		}
		fmt.Println(resp.Content)
		reportTiming(resp, start, start)
		return nil
	}

	stream, err := p.ChatStream(ctx, messages, chatOptions()...)
	if err != nil {
		return err
	}

	var firstToken time.Time
	for event := range stream {
		if event.Err != nil {
			fmt.Println()
			return event.Err
		}
		if event.Delta != "" {
			if firstToken.IsZero() {
				firstToken = time.Now()
			}
			fmt.Print(event.Delta)
		}
		if event.Done {
			fmt.Println()
			reportTiming(event.Response, start, firstToken)
		}
	}
	return nil
}

// reportTiming prints elapsed time and token usage to stderr when
// --timing is set.
func reportTiming(resp *parley.Response, start, firstToken time.Time) {
	if !flagTiming || resp == nil {
		return
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	fmt.Fprintf(os.Stderr, "\n[%s/%s] total %s", resp.Provider, resp.Model, elapsed)
	if !firstToken.IsZero() && firstToken.After(start) {
		fmt.Fprintf(os.Stderr, ", first token %s", firstToken.Sub(start).Round(time.Millisecond))
	}
	if resp.Usage != nil {
		fmt.Fprintf(os.Stderr, ", tokens %d in / %d out / %d total",
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	}
	fmt.Fprintln(os.Stderr)
}
