package agent

import (
	"context"
	"fmt"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultModel returns the model used for provider when none is configured.
func DefaultModel(provider string) string {
	if provider == ProviderAnthropic {
		return "claude-haiku-4-5"
	}
	return "gpt-4o"
}

// Generator runs one agent invocation: the model receives the instructions,
// the tools, and the prompt as the sole user message, and returns its final
// text.
type Generator interface {
	Generate(ctx context.Context, instructions string, tools []fantasy.AgentTool, prompt string) (string, error)
}

// fantasyGenerator drives a fantasy agent over a language model.
type fantasyGenerator struct {
	model fantasy.LanguageModel
}

func (g *fantasyGenerator) Generate(ctx context.Context, instructions string, tools []fantasy.AgentTool, prompt string) (string, error) {
	a := fantasy.NewAgent(
		g.model,
		fantasy.WithSystemPrompt(instructions),
		fantasy.WithTools(tools...),
	)

	result, err := a.Generate(ctx, fantasy.AgentCall{Prompt: prompt})
	if err != nil {
		return "", err
	}
	return result.Response.Content.Text(), nil
}

// newGenerator builds the language model for provider.
func newGenerator(ctx context.Context, provider, apiKey, model string) (Generator, error) {
	var (
		p   fantasy.Provider
		err error
	)
	switch provider {
	case ProviderOpenAI, "":
		p, err = openai.New(openai.WithAPIKey(apiKey))
	case ProviderAnthropic:
		p, err = anthropic.New(anthropic.WithAPIKey(apiKey))
	default:
		return nil, fmt.Errorf("unsupported agent provider %q", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	lm, err := p.LanguageModel(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("create model %s: %w", model, err)
	}
	return &fantasyGenerator{model: lm}, nil
}
