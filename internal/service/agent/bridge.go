// Package agent answers natural-language questions about the dataset by
// handing them to a tool-using language model.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chinook-demo/internal/domain"
)

// Config selects and parameterizes the language model.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	TopK     int
}

// Bridge implements domain.Asker. The orchestration of tool calls belongs
// to the model runtime; the bridge only assembles the instructions and
// tools and relays the final answer unmodified.
type Bridge struct {
	gen      Generator
	toolkit  *Toolkit
	topK     int
	disabled error
	logger   *slog.Logger
}

var _ domain.Asker = (*Bridge)(nil)

// New creates a Bridge for cfg. A missing API key or a model that cannot be
// created does not fail construction: the bridge is returned disabled and
// every Ask reports why.
func New(ctx context.Context, cfg Config, toolkit *Toolkit, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{toolkit: toolkit, topK: cfg.TopK, logger: logger}

	if cfg.APIKey == "" {
		b.disabled = errors.New("no API key for provider " + cfg.Provider)
		logger.Info("agent disabled", "reason", b.disabled)
		return b
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}
	gen, err := newGenerator(ctx, cfg.Provider, cfg.APIKey, model)
	if err != nil {
		b.disabled = err
		logger.Warn("agent disabled", "reason", err)
		return b
	}
	b.gen = gen
	logger.Info("agent ready", "provider", cfg.Provider, "model", model)
	return b
}

// NewWithGenerator creates a Bridge over an existing Generator.
func NewWithGenerator(gen Generator, toolkit *Toolkit, topK int, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{gen: gen, toolkit: toolkit, topK: topK, logger: logger}
}

// Enabled reports whether Ask can reach a model.
func (b *Bridge) Enabled() bool { return b.gen != nil }

// Ask answers text. Any model or tool orchestration failure, as well as an
// empty answer, is returned as a *domain.AgentError.
func (b *Bridge) Ask(ctx context.Context, text string) (string, error) {
	if b.gen == nil {
		return "", domain.ErrAgent(b.disabled, "agent is not configured")
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrAgent(nil, "question is required")
	}

	start := time.Now()
	answer, err := b.gen.Generate(ctx, Instructions(b.topK), b.toolkit.agentTools(), text)
	if err != nil {
		b.logger.Warn("agent failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", domain.ErrAgent(err, "agent failed")
	}
	if strings.TrimSpace(answer) == "" {
		return "", domain.ErrAgent(nil, "agent returned an empty answer")
	}

	b.logger.Debug("agent answered", "duration_ms", time.Since(start).Milliseconds())
	return answer, nil
}
