package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"charm.land/fantasy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "chinook-demo/internal/db"
	"chinook-demo/internal/domain"
	"chinook-demo/internal/engine"
	"chinook-demo/internal/service/query"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newToolkit(t *testing.T) *Toolkit {
	t.Helper()
	db, _ := internaldb.OpenTestDataset(t)
	eng := engine.NewSQLiteEngine(db)
	return NewToolkit(eng, query.NewExecutor(eng, discardLogger()))
}

// fakeGenerator records what the bridge hands the model.
type fakeGenerator struct {
	GenerateFn   func(ctx context.Context, instructions string, tools []fantasy.AgentTool, prompt string) (string, error)
	instructions string
	tools        []fantasy.AgentTool
	prompt       string
}

func (f *fakeGenerator) Generate(ctx context.Context, instructions string, tools []fantasy.AgentTool, prompt string) (string, error) {
	f.instructions, f.tools, f.prompt = instructions, tools, prompt
	if f.GenerateFn != nil {
		return f.GenerateFn(ctx, instructions, tools, prompt)
	}
	panic("unexpected call to fakeGenerator.Generate")
}

func TestInstructions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Instructions(5), Instructions(5), "deterministic for a given limit")
	assert.Contains(t, Instructions(5), "at most 5 results")
	assert.Contains(t, Instructions(12), "at most 12 results")
	assert.Equal(t, Instructions(DefaultTopK), Instructions(0))
	assert.Contains(t, Instructions(5), "DO NOT make any DML statements")
}

func TestToolkit_ListTables(t *testing.T) {
	t.Parallel()
	k := newToolkit(t)

	got, err := k.ListTables(context.Background())
	require.NoError(t, err)
	assert.Contains(t, got, "Album, Artist")
	assert.Contains(t, got, "Track")
}

func TestToolkit_Schema(t *testing.T) {
	t.Parallel()
	k := newToolkit(t)

	got, err := k.Schema(context.Background(), "Artist, Genre")
	require.NoError(t, err)
	assert.Contains(t, got, "CREATE TABLE Artist")
	assert.Contains(t, got, "CREATE TABLE Genre")
	assert.Contains(t, got, "3 rows from Artist table:")

	_, err = k.Schema(context.Background(), "Nope")
	require.Error(t, err)

	_, err = k.Schema(context.Background(), " , ")
	require.Error(t, err)
}

func TestToolkit_Query(t *testing.T) {
	t.Parallel()
	k := newToolkit(t)

	got, err := k.Query(context.Background(), "select * from artist limit 2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["ArtistId","Name"],"rows":[["1","AC/DC"],["2","Accept"]],"row_count":2}`, got)

	_, err = k.Query(context.Background(), "selct * from artist")
	var qe *domain.QueryExecutionError
	require.ErrorAs(t, err, &qe)
}

func TestBridge_Ask(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{GenerateFn: func(context.Context, string, []fantasy.AgentTool, string) (string, error) {
		return "There are 5 artists.\n", nil
	}}
	b := NewWithGenerator(gen, newToolkit(t), 7, discardLogger())

	answer, err := b.Ask(context.Background(), "How many artists are there?")
	require.NoError(t, err)
	assert.Equal(t, "There are 5 artists.\n", answer, "answer returned unmodified")
	assert.Equal(t, "How many artists are there?", gen.prompt, "literal text is the sole prompt")
	assert.Equal(t, Instructions(7), gen.instructions)

	names := make([]string, 0, len(gen.tools))
	for _, tool := range gen.tools {
		names = append(names, tool.Info().Name)
	}
	assert.ElementsMatch(t, []string{ToolListTables, ToolSchema, ToolQuery}, names)
}

func TestBridge_ToolsReportErrorsToModel(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{GenerateFn: func(ctx context.Context, _ string, tools []fantasy.AgentTool, _ string) (string, error) {
		for _, tool := range tools {
			if tool.Info().Name != ToolQuery {
				continue
			}
			resp, err := tool.Run(ctx, fantasy.ToolCall{ID: "1", Name: ToolQuery, Input: `{"query":"selct 1"}`})
			if err != nil {
				return "", err
			}
			if !resp.IsError {
				return "", errors.New("expected tool error response")
			}
			return "recovered: " + resp.Content, nil
		}
		return "", errors.New("query tool missing")
	}}
	b := NewWithGenerator(gen, newToolkit(t), 5, discardLogger())

	answer, err := b.Ask(context.Background(), "break it")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer, "recovered: Error: "), answer)
	assert.Contains(t, answer, "syntax error")
}

func TestBridge_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		gen     Generator
		text    string
		wantMsg string
	}{
		{
			name: "model error",
			gen: &fakeGenerator{GenerateFn: func(context.Context, string, []fantasy.AgentTool, string) (string, error) {
				return "", errors.New("429 rate limited")
			}},
			text:    "hi",
			wantMsg: "agent failed: 429 rate limited",
		},
		{
			name: "empty answer",
			gen: &fakeGenerator{GenerateFn: func(context.Context, string, []fantasy.AgentTool, string) (string, error) {
				return "  \n", nil
			}},
			text:    "hi",
			wantMsg: "agent returned an empty answer",
		},
		{
			name:    "blank question",
			gen:     &fakeGenerator{},
			text:    "   ",
			wantMsg: "question is required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := NewWithGenerator(tc.gen, &Toolkit{}, 5, discardLogger())

			_, err := b.Ask(context.Background(), tc.text)
			var ae *domain.AgentError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tc.wantMsg, ae.Message)
		})
	}
}

func TestBridge_MissingKeyIsDisabled(t *testing.T) {
	t.Parallel()

	b := New(context.Background(), Config{Provider: ProviderOpenAI}, &Toolkit{}, discardLogger())
	assert.False(t, b.Enabled())

	_, err := b.Ask(context.Background(), "How many artists?")
	var ae *domain.AgentError
	require.ErrorAs(t, err, &ae)
	assert.True(t, strings.HasPrefix(ae.Message, "agent is not configured"))
}

func TestBridge_UnsupportedProviderIsDisabled(t *testing.T) {
	t.Parallel()

	b := New(context.Background(), Config{Provider: "llama", APIKey: "k"}, &Toolkit{}, discardLogger())
	assert.False(t, b.Enabled())

	_, err := b.Ask(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported agent provider "llama"`)
}

func TestDefaultModel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "gpt-4o", DefaultModel(ProviderOpenAI))
	assert.Equal(t, "gpt-4o", DefaultModel(""))
	assert.Equal(t, "claude-haiku-4-5", DefaultModel(ProviderAnthropic))
}
