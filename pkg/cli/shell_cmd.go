package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"chinook-demo/internal/app"
	"chinook-demo/internal/render"
)

const (
	shellPrompt         = "chinook> "
	shellContinuePrompt = "   ...> "
	// schemaSampleRows matches what the agent's schema tool shows.
	schemaSampleRows = 3
)

func newShellCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive SQL shell",
		Long: `Read SQL statements terminated by ';' and print each result.
A failing statement prints an error and the shell keeps running.
Type .help for the dot commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			sh := &shell{app: a, out: cmd.OutOrStdout()}
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// shell is the read-eval-print loop behind the shell command.
type shell struct {
	app *app.App
	out io.Writer
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	_, _ = fmt.Fprintf(s.out, "Connected to %s (%s)\n", s.app.DatasetPath, s.app.Engine.Dialect())
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var pending strings.Builder

	for {
		if pending.Len() > 0 {
			fmt.Fprint(s.out, shellContinuePrompt) //nolint:errcheck
		} else {
			fmt.Fprint(s.out, shellPrompt) //nolint:errcheck
		}

		if !scanner.Scan() {
			fmt.Fprintln(s.out) //nolint:errcheck
			return scanner.Err()
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Dot commands are only recognized at the start of a statement.
		if pending.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ".") {
			if quit := s.command(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
			continue
		}

		pending.WriteString(line)
		trimmed := strings.TrimSpace(pending.String())
		if !strings.HasSuffix(trimmed, ";") {
			pending.WriteString("\n")
			continue
		}
		pending.Reset()

		if strings.TrimSpace(strings.TrimSuffix(trimmed, ";")) == "" {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		outcome, err := s.app.Executor.Run(ctx, trimmed)
		_, _ = s.app.Presenter.Render(outcome, err, render.Interactive)
	}
}

// command runs a dot command and reports whether the shell should exit.
func (s *shell) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case ".quit", ".exit", ".q":
		return true
	case ".help", ".h":
		s.printHelp()
	case ".tables":
		tables, err := s.app.Engine.ListTables(ctx)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err) //nolint:errcheck
			return false
		}
		fmt.Fprintln(s.out, strings.Join(tables, "\n")) //nolint:errcheck
	case ".schema":
		if arg == "" {
			fmt.Fprintln(s.out, "Usage: .schema <table>") //nolint:errcheck
			return false
		}
		desc, err := s.app.Engine.DescribeTable(ctx, arg, schemaSampleRows)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err) //nolint:errcheck
			return false
		}
		fmt.Fprintln(s.out, desc) //nolint:errcheck
	case ".ask":
		if arg == "" {
			fmt.Fprintln(s.out, "Usage: .ask <question>") //nolint:errcheck
			return false
		}
		answer, err := s.app.Agent.Ask(ctx, arg)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err) //nolint:errcheck
			return false
		}
		fmt.Fprintln(s.out, answer) //nolint:errcheck
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type .help for commands)\n", name) //nolint:errcheck
	}
	return false
}

func (s *shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  .help             Show this help message
  .tables           List the tables in the dataset
  .schema <table>   Show a table's definition and sample rows
  .ask <question>   Ask a question in plain language
  .quit, .exit      Leave the shell

SQL statements end with ';' and may span several lines.
`) //nolint:errcheck
}
