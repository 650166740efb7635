package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"chinook-demo/internal/domain"
	"chinook-demo/internal/service/query"
)

// Mode selects how a query outcome is presented.
type Mode int

const (
	// Interactive writes a human-readable rendering to the presenter's output.
	Interactive Mode = iota
	// Structured returns the tabular result for a machine-facing caller.
	Structured
)

func (m Mode) String() string {
	switch m {
	case Interactive:
		return "interactive"
	case Structured:
		return "structured"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// NoResultsNotice is printed instead of a table when a query returns no rows.
const NoResultsNotice = "No results found."

// Presenter renders query outcomes. It is safe for sequential use only.
type Presenter struct {
	out    io.Writer
	logger *slog.Logger

	header  *color.Color
	row     *color.Color
	notice  *color.Color
	failure *color.Color
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithColor forces styled output on or off. By default styling is enabled
// only when the output is a terminal.
func WithColor(enabled bool) Option {
	return func(p *Presenter) { p.setColor(enabled) }
}

// NewPresenter creates a Presenter writing interactive output to out and
// diagnostics to logger.
func NewPresenter(out io.Writer, logger *slog.Logger, opts ...Option) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Presenter{
		out:     out,
		logger:  logger,
		header:  color.New(color.FgMagenta, color.Bold),
		row:     color.New(color.FgGreen),
		notice:  color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	p.setColor(isTerminal(out))
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Presenter) setColor(enabled bool) {
	for _, c := range []*color.Color{p.header, p.row, p.notice, p.failure} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render presents the outcome of query.Executor.Run, given as the pair it
// returned.
//
// Structured mode returns the tabular result, or runErr for the caller to
// map. Interactive mode writes to the output and never fails the session:
// an execution failure prints an error line, and a rendering failure logs a
// *domain.RenderError and prints the raw result instead. Interactive mode
// still returns runErr so callers can pick an exit status.
func (p *Presenter) Render(outcome *query.Outcome, runErr error, mode Mode) (*domain.TabularResult, error) {
	if mode == Structured {
		if runErr != nil {
			return nil, runErr
		}
		if outcome == nil || outcome.Table == nil {
			return nil, &domain.RenderError{Err: errors.New("outcome has no tabular result")}
		}
		return outcome.Table, nil
	}

	if runErr != nil {
		p.failure.Fprintf(p.out, "Error: %s\n", runErr.Error()) //nolint:errcheck
		return nil, runErr
	}

	if err := p.renderInteractive(outcome); err != nil {
		rerr := &domain.RenderError{Err: err}
		p.logger.Error("render failed, showing raw result", "error", rerr)
		fmt.Fprintln(p.out, rawForm(outcome)) //nolint:errcheck
	}
	if outcome == nil {
		return nil, nil
	}
	return outcome.Table, nil
}

func (p *Presenter) renderInteractive(outcome *query.Outcome) error {
	if outcome == nil || outcome.Table == nil {
		return errors.New("outcome has no tabular result")
	}
	table := outcome.Table

	if table.RowCount == 0 {
		_, err := p.notice.Fprintln(p.out, NoResultsNotice)
		return err
	}

	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return fmt.Errorf("row %d has %d cells for %d columns", i, len(row), len(table.Columns))
		}
	}

	// Build the whole table first so a failed render writes nothing partial.
	widths := columnWidths(table.Columns, table.Rows)
	var buf bytes.Buffer
	_, _ = p.header.Fprintln(&buf, formatLine(table.Columns, widths))
	_, _ = p.header.Fprintln(&buf, separator(widths))
	for _, row := range table.Rows {
		p.row.Fprintln(&buf, formatLine(row, widths)) //nolint:errcheck
	}
	fmt.Fprintf(&buf, "%d row(s)\n", table.RowCount)

	_, err := p.out.Write(buf.Bytes())
	return err
}

func separator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	return strings.Join(parts, columnGap)
}

// rawForm is the unprocessed form of the outcome, used when the table
// cannot be shown.
func rawForm(outcome *query.Outcome) string {
	if outcome == nil {
		return "[]"
	}
	if outcome.Raw != nil {
		return outcome.Raw.String()
	}
	if outcome.Table != nil {
		return fmt.Sprint(outcome.Table.Rows)
	}
	return "[]"
}
