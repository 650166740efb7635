package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"chinook-demo/internal/render"
)

func newQueryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run one SQL statement and print the result",
		Long: `Run one SQL statement against the dataset.

A failing statement prints an error line and still exits 0, like the shell.
With -o json or -o plain the result is printed as JSON or as a bare table,
and a failure exits 1.`,
		Example: `  chinook query "SELECT * FROM Artist LIMIT 3"
  chinook query -o json "SELECT COUNT(*) FROM Track"
  chinook query -o plain "SELECT Name FROM Genre" | tail -n +2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlQuery := strings.Join(args, " ")

			a, err := opts.openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			outcome, runErr := a.Executor.Run(cmd.Context(), sqlQuery)

			switch getOutputFormat(cmd) {
			case outputJSON:
				table, err := a.Presenter.Render(outcome, runErr, render.Structured)
				if err != nil {
					return err
				}
				return render.PrintJSON(cmd.OutOrStdout(), table)
			case outputPlain:
				table, err := a.Presenter.Render(outcome, runErr, render.Structured)
				if err != nil {
					return err
				}
				render.PrintTable(cmd.OutOrStdout(), table.Columns, table.Rows)
				return nil
			}

			_, _ = a.Presenter.Render(outcome, runErr, render.Interactive)
			return nil
		},
	}
}
