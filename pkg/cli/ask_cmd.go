package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chinook-demo/internal/render"
)

func newAskCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ask <question>",
		Short:   "Ask a question about the dataset in plain language",
		Example: `  chinook ask "Which artist has the most albums?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			a, err := opts.openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			answer, err := a.Agent.Ask(cmd.Context(), question)
			if err != nil {
				return err
			}

			if wantJSON(cmd) {
				return render.PrintJSON(cmd.OutOrStdout(), map[string]string{"response": answer})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}
}
