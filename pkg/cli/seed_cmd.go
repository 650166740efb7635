package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chinook-demo/internal/config"
	"chinook-demo/internal/db"
	"chinook-demo/internal/render"
)

func newSeedCmd(opts *globalOptions) *cobra.Command {
	var (
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the offline sample dataset",
		Long: `Build a small Chinook subset (Artist, Album, Genre, MediaType, Track) from the
embedded migrations. Point --dataset at the result to work without network access.`,
		Example: `  chinook seed --out chinook.db
  chinook --dataset chinook.db query "SELECT * FROM Genre"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = opts.dataset
			}
			if out == "" {
				out = config.DefaultDatasetName
			}

			if _, err := os.Stat(out); err == nil {
				if !force {
					return fmt.Errorf("%s already exists (use --force to replace it)", out)
				}
				if err := os.Remove(out); err != nil {
					return fmt.Errorf("remove %s: %w", out, err)
				}
			}

			if err := db.Seed(cmd.Context(), out); err != nil {
				return fmt.Errorf("seed %s: %w", out, err)
			}

			if wantJSON(cmd) {
				return render.PrintJSON(cmd.OutOrStdout(), map[string]string{"path": out})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded sample dataset at %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Destination file (default --dataset or chinook.db)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")
	return cmd
}
