package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputPlain = "plain" // bare table, no colour or footer
)

var outputFormats = []string{outputTable, outputJSON, outputPlain}

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

// wantJSON reports whether the command should print machine-readable output.
func wantJSON(cmd *cobra.Command) bool {
	return getOutputFormat(cmd) == outputJSON
}

func validateOutputFormat(output string) error {
	if output == "" {
		return nil
	}
	for _, f := range outputFormats {
		if output == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q: use one of %s", output, strings.Join(outputFormats, ", "))
}
