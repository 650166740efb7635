package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"chinook-demo/internal/config"
	"chinook-demo/internal/render"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
	}

	cmd.AddCommand(newConfigShowCmd(opts))
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigShowCmd(opts *globalOptions) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the resolved configuration",
		Long:  "Display the configuration after layering flags, environment variables and the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolveConfig(cmd)
			if err != nil {
				return err
			}
			if !reveal {
				cfg = maskConfig(cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if wantJSON(cmd) {
				var doc map[string]interface{}
				if err := yaml.Unmarshal(data, &doc); err != nil {
					return fmt.Errorf("convert config: %w", err)
				}
				return render.PrintJSON(cmd.OutOrStdout(), doc)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show sensitive values unmasked")

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Write a config file with the default settings",
		Example: `  chinook config init --out chinook.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(out); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to replace it)", out)
			}

			cfg := &config.Config{
				DatasetName: config.DefaultDatasetName,
				DatasetURL:  config.DefaultDatasetURL,
				Engine:      config.EngineSQLite,
				ListenAddr:  config.DefaultListenAddr,
				LogLevel:    "info",
				Env:         "development",
				Agent: config.AgentConfig{
					Provider: config.ProviderOpenAI,
					TopK:     config.DefaultTopK,
				},
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "chinook.yaml", "Destination file")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")

	return cmd
}

// maskConfig returns a copy of the config with sensitive fields masked.
func maskConfig(cfg *config.Config) *config.Config {
	masked := *cfg
	masked.Agent.OpenAIAPIKey = maskSecret(cfg.Agent.OpenAIAPIKey)
	masked.Agent.AnthropicAPIKey = maskSecret(cfg.Agent.AnthropicAPIKey)
	masked.Storage.S3Secret = maskSecret(cfg.Storage.S3Secret)
	masked.Storage.AzureAccountKey = maskSecret(cfg.Storage.AzureAccountKey)
	return &masked
}

// maskSecret masks a sensitive string, showing first 4 and last 4 chars.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 10 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
