package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"chinook-demo/internal/app"
	"chinook-demo/internal/config"
	"chinook-demo/internal/domain"
	"chinook-demo/internal/render"
)

var (
	version = "dev"
	commit  = "none"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dataset    string
	datasetURL string
	engine     string
	output     string
	verbose    bool
}

// Execute runs the CLI against the process's standard streams. An interrupt
// cancels the running query or question.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == outputJSON {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			if kind := errorKind(err); kind != "" {
				errObj["kind"] = kind
			}
			_ = render.PrintJSON(stdout, errObj)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err) //nolint:errcheck
		}
		return 1
	}
	return 0
}

// errorKind names the domain error class for machine-readable output.
func errorKind(err error) string {
	var (
		qe *domain.QueryExecutionError
		ae *domain.AgentError
		pe *domain.ProvisioningError
		ve *domain.ValidationError
	)
	switch {
	case errors.As(err, &qe):
		return "query_execution"
	case errors.As(err, &ae):
		return "agent"
	case errors.As(err, &pe):
		return "provisioning"
	case errors.As(err, &ve):
		return "validation"
	default:
		return ""
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "chinook",
		Short:         "Query the Chinook sample dataset",
		Long:          "Run SQL against the Chinook sample dataset, open an interactive shell, or ask questions in plain language.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOutputFormat(opts.output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $CHINOOK_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.dataset, "dataset", "", "Local dataset file (default $DATASET_NAME or chinook.db)")
	rootCmd.PersistentFlags().StringVar(&opts.datasetURL, "dataset-url", "", "Location the dataset is fetched from when the file is absent")
	rootCmd.PersistentFlags().StringVar(&opts.engine, "engine", "", "SQL engine (sqlite, duckdb)")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "Output format (table, json, plain)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug diagnostics to stderr")

	rootCmd.AddCommand(newQueryCmd(opts))
	rootCmd.AddCommand(newShellCmd(opts))
	rootCmd.AddCommand(newAskCmd(opts))
	rootCmd.AddCommand(newSeedCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// resolveConfig layers flags over env over the config file.
func (o *globalOptions) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path := o.configPath
	if path == "" {
		path = os.Getenv("CHINOOK_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	overrideString(flags, "dataset", &cfg.DatasetName, o.dataset)
	overrideString(flags, "dataset-url", &cfg.DatasetURL, o.datasetURL)
	overrideString(flags, "engine", &cfg.Engine, strings.ToLower(o.engine))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overrideString sets dst when the flag was given explicitly, so an empty
// flag value still wins over the environment.
func overrideString(flags *pflag.FlagSet, name string, dst *string, value string) {
	if flags.Changed(name) {
		*dst = value
	}
}

// newLogger writes diagnostics to stderr, quietly unless --verbose is set.
func (o *globalOptions) newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// openApp resolves the configuration and wires the application. The caller
// closes the returned App.
func (o *globalOptions) openApp(ctx context.Context, cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := o.newLogger(cmd)
	for _, w := range cfg.Warnings {
		logger.Warn("config warning", "warning", w)
	}
	return app.New(ctx, app.Deps{
		Cfg:    cfg,
		Logger: logger,
		Out:    cmd.OutOrStdout(),
	})
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
