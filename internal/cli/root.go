package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/example/threat-exposure/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

// Execute builds the root command tree and runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := &config.Loader{ConfigPath: config.DefaultConfigPath}
	return newRootCmd(loader).ExecuteContext(ctx)
}

func newRootCmd(loader *config.Loader) *cobra.Command {
	rootOpts := &rootOptions{}
	flags := &runtimeFlagSet{}

	rootCmd := &cobra.Command{
		Use:   "exposure --models <pattern> [<pattern> ...]",
		Short: "Score threat models and summarise their residual exposure",
		Long: `exposure reads threat-model documents (JSON, or YAML by extension), scores
every threat by severity, halves the score of mitigated threats and writes
the per-model totals to a JSON report.

Patterns are expanded with glob rules; "**" matches across directories.
Arguments after the flags are treated as additional patterns.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.Load(flags.toOverrides(cmd, args))
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runAnalysis(cmd, cfg)
		},
	}
	rootCmd.SetVersionTemplate("exposure version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", config.DefaultConfigPath, "Path to exposure.config.yml (optional)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if rootOpts.ConfigPath != "" {
			loader.ConfigPath = rootOpts.ConfigPath
		}
	}

	bindRuntimeFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newScoreCmd(),
		newReportCmd(),
		newDoctorCmd(loader),
		newInitCmd(loader),
	)

	return rootCmd
}

type rootOptions struct {
	ConfigPath string
}
