package cli

import (
	"fmt"
	"os"

	"github.com/example/threat-exposure/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter exposure.config.yml",
		Long: `Write the merged configuration (defaults, environment and flags) to the
config path so later runs can omit the flags. Refuses to overwrite an
existing file unless --force is given.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := loader.ConfigPath
			if path == "" {
				path = config.DefaultConfigPath
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}

			// Start from defaults so an existing file is not merged into itself.
			base := config.Loader{ConfigPath: os.DevNull}
			cfg, err := base.Load(flags.toOverrides(cmd, args))
			if err != nil {
				return err
			}

			if len(cfg.Models) == 0 {
				cfg.Models = []string{"models/**/*.json"}
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := ensureParentDir(path); err != nil {
				return err
			}

			if err := config.WriteFile(path, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter configuration to %s\n", path)
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
