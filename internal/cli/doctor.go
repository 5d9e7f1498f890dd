package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/example/threat-exposure/internal/config"
	"github.com/example/threat-exposure/internal/exposure"
	"github.com/spf13/cobra"
)

type doctorCheck struct {
	Name   string
	Status string // "✓", "✗" or "⊘"
	Detail string
	Error  error
}

func newDoctorCmd(loader *config.Loader) *cobra.Command {
	flags := &runtimeFlagSet{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration, model patterns, and the report destination",
		Long: `The doctor subcommand checks that a run would succeed without scoring anything:
- Go runtime version
- Configuration validity
- Which files each model pattern matches
- Whether the report destination is writable`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loader.Load(flags.toOverrides(cmd, args))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			checks := runDoctorChecks(&cfg)
			printDoctorReport(cmd, checks)

			for _, check := range checks {
				if check.Error != nil {
					return fmt.Errorf("doctor checks failed")
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "\n✓ All checks passed. Ready to analyze.")
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)

	return cmd
}

func runDoctorChecks(cfg *config.RuntimeConfig) []doctorCheck {
	checks := []doctorCheck{checkGoVersion()}

	configCheck := checkConfiguration(cfg)
	checks = append(checks, configCheck)
	if configCheck.Error != nil {
		return checks
	}

	checks = append(checks, checkPatterns(cfg.Models)...)
	checks = append(checks, checkOutputPath(cfg.Output))

	return checks
}

func checkGoVersion() doctorCheck {
	return doctorCheck{
		Name:   "Go Runtime",
		Status: "✓",
		Detail: fmt.Sprintf("Version %s", runtime.Version()),
	}
}

func checkConfiguration(cfg *config.RuntimeConfig) doctorCheck {
	if err := cfg.Validate(); err != nil {
		return doctorCheck{
			Name:   "Configuration",
			Status: "✗",
			Detail: "Invalid configuration",
			Error:  err,
		}
	}

	return doctorCheck{
		Name:   "Configuration",
		Status: "✓",
		Detail: fmt.Sprintf("%d patterns, output=%s, log-format=%s", len(cfg.Models), cfg.Output, cfg.LogFormat),
	}
}

// checkPatterns reports each pattern's match count. A pattern without
// matches is not an error, since a run treats it as contributing nothing.
func checkPatterns(patterns []string) []doctorCheck {
	var checks []doctorCheck
	for _, pattern := range patterns {
		check := doctorCheck{Name: fmt.Sprintf("Pattern: %s", pattern)}

		matches, err := exposure.ExpandPattern(pattern)
		switch {
		case err != nil:
			check.Status = "✗"
			check.Detail = "Invalid pattern"
			check.Error = err
		case len(matches) == 0:
			check.Status = "⊘"
			check.Detail = "No matching files"
		default:
			check.Status = "✓"
			check.Detail = fmt.Sprintf("%d files", len(matches))
		}

		checks = append(checks, check)
	}
	return checks
}

func checkOutputPath(output string) doctorCheck {
	check := doctorCheck{Name: "Report Destination", Detail: output}

	if info, err := os.Stat(output); err == nil && info.IsDir() {
		check.Status = "✗"
		check.Error = fmt.Errorf("%s is a directory", output)
		return check
	}

	dir, err := nearestExistingDir(filepath.Dir(output))
	if err != nil {
		check.Status = "✗"
		check.Error = err
		return check
	}

	probe, err := os.CreateTemp(dir, ".exposure-probe-*")
	if err != nil {
		check.Status = "✗"
		check.Error = err
		return check
	}
	probe.Close()
	os.Remove(probe.Name())

	if dir != filepath.Dir(output) {
		check.Detail = fmt.Sprintf("%s (directories under %s will be created)", output, dir)
	}
	check.Status = "✓"
	return check
}

// nearestExistingDir walks up from dir to the first path that exists and
// fails if that path is not a directory.
func nearestExistingDir(dir string) (string, error) {
	for {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			return dir, nil
		case err == nil:
			return "", fmt.Errorf("%s is not a directory", dir)
		case !errors.Is(err, os.ErrNotExist):
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no existing parent directory for %s", dir)
		}
		dir = parent
	}
}

func printDoctorReport(cmd *cobra.Command, checks []doctorCheck) {
	fmt.Fprintln(cmd.OutOrStdout(), "Running environment diagnostics...")

	for _, check := range checks {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-30s %s\n", check.Status, check.Name+":", check.Detail)
		if check.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "   Error: %v\n", check.Error)
		}
	}
}
