package cli

import (
	"github.com/example/threat-exposure/internal/config"
	"github.com/spf13/cobra"
)

// runtimeFlagSet tracks analysis flags before they are converted into config overrides.
type runtimeFlagSet struct {
	models          []string
	modelsFile      string
	output          string
	logFormat       string
	failOnLoadError bool
}

func bindRuntimeFlags(cmd *cobra.Command, flags *runtimeFlagSet) {
	cmd.Flags().StringArrayVar(&flags.models, "models", nil, "Model file pattern (repeatable; glob syntax, ** matches directories)")
	cmd.Flags().StringVar(&flags.modelsFile, "models-file", "", "Path to a file with one model pattern per line")
	cmd.Flags().StringVar(&flags.output, "output", config.DefaultOutput, "Where to write the exposure report")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", config.LogFormatText, "Progress output: text or json (NDJSON events)")
	cmd.Flags().BoolVar(&flags.failOnLoadError, "fail-on-load-error", false, "Exit non-zero after writing the report if any model failed to load")
}

// toOverrides converts changed flags into overrides. Positional arguments
// are extra model patterns, so "--models a.json b.json" keeps working after
// shell expansion.
func (f runtimeFlagSet) toOverrides(cmd *cobra.Command, args []string) config.Overrides {
	ov := config.Overrides{}
	if cmd.Flags().Changed("models") || len(args) > 0 {
		ov.Models = append(append([]string(nil), f.models...), args...)
	}

	if cmd.Flags().Changed("models-file") {
		ov.ModelsFile = f.modelsFile
	}

	if cmd.Flags().Changed("output") {
		ov.Output = f.output
	}

	if cmd.Flags().Changed("log-format") {
		ov.LogFormat = f.logFormat
	}

	if cmd.Flags().Changed("fail-on-load-error") {
		ov.FailOnLoadError = &f.failOnLoadError
	}

	return ov
}
