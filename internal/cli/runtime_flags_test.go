package cli

import (
	"reflect"
	"testing"

	"github.com/example/threat-exposure/internal/config"
	"github.com/spf13/cobra"
)

func TestRuntimeFlagSetToOverrides(t *testing.T) {
	enabled := true

	tests := []struct {
		name     string
		setup    func(*cobra.Command)
		args     []string
		expected config.Overrides
	}{
		{
			name:     "no flags changed returns empty overrides",
			setup:    func(cmd *cobra.Command) {},
			expected: config.Overrides{},
		},
		{
			name: "repeated models flag",
			setup: func(cmd *cobra.Command) {
				cmd.Flags().Set("models", "models/*.json")
				cmd.Flags().Set("models", "legacy/{a,b}.yml")
			},
			expected: config.Overrides{
				Models: []string{"models/*.json", "legacy/{a,b}.yml"},
			},
		},
		{
			name: "positional args extend models",
			setup: func(cmd *cobra.Command) {
				cmd.Flags().Set("models", "a.json")
			},
			args: []string{"b.json", "c.json"},
			expected: config.Overrides{
				Models: []string{"a.json", "b.json", "c.json"},
			},
		},
		{
			name:  "positional args alone",
			setup: func(cmd *cobra.Command) {},
			args:  []string{"b.json"},
			expected: config.Overrides{
				Models: []string{"b.json"},
			},
		},
		{
			name: "models-file flag changed",
			setup: func(cmd *cobra.Command) {
				cmd.Flags().Set("models-file", "/path/to/models.txt")
			},
			expected: config.Overrides{
				ModelsFile: "/path/to/models.txt",
			},
		},
		{
			name: "output flag changed",
			setup: func(cmd *cobra.Command) {
				cmd.Flags().Set("output", "reports/exposure.json")
			},
			expected: config.Overrides{
				Output: "reports/exposure.json",
			},
		},
		{
			name: "log-format flag changed",
			setup: func(cmd *cobra.Command) {
				cmd.Flags().Set("log-format", "json")
			},
			expected: config.Overrides{
				LogFormat: "json",
			},
		},
		{
			name: "fail-on-load-error flag changed",
			setup: func(cmd *cobra.Command) {
				cmd.Flags().Set("fail-on-load-error", "true")
			},
			expected: config.Overrides{
				FailOnLoadError: &enabled,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			flags := &runtimeFlagSet{}
			bindRuntimeFlags(cmd, flags)

			tt.setup(cmd)
			got := flags.toOverrides(cmd, tt.args)

			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("toOverrides() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestBindRuntimeFlagsDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	bindRuntimeFlags(cmd, &runtimeFlagSet{})

	defaults := map[string]string{
		"models":             "[]",
		"models-file":        "",
		"output":             config.DefaultOutput,
		"log-format":         config.LogFormatText,
		"fail-on-load-error": "false",
	}
	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("flag %s not registered", name)
		}
		if flag.DefValue != want {
			t.Errorf("flag %s default = %q, want %q", name, flag.DefValue, want)
		}
	}
}
