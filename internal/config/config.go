package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "exposure.config.yml"
	DefaultOutput     = "exposure.json"

	LogFormatText = "text"
	LogFormatJSON = "json"

	envModels          = "EXPOSURE_MODELS"
	envModelsFile      = "EXPOSURE_MODELS_FILE"
	envOutput          = "EXPOSURE_OUTPUT"
	envLogFormat       = "EXPOSURE_LOG_FORMAT"
	envFailOnLoadError = "EXPOSURE_FAIL_ON_LOAD_ERROR"
)

// Loader merges configuration coming from files, environment variables, and CLI flags.
type Loader struct {
	ConfigPath string
}

// RuntimeConfig contains the fully merged settings for an analysis run.
type RuntimeConfig struct {
	Models          []string
	Output          string
	LogFormat       string
	FailOnLoadError bool
}

// Overrides captures values coming from the config file, env vars or CLI flags.
type Overrides struct {
	Models          []string
	ModelsFile      string
	Output          string
	LogFormat       string
	FailOnLoadError *bool
}

// DefaultRuntimeConfig returns the baseline configuration when no overrides are provided.
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Output:    DefaultOutput,
		LogFormat: LogFormatText,
	}
}

// Load resolves the final runtime configuration. Later sources win:
// defaults, config file, environment, then overrides.
func (l Loader) Load(override Overrides) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	path := l.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	if fileExists(path) {
		fileOv, err := loadFromFile(path)
		if err != nil {
			return cfg, err
		}
		if err := cfg.apply(fileOv); err != nil {
			return cfg, err
		}
	}

	if err := cfg.apply(overridesFromEnv()); err != nil {
		return cfg, err
	}

	if err := cfg.apply(override); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate ensures the config contains the minimum required data for a run.
func (c RuntimeConfig) Validate() error {
	if len(c.Models) == 0 {
		return errors.New("no model patterns configured; provide --models, --models-file, or set EXPOSURE_MODELS")
	}

	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output path cannot be empty")
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("log format must be %q or %q (got %q)", LogFormatText, LogFormatJSON, c.LogFormat)
	}

	return nil
}

func (c *RuntimeConfig) apply(src Overrides) error {
	if len(src.Models) > 0 {
		c.Models = cleanList(src.Models)
	}

	if src.ModelsFile != "" {
		values, err := readModelsFile(src.ModelsFile)
		if err != nil {
			return err
		}
		c.Models = values
	}

	if src.Output != "" {
		c.Output = src.Output
	}

	if src.LogFormat != "" {
		c.LogFormat = strings.ToLower(strings.TrimSpace(src.LogFormat))
	}

	if src.FailOnLoadError != nil {
		c.FailOnLoadError = *src.FailOnLoadError
	}

	return nil
}

// fileConfig is the on-disk shape of exposure.config.yml.
type fileConfig struct {
	Models          patternList `yaml:"models"`
	ModelsFile      string      `yaml:"modelsFile,omitempty"`
	Output          string      `yaml:"output,omitempty"`
	LogFormat       string      `yaml:"logFormat,omitempty"`
	FailOnLoadError *bool       `yaml:"failOnLoadError,omitempty"`
}

// WriteFile stores cfg as a YAML config file that Load can read back.
func WriteFile(path string, cfg RuntimeConfig) error {
	failOnLoadError := cfg.FailOnLoadError
	data, err := yaml.Marshal(fileConfig{
		Models:          patternList(cfg.Models),
		Output:          cfg.Output,
		LogFormat:       cfg.LogFormat,
		FailOnLoadError: &failOnLoadError,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func loadFromFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Overrides{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	over := Overrides{
		Models:          raw.Models,
		ModelsFile:      raw.ModelsFile,
		Output:          raw.Output,
		LogFormat:       raw.LogFormat,
		FailOnLoadError: raw.FailOnLoadError,
	}

	// Relative models files are resolved against the config file's directory.
	if over.ModelsFile != "" && !filepath.IsAbs(over.ModelsFile) {
		over.ModelsFile = filepath.Join(filepath.Dir(path), over.ModelsFile)
	}

	return over, nil
}

func overridesFromEnv() Overrides {
	ov := Overrides{}

	if value := os.Getenv(envModels); value != "" {
		ov.Models = ParsePatternList(value)
	}

	if value := os.Getenv(envModelsFile); value != "" {
		ov.ModelsFile = value
	}

	if value := os.Getenv(envOutput); value != "" {
		ov.Output = value
	}

	if value := os.Getenv(envLogFormat); value != "" {
		ov.LogFormat = value
	}

	if value := os.Getenv(envFailOnLoadError); value != "" {
		parsed := strings.EqualFold(value, "true") || value == "1"
		ov.FailOnLoadError = &parsed
	}

	return ov
}

// ParsePatternList splits a list of glob patterns on newlines and the OS path
// list separator. Commas are left alone because they appear in brace patterns.
func ParsePatternList(input string) []string {
	return splitOnDelimiters(input, []rune{'\n', '\r', filepath.ListSeparator})
}

func splitOnDelimiters(input string, delims []rune) []string {
	if input == "" {
		return nil
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	separator := func(r rune) bool {
		for _, d := range delims {
			if r == d {
				return true
			}
		}
		return false
	}

	parts := strings.FieldsFunc(trimmed, separator)
	return cleanList(parts)
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		candidate := strings.TrimSpace(v)
		if candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}

func readModelsFile(path string) ([]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open models file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var patterns []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return patterns, nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// patternList enables YAML fields that can be specified as a scalar or sequence.
type patternList []string

func (p *patternList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var out []string
		for _, node := range value.Content {
			out = append(out, strings.TrimSpace(node.Value))
		}
		*p = cleanList(out)
	case yaml.ScalarNode:
		*p = ParsePatternList(value.Value)
	default:
		return fmt.Errorf("unsupported YAML type for models")
	}
	return nil
}
