package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for polylint. Pointer
// fields distinguish "unset" from zero values so CLI flags can take
// precedence over local config, which takes precedence over global config.
type FileConfig struct {
	// Catalog lists rule definition files or directories.
	Catalog []string `yaml:"catalog"`
	// Format is the default output format (table, json, csv, xml, junit, sarif).
	Format *string `yaml:"format"`
	// FailOn is the severity threshold for a non-zero exit (low|medium|high).
	FailOn *string `yaml:"fail_on"`
	// LogLevel configures diagnostic verbosity (debug, info, warn, error).
	LogLevel *string `yaml:"log_level"`
	// NoColor disables colorized output.
	NoColor *bool `yaml:"no_color"`
	// Baseline is the path of the accepted-violations file.
	Baseline *string `yaml:"baseline"`
	// EngineOptions is passed through to engines unfiltered.
	EngineOptions map[string]string `yaml:"engine_options"`
	// RegexPatterns overrides the built-in regex engine's target patterns.
	RegexPatterns []string `yaml:"regex_patterns"`
	// ExecEngines lists TOML definitions of external analyzer engines.
	ExecEngines []string `yaml:"exec_engines"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .polylint.yml/.yaml and polylint.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".polylint.yml", ".polylint.yaml", "polylint.yml", "polylint.yaml"} {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "polylint", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
