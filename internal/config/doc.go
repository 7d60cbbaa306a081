// Package config loads polylint's YAML configuration files. Precedence is
// resolved by the CLI layer: flags beat the repo-local file, which beats the
// global file.
package config
