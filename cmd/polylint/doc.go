// Package polylint provides the command-line interface for the polylint
// tool. It configures subcommands (run, rules, update, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/polylint/polylint/cmd/polylint"
//	func main() { polylint.Execute() }
package polylint
