// Package orchestrator is the coordination core of polylint. It routes
// filtered rules and resolved targets to eligible engines, runs them
// concurrently, and merges their results into one report. This package is
// internal; external consumers should use the stable facade in pkg/core.
package orchestrator
