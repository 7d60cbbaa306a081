// Package core provides a small, stable facade over polylint's internal
// orchestrator for external integrations. It deliberately re-exports a
// narrow API surface so third-party tools can depend on a stable import path
// without exposing internal implementation packages.
//
// Example:
//
//	opts := core.Options{CatalogPaths: []string{"rules/"}, Targets: []string{"src/**/*.go"}}
//	results, err := core.Run(context.Background(), opts)
//	if err != nil { /* handle */ }
//	_ = core.MarshalResults(os.Stdout, results)
package core
