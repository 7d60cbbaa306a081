// Package targets expands user-specified files, directories, and glob
// patterns into per-engine sets of absolute file paths, honoring each
// engine's inclusion and exclusion patterns.
package targets
