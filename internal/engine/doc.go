// Package engine defines the capability contract for pluggable analysis
// backends. Concrete implementations live in subpackages; the orchestrator
// only sees this interface.
package engine
