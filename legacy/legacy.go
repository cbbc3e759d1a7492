// Package legacy provides the single hidden default Project that the
// reference engine's original EN_* global API relied on: one package-level
// instance, created on first use and reused thereafter.
//
// This mirrors spec.md §9's documented global-default-project note and is
// NOT safe for concurrent use from multiple goroutines — callers that need
// more than one network, or concurrent access, should build a *project.Project
// directly instead.
package legacy

import (
	"sync"

	"github.com/katalvlaran/hydronet/project"
)

var (
	once    sync.Once
	current *project.Project
)

// Default returns the package's single default Project, creating it with
// opts the first time it is called. Subsequent calls ignore opts and return
// the same instance, matching the original one-process-one-project
// assumption of the legacy API.
func Default(opts ...project.ProjectOption) *project.Project {
	once.Do(func() {
		current = project.New(opts...)
	})
	return current
}

// Reset discards the current default Project, allowing the next call to
// Default to construct a fresh one. Intended for tests and for callers that
// legitimately need to start a new network in the same process.
func Reset() {
	if current != nil {
		_ = current.Delete()
	}
	current = nil
	once = sync.Once{}
}
