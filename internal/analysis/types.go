package analysis

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the settings of a run
type Config struct {
	// Modules are the requested module names; empty means every module.
	Modules []string

	// Verbose is passed to every module and enables skip/failure diagnostics.
	Verbose bool

	// CacheSize is the number of parsed classes kept per artifact.
	CacheSize int
}

// ModuleState is the outcome of one module for one artifact
type ModuleState int

const (
	StatePending ModuleState = iota
	StateSkipped
	StateOK
	StateFailed
)

func (s ModuleState) String() string {
	return [...]string{
		"pending",
		"skipped",
		"ok",
		"failed",
	}[s]
}

// ArtifactStats records what happened to every module for one artifact.
type ArtifactStats struct {
	Path      string
	StartTime time.Time
	EndTime   time.Time

	States    map[string]ModuleState
	Missing   map[string][]string // skipped module -> unavailable dependencies
	Errors    map[string]error    // failed module -> error
	Durations map[string]time.Duration
}

func newArtifactStats(path string) *ArtifactStats {
	return &ArtifactStats{
		Path:      path,
		StartTime: time.Now(),
		States:    make(map[string]ModuleState),
		Missing:   make(map[string][]string),
		Errors:    make(map[string]error),
		Durations: make(map[string]time.Duration),
	}
}

// State returns the outcome of module; modules that were never scheduled are pending
func (a *ArtifactStats) State(module string) ModuleState {
	return a.States[module]
}

// Count returns how many modules ended in state
func (a *ArtifactStats) Count(state ModuleState) int {
	n := 0
	for _, s := range a.States {
		if s == state {
			n++
		}
	}
	return n
}

// ExecutionStats tracks executor metrics across artifacts.
type ExecutionStats struct {
	StartTime time.Time
	EndTime   time.Time
	Artifacts []*ArtifactStats
	// Errors are artifacts that could not be opened.
	Errors []error
}

// Duration returns the total execution time.
func (s *ExecutionStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Summary returns a human readable report
func (s *ExecutionStats) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "analyzed %d artifact(s) in %s", len(s.Artifacts), s.Duration().Round(time.Millisecond))
	for _, a := range s.Artifacts {
		fmt.Fprintf(&sb, "\n  %s: %d ok, %d skipped, %d failed (%s)",
			a.Path,
			a.Count(StateOK),
			a.Count(StateSkipped),
			a.Count(StateFailed),
			a.EndTime.Sub(a.StartTime).Round(time.Millisecond))
	}
	if len(s.Errors) > 0 {
		fmt.Fprintf(&sb, "\n  %d artifact(s) could not be opened", len(s.Errors))
	}
	return sb.String()
}
