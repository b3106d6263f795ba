package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"

	"github.com/blacktop/bytebun/internal/utils"
	"github.com/blacktop/bytebun/pkg/jar"
)

// Executor runs a resolved module order over artifacts.
//
// Artifacts are processed one after the other and each gets its own Facts
// and its own class repository; nothing is shared between them.
type Executor struct {
	Config *Config

	order []Module
	open  func(path string) (Artifact, error)
	stats *ExecutionStats
}

// NewExecutor resolves the requested modules of universe. Configuration
// errors (unresolved dependencies, cycles) are returned here, before any
// artifact is touched.
func NewExecutor(universe []Module, cfg *Config) (*Executor, error) {
	order, err := Resolve(universe, cfg.Modules)
	if err != nil {
		return nil, err
	}
	e := &Executor{
		Config: cfg,
		order:  order,
		stats:  &ExecutionStats{},
	}
	e.open = func(path string) (Artifact, error) {
		var opts []jar.Option
		if cfg.CacheSize > 0 {
			opts = append(opts, jar.WithCacheSize(cfg.CacheSize))
		}
		return jar.Open(path, opts...)
	}
	return e, nil
}

// SetOpener replaces how artifact paths are opened
func (e *Executor) SetOpener(open func(path string) (Artifact, error)) {
	e.open = open
}

// Order returns the resolved run order
func (e *Executor) Order() []Module {
	return e.order
}

// Stats returns execution statistics
func (e *Executor) Stats() *ExecutionStats {
	return e.stats
}

// Run analyzes every path and returns one Facts per artifact that could be
// opened. Artifacts that fail to open are logged and left out. The context is
// checked between modules; a module that has started always runs to completion.
func (e *Executor) Run(ctx context.Context, paths []string) ([]*Facts, error) {
	e.stats.StartTime = time.Now()
	defer func() {
		e.stats.EndTime = time.Now()
		if e.Config.Verbose {
			log.Info("Execution statistics:")
			log.Info(e.stats.Summary())
		}
	}()

	var results []*Facts
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		art, err := e.open(path)
		if err != nil {
			log.WithError(err).Errorf("Failed to open %s", path)
			e.stats.Errors = append(e.stats.Errors, fmt.Errorf("%s: %w", path, err))
			continue
		}
		facts, err := e.Analyze(ctx, art)
		if cerr := art.Close(); cerr != nil {
			log.WithError(cerr).Warnf("Failed to close %s", path)
		}
		results = append(results, facts)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Analyze runs the module order over a single artifact
func (e *Executor) Analyze(ctx context.Context, art Artifact) (*Facts, error) {
	as := newArtifactStats(art.Path())
	e.stats.Artifacts = append(e.stats.Artifacts, as)
	defer func() { as.EndTime = time.Now() }()

	facts := NewFacts()
	source := sourceFacts(art)
	facts.Set("source", source)
	log.WithFields(log.Fields{
		"classes": source["classes"],
		"other":   source["other"],
		"size":    humanize.Bytes(uint64(art.Size())),
	}).Infof("Analyzing %s", art.Path())

	for _, m := range e.order {
		as.States[m.Name()] = StatePending
	}

	available := make(map[string]bool)
	for _, m := range e.order {
		if err := ctx.Err(); err != nil {
			return facts, err
		}

		var missing []string
		for _, dep := range m.Depends() {
			if !available[dep] {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			if e.Config.Verbose {
				utils.Indent(log.Warn, 2)(fmt.Sprintf("Dependencies failed for %s: Missing %v", m.Name(), missing))
			}
			as.States[m.Name()] = StateSkipped
			as.Missing[m.Name()] = missing
			continue
		}

		snapshot := facts.Snapshot()
		start := time.Now()
		err := e.act(m, facts, art)
		as.Durations[m.Name()] = time.Since(start)
		if err != nil {
			if e.Config.Verbose {
				utils.Indent(log.WithError(err).Warn, 2)(fmt.Sprintf("Failed to run %s", m.Name()))
			}
			facts.Restore(snapshot)
			as.States[m.Name()] = StateFailed
			as.Errors[m.Name()] = err
			continue
		}

		for _, fact := range m.Provides() {
			available[fact] = true
		}
		as.States[m.Name()] = StateOK
		log.WithField("took", as.Durations[m.Name()].Round(time.Millisecond)).Debugf("Ran %s", m.Name())
	}

	return facts, nil
}

// act calls the module, turning a panic into an error
func (e *Executor) act(m Module, facts *Facts, repo Repository) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrModuleFailed, m.Name(), r)
		}
	}()
	if err := m.Act(facts, repo, e.Config.Verbose); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrModuleFailed, m.Name(), err)
	}
	return nil
}

func sourceFacts(art Artifact) map[string]any {
	classes := len(art.Classes())
	return map[string]any{
		"file":    art.Path(),
		"classes": classes,
		"other":   len(art.Entries()) - classes,
		"size":    art.Size(),
	}
}
