package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/internal/analysis"
)

var testFiles = map[string][]byte{
	"version.json":  []byte(`{"id":"1.14.4"}`),
	"pack.mcmeta":   []byte(`{}`),
	"a.class":       []byte("not parsed unless loaded"),
	"net/b/c.class": []byte("not parsed unless loaded"),
	"assets/x.json": []byte(`{}`),
	"assets/y.json": []byte(`{}`),
}

func run(t *testing.T, universe []analysis.Module, cfg *analysis.Config) (*analysis.Facts, *analysis.Executor) {
	t.Helper()
	e, err := analysis.NewExecutor(universe, cfg)
	require.NoError(t, err)
	e.SetOpener(memoryOpener(testFiles))
	results, err := e.Run(context.Background(), []string{"client.jar"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0], e
}

func TestExecutorOrder(t *testing.T) {
	var ran []string
	record := func(name string) func(*analysis.Facts, analysis.Repository, bool) error {
		return func(f *analysis.Facts, _ analysis.Repository, _ bool) error {
			ran = append(ran, name)
			f.Set(name, true)
			return nil
		}
	}
	universe := []analysis.Module{
		mod("Z", []string{"z"}, []string{"y"}, record("Z")),
		mod("Y", []string{"y"}, []string{"x"}, record("Y")),
		mod("X", []string{"x"}, nil, record("X")),
	}
	facts, _ := run(t, universe, &analysis.Config{})
	assert.Equal(t, []string{"X", "Y", "Z"}, ran)
	assert.Equal(t, []string{"X", "Y", "Z", "source"}, facts.Keys())
}

func TestExecutorSource(t *testing.T) {
	facts, _ := run(t, nil, &analysis.Config{})
	src, ok := facts.Map("source")
	require.True(t, ok)
	assert.Equal(t, "memory", src["file"])
	assert.Equal(t, 2, src["classes"])
	assert.Equal(t, 4, src["other"])
	assert.Positive(t, src["size"])
}

func TestExecutorRollback(t *testing.T) {
	var before analysis.Snapshot
	universe := []analysis.Module{
		mod("setup", []string{"setup"}, nil, func(f *analysis.Facts, _ analysis.Repository, _ bool) error {
			f.Ensure("classes")["x"] = "abc"
			f.Set("list", []any{"one", map[string]any{"n": 1}})
			return nil
		}),
		mod("broken", []string{"broken"}, []string{"setup"}, func(f *analysis.Facts, _ analysis.Repository, _ bool) error {
			before = f.Snapshot()
			f.Ensure("classes")["y"] = "def"
			f.Set("list", []any{})
			f.Set("partial", map[string]any{"half": true})
			f.Delete("source")
			return analysis.Failf("broken", "class %s has no fields", "abc")
		}),
	}
	facts, e := run(t, universe, &analysis.Config{Verbose: true})
	assert.Equal(t, map[string]any(before), facts.Data())

	stats := e.Stats().Artifacts[0]
	assert.Equal(t, analysis.StateOK, stats.State("setup"))
	assert.Equal(t, analysis.StateFailed, stats.State("broken"))
	err := stats.Errors["broken"]
	require.ErrorIs(t, err, analysis.ErrModuleFailed)
	var ae *analysis.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "broken", ae.Module)
}

func TestExecutorPanicRollsBack(t *testing.T) {
	universe := []analysis.Module{
		mod("panics", []string{"p"}, nil, func(f *analysis.Facts, _ analysis.Repository, _ bool) error {
			f.Set("p", 1)
			var m map[string]int
			m["boom"]++
			return nil
		}),
		mod("after", []string{"after"}, []string{"p"}, nil),
	}
	facts, e := run(t, universe, &analysis.Config{})
	_, ok := facts.Get("p")
	assert.False(t, ok)
	stats := e.Stats().Artifacts[0]
	assert.Equal(t, analysis.StateFailed, stats.State("panics"))
	assert.Equal(t, analysis.StateSkipped, stats.State("after"))
	assert.Equal(t, []string{"p"}, stats.Missing["after"])
}

func TestExecutorPartialFailure(t *testing.T) {
	errBoom := errors.New("boom")
	var ran []string
	ok := func(name string, key string) func(*analysis.Facts, analysis.Repository, bool) error {
		return func(f *analysis.Facts, _ analysis.Repository, _ bool) error {
			ran = append(ran, name)
			f.Set(key, name)
			return nil
		}
	}
	universe := []analysis.Module{
		mod("X", []string{"a"}, nil, ok("X", "a")),
		mod("Y", []string{"b"}, nil, func(*analysis.Facts, analysis.Repository, bool) error {
			ran = append(ran, "Y")
			return errBoom
		}),
		mod("usesA", []string{"ua"}, []string{"a"}, ok("usesA", "ua")),
		mod("usesB", []string{"ub"}, []string{"b"}, ok("usesB", "ub")),
		mod("usesBoth", []string{"uab"}, []string{"a", "b"}, ok("usesBoth", "uab")),
	}
	facts, e := run(t, universe, &analysis.Config{Verbose: true})
	assert.Equal(t, []string{"X", "Y", "usesA"}, ran)
	assert.Equal(t, []string{"a", "source", "ua"}, facts.Keys())

	stats := e.Stats().Artifacts[0]
	assert.Equal(t, analysis.StateOK, stats.State("X"))
	assert.Equal(t, analysis.StateFailed, stats.State("Y"))
	assert.ErrorIs(t, stats.Errors["Y"], errBoom)
	assert.Equal(t, analysis.StateSkipped, stats.State("usesB"))
	assert.Equal(t, analysis.StateSkipped, stats.State("usesBoth"))
	assert.Equal(t, []string{"b"}, stats.Missing["usesBoth"])
	assert.Equal(t, 2, stats.Count(analysis.StateOK))
	assert.Contains(t, e.Stats().Summary(), "2 ok, 2 skipped, 1 failed")
}

func TestExecutorConfigErrors(t *testing.T) {
	_, err := analysis.NewExecutor([]analysis.Module{
		mod("A", []string{"a"}, []string{"b"}, nil),
		mod("B", []string{"b"}, []string{"a"}, nil),
	}, &analysis.Config{})
	assert.ErrorIs(t, err, analysis.ErrDependencyCycle)

	_, err = analysis.NewExecutor([]analysis.Module{
		mod("A", []string{"a"}, []string{"nothing"}, nil),
	}, &analysis.Config{})
	assert.ErrorIs(t, err, analysis.ErrUnresolvedDependency)
}

func TestExecutorIndependentArtifacts(t *testing.T) {
	calls := 0
	universe := []analysis.Module{
		mod("count", []string{"count"}, nil, func(f *analysis.Facts, _ analysis.Repository, _ bool) error {
			calls++
			_, seen := f.Get("count")
			assert.False(t, seen)
			f.Set("count", calls)
			return nil
		}),
	}
	e, err := analysis.NewExecutor(universe, &analysis.Config{})
	require.NoError(t, err)
	e.SetOpener(func(path string) (analysis.Artifact, error) {
		if path == "missing.jar" {
			return nil, errors.New("no such file")
		}
		return memoryOpener(testFiles)(path)
	})
	results, err := e.Run(context.Background(), []string{"one.jar", "missing.jar", "two.jar"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	n, _ := results[0].Int("count")
	assert.Equal(t, 1, n)
	n, _ = results[1].Int("count")
	assert.Equal(t, 2, n)
	assert.Len(t, e.Stats().Errors, 1)
}

func TestExecutorCancelled(t *testing.T) {
	e, err := analysis.NewExecutor(chain(), &analysis.Config{})
	require.NoError(t, err)
	e.SetOpener(memoryOpener(testFiles))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := e.Run(ctx, []string{"client.jar"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}
