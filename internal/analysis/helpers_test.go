package analysis_test

import (
	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/pkg/jar"
)

func mod(name string, provides, depends []string, act func(*analysis.Facts, analysis.Repository, bool) error) analysis.Module {
	if act == nil {
		act = func(*analysis.Facts, analysis.Repository, bool) error { return nil }
	}
	return analysis.NewModuleFunc(name, name+" module", provides, depends, act)
}

func names(ms []analysis.Module) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Name())
	}
	return out
}

func memoryOpener(files map[string][]byte) func(string) (analysis.Artifact, error) {
	return func(string) (analysis.Artifact, error) {
		return jar.NewMemory(files)
	}
}
