package modules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/pkg/classfile"
	"github.com/blacktop/bytebun/pkg/classfile/classtest"
	"github.com/blacktop/bytebun/pkg/jar"
)

const (
	static   = classfile.AccPublic | classfile.AccStatic
	public   = classfile.AccPublic
	abstract = classfile.AccPublic | classfile.AccAbstract
)

func asm() *classtest.Asm {
	return &classtest.Asm{}
}

// newRepo builds an in-memory jar from class builders keyed by name plus raw resources
func newRepo(t *testing.T, classes map[string]*classtest.Builder, resources map[string][]byte) *jar.Archive {
	t.Helper()
	files := make(map[string][]byte, len(classes)+len(resources))
	for name, b := range classes {
		files[name+".class"] = b.Bytes()
	}
	for name, data := range resources {
		files[name] = data
	}
	repo, err := jar.NewMemory(files)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func act(t *testing.T, m analysis.Module, facts *analysis.Facts, repo analysis.Repository) error {
	t.Helper()
	return m.Act(facts, repo, true)
}

// plain returns an empty class
func plain(name, super string) *classtest.Builder {
	return classtest.New(name, super)
}
