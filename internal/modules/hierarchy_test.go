package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/internal/modules"
	"github.com/blacktop/bytebun/pkg/classfile/classtest"
)

func TestHierarchy(t *testing.T) {
	repo := newRepo(t, map[string]*classtest.Builder{
		"a": plain("a", "java/lang/Object"),
		"b": plain("b", "a"),
		"c": plain("c", "b"),
	}, nil)
	h := modules.NewHierarchy(repo)

	parent, err := h.Parent("c")
	require.NoError(t, err)
	assert.Equal(t, "b", parent)

	parent, err = h.Parent("a")
	require.NoError(t, err)
	assert.Equal(t, modules.NoSuperclass, parent)

	parent, err = h.Parent("java/lang/Object")
	require.NoError(t, err)
	assert.Equal(t, modules.NoSuperclass, parent)

	root, err := h.Root("c")
	require.NoError(t, err)
	assert.Equal(t, "a", root)

	assert.True(t, h.Contains("b"))
	assert.False(t, h.Contains("java/lang/Object"))
}
