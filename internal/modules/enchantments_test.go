package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/internal/analysis"
	"github.com/blacktop/bytebun/internal/modules"
	"github.com/blacktop/bytebun/pkg/classfile"
	"github.com/blacktop/bytebun/pkg/classfile/classtest"
)

func TestEnchantments(t *testing.T) {
	b := plain("alk", "java/lang/Object")
	var code classtest.Asm
	for _, s := range []string{"PROTECTION", "protection", "FIRE_PROTECTION", "fire_protection", "sweeping"} {
		code.Ldc(b.String(s)).Op(classfile.OpPop)
	}
	code.Ldc(b.Integer(100_000)).Op(classfile.OpPop, classfile.OpReturn)

	b.Method(public, "<init>", "()V", asm().Op(classfile.OpReturn).Bytes())
	b.Method(static, "<clinit>", "()V", code.Bytes())
	repo := newRepo(t, map[string]*classtest.Builder{"alk": b}, nil)

	facts := analysis.NewFacts()
	facts.Ensure("classes")["enchantments"] = "alk"
	require.NoError(t, act(t, &modules.EnchantmentsModule{}, facts, repo))

	got, ok := facts.Get("enchantments")
	require.True(t, ok)
	assert.Equal(t, []any{"protection", "fire_protection", "sweeping"}, got)
}

func TestEnchantmentsNotIdentified(t *testing.T) {
	repo := newRepo(t, nil, nil)
	err := act(t, &modules.EnchantmentsModule{}, analysis.NewFacts(), repo)
	var ae *analysis.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "enchantments", ae.Module)
}

func TestEnchantmentsNoConstants(t *testing.T) {
	b := plain("alk", "java/lang/Object")
	b.Method(static, "<clinit>", "()V", asm().Op(classfile.OpReturn).Bytes())
	repo := newRepo(t, map[string]*classtest.Builder{"alk": b}, nil)

	facts := analysis.NewFacts()
	facts.Ensure("classes")["enchantments"] = "alk"
	assert.Error(t, act(t, &modules.EnchantmentsModule{}, facts, repo))
}
