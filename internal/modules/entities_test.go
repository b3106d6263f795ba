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

// entityTypeRegistry is the 1.14 shape:
//
//	static final aqe ZOMBIE = register("zombie", aqe$a.a(bcz::new));
func entityTypeRegistry() *classtest.Builder {
	b := plain("aqe", "java/lang/Object")
	metafactory := b.MethodHandle(classfile.RefInvokeStatic, b.Methodref(
		"java/lang/invoke/LambdaMetafactory", "metafactory",
		"(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodHandle;Ljava/lang/invoke/MethodType;)Ljava/lang/invoke/CallSite;"))
	create := b.Methodref("aqe$a", "a", "(Laqe$b;)Laqe$a;")
	register := b.Methodref("aqe", "a", "(Ljava/lang/String;Laqe$a;)Laqe;")

	var code classtest.Asm
	entity := func(name, class, field string) {
		bsm := b.Bootstrap(metafactory,
			b.MethodType("(Laqe;Lbhr;)Laio;"),
			b.MethodHandle(classfile.RefNewInvokeSpecial, b.Methodref(class, "<init>", "(Laqe;Lbhr;)V")),
			b.MethodType("(Laqe;Lbhr;)L"+class+";"))
		code.Ldc(b.String(name)).
			Invokedynamic(b.InvokeDynamic(bsm, "create", "()Laqe$b;")).
			U2(classfile.OpInvokestatic, create).
			U1(classfile.OpBipush, 64).
			Op(classfile.OpI2f).
			U2(classfile.OpInvokevirtual, b.Methodref("aqe$a", "a", "(F)Laqe$a;")).
			U2(classfile.OpInvokestatic, register).
			U2(classfile.OpPutstatic, b.Fieldref("aqe", field, "Laqe;"))
	}
	entity("pig", "bda", "PIG")
	entity("zombie", "bcz", "ZOMBIE")
	code.Op(classfile.OpReturn)
	b.Method(static, "<clinit>", "()V", code.Bytes())
	b.String("Skipping Entity with id {}")
	return b
}

func entityClasses() map[string]*classtest.Builder {
	return map[string]*classtest.Builder{
		"aio": plain("aio", "java/lang/Object"),
		"bcy": plain("bcy", "aio"),
		"bcz": plain("bcz", "bcy"),
		"bda": plain("bda", "bcy"),
	}
}

func TestEntitiesBuilderRegistry(t *testing.T) {
	classes := entityClasses()
	classes["aqe"] = entityTypeRegistry()
	repo := newRepo(t, classes, nil)

	facts := analysis.NewFacts()
	facts.Ensure("classes")["entity.list"] = "aqe"
	require.NoError(t, act(t, &modules.EntitiesModule{}, facts, repo))

	entity, ok := facts.Map("entities", "entity")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "pig", "class": "bda", "id": 0, "field": "PIG"}, entity["pig"])
	assert.Equal(t, map[string]any{"name": "zombie", "class": "bcz", "id": 1, "field": "ZOMBIE"}, entity["zombie"])
	assert.Equal(t, map[string]any{"name": modules.AbstractEntity, "class": "aio"}, entity[modules.AbstractEntity])
}

func TestEntitiesLegacyRegistry(t *testing.T) {
	b := plain("rf", "java/lang/Object")
	addMapping := b.Methodref("rf", "a", "(Ljava/lang/Class;Ljava/lang/String;III)V")
	register := b.Methodref("rf", "a", "(ILjava/lang/String;Ljava/lang/Class;Ljava/lang/String;)V")
	code := asm().
		Ldc(b.Class("bcz")).
		Ldc(b.String("Zombie")).
		U1(classfile.OpBipush, 54).
		U2(classfile.OpSipush, 44975).
		U2(classfile.OpSipush, 7969893&0x7fff).
		U2(classfile.OpInvokestatic, addMapping).
		U1(classfile.OpBipush, 90).
		Ldc(b.String("pig")).
		Ldc(b.Class("bda")).
		Ldc(b.String("Pig")).
		U2(classfile.OpInvokestatic, register).
		Op(classfile.OpReturn).
		Bytes()
	b.Method(static, "<clinit>", "()V", code)

	classes := entityClasses()
	classes["rf"] = b
	repo := newRepo(t, classes, nil)

	facts := analysis.NewFacts()
	facts.Ensure("classes")["entity.list"] = "rf"
	require.NoError(t, act(t, &modules.EntitiesModule{}, facts, repo))

	entity, _ := facts.Map("entities", "entity")
	assert.Equal(t, map[string]any{"name": "Zombie", "class": "bcz", "id": 54}, entity["Zombie"])
	assert.Equal(t, map[string]any{"name": "pig", "class": "bda", "id": 90, "old_name": "Pig"}, entity["pig"])
	abstract, _ := facts.String("entities", "entity", modules.AbstractEntity, "class")
	assert.Equal(t, "aio", abstract)
}

func TestEntitiesNothingRegistered(t *testing.T) {
	b := plain("rf", "java/lang/Object")
	b.Method(static, "<clinit>", "()V", asm().Op(classfile.OpReturn).Bytes())
	repo := newRepo(t, map[string]*classtest.Builder{"rf": b}, nil)

	facts := analysis.NewFacts()
	facts.Ensure("classes")["entity.list"] = "rf"
	assert.Error(t, act(t, &modules.EntitiesModule{}, facts, repo))
}
