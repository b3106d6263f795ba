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

const (
	createKeyDesc = "(Ljava/lang/Class;Ldsz;)Ldp;"
	registerDesc  = "(Ldp;Ljava/lang/Object;)V"
)

// dataManager is the data tracker with its createKey and register methods
func dataManager() *classtest.Builder {
	b := plain("dm", "java/lang/Object")
	b.Method(static, "a", createKeyDesc, asm().Op(classfile.OpAconstNull, classfile.OpAreturn).Bytes())
	b.Method(public, "a", registerDesc, asm().
		U2(classfile.OpInvokestatic, b.Methodref("ds", "b", "(Ldsz;)I")).
		Op(classfile.OpPop).
		Ldc(b.String("Unregistered serializer ")).
		Op(classfile.OpPop, classfile.OpReturn).
		Bytes())
	return b
}

// dataSerializers is the serializer registry: fields a to d registered in order
func dataSerializers() *classtest.Builder {
	b := plain("ds", "java/lang/Object")
	register := b.Methodref("ds", "a", "(Ldsz;)V")
	code := asm()
	fields := []string{"a", "b", "c", "d"}
	for i, field := range fields {
		class := "ds$" + string(rune('1'+i))
		code.U2(classfile.OpNew, b.Class(class)).
			Op(classfile.OpDup).
			U2(classfile.OpInvokespecial, b.Methodref(class, "<init>", "()V")).
			U2(classfile.OpPutstatic, b.Fieldref("ds", field, "Ldsz;"))
	}
	for _, field := range fields {
		code.U2(classfile.OpGetstatic, b.Fieldref("ds", field, "Ldsz;")).
			U2(classfile.OpInvokestatic, register)
	}
	b.Method(static, "<clinit>", "()V", code.Op(classfile.OpReturn).Bytes())
	return b
}

func serializerClass(name, typ string) *classtest.Builder {
	return plain(name, "java/lang/Object").Signature("Ljava/lang/Object;Ldsz<" + typ + ">;")
}

// createKey emits `static final dp field = dm.createKey(cls.class, ds.serializer)`
func createKey(b *classtest.Builder, cls, field, serializer string) []byte {
	return asm().
		Ldc(b.Class(cls)).
		U2(classfile.OpGetstatic, b.Fieldref("ds", serializer, "Ldsz;")).
		U2(classfile.OpInvokestatic, b.Methodref("dm", "a", createKeyDesc)).
		U2(classfile.OpPutstatic, b.Fieldref(cls, field, "Ldp;")).
		Op(classfile.OpReturn).
		Bytes()
}

// registerData emits `super.x(); this.S.register(cls.field, <value>)`
func registerData(b *classtest.Builder, cls, super, field string, value *classtest.Asm) []byte {
	code := asm().
		Op(classfile.OpAload0).
		U2(classfile.OpInvokespecial, b.Methodref(super, "x", "()V")).
		Op(classfile.OpAload0).
		U2(classfile.OpGetfield, b.Fieldref("aio", "S", "Ldm;")).
		U2(classfile.OpGetstatic, b.Fieldref(cls, field, "Ldp;"))
	code.Raw(value.Bytes()...)
	return code.
		U2(classfile.OpInvokevirtual, b.Methodref("dm", "a", registerDesc)).
		Op(classfile.OpReturn).
		Bytes()
}

func baseEntity() *classtest.Builder {
	b := plain("aio", "java/lang/Object")
	b.Field(public, "S", "Ldm;")
	b.Method(static, "<clinit>", "()V", createKey(b, "aio", "Z", "a"))
	b.Method(public, "<init>", "()V", asm().
		Op(classfile.OpAload0).
		U2(classfile.OpInvokespecial, b.Methodref("java/lang/Object", "<init>", "()V")).
		Op(classfile.OpAload0).
		U2(classfile.OpNew, b.Class("dm")).
		Op(classfile.OpDup, classfile.OpAload0).
		U2(classfile.OpInvokespecial, b.Methodref("dm", "<init>", "(Laio;)V")).
		U2(classfile.OpPutfield, b.Fieldref("aio", "S", "Ldm;")).
		Op(classfile.OpAload0).
		U2(classfile.OpGetfield, b.Fieldref("aio", "S", "Ldm;")).
		U2(classfile.OpGetstatic, b.Fieldref("aio", "Z", "Ldp;")).
		Op(classfile.OpIconst0).
		U2(classfile.OpInvokestatic, b.Methodref("java/lang/Byte", "valueOf", "(B)Ljava/lang/Byte;")).
		U2(classfile.OpInvokevirtual, b.Methodref("dm", "a", registerDesc)).
		Op(classfile.OpAload0).
		U2(classfile.OpInvokevirtual, b.Methodref("aio", "x", "()V")).
		Op(classfile.OpReturn).
		Bytes())
	b.Method(abstract, "x", "()V", nil)
	return b
}

func metadataRepo(t *testing.T) analysis.Repository {
	bcy := plain("bcy", "aio")
	bcy.Method(static, "<clinit>", "()V", createKey(bcy, "bcy", "b", "d"))
	bcy.Method(public, "x", "()V", registerData(bcy, "bcy", "aio", "b", asm().
		Op(classfile.OpIconst1).
		U2(classfile.OpInvokestatic, bcy.Methodref("java/lang/Boolean", "valueOf", "(Z)Ljava/lang/Boolean;"))))

	bcz := plain("bcz", "bcy")
	bcz.Method(static, "<clinit>", "()V", createKey(bcz, "bcz", "c", "c"))
	bcz.Method(public, "x", "()V", registerData(bcz, "bcz", "bcy", "c", asm().
		U2(classfile.OpInvokestatic, bcz.Methodref("java/util/Optional", "empty", "()Ljava/util/Optional;"))))

	return newRepo(t, map[string]*classtest.Builder{
		"dm":   dataManager(),
		"ds":   dataSerializers(),
		"ds$1": serializerClass("ds$1", "Ljava/lang/Byte;"),
		"ds$2": serializerClass("ds$2", "Ljava/lang/Integer;"),
		"ds$3": serializerClass("ds$3", "Ljava/util/Optional<Lchat;>;"),
		"ds$4": serializerClass("ds$4", "Ljava/lang/Boolean;"),
		"aio":  baseEntity(),
		"bcy":  bcy,
		"bcz":  bcz,
		"bda":  plain("bda", "bcy"),
	}, nil)
}

func metadataFacts() *analysis.Facts {
	facts := analysis.NewFacts()
	classes := facts.Ensure("classes")
	classes["metadata"] = "dm"
	classes["itemstack"] = "bki"
	classes["nbtcompound"] = "hx"
	classes["chatcomponent"] = "chat"
	classes["position"] = "ev"
	entity := facts.Ensure("entities", "entity")
	entity["zombie"] = map[string]any{"name": "zombie", "class": "bcz", "id": 1, "field": "ZOMBIE"}
	entity["pig"] = map[string]any{"name": "pig", "class": "bda", "id": 0, "field": "PIG"}
	entity[modules.AbstractEntity] = map[string]any{"name": modules.AbstractEntity, "class": "aio"}
	return facts
}

func TestEntityMetadata(t *testing.T) {
	facts := metadataFacts()
	require.NoError(t, act(t, &modules.EntityMetadataModule{}, facts, metadataRepo(t)))

	serializers, ok := facts.Map("entities", "dataserializers")
	require.True(t, ok)
	assert.Len(t, serializers, 4)
	assert.Equal(t, map[string]any{
		"type": "java/lang/Byte", "name": "Byte", "class": "ds$1", "field": "a", "id": 0,
	}, serializers["Byte"])
	assert.Equal(t, map[string]any{
		"type": "java/util/Optional<Lchat;>", "name": "OptChat", "class": "ds$3", "field": "c", "id": 2,
	}, serializers["OptChat"])
	assert.Contains(t, serializers, "VarInt")
	assert.Contains(t, serializers, "Boolean")

	marker := map[string]any{"class": "aio", "entity": modules.AbstractEntity}
	bcy := map[string]any{"class": "bcy", "data": []any{
		map[string]any{"serializer_id": 3, "serializer": "Boolean", "index": 1, "field": "b", "default": true},
	}}
	bcz := map[string]any{"class": "bcz", "data": []any{
		map[string]any{"serializer_id": 2, "serializer": "OptChat", "index": 2, "field": "c", "default": "Empty"},
	}}

	zombie, _ := facts.Lookup("entities", "entity", "zombie", "metadata")
	assert.Equal(t, []any{marker, bcy, bcz}, zombie)

	pig, _ := facts.Lookup("entities", "entity", "pig", "metadata")
	assert.Equal(t, []any{marker, bcy}, pig)

	base, _ := facts.Lookup("entities", "entity", modules.AbstractEntity, "metadata")
	assert.Equal(t, []any{map[string]any{"class": "aio", "data": []any{
		map[string]any{"serializer_id": 0, "serializer": "Byte", "index": 0, "field": "Z", "default": int32(0)},
	}}}, base)
}

func TestEntityMetadataRequiresDataManager(t *testing.T) {
	facts := metadataFacts()
	delete(facts.Ensure("classes"), "metadata")

	err := act(t, &modules.EntityMetadataModule{}, facts, metadataRepo(t))
	var ae *analysis.AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "entitymetadata", ae.Module)
}

func TestEntityMetadataUnknownBase(t *testing.T) {
	facts := metadataFacts()
	delete(facts.Ensure("entities", "entity"), modules.AbstractEntity)
	assert.Error(t, act(t, &modules.EntityMetadataModule{}, facts, metadataRepo(t)))
}
