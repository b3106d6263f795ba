package classfile_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/pkg/classfile"
	"github.com/blacktop/bytebun/pkg/classfile/classtest"
)

func TestParseMinimalClass(t *testing.T) {
	b := classtest.New("net/minecraft/a", "java/lang/Object")
	b.Interface("java/lang/Runnable")
	b.Field(classfile.AccPublic|classfile.AccStatic, "b", "Lnet/minecraft/a;")
	b.Field(classfile.AccPrivate, "c", "I")
	code := new(classtest.Asm).Op(classfile.OpReturn).Bytes()
	b.Method(classfile.AccPublic, "<init>", "()V", code)
	b.Method(classfile.AccPublic|classfile.AccAbstract, "run", "()V", nil)
	b.String("hello")
	b.Long(1 << 40)
	b.Integer(-7)

	cf, err := classfile.Parse(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, uint16(52), cf.MajorVersion)
	assert.Equal(t, "net/minecraft/a", cf.Name)
	assert.Equal(t, "java/lang/Object", cf.SuperClass)
	assert.Equal(t, []string{"java/lang/Runnable"}, cf.Interfaces)
	assert.True(t, cf.AccessFlags.IsPublic())

	require.Len(t, cf.Fields, 2)
	assert.Equal(t, "Lnet/minecraft/a;", cf.Field("b").Descriptor)
	assert.True(t, cf.Field("b").AccessFlags.IsStatic())
	assert.Nil(t, cf.Field("zzz"))
	statics := cf.FindFields(func(f *classfile.Field) bool { return f.AccessFlags.IsStatic() })
	assert.Len(t, statics, 1)

	init := cf.Method("<init>")
	require.NotNil(t, init)
	assert.Same(t, cf, init.Class())
	c, err := init.Code()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, []byte{byte(classfile.OpReturn)}, c.Bytecode)

	run := cf.Method("run")
	c, err = run.Code()
	require.NoError(t, err)
	assert.Nil(t, c)
	_, err = run.Instructions()
	assert.Error(t, err)

	assert.True(t, cf.Constants.HasString("hello"))
	assert.False(t, cf.Constants.HasString("net/minecraft/a"))
	assert.Equal(t, []string{"hello"}, cf.Constants.Strings())
}

func TestParseLongTakesTwoSlots(t *testing.T) {
	b := classtest.New("a", "")
	li := b.Long(42)
	si := b.String("after")
	require.Equal(t, li+2, si-1) // Utf8 "after" sits in the slot after the long's shadow

	cf := b.Parse()
	c, err := cf.Constants.Get(li)
	require.NoError(t, err)
	assert.Equal(t, classfile.Long{Value: 42}, c)

	_, err = cf.Constants.Get(li + 1)
	assert.ErrorIs(t, err, classfile.ErrBadConstantIndex)

	c, err = cf.Constants.Get(si)
	require.NoError(t, err)
	assert.Equal(t, "after", c.(*classfile.String).Value)
	assert.Equal(t, "", cf.SuperClass)
}

func TestParseErrors(t *testing.T) {
	_, err := classfile.ParseBytes([]byte{0xde, 0xad, 0xbe, 0xef, 0, 0, 0, 52})
	assert.ErrorIs(t, err, classfile.ErrBadMagic)

	data := classtest.New("a", "java/lang/Object").Bytes()
	_, err = classfile.ParseBytes(data[:len(data)-3])
	assert.ErrorIs(t, err, classfile.ErrTruncated)

	bad := []byte{0xca, 0xfe, 0xba, 0xbe, 0, 0, 0, 52, 0, 2, 2}
	_, err = classfile.ParseBytes(bad)
	assert.ErrorIs(t, err, classfile.ErrUnknownConstantTag)
}

func TestMemberRefResolution(t *testing.T) {
	b := classtest.New("a", "java/lang/Object")
	fi := b.Fieldref("b", "c", "Ljava/lang/String;")
	mi := b.InterfaceMethodref("java/util/List", "add", "(Ljava/lang/Object;)Z")
	cf := b.Parse()

	c, err := cf.Constants.Get(fi)
	require.NoError(t, err)
	ref := c.(*classfile.MemberRef)
	assert.Equal(t, classfile.TagFieldref, ref.Tag())
	assert.Equal(t, "b.c:Ljava/lang/String;", ref.String())

	c, err = cf.Constants.Get(mi)
	require.NoError(t, err)
	assert.Equal(t, classfile.TagInterfaceMethodref, c.Tag())
}

func TestBootstrapMethods(t *testing.T) {
	b := classtest.New("a", "java/lang/Object")
	meta := b.Methodref("java/lang/invoke/LambdaMetafactory", "metafactory",
		"(Ljava/lang/invoke/MethodHandles$Lookup;Ljava/lang/String;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodType;Ljava/lang/invoke/MethodHandle;Ljava/lang/invoke/MethodType;)Ljava/lang/invoke/CallSite;")
	target := b.Methodref("b", "<init>", "(Lc;)V")
	bsm := b.Bootstrap(b.MethodHandle(classfile.RefInvokeStatic, meta),
		b.MethodType("(Ljava/lang/Object;)Ljava/lang/Object;"),
		b.MethodHandle(classfile.RefNewInvokeSpecial, target),
		b.MethodType("(Lc;)Lb;"))
	indy := b.InvokeDynamic(bsm, "create", "()Lb$a;")
	code := new(classtest.Asm).Invokedynamic(indy).Op(classfile.OpAreturn).Bytes()
	b.Method(classfile.AccStatic, "f", "()Lb$a;", code)

	cf := b.Parse()
	bm, err := cf.Bootstrap(bsm)
	require.NoError(t, err)
	assert.Equal(t, "metafactory", bm.Method.Reference.Name)
	require.Len(t, bm.Arguments, 3)
	mh := bm.Arguments[1].(*classfile.MethodHandle)
	assert.Equal(t, classfile.RefNewInvokeSpecial, mh.ReferenceKind)
	assert.Equal(t, "b", mh.Reference.Class)

	_, err = cf.Bootstrap(5)
	assert.Error(t, err)

	ins, err := cf.Method("f").Instructions()
	require.NoError(t, err)
	require.Len(t, ins, 2)
	c, ok := ins[0].Const()
	require.True(t, ok)
	dyn := c.(*classfile.DynamicRef)
	assert.Equal(t, "create", dyn.Name)
	assert.Equal(t, bsm, dyn.BootstrapMethodAttrIndex)
	assert.Equal(t, 5, ins[1].Offset)
}

func TestModifiedUTF8(t *testing.T) {
	b := classtest.New("a", "java/lang/Object")
	// "\x00" as 0xC0 0x80 and U+1F600 as a surrogate pair of 3-byte sequences
	raw := []byte{'x', 0xc0, 0x80, 0xed, 0xa0, 0xbd, 0xed, 0xb8, 0x80}
	data := b.Bytes()
	// splice a raw Utf8 entry into slot 1 by rewriting the name of "a"
	idx := bytes.Index(data, []byte{1, 0, 1, 'a'})
	require.Positive(t, idx)
	patched := append([]byte{}, data[:idx]...)
	patched = append(patched, 1, 0, byte(len(raw)))
	patched = append(patched, raw...)
	patched = append(patched, data[idx+4:]...)

	cf, err := classfile.ParseBytes(patched)
	require.NoError(t, err)
	assert.Equal(t, "x\x00\U0001F600", cf.Name)
}

func TestAccessFlagsString(t *testing.T) {
	f := classfile.AccPublic | classfile.AccStatic | classfile.AccFinal
	assert.Equal(t, "public static final", f.String())
	assert.True(t, (classfile.AccEnum | classfile.AccSynthetic).IsEnum())
}

func TestErrorsAreSentinels(t *testing.T) {
	_, err := classfile.ParseFieldType("Q")
	assert.True(t, errors.Is(err, classfile.ErrBadDescriptor))
}
