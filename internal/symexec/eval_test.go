package symexec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/internal/symexec"
	"github.com/blacktop/bytebun/pkg/classfile"
	"github.com/blacktop/bytebun/pkg/classfile/classtest"
)

func disassemble(t *testing.T, a *classtest.Asm, cp classfile.ConstantPool) []classfile.Instruction {
	t.Helper()
	ins, err := classfile.Disassemble(a.Bytes(), cp)
	require.NoError(t, err)
	return ins
}

func TestStoreConsumesInReverseOrder(t *testing.T) {
	a := new(classtest.Asm).
		Op(classfile.OpIconst3, classfile.OpIconst4, classfile.OpIstore0, classfile.OpIstore1)

	state, err := symexec.Run(disassemble(t, a, nil), symexec.NopObserver{})
	require.NoError(t, err)

	assert.Empty(t, state.Stack)
	assert.Equal(t, map[int]symexec.Value{
		0: symexec.Concrete{Literal: int32(4)},
		1: symexec.Concrete{Literal: int32(3)},
	}, state.Locals)
}

type fieldObserver struct {
	symexec.NopObserver
	reads     []symexec.MemberRef
	receivers []symexec.Value
}

func (o *fieldObserver) ReadField(ref symexec.MemberRef, receiver symexec.Value) (symexec.Value, error) {
	o.reads = append(o.reads, ref)
	o.receivers = append(o.receivers, receiver)
	return nil, nil
}

func TestReadFieldWithoutValueConsumesReceiver(t *testing.T) {
	b := classtest.New("a", "java/lang/Object")
	f := b.Fieldref("a", "b", "I")
	code := new(classtest.Asm).
		Op(classfile.OpIconst1, classfile.OpAload0).
		U2(classfile.OpGetfield, f).
		Op(classfile.OpReturn)
	b.Method(classfile.AccPublic, "m", "()V", code.Bytes())
	cf := b.Parse()

	obs := &fieldObserver{}
	state, err := symexec.Walk(cf, cf.Method("m"), obs)
	require.NoError(t, err)

	require.Len(t, obs.reads, 1)
	assert.Equal(t, "b", obs.reads[0].Name)
	assert.Equal(t, "I", obs.reads[0].Descriptor)
	assert.Same(t, state.Locals[0], obs.receivers[0], "receiver is the this placeholder")
	assert.Equal(t, []symexec.Value{symexec.Concrete{Literal: int32(1)}}, state.Stack)
}

func TestStackUnderflow(t *testing.T) {
	_, err := symexec.Run(disassemble(t, new(classtest.Asm).Op(classfile.OpIstore0), nil), symexec.NopObserver{})
	assert.ErrorIs(t, err, symexec.ErrStackUnderflow)

	_, err = symexec.Run(disassemble(t, new(classtest.Asm).Op(classfile.OpIconst0, classfile.OpIadd), nil), symexec.NopObserver{})
	assert.ErrorIs(t, err, symexec.ErrStackUnderflow)
}

func TestLdcMethodHandleIsFatal(t *testing.T) {
	b := classtest.New("a", "java/lang/Object")
	mh := b.MethodHandle(classfile.RefInvokeStatic, b.Methodref("a", "f", "()V"))
	mt := b.MethodType("()V")
	cf := b.Parse()

	for _, idx := range []uint16{mh, mt} {
		ins := disassemble(t, new(classtest.Asm).Ldc(idx), cf.Constants)
		_, err := symexec.Run(ins, symexec.NopObserver{})
		assert.ErrorIs(t, err, symexec.ErrUnsupportedConstant)
	}
}

func TestBranchIsFatal(t *testing.T) {
	a := new(classtest.Asm).Op(classfile.OpIconst0).U2(classfile.OpIfeq, 4).Op(classfile.OpNop, classfile.OpReturn)
	state, err := symexec.Run(disassemble(t, a, nil), symexec.NopObserver{})
	assert.ErrorIs(t, err, symexec.ErrUnsupportedControlFlow)
	require.NotNil(t, state)
	assert.Len(t, state.Stack, 1, "state shows where the walk stopped")

	a = new(classtest.Asm).Raw(byte(classfile.OpGoto), 0, 3).Op(classfile.OpReturn)
	_, err = symexec.Run(disassemble(t, a, nil), symexec.NopObserver{})
	assert.ErrorIs(t, err, symexec.ErrUnsupportedControlFlow)
}

func TestUnsetLocalIsNeutral(t *testing.T) {
	a := new(classtest.Asm).U1(classfile.OpAload, 7)
	state, err := symexec.Run(disassemble(t, a, nil), symexec.NopObserver{})
	require.NoError(t, err)
	assert.Equal(t, []symexec.Value{symexec.Unset}, state.Stack)
}

func TestConstantsAndArithmetic(t *testing.T) {
	b := classtest.New("a", "java/lang/Object")
	s := b.String("zombie")
	c := b.Class("net/minecraft/b")
	l := b.Long(1 << 40)
	cf := b.Parse()

	a := new(classtest.Asm).
		Ldc(s).
		Ldc(c).
		U2(classfile.OpLdc2W, l).
		Op(classfile.OpLconst1, classfile.OpLadd).
		U2(classfile.OpSipush, 300).
		U1(classfile.OpBipush, 7).
		Op(classfile.OpImul).
		Op(classfile.OpI2b).
		Op(classfile.OpFconst2, classfile.OpDconst1, classfile.OpAconstNull)

	state, err := symexec.Run(disassemble(t, a, cf.Constants), symexec.NopObserver{})
	require.NoError(t, err)
	require.Len(t, state.Stack, 7)

	assert.Equal(t, symexec.Concrete{Literal: "zombie"}, state.Stack[0])
	assert.Equal(t, symexec.ClassLiteral{Name: "net/minecraft/b"}, state.Stack[1])
	assert.Equal(t, "net/minecraft/b.class", symexec.Plain(state.Stack[1]))
	assert.Equal(t, symexec.Concrete{Literal: int64(1<<40 + 1)}, state.Stack[2])
	// 2100 truncated to a byte
	assert.Equal(t, symexec.Concrete{Literal: int32(52)}, state.Stack[3])
	assert.Equal(t, symexec.Concrete{Literal: float32(2)}, state.Stack[4])
	assert.Equal(t, symexec.Concrete{Literal: float64(1)}, state.Stack[5])
	assert.True(t, symexec.IsNull(state.Stack[6]))
}

func TestArithmeticOnOpaqueIsOpaque(t *testing.T) {
	a := new(classtest.Asm).Op(classfile.OpIload0, classfile.OpIconst1, classfile.OpIadd)
	in := symexec.NewOpaque("I")
	state, err := symexec.Run(disassemble(t, a, nil), symexec.NopObserver{},
		symexec.WithLocals(map[int]symexec.Value{0: in}))
	require.NoError(t, err)
	require.Len(t, state.Stack, 1)
	out, ok := state.Stack[0].(*symexec.Opaque)
	require.True(t, ok)
	assert.Equal(t, "I", out.Type)
	assert.NotSame(t, in, out)
}

func TestDupFamily(t *testing.T) {
	one := symexec.Concrete{Literal: int32(1)}
	two := symexec.Concrete{Literal: int32(2)}
	three := symexec.Concrete{Literal: int32(3)}
	wide := symexec.Concrete{Literal: int64(9)}

	tests := []struct {
		name string
		asm  *classtest.Asm
		want []symexec.Value
	}{
		{"dup", new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpDup), []symexec.Value{one, one}},
		{"dup_x1", new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpIconst2, classfile.OpDupX1), []symexec.Value{two, one, two}},
		{"dup_x2", new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpIconst2, classfile.OpIconst3, classfile.OpDupX2), []symexec.Value{three, one, two, three}},
		{"dup2", new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpIconst2, classfile.OpDup2), []symexec.Value{one, two, one, two}},
		{"dup2 wide", new(classtest.Asm).U1(classfile.OpBipush, 9).Op(classfile.OpI2l, classfile.OpDup2), []symexec.Value{wide, wide}},
		{"dup2_x1", new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpIconst2, classfile.OpIconst3, classfile.OpDup2X1), []symexec.Value{two, three, one, two, three}},
		{"swap", new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpIconst2, classfile.OpSwap), []symexec.Value{two, one}},
		{"pop2", new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpIconst2, classfile.OpIconst3, classfile.OpPop2), []symexec.Value{one}},
		{"pop2 wide", new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpLconst1, classfile.OpPop2), []symexec.Value{one}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := symexec.Run(disassemble(t, tt.asm, nil), symexec.NopObserver{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, state.Stack)
		})
	}
}

func TestReturnEndsWalk(t *testing.T) {
	a := new(classtest.Asm).Op(classfile.OpIconst1, classfile.OpIreturn, classfile.OpIconst2)
	state, err := symexec.Run(disassemble(t, a, nil), symexec.NopObserver{})
	require.NoError(t, err)
	assert.Equal(t, []symexec.Value{symexec.Concrete{Literal: int32(1)}}, state.Stack)
}
