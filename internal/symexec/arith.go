package symexec

import (
	"math"

	"github.com/spf13/cast"

	"github.com/blacktop/bytebun/pkg/classfile"
)

// constType returns the primitive descriptor pushed by a constant opcode
func constType(op classfile.Opcode) byte {
	switch {
	case op >= classfile.OpLconst0 && op <= classfile.OpLconst1:
		return 'J'
	case op >= classfile.OpFconst0 && op <= classfile.OpFconst2:
		return 'F'
	case op >= classfile.OpDconst0 && op <= classfile.OpDconst1:
		return 'D'
	default:
		return 'I'
	}
}

func typedLiteral(t byte, v int64) any {
	switch t {
	case 'J':
		return v
	case 'F':
		return float32(v)
	case 'D':
		return float64(v)
	default:
		return int32(v)
	}
}

func elementType(op classfile.Opcode, array Value) string {
	if o, ok := array.(*Opaque); ok && len(o.Type) > 1 && o.Type[0] == '[' {
		return o.Type[1:]
	}
	return [...]string{"I", "J", "F", "D", "Ljava/lang/Object;", "B", "C", "S"}[op-classfile.OpIaload]
}

// number extracts a numeric literal; ok is false for anything not Concrete and numeric
func number(v Value) (i int64, f float64, ok bool) {
	c, isConcrete := v.(Concrete)
	if !isConcrete {
		return 0, 0, false
	}
	switch n := c.Literal.(type) {
	case int32, int64:
		i = cast.ToInt64(n)
		return i, float64(i), true
	case float32:
		return int64(n), float64(n), true
	case float64:
		return int64(n), n, true
	}
	return 0, 0, false
}

var typeChars = [4]byte{'I', 'J', 'F', 'D'}

// arithmetic covers iadd through lxor
func (e *evaluator) arithmetic(op classfile.Opcode) error {
	s := e.state
	var t byte
	unary := false
	switch {
	case op <= classfile.OpDrem:
		t = typeChars[(op-classfile.OpIadd)%4]
	case op <= classfile.OpDneg:
		t = typeChars[(op-classfile.OpIneg)%4]
		unary = true
	default:
		t = typeChars[(op-classfile.OpIshl)%2]
	}

	if unary {
		v, err := s.Pop()
		if err != nil {
			return err
		}
		i, f, ok := number(v)
		if !ok {
			s.Push(NewOpaque(string(t)))
			return nil
		}
		s.Push(Concrete{Literal: fromParts(t, -i, -f)})
		return nil
	}

	vs, err := s.PopN(2)
	if err != nil {
		return err
	}
	ai, af, aok := number(vs[0])
	bi, bf, bok := number(vs[1])
	if !aok || !bok {
		s.Push(NewOpaque(string(t)))
		return nil
	}
	r, ok := binary(op, t, ai, af, bi, bf)
	if !ok {
		s.Push(NewOpaque(string(t)))
		return nil
	}
	s.Push(Concrete{Literal: r})
	return nil
}

func fromParts(t byte, i int64, f float64) any {
	switch t {
	case 'I':
		return int32(i)
	case 'J':
		return i
	case 'F':
		return float32(f)
	default:
		return f
	}
}

func binary(op classfile.Opcode, t byte, ai int64, af float64, bi int64, bf float64) (any, bool) {
	integral := t == 'I' || t == 'J'
	if t == 'I' {
		ai, bi = int64(int32(ai)), int64(int32(bi))
	}
	switch {
	case op <= classfile.OpDadd:
		return fromParts(t, ai+bi, af+bf), true
	case op <= classfile.OpDsub:
		return fromParts(t, ai-bi, af-bf), true
	case op <= classfile.OpDmul:
		return fromParts(t, ai*bi, af*bf), true
	case op <= classfile.OpDdiv:
		if integral {
			if bi == 0 {
				return nil, false
			}
			return fromParts(t, ai/bi, 0), true
		}
		return fromParts(t, 0, af/bf), true
	case op <= classfile.OpDrem:
		if integral {
			if bi == 0 {
				return nil, false
			}
			return fromParts(t, ai%bi, 0), true
		}
		return fromParts(t, 0, math.Mod(af, bf)), true
	}

	switch op {
	case classfile.OpIshl:
		return int32(ai) << (bi & 31), true
	case classfile.OpLshl:
		return ai << (bi & 63), true
	case classfile.OpIshr:
		return int32(ai) >> (bi & 31), true
	case classfile.OpLshr:
		return ai >> (bi & 63), true
	case classfile.OpIushr:
		return int32(uint32(ai) >> (bi & 31)), true
	case classfile.OpLushr:
		return int64(uint64(ai) >> (bi & 63)), true
	case classfile.OpIand, classfile.OpLand:
		return fromParts(t, ai&bi, 0), true
	case classfile.OpIor, classfile.OpLor:
		return fromParts(t, ai|bi, 0), true
	case classfile.OpIxor, classfile.OpLxor:
		return fromParts(t, ai^bi, 0), true
	}
	return nil, false
}

// convert covers i2l through i2s
func convert(op classfile.Opcode, v Value) Value {
	target := "JFDIFDIJDIJFBCS"[op-classfile.OpI2l]
	i, f, ok := number(v)
	if !ok {
		if target == 'B' || target == 'C' || target == 'S' {
			target = 'I'
		}
		return NewOpaque(string(target))
	}
	fromFloat := op >= classfile.OpF2i && op <= classfile.OpD2f
	if fromFloat {
		i = saturate(f, target)
	}
	switch target {
	case 'B':
		return Concrete{Literal: int32(int8(i))}
	case 'C':
		return Concrete{Literal: int32(uint16(i))}
	case 'S':
		return Concrete{Literal: int32(int16(i))}
	}
	return Concrete{Literal: fromParts(target, i, f)}
}

// saturate converts a float to an integer with the JVM's NaN and range rules
func saturate(f float64, target byte) int64 {
	if math.IsNaN(f) {
		return 0
	}
	lo, hi := float64(math.MinInt64), float64(math.MaxInt64)
	if target == 'I' {
		lo, hi = math.MinInt32, math.MaxInt32
	}
	switch {
	case f <= lo:
		return int64(lo)
	case f >= hi:
		if target == 'I' {
			return math.MaxInt32
		}
		return math.MaxInt64
	}
	return int64(f)
}

// compare covers lcmp, fcmpl, fcmpg, dcmpl and dcmpg
func compare(op classfile.Opcode, a, b Value) Value {
	ai, af, aok := number(a)
	bi, bf, bok := number(b)
	if !aok || !bok {
		return NewOpaque("I")
	}
	if op == classfile.OpLcmp {
		switch {
		case ai < bi:
			return Concrete{Literal: int32(-1)}
		case ai > bi:
			return Concrete{Literal: int32(1)}
		}
		return Concrete{Literal: int32(0)}
	}
	switch {
	case math.IsNaN(af) || math.IsNaN(bf):
		if op == classfile.OpFcmpg || op == classfile.OpDcmpg {
			return Concrete{Literal: int32(1)}
		}
		return Concrete{Literal: int32(-1)}
	case af < bf:
		return Concrete{Literal: int32(-1)}
	case af > bf:
		return Concrete{Literal: int32(1)}
	}
	return Concrete{Literal: int32(0)}
}
