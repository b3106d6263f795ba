package classfile

//go:generate python3 ../../hack/gen_opcodes.py

import (
	"fmt"
	"strings"
)

type operandFormat uint8

const (
	formatNone operandFormat = iota
	formatLocal
	formatByte
	formatShort
	formatConstByte
	formatConst
	formatBranch
	formatBranchWide
	formatIinc
	formatInvokeInterface
	formatInvokeDynamic
	formatMultiANewArray
	formatNewArray
	formatTableSwitch
	formatLookupSwitch
	formatWide
)

type opcodeInfo struct {
	name     string
	format   operandFormat
	implicit *Operand // operand encoded in the opcode itself, e.g. iconst_3 or aload_0
}

// Name returns the mnemonic of the opcode
func (op Opcode) Name() string {
	if n := opcodeTable[op].name; n != "" {
		return n
	}
	return fmt.Sprintf("opcode(%#x)", uint8(op))
}

func (op Opcode) String() string {
	return op.Name()
}

// IsBranch reports whether the opcode transfers control other than by falling through or returning
func (op Opcode) IsBranch() bool {
	switch opcodeTable[op].format {
	case formatBranch, formatBranchWide, formatTableSwitch, formatLookupSwitch:
		return true
	}
	return op == OpRet
}

// IsReturn reports whether the opcode ends the method
func (op Opcode) IsReturn() bool {
	return op >= OpIreturn && op <= OpReturn || op == OpAthrow
}

// OperandKind tells how an operand should be interpreted
type OperandKind uint8

const (
	// OperandConstant is a constant pool reference; Value holds the index and Const the entry.
	OperandConstant OperandKind = iota
	// OperandLiteral is a numeric literal (bipush, sipush, iinc increment, newarray type, dimensions).
	OperandLiteral
	// OperandLocal is a local variable slot.
	OperandLocal
	// OperandBranch is a branch offset relative to the instruction.
	OperandBranch
)

// Operand is a single decoded instruction operand
type Operand struct {
	Kind  OperandKind
	Value int64
	Const Constant
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandConstant:
		switch c := o.Const.(type) {
		case *MemberRef:
			return c.String()
		case *ClassRef:
			return c.Name
		case *String:
			return fmt.Sprintf("%q", c.Value)
		case *DynamicRef:
			return c.Name + ":" + c.Descriptor
		default:
			return fmt.Sprintf("#%d", o.Value)
		}
	case OperandLocal:
		return fmt.Sprintf("local%d", o.Value)
	case OperandBranch:
		return fmt.Sprintf("%+d", o.Value)
	default:
		return fmt.Sprintf("%d", o.Value)
	}
}

// SwitchTable holds the targets of a tableswitch or lookupswitch
type SwitchTable struct {
	Default int32
	Low     int32 // tableswitch only
	Keys    []int32
	Offsets []int32
}

// Instruction is a decoded bytecode instruction
type Instruction struct {
	Offset   int
	Opcode   Opcode
	Wide     bool
	Operands []Operand
	Switch   *SwitchTable
}

// Mnemonic returns the opcode name
func (ins Instruction) Mnemonic() string {
	return ins.Opcode.Name()
}

// Is reports whether the instruction's mnemonic is any of names
func (ins Instruction) Is(names ...string) bool {
	m := ins.Mnemonic()
	for _, n := range names {
		if m == n {
			return true
		}
	}
	return false
}

// Const returns the constant pool operand of the instruction, if any
func (ins Instruction) Const() (Constant, bool) {
	for _, o := range ins.Operands {
		if o.Kind == OperandConstant {
			return o.Const, true
		}
	}
	return nil, false
}

// Literal returns the first literal or local operand of the instruction
func (ins Instruction) Literal() (int64, bool) {
	for _, o := range ins.Operands {
		if o.Kind == OperandLiteral || o.Kind == OperandLocal {
			return o.Value, true
		}
	}
	return 0, false
}

func (ins Instruction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4d: %s", ins.Offset, ins.Mnemonic())
	for _, o := range ins.Operands {
		sb.WriteByte(' ')
		sb.WriteString(o.String())
	}
	return sb.String()
}

// Disassemble decodes raw bytecode, resolving constant pool operands against cp
func Disassemble(code []byte, cp ConstantPool) ([]Instruction, error) {
	r := newReader(code)
	var out []Instruction
	for r.Len() > 0 {
		ins, err := decode(r, cp)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, nil
}

func decode(r *reader, cp ConstantPool) (Instruction, error) {
	ins := Instruction{Offset: r.Pos()}
	b, err := r.ReadU1()
	if err != nil {
		return ins, err
	}
	ins.Opcode = Opcode(b)
	info := opcodeTable[b]
	if info.name == "" {
		return ins, fmt.Errorf("%w: %#x at offset %d", ErrUnknownOpcode, b, ins.Offset)
	}
	if info.implicit != nil {
		ins.Operands = []Operand{*info.implicit}
	}

	constant := func(idx uint16) error {
		c, err := cp.Get(idx)
		if err != nil {
			return fmt.Errorf("%s at offset %d: %w", info.name, ins.Offset, err)
		}
		ins.Operands = append(ins.Operands, Operand{Kind: OperandConstant, Value: int64(idx), Const: c})
		return nil
	}

	switch info.format {
	case formatNone:
	case formatLocal:
		v, err := r.ReadU1()
		if err != nil {
			return ins, err
		}
		ins.Operands = append(ins.Operands, Operand{Kind: OperandLocal, Value: int64(v)})
	case formatByte:
		v, err := r.ReadI1()
		if err != nil {
			return ins, err
		}
		ins.Operands = append(ins.Operands, Operand{Kind: OperandLiteral, Value: int64(v)})
	case formatNewArray:
		atype, err := r.ReadU1()
		if err != nil {
			return ins, err
		}
		ins.Operands = append(ins.Operands, Operand{Kind: OperandLiteral, Value: int64(atype)})
	case formatShort:
		v, err := r.ReadI2()
		if err != nil {
			return ins, err
		}
		ins.Operands = append(ins.Operands, Operand{Kind: OperandLiteral, Value: int64(v)})
	case formatConstByte:
		idx, err := r.ReadU1()
		if err != nil {
			return ins, err
		}
		if err := constant(uint16(idx)); err != nil {
			return ins, err
		}
	case formatConst, formatInvokeInterface, formatInvokeDynamic, formatMultiANewArray:
		idx, err := r.ReadU2()
		if err != nil {
			return ins, err
		}
		if err := constant(idx); err != nil {
			return ins, err
		}
		switch info.format {
		case formatInvokeInterface:
			count, err := r.ReadU1()
			if err != nil {
				return ins, err
			}
			ins.Operands = append(ins.Operands, Operand{Kind: OperandLiteral, Value: int64(count)})
			if _, err := r.ReadU1(); err != nil {
				return ins, err
			}
		case formatInvokeDynamic:
			if _, err := r.ReadU2(); err != nil {
				return ins, err
			}
		case formatMultiANewArray:
			dims, err := r.ReadU1()
			if err != nil {
				return ins, err
			}
			ins.Operands = append(ins.Operands, Operand{Kind: OperandLiteral, Value: int64(dims)})
		}
	case formatBranch:
		v, err := r.ReadI2()
		if err != nil {
			return ins, err
		}
		ins.Operands = append(ins.Operands, Operand{Kind: OperandBranch, Value: int64(v)})
	case formatBranchWide:
		v, err := r.ReadI4()
		if err != nil {
			return ins, err
		}
		ins.Operands = append(ins.Operands, Operand{Kind: OperandBranch, Value: int64(v)})
	case formatIinc:
		slot, err := r.ReadU1()
		if err != nil {
			return ins, err
		}
		inc, err := r.ReadI1()
		if err != nil {
			return ins, err
		}
		ins.Operands = append(ins.Operands,
			Operand{Kind: OperandLocal, Value: int64(slot)},
			Operand{Kind: OperandLiteral, Value: int64(inc)})
	case formatTableSwitch:
		if err := r.Align(4); err != nil {
			return ins, err
		}
		st := &SwitchTable{}
		if st.Default, err = r.ReadI4(); err != nil {
			return ins, err
		}
		if st.Low, err = r.ReadI4(); err != nil {
			return ins, err
		}
		high, err := r.ReadI4()
		if err != nil {
			return ins, err
		}
		if high < st.Low {
			return ins, fmt.Errorf("tableswitch at offset %d: high %d < low %d", ins.Offset, high, st.Low)
		}
		for k := st.Low; ; k++ {
			off, err := r.ReadI4()
			if err != nil {
				return ins, err
			}
			st.Keys = append(st.Keys, k)
			st.Offsets = append(st.Offsets, off)
			if k == high {
				break
			}
		}
		ins.Switch = st
	case formatLookupSwitch:
		if err := r.Align(4); err != nil {
			return ins, err
		}
		st := &SwitchTable{}
		if st.Default, err = r.ReadI4(); err != nil {
			return ins, err
		}
		npairs, err := r.ReadI4()
		if err != nil {
			return ins, err
		}
		if npairs < 0 {
			return ins, fmt.Errorf("lookupswitch at offset %d: negative pair count", ins.Offset)
		}
		for range npairs {
			key, err := r.ReadI4()
			if err != nil {
				return ins, err
			}
			off, err := r.ReadI4()
			if err != nil {
				return ins, err
			}
			st.Keys = append(st.Keys, key)
			st.Offsets = append(st.Offsets, off)
		}
		ins.Switch = st
	case formatWide:
		return decodeWide(r, ins)
	}

	return ins, nil
}

// decodeWide decodes the instruction modified by a wide prefix and reports it in place of the prefix
func decodeWide(r *reader, ins Instruction) (Instruction, error) {
	b, err := r.ReadU1()
	if err != nil {
		return ins, err
	}
	ins.Opcode = Opcode(b)
	ins.Wide = true
	switch opcodeTable[b].format {
	case formatLocal:
		slot, err := r.ReadU2()
		if err != nil {
			return ins, err
		}
		ins.Operands = []Operand{{Kind: OperandLocal, Value: int64(slot)}}
	case formatIinc:
		slot, err := r.ReadU2()
		if err != nil {
			return ins, err
		}
		inc, err := r.ReadI2()
		if err != nil {
			return ins, err
		}
		ins.Operands = []Operand{
			{Kind: OperandLocal, Value: int64(slot)},
			{Kind: OperandLiteral, Value: int64(inc)},
		}
	default:
		return ins, fmt.Errorf("%w: wide %s at offset %d", ErrUnknownOpcode, ins.Opcode.Name(), ins.Offset)
	}
	return ins, nil
}
