package classtest

import (
	"encoding/binary"

	"github.com/blacktop/bytebun/pkg/classfile"
)

// Asm writes raw bytecode
type Asm struct {
	buf []byte
}

// Op appends an opcode with no operands
func (a *Asm) Op(ops ...classfile.Opcode) *Asm {
	for _, op := range ops {
		a.buf = append(a.buf, byte(op))
	}
	return a
}

// U1 appends an opcode with a one byte operand
func (a *Asm) U1(op classfile.Opcode, v uint8) *Asm {
	a.buf = append(a.buf, byte(op), v)
	return a
}

// U2 appends an opcode with a two byte operand (constant index, sipush value or branch)
func (a *Asm) U2(op classfile.Opcode, v uint16) *Asm {
	a.buf = binary.BigEndian.AppendUint16(append(a.buf, byte(op)), v)
	return a
}

// Ldc picks ldc or ldc_w depending on the index
func (a *Asm) Ldc(idx uint16) *Asm {
	if idx <= 0xff {
		return a.U1(classfile.OpLdc, uint8(idx))
	}
	return a.U2(classfile.OpLdcW, idx)
}

func (a *Asm) Invokeinterface(idx uint16, count uint8) *Asm {
	a.U2(classfile.OpInvokeinterface, idx)
	a.buf = append(a.buf, count, 0)
	return a
}

func (a *Asm) Invokedynamic(idx uint16) *Asm {
	a.U2(classfile.OpInvokedynamic, idx)
	a.buf = append(a.buf, 0, 0)
	return a
}

// Raw appends bytes verbatim
func (a *Asm) Raw(b ...byte) *Asm {
	a.buf = append(a.buf, b...)
	return a
}

func (a *Asm) Len() int {
	return len(a.buf)
}

func (a *Asm) Bytes() []byte {
	return a.buf
}
