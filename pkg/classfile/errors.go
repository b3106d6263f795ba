package classfile

import "errors"

var (
	// ErrBadMagic indicates the data does not start with 0xCAFEBABE.
	ErrBadMagic = errors.New("not a class file")
	// ErrTruncated indicates the data ended before a structure was complete.
	ErrTruncated = errors.New("truncated class file")
	// ErrUnknownConstantTag indicates a constant pool tag this reader does not know.
	ErrUnknownConstantTag = errors.New("unknown constant pool tag")
	// ErrBadConstantIndex indicates a reference to a missing constant pool slot.
	ErrBadConstantIndex = errors.New("bad constant pool index")
	// ErrUnknownOpcode indicates a byte in a Code attribute that is not a JVM opcode.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrBadDescriptor indicates a malformed field or method descriptor.
	ErrBadDescriptor = errors.New("bad descriptor")
)
