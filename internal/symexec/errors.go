package symexec

import "errors"

var (
	// ErrStackUnderflow is returned when an instruction pops more values than the stack holds.
	ErrStackUnderflow = errors.New("operand stack underflow")
	// ErrUnsupportedControlFlow is returned for branches, switches and subroutines.
	ErrUnsupportedControlFlow = errors.New("unsupported control flow")
	// ErrUnsupportedInstruction is returned for opcodes the evaluator does not model.
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
	// ErrUnsupportedConstant is returned when ldc loads a constant kind the evaluator cannot represent.
	ErrUnsupportedConstant = errors.New("unsupported constant")
)
