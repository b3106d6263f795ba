package symexec

import (
	"fmt"
	"maps"

	"github.com/apex/log"

	"github.com/blacktop/bytebun/pkg/classfile"
)

type config struct {
	class  *classfile.ClassFile
	locals map[int]Value
	trace  bool
}

// Option configures a walk
type Option func(*config)

// WithClass sets the class the instructions belong to, which is needed to
// resolve invokedynamic bootstrap methods
func WithClass(cf *classfile.ClassFile) Option {
	return func(c *config) {
		c.class = cf
	}
}

// WithLocals seeds local slots before the first instruction
func WithLocals(locals map[int]Value) Option {
	return func(c *config) {
		maps.Copy(c.locals, locals)
	}
}

// WithTrace logs every instruction at debug level
func WithTrace(enable bool) Option {
	return func(c *config) {
		c.trace = enable
	}
}

type evaluator struct {
	config
	state *State
	obs   Observer
}

// Walk evaluates the body of method m of class cf. Local slots start out
// holding opaque "this" and parameter values.
func Walk(cf *classfile.ClassFile, m *classfile.Method, obs Observer, opts ...Option) (*State, error) {
	instructions, err := m.Instructions()
	if err != nil {
		return nil, err
	}
	seed, err := parameterLocals(cf, m)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithClass(cf), WithLocals(seed)}, opts...)
	state, err := Run(instructions, obs, opts...)
	if err != nil {
		return state, fmt.Errorf("%s.%s%s: %w", cf.Name, m.Name, m.Descriptor, err)
	}
	return state, nil
}

func parameterLocals(cf *classfile.ClassFile, m *classfile.Method) (map[int]Value, error) {
	sig, err := m.Signature()
	if err != nil {
		return nil, err
	}
	locals := make(map[int]Value)
	slot := 0
	if !m.AccessFlags.IsStatic() {
		locals[0] = NewOpaque("L" + cf.Name + ";")
		slot++
	}
	for _, arg := range sig.Args {
		locals[slot] = NewOpaque(arg.String())
		slot++
		if arg.IsWide() {
			slot++
		}
	}
	return locals, nil
}

// Run makes a single forward pass over instructions in program order. The
// returned state is valid even when an error is returned and shows where the
// walk stopped.
func Run(instructions []classfile.Instruction, obs Observer, opts ...Option) (*State, error) {
	e := &evaluator{
		config: config{locals: make(map[int]Value)},
		state:  NewState(),
		obs:    obs,
	}
	for _, opt := range opts {
		opt(&e.config)
	}
	maps.Copy(e.state.Locals, e.locals)

	for _, ins := range instructions {
		if e.trace {
			log.WithFields(log.Fields{
				"offset": ins.Offset,
				"stack":  len(e.state.Stack),
			}).Debugf("%s", ins.Mnemonic())
		}
		done, err := e.step(ins)
		if err != nil {
			return e.state, fmt.Errorf("%s at offset %d: %w", ins.Mnemonic(), ins.Offset, err)
		}
		if done {
			break
		}
	}
	return e.state, nil
}

func (e *evaluator) step(ins classfile.Instruction) (bool, error) {
	s := e.state
	op := ins.Opcode
	switch {
	case op == classfile.OpNop:
	case op == classfile.OpAconstNull:
		s.Push(Null)
	case op >= classfile.OpIconstM1 && op <= classfile.OpDconst1,
		op == classfile.OpBipush, op == classfile.OpSipush:
		v, _ := ins.Literal()
		s.Push(Concrete{Literal: typedLiteral(constType(op), v)})
	case op == classfile.OpLdc, op == classfile.OpLdcW, op == classfile.OpLdc2W:
		v, err := loadConstant(ins)
		if err != nil {
			return false, err
		}
		s.Push(v)
	case op >= classfile.OpIload && op <= classfile.OpAload3:
		slot, _ := ins.Literal()
		s.Push(s.Load(int(slot)))
	case op >= classfile.OpIaload && op <= classfile.OpSaload:
		vs, err := s.PopN(2)
		if err != nil {
			return false, err
		}
		s.Push(NewOpaque(elementType(op, vs[0])))
	case op >= classfile.OpIstore && op <= classfile.OpAstore3:
		slot, _ := ins.Literal()
		v, err := s.Pop()
		if err != nil {
			return false, err
		}
		s.Store(int(slot), v)
	case op >= classfile.OpIastore && op <= classfile.OpSastore:
		if _, err := s.PopN(3); err != nil {
			return false, err
		}
	case op >= classfile.OpPop && op <= classfile.OpSwap:
		return false, e.stackOp(op)
	case op >= classfile.OpIadd && op <= classfile.OpLxor:
		return false, e.arithmetic(op)
	case op == classfile.OpIinc:
		slot, inc := ins.Operands[0].Value, ins.Operands[1].Value
		if n, ok := AsInt(s.Load(int(slot))); ok {
			s.Store(int(slot), Concrete{Literal: int32(n + inc)})
		} else {
			s.Store(int(slot), NewOpaque("I"))
		}
	case op >= classfile.OpI2l && op <= classfile.OpI2s:
		v, err := s.Pop()
		if err != nil {
			return false, err
		}
		s.Push(convert(op, v))
	case op >= classfile.OpLcmp && op <= classfile.OpDcmpg:
		vs, err := s.PopN(2)
		if err != nil {
			return false, err
		}
		s.Push(compare(op, vs[0], vs[1]))
	case op.IsBranch():
		return false, fmt.Errorf("%w: %s", ErrUnsupportedControlFlow, op)
	case op.IsReturn():
		return true, nil
	case op >= classfile.OpGetstatic && op <= classfile.OpPutfield:
		return false, e.field(ins)
	case op >= classfile.OpInvokevirtual && op <= classfile.OpInvokeinterface:
		return false, e.invoke(ins)
	case op == classfile.OpInvokedynamic:
		return false, e.invokeDynamic(ins)
	case op == classfile.OpNew:
		return false, e.instantiate(ins)
	default:
		return false, e.misc(ins)
	}
	return false, nil
}

func loadConstant(ins classfile.Instruction) (Value, error) {
	c, ok := ins.Const()
	if !ok {
		return nil, fmt.Errorf("%w: missing operand", ErrUnsupportedConstant)
	}
	switch c := c.(type) {
	case classfile.Integer:
		return Concrete{Literal: c.Value}, nil
	case classfile.Float:
		return Concrete{Literal: c.Value}, nil
	case classfile.Long:
		return Concrete{Literal: c.Value}, nil
	case classfile.Double:
		return Concrete{Literal: c.Value}, nil
	case *classfile.String:
		return Concrete{Literal: c.Value}, nil
	case *classfile.ClassRef:
		return ClassLiteral{Name: c.Name}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConstant, c.Tag())
	}
}

func (e *evaluator) stackOp(op classfile.Opcode) error {
	s := e.state
	pop := func(n int) ([]Value, error) {
		vs, err := s.PopN(n)
		if err != nil {
			return nil, err
		}
		// reverse so vs[0] is the top of the stack, matching the JVM's value1, value2...
		for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
			vs[i], vs[j] = vs[j], vs[i]
		}
		return vs, nil
	}
	switch op {
	case classfile.OpPop:
		_, err := s.Pop()
		return err
	case classfile.OpPop2:
		v, err := s.Pop()
		if err != nil || isWide(v) {
			return err
		}
		_, err = s.Pop()
		return err
	case classfile.OpDup:
		v, err := s.Peek()
		if err != nil {
			return err
		}
		s.Push(v)
	case classfile.OpDupX1:
		v, err := pop(2)
		if err != nil {
			return err
		}
		s.Push(v[0], v[1], v[0])
	case classfile.OpDupX2:
		v, err := pop(2)
		if err != nil {
			return err
		}
		if isWide(v[1]) {
			s.Push(v[0], v[1], v[0])
			return nil
		}
		v3, err := s.Pop()
		if err != nil {
			return err
		}
		s.Push(v[0], v3, v[1], v[0])
	case classfile.OpDup2:
		v1, err := s.Pop()
		if err != nil {
			return err
		}
		if isWide(v1) {
			s.Push(v1, v1)
			return nil
		}
		v2, err := s.Pop()
		if err != nil {
			return err
		}
		s.Push(v2, v1, v2, v1)
	case classfile.OpDup2X1:
		v1, err := s.Pop()
		if err != nil {
			return err
		}
		if isWide(v1) {
			v2, err := s.Pop()
			if err != nil {
				return err
			}
			s.Push(v1, v2, v1)
			return nil
		}
		v, err := pop(2)
		if err != nil {
			return err
		}
		s.Push(v[0], v1, v[1], v[0], v1)
	case classfile.OpDup2X2:
		v1, err := s.Pop()
		if err != nil {
			return err
		}
		if isWide(v1) {
			v2, err := s.Pop()
			if err != nil {
				return err
			}
			if isWide(v2) {
				s.Push(v1, v2, v1)
				return nil
			}
			v3, err := s.Pop()
			if err != nil {
				return err
			}
			s.Push(v1, v3, v2, v1)
			return nil
		}
		v, err := pop(2)
		if err != nil {
			return err
		}
		v2, v3 := v[0], v[1]
		if isWide(v3) {
			s.Push(v2, v1, v3, v2, v1)
			return nil
		}
		v4, err := s.Pop()
		if err != nil {
			return err
		}
		s.Push(v2, v1, v4, v3, v2, v1)
	case classfile.OpSwap:
		v, err := pop(2)
		if err != nil {
			return err
		}
		s.Push(v[0], v[1])
	}
	return nil
}

func (e *evaluator) memberRef(ins classfile.Instruction) (MemberRef, error) {
	c, _ := ins.Const()
	ref, ok := c.(*classfile.MemberRef)
	if !ok {
		return MemberRef{}, fmt.Errorf("%w: operand is not a member reference", ErrUnsupportedConstant)
	}
	return newMemberRef(ins.Opcode, ref)
}

func (e *evaluator) field(ins classfile.Instruction) error {
	s := e.state
	ref, err := e.memberRef(ins)
	if err != nil {
		return err
	}
	switch ins.Opcode {
	case classfile.OpGetstatic, classfile.OpGetfield:
		var receiver Value
		if ins.Opcode == classfile.OpGetfield {
			if receiver, err = s.Pop(); err != nil {
				return err
			}
		}
		v, err := e.obs.ReadField(ref, receiver)
		if err != nil {
			return err
		}
		if v != nil {
			s.Push(v)
		}
	default:
		value, err := s.Pop()
		if err != nil {
			return err
		}
		var receiver Value
		if ins.Opcode == classfile.OpPutfield {
			if receiver, err = s.Pop(); err != nil {
				return err
			}
		}
		return e.obs.WriteField(ref, receiver, value)
	}
	return nil
}

func (e *evaluator) invoke(ins classfile.Instruction) error {
	s := e.state
	ref, err := e.memberRef(ins)
	if err != nil {
		return err
	}
	args, err := s.PopN(len(ref.Args))
	if err != nil {
		return err
	}
	var receiver Value
	if ins.Opcode != classfile.OpInvokestatic {
		if receiver, err = s.Pop(); err != nil {
			return err
		}
	}
	v, err := e.obs.Invoke(ref, receiver, args)
	if err != nil {
		return err
	}
	if v != nil && !ref.Returns.IsVoid() {
		s.Push(v)
	}
	return nil
}

func (e *evaluator) invokeDynamic(ins classfile.Instruction) error {
	s := e.state
	c, _ := ins.Const()
	dyn, ok := c.(*classfile.DynamicRef)
	if !ok {
		return fmt.Errorf("%w: invokedynamic operand is %T", ErrUnsupportedConstant, c)
	}
	ref, err := newDynamicRef(dyn, e.class)
	if err != nil {
		return err
	}
	args, err := s.PopN(len(ref.Args))
	if err != nil {
		return err
	}
	v, err := e.obs.InvokeDynamic(ref, args)
	if err != nil {
		return err
	}
	if v != nil && !ref.Returns.IsVoid() {
		s.Push(v)
	}
	return nil
}

func (e *evaluator) instantiate(ins classfile.Instruction) error {
	c, _ := ins.Const()
	class, ok := c.(*classfile.ClassRef)
	if !ok {
		return fmt.Errorf("%w: new operand is %T", ErrUnsupportedConstant, c)
	}
	v, err := e.obs.Instantiate(class.Name)
	if err != nil {
		return err
	}
	if v == nil {
		// the constructor call that follows still needs a receiver
		v = NewOpaque("L" + class.Name + ";")
	}
	e.state.Push(v)
	return nil
}

var arrayTypes = map[int64]string{
	4: "[Z", 5: "[C", 6: "[F", 7: "[D", 8: "[B", 9: "[S", 10: "[I", 11: "[J",
}

func (e *evaluator) misc(ins classfile.Instruction) error {
	s := e.state
	switch ins.Opcode {
	case classfile.OpNewarray:
		if _, err := s.Pop(); err != nil {
			return err
		}
		atype, _ := ins.Literal()
		s.Push(NewOpaque(arrayTypes[atype]))
	case classfile.OpAnewarray:
		if _, err := s.Pop(); err != nil {
			return err
		}
		c, _ := ins.Const()
		typ := "[Ljava/lang/Object;"
		if class, ok := c.(*classfile.ClassRef); ok {
			typ = "[" + descriptorOf(class.Name)
		}
		s.Push(NewOpaque(typ))
	case classfile.OpMultianewarray:
		c, _ := ins.Const()
		dims := ins.Operands[1].Value
		if _, err := s.PopN(int(dims)); err != nil {
			return err
		}
		typ := ""
		if class, ok := c.(*classfile.ClassRef); ok {
			typ = class.Name
		}
		s.Push(NewOpaque(typ))
	case classfile.OpArraylength, classfile.OpInstanceof:
		if _, err := s.Pop(); err != nil {
			return err
		}
		s.Push(NewOpaque("I"))
	case classfile.OpCheckcast:
		if _, err := s.Peek(); err != nil {
			return err
		}
	case classfile.OpMonitorenter, classfile.OpMonitorexit:
		if _, err := s.Pop(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedInstruction, ins.Opcode)
	}
	return nil
}

// descriptorOf turns an internal class name (or array descriptor) into a field descriptor
func descriptorOf(name string) string {
	if len(name) > 0 && name[0] == '[' {
		return name
	}
	return "L" + name + ";"
}
