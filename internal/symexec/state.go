package symexec

import (
	"fmt"
	"maps"
	"slices"
)

// State is the operand stack and local slots of one walk
type State struct {
	Stack  []Value
	Locals map[int]Value
}

// NewState returns an empty state
func NewState() *State {
	return &State{Locals: make(map[int]Value)}
}

func (s *State) Push(vs ...Value) {
	s.Stack = append(s.Stack, vs...)
}

func (s *State) Pop() (Value, error) {
	if len(s.Stack) == 0 {
		return nil, ErrStackUnderflow
	}
	v := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return v, nil
}

// PopN pops n values and returns them in push order
func (s *State) PopN(n int) ([]Value, error) {
	if n > len(s.Stack) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrStackUnderflow, n, len(s.Stack))
	}
	vs := slices.Clone(s.Stack[len(s.Stack)-n:])
	s.Stack = s.Stack[:len(s.Stack)-n]
	return vs, nil
}

func (s *State) Peek() (Value, error) {
	if len(s.Stack) == 0 {
		return nil, ErrStackUnderflow
	}
	return s.Stack[len(s.Stack)-1], nil
}

// Load returns the value in slot, or Unset if it was never written
func (s *State) Load(slot int) Value {
	if v, ok := s.Locals[slot]; ok {
		return v
	}
	return Unset
}

func (s *State) Store(slot int, v Value) {
	s.Locals[slot] = v
}

// Clone returns an independent copy of the state
func (s *State) Clone() *State {
	return &State{
		Stack:  slices.Clone(s.Stack),
		Locals: maps.Clone(s.Locals),
	}
}
