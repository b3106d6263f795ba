// Package symexec replays a single method's bytecode against an abstract
// operand stack and local slots, handing field accesses, invocations and
// instantiations to an Observer.
package symexec

import (
	"fmt"

	"github.com/spf13/cast"
)

// Value is anything that can sit on the operand stack or in a local slot.
// Values are never mutated; operations that produce new information produce a new Value.
type Value interface {
	isValue()
}

// Concrete is a known literal: int32, int64, float32, float64, string or nil (null)
type Concrete struct {
	Literal any
}

// ClassLiteral is the result of loading a class constant, e.g. Foo.class
type ClassLiteral struct {
	Name string // internal name
}

// Opaque stands for a runtime object the evaluator knows nothing about.
// Identity is the pointer: two Opaques are the same object only if they are the same *Opaque.
type Opaque struct {
	Type string // field descriptor when known
}

// Semantic carries data an Observer attached to a value
type Semantic struct {
	Payload any
}

func (Concrete) isValue()     {}
func (ClassLiteral) isValue() {}
func (*Opaque) isValue()      {}
func (Semantic) isValue()     {}

var (
	// Null is the value of aconst_null
	Null Value = Concrete{}
	// Unset is what a read of a never-written local slot yields
	Unset Value = &Opaque{Type: "unset"}
)

// NewOpaque returns a fresh placeholder of the given descriptor type
func NewOpaque(typ string) *Opaque {
	return &Opaque{Type: typ}
}

func (v Concrete) String() string {
	if v.Literal == nil {
		return "null"
	}
	if s, ok := v.Literal.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v.Literal)
}

func (v ClassLiteral) String() string {
	return v.Name + ".class"
}

func (v *Opaque) String() string {
	return fmt.Sprintf("<%s@%p>", v.Type, v)
}

func (v Semantic) String() string {
	return fmt.Sprintf("semantic(%v)", v.Payload)
}

// IsNull reports whether v is the null literal
func IsNull(v Value) bool {
	c, ok := v.(Concrete)
	return ok && c.Literal == nil
}

// Plain converts a value into JSON-shaped data. Opaque values become nil.
func Plain(v Value) any {
	switch v := v.(type) {
	case Concrete:
		return v.Literal
	case ClassLiteral:
		return v.String()
	case Semantic:
		return v.Payload
	default:
		return nil
	}
}

// AsString returns the literal of a Concrete string value
func AsString(v Value) (string, bool) {
	c, ok := v.(Concrete)
	if !ok {
		return "", false
	}
	s, ok := c.Literal.(string)
	return s, ok
}

// AsInt returns the literal of a Concrete integral value
func AsInt(v Value) (int64, bool) {
	c, ok := v.(Concrete)
	if !ok {
		return 0, false
	}
	switch c.Literal.(type) {
	case int32, int64:
		return cast.ToInt64(c.Literal), true
	}
	return 0, false
}

// AsFloat returns the literal of any Concrete numeric value as a float64
func AsFloat(v Value) (float64, bool) {
	c, ok := v.(Concrete)
	if !ok || c.Literal == nil {
		return 0, false
	}
	if _, isStr := c.Literal.(string); isStr {
		return 0, false
	}
	f, err := cast.ToFloat64E(c.Literal)
	return f, err == nil
}

// AsPayload returns the payload of a Semantic value
func AsPayload(v Value) (any, bool) {
	s, ok := v.(Semantic)
	if !ok {
		return nil, false
	}
	return s.Payload, true
}

// isWide reports whether v occupies two stack slots (long or double)
func isWide(v Value) bool {
	switch v := v.(type) {
	case Concrete:
		switch v.Literal.(type) {
		case int64, float64:
			return true
		}
	case *Opaque:
		return v.Type == "J" || v.Type == "D"
	}
	return false
}
