package classfile

import (
	"fmt"
	"strings"
)

// FieldType is a parsed field descriptor
type FieldType struct {
	Base       byte   // one of BCDFIJSZV or 'L' for references
	Dimensions int    // array dimensions
	Name       string // internal class name when Base == 'L'
}

// IsVoid reports whether this is the 'V' return type
func (t FieldType) IsVoid() bool {
	return t.Base == 'V' && t.Dimensions == 0
}

// IsReference reports whether the type is an object or array reference
func (t FieldType) IsReference() bool {
	return t.Base == 'L' || t.Dimensions > 0
}

// IsWide reports whether the type takes two stack slots (long or double)
func (t FieldType) IsWide() bool {
	return t.Dimensions == 0 && (t.Base == 'J' || t.Base == 'D')
}

// String returns the descriptor form of the type
func (t FieldType) String() string {
	prefix := strings.Repeat("[", t.Dimensions)
	if t.Base == 'L' {
		return prefix + "L" + t.Name + ";"
	}
	return prefix + string(t.Base)
}

// MethodDescriptor is a parsed method descriptor
type MethodDescriptor struct {
	Args    []FieldType
	Returns FieldType
}

func (d MethodDescriptor) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, a := range d.Args {
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	sb.WriteString(d.Returns.String())
	return sb.String()
}

// ParseFieldType parses a single field descriptor such as "I" or "[Ljava/lang/String;"
func ParseFieldType(desc string) (FieldType, error) {
	t, n, err := parseFieldType(desc, false)
	if err != nil {
		return FieldType{}, err
	}
	if n != len(desc) {
		return FieldType{}, fmt.Errorf("%w: trailing data in %q", ErrBadDescriptor, desc)
	}
	return t, nil
}

// ParseMethodDescriptor parses a method descriptor such as "(ILjava/lang/String;)V"
func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	var md MethodDescriptor
	if !strings.HasPrefix(desc, "(") {
		return md, fmt.Errorf("%w: %q does not start with '('", ErrBadDescriptor, desc)
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		t, n, err := parseFieldType(desc[i:], false)
		if err != nil {
			return md, fmt.Errorf("%w in %q", err, desc)
		}
		md.Args = append(md.Args, t)
		i += n
	}
	if i >= len(desc) {
		return md, fmt.Errorf("%w: %q has no ')'", ErrBadDescriptor, desc)
	}
	ret, n, err := parseFieldType(desc[i+1:], true)
	if err != nil {
		return md, fmt.Errorf("%w in %q", err, desc)
	}
	if i+1+n != len(desc) {
		return md, fmt.Errorf("%w: trailing data in %q", ErrBadDescriptor, desc)
	}
	md.Returns = ret
	return md, nil
}

func parseFieldType(s string, allowVoid bool) (FieldType, int, error) {
	var t FieldType
	i := 0
	for i < len(s) && s[i] == '[' {
		t.Dimensions++
		i++
	}
	if i >= len(s) {
		return t, 0, fmt.Errorf("%w: unexpected end", ErrBadDescriptor)
	}
	switch c := s[i]; c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		t.Base = c
		return t, i + 1, nil
	case 'V':
		if !allowVoid || t.Dimensions > 0 {
			return t, 0, fmt.Errorf("%w: void in field position", ErrBadDescriptor)
		}
		t.Base = c
		return t, i + 1, nil
	case 'L':
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			return t, 0, fmt.Errorf("%w: unterminated class name", ErrBadDescriptor)
		}
		t.Base = 'L'
		t.Name = s[i+1 : i+end]
		return t, i + end + 1, nil
	default:
		return t, 0, fmt.Errorf("%w: unexpected %q", ErrBadDescriptor, c)
	}
}
