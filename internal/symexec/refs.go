package symexec

import (
	"fmt"

	"github.com/blacktop/bytebun/pkg/classfile"
)

// MemberRef is the resolved target of a field access or invocation
type MemberRef struct {
	Opcode     classfile.Opcode
	Owner      string
	Name       string
	Descriptor string
	// Args is empty for fields.
	Args []classfile.FieldType
	// Returns is the field type for field accesses.
	Returns classfile.FieldType
}

func newMemberRef(op classfile.Opcode, ref *classfile.MemberRef) (MemberRef, error) {
	m := MemberRef{
		Opcode:     op,
		Owner:      ref.Class,
		Name:       ref.Name,
		Descriptor: ref.Descriptor,
	}
	if ref.Kind == classfile.TagFieldref {
		t, err := classfile.ParseFieldType(ref.Descriptor)
		if err != nil {
			return m, err
		}
		m.Returns = t
		return m, nil
	}
	md, err := classfile.ParseMethodDescriptor(ref.Descriptor)
	if err != nil {
		return m, err
	}
	m.Args, m.Returns = md.Args, md.Returns
	return m, nil
}

// Is reports whether the reference matches owner, name and descriptor exactly.
// An empty argument matches anything.
func (m MemberRef) Is(owner, name, desc string) bool {
	return (owner == "" || m.Owner == owner) &&
		(name == "" || m.Name == name) &&
		(desc == "" || m.Descriptor == desc)
}

// IsStatic reports whether the access has no receiver
func (m MemberRef) IsStatic() bool {
	switch m.Opcode {
	case classfile.OpGetstatic, classfile.OpPutstatic, classfile.OpInvokestatic:
		return true
	}
	return false
}

func (m MemberRef) String() string {
	return fmt.Sprintf("%s.%s:%s", m.Owner, m.Name, m.Descriptor)
}

// DynamicRef is the resolved target of an invokedynamic
type DynamicRef struct {
	Name       string
	Descriptor string
	Args       []classfile.FieldType
	Returns    classfile.FieldType
	// Bootstrap and Arguments are nil when the walk has no class to resolve them against.
	Bootstrap *classfile.MethodHandle
	Arguments []classfile.Constant
}

func newDynamicRef(ref *classfile.DynamicRef, cf *classfile.ClassFile) (DynamicRef, error) {
	d := DynamicRef{Name: ref.Name, Descriptor: ref.Descriptor}
	md, err := classfile.ParseMethodDescriptor(ref.Descriptor)
	if err != nil {
		return d, err
	}
	d.Args, d.Returns = md.Args, md.Returns
	if cf != nil {
		bm, err := cf.Bootstrap(ref.BootstrapMethodAttrIndex)
		if err != nil {
			return d, err
		}
		d.Bootstrap, d.Arguments = bm.Method, bm.Arguments
	}
	return d, nil
}

// Target returns the member behind the first method handle bootstrap
// argument. For lambdas and method references built by LambdaMetafactory this
// is the implementation method, e.g. a constructor for Foo::new.
func (d DynamicRef) Target() (*classfile.MethodHandle, bool) {
	for _, arg := range d.Arguments {
		if mh, ok := arg.(*classfile.MethodHandle); ok {
			return mh, true
		}
	}
	return nil, false
}

func (d DynamicRef) String() string {
	return d.Name + ":" + d.Descriptor
}
