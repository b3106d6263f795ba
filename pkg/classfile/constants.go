package classfile

import (
	"fmt"
)

// Tag is a constant pool entry tag
type Tag uint8

const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

func (t Tag) String() string {
	switch t {
	case TagUtf8:
		return "Utf8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagDynamic:
		return "Dynamic"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	case TagModule:
		return "Module"
	case TagPackage:
		return "Package"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Constant is a single constant pool entry
type Constant interface {
	Tag() Tag
}

type Utf8 struct {
	Value string
}

type Integer struct {
	Value int32
}

type Float struct {
	Value float32
}

type Long struct {
	Value int64
}

type Double struct {
	Value float64
}

// ClassRef is a CONSTANT_Class_info
type ClassRef struct {
	NameIndex uint16
	Name      string // internal name, e.g. "java/lang/Object" or "[I"
}

type String struct {
	StringIndex uint16
	Value       string
}

type NameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Name            string
	Descriptor      string
}

// MemberRef is a CONSTANT_Fieldref_info, CONSTANT_Methodref_info or
// CONSTANT_InterfaceMethodref_info with its symbolic parts resolved.
type MemberRef struct {
	Kind             Tag
	ClassIndex       uint16
	NameAndTypeIndex uint16
	Class            string
	Name             string
	Descriptor       string
}

// Method handle reference kinds
const (
	RefGetField         uint8 = 1
	RefGetStatic        uint8 = 2
	RefPutField         uint8 = 3
	RefPutStatic        uint8 = 4
	RefInvokeVirtual    uint8 = 5
	RefInvokeStatic     uint8 = 6
	RefInvokeSpecial    uint8 = 7
	RefNewInvokeSpecial uint8 = 8
	RefInvokeInterface  uint8 = 9
)

type MethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
	Reference      *MemberRef
}

type MethodType struct {
	DescriptorIndex uint16
	Descriptor      string
}

// DynamicRef is a CONSTANT_Dynamic_info or CONSTANT_InvokeDynamic_info
type DynamicRef struct {
	Kind                     Tag
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
	Name                     string
	Descriptor               string
}

type ModuleRef struct {
	NameIndex uint16
	Name      string
}

type PackageRef struct {
	NameIndex uint16
	Name      string
}

func (Utf8) Tag() Tag          { return TagUtf8 }
func (Integer) Tag() Tag       { return TagInteger }
func (Float) Tag() Tag         { return TagFloat }
func (Long) Tag() Tag          { return TagLong }
func (Double) Tag() Tag        { return TagDouble }
func (*ClassRef) Tag() Tag     { return TagClass }
func (*String) Tag() Tag       { return TagString }
func (*NameAndType) Tag() Tag  { return TagNameAndType }
func (m *MemberRef) Tag() Tag  { return m.Kind }
func (*MethodHandle) Tag() Tag { return TagMethodHandle }
func (*MethodType) Tag() Tag   { return TagMethodType }
func (d *DynamicRef) Tag() Tag { return d.Kind }
func (*ModuleRef) Tag() Tag    { return TagModule }
func (*PackageRef) Tag() Tag   { return TagPackage }

func (m *MemberRef) String() string {
	return m.Class + "." + m.Name + ":" + m.Descriptor
}

// ConstantPool is indexed from 1; slot 0 and the slot after a Long/Double are nil.
type ConstantPool []Constant

// Get returns the entry at index i
func (cp ConstantPool) Get(i uint16) (Constant, error) {
	if int(i) <= 0 || int(i) >= len(cp) || cp[i] == nil {
		return nil, fmt.Errorf("%w: %d", ErrBadConstantIndex, i)
	}
	return cp[i], nil
}

// Utf8 returns the string value of the Utf8 entry at index i
func (cp ConstantPool) Utf8(i uint16) (string, error) {
	c, err := cp.Get(i)
	if err != nil {
		return "", err
	}
	u, ok := c.(Utf8)
	if !ok {
		return "", fmt.Errorf("constant %d is %s, not Utf8", i, c.Tag())
	}
	return u.Value, nil
}

// Strings returns the values of all CONSTANT_String entries in pool order
func (cp ConstantPool) Strings() []string {
	var out []string
	for _, c := range cp {
		if s, ok := c.(*String); ok {
			out = append(out, s.Value)
		}
	}
	return out
}

// HasString reports whether the pool holds a CONSTANT_String equal to s
func (cp ConstantPool) HasString(s string) bool {
	for _, c := range cp {
		if str, ok := c.(*String); ok && str.Value == s {
			return true
		}
	}
	return false
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count, err := r.ReadU2()
	if err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", err)
	}

	cp := make(ConstantPool, count)
	for i := 1; i < int(count); i++ {
		tag, err := r.ReadU1()
		if err != nil {
			return nil, fmt.Errorf("failed to read tag of constant %d: %w", i, err)
		}

		var c Constant
		switch Tag(tag) {
		case TagUtf8:
			length, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			raw, err := r.ReadNBytes(int(length))
			if err != nil {
				return nil, err
			}
			s, err := decodeModifiedUTF8(raw)
			if err != nil {
				return nil, fmt.Errorf("constant %d: %w", i, err)
			}
			c = Utf8{Value: s}
		case TagInteger:
			v, err := r.ReadI4()
			if err != nil {
				return nil, err
			}
			c = Integer{Value: v}
		case TagFloat:
			v, err := r.ReadF4()
			if err != nil {
				return nil, err
			}
			c = Float{Value: v}
		case TagLong:
			v, err := r.ReadU8()
			if err != nil {
				return nil, err
			}
			c = Long{Value: int64(v)}
		case TagDouble:
			v, err := r.ReadF8()
			if err != nil {
				return nil, err
			}
			c = Double{Value: v}
		case TagClass:
			idx, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &ClassRef{NameIndex: idx}
		case TagString:
			idx, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &String{StringIndex: idx}
		case TagFieldref, TagMethodref, TagInterfaceMethodref:
			ci, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			nt, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &MemberRef{Kind: Tag(tag), ClassIndex: ci, NameAndTypeIndex: nt}
		case TagNameAndType:
			ni, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			di, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &NameAndType{NameIndex: ni, DescriptorIndex: di}
		case TagMethodHandle:
			kind, err := r.ReadU1()
			if err != nil {
				return nil, err
			}
			ri, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &MethodHandle{ReferenceKind: kind, ReferenceIndex: ri}
		case TagMethodType:
			di, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &MethodType{DescriptorIndex: di}
		case TagDynamic, TagInvokeDynamic:
			bi, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			nt, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &DynamicRef{Kind: Tag(tag), BootstrapMethodAttrIndex: bi, NameAndTypeIndex: nt}
		case TagModule:
			ni, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &ModuleRef{NameIndex: ni}
		case TagPackage:
			ni, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			c = &PackageRef{NameIndex: ni}
		default:
			return nil, fmt.Errorf("%w: %d at constant %d", ErrUnknownConstantTag, tag, i)
		}

		cp[i] = c
		if tag == uint8(TagLong) || tag == uint8(TagDouble) {
			i++ // 8-byte constants take up two entries
		}
	}

	if err := cp.resolve(); err != nil {
		return nil, err
	}

	return cp, nil
}

// resolve fills in the symbolic names of every reference constant
func (cp ConstantPool) resolve() error {
	var err error
	// pass 1: entries that only point at Utf8
	for i, c := range cp {
		switch v := c.(type) {
		case *ClassRef:
			v.Name, err = cp.Utf8(v.NameIndex)
		case *String:
			v.Value, err = cp.Utf8(v.StringIndex)
		case *NameAndType:
			if v.Name, err = cp.Utf8(v.NameIndex); err == nil {
				v.Descriptor, err = cp.Utf8(v.DescriptorIndex)
			}
		case *MethodType:
			v.Descriptor, err = cp.Utf8(v.DescriptorIndex)
		case *ModuleRef:
			v.Name, err = cp.Utf8(v.NameIndex)
		case *PackageRef:
			v.Name, err = cp.Utf8(v.NameIndex)
		}
		if err != nil {
			return fmt.Errorf("failed to resolve constant %d: %w", i, err)
		}
	}
	// pass 2: entries that point at Class and NameAndType
	for i, c := range cp {
		switch v := c.(type) {
		case *MemberRef:
			err = cp.resolveMember(v)
		case *DynamicRef:
			var nt *NameAndType
			if nt, err = cp.nameAndType(v.NameAndTypeIndex); err == nil {
				v.Name, v.Descriptor = nt.Name, nt.Descriptor
			}
		}
		if err != nil {
			return fmt.Errorf("failed to resolve constant %d: %w", i, err)
		}
	}
	// pass 3: method handles point at member refs
	for i, c := range cp {
		if mh, ok := c.(*MethodHandle); ok {
			ref, err := cp.Get(mh.ReferenceIndex)
			if err != nil {
				return fmt.Errorf("failed to resolve constant %d: %w", i, err)
			}
			m, ok := ref.(*MemberRef)
			if !ok {
				return fmt.Errorf("method handle %d references %s", i, ref.Tag())
			}
			mh.Reference = m
		}
	}
	return nil
}

func (cp ConstantPool) resolveMember(m *MemberRef) error {
	c, err := cp.Get(m.ClassIndex)
	if err != nil {
		return err
	}
	class, ok := c.(*ClassRef)
	if !ok {
		return fmt.Errorf("member class index %d is %s", m.ClassIndex, c.Tag())
	}
	nt, err := cp.nameAndType(m.NameAndTypeIndex)
	if err != nil {
		return err
	}
	m.Class, m.Name, m.Descriptor = class.Name, nt.Name, nt.Descriptor
	return nil
}

func (cp ConstantPool) nameAndType(i uint16) (*NameAndType, error) {
	c, err := cp.Get(i)
	if err != nil {
		return nil, err
	}
	nt, ok := c.(*NameAndType)
	if !ok {
		return nil, fmt.Errorf("constant %d is %s, not NameAndType", i, c.Tag())
	}
	return nt, nil
}
