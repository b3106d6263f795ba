// Package classfile reads JVM class files into a navigable in-memory model.
package classfile

import (
	"fmt"
	"io"
)

const magic = 0xCAFEBABE

// ClassFile is an immutable, parsed class file
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Constants    ConstantPool
	AccessFlags  AccessFlags
	Name         string // internal name of this class
	SuperClass   string // internal name of the superclass, empty for java/lang/Object
	Interfaces   []string
	Fields       []*Field
	Methods      []*Method
	Attributes   []Attribute

	bootstrap []BootstrapMethod
}

// Member is the shared shape of fields and methods
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

// Field is a field_info structure
type Field struct {
	Member
}

// Method is a method_info structure
type Method struct {
	Member

	class *ClassFile
	code  *Code
}

// Attribute is a raw attribute_info
type Attribute struct {
	Name string
	Data []byte
}

// Code is a parsed Code attribute
type Code struct {
	MaxStack       uint16
	MaxLocals      uint16
	Bytecode       []byte
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}

// ExceptionHandler is one entry of a Code attribute's exception table
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType string // empty for finally blocks
}

// BootstrapMethod is one entry of the BootstrapMethods attribute
type BootstrapMethod struct {
	Method    *MethodHandle
	Arguments []Constant
}

// Parse reads a class file
func Parse(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a class file held in memory
func ParseBytes(data []byte) (*ClassFile, error) {
	r := newReader(data)

	m, err := r.ReadU4()
	if err != nil {
		return nil, err
	}
	if m != magic {
		return nil, fmt.Errorf("%w: magic %#x", ErrBadMagic, m)
	}

	cf := &ClassFile{}
	if cf.MinorVersion, err = r.ReadU2(); err != nil {
		return nil, err
	}
	if cf.MajorVersion, err = r.ReadU2(); err != nil {
		return nil, err
	}
	if cf.Constants, err = readConstantPool(r); err != nil {
		return nil, err
	}

	flags, err := r.ReadU2()
	if err != nil {
		return nil, err
	}
	cf.AccessFlags = AccessFlags(flags)

	if cf.Name, err = cf.readClassName(r); err != nil {
		return nil, fmt.Errorf("failed to read this_class: %w", err)
	}
	if cf.SuperClass, err = cf.readClassName(r); err != nil {
		return nil, fmt.Errorf("failed to read super_class of %s: %w", cf.Name, err)
	}

	count, err := r.ReadU2()
	if err != nil {
		return nil, err
	}
	for range count {
		iface, err := cf.readClassName(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read interfaces of %s: %w", cf.Name, err)
		}
		cf.Interfaces = append(cf.Interfaces, iface)
	}

	if count, err = r.ReadU2(); err != nil {
		return nil, err
	}
	for range count {
		member, err := cf.readMember(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read field of %s: %w", cf.Name, err)
		}
		cf.Fields = append(cf.Fields, &Field{Member: member})
	}

	if count, err = r.ReadU2(); err != nil {
		return nil, err
	}
	for range count {
		member, err := cf.readMember(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read method of %s: %w", cf.Name, err)
		}
		cf.Methods = append(cf.Methods, &Method{Member: member, class: cf})
	}

	if cf.Attributes, err = cf.readAttributes(r); err != nil {
		return nil, fmt.Errorf("failed to read attributes of %s: %w", cf.Name, err)
	}

	if attr := cf.Attribute("BootstrapMethods"); attr != nil {
		if cf.bootstrap, err = cf.parseBootstrapMethods(attr.Data); err != nil {
			return nil, fmt.Errorf("failed to parse BootstrapMethods of %s: %w", cf.Name, err)
		}
	}

	return cf, nil
}

func (cf *ClassFile) readClassName(r *reader) (string, error) {
	idx, err := r.ReadU2()
	if err != nil {
		return "", err
	}
	if idx == 0 {
		return "", nil
	}
	return cf.className(idx)
}

func (cf *ClassFile) className(idx uint16) (string, error) {
	c, err := cf.Constants.Get(idx)
	if err != nil {
		return "", err
	}
	class, ok := c.(*ClassRef)
	if !ok {
		return "", fmt.Errorf("constant %d is %s, not Class", idx, c.Tag())
	}
	return class.Name, nil
}

func (cf *ClassFile) readMember(r *reader) (Member, error) {
	var m Member
	flags, err := r.ReadU2()
	if err != nil {
		return m, err
	}
	m.AccessFlags = AccessFlags(flags)

	idx, err := r.ReadU2()
	if err != nil {
		return m, err
	}
	if m.Name, err = cf.Constants.Utf8(idx); err != nil {
		return m, err
	}
	if idx, err = r.ReadU2(); err != nil {
		return m, err
	}
	if m.Descriptor, err = cf.Constants.Utf8(idx); err != nil {
		return m, err
	}
	if m.Attributes, err = cf.readAttributes(r); err != nil {
		return m, fmt.Errorf("%s%s: %w", m.Name, m.Descriptor, err)
	}
	return m, nil
}

func (cf *ClassFile) readAttributes(r *reader) ([]Attribute, error) {
	count, err := r.ReadU2()
	if err != nil {
		return nil, err
	}
	attrs := make([]Attribute, 0, count)
	for range count {
		idx, err := r.ReadU2()
		if err != nil {
			return nil, err
		}
		name, err := cf.Constants.Utf8(idx)
		if err != nil {
			return nil, err
		}
		length, err := r.ReadU4()
		if err != nil {
			return nil, err
		}
		data, err := r.ReadNBytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		attrs = append(attrs, Attribute{Name: name, Data: data})
	}
	return attrs, nil
}

func (cf *ClassFile) parseBootstrapMethods(data []byte) ([]BootstrapMethod, error) {
	r := newReader(data)
	count, err := r.ReadU2()
	if err != nil {
		return nil, err
	}
	methods := make([]BootstrapMethod, 0, count)
	for range count {
		ref, err := r.ReadU2()
		if err != nil {
			return nil, err
		}
		c, err := cf.Constants.Get(ref)
		if err != nil {
			return nil, err
		}
		mh, ok := c.(*MethodHandle)
		if !ok {
			return nil, fmt.Errorf("bootstrap method %d is %s, not MethodHandle", ref, c.Tag())
		}
		nargs, err := r.ReadU2()
		if err != nil {
			return nil, err
		}
		bm := BootstrapMethod{Method: mh}
		for range nargs {
			ai, err := r.ReadU2()
			if err != nil {
				return nil, err
			}
			arg, err := cf.Constants.Get(ai)
			if err != nil {
				return nil, err
			}
			bm.Arguments = append(bm.Arguments, arg)
		}
		methods = append(methods, bm)
	}
	return methods, nil
}

// Attribute returns the first class attribute with the given name
func (cf *ClassFile) Attribute(name string) *Attribute {
	return findAttribute(cf.Attributes, name)
}

// Signature returns the generic signature of the class, if present
func (cf *ClassFile) Signature() (string, bool) {
	return cf.signature(cf.Attributes)
}

func (cf *ClassFile) signature(attrs []Attribute) (string, bool) {
	attr := findAttribute(attrs, "Signature")
	if attr == nil || len(attr.Data) != 2 {
		return "", false
	}
	s, err := cf.Constants.Utf8(uint16(attr.Data[0])<<8 | uint16(attr.Data[1]))
	if err != nil {
		return "", false
	}
	return s, true
}

// Bootstrap returns the entry at index i of the BootstrapMethods attribute
func (cf *ClassFile) Bootstrap(i uint16) (*BootstrapMethod, error) {
	if int(i) >= len(cf.bootstrap) {
		return nil, fmt.Errorf("%s has no bootstrap method %d", cf.Name, i)
	}
	return &cf.bootstrap[i], nil
}

// Method returns the first method called name, or nil
func (cf *ClassFile) Method(name string) *Method {
	for _, m := range cf.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FindMethods returns every method for which fn returns true
func (cf *ClassFile) FindMethods(fn func(*Method) bool) []*Method {
	var out []*Method
	for _, m := range cf.Methods {
		if fn(m) {
			out = append(out, m)
		}
	}
	return out
}

// Field returns the field called name, or nil
func (cf *ClassFile) Field(name string) *Field {
	for _, f := range cf.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindFields returns every field for which fn returns true
func (cf *ClassFile) FindFields(fn func(*Field) bool) []*Field {
	var out []*Field
	for _, f := range cf.Fields {
		if fn(f) {
			out = append(out, f)
		}
	}
	return out
}

// Class returns the class that declares the method
func (m *Method) Class() *ClassFile {
	return m.class
}

// Signature returns the parsed method descriptor
func (m *Method) Signature() (MethodDescriptor, error) {
	return ParseMethodDescriptor(m.Descriptor)
}

// Code returns the parsed Code attribute, or nil for abstract and native methods
func (m *Method) Code() (*Code, error) {
	if m.code != nil {
		return m.code, nil
	}
	attr := findAttribute(m.Attributes, "Code")
	if attr == nil {
		return nil, nil
	}
	code, err := m.class.parseCode(attr.Data)
	if err != nil {
		return nil, fmt.Errorf("%s.%s%s: %w", m.class.Name, m.Name, m.Descriptor, err)
	}
	m.code = code
	return code, nil
}

// Instructions disassembles the method body
func (m *Method) Instructions() ([]Instruction, error) {
	code, err := m.Code()
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, fmt.Errorf("%s.%s%s has no code", m.class.Name, m.Name, m.Descriptor)
	}
	return Disassemble(code.Bytecode, m.class.Constants)
}

func (cf *ClassFile) parseCode(data []byte) (*Code, error) {
	r := newReader(data)
	code := &Code{}
	var err error
	if code.MaxStack, err = r.ReadU2(); err != nil {
		return nil, err
	}
	if code.MaxLocals, err = r.ReadU2(); err != nil {
		return nil, err
	}
	length, err := r.ReadU4()
	if err != nil {
		return nil, err
	}
	if code.Bytecode, err = r.ReadNBytes(int(length)); err != nil {
		return nil, err
	}
	count, err := r.ReadU2()
	if err != nil {
		return nil, err
	}
	for range count {
		var h ExceptionHandler
		if h.StartPC, err = r.ReadU2(); err != nil {
			return nil, err
		}
		if h.EndPC, err = r.ReadU2(); err != nil {
			return nil, err
		}
		if h.HandlerPC, err = r.ReadU2(); err != nil {
			return nil, err
		}
		if h.CatchType, err = cf.readClassName(r); err != nil {
			return nil, err
		}
		code.ExceptionTable = append(code.ExceptionTable, h)
	}
	if code.Attributes, err = cf.readAttributes(r); err != nil {
		return nil, err
	}
	return code, nil
}

// Signature returns the generic signature of the field, if present
func (f *Field) Signature(cf *ClassFile) (string, bool) {
	return cf.signature(f.Attributes)
}

func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}
