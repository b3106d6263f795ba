// Package classtest assembles small class files in memory for tests.
package classtest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/blacktop/bytebun/pkg/classfile"
)

type entry struct {
	tag  classfile.Tag
	data []byte
}

type member struct {
	flags      classfile.AccessFlags
	name, desc uint16
	code       []byte
	maxLocals  uint16
}

type bootstrap struct {
	method uint16
	args   []uint16
}

// Builder accumulates a constant pool, members and bootstrap methods
type Builder struct {
	Flags classfile.AccessFlags

	pool       []entry
	index      map[string]uint16
	this       uint16
	super      uint16
	interfaces []uint16
	fields     []member
	methods    []member
	bootstrap  []bootstrap
	signature  uint16
}

// New starts a class called name extending super (empty for none)
func New(name, super string) *Builder {
	b := &Builder{
		Flags: classfile.AccPublic | classfile.AccSuper,
		index: make(map[string]uint16),
	}
	b.this = b.Class(name)
	if super != "" {
		b.super = b.Class(super)
	}
	return b
}

func (b *Builder) add(key string, tag classfile.Tag, data []byte) uint16 {
	if idx, ok := b.index[key]; ok {
		return idx
	}
	b.pool = append(b.pool, entry{tag: tag, data: data})
	idx := uint16(len(b.pool))
	if tag == classfile.TagLong || tag == classfile.TagDouble {
		b.pool = append(b.pool, entry{})
	}
	b.index[key] = idx
	return idx
}

func u2(vs ...uint16) []byte {
	out := make([]byte, 0, 2*len(vs))
	for _, v := range vs {
		out = binary.BigEndian.AppendUint16(out, v)
	}
	return out
}

// Utf8 adds a CONSTANT_Utf8 (plain ASCII/UTF-8 only)
func (b *Builder) Utf8(s string) uint16 {
	return b.add("utf8:"+s, classfile.TagUtf8, append(u2(uint16(len(s))), s...))
}

func (b *Builder) Class(name string) uint16 {
	ni := b.Utf8(name)
	return b.add("class:"+name, classfile.TagClass, u2(ni))
}

func (b *Builder) String(s string) uint16 {
	si := b.Utf8(s)
	return b.add("string:"+s, classfile.TagString, u2(si))
}

func (b *Builder) Integer(v int32) uint16 {
	return b.add(fmt.Sprintf("int:%d", v), classfile.TagInteger, binary.BigEndian.AppendUint32(nil, uint32(v)))
}

func (b *Builder) Float(v float32) uint16 {
	return b.add(fmt.Sprintf("float:%v", v), classfile.TagFloat, binary.BigEndian.AppendUint32(nil, math.Float32bits(v)))
}

func (b *Builder) Long(v int64) uint16 {
	return b.add(fmt.Sprintf("long:%d", v), classfile.TagLong, binary.BigEndian.AppendUint64(nil, uint64(v)))
}

func (b *Builder) Double(v float64) uint16 {
	return b.add(fmt.Sprintf("double:%v", v), classfile.TagDouble, binary.BigEndian.AppendUint64(nil, math.Float64bits(v)))
}

func (b *Builder) NameAndType(name, desc string) uint16 {
	ni, di := b.Utf8(name), b.Utf8(desc)
	return b.add("nat:"+name+":"+desc, classfile.TagNameAndType, u2(ni, di))
}

func (b *Builder) ref(tag classfile.Tag, class, name, desc string) uint16 {
	ci, nt := b.Class(class), b.NameAndType(name, desc)
	return b.add(fmt.Sprintf("ref%d:%s.%s:%s", tag, class, name, desc), tag, u2(ci, nt))
}

func (b *Builder) Fieldref(class, name, desc string) uint16 {
	return b.ref(classfile.TagFieldref, class, name, desc)
}

func (b *Builder) Methodref(class, name, desc string) uint16 {
	return b.ref(classfile.TagMethodref, class, name, desc)
}

func (b *Builder) InterfaceMethodref(class, name, desc string) uint16 {
	return b.ref(classfile.TagInterfaceMethodref, class, name, desc)
}

// MethodHandle adds a handle of the given reference kind pointing at ref
func (b *Builder) MethodHandle(kind uint8, ref uint16) uint16 {
	return b.add(fmt.Sprintf("mh:%d:%d", kind, ref), classfile.TagMethodHandle, append([]byte{kind}, u2(ref)...))
}

func (b *Builder) MethodType(desc string) uint16 {
	di := b.Utf8(desc)
	return b.add("mt:"+desc, classfile.TagMethodType, u2(di))
}

// Bootstrap appends a BootstrapMethods entry and returns its attribute index
func (b *Builder) Bootstrap(method uint16, args ...uint16) uint16 {
	b.bootstrap = append(b.bootstrap, bootstrap{method: method, args: args})
	return uint16(len(b.bootstrap) - 1)
}

func (b *Builder) InvokeDynamic(bsm uint16, name, desc string) uint16 {
	nt := b.NameAndType(name, desc)
	return b.add(fmt.Sprintf("indy:%d:%s:%s", bsm, name, desc), classfile.TagInvokeDynamic, u2(bsm, nt))
}

// Signature sets the generic signature attribute of the class
func (b *Builder) Signature(sig string) *Builder {
	b.Utf8("Signature")
	b.signature = b.Utf8(sig)
	return b
}

// Interface records an implemented interface
func (b *Builder) Interface(name string) *Builder {
	b.interfaces = append(b.interfaces, b.Class(name))
	return b
}

func (b *Builder) Field(flags classfile.AccessFlags, name, desc string) *Builder {
	b.fields = append(b.fields, member{flags: flags, name: b.Utf8(name), desc: b.Utf8(desc)})
	return b
}

// Method adds a method; a nil code makes it abstract
func (b *Builder) Method(flags classfile.AccessFlags, name, desc string, code []byte) *Builder {
	m := member{flags: flags, name: b.Utf8(name), desc: b.Utf8(desc), code: code, maxLocals: 16}
	if code != nil {
		b.Utf8("Code")
	}
	b.methods = append(b.methods, m)
	return b
}

// Bytes serializes the class
func (b *Builder) Bytes() []byte {
	if len(b.bootstrap) > 0 {
		b.Utf8("BootstrapMethods")
	}

	var buf bytes.Buffer
	w := func(v any) { binary.Write(&buf, binary.BigEndian, v) }

	w(uint32(0xCAFEBABE))
	w(uint16(0))
	w(uint16(52))
	w(uint16(len(b.pool) + 1))
	for _, e := range b.pool {
		if e.tag == 0 {
			continue
		}
		buf.WriteByte(byte(e.tag))
		buf.Write(e.data)
	}
	w(uint16(b.Flags))
	w(b.this)
	w(b.super)
	w(uint16(len(b.interfaces)))
	for _, i := range b.interfaces {
		w(i)
	}
	w(uint16(len(b.fields)))
	for _, f := range b.fields {
		w(uint16(f.flags))
		w(f.name)
		w(f.desc)
		w(uint16(0))
	}
	w(uint16(len(b.methods)))
	for _, m := range b.methods {
		w(uint16(m.flags))
		w(m.name)
		w(m.desc)
		if m.code == nil {
			w(uint16(0))
			continue
		}
		w(uint16(1))
		w(b.index["utf8:Code"])
		w(uint32(2 + 2 + 4 + len(m.code) + 2 + 2))
		w(uint16(16))
		w(m.maxLocals)
		w(uint32(len(m.code)))
		buf.Write(m.code)
		w(uint16(0))
		w(uint16(0))
	}
	attrs := 0
	if len(b.bootstrap) > 0 {
		attrs++
	}
	if b.signature != 0 {
		attrs++
	}
	w(uint16(attrs))
	if b.signature != 0 {
		w(b.index["utf8:Signature"])
		w(uint32(2))
		w(b.signature)
	}
	if len(b.bootstrap) == 0 {
		return buf.Bytes()
	}
	var attr bytes.Buffer
	binary.Write(&attr, binary.BigEndian, uint16(len(b.bootstrap)))
	for _, bm := range b.bootstrap {
		binary.Write(&attr, binary.BigEndian, bm.method)
		binary.Write(&attr, binary.BigEndian, uint16(len(bm.args)))
		for _, a := range bm.args {
			binary.Write(&attr, binary.BigEndian, a)
		}
	}
	w(b.index["utf8:BootstrapMethods"])
	w(uint32(attr.Len()))
	buf.Write(attr.Bytes())
	return buf.Bytes()
}

// Parse serializes and parses the class, panicking on failure
func (b *Builder) Parse() *classfile.ClassFile {
	cf, err := classfile.ParseBytes(b.Bytes())
	if err != nil {
		panic(err)
	}
	return cf
}
