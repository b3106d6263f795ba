package modules

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/blacktop/bytebun/internal/symexec"
	"github.com/blacktop/bytebun/pkg/classfile"
)

// EnumConstant is one constant created by an enum's static initializer
type EnumConstant struct {
	Name    string
	Ordinal int
	Field   string
	Class   string // differs from the enum for constants with a body
	Args    []any  // constructor arguments after name and ordinal
}

type enumValue struct {
	constant *EnumConstant
}

// enumObserver collects `new E; dup; ldc name; iconst ordinal; ...; invokespecial E.<init>; putstatic E.field`
type enumObserver struct {
	symexec.NopObserver
	enum      string
	constants []*EnumConstant
}

func (o *enumObserver) isEnumClass(class string) bool {
	return class == o.enum || strings.HasPrefix(class, o.enum+"$")
}

func (o *enumObserver) Instantiate(class string) (symexec.Value, error) {
	if o.isEnumClass(class) {
		return symexec.Semantic{Payload: &enumValue{constant: &EnumConstant{Class: class}}}, nil
	}
	return o.NopObserver.Instantiate(class)
}

func (o *enumObserver) Invoke(ref symexec.MemberRef, receiver symexec.Value, args []symexec.Value) (symexec.Value, error) {
	if ref.Name == "<init>" && o.isEnumClass(ref.Owner) {
		if p, ok := symexec.AsPayload(receiver); ok {
			if ev, ok := p.(*enumValue); ok && ev.constant.Name == "" && len(args) >= 2 {
				name, ok := symexec.AsString(args[0])
				if !ok {
					return nil, fmt.Errorf("enum constant name of %s is %v", o.enum, args[0])
				}
				ordinal, ok := symexec.AsInt(args[1])
				if !ok {
					return nil, fmt.Errorf("ordinal of %s.%s is %v", o.enum, name, args[1])
				}
				ev.constant.Name = name
				ev.constant.Ordinal = int(ordinal)
				for _, arg := range args[2:] {
					ev.constant.Args = append(ev.constant.Args, symexec.Plain(arg))
				}
				return nil, nil
			}
		}
	}
	return o.NopObserver.Invoke(ref, receiver, args)
}

func (o *enumObserver) WriteField(ref symexec.MemberRef, _ symexec.Value, value symexec.Value) error {
	if ref.Owner != o.enum {
		return nil
	}
	if p, ok := symexec.AsPayload(value); ok {
		if ev, ok := p.(*enumValue); ok && ev.constant.Name != "" && ev.constant.Field == "" {
			ev.constant.Field = ref.Name
			o.constants = append(o.constants, ev.constant)
		}
	}
	return nil
}

// EnumConstants walks the static initializer of cf and returns the enum
// constants it creates, in ordinal order.
func EnumConstants(cf *classfile.ClassFile) ([]EnumConstant, error) {
	clinit := cf.Method("<clinit>")
	if clinit == nil {
		return nil, fmt.Errorf("%s has no static initializer", cf.Name)
	}
	obs := &enumObserver{enum: cf.Name}
	if _, err := symexec.Walk(cf, clinit, obs); err != nil {
		return nil, err
	}
	out := make([]EnumConstant, 0, len(obs.constants))
	for _, c := range obs.constants {
		out = append(out, *c)
	}
	slices.SortStableFunc(out, func(a, b EnumConstant) int {
		return cmp.Compare(a.Ordinal, b.Ordinal)
	})
	return out, nil
}
