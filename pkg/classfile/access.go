package classfile

import "strings"

// AccessFlags are the access_flags of a class, field or method
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020 // also ACC_SYNCHRONIZED on methods
	AccVolatile     AccessFlags = 0x0040 // also ACC_BRIDGE on methods
	AccTransient    AccessFlags = 0x0080 // also ACC_VARARGS on methods
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
	AccBridge                   = AccVolatile
	AccSynchronized             = AccSuper
)

func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag != 0 }
func (f AccessFlags) IsPublic() bool            { return f.Has(AccPublic) }
func (f AccessFlags) IsStatic() bool            { return f.Has(AccStatic) }
func (f AccessFlags) IsAbstract() bool          { return f.Has(AccAbstract) }
func (f AccessFlags) IsInterface() bool         { return f.Has(AccInterface) }
func (f AccessFlags) IsEnum() bool              { return f.Has(AccEnum) }
func (f AccessFlags) IsSynthetic() bool         { return f.Has(AccSynthetic) }

func (f AccessFlags) String() string {
	var names []string
	for _, n := range []struct {
		flag AccessFlags
		name string
	}{
		{AccPublic, "public"},
		{AccPrivate, "private"},
		{AccProtected, "protected"},
		{AccStatic, "static"},
		{AccFinal, "final"},
		{AccInterface, "interface"},
		{AccAbstract, "abstract"},
		{AccSynthetic, "synthetic"},
		{AccEnum, "enum"},
	} {
		if f.Has(n.flag) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, " ")
}
