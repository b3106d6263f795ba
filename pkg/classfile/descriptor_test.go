package classfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacktop/bytebun/pkg/classfile"
)

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		desc string
		want classfile.FieldType
		wide bool
		ref  bool
	}{
		{"I", classfile.FieldType{Base: 'I'}, false, false},
		{"J", classfile.FieldType{Base: 'J'}, true, false},
		{"[D", classfile.FieldType{Base: 'D', Dimensions: 1}, false, true},
		{"Ljava/lang/String;", classfile.FieldType{Base: 'L', Name: "java/lang/String"}, false, true},
		{"[[Lnet/minecraft/a;", classfile.FieldType{Base: 'L', Dimensions: 2, Name: "net/minecraft/a"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := classfile.ParseFieldType(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wide, got.IsWide())
			assert.Equal(t, tt.ref, got.IsReference())
			assert.Equal(t, tt.desc, got.String())
		})
	}

	for _, bad := range []string{"", "V", "[", "Ljava/lang/String", "II", "X"} {
		_, err := classfile.ParseFieldType(bad)
		assert.ErrorIs(t, err, classfile.ErrBadDescriptor, bad)
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	md, err := classfile.ParseMethodDescriptor("(IJ[Ljava/lang/String;Z)Lnet/minecraft/a;")
	require.NoError(t, err)
	require.Len(t, md.Args, 4)
	assert.True(t, md.Args[1].IsWide())
	assert.Equal(t, "java/lang/String", md.Args[2].Name)
	assert.Equal(t, "net/minecraft/a", md.Returns.Name)
	assert.Equal(t, "(IJ[Ljava/lang/String;Z)Lnet/minecraft/a;", md.String())

	md, err = classfile.ParseMethodDescriptor("()V")
	require.NoError(t, err)
	assert.Empty(t, md.Args)
	assert.True(t, md.Returns.IsVoid())

	for _, bad := range []string{"V", "(I", "(V)V", "()", "()VV", "(I)[V"} {
		_, err := classfile.ParseMethodDescriptor(bad)
		assert.ErrorIs(t, err, classfile.ErrBadDescriptor, bad)
	}
}
