package classfile

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// decodeModifiedUTF8 decodes the JVM "modified UTF-8" encoding used by CONSTANT_Utf8_info.
//
// It differs from standard UTF-8 in that NUL is encoded as 0xC0 0x80 and
// supplementary characters are encoded as two 3-byte surrogates.
func decodeModifiedUTF8(b []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))

	var units []uint16
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) {
				return "", fmt.Errorf("truncated 2-byte sequence at %d", i)
			}
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) {
				return "", fmt.Errorf("truncated 3-byte sequence at %d", i)
			}
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("invalid byte %#x at %d", c, i)
		}
	}

	for _, r := range utf16.Decode(units) {
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
