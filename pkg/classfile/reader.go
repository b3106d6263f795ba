package classfile

import (
	"encoding/binary"
	"fmt"
	"math"
)

// reader reads big-endian class file data and tracks its position
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) Pos() int {
	return r.pos
}

func (r *reader) Len() int {
	return len(r.data) - r.pos
}

// ReadNBytes reads exactly n bytes
func (r *reader) ReadNBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.pos, r.Len())
	}
	buf := r.data[r.pos : r.pos+n]
	r.pos += n
	return buf, nil
}

func (r *reader) ReadU1() (uint8, error) {
	buf, err := r.ReadNBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (r *reader) ReadU2() (uint16, error) {
	buf, err := r.ReadNBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (r *reader) ReadU4() (uint32, error) {
	buf, err := r.ReadNBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func (r *reader) ReadU8() (uint64, error) {
	buf, err := r.ReadNBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

func (r *reader) ReadI1() (int8, error) {
	b, err := r.ReadU1()
	return int8(b), err
}

func (r *reader) ReadI2() (int16, error) {
	v, err := r.ReadU2()
	return int16(v), err
}

func (r *reader) ReadI4() (int32, error) {
	v, err := r.ReadU4()
	return int32(v), err
}

func (r *reader) ReadF4() (float32, error) {
	v, err := r.ReadU4()
	return math.Float32frombits(v), err
}

func (r *reader) ReadF8() (float64, error) {
	v, err := r.ReadU8()
	return math.Float64frombits(v), err
}

// Align skips padding so the position is a multiple of n (relative to the start of data)
func (r *reader) Align(n int) error {
	if pad := (n - r.pos%n) % n; pad > 0 {
		_, err := r.ReadNBytes(pad)
		return err
	}
	return nil
}
