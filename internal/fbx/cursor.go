package fbx

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Cursor is a sequential little-endian reader over an immutable buffer.
// A failed read leaves the offset where it was.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor wraps buf with the offset at 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Size returns the total buffer length.
func (c *Cursor) Size() int { return len(c.buf) }

// Offset returns the current read position.
func (c *Cursor) Offset() int { return c.off }

// take returns the next n bytes and advances past them.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.off {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrOutOfRange, n, c.off, len(c.buf))
	}
	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n
	return b, nil
}

func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 assembles two little-endian 32-bit words, low word first.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	lo := binary.LittleEndian.Uint32(b)
	hi := binary.LittleEndian.Uint32(b[4:])
	return uint64(hi)<<32 | uint64(lo), nil
}

func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a two's-complement 64-bit integer from two 32-bit words.
func (c *Cursor) ReadInt64() (int64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return decodeInt64(binary.LittleEndian.Uint32(b), binary.LittleEndian.Uint32(b[4:])), nil
}

// decodeInt64 negates the (hi, lo) pair by hand when the sign bit is set:
// invert both words, add one to the low word and carry into the high word.
func decodeInt64(lo, hi uint32) int64 {
	if hi&0x80000000 == 0 {
		return int64(uint64(hi)<<32 | uint64(lo))
	}
	lo = ^lo
	hi = ^hi
	if lo == math.MaxUint32 {
		lo = 0
		hi++
	} else {
		lo++
	}
	// -2^63 negates to itself; the wrap below yields math.MinInt64.
	return -int64(uint64(hi)<<32 | uint64(lo))
}

func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBool reads one byte and returns its low bit.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadUint8()
	return v&1 == 1, err
}

// ReadString decodes exactly n bytes as a string.
func (c *Cursor) ReadString(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadRaw returns the next n bytes without copying.
func (c *Cursor) ReadRaw(n int) ([]byte, error) {
	return c.take(n)
}

// checkArray validates that count elements of width bytes fit before any
// element is decoded, so a partial array never moves the offset.
func (c *Cursor) checkArray(count, width int) error {
	if count < 0 || count > (len(c.buf)-c.off)/width {
		return fmt.Errorf("%w: need %d×%d bytes at offset %d of %d", ErrOutOfRange, count, width, c.off, len(c.buf))
	}
	return nil
}

func (c *Cursor) ReadBoolArray(count int) ([]bool, error) {
	if err := c.checkArray(count, 1); err != nil {
		return nil, err
	}
	out := make([]bool, count)
	for i := range out {
		out[i], _ = c.ReadBool()
	}
	return out, nil
}

func (c *Cursor) ReadInt32Array(count int) ([]int32, error) {
	if err := c.checkArray(count, 4); err != nil {
		return nil, err
	}
	out := make([]int32, count)
	for i := range out {
		out[i], _ = c.ReadInt32()
	}
	return out, nil
}

func (c *Cursor) ReadInt64Array(count int) ([]int64, error) {
	if err := c.checkArray(count, 8); err != nil {
		return nil, err
	}
	out := make([]int64, count)
	for i := range out {
		out[i], _ = c.ReadInt64()
	}
	return out, nil
}

func (c *Cursor) ReadFloat32Array(count int) ([]float32, error) {
	if err := c.checkArray(count, 4); err != nil {
		return nil, err
	}
	out := make([]float32, count)
	for i := range out {
		out[i], _ = c.ReadFloat32()
	}
	return out, nil
}

func (c *Cursor) ReadFloat64Array(count int) ([]float64, error) {
	if err := c.checkArray(count, 8); err != nil {
		return nil, err
	}
	out := make([]float64, count)
	for i := range out {
		out[i], _ = c.ReadFloat64()
	}
	return out, nil
}
