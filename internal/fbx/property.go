package fbx

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/klauspost/compress/zlib"
)

// Property is one decoded value from a record's property list.
// Tag is the type character from the file; Value holds the Go value:
//
//	C bool, I uint32, L int64, F float32, D float64, S string, R []byte,
//	b/c []bool, i []int32, l []int64, f []float32, d []float64
type Property struct {
	Tag   byte
	Value any
}

// ReadProperty decodes one tagged value at the cursor.
func ReadProperty(c *Cursor) (Property, error) {
	start := c.Offset()
	tag, err := c.ReadUint8()
	if err != nil {
		return Property{}, err
	}

	p := Property{Tag: tag}
	switch tag {
	case 'C':
		p.Value, err = c.ReadBool()
	case 'I':
		p.Value, err = c.ReadUint32()
	case 'L':
		p.Value, err = c.ReadInt64()
	case 'F':
		p.Value, err = c.ReadFloat32()
	case 'D':
		p.Value, err = c.ReadFloat64()
	case 'S':
		var n uint32
		if n, err = c.ReadUint32(); err == nil {
			p.Value, err = c.ReadString(int(n))
		}
	case 'R':
		var n uint32
		if n, err = c.ReadUint32(); err == nil {
			p.Value, err = c.ReadRaw(int(n))
		}
	case 'b', 'c', 'd', 'f', 'i', 'l':
		p.Value, err = readArray(c, tag)
	default:
		return Property{}, fmt.Errorf("%w: tag %q at offset %d", ErrUnsupportedPropertyType, tag, start)
	}
	if err != nil {
		return Property{}, err
	}
	return p, nil
}

func readArray(c *Cursor, tag byte) (any, error) {
	length, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	encoding, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	compressedLength, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}

	src := c
	if encoding != 0 {
		// The outer cursor moves past the compressed span, never the inflated size.
		raw, err := c.ReadRaw(int(compressedLength))
		if err != nil {
			return nil, err
		}
		inflated, err := inflate(raw, int64(length)*elementWidth(tag))
		if err != nil {
			return nil, err
		}
		src = NewCursor(inflated)
	}

	n := int(length)
	switch tag {
	case 'b', 'c':
		return src.ReadBoolArray(n)
	case 'd':
		return src.ReadFloat64Array(n)
	case 'f':
		return src.ReadFloat32Array(n)
	case 'i':
		return src.ReadInt32Array(n)
	default: // 'l'
		return src.ReadInt64Array(n)
	}
}

func elementWidth(tag byte) int64 {
	switch tag {
	case 'b', 'c':
		return 1
	case 'f', 'i':
		return 4
	default: // 'd', 'l'
		return 8
	}
}

// inflate decompresses exactly want bytes. Output past want is never read,
// so the declared array length bounds the allocation.
func inflate(raw []byte, want int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, want))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	if int64(len(out)) < want {
		return nil, fmt.Errorf("%w: inflated %d bytes, array needs %d", ErrDecompress, len(out), want)
	}
	return out, nil
}

// IsArray reports whether the property holds one of the homogeneous arrays.
func (p Property) IsArray() bool {
	switch p.Tag {
	case 'b', 'c', 'd', 'f', 'i', 'l':
		return true
	}
	return false
}

// IsNumeric reports whether the property is a scalar number.
func (p Property) IsNumeric() bool {
	switch p.Tag {
	case 'I', 'L', 'F', 'D':
		return true
	}
	return false
}

// String renders scalars as text; strings come back verbatim.
func (p Property) String() string {
	switch v := p.Value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []byte:
		return string(v)
	case nil:
		return ""
	}
	return fmt.Sprint(p.Value)
}

// Int64 converts a numeric or bool scalar. ok is false for other kinds.
func (p Property) Int64() (v int64, ok bool) {
	switch x := p.Value.(type) {
	case uint32:
		return int64(x), true
	case int64:
		return x, true
	case float32:
		return int64(x), true
	case float64:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Float64 converts a numeric scalar.
func (p Property) Float64() (v float64, ok bool) {
	switch x := p.Value.(type) {
	case uint32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Float64s widens any numeric array to []float64.
func (p Property) Float64s() []float64 {
	switch x := p.Value.(type) {
	case []float64:
		return x
	case []float32:
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = float64(v)
		}
		return out
	case []int32:
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = float64(v)
		}
		return out
	case []int64:
		out := make([]float64, len(x))
		for i, v := range x {
			out[i] = float64(v)
		}
		return out
	}
	return nil
}

// Float32s narrows any numeric array to []float32.
func (p Property) Float32s() []float32 {
	if x, ok := p.Value.([]float32); ok {
		return x
	}
	wide := p.Float64s()
	if wide == nil {
		return nil
	}
	out := make([]float32, len(wide))
	for i, v := range wide {
		out[i] = float32(v)
	}
	return out
}

// Int64s widens any integer array to []int64; float arrays are truncated.
func (p Property) Int64s() []int64 {
	switch x := p.Value.(type) {
	case []int64:
		return x
	case []int32:
		out := make([]int64, len(x))
		for i, v := range x {
			out[i] = int64(v)
		}
		return out
	case []float32, []float64:
		wide := p.Float64s()
		out := make([]int64, len(wide))
		for i, v := range wide {
			out[i] = int64(v)
		}
		return out
	}
	return nil
}
