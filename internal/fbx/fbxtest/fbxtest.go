// Package fbxtest encodes synthetic binary FBX buffers for tests.
package fbxtest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zlib"
)

const magic = "Kaydara FBX Binary  \x00"

// footerTail is the fixed 16-byte sequence closing every binary FBX file.
var footerTail = []byte{0xf8, 0x5a, 0x8c, 0x6a, 0xde, 0xf5, 0xd9, 0x7e, 0xec, 0xe9, 0x0c, 0xe3, 0x75, 0x8f, 0x29, 0x0b}

// Prop is one encoded property: type tag followed by its payload.
type Prop []byte

func Bool(v bool) Prop {
	if v {
		return Prop{'C', 1}
	}
	return Prop{'C', 0}
}

func Uint32(v uint32) Prop {
	return binary.LittleEndian.AppendUint32(Prop{'I'}, v)
}

func Int64(v int64) Prop {
	return binary.LittleEndian.AppendUint64(Prop{'L'}, uint64(v))
}

func Float32(v float32) Prop {
	return binary.LittleEndian.AppendUint32(Prop{'F'}, math.Float32bits(v))
}

func Float64(v float64) Prop {
	return binary.LittleEndian.AppendUint64(Prop{'D'}, math.Float64bits(v))
}

func String(s string) Prop {
	p := binary.LittleEndian.AppendUint32(Prop{'S'}, uint32(len(s)))
	return append(p, s...)
}

func Raw(b []byte) Prop {
	p := binary.LittleEndian.AppendUint32(Prop{'R'}, uint32(len(b)))
	return append(p, b...)
}

// Tag builds a property with an arbitrary tag and payload.
func Tag(tag byte, payload []byte) Prop {
	return append(Prop{tag}, payload...)
}

func array(tag byte, count int, payload []byte) Prop {
	p := Prop{tag}
	p = binary.LittleEndian.AppendUint32(p, uint32(count))
	p = binary.LittleEndian.AppendUint32(p, 0)
	p = binary.LittleEndian.AppendUint32(p, uint32(len(payload)))
	return append(p, payload...)
}

func Bools(v []bool) Prop {
	payload := make([]byte, len(v))
	for i, b := range v {
		if b {
			payload[i] = 1
		}
	}
	return array('b', len(v), payload)
}

func Int32s(v []int32) Prop {
	var payload []byte
	for _, x := range v {
		payload = binary.LittleEndian.AppendUint32(payload, uint32(x))
	}
	return array('i', len(v), payload)
}

func Int64s(v []int64) Prop {
	var payload []byte
	for _, x := range v {
		payload = binary.LittleEndian.AppendUint64(payload, uint64(x))
	}
	return array('l', len(v), payload)
}

func Float32s(v []float32) Prop {
	var payload []byte
	for _, x := range v {
		payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(x))
	}
	return array('f', len(v), payload)
}

func Float64s(v []float64) Prop {
	var payload []byte
	for _, x := range v {
		payload = binary.LittleEndian.AppendUint64(payload, math.Float64bits(x))
	}
	return array('d', len(v), payload)
}

// Compressed re-encodes an uncompressed array property with zlib.
func Compressed(p Prop) Prop {
	count := binary.LittleEndian.Uint32(p[1:5])
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(p[13:])
	zw.Close()

	out := Prop{p[0]}
	out = binary.LittleEndian.AppendUint32(out, count)
	out = binary.LittleEndian.AppendUint32(out, 1)
	out = binary.LittleEndian.AppendUint32(out, uint32(buf.Len()))
	return append(out, buf.Bytes()...)
}

// Record is one node with its properties and nested records.
type Record struct {
	Name     string
	Props    []Prop
	Children []Record
}

// R builds a childless record.
func R(name string, props ...Prop) Record {
	return Record{Name: name, Props: props}
}

// With returns r with children appended.
func (r Record) With(children ...Record) Record {
	r.Children = append(append([]Record(nil), r.Children...), children...)
	return r
}

// HeaderWidth is the size of one record header field for a version.
func HeaderWidth(version uint32) int {
	if version >= 7500 {
		return 8
	}
	return 4
}

// NullRecordSize is the size of a terminator record for a version.
func NullRecordSize(version uint32) int {
	return 3*HeaderWidth(version) + 1
}

// Header returns the 27-byte file header.
func Header(version uint32) []byte {
	b := append([]byte(magic), 0x1a, 0x00)
	return binary.LittleEndian.AppendUint32(b, version)
}

// AppendRecord encodes r at the end of b; offsets are absolute within b.
func AppendRecord(b []byte, version uint32, r Record) []byte {
	w := HeaderWidth(version)
	start := len(b)
	b = append(b, make([]byte, 3*w)...)
	b = append(b, byte(len(r.Name)))
	b = append(b, r.Name...)

	propStart := len(b)
	for _, p := range r.Props {
		b = append(b, p...)
	}
	propLen := len(b) - propStart

	for _, c := range r.Children {
		b = AppendRecord(b, version, c)
	}
	if len(r.Children) > 0 {
		b = append(b, make([]byte, NullRecordSize(version))...)
	}

	putField(b[start:], w, uint64(len(b)))
	putField(b[start+w:], w, uint64(len(r.Props)))
	putField(b[start+2*w:], w, uint64(propLen))
	return b
}

func putField(b []byte, w int, v uint64) {
	if w == 8 {
		binary.LittleEndian.PutUint64(b, v)
		return
	}
	binary.LittleEndian.PutUint32(b, uint32(v))
}

// Body returns header plus records, without the closing null record and footer.
func Body(version uint32, records ...Record) []byte {
	b := Header(version)
	for _, r := range records {
		b = AppendRecord(b, version, r)
	}
	return b
}

// File returns a complete buffer: header, records, top-level terminator and footer.
func File(version uint32, records ...Record) []byte {
	b := Body(version, records...)
	b = append(b, make([]byte, NullRecordSize(version))...)
	b = append(b, make([]byte, 160)...)
	return append(b, footerTail...)
}
