// Package nbt implements the recursive tagged binary tree format used for
// world storage and network payloads. Grounded on
// _examples/original_source/src/nbt.rs: tag-type byte driven recursive
// decode/encode, with the NBT-specific detail (distinct from the wire
// protocol's varint-length strings in package varint) that NBT strings are
// prefixed by a big-endian u16 length, not a varint.
package nbt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
)

// Type identifies the tag discriminant.
type Type byte

const (
	TagEnd Type = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

// Tag is a single NBT node. Exactly one of the typed fields is meaningful,
// selected by Type — mirroring the Rust original's enum variants, expressed
// in Go as a tagged struct rather than an interface hierarchy so traversal
// and equality checks stay simple.
type Tag struct {
	Type Type

	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64

	ByteArray []byte
	String    string
	List      []Tag
	Compound  map[string]Tag
	IntArray  []int32
	LongArray []int64
}

var (
	// ErrTruncated is returned when the buffer ends before a tag is fully read.
	ErrTruncated = errors.New("nbt: truncated input")
	// ErrNegativeSize is returned when an array/list length is negative.
	ErrNegativeSize = errors.New("nbt: negative size")
)

func Byte(v int8) Tag     { return Tag{Type: TagByte, Byte: v} }
func Short(v int16) Tag   { return Tag{Type: TagShort, Short: v} }
func Int(v int32) Tag     { return Tag{Type: TagInt, Int: v} }
func Long(v int64) Tag    { return Tag{Type: TagLong, Long: v} }
func Float(v float32) Tag { return Tag{Type: TagFloat, Float: v} }
func Double(v float64) Tag { return Tag{Type: TagDouble, Double: v} }
func Str(v string) Tag    { return Tag{Type: TagString, String: v} }
func Bytes(v []byte) Tag  { return Tag{Type: TagByteArray, ByteArray: v} }
func Ints(v []int32) Tag  { return Tag{Type: TagIntArray, IntArray: v} }
func Longs(v []int64) Tag { return Tag{Type: TagLongArray, LongArray: v} }
func ListOf(v []Tag) Tag  { return Tag{Type: TagList, List: v} }
func Compound(m map[string]Tag) Tag {
	if m == nil {
		m = map[string]Tag{}
	}
	return Tag{Type: TagCompound, Compound: m}
}

// reader tracks a read cursor over a byte slice, the Go analogue of the
// Rust original's mutable bytes::Bytes cursor.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) u8() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrTruncated
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) i8() (int8, error) {
	b, err := r.u8()
	return int8(b), err
}

func (r *reader) u16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) i16() (int16, error) {
	v, err := r.u16()
	return int16(v), err
}

func (r *reader) i32() (int32, error) {
	if r.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *reader) i64() (int64, error) {
	if r.remaining() < 8 {
		return 0, ErrTruncated
	}
	v := int64(binary.BigEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *reader) f32() (float32, error) {
	v, err := r.i32()
	return math.Float32frombits(uint32(v)), err
}

func (r *reader) f64() (float64, error) {
	v, err := r.i64()
	return math.Float64frombits(uint64(v)), err
}

func (r *reader) slice(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if r.remaining() < n {
		return nil, ErrTruncated
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// string reads NBT's own string form: a big-endian u16 length followed by
// that many UTF-8 bytes. This is distinct from the wire protocol's
// varint-length strings in package varint.
func (r *reader) string() (string, error) {
	n, err := r.u16()
	if err != nil {
		return "", err
	}
	b, err := r.slice(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Parse decodes a name-prefixed root tag (the on-disk, legacy form).
func Parse(data []byte) (Tag, error) {
	return parseRoot(data, false)
}

// ParseNetwork decodes a root tag whose name prefix is present only when
// noRootName is false — the networked form omits it from wire era 1.20.2+.
func ParseNetwork(data []byte, noRootName bool) (Tag, error) {
	return parseRoot(data, noRootName)
}

func parseRoot(data []byte, noRootName bool) (Tag, error) {
	r := &reader{buf: data}
	typByte, err := r.u8()
	if err != nil {
		return Tag{}, err
	}
	typ := Type(typByte)
	if !noRootName {
		if _, err := r.string(); err != nil {
			return Tag{}, err
		}
	}
	return parseTag(typ, r)
}

func parseTag(typ Type, r *reader) (Tag, error) {
	switch typ {
	case TagEnd:
		return Tag{Type: TagEnd}, nil
	case TagByte:
		v, err := r.i8()
		return Byte(v), err
	case TagShort:
		v, err := r.i16()
		return Short(v), err
	case TagInt:
		v, err := r.i32()
		return Int(v), err
	case TagLong:
		v, err := r.i64()
		return Long(v), err
	case TagFloat:
		v, err := r.f32()
		return Float(v), err
	case TagDouble:
		v, err := r.f64()
		return Double(v), err
	case TagByteArray:
		size, err := r.i32()
		if err != nil {
			return Tag{}, err
		}
		b, err := r.slice(int(size))
		if err != nil {
			return Tag{}, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return Bytes(out), nil
	case TagString:
		s, err := r.string()
		return Str(s), err
	case TagList:
		elemByte, err := r.u8()
		if err != nil {
			return Tag{}, err
		}
		elemType := Type(elemByte)
		size, err := r.i32()
		if err != nil {
			return Tag{}, err
		}
		if size < 0 {
			return Tag{}, ErrNegativeSize
		}
		list := make([]Tag, 0, size)
		for i := int32(0); i < size; i++ {
			t, err := parseTag(elemType, r)
			if err != nil {
				return Tag{}, err
			}
			list = append(list, t)
		}
		return ListOf(list), nil
	case TagCompound:
		m := map[string]Tag{}
		for {
			tb, err := r.u8()
			if err != nil {
				return Tag{}, err
			}
			t := Type(tb)
			if t == TagEnd {
				break
			}
			name, err := r.string()
			if err != nil {
				return Tag{}, err
			}
			val, err := parseTag(t, r)
			if err != nil {
				return Tag{}, err
			}
			m[name] = val // duplicate keys keep the last, matching map insert semantics
		}
		return Compound(m), nil
	case TagIntArray:
		size, err := r.i32()
		if err != nil {
			return Tag{}, err
		}
		if size < 0 {
			return Tag{}, ErrNegativeSize
		}
		vals := make([]int32, size)
		for i := range vals {
			vals[i], err = r.i32()
			if err != nil {
				return Tag{}, err
			}
		}
		return Ints(vals), nil
	case TagLongArray:
		size, err := r.i32()
		if err != nil {
			return Tag{}, err
		}
		if size < 0 {
			return Tag{}, ErrNegativeSize
		}
		vals := make([]int64, size)
		for i := range vals {
			vals[i], err = r.i64()
			if err != nil {
				return Tag{}, err
			}
		}
		return Longs(vals), nil
	default:
		return Tag{}, fmt.Errorf("nbt: invalid tag type %d", typ)
	}
}

// Serialize appends the wire form of t to buf. When networked is true the
// root's empty name prefix is omitted (wire era 1.20.2+); otherwise a
// 2-byte empty string is written, matching legacy/disk NBT roots.
func Serialize(buf []byte, t Tag, networked bool) []byte {
	buf = append(buf, byte(t.Type))
	if !networked {
		buf = appendU16(buf, 0)
	}
	return serializeInternal(buf, t)
}

func serializeInternal(buf []byte, t Tag) []byte {
	switch t.Type {
	case TagEnd:
		return buf
	case TagByte:
		return append(buf, byte(t.Byte))
	case TagShort:
		return appendU16(buf, uint16(t.Short))
	case TagInt:
		return appendI32(buf, t.Int)
	case TagLong:
		return appendI64(buf, t.Long)
	case TagFloat:
		return appendI32(buf, int32(math.Float32bits(t.Float)))
	case TagDouble:
		return appendI64(buf, int64(math.Float64bits(t.Double)))
	case TagByteArray:
		buf = appendI32(buf, int32(len(t.ByteArray)))
		return append(buf, t.ByteArray...)
	case TagString:
		buf = appendU16(buf, uint16(len(t.String)))
		return append(buf, t.String...)
	case TagList:
		var elemType Type
		if len(t.List) > 0 {
			elemType = t.List[0].Type
		}
		buf = append(buf, byte(elemType))
		buf = appendI32(buf, int32(len(t.List)))
		for _, e := range t.List {
			buf = serializeInternal(buf, e)
		}
		return buf
	case TagCompound:
		// Key order is not semantically meaningful, but deterministic output
		// makes encoder tests reproducible.
		keys := make([]string, 0, len(t.Compound))
		for k := range t.Compound {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := t.Compound[k]
			buf = append(buf, byte(v.Type))
			buf = appendU16(buf, uint16(len(k)))
			buf = append(buf, k...)
			buf = serializeInternal(buf, v)
		}
		return append(buf, byte(TagEnd))
	case TagIntArray:
		buf = appendI32(buf, int32(len(t.IntArray)))
		for _, v := range t.IntArray {
			buf = appendI32(buf, v)
		}
		return buf
	case TagLongArray:
		buf = appendI32(buf, int32(len(t.LongArray)))
		for _, v := range t.LongArray {
			buf = appendI64(buf, v)
		}
		return buf
	default:
		return buf
	}
}

func appendU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendI32(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func appendI64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

// Traverse walks slash-separated Compound keys, e.g. "a/b/c".
func (t Tag) Traverse(path string) (Tag, bool) {
	cur := t
	parts := splitPath(path)
	for i, part := range parts {
		if cur.Type != TagCompound {
			return Tag{}, false
		}
		next, ok := cur.Compound[part]
		if !ok {
			return Tag{}, false
		}
		if i == len(parts)-1 {
			return next, true
		}
		cur = next
	}
	return Tag{}, false
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			parts = append(parts, path[start:i])
			start = i + 1
		}
	}
	parts = append(parts, path[start:])
	return parts
}

// Get looks up a key on a Compound tag.
func (t Tag) Get(key string) (Tag, bool) {
	if t.Type != TagCompound {
		return Tag{}, false
	}
	v, ok := t.Compound[key]
	return v, ok
}
