package result

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes v as the little-endian, location-tagged tagged-union
// binary format: every value begins 4-byte aligned with a 32-bit tag,
// and composite values reference their children by byte offset into the
// same buffer rather than embedding them. Children are always written
// before the parent that references them, so decoding never needs a
// forward pass. The last 4 bytes of the returned buffer are the offset
// of the root value.
func Encode(v Value) []byte {
	e := &encoder{interned: make(map[string]uint32)}
	root := e.put(v)
	e.writeU32(root)
	return e.buf
}

type encoder struct {
	buf      []byte
	interned map[string]uint32
}

func (e *encoder) align4() {
	for len(e.buf)%4 != 0 {
		e.buf = append(e.buf, 0)
	}
}

func (e *encoder) writeU32(x uint32) uint32 {
	e.align4()
	off := uint32(len(e.buf))
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], x)
	e.buf = append(e.buf, b[:]...)
	return off
}

func (e *encoder) writeU64(x uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	e.buf = append(e.buf, b[:]...)
}

// internString returns the offset of a (u32 length, utf-8 bytes) record
// for s, writing it once and reusing the offset on repeats.
func (e *encoder) internString(s string) uint32 {
	if off, ok := e.interned[s]; ok {
		return off
	}
	e.align4()
	off := uint32(len(e.buf))
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
	e.buf = append(e.buf, lenBuf[:]...)
	e.buf = append(e.buf, s...)
	e.interned[s] = off
	return off
}

// put writes v (and, recursively, its children) and returns the offset
// of v's own tagged record.
func (e *encoder) put(v Value) uint32 {
	switch x := v.(type) {
	case Literal:
		strOff := e.internString(string(x))
		e.align4()
		off := uint32(len(e.buf))
		e.writeU32(tagLiteral)
		e.writeU32(strOff)
		return off

	case Number:
		e.align4()
		off := uint32(len(e.buf))
		e.writeU32(tagNumber)
		e.writeU64(math.Float64bits(float64(x)))
		return off

	case Bool:
		e.align4()
		off := uint32(len(e.buf))
		e.writeU32(x.tag())
		return off

	case None:
		e.align4()
		off := uint32(len(e.buf))
		e.writeU32(tagNone)
		return off

	case Array:
		childOffs := make([]uint32, len(x))
		for i, c := range x {
			childOffs[i] = e.put(c)
		}
		e.align4()
		off := uint32(len(e.buf))
		e.writeU32(tagArray)
		e.writeU32(uint32(len(x)))
		for _, c := range childOffs {
			e.writeU32(c)
		}
		return off

	case Experiments:
		childOffs := make([]uint32, len(x))
		for i, c := range x {
			childOffs[i] = e.put(c)
		}
		e.align4()
		off := uint32(len(e.buf))
		e.writeU32(tagExperiments)
		e.writeU32(uint32(len(x)))
		for _, c := range childOffs {
			e.writeU32(c)
		}
		return off

	case NamedExperiments:
		type resolved struct{ name, value uint32 }
		rs := make([]resolved, len(x.Entries))
		for i, entry := range x.Entries {
			rs[i] = resolved{e.internString(entry.Key), e.put(entry.Value)}
		}
		e.align4()
		off := uint32(len(e.buf))
		e.writeU32(tagNamedExperiments)
		e.writeU32(uint32(len(rs)))
		for _, r := range rs {
			e.writeU32(r.name)
			e.writeU32(r.value)
		}
		return off

	case Object:
		type resolved struct{ key, value uint32 }
		rs := make([]resolved, len(x.Entries))
		for i, entry := range x.Entries {
			rs[i] = resolved{e.internString(entry.Key), e.put(entry.Value)}
		}
		nameOff := e.internString(x.Name)
		e.align4()
		off := uint32(len(e.buf))
		e.writeU32(tagObject)
		e.writeU32(nameOff)
		e.writeU32(uint32(len(rs)))
		for _, r := range rs {
			e.writeU32(r.key)
			e.writeU32(r.value)
		}
		return off

	default:
		panic(fmt.Sprintf("result: unsupported Value type %T", v))
	}
}

// Decode parses data produced by Encode back into a Value tree.
func Decode(data []byte) (Value, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("result: buffer too short to hold a root offset")
	}
	root := binary.LittleEndian.Uint32(data[len(data)-4:])
	d := &decoder{buf: data}
	return d.get(root)
}

type decoder struct{ buf []byte }

func (d *decoder) u32(off uint32) (uint32, error) {
	if int(off)+4 > len(d.buf) {
		return 0, fmt.Errorf("result: u32 read out of bounds at offset %d", off)
	}
	return binary.LittleEndian.Uint32(d.buf[off : off+4]), nil
}

func (d *decoder) string(off uint32) (string, error) {
	n, err := d.u32(off)
	if err != nil {
		return "", err
	}
	start := off + 4
	if int(start)+int(n) > len(d.buf) {
		return "", fmt.Errorf("result: string read out of bounds at offset %d", off)
	}
	return string(d.buf[start : start+n]), nil
}

func (d *decoder) get(off uint32) (Value, error) {
	tag, err := d.u32(off)
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagLiteral:
		strOff, err := d.u32(off + 4)
		if err != nil {
			return nil, err
		}
		s, err := d.string(strOff)
		if err != nil {
			return nil, err
		}
		return Literal(s), nil

	case tagNumber:
		if int(off)+12 > len(d.buf) {
			return nil, fmt.Errorf("result: number read out of bounds at offset %d", off)
		}
		bits := binary.LittleEndian.Uint64(d.buf[off+4 : off+12])
		return Number(math.Float64frombits(bits)), nil

	case tagTrue:
		return Bool(true), nil
	case tagFalse:
		return Bool(false), nil
	case tagNone:
		return None{}, nil

	case tagArray, tagExperiments:
		count, err := d.u32(off + 4)
		if err != nil {
			return nil, err
		}
		vals := make([]Value, count)
		for i := uint32(0); i < count; i++ {
			childOff, err := d.u32(off + 8 + i*4)
			if err != nil {
				return nil, err
			}
			v, err := d.get(childOff)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		if tag == tagArray {
			return Array(vals), nil
		}
		return Experiments(vals), nil

	case tagNamedExperiments:
		count, err := d.u32(off + 4)
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, count)
		for i := uint32(0); i < count; i++ {
			base := off + 8 + i*8
			nameOff, err := d.u32(base)
			if err != nil {
				return nil, err
			}
			valOff, err := d.u32(base + 4)
			if err != nil {
				return nil, err
			}
			name, err := d.string(nameOff)
			if err != nil {
				return nil, err
			}
			val, err := d.get(valOff)
			if err != nil {
				return nil, err
			}
			entries[i] = Entry{name, val}
		}
		return NamedExperiments{Entries: entries}, nil

	case tagObject:
		nameOff, err := d.u32(off + 4)
		if err != nil {
			return nil, err
		}
		name, err := d.string(nameOff)
		if err != nil {
			return nil, err
		}
		count, err := d.u32(off + 8)
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, count)
		for i := uint32(0); i < count; i++ {
			base := off + 12 + i*8
			keyOff, err := d.u32(base)
			if err != nil {
				return nil, err
			}
			valOff, err := d.u32(base + 4)
			if err != nil {
				return nil, err
			}
			key, err := d.string(keyOff)
			if err != nil {
				return nil, err
			}
			val, err := d.get(valOff)
			if err != nil {
				return nil, err
			}
			entries[i] = Entry{key, val}
		}
		return Object{Name: name, Entries: entries}, nil

	default:
		return nil, fmt.Errorf("result: unknown tag %d at offset %d", tag, off)
	}
}
