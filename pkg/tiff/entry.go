package tiff

import "fmt"

// EntrySize is the on-disk size of one IFD entry
const EntrySize = 12

// Entry is one decoded IFD record
type Entry struct {
	Tag           Tag
	Type          FieldType
	Count         uint32
	ValueOrOffset uint32
}

// DecodeEntry reads the 12 byte entry starting at pointer.
// The value field is always read as 4 bytes; see Value for interpretation.
func DecodeEntry(data []byte, pointer int, littleEndian bool) (Entry, error) {
	if pointer < 0 || pointer+EntrySize > len(data) {
		return Entry{}, &RangeError{Offset: pointer, Length: EntrySize, Size: len(data)}
	}
	tag, _ := ReadInt(data, pointer, 2, littleEndian)
	typ, _ := ReadInt(data, pointer+2, 2, littleEndian)
	count, _ := ReadInt(data, pointer+4, 4, littleEndian)
	value, _ := ReadInt(data, pointer+8, 4, littleEndian)
	return Entry{
		Tag:           Tag(tag),
		Type:          FieldType(typ),
		Count:         count,
		ValueOrOffset: value,
	}, nil
}

// fitsInline reports whether all values live in the 4 byte value field
func (e Entry) fitsInline() bool {
	return uint64(e.Count)*uint64(e.Type.Size()) <= 4
}

// Value returns the first inline value, honoring that narrow types are
// left-justified in the value field.
func (e Entry) Value(littleEndian bool) uint32 {
	switch e.Type.Size() {
	case 1:
		if littleEndian {
			return e.ValueOrOffset & 0xFF
		}
		return e.ValueOrOffset >> 24
	case 2:
		if littleEndian {
			return e.ValueOrOffset & 0xFFFF
		}
		return e.ValueOrOffset >> 16
	}
	return e.ValueOrOffset
}

// Values returns all Count values, reading them inline or from the offset
// table as needed. Values wider than 4 bytes are not supported.
func (e Entry) Values(data []byte, littleEndian bool) ([]uint32, error) {
	size := e.Type.Size()
	if size > 4 {
		return nil, fmt.Errorf("tiff: %s values of type %s are not integers", e.Tag, e.Type)
	}
	src, start := data, int(e.ValueOrOffset)
	if e.fitsInline() {
		src, start = WriteIntBytes(e.ValueOrOffset, 4, littleEndian), 0
	} else if uint64(e.ValueOrOffset)+uint64(e.Count)*uint64(size) > uint64(len(data)) {
		return nil, &RangeError{Offset: int(e.ValueOrOffset), Length: int(e.Count) * size, Size: len(data)}
	}
	out := make([]uint32, e.Count)
	for i := range out {
		v, err := ReadInt(src, start+i*size, size, littleEndian)
		if err != nil {
			return nil, fmt.Errorf("reading %s value %d: %w", e.Tag, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (e Entry) String() string {
	return fmt.Sprintf("%s type=%s count=%d value=%d", e.Tag, e.Type, e.Count, e.ValueOrOffset)
}
