package tiff

import "fmt"

// IsLittleEndian reports whether data starts with the "II" byte order mark.
// Anything else, "MM" included, is big-endian.
func IsLittleEndian(data []byte) bool {
	return len(data) >= 2 && data[0] == data[1] && data[0] == 'I'
}

// ReadInt assembles n (1-4) bytes starting at start into an unsigned integer
func ReadInt(data []byte, start, n int, littleEndian bool) (uint32, error) {
	if n < 1 || n > 4 {
		return 0, fmt.Errorf("tiff: cannot read %d byte integer", n)
	}
	if start < 0 || start+n > len(data) {
		return 0, &RangeError{Offset: start, Length: n, Size: len(data)}
	}
	var v uint32
	for i := 0; i < n; i++ {
		shift := i
		if !littleEndian {
			shift = n - 1 - i
		}
		v |= uint32(data[start+i]) << (8 * shift)
	}
	return v, nil
}

// WriteIntBytes is the inverse of ReadInt
func WriteIntBytes(v uint32, n int, littleEndian bool) []byte {
	out := make([]byte, n)
	PutInt(out, v, littleEndian)
	return out
}

// PutInt encodes v into all of dst using the given byte order.
// Bits above 8*len(dst) are dropped.
func PutInt(dst []byte, v uint32, littleEndian bool) {
	n := len(dst)
	for i := 0; i < n; i++ {
		shift := i
		if !littleEndian {
			shift = n - 1 - i
		}
		dst[i] = byte(v >> (8 * shift))
	}
}
