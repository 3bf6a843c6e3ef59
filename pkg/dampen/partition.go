package dampen

import "math/bits"

// Range is a half open run of pixel indexes [Start, End)
type Range struct {
	Start uint64
	End   uint64
}

// Len is the number of pixels in r
func (r Range) Len() uint64 {
	return r.End - r.Start
}

// Partition splits [0,n) into parts contiguous ranges with boundaries at
// i*n/parts. Ranges never overlap and together cover every index once; some
// may be empty when n < parts.
func Partition(n uint64, parts int) []Range {
	if parts < 1 {
		parts = 1
	}
	p := uint64(parts)
	boundary := func(i uint64) uint64 {
		// i*n can exceed 64 bits for huge images
		hi, lo := bits.Mul64(i, n)
		q, _ := bits.Div64(hi, lo, p)
		return q
	}
	out := make([]Range, parts)
	for i := range out {
		out[i] = Range{Start: boundary(uint64(i)), End: boundary(uint64(i) + 1)}
	}
	return out
}
