package dampen

import (
	"context"
	"math"
	"testing"

	"github.com/jpfielding/colorcast.go/pkg/raster"
	"github.com/jpfielding/colorcast.go/pkg/tiff"
	"github.com/jpfielding/colorcast.go/pkg/tiff/tifftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_CoversExactlyOnce(t *testing.T) {
	sizes := []uint64{0, 1, 2, 7, 8, 9, 63, 64, 65, 1000, 12345}
	for _, n := range sizes {
		for parts := 1; parts <= 17; parts++ {
			ranges := Partition(n, parts)
			require.Len(t, ranges, parts)
			next := uint64(0)
			for _, r := range ranges {
				require.Equal(t, next, r.Start, "n=%d parts=%d", n, parts)
				require.LessOrEqual(t, r.Start, r.End)
				next = r.End
			}
			require.Equal(t, n, next, "n=%d parts=%d", n, parts)
		}
	}
}

func TestPartition_Balanced(t *testing.T) {
	for _, r := range Partition(1001, 8) {
		assert.True(t, r.Len() == 125 || r.Len() == 126, r)
	}
	// no overflow on huge counts
	ranges := Partition(math.MaxUint64, 3)
	assert.Equal(t, uint64(math.MaxUint64), ranges[2].End)
	assert.Equal(t, ranges[0].End, ranges[1].Start)
}

func TestPartition_ClampsParts(t *testing.T) {
	assert.Equal(t, []Range{{0, 10}}, Partition(10, 0))
}

func decode(t *testing.T, opts tifftest.Options) *tiff.Document {
	t.Helper()
	doc, err := tiff.Decode(tifftest.Build(opts))
	require.NoError(t, err)
	require.True(t, doc.IsValid(), doc.Validate().Err())
	return doc
}

func gradient(i int) [3]uint16 {
	return [3]uint16{uint16(i*5) % 256, uint16(100 + i%60), uint16(i*11) % 256}
}

func gradient16(i int) [3]uint16 {
	return [3]uint16{uint16(i * 997), uint16(30000 + i*31), uint16(i * 4099)}
}

func TestPlan_SingleStrip(t *testing.T) {
	doc := decode(t, tifftest.RGB(10, 10, [3]uint16{1, 2, 3}))
	waves, err := Plan(doc, Options{Power: 1})
	require.NoError(t, err)
	require.Len(t, waves, 1)
	require.Len(t, waves[0], DefaultWorkers)
	for _, u := range waves[0] {
		assert.Equal(t, uint64(doc.StripOffsets[0]), u.Offset)
	}
	assert.Equal(t, uint64(100), waves[0][DefaultWorkers-1].End)
}

func TestPlan_MultiStripChunks(t *testing.T) {
	tests := []struct {
		height int
		chunk  int
		want   []int
	}{
		{11, 8, []int{8, 3}},
		{16, 8, []int{8, 8}},
		{3, 8, []int{3}},
		{10, 4, []int{4, 4, 2}},
	}
	for _, tt := range tests {
		opts := tifftest.RGB(3, tt.height, [3]uint16{1, 2, 3})
		opts.RowsPerStrip = 1
		doc := decode(t, opts)

		waves, err := Plan(doc, Options{Power: 1, ChunkWidth: tt.chunk})
		require.NoError(t, err)
		var sizes []int
		for _, w := range waves {
			sizes = append(sizes, len(w))
		}
		assert.Equal(t, tt.want, sizes, "height %d", tt.height)
	}
}

func TestPlan_UnitsNeverOverlap(t *testing.T) {
	for _, rows := range []int{0, 1, 3} {
		opts := tifftest.RGB(7, 13, [3]uint16{1, 2, 3})
		opts.RowsPerStrip = rows
		opts.Bits = []uint16{16, 16, 16}
		doc := decode(t, opts)

		waves, err := Plan(doc, Options{Power: 1, Workers: 5, ChunkWidth: 2})
		require.NoError(t, err)

		owner := make([]int, len(doc.Data))
		id := 0
		bpp := uint64(doc.BytesPerPixel())
		for _, wave := range waves {
			for _, u := range wave {
				id++
				for b := u.Offset + u.Start*bpp; b < u.Offset+u.End*bpp; b++ {
					require.Zero(t, owner[b], "byte %d claimed twice", b)
					owner[b] = id
				}
			}
		}
		// every pixel byte is owned
		for i, off := range doc.StripOffsets {
			for b := off; b < off+doc.StripByteCounts[i]; b++ {
				require.NotZero(t, owner[b], "byte %d unowned", b)
			}
		}
	}
}

func TestPlan_RangeError(t *testing.T) {
	opts := tifftest.RGB(4, 4, [3]uint16{1, 2, 3})
	opts.RowsPerStrip = 2
	doc := decode(t, opts)
	doc.StripByteCounts[1] = uint32(len(doc.Data))
	_, err := Plan(doc, Options{Power: 1})
	assert.ErrorIs(t, err, tiff.ErrRange)
}

func TestPlan_RejectsAliasedStrips(t *testing.T) {
	opts := tifftest.RGB(64, 16, [3]uint16{})
	opts.Fill = gradient
	opts.RowsPerStrip = 8
	doc := decode(t, opts)
	doc.StripOffsets[1] = doc.StripOffsets[0]
	assert.False(t, doc.IsValid())

	_, err := Plan(doc, Options{Power: 1})
	assert.ErrorIs(t, err, tiff.ErrUnsupported)

	before := append([]byte(nil), doc.Data...)
	err = Process(context.Background(), doc, Options{Power: 1})
	assert.ErrorIs(t, err, tiff.ErrUnsupported)
	assert.Equal(t, before, doc.Data)
}

func TestPlan_PixelCountOverflow(t *testing.T) {
	doc := decode(t, tifftest.RGB(3, 3, [3]uint16{1, 2, 3}))
	// 2154230017*2854344542*3 wraps to 26 in 64 bits
	for i, e := range doc.Entries {
		switch e.Tag {
		case tiff.ImageWidth:
			doc.Entries[i].ValueOrOffset = 2154230017
		case tiff.ImageLength:
			doc.Entries[i].ValueOrOffset = 2854344542
		}
	}
	_, err := Plan(doc, Options{Power: 1})
	assert.ErrorIs(t, err, tiff.ErrRange)
}

func TestPlan_InvalidBits(t *testing.T) {
	doc := decode(t, tifftest.RGB(4, 4, [3]uint16{1, 2, 3}))
	doc.BitsPerSample = tiff.InvalidBitsPerSample
	_, err := Plan(doc, Options{Power: 1})
	assert.ErrorIs(t, err, tiff.ErrUnsupported)
}

func TestProcess_WhiteUnchanged(t *testing.T) {
	opts := tifftest.RGB(16, 9, [3]uint16{255, 255, 255})
	doc := decode(t, opts)
	before := append([]byte(nil), doc.Data...)

	require.NoError(t, Process(context.Background(), doc, Options{Power: 1}))
	assert.Equal(t, before, doc.Data)
}

func TestProcess_SaturatedRedUnchanged(t *testing.T) {
	opts := tifftest.RGB(16, 9, [3]uint16{255, 0, 0})
	doc := decode(t, opts)
	before := append([]byte(nil), doc.Data...)

	require.NoError(t, Process(context.Background(), doc, Options{Power: 1}))
	assert.Equal(t, before, doc.Data)
	for i := uint64(0); i < doc.PixelCount(); i++ {
		rgb, err := doc.Pixel(i, uint64(doc.StripOffsets[0]))
		require.NoError(t, err)
		require.Equal(t, [3]int32{255, 0, 0}, rgb)
	}
}

// sequential reference built from an untouched copy
func expected(t *testing.T, data []byte, power float64) []byte {
	t.Helper()
	doc, err := tiff.Decode(append([]byte(nil), data...))
	require.NoError(t, err)
	units := []WorkUnit{{End: doc.PixelCount(), Offset: uint64(doc.StripOffsets[0])}}
	if !doc.IsSingleStrip() {
		units = units[:0]
		for i, off := range doc.StripOffsets {
			units = append(units, WorkUnit{End: doc.StripPixels(i), Offset: uint64(off)})
		}
	}
	for _, u := range units {
		require.NoError(t, ProcessRange(doc, power, u))
	}
	return doc.Data
}

func TestProcess_MatchesSequential(t *testing.T) {
	tests := []struct {
		name string
		opts func() tifftest.Options
	}{
		{"single strip 8 bit le", func() tifftest.Options {
			o := tifftest.RGB(13, 11, [3]uint16{})
			o.Fill = gradient
			return o
		}},
		{"multi strip 8 bit be", func() tifftest.Options {
			o := tifftest.RGB(13, 21, [3]uint16{})
			o.Fill = gradient
			o.RowsPerStrip = 2
			o.BigEndian = true
			return o
		}},
		{"single strip 16 bit be", func() tifftest.Options {
			o := tifftest.RGB(9, 9, [3]uint16{})
			o.Fill = gradient16
			o.Bits = []uint16{16, 16, 16}
			o.BigEndian = true
			return o
		}},
		{"multi strip 16 bit le short tables", func() tifftest.Options {
			o := tifftest.RGB(6, 19, [3]uint16{})
			o.Fill = gradient16
			o.Bits = []uint16{16, 16, 16}
			o.RowsPerStrip = 1
			o.OffsetType = tiff.Short
			return o
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tifftest.Build(tt.opts())
			for _, power := range []float64{0.1, 1, 15} {
				doc, err := tiff.Decode(append([]byte(nil), data...))
				require.NoError(t, err)
				require.True(t, doc.IsValid(), doc.Validate().Err())

				require.NoError(t, Process(context.Background(), doc, Options{Power: power}))
				want := expected(t, data, power)
				assert.Equal(t, want, doc.Data, "power %v", power)
				assert.NotEqual(t, data, doc.Data, "power %v changed nothing", power)
			}
		})
	}
}

func TestProcess_OnlyPixelBytesChange(t *testing.T) {
	opts := tifftest.RGB(5, 6, [3]uint16{})
	opts.Fill = gradient
	opts.RowsPerStrip = 4
	data := tifftest.Build(opts)
	doc, err := tiff.Decode(append([]byte(nil), data...))
	require.NoError(t, err)

	require.NoError(t, Process(context.Background(), doc, Options{Power: 0.5}))
	first := int(doc.StripOffsets[0])
	last := int(doc.StripOffsets[len(doc.StripOffsets)-1] + doc.StripByteCounts[len(doc.StripByteCounts)-1])
	assert.Equal(t, data[:first], doc.Data[:first])
	assert.Equal(t, data[last:], doc.Data[last:])
}

func TestProcess_Errors(t *testing.T) {
	doc := decode(t, tifftest.RGB(4, 4, [3]uint16{1, 2, 3}))
	assert.Error(t, Process(context.Background(), doc, Options{Power: 0}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Process(ctx, doc, Options{Power: 1}), context.Canceled)
}

func TestProcessRaster(t *testing.T) {
	r := raster.New(17, 5)
	for i := range r.Pix {
		r.Pix[i] = byte(i * 37)
	}
	want := append([]byte(nil), r.Pix...)
	for i := 0; i+3 <= len(want); i += 3 {
		out := Normalize([3]int32{int32(want[i]), int32(want[i+1]), int32(want[i+2])}, 2, 8)
		want[i], want[i+1], want[i+2] = byte(out[0]), byte(out[1]), byte(out[2])
	}

	require.NoError(t, ProcessRaster(context.Background(), r, Options{Power: 2, Workers: 3}))
	assert.Equal(t, want, r.Pix)
}

func TestProcessRaster_Errors(t *testing.T) {
	r := &raster.Raster{Width: 4, Height: 4, Pix: make([]byte, 10)}
	assert.Error(t, ProcessRaster(context.Background(), r, Options{Power: 1}))
	assert.Error(t, ProcessRaster(context.Background(), raster.New(1, 1), Options{Power: 99}))
}
