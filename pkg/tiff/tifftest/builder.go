// Package tifftest builds small in-memory TIFF files for tests
package tifftest

import (
	"github.com/jpfielding/colorcast.go/pkg/tiff"
)

// Options describes the file Build produces. Zero values are written as-is,
// so start from RGB and adjust.
type Options struct {
	BigEndian       bool
	Width           int
	Height          int
	Bits            []uint16 // nil omits BitsPerSample
	Compression     uint16
	OmitCompression bool
	Photometric     uint16
	Planar          uint16 // 0 omits PlanarConfiguration
	RowsPerStrip    int            // 0 stores the image as one strip
	OffsetType      tiff.FieldType // type of both strip tables, Long by default
	NextIFD         uint32
	Fill            func(i int) [3]uint16
}

// RGB returns options for an uncompressed, single strip, 8 bit RGB image
// filled with a constant color.
func RGB(width, height int, color [3]uint16) Options {
	return Options{
		Width:       width,
		Height:      height,
		Bits:        []uint16{8, 8, 8},
		Compression: tiff.CompressionNone,
		Photometric: tiff.PhotometricRGB,
		OffsetType:  tiff.Long,
		Fill:        func(int) [3]uint16 { return color },
	}
}

type field struct {
	tag   tiff.Tag
	typ   tiff.FieldType
	count int
	value []uint32
}

// Build lays out header, pixel data, out-of-line tables and finally the IFD
func Build(opts Options) []byte {
	le := !opts.BigEndian
	bps := 1
	if len(opts.Bits) > 0 && opts.Bits[0] >= 8 {
		bps = int(opts.Bits[0]) / 8
	}
	offsetType := opts.OffsetType
	if offsetType == 0 {
		offsetType = tiff.Long
	}

	buf := make([]byte, tiff.HeaderSize)
	if le {
		buf[0], buf[1] = 'I', 'I'
	} else {
		buf[0], buf[1] = 'M', 'M'
	}
	tiff.PutInt(buf[2:4], tiff.Magic, le)

	rows := opts.RowsPerStrip
	if rows <= 0 || rows > opts.Height {
		rows = opts.Height
	}
	rowBytes := opts.Width * tiff.SamplesPerPixel * bps
	numStrips := 1
	if rows > 0 {
		numStrips = (opts.Height + rows - 1) / rows
	}
	var offsets, counts []uint32
	pixel := 0
	for s := 0; s < numStrips; s++ {
		n := 0
		if rows > 0 {
			n = min(rows, opts.Height-s*rows)
		}
		offsets = append(offsets, uint32(len(buf)))
		counts = append(counts, uint32(n*rowBytes))
		for i := 0; i < n*opts.Width; i++ {
			var rgb [3]uint16
			if opts.Fill != nil {
				rgb = opts.Fill(pixel)
			}
			for _, v := range rgb {
				buf = append(buf, tiff.WriteIntBytes(uint32(v), bps, le)...)
			}
			pixel++
		}
	}

	fields := []field{
		{tiff.ImageWidth, tiff.Long, 1, []uint32{uint32(opts.Width)}},
		{tiff.ImageLength, tiff.Long, 1, []uint32{uint32(opts.Height)}},
	}
	if opts.Bits != nil {
		bits := make([]uint32, len(opts.Bits))
		for i, b := range opts.Bits {
			bits[i] = uint32(b)
		}
		fields = append(fields, field{tiff.BitsPerSample, tiff.Short, len(bits), bits})
	}
	if !opts.OmitCompression {
		fields = append(fields, field{tiff.Compression, tiff.Short, 1, []uint32{uint32(opts.Compression)}})
	}
	fields = append(fields,
		field{tiff.PhotometricInterpretation, tiff.Short, 1, []uint32{uint32(opts.Photometric)}},
		field{tiff.StripOffsets, offsetType, len(offsets), offsets},
		field{tiff.SamplesPerPixelTag, tiff.Short, 1, []uint32{tiff.SamplesPerPixel}},
		field{tiff.RowsPerStrip, tiff.Long, 1, []uint32{uint32(rows)}},
		field{tiff.StripByteCounts, offsetType, len(counts), counts},
	)
	if opts.Planar != 0 {
		fields = append(fields, field{tiff.PlanarConfiguration, tiff.Short, 1, []uint32{uint32(opts.Planar)}})
	}

	// out-of-line values go before the IFD
	valueFields := make([][]byte, len(fields))
	for i, f := range fields {
		size := f.typ.Size()
		raw := make([]byte, 0, f.count*size)
		for _, v := range f.value {
			raw = append(raw, tiff.WriteIntBytes(v, size, le)...)
		}
		if len(raw) <= 4 {
			valueFields[i] = append(raw, make([]byte, 4-len(raw))...)
			continue
		}
		if len(buf)%2 == 1 {
			buf = append(buf, 0)
		}
		valueFields[i] = tiff.WriteIntBytes(uint32(len(buf)), 4, le)
		buf = append(buf, raw...)
	}

	if len(buf)%2 == 1 {
		buf = append(buf, 0)
	}
	tiff.PutInt(buf[4:8], uint32(len(buf)), le)
	buf = append(buf, tiff.WriteIntBytes(uint32(len(fields)), 2, le)...)
	for i, f := range fields {
		buf = append(buf, tiff.WriteIntBytes(uint32(f.tag), 2, le)...)
		buf = append(buf, tiff.WriteIntBytes(uint32(f.typ), 2, le)...)
		buf = append(buf, tiff.WriteIntBytes(uint32(f.count), 4, le)...)
		buf = append(buf, valueFields[i]...)
	}
	buf = append(buf, tiff.WriteIntBytes(opts.NextIFD, 4, le)...)
	return buf
}
