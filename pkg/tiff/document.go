// Package tiff decodes, validates and rewrites uncompressed, single image,
// RGB TIFF 6.0 files. Pixel samples are mutated in place; every other byte
// of the file is written back untouched.
package tiff

import (
	"fmt"
	"os"
)

const (
	// Magic is the identifier stored at offset 2 of every TIFF
	Magic = 42
	// HeaderSize covers byte order, magic and first IFD pointer
	HeaderSize = 8
	// InvalidBitsPerSample marks a BitsPerSample tag this package cannot process
	InvalidBitsPerSample = 0
)

// Document owns the raw bytes of a TIFF file and its decoded structure
type Document struct {
	Data            []byte
	LittleEndian    bool
	BitsPerSample   uint32
	IFDOffset       uint32
	NextIFD         uint32
	Entries         []Entry
	NumStrips       uint32
	StripOffsets    []uint32
	StripByteCounts []uint32
}

// ReadFile reads and decodes the TIFF at path
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return Decode(data)
}

// Decode parses the header and first IFD of data. The returned Document
// takes ownership of data.
func Decode(data []byte) (*Document, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrNotTIFF, len(data))
	}
	doc := &Document{
		Data:         data,
		LittleEndian: IsLittleEndian(data),
	}
	if magic, _ := ReadInt(data, 2, 2, doc.LittleEndian); magic != Magic {
		return nil, fmt.Errorf("%w: magic %d", ErrNotTIFF, magic)
	}
	doc.IFDOffset, _ = ReadInt(data, 4, 4, doc.LittleEndian)

	if err := doc.readEntries(); err != nil {
		return nil, err
	}
	doc.BitsPerSample = doc.computeBitsPerSample()
	if err := doc.readStrips(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) readEntries() error {
	ifd := int(d.IFDOffset)
	n, err := ReadInt(d.Data, ifd, 2, d.LittleEndian)
	if err != nil {
		return fmt.Errorf("reading IFD entry count: %w", err)
	}
	d.Entries = make([]Entry, 0, n)
	start := ifd + 2
	for i := 0; i < int(n); i++ {
		entry, err := DecodeEntry(d.Data, start+i*EntrySize, d.LittleEndian)
		if err != nil {
			return fmt.Errorf("reading IFD entry %d: %w", i, err)
		}
		d.Entries = append(d.Entries, entry)
	}
	end := start + int(n)*EntrySize
	if d.NextIFD, err = ReadInt(d.Data, end, 4, d.LittleEndian); err != nil {
		return fmt.Errorf("reading next IFD pointer: %w", err)
	}
	return nil
}

// computeBitsPerSample requires three equal 8 or 16 bit channels
func (d *Document) computeBitsPerSample() uint32 {
	entry, ok := d.Find(BitsPerSample)
	if !ok || entry.Count != SamplesPerPixel {
		return InvalidBitsPerSample
	}
	bits, err := entry.Values(d.Data, d.LittleEndian)
	if err != nil {
		return InvalidBitsPerSample
	}
	for _, b := range bits {
		if b != bits[0] {
			return InvalidBitsPerSample
		}
	}
	if bits[0] != 8 && bits[0] != 16 {
		return InvalidBitsPerSample
	}
	return bits[0]
}

func (d *Document) readStrips() error {
	offsets, ok := d.Find(StripOffsets)
	if !ok {
		return nil
	}
	d.NumStrips = offsets.Count
	var err error
	if d.StripOffsets, err = offsets.Values(d.Data, d.LittleEndian); err != nil {
		return fmt.Errorf("reading strip offsets: %w", err)
	}
	if counts, ok := d.Find(StripByteCounts); ok {
		if d.StripByteCounts, err = counts.Values(d.Data, d.LittleEndian); err != nil {
			return fmt.Errorf("reading strip byte counts: %w", err)
		}
	}
	return nil
}

// Find returns the first entry carrying tag
func (d *Document) Find(tag Tag) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Width is ImageWidth, or 0 when absent
func (d *Document) Width() uint32 {
	return d.scalar(ImageWidth)
}

// Height is ImageLength, or 0 when absent
func (d *Document) Height() uint32 {
	return d.scalar(ImageLength)
}

func (d *Document) scalar(tag Tag) uint32 {
	if e, ok := d.Find(tag); ok {
		return e.Value(d.LittleEndian)
	}
	return 0
}

// BytesPerSample is 1 or 2 for a valid document
func (d *Document) BytesPerSample() int {
	return int(d.BitsPerSample / 8)
}

// BytesPerPixel is the packed RGB pixel size
func (d *Document) BytesPerPixel() int {
	return SamplesPerPixel * d.BytesPerSample()
}

// IsSingleStrip reports whether all pixels live in one strip
func (d *Document) IsSingleStrip() bool {
	return d.NumStrips == 1
}

// PixelCount is Width*Height
func (d *Document) PixelCount() uint64 {
	return uint64(d.Width()) * uint64(d.Height())
}

// StripPixels is the number of whole pixels stored in strip i
func (d *Document) StripPixels(i int) uint64 {
	bpp := d.BytesPerPixel()
	if bpp == 0 || i >= len(d.StripByteCounts) {
		return 0
	}
	return uint64(d.StripByteCounts[i]) / uint64(bpp)
}
