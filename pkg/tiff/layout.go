package tiff

import (
	"fmt"
	"math/bits"
	"sort"
)

// Span is a half open byte range [Start, End) of the file
type Span struct {
	Start uint64
	End   uint64
}

// SpanEnd returns off + pixels*bytesPerPixel, or false if it overflows
func SpanEnd(off, pixels, bytesPerPixel uint64) (uint64, bool) {
	hi, n := bits.Mul64(pixels, bytesPerPixel)
	if hi != 0 {
		return 0, false
	}
	end, carry := bits.Add64(off, n, 0)
	return end, carry == 0
}

// StripSpan is the range of bytes the pixels of strip i occupy. A single
// strip holds Width*Height pixels; otherwise a strip holds the whole pixels
// that fit in its byte count.
func (d *Document) StripSpan(i int) (Span, bool) {
	if i < 0 || i >= len(d.StripOffsets) {
		return Span{}, false
	}
	pixels := d.StripPixels(i)
	if d.IsSingleStrip() {
		pixels = d.PixelCount()
	}
	off := uint64(d.StripOffsets[i])
	end, ok := SpanEnd(off, pixels, uint64(d.BytesPerPixel()))
	return Span{Start: off, End: end}, ok
}

type layoutSpan struct {
	Span
	strip int // -1 for metadata
	name  string
}

// metadataSpans covers the header, the IFD and every out-of-line value array
func (d *Document) metadataSpans() []layoutSpan {
	spans := []layoutSpan{{Span{0, HeaderSize}, -1, "header"}}
	ifd := uint64(d.IFDOffset)
	spans = append(spans, layoutSpan{Span{ifd, ifd + 2 + uint64(len(d.Entries))*EntrySize + 4}, -1, "IFD"})
	for _, e := range d.Entries {
		if e.fitsInline() {
			continue
		}
		off := uint64(e.ValueOrOffset)
		end := off + uint64(e.Count)*uint64(e.Type.Size())
		spans = append(spans, layoutSpan{Span{off, end}, -1, e.Tag.String() + " values"})
	}
	return spans
}

// CheckStripLayout reports the first strip that overlaps another strip or
// the file's metadata. Strips must already lie inside the file.
func (d *Document) CheckStripLayout() error {
	var result ValidationResult
	d.validateStripLayout(&result)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, result.Errors[0])
}

func (d *Document) validateStripLayout(result *ValidationResult) {
	spans := d.metadataSpans()
	for i := range d.StripOffsets {
		s, ok := d.StripSpan(i)
		if !ok || s.End == s.Start {
			continue
		}
		spans = append(spans, layoutSpan{s, i, fmt.Sprintf("strip %d", i)})
	}
	sort.SliceStable(spans, func(a, b int) bool { return spans[a].Start < spans[b].Start })

	// furthest reaching strip and metadata span seen so far
	var lastStrip, lastMeta *layoutSpan
	for i := range spans {
		cur := &spans[i]
		if cur.strip >= 0 {
			switch {
			case lastStrip != nil && cur.Start < lastStrip.End:
				result.add(StripOffsets, "strip %d overlaps %s", cur.strip, lastStrip.name)
			case lastMeta != nil && cur.Start < lastMeta.End:
				result.add(StripOffsets, "strip %d overlaps %s", cur.strip, lastMeta.name)
			}
			if lastStrip == nil || cur.End > lastStrip.End {
				lastStrip = cur
			}
			continue
		}
		if lastStrip != nil && cur.Start < lastStrip.End && cur.End > cur.Start {
			result.add(StripOffsets, "%s overlaps %s", lastStrip.name, cur.name)
		}
		if lastMeta == nil || cur.End > lastMeta.End {
			lastMeta = cur
		}
	}
}
