package tiff

import (
	"fmt"
	"strings"
)

const (
	// CompressionNone is the only Compression value processed
	CompressionNone = 1
	// PhotometricRGB is the only PhotometricInterpretation value processed
	PhotometricRGB = 2
	// PlanarChunky stores the samples of a pixel together, RGBRGB...
	PlanarChunky = 1
)

// ValidationError represents a single reason a document cannot be processed
type ValidationError struct {
	Tag     Tag
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tag, e.Message)
}

// ValidationResult contains every validation failure for a document
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid returns true if there are no errors
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Err folds all failures into one ErrUnsupported error, or nil
func (r ValidationResult) Err() error {
	if r.IsValid() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, strings.Join(msgs, "; "))
}

func (r *ValidationResult) add(tag Tag, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Tag: tag, Message: fmt.Sprintf(format, args...)})
}

// IsValid is shorthand for Validate().IsValid()
func (d *Document) IsValid() bool {
	return d.Validate().IsValid()
}

// Validate checks every constraint of the supported subset without stopping
// at the first failure.
func (d *Document) Validate() ValidationResult {
	var result ValidationResult

	// absent Compression means uncompressed
	if e, ok := d.Find(Compression); ok {
		if v := e.Value(d.LittleEndian); v != CompressionNone {
			result.add(Compression, "compressed with scheme %d", v)
		}
	}

	if d.NextIFD != 0 {
		result.add(NoTag, "contains multiple images, next IFD at %d", d.NextIFD)
	}

	if e, ok := d.Find(PhotometricInterpretation); !ok {
		result.add(PhotometricInterpretation, "missing")
	} else if v := e.Value(d.LittleEndian); v != PhotometricRGB {
		result.add(PhotometricInterpretation, "photometric interpretation %d is not RGB", v)
	}

	// absent PlanarConfiguration means chunky
	if e, ok := d.Find(PlanarConfiguration); ok {
		if v := e.Value(d.LittleEndian); v != PlanarChunky {
			result.add(PlanarConfiguration, "planar configuration %d is not chunky", v)
		}
	}

	if d.BitsPerSample == InvalidBitsPerSample {
		result.add(BitsPerSample, "need 3 equal samples of 8 or 16 bits")
	}

	switch {
	case d.NumStrips == 0:
		result.add(StripOffsets, "no strips")
	case len(d.StripByteCounts) != len(d.StripOffsets):
		result.add(StripByteCounts, "%d byte counts for %d strips", len(d.StripByteCounts), len(d.StripOffsets))
	case d.BitsPerSample != InvalidBitsPerSample:
		d.validateStripBounds(&result)
	}

	return result
}

// validateStripBounds makes sure every byte the processor will touch exists
// and belongs to exactly one strip
func (d *Document) validateStripBounds(result *ValidationResult) {
	size := uint64(len(d.Data))
	before := len(result.Errors)
	if d.IsSingleStrip() {
		if s, ok := d.StripSpan(0); !ok || s.End > size {
			result.add(StripOffsets, "image of %d pixels runs past end of file %d", d.PixelCount(), size)
		}
	} else {
		for i, off := range d.StripOffsets {
			if end := uint64(off) + uint64(d.StripByteCounts[i]); end > size {
				result.add(StripOffsets, "strip %d ends at %d past end of file %d", i, end, size)
			}
		}
	}
	if len(result.Errors) == before {
		d.validateStripLayout(result)
	}
}
