package tiff

import (
	"errors"
	"fmt"
)

var (
	// ErrIO marks a file that could not be read or written
	ErrIO = errors.New("tiff: io failure")
	// ErrNotTIFF marks input without the 42 magic number
	ErrNotTIFF = errors.New("tiff: not a tiff")
	// ErrUnsupported marks a well formed TIFF outside the supported subset
	ErrUnsupported = errors.New("tiff: unsupported tiff")
	// ErrRange marks offsets pointing outside the file
	ErrRange = errors.New("tiff: offset out of range")
)

// RangeError describes a read or write that falls outside the buffer
type RangeError struct {
	Offset int
	Length int
	Size   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("tiff: %d bytes at offset %d out of range for %d byte buffer", e.Length, e.Offset, e.Size)
}

// Is lets errors.Is(err, ErrRange) match any RangeError
func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}
