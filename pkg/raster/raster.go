// Package raster loads and saves JPEG, PNG and BMP files as packed 8 bit RGB
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Channels is the number of bytes per packed pixel
const Channels = 3

// ErrUnsupportedFormat is returned for extensions Save cannot encode
var ErrUnsupportedFormat = errors.New("raster: unsupported format")

// Raster is row major RGB with a stride of Width*3
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zeroed raster
func New(width, height int) *Raster {
	return &Raster{Width: width, Height: height, Pix: make([]byte, width*height*Channels)}
}

// Stride is the byte length of one row
func (r *Raster) Stride() int {
	return r.Width * Channels
}

// Load decodes the image at path
func Load(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads any registered image format
func Decode(r io.Reader) (*Raster, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return FromImage(img), nil
}

// FromImage flattens img to packed RGB, dropping alpha
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	out := New(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = c.R, c.G, c.B
			i += Channels
		}
	}
	return out
}

// Image wraps the raster as an opaque NRGBA image
func (r *Raster) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i, j := 0, 0; i+Channels <= len(r.Pix) && j+4 <= len(img.Pix); i, j = i+Channels, j+4 {
		img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = r.Pix[i], r.Pix[i+1], r.Pix[i+2], 0xFF
	}
	return img
}

// Save encodes r with the codec matching the extension of path.
// JPEG is written at maximum quality.
func Save(path string, r *Raster) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, r.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
		}, nil
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}
