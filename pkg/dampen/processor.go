package dampen

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/jpfielding/colorcast.go/pkg/tiff"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers is how many ranges a single strip image is split into
	DefaultWorkers = 8
	// DefaultChunkWidth bounds how many strips are processed at once
	DefaultChunkWidth = 8
)

// Options configures one processing run
type Options struct {
	Power      float64
	Workers    int
	ChunkWidth int
}

// WithDefaults fills unset worker counts
func (o Options) WithDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.ChunkWidth <= 0 {
		o.ChunkWidth = DefaultChunkWidth
	}
	return o
}

// WorkUnit is a run of pixels [Start, End) counted from the strip byte
// offset Offset
type WorkUnit struct {
	Start  uint64
	End    uint64
	Offset uint64
}

// Plan splits doc into waves of work units. A wave runs concurrently and is
// joined before the next starts. Single strip images yield one wave of
// Workers units; multi strip images yield one unit per strip, at most
// ChunkWidth per wave. Documents whose strips overlap each other or the
// file's metadata are rejected, so no two units share a byte.
func Plan(doc *tiff.Document, opts Options) ([][]WorkUnit, error) {
	opts = opts.WithDefaults()
	bpp := uint64(doc.BytesPerPixel())
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %d bits per sample", tiff.ErrUnsupported, doc.BitsPerSample)
	}

	var waves [][]WorkUnit
	switch {
	case doc.NumStrips == 0 || len(doc.StripOffsets) == 0:
		return nil, nil
	case doc.IsSingleStrip():
		off := uint64(doc.StripOffsets[0])
		wave := make([]WorkUnit, 0, opts.Workers)
		for _, r := range Partition(doc.PixelCount(), opts.Workers) {
			wave = append(wave, WorkUnit{Start: r.Start, End: r.End, Offset: off})
		}
		waves = append(waves, wave)
	default:
		for start := 0; start < len(doc.StripOffsets); start += opts.ChunkWidth {
			end := min(start+opts.ChunkWidth, len(doc.StripOffsets))
			wave := make([]WorkUnit, 0, end-start)
			for i := start; i < end; i++ {
				wave = append(wave, WorkUnit{End: doc.StripPixels(i), Offset: uint64(doc.StripOffsets[i])})
			}
			waves = append(waves, wave)
		}
	}

	size := uint64(len(doc.Data))
	for _, wave := range waves {
		for _, u := range wave {
			if last, ok := tiff.SpanEnd(u.Offset, u.End, bpp); !ok || last > size {
				length := uint64(math.MaxInt)
				if ok {
					length = min(last-u.Offset, length)
				}
				return nil, &tiff.RangeError{Offset: int(u.Offset), Length: int(length), Size: len(doc.Data)}
			}
		}
	}
	if err := doc.CheckStripLayout(); err != nil {
		return nil, err
	}
	return waves, nil
}

// ProcessRange dampens every pixel of unit in place
func ProcessRange(doc *tiff.Document, power float64, unit WorkUnit) error {
	for i := unit.Start; i < unit.End; i++ {
		rgb, err := doc.Pixel(i, unit.Offset)
		if err != nil {
			return err
		}
		if err := doc.SetPixel(Normalize(rgb, power, doc.BitsPerSample), i, unit.Offset); err != nil {
			return err
		}
	}
	return nil
}

// Process dampens every pixel of a validated document. Cancelling ctx stops
// dispatch between waves; a running wave always finishes.
func Process(ctx context.Context, doc *tiff.Document, opts Options) error {
	if err := ValidatePower(opts.Power); err != nil {
		return err
	}
	waves, err := Plan(doc, opts)
	if err != nil {
		return err
	}
	for i, wave := range waves {
		if err := ctx.Err(); err != nil {
			return err
		}
		var g errgroup.Group
		for _, unit := range wave {
			unit := unit
			g.Go(func() error {
				return ProcessRange(doc, opts.Power, unit)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("wave %d: %w", i, err)
		}
	}
	slog.DebugContext(ctx, "dampened tiff",
		"strips", doc.NumStrips,
		"waves", len(waves),
		"bits", doc.BitsPerSample,
		"power", opts.Power)
	return nil
}
