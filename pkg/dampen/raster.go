package dampen

import (
	"context"
	"fmt"

	"github.com/jpfielding/colorcast.go/pkg/raster"
	"golang.org/x/sync/errgroup"
)

// ProcessRaster dampens a decoded 8 bit RGB image in place, splitting the
// pixels into Workers contiguous ranges
func ProcessRaster(ctx context.Context, r *raster.Raster, opts Options) error {
	if err := ValidatePower(opts.Power); err != nil {
		return err
	}
	opts = opts.WithDefaults()
	n := uint64(r.Width) * uint64(r.Height)
	if uint64(len(r.Pix)) < n*raster.Channels {
		return fmt.Errorf("raster %dx%d needs %d bytes, has %d", r.Width, r.Height, n*raster.Channels, len(r.Pix))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var g errgroup.Group
	for _, rng := range Partition(n, opts.Workers) {
		rng := rng
		g.Go(func() error {
			for i := rng.Start; i < rng.End; i++ {
				p := r.Pix[i*raster.Channels : i*raster.Channels+raster.Channels]
				out := Normalize([3]int32{int32(p[0]), int32(p[1]), int32(p[2])}, opts.Power, 8)
				p[0], p[1], p[2] = byte(out[0]), byte(out[1]), byte(out[2])
			}
			return nil
		})
	}
	return g.Wait()
}
