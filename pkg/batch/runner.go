package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jpfielding/colorcast.go/pkg/dampen"
	"github.com/jpfielding/colorcast.go/pkg/logging"
	"github.com/jpfielding/colorcast.go/pkg/raster"
	"github.com/jpfielding/colorcast.go/pkg/tiff"
	"github.com/jpfielding/colorcast.go/pkg/util"
)

// Runner processes files one after another; parallelism lives inside each file
type Runner struct {
	Options dampen.Options
}

// NewRunner validates opts and fills defaults
func NewRunner(opts dampen.Options) (*Runner, error) {
	if err := dampen.ValidatePower(opts.Power); err != nil {
		return nil, err
	}
	return &Runner{Options: opts.WithDefaults()}, nil
}

// Run converts every input into outDir. Per file failures are recorded in
// the report and never stop the batch; only an unusable outDir does.
func (r *Runner) Run(ctx context.Context, inputs []string, outDir string) (*Report, error) {
	report := &Report{RunID: util.RunID(), Total: len(inputs)}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return report, fmt.Errorf("creating output directory: %w", err)
	}
	ctx = logging.AppendCtx(ctx, slog.String("run", report.RunID))
	start := time.Now()

	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			report.Err = multierror.Append(report.Err, err)
			report.Failed = append(report.Failed, filepath.Base(in))
			continue
		}
		out := OutputPath(in, outDir, r.Options.Power)
		fctx := logging.AppendCtx(ctx,
			slog.String("job", util.JobID(in, r.Options.Power)),
			slog.String("file", filepath.Base(in)))
		slog.InfoContext(fctx, "working on file", "index", i+1, "of", len(inputs))

		if err := r.convert(fctx, in, out); err != nil {
			slog.ErrorContext(fctx, "failed to convert", "error", err)
			report.Err = multierror.Append(report.Err, fmt.Errorf("%s: %w", filepath.Base(in), err))
			report.Failed = append(report.Failed, filepath.Base(in))
			continue
		}
		report.Succeeded++
	}

	report.Elapsed = time.Since(start)
	slog.InfoContext(ctx, "batch complete",
		"total", report.Total,
		"failed", len(report.Failed),
		"elapsed", report.Elapsed)
	return report, nil
}

func (r *Runner) convert(ctx context.Context, in, out string) error {
	if IsTIFF(in) {
		return r.convertTIFF(ctx, in, out)
	}
	return r.convertRaster(ctx, in, out)
}

// convertTIFF runs one TIFF through decode, validation, processing and write
func (r *Runner) convertTIFF(ctx context.Context, in, out string) error {
	doc, err := tiff.ReadFile(in)
	if err != nil {
		return err
	}
	result := doc.Validate()
	for _, v := range result.Errors {
		slog.WarnContext(ctx, "tiff rejected", "tag", v.Tag.String(), "reason", v.Message)
	}
	if err := result.Err(); err != nil {
		return err
	}
	slog.DebugContext(ctx, "tiff decoded",
		"width", doc.Width(),
		"height", doc.Height(),
		"bits", doc.BitsPerSample,
		"strips", doc.NumStrips,
		"little_endian", doc.LittleEndian)
	if err := dampen.Process(ctx, doc, r.Options); err != nil {
		return err
	}
	n, err := tiff.WriteFile(out, doc)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote tiff", "bytes", n, "md5", util.Md5ThenHex(doc.Data))
	return nil
}

func (r *Runner) convertRaster(ctx context.Context, in, out string) error {
	img, err := raster.Load(in)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	if err := dampen.ProcessRaster(ctx, img, r.Options); err != nil {
		return err
	}
	return raster.Save(out, img)
}
