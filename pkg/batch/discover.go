// Package batch drives the dampening of a directory of images: discovery,
// output naming, sequential per file processing and failure accounting.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	tiffExts   = []string{".tif", ".tiff"}
	rasterExts = []string{".jpg", ".jpeg", ".png", ".bmp"}
)

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// IsTIFF reports whether path has a .tif or .tiff extension, any case
func IsTIFF(path string) bool {
	return lo.Contains(tiffExts, ext(path))
}

// Supported reports whether path is a TIFF or a raster format
func Supported(path string) bool {
	return IsTIFF(path) || lo.Contains(rasterExts, ext(path))
}

// Discover lists the supported regular files directly inside dir, sorted.
// A path naming a single file is returned as is when supported.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !Supported(dir) {
			return nil, fmt.Errorf("%s is not a supported image", dir)
		}
		return []string{dir}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return e.Type().IsRegular() && Supported(e.Name())
	})
	paths := lo.Map(files, func(e os.DirEntry, _ int) string {
		return filepath.Join(dir, e.Name())
	})
	sort.Strings(paths)
	return paths, nil
}

// OutputPath places input's base name, prefixed with the power to two
// decimals, in outDir
func OutputPath(input, outDir string, power float64) string {
	return filepath.Join(outDir, fmt.Sprintf("%.2f_%s", power, filepath.Base(input)))
}
