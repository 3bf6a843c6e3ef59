package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpfielding/colorcast.go/pkg/tiff/tifftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot(context.Background(), "abc123")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)
}

func TestDampen(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "cast.tif"),
		tifftest.Build(tifftest.RGB(4, 4, [3]uint16{100, 110, 120})), 0644))

	stdout, err := execute(t, "dampen", "--in", in, "--out", out, "--power", "2", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Converted 1 of 1 images")
	assert.FileExists(t, filepath.Join(out, "2.00_cast.tif"))
}

func TestDampen_FailuresExitNonZero(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.tif"), []byte("nope"), 0644))

	stdout, err := execute(t, "dampen", "-i", in, "-o", t.TempDir(), "--log-level", "error")
	assert.Error(t, err)
	assert.Contains(t, stdout, "Failed to convert: bad.tif")
}

func TestDampen_BadArgs(t *testing.T) {
	_, err := execute(t, "dampen", "--in", t.TempDir())
	assert.Error(t, err)

	_, err = execute(t, "dampen", "--in", t.TempDir(), "--out", t.TempDir(), "--power", "20")
	assert.Error(t, err)

	_, err = execute(t, "dampen", "--in", t.TempDir(), "--out", t.TempDir())
	assert.ErrorContains(t, err, "no supported images")
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.tif")
	opts := tifftest.RGB(3, 2, [3]uint16{1, 2, 3})
	opts.BigEndian = true
	opts.Compression = 5
	require.NoError(t, os.WriteFile(path, tifftest.Build(opts), 0644))

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "big endian (MM)")
	assert.Contains(t, out, "Width: 3")
	assert.Contains(t, out, "Height: 2")
	assert.Contains(t, out, "Compression")
	assert.NotContains(t, out, "OK: can be dampened")

	_, err = execute(t, "inspect")
	assert.Error(t, err)
}
