package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jpfielding/colorcast.go/pkg/tiff"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect cobra command
func NewInspectCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect TIFF file structure",
		Long:  "Parses and displays the header, directory entries and strips of a TIFF file and whether it can be dampened.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			if filePath == "" && len(args) > 0 {
				filePath = args[0]
			}
			if filePath == "" {
				return fmt.Errorf("file path is required. Use --file flag or provide as argument")
			}
			doc, err := tiff.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}
			printInspect(cmd.OutOrStdout(), doc)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", "TIFF file path to inspect")

	return cmd
}

func printInspect(w io.Writer, doc *tiff.Document) {
	order := "big endian (MM)"
	if doc.LittleEndian {
		order = "little endian (II)"
	}
	fmt.Fprintf(w, "Size: %d bytes\n", len(doc.Data))
	fmt.Fprintf(w, "Byte order: %s\n", order)
	fmt.Fprintf(w, "IFD offset: %d\n", doc.IFDOffset)
	fmt.Fprintf(w, "Next IFD: %d\n\n", doc.NextIFD)

	fmt.Fprintln(w, "=== Key Metadata ===")
	fmt.Fprintf(w, "Width: %d\n", doc.Width())
	fmt.Fprintf(w, "Height: %d\n", doc.Height())
	fmt.Fprintf(w, "BitsPerSample: %d\n", doc.BitsPerSample)
	fmt.Fprintf(w, "Strips: %d\n\n", doc.NumStrips)

	fmt.Fprintf(w, "=== Entries (%d) ===\n", len(doc.Entries))
	for _, e := range doc.Entries {
		fmt.Fprintln(w, e)
	}

	fmt.Fprintln(w, "\n=== Strips ===")
	for i, off := range doc.StripOffsets {
		if i < len(doc.StripByteCounts) {
			fmt.Fprintf(w, "  [%d] offset=%d bytes=%d\n", i, off, doc.StripByteCounts[i])
		} else {
			fmt.Fprintf(w, "  [%d] offset=%d bytes=?\n", i, off)
		}
	}

	fmt.Fprintln(w, "\n=== Validation ===")
	result := doc.Validate()
	if result.IsValid() {
		fmt.Fprintln(w, "OK: can be dampened")
		return
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
