package cmd

import (
	"context"
	"fmt"

	"github.com/jpfielding/colorcast.go/pkg/batch"
	"github.com/jpfielding/colorcast.go/pkg/dampen"
	"github.com/spf13/cobra"
)

// NewDampenCmd converts a folder of images
func NewDampenCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dampen",
		Short: "pull colors toward neutral gray",
		Long: fmt.Sprintf("Dampens every supported image in --in and writes <power>_<name> copies to --out.\n"+
			"Power ranges from %v (completely gray) to %v (almost no change).", dampen.MinPower, dampen.MaxPower),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			rawPower, _ := cmd.Flags().GetString("power")
			workers, _ := cmd.Flags().GetInt("workers")
			chunk, _ := cmd.Flags().GetInt("chunk")

			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" || out == "" {
				return fmt.Errorf("both --in and --out are required")
			}
			power, err := dampen.ParsePower(rawPower)
			if err != nil {
				return err
			}

			inputs, err := batch.Discover(in)
			if err != nil {
				return fmt.Errorf("listing inputs: %w", err)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("there are no supported images in %s", in)
			}

			runner, err := batch.NewRunner(dampen.Options{Power: power, Workers: workers, ChunkWidth: chunk})
			if err != nil {
				return err
			}
			report, err := runner.Run(ctx, inputs, out)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			if !report.OK() {
				return fmt.Errorf("failed to convert %d of %d images", len(report.Failed), report.Total)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "folder (or single file) of images to convert")
	pf.StringP("out", "o", "", "folder to write converted images to")
	pf.StringP("power", "p", "1", fmt.Sprintf("dampening power, %v to %v", dampen.MinPower, dampen.MaxPower))
	pf.Int("workers", dampen.DefaultWorkers, "parallel ranges per single strip image")
	pf.Int("chunk", dampen.DefaultChunkWidth, "strips processed concurrently in multi strip images")

	return cmd
}
