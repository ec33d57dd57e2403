package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/sepconv"
	"github.com/gogpu/sepconv/internal/image"
)

func newBlurCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blur IN OUT",
		Short: "Convolve an image with a separable filter",
		Long: `Convolve every row of IN with the filter, then every column of the
result, and write OUT. The output format follows the OUT extension.

Kinds: ones (2r+1 unit weights, sums), box (2r+1 weights averaging to 1),
gaussian (normalized, 2*ceil(3*sigma)+1 weights).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.blur(args[0], args[1])
		},
	}

	kernelFlags(cmd)
	f := cmd.Flags()
	f.String("kind", "ones", "filter kind: ones, box or gaussian")
	f.Int("radius", 1, "filter radius for ones and box")
	f.Float64("sigma", 1, "standard deviation for gaussian")
	return cmd
}

func (a *app) blur(inPath, outPath string) error {
	in, err := image.Load(inPath)
	if err != nil {
		return err
	}
	boundary, err := a.cfg.BoundaryPolicy()
	if err != nil {
		return err
	}

	cv := a.convolver()
	defer cv.Close()

	tap := a.cfg.Tap()
	start := time.Now()
	out, err := cv.Convolve(in, tap, tap, a.cfg.GroupsFor(in.Channels()), boundary)
	if err != nil {
		return fmt.Errorf("blur %s: %w", inPath, err)
	}
	elapsed := time.Since(start)

	if err := image.Save(outPath, out, nil); err != nil {
		return err
	}

	sepconv.Logger().Info("blur",
		"in", inPath,
		"out", outPath,
		"shape", out.Shape(),
		"taps", tap.Len(),
		"boundary", boundary,
		"workers", cv.Workers(),
		"elapsed", elapsed)
	return nil
}
