package main

import (
	"github.com/spf13/cobra"

	"github.com/gogpu/sepconv"
	"github.com/gogpu/sepconv/internal/image"
	"github.com/gogpu/sepconv/pipeline"
)

func newScaleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scale IN OUT",
		Short: "Brighten an image: out = min(scale*in, limit)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scale(args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.Float64("scale", 2, "multiplier")
	f.Float64("limit", 1, "upper clamp, 1 is white")
	return cmd
}

func (a *app) scale(inPath, outPath string) error {
	in, err := image.Load(inPath)
	if err != nil {
		return err
	}

	expr := pipeline.ScaleClamp(float32(a.cfg.Scale), float32(a.cfg.Limit))
	out, err := pipeline.Evaluate(expr, in, sepconv.Same)
	if err != nil {
		return err
	}

	if err := image.Save(outPath, out, nil); err != nil {
		return err
	}

	sepconv.Logger().Info("scale", "in", inPath, "out", outPath, "expr", expr, "shape", out.Shape())
	return nil
}
