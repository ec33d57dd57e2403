package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/sepconv"
	"github.com/gogpu/sepconv/bench"
)

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the reference box blur",
		Long: `Blur an array of ones with [1 1 1] horizontally and vertically, one
group per channel, zero padding, and report the mean seconds per call.
The first output line is the mean alone; a summary follows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.bench(cmd)
		},
	}

	kernelFlags(cmd)
	f := cmd.Flags()
	f.Int("trials", bench.DefaultTrials, "kernel calls to time")
	f.Int("width", bench.DefaultWidth, "input width")
	f.Int("height", bench.DefaultHeight, "input height")
	f.Int("channels", bench.DefaultChannels, "input channels")
	return cmd
}

func (a *app) bench(cmd *cobra.Command) error {
	boundary, err := a.cfg.BoundaryPolicy()
	if err != nil {
		return err
	}

	cv := a.convolver()
	defer cv.Close()

	s := bench.DefaultScenario()
	s.Width, s.Height, s.Channels = a.cfg.Width, a.cfg.Height, a.cfg.Channels
	s.Groups = a.cfg.GroupsFor(s.Channels)
	s.Boundary = boundary
	s.Convolver = cv

	invoke, err := s.Invocation()
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	sepconv.Logger().Info("bench: start", "trials", a.cfg.Trials, "workers", cv.Workers())
	r, err := bench.Measure(invoke, a.cfg.Trials)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.Seconds())

	p := message.NewPrinter(language.English)
	title := cases.Title(language.English)
	p.Fprintf(out, "%s blur of %d×%d×%d (%d samples), groups=%d workers=%d\n",
		title.String(boundary.String()), s.Width, s.Height, s.Channels,
		s.Width*s.Height*s.Channels, s.Groups, cv.Workers())
	p.Fprintf(out, "%v\n", r)
	p.Fprintf(out, "host: %v\n", bench.Host())
	return nil
}
