package main

import (
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/sepconv"
	"github.com/gogpu/sepconv/internal/config"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "sepconv",
		Short:         "Separable 2D convolution over planar images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String(config.KeyConfig, "", "config file (YAML, TOML or JSON)")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newBlurCmd(a),
		newScaleCmd(a),
		newBenchCmd(a),
	)
	return root
}

// load resolves the configuration for cmd and installs the logger.
func (a *app) load(cmd *cobra.Command) error {
	if err := config.BindFlags(a.v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	sepconv.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// kernelFlags registers the flags shared by commands that run the kernel.
func kernelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("workers", 1, "goroutines processing channels; 0 uses GOMAXPROCS")
	f.String("boundary", "same", "edge policy: same, valid, reflect or replicate")
	f.Int("groups", 0, "channel groups; 0 keeps channels independent")
}

func (a *app) convolver() *sepconv.Convolver {
	n := a.cfg.Workers
	if n == 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return sepconv.NewConvolver(sepconv.WithWorkers(n))
}
