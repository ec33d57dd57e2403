// Package config loads sepconv settings from defaults, an optional config
// file, SEPCONV_* environment variables and command-line flags, in rising
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gogpu/sepconv"
	"github.com/gogpu/sepconv/bench"
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// EnvPrefix prefixes every environment variable, e.g. SEPCONV_WORKERS.
const EnvPrefix = "SEPCONV"

// KeyConfig names the optional config file (YAML, TOML or JSON).
const KeyConfig = "config"

// Filter kinds.
const (
	KindBox      = "box"
	KindGaussian = "gaussian"
	KindOnes     = "ones"
)

// Config holds every setting. Keys are the lower-case field names.
type Config struct {
	// Kernel
	Workers  int     `mapstructure:"workers"`
	Boundary string  `mapstructure:"boundary"`
	Groups   int     `mapstructure:"groups"` // 0 means one group per channel
	Kind     string  `mapstructure:"kind"`
	Radius   int     `mapstructure:"radius"`
	Sigma    float64 `mapstructure:"sigma"`

	// Point transform
	Scale float64 `mapstructure:"scale"`
	Limit float64 `mapstructure:"limit"`

	// Bench
	Trials   int `mapstructure:"trials"`
	Width    int `mapstructure:"width"`
	Height   int `mapstructure:"height"`
	Channels int `mapstructure:"channels"`

	LogLevel string `mapstructure:"log-level"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workers", 1)
	v.SetDefault("boundary", sepconv.Same.String())
	v.SetDefault("groups", 0)
	v.SetDefault("kind", KindOnes)
	v.SetDefault("radius", 1)
	v.SetDefault("sigma", 1.0)
	v.SetDefault("scale", 2.0)
	v.SetDefault("limit", 1.0)
	v.SetDefault("trials", bench.DefaultTrials)
	v.SetDefault("width", bench.DefaultWidth)
	v.SetDefault("height", bench.DefaultHeight)
	v.SetDefault("channels", bench.DefaultChannels)
	v.SetDefault("log-level", "warn")
}

// BindFlags makes the flags in fs override the matching keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("config: bind flags: %w", err)
	}
	return nil
}

// Load merges defaults, the file named by KeyConfig, the environment and
// bound flags, then validates the result.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Workers < 0 {
		bad("workers %d is negative", c.Workers)
	}
	if _, err := sepconv.ParseBoundary(c.Boundary); err != nil {
		bad("boundary %q", c.Boundary)
	}
	if c.Groups < 0 {
		bad("groups %d is negative", c.Groups)
	}
	switch strings.ToLower(c.Kind) {
	case KindBox, KindOnes:
		if c.Radius < 0 {
			bad("radius %d is negative", c.Radius)
		}
	case KindGaussian:
		if !(c.Sigma > 0) {
			bad("sigma %v must be positive", c.Sigma)
		}
	default:
		bad("kind %q (want box, gaussian or ones)", c.Kind)
	}
	if c.Trials <= 0 {
		bad("trials %d must be positive", c.Trials)
	}
	if c.Width <= 0 || c.Height <= 0 || c.Channels <= 0 {
		bad("bench size %dx%dx%d must be positive", c.Width, c.Height, c.Channels)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		bad("log-level %q", c.LogLevel)
	}

	return errors.Join(errs...)
}

// BoundaryPolicy returns the parsed boundary.
func (c *Config) BoundaryPolicy() (sepconv.Boundary, error) {
	return sepconv.ParseBoundary(c.Boundary)
}

// Tap returns the filter the kernel settings describe, used both ways.
func (c *Config) Tap() sepconv.Tap {
	switch strings.ToLower(c.Kind) {
	case KindBox:
		return sepconv.BoxTap(c.Radius)
	case KindGaussian:
		return sepconv.GaussianTap(c.Sigma)
	default:
		return sepconv.OnesTap(2*c.Radius + 1)
	}
}

// GroupsFor resolves Groups against an input with the given channel count.
func (c *Config) GroupsFor(channels int) int {
	if c.Groups == 0 {
		return channels
	}
	return c.Groups
}

// ParseLogLevel maps debug, info, warn or error (any case) to a level.
func ParseLogLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, name)
	}
	return l, nil
}
