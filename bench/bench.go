// Package bench times repeated invocations of a convolution kernel.
//
// Benchmark reproduces the reference measurement: run a fixed call N times
// back to back, discard the results and report the mean wall-clock latency.
// Measure additionally records every trial and summarizes them.
//
// Allocation done by the invoked kernel is part of the measured time; no
// buffers are reused between trials.
package bench

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/gogpu/sepconv"
)

// Invocation is one kernel call whose result is discarded.
type Invocation func() *sepconv.Array

// Benchmark calls invoke trials times sequentially on the calling goroutine
// and returns the mean wall-clock time per call.
//
// Returns sepconv.ErrInvalidArgument, without calling invoke, if trials is
// not positive or invoke is nil.
func Benchmark(invoke Invocation, trials int) (time.Duration, error) {
	if err := check(invoke, trials); err != nil {
		return 0, err
	}

	start := time.Now()
	for range trials {
		_ = invoke()
	}
	total := time.Since(start)

	mean := total / time.Duration(trials)
	sepconv.Logger().Debug("bench: done", "trials", trials, "total", total, "mean", mean)
	return mean, nil
}

// Result summarizes a Measure run.
type Result struct {
	Trials int
	Total  time.Duration
	Mean   time.Duration
	Median time.Duration
	Min    time.Duration
	Max    time.Duration
	StdDev time.Duration // sample standard deviation; 0 for a single trial
}

// Measure is Benchmark with per-trial timing. Total covers the whole loop,
// including the timer reads between trials.
func Measure(invoke Invocation, trials int) (Result, error) {
	if err := check(invoke, trials); err != nil {
		return Result{}, err
	}

	samples := make([]float64, trials)
	start := time.Now()
	for i := range trials {
		t0 := time.Now()
		_ = invoke()
		samples[i] = float64(time.Since(t0))
	}
	total := time.Since(start)

	r := summarize(samples)
	r.Total = total
	sepconv.Logger().Debug("bench: measured", "result", r)
	return r, nil
}

// summarize computes statistics over per-trial durations in nanoseconds.
func summarize(samples []float64) Result {
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	stddev := 0.0
	if len(samples) > 1 {
		stddev = stat.StdDev(samples, nil)
	}

	return Result{
		Trials: len(samples),
		Mean:   ns(stat.Mean(samples, nil)),
		Median: ns(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
		Min:    ns(floats.Min(samples)),
		Max:    ns(floats.Max(samples)),
		StdDev: ns(stddev),
	}
}

func ns(v float64) time.Duration {
	return time.Duration(math.Round(v))
}

func check(invoke Invocation, trials int) error {
	if trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", sepconv.ErrInvalidArgument, trials)
	}
	if invoke == nil {
		return fmt.Errorf("%w: nil invocation", sepconv.ErrInvalidArgument)
	}
	return nil
}

// Seconds returns the mean in seconds, the unit the reference script prints.
func (r Result) Seconds() float64 {
	return r.Mean.Seconds()
}

// String returns a one-line summary.
func (r Result) String() string {
	return fmt.Sprintf("%d trials: mean %v, median %v, min %v, max %v, stddev %v",
		r.Trials, r.Mean, r.Median, r.Min, r.Max, r.StdDev)
}
