package bench

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"

	"github.com/gogpu/sepconv"
)

// Reference scenario dimensions: a 3-channel 2560x1536 image.
const (
	DefaultWidth    = 2560
	DefaultHeight   = 1536
	DefaultChannels = 3
	DefaultTrials   = 20
)

// Scenario describes a box-blur workload.
type Scenario struct {
	Width, Height, Channels int
	Tap                     sepconv.Tap // applied both ways; zero means OnesTap(3)
	Groups                  int         // zero means one group per channel
	Boundary                sepconv.Boundary
	Convolver               *sepconv.Convolver // nil means sequential
}

// DefaultScenario is the reference workload: ones(3, 1536, 2560) blurred by
// [1 1 1] horizontally and vertically, one group per channel, zero padding.
func DefaultScenario() Scenario {
	return Scenario{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Channels: DefaultChannels,
		Tap:      sepconv.OnesTap(3),
		Boundary: sepconv.Same,
	}
}

// Invocation builds the input once and returns a call that convolves it.
// The configuration is checked here, so the returned call cannot fail; it
// panics if it does.
func (s Scenario) Invocation() (Invocation, error) {
	in, err := sepconv.NewArray(s.Width, s.Height, s.Channels)
	if err != nil {
		return nil, err
	}
	data := in.Data()
	for i := range data {
		data[i] = 1
	}

	tap := s.Tap
	if tap.Len() == 0 {
		tap = sepconv.OnesTap(3)
	}
	groups := s.Groups
	if groups == 0 {
		groups = s.Channels
	}
	cv := s.Convolver
	if cv == nil {
		cv = sepconv.NewConvolver()
	}

	// One dry run validates the parameters.
	if _, err := cv.Convolve(in, tap, tap, groups, s.Boundary); err != nil {
		return nil, err
	}

	return func() *sepconv.Array {
		out, err := cv.Convolve(in, tap, tap, groups, s.Boundary)
		if err != nil {
			panic(fmt.Sprintf("bench: scenario became invalid: %v", err))
		}
		return out
	}, nil
}

// BlurScenario returns the reference blur call on a width x height x channels
// array of ones. It panics on non-positive dimensions.
func BlurScenario(width, height, channels int) Invocation {
	s := DefaultScenario()
	s.Width, s.Height, s.Channels = width, height, channels
	invoke, err := s.Invocation()
	if err != nil {
		panic(err)
	}
	return invoke
}

// HostInfo describes the machine a benchmark ran on.
type HostInfo struct {
	CPU           string
	PhysicalCores int
	LogicalCores  int
	GOMAXPROCS    int
}

// Host reports the current machine.
func Host() HostInfo {
	name := cpuid.CPU.BrandName
	if name == "" {
		name = runtime.GOARCH
	}
	return HostInfo{
		CPU:           name,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  cpuid.CPU.LogicalCores,
		GOMAXPROCS:    runtime.GOMAXPROCS(0),
	}
}

// String returns a one-line description.
func (h HostInfo) String() string {
	return fmt.Sprintf("%s (%d cores, %d threads, GOMAXPROCS=%d)",
		h.CPU, h.PhysicalCores, h.LogicalCores, h.GOMAXPROCS)
}
