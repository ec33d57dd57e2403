// Command sepconv blurs images with a separable convolution and benchmarks
// the kernel.
//
// Usage:
//
//	sepconv blur in.png out.png --kind box --radius 2 --boundary reflect
//	sepconv scale in.png out.png --scale 2 --limit 1
//	sepconv bench --trials 20 --width 2560 --height 1536 --channels 3
//
// Every flag can also come from a config file (--config) or from a
// SEPCONV_* environment variable, e.g. SEPCONV_WORKERS=4.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sepconv:", err)
		os.Exit(1)
	}
}
