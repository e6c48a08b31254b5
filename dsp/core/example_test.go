package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-impact/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=48000 blockSize=256
}

func ExampleNarrow() {
	wide := []float64{0.5, 2, -0.25}
	host := make([]float32, len(wide))
	core.Narrow(host, wide)
	fmt.Println(host)

	// Output:
	// [0.5 2 -0.25]
}
