// Command impact-play plays audio through the impact engine in real time
// with a keyboard-controlled impact knob.
//
// Usage:
//
//	impact-play [flags] [input.wav]
//
// Without an input file a drum-like pulse train is looped.
//
// Keys:
//
//	+ / -   raise or lower impact by -step
//	0 .. 9  jump to 0, 11, 22, ... 100
//	q       quit
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-impact/dsp/core"
	"github.com/cwbudde/algo-impact/dsp/impact"
	"github.com/cwbudde/algo-impact/dsp/signal"
	"github.com/cwbudde/algo-impact/internal/render"
)

const (
	defaultRate   = 48000
	defaultBlock  = 256
	outputLatency = 40 * time.Millisecond
	pulseSeconds  = 2.0
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	variantName := flag.String("variant", impact.DefaultVariant.String(), "Curve variant: glide, balanced")
	initial := flag.Float64("impact", 0, "Initial impact in [0, 100]")
	step := flag.Float64("step", 5, "Impact change per +/- key press")
	rate := flag.Int("rate", defaultRate, "Sample rate of the generated loop in Hz")
	block := flag.Int("block", defaultBlock, "Maximum engine block size in frames")
	smoothingMS := flag.Float64("smoothing", impact.DefaultSmoothingTime*1000, "Impact smoothing in ms")
	flag.Parse()

	variant, err := impact.ParseVariant(*variantName)
	if err != nil {
		return err
	}

	source, err := loadSource(flag.Arg(0), *rate)
	if err != nil {
		return err
	}

	engine, err := impact.New(
		impact.WithVariant(variant),
		impact.WithSmoothingTime(*smoothingMS/1000),
	)
	if err != nil {
		return err
	}
	if err := engine.Prepare(float64(source.SampleRate), *block); err != nil {
		return err
	}
	engine.SetImpact(*initial)
	engine.Reset()

	stream, err := newStream(engine, source.Channels, *block)
	if err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   source.SampleRate,
		ChannelCount: stereoChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   outputLatency,
	})
	if err != nil {
		return fmt.Errorf("open audio output: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(stream)
	player.Play()
	defer player.Pause()

	knob := newKnob(engine, *step)
	fmt.Fprintf(os.Stderr, "impact-play: %s, %d Hz. Keys: +/- 0-9 q\r\n", variant, source.SampleRate)
	return knob.Run(os.Stdin, os.Stderr)
}

// loadSource reads path or generates a looping pulse train at rate.
func loadSource(path string, rate int) (*render.Audio, error) {
	if path != "" {
		return render.ReadWAVFile(path)
	}
	gen := signal.NewGenerator(core.WithSampleRate(float64(rate)))
	pulses, err := gen.Pulses(120, 0.15, 0.8, int(pulseSeconds*float64(rate)))
	if err != nil {
		return nil, err
	}
	return &render.Audio{SampleRate: rate, BitDepth: 32, Channels: [][]float64{pulses}}, nil
}
