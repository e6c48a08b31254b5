package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-impact/dsp/core"
	"github.com/cwbudde/algo-impact/dsp/signal"
	"github.com/cwbudde/algo-impact/internal/render"
	"github.com/cwbudde/algo-impact/measure/band"
	"github.com/cwbudde/algo-impact/measure/level"
)

const (
	pulseBPM       = 120.0
	pulseDecay     = 0.15
	pulseAmplitude = 0.8
)

// buildConfig loads the render file, if any, and applies flag overrides.
func buildConfig(opts options) (render.Config, error) {
	cfg := render.DefaultConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = render.LoadConfig(opts.configPath)
		if err != nil {
			return render.Config{}, err
		}
	}

	if opts.variant != "" {
		cfg.Variant = opts.variant
	}
	if opts.impact >= 0 {
		cfg.Automation = []render.Point{{Time: 0, Impact: opts.impact}}
	}
	if opts.rate > 0 {
		cfg.SampleRate = opts.rate
	}
	if opts.bitDepth > 0 {
		cfg.BitDepth = opts.bitDepth
	}

	if err := cfg.Validate(); err != nil {
		return render.Config{}, err
	}
	return cfg, nil
}

// loadInput reads path, or generates a stereo pulse train at cfg.SampleRate
// when path is empty. Generated input lasts at least as long as the
// automation.
func loadInput(path string, cfg render.Config, seconds float64) (*render.Audio, error) {
	if path != "" {
		return render.ReadWAVFile(path)
	}

	seconds = math.Max(seconds, cfg.Duration())
	if seconds <= 0 || math.IsNaN(seconds) {
		return nil, fmt.Errorf("generated input length must be > 0: %f", seconds)
	}

	gen := signal.NewGenerator(core.WithSampleRate(cfg.SampleRate))
	n := int(seconds * cfg.SampleRate)
	pulses, err := gen.Pulses(pulseBPM, pulseDecay, pulseAmplitude, n)
	if err != nil {
		return nil, err
	}

	return &render.Audio{
		SampleRate: int(cfg.SampleRate),
		BitDepth:   cfg.BitDepth,
		Channels:   [][]float64{pulses, append([]float64(nil), pulses...)},
	}, nil
}

// writeReport prints per-channel levels of input and output and, when
// splitHz > 0, the low/high band balance of the first channel.
func writeReport(w io.Writer, in, out *render.Audio, splitHz float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SIGNAL\tCH\tPEAK dBFS\tRMS dBFS\tCREST dB\tDC")

	rows := []struct {
		name  string
		audio *render.Audio
	}{{"input", in}, {"output", out}}
	for _, row := range rows {
		for ch, s := range level.MeasureChannels(row.audio.Channels) {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.5f\n",
				row.name, ch, s.PeakDBFS, s.RMSDBFS, s.CrestFactorDB(), s.DC)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if splitHz <= 0 {
		return nil
	}

	analyzer, err := band.NewAnalyzer(float64(in.SampleRate))
	if err != nil {
		return err
	}
	before, err := analyzer.SplitEnergy(in.Channels[0], splitHz)
	if err != nil {
		return err
	}
	after, err := analyzer.SplitEnergy(out.Channels[0], splitHz)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Band balance at %.0f Hz (low/high): input %.2f dB, output %.2f dB\n",
		splitHz, before.LowToHighDB(), after.LowToHighDB())
	return err
}
