// Command impact-render runs audio through the impact engine offline.
//
// Usage:
//
//	impact-render [flags] [input.wav] output.wav
//
// Without an input file a drum-like pulse train is generated. Impact is
// either automated from a YAML render file (-config) or held constant
// (-impact).
//
// Examples:
//
//	impact-render -impact 60 drums.wav drums_impact.wav
//	impact-render -config riser.yaml -split 400 drums.wav out.wav
//	impact-render -seconds 4 -variant balanced pulses.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-impact/internal/render"
)

const minRequiredArgs = 1

type options struct {
	configPath string
	variant    string
	impact     float64
	seconds    float64
	rate       float64
	bitDepth   int
	splitHz    float64
	verbose    bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML render file with automation")
	flag.StringVar(&opts.variant, "variant", "", "Curve variant: glide, balanced (overrides the render file)")
	flag.Float64Var(&opts.impact, "impact", -1, "Constant impact in [0, 100] (overrides automation)")
	flag.Float64Var(&opts.seconds, "seconds", 4, "Length of the generated pulse train when no input is given")
	flag.Float64Var(&opts.rate, "rate", 0, "Sample rate of the generated input in Hz (default from render file)")
	flag.IntVar(&opts.bitDepth, "bits", 0, "Output bit depth: 16, 24, 32 (default from render file)")
	flag.Float64Var(&opts.splitHz, "split", 0, "Report low/high band energy around this frequency in Hz")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [input.wav] output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	inputPath, outputPath := "", args[0]
	if len(args) > 1 {
		inputPath, outputPath = args[0], args[1]
	}

	in, err := loadInput(inputPath, cfg, opts.seconds)
	if err != nil {
		return err
	}

	if opts.verbose {
		if inputPath == "" {
			log.Printf("Input: generated pulses, %.2fs", in.Duration())
		} else {
			log.Printf("Input: %s", inputPath)
		}
		log.Printf("Output: %s", outputPath)
		log.Printf("Format: %d Hz, %d channels, %d-bit", in.SampleRate, len(in.Channels), cfg.BitDepth)
		log.Printf("Variant: %s, smoothing %.1f ms, block %d", cfg.Variant, cfg.SmoothingMS, cfg.BlockSize)
		log.Printf("Automation: %d points", len(cfg.Automation))
	}

	start := time.Now()
	out, stats, err := render.RenderAudio(cfg, in)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := render.WriteWAVFile(outputPath, out); err != nil {
		return err
	}

	fmt.Printf("Rendered %s\n", filepath.Base(outputPath))
	fmt.Printf("  %d frames in %d blocks (%d bypassed), peak impact %.1f\n",
		stats.Frames, stats.Blocks, stats.BypassedBlocks, stats.MaxImpact)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		out.Duration(), out.Duration()/elapsed.Seconds())

	return writeReport(os.Stdout, in, out, opts.splitHz)
}
