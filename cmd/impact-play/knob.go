package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/cwbudde/algo-impact/dsp/impact"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

// knob maps key presses to impact changes. It runs on its own goroutine and
// hands values to the audio side only through the engine's atomic control.
type knob struct {
	engine *impact.Engine
	step   float64
}

func newKnob(engine *impact.Engine, step float64) *knob {
	return &knob{engine: engine, step: step}
}

// applyKey returns the impact after key and whether key requests quit.
func applyKey(current float64, key byte, step float64) (float64, bool) {
	switch {
	case key == 'q' || key == 'Q' || key == keyCtrlC || key == keyEsc:
		return current, true
	case key == '+' || key == '=':
		current += step
	case key == '-' || key == '_':
		current -= step
	case key >= '0' && key <= '9':
		current = float64(key-'0') * impact.MaxImpact / 9
	}
	return max(impact.MinImpact, min(impact.MaxImpact, current)), false
}

// Run reads keys from in until quit or EOF. When in is a terminal it is put
// into raw mode for the duration.
func (k *knob) Run(in *os.File, status io.Writer) error {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("set raw mode: %w", err)
		}
		defer func() { _ = term.Restore(fd, oldState) }()
	}
	return k.loop(in, status)
}

func (k *knob) loop(in io.Reader, status io.Writer) error {
	buf := make([]byte, 1)
	k.print(status)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			next, quit := applyKey(k.engine.Impact(), buf[0], k.step)
			if quit {
				fmt.Fprint(status, "\r\n")
				return nil
			}
			k.engine.SetImpact(next)
			k.print(status)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (k *knob) print(status io.Writer) {
	fmt.Fprintf(status, "\rimpact %5.1f ", k.engine.Impact())
}
