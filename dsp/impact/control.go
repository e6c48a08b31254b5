package impact

import (
	"math"
	"sync/atomic"
)

// Control is the lock-free hand-off of the macro value from control
// goroutines to the audio goroutine. The zero Control holds impact 0.
type Control struct {
	bits atomic.Uint64
}

// Store sets the macro value, clamped to [MinImpact, MaxImpact]. NaN is
// ignored.
func (c *Control) Store(impact float64) {
	if math.IsNaN(impact) {
		return
	}
	impact = math.Max(MinImpact, math.Min(MaxImpact, impact))
	c.bits.Store(math.Float64bits(impact))
}

// Load returns the last stored macro value.
func (c *Control) Load() float64 {
	return math.Float64frombits(c.bits.Load())
}
