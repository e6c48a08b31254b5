package spatial

import "math"

// PanLaw maps a pan position in [-1, 1] to left/right gains.
type PanLaw int

const (
	// PanLinear gives L = 1 - p/2, R = 1 + p/2; unity on both sides at center.
	PanLinear PanLaw = iota
	// PanEqualPower gives L = cos θ, R = sin θ with θ = (p+1)π/4, so that
	// L² + R² = 1 for every position.
	PanEqualPower
)

func (l PanLaw) String() string {
	switch l {
	case PanLinear:
		return "linear"
	case PanEqualPower:
		return "equal-power"
	default:
		return "unknown"
	}
}

// PanGains returns left and right gains for pan (clamped to [-1, 1]).
func PanGains(pan float64, law PanLaw) (left, right float64) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	} else if math.IsNaN(pan) {
		pan = 0
	}

	if law == PanEqualPower {
		theta := (pan + 1) * math.Pi / 4
		return math.Cos(theta), math.Sin(theta)
	}
	return 1 - 0.5*pan, 1 + 0.5*pan
}
