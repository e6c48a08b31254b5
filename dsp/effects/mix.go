package effects

// MixLaw selects how a wet signal is blended with the dry input.
type MixLaw int

const (
	// MixAdditive keeps the dry signal at unity and adds wet on top:
	// out = dry + wet*amount.
	MixAdditive MixLaw = iota
	// MixCrossfade fades between dry and wet: out = dry*(1-amount) + wet*amount.
	MixCrossfade
)

// Mix blends dry and wet with the given wet amount.
func (m MixLaw) Mix(dry, wet, amount float64) float64 {
	if m == MixCrossfade {
		return dry*(1-amount) + wet*amount
	}
	return dry + wet*amount
}

func (m MixLaw) String() string {
	switch m {
	case MixAdditive:
		return "additive"
	case MixCrossfade:
		return "crossfade"
	default:
		return "unknown"
	}
}

// ReverbDryLaw derives the reverb dry gain from its wet gain.
type ReverbDryLaw int

const (
	// ReverbDryConstant keeps dry at 1 regardless of wet.
	ReverbDryConstant ReverbDryLaw = iota
	// ReverbDryComplementary sets dry to 1 - wet.
	ReverbDryComplementary
)

// Dry returns the dry gain for the given wet gain.
func (l ReverbDryLaw) Dry(wet float64) float64 {
	if l == ReverbDryComplementary {
		return 1 - wet
	}
	return 1
}

func (l ReverbDryLaw) String() string {
	switch l {
	case ReverbDryConstant:
		return "constant"
	case ReverbDryComplementary:
		return "complementary"
	default:
		return "unknown"
	}
}
