package impact

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-impact/dsp/effects"
	"github.com/cwbudde/algo-impact/dsp/effects/spatial"
)

// Variant selects a curve set and mix laws.
type Variant int

const (
	// VariantGlide keeps reverb dry at unity, adds delay echoes on top of
	// the input, pans with the linear law and filters with a 2-pole
	// high-pass. No makeup gain.
	VariantGlide Variant = iota
	// VariantBalanced uses complementary reverb dry, crossfaded delay,
	// equal-power panning and a 1-pole high-pass, and adds up to +3 dB of
	// makeup gain above 0.6 normalized impact.
	VariantBalanced
)

// DefaultVariant is used by [New] and [DeriveStageParameters].
const DefaultVariant = VariantGlide

var variantNames = map[Variant]string{
	VariantGlide:    "glide",
	VariantBalanced: "balanced",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant returns the variant for a case-insensitive name.
func ParseVariant(name string) (Variant, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for v, n := range variantNames {
		if n == key {
			return v, nil
		}
	}
	return 0, fmt.Errorf("impact: unknown variant %q", name)
}

// Curves returns the curve set of v. Unknown variants fall back to
// [DefaultVariant].
func (v Variant) Curves() Curves {
	c := Curves{
		MinCutoffHz:      20,
		MaxCutoffHz:      1500,
		FilterOrder:      2,
		MinTransientGain: 0.5,
		MaxBitDepth:      effects.TransparentBitDepth,
		MinBitDepth:      6,
		PanDepthMax:      0.8,
		PanLaw:           spatial.PanLinear,
		ReverbWetMax:     0.5,
		ReverbDry:        effects.ReverbDryConstant,
		DelayWetMax:      0.4,
		DelayFeedbackMax: 0.75,
		DelayMix:         effects.MixAdditive,
	}
	if v == VariantBalanced {
		c.FilterOrder = 1
		c.PanLaw = spatial.PanEqualPower
		c.ReverbDry = effects.ReverbDryComplementary
		c.DelayMix = effects.MixCrossfade
		c.MakeupThreshold = 0.6
		c.MakeupMaxDB = 3
	}
	return c
}
