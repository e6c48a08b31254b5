//go:build fastmath

package smooth

import "github.com/meko-christian/algo-approx"

// mathExp uses the fast approximation; the coefficient is derived once per
// Reset so the approximation error only shifts the effective time constant.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}
