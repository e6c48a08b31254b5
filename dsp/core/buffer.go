package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Widen converts float32 host samples into dst and returns the number of
// converted elements (the shorter of both lengths). Non-finite samples are
// read as 0.
func Widen(dst []float64, src []float32) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		x := float64(src[i])
		if !IsFinite(x) {
			x = 0
		}
		dst[i] = x
	}
	return n
}

// Narrow converts src back to float32 host samples. Non-finite values are
// written as 0 and denormal-range values are flushed, so dst never receives
// NaN or Inf. It returns the number of converted elements.
func Narrow(dst []float32, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		x := src[i]
		if !IsFinite(x) {
			x = 0
		}
		dst[i] = float32(FlushDenormals(x))
	}
	return n
}
