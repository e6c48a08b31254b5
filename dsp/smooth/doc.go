// Package smooth provides per-sample parameter smoothing for real-time
// control values.
//
// A [Value] converges exponentially from its current value toward a target,
// advancing exactly once per [Value.Tick]. Callers tick once per processed
// sample so that the smoothing time stays tied to elapsed audio time.
package smooth
