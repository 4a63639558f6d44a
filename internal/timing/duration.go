// Package timing provides per-token durations and a drift-corrected
// repeating scheduler.
package timing

import "time"

// Duration returns how long a token should stay on screen at the given
// speed: 60000/wpm ms scaled by (1 + multiplier). It performs no
// clamping; callers must keep wpm > 0 (the engine clamps to the model
// speed bounds before calling).
func Duration(wpm int, multiplier float64) time.Duration {
	ms := 60000.0 / float64(wpm) * (1 + multiplier)
	return time.Duration(ms * float64(time.Millisecond))
}
