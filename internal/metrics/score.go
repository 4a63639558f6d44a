package metrics

import "math"

// GlideScore blends speed, consistency and completion into a 0-100
// display metric. The consistency term guards against a zero average;
// the score never feeds back into playback behavior.
func GlideScore(avgWPM, bestSustained, completionOverall float64) int {
	speed := math.Min(100, avgWPM/600*100)
	consistency := 0.0
	if avgWPM > 0 {
		consistency = math.Min(100, bestSustained/avgWPM*100)
	}
	completion := completionOverall * 100
	return int(math.Round(0.4*speed + 0.3*consistency + 0.3*completion))
}
