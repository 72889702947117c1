// Package rating holds score arithmetic shared by the review lifecycle and
// the stats queries.
package rating

import "math"

// Average returns the arithmetic mean of scores rounded to 2 decimal places,
// or 0 for an empty slice. Rounding is half away from zero (math.Round).
func Average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return math.Round(sum/float64(len(scores))*100) / 100
}
