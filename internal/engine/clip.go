package engine

import (
	"math"

	"github.com/overcut/podium/internal/feature"
)

// clip bounds v to [lo, hi]. A NaN from a misbehaving model collapses to lo
// rather than poisoning the batch.
func clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clipProbability bounds a classifier output to a valid probability.
func clipProbability(v float64) float64 {
	return clip(v, 0, 1)
}

// clipPosition bounds a predicted finishing position to the entered field.
func clipPosition(v float64, field int) float64 {
	return clip(v, 1, float64(field))
}

// clipPoints bounds predicted points to what a single race can pay.
func clipPoints(v float64) float64 {
	return clip(v, 0, feature.MaxRacePoints)
}
