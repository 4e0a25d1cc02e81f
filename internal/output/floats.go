package output

import (
	"math"
)

// RoundFloat rounds a float to max 6 decimal places.
func RoundFloat(f float64) float64 {
	const multiplier = 1e6
	return math.Round(f*multiplier) / multiplier
}
