package fusion

import (
	"math"

	"github.com/udisondev/plantcalc/internal/damage"
)

// wholeEpsilon is the tolerance for treating an average weight as a whole number.
const wholeEpsilon = 1e-9

// FuseWeight returns the weight of the fused plant.
// avg = (a+b)/2 is rounded up; an exactly whole avg gets an extra +1.
func FuseWeight(a, b float64) float64 {
	avg := (a + b) / 2
	c := math.Ceil(avg)
	if isWhole(avg) {
		c++
	}
	return damage.RoundKg(c)
}

func isWhole(x float64) bool {
	return math.Abs(x-math.Round(x)) < wholeEpsilon
}
