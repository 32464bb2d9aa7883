package damage

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber prints whole numbers without decimals and everything else
// with at most two decimals, trailing zeros stripped: 6.5, 3.15, 100.
func FormatNumber(n float64) string {
	if r := math.Round(n); math.Abs(n-r) < 1e-9 {
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
	return stripZeros(fixed2(n))
}

// fixed2 formats n with two decimals, rounding an exact tie at the third
// decimal away from zero (1.125 -> 1.13) where strconv rounds it to even.
// Only multiples of 1/8 with an odd numerator are such ties in binary.
func fixed2(n float64) string {
	a := math.Abs(n)
	if t := a * 8; t == math.Trunc(t) && math.Mod(t, 2) == 1 {
		a = math.Ceil(a*100) / 100
		s := strconv.FormatFloat(a, 'f', 2, 64)
		if n < 0 {
			return "-" + s
		}
		return s
	}
	return strconv.FormatFloat(n, 'f', 2, 64)
}

// FormatKg formats a user-entered weight the same way as FormatNumber.
func FormatKg(kg float64) string {
	return FormatNumber(kg)
}

// FormatKgFixed formats a weight with exactly one decimal: 30.0.
func FormatKgFixed(kg float64) string {
	return strconv.FormatFloat(kg, 'f', 1, 64)
}

func stripZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
