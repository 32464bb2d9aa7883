// Package damage computes plant damage, either with the closed-form formula
// or from tabulated per-variant damage tables.
package damage

import "math"

// Weight and level bounds.
const (
	MaxDamageKg = 30.0 // heavier plants deal damage as if they weighed this much
	MinTableKg  = 1.0
	MinLevel    = 1
	MaxLevel    = 10
	Levels      = MaxLevel - MinLevel + 1
)

// RoundKg rounds a weight to one decimal, halves rounding up.
func RoundKg(kg float64) float64 {
	return math.Floor(kg*10+0.5) / 10
}

// ClampKgForDamage rounds kg and caps it at MaxDamageKg.
func ClampKgForDamage(kg float64) float64 {
	return min(RoundKg(kg), MaxDamageKg)
}

// IsCapped reports whether kg exceeds the damage cap after rounding.
func IsCapped(kg float64) bool {
	return RoundKg(kg) > MaxDamageKg
}

// ClampLevel truncates lvl toward zero and clamps it to [MinLevel, MaxLevel].
func ClampLevel(lvl float64) int {
	if math.IsNaN(lvl) {
		return MinLevel
	}
	n := math.Trunc(lvl)
	if n < MinLevel {
		return MinLevel
	}
	if n > MaxLevel {
		return MaxLevel
	}
	return int(n)
}

// LevelFactor returns (lvl+1)/2: level 1 deals 1x, level 10 deals 5.5x.
func LevelFactor(lvl int) float64 {
	return float64(lvl+1) / 2
}

// Compute returns base × clampedKg × mult × LevelFactor(level).
// kg is rounded and capped, level is clamped.
func Compute(base, kg, mult float64, level int) float64 {
	lvl := ClampLevel(float64(level))
	return base * ClampKgForDamage(kg) * mult * LevelFactor(lvl)
}

// DPS returns damage per second for a positive cooldown.
func DPS(dmg, cd float64) (float64, bool) {
	if cd <= 0 || math.IsNaN(cd) {
		return 0, false
	}
	return dmg / cd, true
}
