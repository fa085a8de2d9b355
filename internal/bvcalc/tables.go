package bvcalc

import (
	"math"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ArmorModifier scales armor points in the defensive rating.
func ArmorModifier(a unit.ArmorType) float64 {
	if a == unit.ArmorHardened {
		return 2.0
	}
	return 1.0
}

// EngineModifier scales structure points: engines that die to side torso
// loss make structure worth less.
func EngineModifier(e unit.EngineType) float64 {
	switch e {
	case unit.EngineXL:
		return 0.5
	case unit.EngineClanXL, unit.EngineLight:
		return 0.75
	default: // Standard, Compact
		return 1.0
	}
}

// GyroModifier returns the BV modifier for gyro type
func GyroModifier(g unit.GyroType) float64 {
	if g == unit.GyroHeavyDuty {
		return 1.0
	}
	return 0.5
}

// TMM calculates Target Movement Modifier from MP
func TMM(mp int) int {
	switch {
	case mp <= 2:
		return 0
	case mp <= 4:
		return 1
	case mp <= 6:
		return 2
	case mp <= 9:
		return 3
	case mp <= 12:
		return 4
	case mp <= 17:
		return 5
	case mp <= 24:
		return 6
	default:
		return 7
	}
}

// DefensiveFactor returns 1 + TMM/10
func DefensiveFactor(tmm int) float64 {
	return 1.0 + float64(tmm)/10.0
}

// SpeedFactor calculates the speed factor for the offensive rating. Jump
// MP adds half its value, rounded up, to running MP.
func SpeedFactor(runMP, jumpMP int) float64 {
	speedMP := runMP
	if jumpMP > 0 {
		speedMP += int(math.Ceil(float64(jumpMP) / 2.0))
	}
	base := 1.0 + float64(speedMP-5)/10.0
	if base < 0.1 {
		base = 0.1
	}
	sf := math.Pow(base, 1.2)
	return math.Round(sf*100) / 100
}

// MovementHeat returns the movement heat for BV calculation
func MovementHeat(jumpMP int) int {
	heat := 2
	if jumpMP > 0 {
		heat = max(heat, jumpMP, 3)
	}
	return heat
}

// skillMultipliers is indexed by gunnery, then piloting.
var skillMultipliers = [8][8]float64{
	{2.42, 2.31, 2.21, 2.10, 1.93, 1.75, 1.68, 1.59},
	{2.21, 2.11, 2.02, 1.92, 1.76, 1.60, 1.54, 1.46},
	{1.93, 1.85, 1.76, 1.68, 1.54, 1.40, 1.35, 1.28},
	{1.66, 1.58, 1.51, 1.44, 1.32, 1.20, 1.16, 1.10},
	{1.38, 1.32, 1.26, 1.20, 1.10, 1.00, 0.95, 0.90},
	{1.31, 1.19, 1.13, 1.08, 0.99, 0.90, 0.86, 0.81},
	{1.24, 1.12, 1.07, 1.02, 0.94, 0.85, 0.81, 0.77},
	{1.17, 1.06, 1.01, 0.96, 0.88, 0.80, 0.76, 0.72},
}

// SkillMultiplier scales a unit's BV for its crew. Skills past 7 use the
// 7 column.
func SkillMultiplier(gunnery, piloting int) float64 {
	return skillMultipliers[min(max(gunnery, 0), 7)][min(max(piloting, 0), 7)]
}
