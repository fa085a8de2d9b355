package combat

import (
	"strings"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// AttackContext is what the modifier sources look at.
type AttackContext struct {
	Attacker     *state.UnitState
	AttackerSpec unit.Spec
	Target       *state.UnitState
	Weapon       unit.Weapon
	Distance     int
}

// ModifierSource contributes zero or more named modifiers to a weapon
// attack's target number.
type ModifierSource interface {
	Modifiers(ac AttackContext) []event.Modifier
}

// ModifierFunc adapts a function to ModifierSource.
type ModifierFunc func(ac AttackContext) []event.Modifier

func (f ModifierFunc) Modifiers(ac AttackContext) []event.Modifier { return f(ac) }

// ToHit is a target number and its breakdown. Target is the base skill
// plus every modifier.
type ToHit struct {
	Target    int              `json:"target"`
	Modifiers []event.Modifier `json:"modifiers"`
}

// WeaponSources are the modifier sources of a weapon attack, in the
// order they appear in the breakdown.
var WeaponSources = []ModifierSource{
	ModifierFunc(attackerMovement),
	ModifierFunc(targetMovement),
	ModifierFunc(rangeBracket),
	ModifierFunc(minimumRange),
	ModifierFunc(weaponQuality),
	ModifierFunc(heatPenalty),
	ModifierFunc(sensorDamage),
	ModifierFunc(armActuators),
	ModifierFunc(proneModifiers),
	ModifierFunc(immobileTarget),
	ModifierFunc(pilotAbilities),
	ModifierFunc(unitQuirks),
}

// ComputeToHit starts from the attacker's gunnery and adds every source.
func ComputeToHit(ac AttackContext, sources ...ModifierSource) ToHit {
	if len(sources) == 0 {
		sources = WeaponSources
	}
	th := ToHit{Target: ac.Attacker.Gunnery}
	th.Modifiers = append(th.Modifiers, event.Modifier{Name: "gunnery", Value: ac.Attacker.Gunnery})
	for _, src := range sources {
		for _, m := range src.Modifiers(ac) {
			if m.Value == 0 {
				continue
			}
			th.Modifiers = append(th.Modifiers, m)
			th.Target += m.Value
		}
	}
	return th
}

func mod(name string, v int) []event.Modifier {
	if v == 0 {
		return nil
	}
	return []event.Modifier{{Name: name, Value: v}}
}

// ─── Movement ───────────────────────────────────────────────────────────────

// AttackerMovementModifier is the penalty for how the attacker moved.
func AttackerMovementModifier(mode event.MoveMode) int {
	switch mode {
	case event.MoveWalk:
		return 1
	case event.MoveRun:
		return 2
	case event.MoveJump:
		return 3
	}
	return 0
}

// TargetMovementModifier converts hexes moved this turn into a modifier.
func TargetMovementModifier(hexes int, jumped bool) int {
	var m int
	switch {
	case hexes <= 2:
		m = 0
	case hexes <= 4:
		m = 1
	case hexes <= 6:
		m = 2
	case hexes <= 9:
		m = 3
	case hexes <= 17:
		m = 4
	case hexes <= 24:
		m = 5
	default:
		m = 6
	}
	if jumped {
		m++
	}
	return m
}

func attackerMovement(ac AttackContext) []event.Modifier {
	return mod("attacker movement", AttackerMovementModifier(ac.Attacker.Movement.Mode))
}

func targetMovement(ac AttackContext) []event.Modifier {
	mv := ac.Target.Movement
	return mod("target movement", TargetMovementModifier(mv.Hexes, mv.Mode == event.MoveJump))
}

// ─── Range ──────────────────────────────────────────────────────────────────

// Bracket is a weapon range band.
type Bracket string

const (
	RangeShort  Bracket = "short"
	RangeMedium Bracket = "medium"
	RangeLong   Bracket = "long"
	RangeOut    Bracket = "out"
)

// RangeOf returns the band dist falls in for w.
func RangeOf(w unit.Weapon, dist int) Bracket {
	switch {
	case w.Long == 0 || dist > w.Long:
		return RangeOut
	case dist <= w.Short:
		return RangeShort
	case dist <= w.Medium:
		return RangeMedium
	}
	return RangeLong
}

// RangeModifier is 0, +2 or +4 by band.
func RangeModifier(b Bracket) int {
	switch b {
	case RangeMedium:
		return 2
	case RangeLong:
		return 4
	}
	return 0
}

func rangeBracket(ac AttackContext) []event.Modifier {
	b := RangeOf(ac.Weapon, ac.Distance)
	return mod(string(b)+" range", RangeModifier(b))
}

// MinimumRangeModifier is +1 at the minimum range and one more for each hex
// closer.
func MinimumRangeModifier(minRange, dist int) int {
	if minRange <= 0 || dist > minRange {
		return 0
	}
	return minRange - dist + 1
}

func minimumRange(ac AttackContext) []event.Modifier {
	return mod("minimum range", MinimumRangeModifier(ac.Weapon.MinRange, ac.Distance))
}

func weaponQuality(ac AttackContext) []event.Modifier {
	return mod("weapon", ac.Weapon.ToHitModifier)
}

// ─── Attacker condition ─────────────────────────────────────────────────────

func heatPenalty(ac AttackContext) []event.Modifier {
	return mod("heat", HeatToHitModifier(ac.Attacker.Heat))
}

// maxSensorPenalty caps sensor damage.
const maxSensorPenalty = 2

func sensorDamage(ac AttackContext) []event.Modifier {
	return mod("sensor damage", min(ac.Attacker.Components.SensorHits, maxSensorPenalty))
}

func armActuators(ac AttackContext) []event.Modifier {
	loc := ac.Weapon.Location
	if !ac.Attacker.Layout().IsArm(loc) {
		return nil
	}
	if ac.Attacker.ActuatorHit(loc, unit.Shoulder) {
		return mod("shoulder actuator", 4)
	}
	var out []event.Modifier
	if ac.Attacker.ActuatorHit(loc, unit.UpperArm) {
		out = append(out, event.Modifier{Name: "upper arm actuator", Value: 1})
	}
	if ac.Attacker.ActuatorHit(loc, unit.LowerArm) {
		out = append(out, event.Modifier{Name: "lower arm actuator", Value: 1})
	}
	return out
}

func proneModifiers(ac AttackContext) []event.Modifier {
	var out []event.Modifier
	if ac.Attacker.Prone {
		out = append(out, event.Modifier{Name: "attacker prone", Value: 2})
	}
	if ac.Target.Prone {
		v := 1
		if hexgrid.Adjacent(ac.Attacker.Position, ac.Target.Position) {
			v = -2
		}
		out = append(out, event.Modifier{Name: "target prone", Value: v})
	}
	return out
}

// Immobile units are shut down or have no conscious pilot.
func Immobile(u *state.UnitState) bool {
	return u.Shutdown || u.Pilot.Unconscious || u.Pilot.Killed
}

func immobileTarget(ac AttackContext) []event.Modifier {
	if Immobile(ac.Target) {
		return mod("immobile target", -4)
	}
	return nil
}

// ─── Abilities and quirks ───────────────────────────────────────────────────

func pilotAbilities(ac AttackContext) []event.Modifier {
	var out []event.Modifier
	for _, a := range ac.AttackerSpec.Pilot.Abilities {
		name, arg, _ := strings.Cut(a, ":")
		switch name {
		case "weapon_specialist":
			if unit.NormalizeName(arg) == unit.NormalizeName(ac.Weapon.Name) {
				out = append(out, event.Modifier{Name: "weapon specialist", Value: -2})
			}
		case "sniper":
			// Halves range modifiers.
			if v := RangeModifier(RangeOf(ac.Weapon, ac.Distance)); v > 0 {
				out = append(out, event.Modifier{Name: "sniper", Value: -v / 2})
			}
		}
	}
	return out
}

func unitQuirks(ac AttackContext) []event.Modifier {
	b := RangeOf(ac.Weapon, ac.Distance)
	var out []event.Modifier
	for _, q := range ac.AttackerSpec.Quirks {
		switch q {
		case "improved_targeting_" + string(b):
			out = append(out, event.Modifier{Name: "improved targeting", Value: -1})
		case "poor_targeting_" + string(b):
			out = append(out, event.Modifier{Name: "poor targeting", Value: 1})
		}
	}
	return out
}

// ─── Probability ────────────────────────────────────────────────────────────

var pHitTable = [13]float64{
	0, 0, 1.0, 35.0 / 36, 33.0 / 36, 30.0 / 36, 26.0 / 36,
	21.0 / 36, 15.0 / 36, 10.0 / 36, 6.0 / 36, 3.0 / 36, 1.0 / 36,
}

// HitProbability is the chance 2d6 meets target.
func HitProbability(target int) float64 {
	if target <= 2 {
		return 1.0
	}
	if target >= 13 {
		return 0.0
	}
	return pHitTable[target]
}
