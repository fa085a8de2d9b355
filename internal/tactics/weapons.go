package tactics

import (
	"cmp"
	"math"
	"slices"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/combat"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── EV-based weapon selection ──────────────────────────────────────────────

type shot struct {
	attack combat.WeaponAttack
	weapon unit.Weapon
	target int
	expDmg float64
	heat   int
}

// Fire picks the weapons worth their heat against the nearest enemy.
// Weapons are taken best damage-per-heat first; each heat-generating one is
// added only while its expected damage beats the marginal heat cost.
func (p *Planner) Fire(sess *session.Session, id string) []combat.WeaponAttack {
	g := sess.State()
	me, op := g.Unit(id), Target(g, id)
	if me == nil || op == nil {
		return nil
	}
	sp, _ := sess.Spec(id)

	var shots []shot
	for _, w := range sp.Weapons {
		a := combat.WeaponAttack{AttackerID: id, TargetID: op.ID, WeaponID: w.ID}
		th, err := combat.CheckWeaponAttack(sess, a)
		if err != nil {
			continue
		}
		ed := combat.HitProbability(th.Target) * WeaponDamage(w)
		if ed <= 0 {
			continue
		}
		shots = append(shots, shot{attack: a, weapon: w, target: th.Target, expDmg: ed, heat: w.Heat})
	}
	slices.SortStableFunc(shots, func(a, b shot) int {
		return cmp.Compare(ratio(b), ratio(a))
	})

	avgTurnDmg := 0.0
	for _, s := range shots {
		avgTurnDmg += s.expDmg
	}
	ammoDmg := AmmoAtRisk(me)
	heatNow := me.Heat + me.HeatThisTurn
	dissipation := me.Dissipation()
	nowMod := combat.HeatToHitModifier(me.Heat)

	var out []combat.WeaponAttack
	var chosen []shot
	weaponHeat := 0
	for _, s := range shots {
		if s.heat == 0 {
			out = append(out, s.attack)
			chosen = append(chosen, s)
			continue
		}
		oldHeat := max(0, heatNow+weaponHeat-dissipation)
		newHeat := max(0, heatNow+weaponHeat+s.heat-dissipation)
		marginal := HeatCost(newHeat, avgTurnDmg, ammoDmg, me.WalkMP) - HeatCost(oldHeat, avgTurnDmg, ammoDmg, me.WalkMP)

		// next turn's shots get worse if the heat crosses a to-hit step
		oldMod, newMod := combat.HeatToHitModifier(oldHeat), combat.HeatToHitModifier(newHeat)
		penalty := 0.0
		if newMod > oldMod {
			for _, c := range chosen {
				penalty += shotDamage(c, oldMod-nowMod) - shotDamage(c, newMod-nowMod)
			}
		}
		if shotDamage(s, newMod-nowMod)-marginal-penalty > 0 {
			out = append(out, s.attack)
			chosen = append(chosen, s)
			weaponHeat += s.heat
		}
	}
	return out
}

func ratio(s shot) float64 { return s.expDmg / math.Max(float64(s.heat), 0.1) }

func shotDamage(s shot, extra int) float64 {
	return combat.HitProbability(s.target+extra) * WeaponDamage(s.weapon)
}

// ShutdownChance is the chance of shutting down at heat.
func ShutdownChance(heat int) float64 {
	tn, auto := combat.ShutdownTarget(heat)
	switch {
	case auto:
		return 1
	case tn == 0:
		return 0
	}
	return 1 - combat.HitProbability(tn)
}

// AmmoExplosionChance is the chance a heat check at heat cooks off ammo.
func AmmoExplosionChance(heat int) float64 {
	tn := combat.AmmoExplosionTarget(heat)
	if tn == 0 {
		return 0
	}
	return 1 - combat.HitProbability(tn)
}

// AmmoAtRisk is the damage every unprotected explosive bin would do.
func AmmoAtRisk(u *state.UnitState) float64 {
	total := 0
	for _, b := range u.Ammo {
		if b.Explosive && b.Containment == unit.ContainmentNone && !u.Lost[b.Location] {
			total += b.Remaining * b.DamagePerRound
		}
	}
	return float64(total)
}

// HeatCost is the expected damage given up by carrying heat into the next
// turn: a lost turn to shutdown, an ammo explosion, and the defence lost
// with slower movement.
func HeatCost(heat int, avgTurnDmg, ammoDmg float64, walkMP int) float64 {
	cost := ShutdownChance(heat)*avgTurnDmg*1.5 + AmmoExplosionChance(heat)*ammoDmg
	if loss := combat.HeatMPReduction(heat); loss > 0 && walkMP > 0 {
		reduced := max(0, walkMP-loss)
		tmmLoss := combat.TargetMovementModifier(runMP(walkMP), false) - combat.TargetMovementModifier(runMP(reduced), false)
		if tmmLoss > 0 {
			cost += float64(tmmLoss) * 0.15 * avgTurnDmg
		}
	}
	return cost
}

func runMP(walk int) int { return int(math.Ceil(float64(walk) * 1.5)) }
