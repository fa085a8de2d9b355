// Package bvcalc computes the Battle Value (BV 2.0) of a unit spec, the
// point cost used to balance the two sides of a duel.
package bvcalc

import (
	"math"
	"sort"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// Result holds the calculated BV breakdown
type Result struct {
	FinalBV int
	// PilotBV is FinalBV adjusted for the crew's gunnery and piloting.
	PilotBV int

	DefensiveBR  float64
	OffensiveBR  float64
	ArmorBV      float64
	StructureBV  float64
	GyroBV       float64
	ExplosivePen float64
	DefFactor    float64
	WeaponBV     float64
	AmmoBV       float64
	SpeedFactor  float64
	HeatEff      int

	// Unrated lists weapons with no BV entry; they count as zero.
	Unrated []string
}

// weaponBVTable maps normalized weapon names to BV
var weaponBVTable = map[string]int{
	"small laser":        9,
	"medium laser":       46,
	"large laser":        123,
	"er large laser":     163,
	"ppc":                176,
	"er ppc":             229,
	"small pulse laser":  12,
	"medium pulse laser": 48,
	"large pulse laser":  119,
	"machine gun":        5,
	"ac/2":               37,
	"ac/5":               70,
	"ac/10":              123,
	"ac/20":              178,
	"gauss rifle":        320,
	"lrm 5":              45,
	"lrm 10":             90,
	"lrm 15":             136,
	"lrm 20":             181,
	"srm 2":              21,
	"srm 4":              39,
	"srm 6":              59,
}

func weaponBV(w unit.Weapon, tonnage int) (float64, bool) {
	switch unit.NormalizeName(w.Name) {
	case "hatchet":
		return float64(tonnage/5) * 1.5, true
	case "sword":
		return float64(tonnage/10+1) * 1.725, true
	}
	bv, ok := weaponBVTable[unit.NormalizeName(w.Name)]
	return float64(bv), ok
}

// penaltyApplies reports whether explosive equipment in loc costs BV. CASE
// II protects any location; CASE protects side torsos and arms.
func penaltyApplies(loc unit.Location, guard unit.Containment) bool {
	if guard == unit.ContainmentCASEII {
		return false
	}
	switch loc {
	case unit.CenterTorso, unit.Head, unit.LeftLeg, unit.RightLeg:
		return true
	}
	return guard == unit.ContainmentNone
}

// Calculate computes BV2 for s, which must pass Validate.
func Calculate(s unit.Spec) (Result, error) {
	m, err := unit.BuildManifest(s)
	if err != nil {
		return Result{}, err
	}
	var r Result

	// ─── Defensive battle rating ───

	totalArmor := 0
	for _, loc := range unit.Locations {
		totalArmor += s.ArmorPoints[loc] + s.RearArmor[loc]
	}
	r.ArmorBV = float64(totalArmor) * 2.5 * ArmorModifier(s.Armor)

	totalIS := 0
	for _, n := range s.StructurePoints() {
		totalIS += n
	}
	r.StructureBV = float64(totalIS) * 1.5 * EngineModifier(s.Engine)
	r.GyroBV = float64(s.Tonnage) * GyroModifier(s.GyroType())

	slotsOf := func(loc unit.Location, component string) int {
		n := 0
		for _, sl := range s.Slots[loc] {
			if sl.Component == component {
				n++
			}
		}
		return n
	}
	for _, b := range s.Ammo {
		if b.Explosive && penaltyApplies(b.Location, m.Containment(b.Location)) {
			r.ExplosivePen += 15 * float64(slotsOf(b.Location, b.ID))
		}
	}
	for _, w := range s.Weapons {
		if w.ExplosionDamage > 0 && penaltyApplies(w.Location, m.Containment(w.Location)) {
			r.ExplosivePen += float64(slotsOf(w.Location, w.ID))
		}
	}

	defSubtotal := max(r.ArmorBV+r.StructureBV+r.GyroBV-r.ExplosivePen, 1)
	r.DefFactor = DefensiveFactor(max(TMM(s.RunMP()), TMM(s.JumpMP)))
	r.DefensiveBR = defSubtotal * r.DefFactor

	// ─── Offensive battle rating ───

	type modWeapon struct {
		modBV float64
		heat  int
	}
	var front, rear []modWeapon
	var frontBV, rearBV float64
	bvByAmmo := map[string]float64{}
	for _, w := range s.Weapons {
		bv, ok := weaponBV(w, s.Tonnage)
		if !ok {
			r.Unrated = append(r.Unrated, w.ID)
			continue
		}
		if w.UsesAmmo() {
			bvByAmmo[w.AmmoType] += bv
		}
		mw := modWeapon{modBV: bv, heat: w.Heat}
		if w.Rear {
			rearBV += bv
			rear = append(rear, mw)
		} else {
			frontBV += bv
			front = append(front, mw)
		}
	}

	// If rear BV > front BV, swap: rear counts as full, front at half
	if rearBV > frontBV {
		front, rear = rear, front
	}
	for i := range rear {
		rear[i].modBV *= 0.5
	}
	all := append(front, rear...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].modBV != all[j].modBV {
			return all[i].modBV > all[j].modBV
		}
		return all[i].heat < all[j].heat
	})

	r.HeatEff = 6 + s.Dissipation() - MovementHeat(s.JumpMP)
	heatUsed := 0
	exceeded := false
	for _, w := range all {
		if exceeded {
			r.WeaponBV += w.modBV * 0.5
			continue
		}
		// the weapon that crosses the line still counts in full
		heatUsed += w.heat
		exceeded = heatUsed > r.HeatEff
		r.WeaponBV += w.modBV
	}

	ammoByType := map[string]float64{}
	for _, b := range s.Ammo {
		ammoByType[b.AmmoType] += float64(AmmoBV(b.AmmoType))
	}
	for ammo, abv := range ammoByType {
		// ammo is worth no more than the weapons that fire it
		r.AmmoBV += min(abv, bvByAmmo[ammo])
	}

	r.SpeedFactor = SpeedFactor(s.RunMP(), s.JumpMP)
	r.OffensiveBR = (r.WeaponBV + r.AmmoBV + float64(s.Tonnage)) * r.SpeedFactor

	base := r.DefensiveBR + r.OffensiveBR
	r.FinalBV = int(math.Round(base))
	r.PilotBV = int(math.Round(base * SkillMultiplier(s.Pilot.Gunnery, s.Pilot.Piloting)))
	return r, nil
}
