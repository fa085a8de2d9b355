package combat

import (
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── Hit location tables ────────────────────────────────────────────────────
// 2d6 tables are indexed by roll-2. Quads use the same tables with the arm
// locations standing for the front legs.

var (
	frontHitTable = [11]unit.Location{
		unit.CenterTorso, unit.RightArm, unit.RightArm, unit.RightLeg, unit.RightTorso, unit.CenterTorso,
		unit.LeftTorso, unit.LeftLeg, unit.LeftArm, unit.LeftArm, unit.Head,
	}
	leftHitTable = [11]unit.Location{
		unit.LeftTorso, unit.LeftLeg, unit.LeftArm, unit.LeftArm, unit.LeftLeg, unit.LeftTorso,
		unit.CenterTorso, unit.RightTorso, unit.RightArm, unit.RightLeg, unit.Head,
	}
	rightHitTable = [11]unit.Location{
		unit.RightTorso, unit.RightLeg, unit.RightArm, unit.RightArm, unit.RightLeg, unit.RightTorso,
		unit.CenterTorso, unit.LeftTorso, unit.LeftArm, unit.LeftLeg, unit.Head,
	}
)

// d6 tables, indexed by roll-1.
var (
	punchFront = [6]unit.Location{unit.LeftArm, unit.LeftTorso, unit.CenterTorso, unit.RightTorso, unit.RightArm, unit.Head}
	punchLeft  = [6]unit.Location{unit.LeftTorso, unit.LeftTorso, unit.CenterTorso, unit.LeftArm, unit.LeftArm, unit.Head}
	punchRight = [6]unit.Location{unit.RightTorso, unit.RightTorso, unit.CenterTorso, unit.RightArm, unit.RightArm, unit.Head}
	kickFront  = [6]unit.Location{unit.RightLeg, unit.RightLeg, unit.RightLeg, unit.LeftLeg, unit.LeftLeg, unit.LeftLeg}
)

// HitTable selects which table a hit rolls on.
type HitTable int

const (
	TableWeapon HitTable = iota
	TablePunch
	TableKick
)

// HitResult is where a hit landed.
type HitResult struct {
	Location unit.Location
	// Rear is set for rear-arc hits on a torso location.
	Rear bool
	Roll int
	// ThroughArmor marks a weapon-table roll of 2.
	ThroughArmor bool
	// CriticalCandidate marks weapon-table rolls of 2 and 12.
	CriticalCandidate bool
}

// HitLocation maps a roll on table for a hit from arc. Weapon tables take a
// 2d6 total, punch and kick tables a single die.
func HitLocation(roll int, arc hexgrid.Arc, table HitTable) HitResult {
	var loc unit.Location
	switch table {
	case TablePunch:
		i := clampIndex(roll-1, 6)
		switch arc {
		case hexgrid.ArcLeft:
			loc = punchLeft[i]
		case hexgrid.ArcRight:
			loc = punchRight[i]
		default:
			loc = punchFront[i]
		}
	case TableKick:
		switch arc {
		case hexgrid.ArcLeft:
			loc = unit.LeftLeg
		case hexgrid.ArcRight:
			loc = unit.RightLeg
		default:
			loc = kickFront[clampIndex(roll-1, 6)]
		}
	default:
		i := clampIndex(roll-2, 11)
		switch arc {
		case hexgrid.ArcLeft:
			loc = leftHitTable[i]
		case hexgrid.ArcRight:
			loc = rightHitTable[i]
		default:
			loc = frontHitTable[i]
		}
	}
	res := HitResult{Location: loc, Roll: roll, Rear: arc == hexgrid.ArcRear && loc.HasRear()}
	if table == TableWeapon {
		res.ThroughArmor = roll == 2
		res.CriticalCandidate = roll == 2 || roll == 12
	}
	return res
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// rollHit rolls the dice a table needs and looks the result up.
func (rs *resolver) rollHit(arc hexgrid.Arc, table HitTable) HitResult {
	if table == TableWeapon {
		return HitLocation(rs.roll2d6().Total, arc, table)
	}
	return HitLocation(rs.r.D6(), arc, table)
}

// ─── Firing arcs ────────────────────────────────────────────────────────────

// AttackArc is the side of the target the attack comes from. A twisted
// torso widens the front arc by the side hexside it turned toward; the
// other arcs stay with the legs.
func AttackArc(target, attacker hexgrid.Coord, facing, twist int) hexgrid.Arc {
	diff := hexgrid.Facing(hexgrid.Bearing(target, attacker) - facing)
	if twist != 0 && diff == hexgrid.Facing(2*twist) {
		return hexgrid.ArcFront
	}
	return hexgrid.ArcFromOffset(diff)
}

// WeaponArcs reports whether a weapon mounted at loc can fire into arc, the
// arc of the target relative to the shooter's torso.
func WeaponArcs(loc unit.Location, rear bool, cfg unit.Config, arc hexgrid.Arc) bool {
	if rear {
		return arc == hexgrid.ArcRear
	}
	switch {
	case cfg.IsArm(loc) && loc == unit.LeftArm:
		return arc == hexgrid.ArcFront || arc == hexgrid.ArcLeft
	case cfg.IsArm(loc) && loc == unit.RightArm:
		return arc == hexgrid.ArcFront || arc == hexgrid.ArcRight
	}
	return arc == hexgrid.ArcFront
}
