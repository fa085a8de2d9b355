// Package tactics is the computer opponent. A Planner looks only at the
// session it is handed and never rolls dice, so the same session always
// gets the same orders.
package tactics

import (
	"math"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/combat"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// Planner decides moves and attacks for every unit it is asked about.
type Planner struct {
	// OpponentWeight scales the damage the enemy is expected to deal back
	// when scoring a hex.
	OpponentWeight float64
	// HotHeat is the heat above which running is penalised.
	HotHeat int
}

var _ combat.Decider = (*Planner)(nil)

// New returns a planner with the default weights.
func New() *Planner { return &Planner{OpponentWeight: 0.7, HotHeat: 8} }

// Target returns the closest enemy still standing, or nil. Ties go to the
// unit deployed first.
func Target(g *state.GameState, id string) *state.UnitState {
	me := g.Unit(id)
	if me == nil {
		return nil
	}
	var best *state.UnitState
	bestDist := math.MaxInt
	for _, u := range g.UnitsInOrder() {
		if u.Side == me.Side || u.Destroyed {
			continue
		}
		if d := hexgrid.Distance(me.Position, u.Position); d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

// ─── Movement ───────────────────────────────────────────────────────────────

type option struct {
	move  combat.Movement
	dest  hexgrid.Coord
	face  int
	score float64
}

// Move picks the legal move with the best position score. A prone unit
// always tries to stand.
func (p *Planner) Move(sess *session.Session, id string) combat.Movement {
	g := sess.State()
	me, op := g.Unit(id), Target(g, id)
	if me == nil || op == nil {
		return combat.Stationary(id)
	}
	if me.Prone {
		stand := combat.Movement{UnitID: id, Stand: true, Facing: hexgrid.Bearing(me.Position, op.Position)}
		if combat.CheckMovement(sess, stand) == nil {
			return stand
		}
		return combat.Stationary(id)
	}
	sp, _ := sess.Spec(id)
	opSpec, _ := sess.Spec(op.ID)

	best := option{move: combat.Stationary(id), dest: me.Position, face: me.Facing}
	best.score = p.score(me, sp, op, opSpec, best)
	for _, o := range candidates(me, op) {
		if combat.CheckMovement(sess, o.move) != nil {
			continue
		}
		// strictly better only, so earlier candidates win ties
		if o.score = p.score(me, sp, op, opSpec, o); o.score > best.score {
			best = o
		}
	}
	best.move.TorsoTwist = BestTorsoTwist(best.dest, best.face, op.Position)
	return best.move
}

// candidates walks and runs straight at the target, one option per hex
// count, each ending faced toward it.
func candidates(me, op *state.UnitState) []option {
	var out []option
	for _, mode := range []event.MoveMode{event.MoveWalk, event.MoveRun} {
		limit := combat.EffectiveWalkMP(me)
		if mode == event.MoveRun {
			limit = combat.EffectiveRunMP(me)
		}
		var path []hexgrid.Coord
		cur := me.Position
		for n := 0; n <= limit; n++ {
			face := hexgrid.Bearing(cur, op.Position)
			out = append(out, option{
				move: combat.Movement{UnitID: me.ID, Mode: mode, Path: append([]hexgrid.Coord(nil), path...), Facing: face},
				dest: cur,
				face: face,
			})
			next := hexgrid.Toward(cur, op.Position)
			if next == op.Position {
				break
			}
			path = append(path, next)
			cur = next
		}
	}
	return out
}

// score values a finishing hex: damage we deal there, less a share of the
// damage taken back, plus the defence our own movement buys.
func (p *Planner) score(me *state.UnitState, sp unit.Spec, op *state.UnitState, opSpec unit.Spec, o option) float64 {
	dist := hexgrid.Distance(o.dest, op.Position)
	hexes := len(o.move.Path)

	twist := BestTorsoTwist(o.dest, o.face, op.Position)
	fireArc := hexgrid.ArcOf(o.dest, hexgrid.Facing(o.face+twist), op.Position)
	mine := ExpectedDamage(me, sp, fireArc, dist, me.Gunnery+combat.AttackerMovementModifier(o.move.Mode)+
		combat.TargetMovementModifier(op.Movement.Hexes, op.Movement.Mode == event.MoveJump))

	backArc := hexgrid.ArcOf(op.Position, hexgrid.Facing(op.Facing+op.TorsoTwist), o.dest)
	theirs := ExpectedDamage(op, opSpec, backArc, dist, op.Gunnery+combat.TargetMovementModifier(hexes, false))

	if mine == 0 {
		return -float64(dist)
	}
	s := mine - theirs*p.OpponentWeight + float64(combat.TargetMovementModifier(hexes, false))*2.5
	if hexgrid.ArcOf(o.dest, o.face, op.Position) == hexgrid.ArcRear {
		s -= theirs * 0.6
	}
	if me.Heat > p.HotHeat && o.move.Mode == event.MoveRun {
		s -= 3
	}
	return s
}

// BestTorsoTwist returns the twist, -1, 0 or +1, that brings target into
// the front arc, or failing that keeps it out of the rear.
func BestTorsoTwist(pos hexgrid.Coord, facing int, target hexgrid.Coord) int {
	if hexgrid.ArcOf(pos, facing, target) == hexgrid.ArcFront {
		return 0
	}
	left := hexgrid.ArcOf(pos, hexgrid.Facing(facing-1), target)
	if left == hexgrid.ArcFront {
		return -1
	}
	right := hexgrid.ArcOf(pos, hexgrid.Facing(facing+1), target)
	if right == hexgrid.ArcFront {
		return 1
	}
	if left != hexgrid.ArcRear {
		return -1
	}
	if right != hexgrid.ArcRear {
		return 1
	}
	return 0
}

// ─── Expected damage ────────────────────────────────────────────────────────

// WeaponDamage is the average damage of one shot that hits.
func WeaponDamage(w unit.Weapon) float64 {
	if w.RackSize > 1 {
		return combat.ClusterAverage(w.RackSize) * float64(w.Damage)
	}
	return float64(w.Damage)
}

// ExpectedDamage estimates one volley of every usable weapon into arc at
// dist, where base is the target number before range and weapon modifiers.
func ExpectedDamage(u *state.UnitState, sp unit.Spec, arc hexgrid.Arc, dist int, base int) float64 {
	if dist == 0 {
		return 0
	}
	base += combat.HeatToHitModifier(u.Heat)
	total := 0.0
	for _, w := range sp.Weapons {
		if w.Category == unit.Melee || u.WeaponDestroyed(w.ID) {
			continue
		}
		if w.UsesAmmo() && u.NextBin(w.AmmoType) < 0 {
			continue
		}
		if !combat.WeaponArcs(w.Location, w.Rear, u.Layout(), arc) {
			continue
		}
		b := combat.RangeOf(w, dist)
		if b == combat.RangeOut {
			continue
		}
		tn := base + combat.RangeModifier(b) + combat.MinimumRangeModifier(w.MinRange, dist) + w.ToHitModifier
		total += combat.HitProbability(tn) * WeaponDamage(w)
	}
	return total
}

// ─── Physical attacks ───────────────────────────────────────────────────────

// Physical kicks or punches an adjacent enemy, whichever is worth more.
func (p *Planner) Physical(sess *session.Session, id string) []combat.PhysicalAttack {
	g := sess.State()
	me, op := g.Unit(id), Target(g, id)
	if me == nil || op == nil || !hexgrid.Adjacent(me.Position, op.Position) {
		return nil
	}
	ev := func(a combat.PhysicalAttack) float64 {
		th, err := combat.CheckPhysicalAttack(sess, a)
		if err != nil {
			return 0
		}
		return combat.HitProbability(th.Target) * float64(combat.PhysicalDamage(a.Type, me.Tonnage, 0))
	}

	var kick combat.PhysicalAttack
	kickEV := 0.0
	for _, leg := range []unit.Location{unit.RightLeg, unit.LeftLeg} {
		a := combat.PhysicalAttack{AttackerID: id, TargetID: op.ID, Type: event.Kick, Limb: leg}
		if v := ev(a); v > kickEV {
			kick, kickEV = a, v
		}
	}
	var punches []combat.PhysicalAttack
	punchEV := 0.0
	for _, arm := range []unit.Location{unit.LeftArm, unit.RightArm} {
		a := combat.PhysicalAttack{AttackerID: id, TargetID: op.ID, Type: event.Punch, Limb: arm}
		if v := ev(a); v > 0 {
			punches = append(punches, a)
			punchEV += v
		}
	}
	switch {
	case kickEV == 0 && punchEV == 0:
		return nil
	case kickEV >= punchEV:
		return []combat.PhysicalAttack{kick}
	}
	return punches
}
