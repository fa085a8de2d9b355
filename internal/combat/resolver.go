package combat

import (
	"fmt"
	"slices"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── Validation ─────────────────────────────────────────────────────────────

func checkPhase(g *state.GameState, action, unitID string, phases ...event.Phase) error {
	if g.Over {
		return reject(action, unitID, ErrGameOver, "")
	}
	if !slices.Contains(phases, g.Phase) {
		return reject(action, unitID, ErrWrongPhase, "phase is %s", g.Phase)
	}
	return nil
}

// checkActor returns the unit if it is able to act.
func checkActor(g *state.GameState, action, id string) (*state.UnitState, error) {
	u := g.Unit(id)
	switch {
	case u == nil:
		return nil, reject(action, id, ErrUnknownUnit, "")
	case u.Destroyed:
		return nil, reject(action, id, ErrUnitDestroyed, "")
	case u.Shutdown:
		return nil, reject(action, id, ErrUnitShutdown, "")
	case u.Pilot.Unconscious || u.Pilot.Killed:
		return nil, reject(action, id, ErrPilotDown, "")
	}
	return u, nil
}

func checkTarget(g *state.GameState, action string, attacker *state.UnitState, targetID string) (*state.UnitState, error) {
	t := g.Unit(targetID)
	switch {
	case t == nil:
		return nil, reject(action, attacker.ID, ErrUnknownUnit, "target %s", targetID)
	case t.ID == attacker.ID:
		return nil, reject(action, attacker.ID, ErrInvalidTarget, "cannot target itself")
	case t.Side == attacker.Side:
		return nil, reject(action, attacker.ID, ErrInvalidTarget, "%s is on the same side", targetID)
	case t.Destroyed:
		return nil, reject(action, attacker.ID, ErrInvalidTarget, "%s is destroyed", targetID)
	}
	return t, nil
}

// ─── Weapon attacks ─────────────────────────────────────────────────────────

type WeaponAttack struct {
	AttackerID string `json:"attackerId"`
	TargetID   string `json:"targetId"`
	WeaponID   string `json:"weaponId"`
}

// AttackID names an attack within a game. A weapon fires at most once per
// turn, so it is unique.
func AttackID(attackerID, what string, turn int) string {
	return fmt.Sprintf("%s/%s/t%d", attackerID, what, turn)
}

type weaponPlan struct {
	attacker, target *state.UnitState
	weapon           unit.Weapon
	dist             int
	arc              hexgrid.Arc
	toHit            ToHit
}

func planWeaponAttack(sess *session.Session, a WeaponAttack) (weaponPlan, error) {
	const action = "weapon attack"
	g := sess.State()
	if err := checkPhase(g, action, a.AttackerID, event.PhaseWeaponAttack); err != nil {
		return weaponPlan{}, err
	}
	att, err := checkActor(g, action, a.AttackerID)
	if err != nil {
		return weaponPlan{}, err
	}
	sp, ok := sess.Spec(att.ID)
	if !ok {
		return weaponPlan{}, integrityf(att.ID, "no unit data")
	}
	w, ok := sp.Weapon(a.WeaponID)
	switch {
	case !ok:
		return weaponPlan{}, reject(action, att.ID, ErrUnknownWeapon, "%s", a.WeaponID)
	case w.Category == unit.Melee:
		return weaponPlan{}, reject(action, att.ID, ErrIneligible, "%s is a physical weapon", w.ID)
	case att.WeaponDestroyed(w.ID):
		return weaponPlan{}, reject(action, att.ID, ErrWeaponDestroyed, "%s", w.ID)
	case att.WeaponsFired[w.ID]:
		return weaponPlan{}, reject(action, att.ID, ErrAlreadyFired, "%s", w.ID)
	case w.UsesAmmo() && att.NextBin(w.AmmoType) < 0:
		return weaponPlan{}, reject(action, att.ID, ErrOutOfAmmo, "%s", w.ID)
	}
	tgt, err := checkTarget(g, action, att, a.TargetID)
	if err != nil {
		return weaponPlan{}, err
	}

	dist := hexgrid.Distance(att.Position, tgt.Position)
	if RangeOf(w, dist) == RangeOut {
		return weaponPlan{}, reject(action, att.ID, ErrOutOfRange, "%s reaches %d, target at %d", w.ID, w.Long, dist)
	}
	fireArc := hexgrid.ArcOf(att.Position, hexgrid.Facing(att.Facing+att.TorsoTwist), tgt.Position)
	if !WeaponArcs(w.Location, w.Rear, att.Layout(), fireArc) {
		return weaponPlan{}, reject(action, att.ID, ErrOutOfArc, "%s at %s cannot fire %s", w.ID, w.Location, fireArc)
	}

	return weaponPlan{
		attacker: att,
		target:   tgt,
		weapon:   w,
		dist:     dist,
		arc:      AttackArc(tgt.Position, att.Position, tgt.Facing, tgt.TorsoTwist),
		toHit:    ComputeToHit(AttackContext{Attacker: att, AttackerSpec: sp, Target: tgt, Weapon: w, Distance: dist}),
	}, nil
}

// CheckWeaponAttack reports why an attack would be rejected, without
// resolving it. It returns the target number for an allowed attack.
func CheckWeaponAttack(sess *session.Session, a WeaponAttack) (ToHit, error) {
	p, err := planWeaponAttack(sess, a)
	return p.toHit, err
}

// ResolveWeaponAttack declares and resolves one weapon firing. A rejected
// attack returns the session unchanged.
func ResolveWeaponAttack(sess *session.Session, a WeaponAttack, r dice.Roller) (*session.Session, error) {
	p, err := planWeaponAttack(sess, a)
	if err != nil {
		return sess, err
	}
	return run(sess, r, func(rs *resolver) error { return rs.weaponAttack(p) })
}

func (rs *resolver) weaponAttack(p weaponPlan) error {
	g := rs.state()
	w := p.weapon
	aid := AttackID(p.attacker.ID, w.ID, g.Turn)
	if err := rs.emit(event.AttackDeclared{
		AttackID: aid, AttackerID: p.attacker.ID, TargetID: p.target.ID, WeaponID: w.ID,
		Range: p.dist, Arc: p.arc,
	}); err != nil {
		return err
	}

	roll := rs.roll2d6()
	res := event.AttackResolved{
		AttackID: aid, AttackerID: p.attacker.ID, TargetID: p.target.ID, WeaponID: w.ID,
		TargetNumber: p.toHit.Target, Modifiers: p.toHit.Modifiers, Roll: roll,
		Hit: roll.Total >= p.toHit.Target,
	}
	if res.Hit && isRack(w) {
		res.ClusterRoll, res.ClusterHits = ClusterHits(g.Rules.Cluster(), w.RackSize, rs.r)
	}
	if err := rs.emit(res); err != nil {
		return err
	}
	// Firing costs land right after the roll, hit or miss, and before any
	// damage the hit causes.
	if w.Heat > 0 {
		if err := rs.emit(event.HeatAdded{UnitID: p.attacker.ID, Amount: w.Heat, Source: "weapon:" + w.ID}); err != nil {
			return err
		}
	}
	if w.UsesAmmo() {
		if err := rs.consumeAmmo(p.attacker.ID, w); err != nil {
			return err
		}
	}
	if !res.Hit {
		return nil
	}
	return rs.weaponDamage(p.target.ID, w, p.arc, res.ClusterHits, aid)
}

func isRack(w unit.Weapon) bool {
	return w.Category == unit.MissileLRM || w.Category == unit.MissileSRM
}

// lrmGroupSize is how LRM hits are grouped onto locations.
const lrmGroupSize = 5

// weaponDamage rolls locations for a hit and applies it. Direct weapons
// strike once, LRMs in 5-point groups and SRMs per missile.
func (rs *resolver) weaponDamage(targetID string, w unit.Weapon, arc hexgrid.Arc, missiles int, source string) error {
	switch w.Category {
	case unit.MissileLRM:
		for total := missiles * w.Damage; total > 0; total -= lrmGroupSize {
			if err := rs.strike(targetID, arc, min(lrmGroupSize, total), source); err != nil {
				return err
			}
		}
		return nil
	case unit.MissileSRM:
		for range missiles {
			if err := rs.strike(targetID, arc, w.Damage, source); err != nil {
				return err
			}
		}
		return nil
	}
	return rs.strike(targetID, arc, w.Damage, source)
}

// strike is one weapon hit at a rolled location, with the through-armor
// critical a location roll of 2 brings.
func (rs *resolver) strike(targetID string, arc hexgrid.Arc, amount int, source string) error {
	if u := rs.unit(targetID); u.Destroyed {
		return nil
	}
	hit := rs.rollHit(arc, TableWeapon)
	if err := rs.applyDamage(DamageRequest{
		UnitID: targetID, Location: hit.Location, Amount: amount, Rear: hit.Rear,
		Kind: event.DamageWeapon, Source: source,
		LocationRoll: hit.Roll, CriticalCandidate: hit.CriticalCandidate,
	}); err != nil {
		return err
	}
	if !hit.ThroughArmor {
		return nil
	}
	if u := rs.unit(targetID); u.Destroyed || u.Lost[hit.Location] {
		return nil
	}
	return rs.rollCriticals(targetID, hit.Location, true, false)
}
