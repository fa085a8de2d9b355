// Package combat resolves everything that happens in a game: movement,
// weapon and physical attacks, damage, critical hits, heat and piloting
// skill rolls.
//
// Resolution is pure. Every function takes the session, the declared
// action and a dice.Roller, and returns a session with the resulting events
// appended. Nothing here reads entropy, the clock or any shared state, so the
// same inputs and dice always give the same log.
package combat

import (
	"fmt"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// Emitter receives resolution events in causal order and keeps State
// current after each one. *session.Tx implements it.
type Emitter interface {
	State() *state.GameState
	Emit(p event.Payload) error
}

// Units resolves the static data of deployed units. *session.Session
// implements it.
type Units interface {
	Spec(id string) (unit.Spec, bool)
	Manifest(id string) (unit.Manifest, bool)
}

type resolver struct {
	em    Emitter
	units Units
	r     dice.Roller

	// damageDepth is non-zero while a damage chain is being applied, so the
	// phase threshold is only checked once per outer request.
	damageDepth int
}

// run stages fn's events on a transaction. On any error the original
// session is returned untouched.
func run(sess *session.Session, r dice.Roller, fn func(rs *resolver) error) (*session.Session, error) {
	tx := sess.Begin()
	rs := &resolver{em: tx, units: sess, r: r}
	if err := fn(rs); err != nil {
		return sess, err
	}
	return tx.Commit(), nil
}

func (rs *resolver) state() *state.GameState { return rs.em.State() }

func (rs *resolver) unit(id string) *state.UnitState { return rs.em.State().Unit(id) }

func (rs *resolver) emit(p event.Payload) error { return rs.em.Emit(p) }

func (rs *resolver) manifest(id string) (unit.Manifest, error) {
	m, ok := rs.units.Manifest(id)
	if !ok {
		return unit.Manifest{}, &unit.IntegrityError{UnitID: id, Detail: "no critical slot manifest"}
	}
	return m, nil
}

func (rs *resolver) spec(id string) (unit.Spec, error) {
	sp, ok := rs.units.Spec(id)
	if !ok {
		return unit.Spec{}, &unit.IntegrityError{UnitID: id, Detail: "no unit data"}
	}
	return sp, nil
}

// roll2d6 is the only place resolution throws two dice.
func (rs *resolver) roll2d6() dice.Roll { return dice.Roll2d6(rs.r) }

// ─── Scratch emitter ────────────────────────────────────────────────────────

// scratch folds events into a private copy of a state, for resolving a
// single step outside a session.
type scratch struct {
	st  *state.GameState
	out []event.Payload
}

func newScratch(g *state.GameState) *scratch { return &scratch{st: g.Clone()} }

func (s *scratch) State() *state.GameState { return s.st }

func (s *scratch) Emit(p event.Payload) error {
	e := event.Event{Seq: s.st.LastSeq + 1, Turn: s.st.Turn, Phase: s.st.Phase, Payload: p}
	if err := s.st.Fold(e); err != nil {
		return err
	}
	s.out = append(s.out, p)
	return nil
}

// single serves the static data of one unit.
type single struct {
	spec     unit.Spec
	manifest unit.Manifest
}

func (s single) Spec(id string) (unit.Spec, bool) {
	return s.spec, id == s.spec.ID
}

func (s single) Manifest(id string) (unit.Manifest, bool) {
	return s.manifest, id == s.spec.ID
}

// ─── Destruction ────────────────────────────────────────────────────────────

// checkDestroyed emits UnitDestroyed once the unit meets a destruction
// condition and is not already destroyed.
func (rs *resolver) checkDestroyed(id string) error {
	u := rs.unit(id)
	if u == nil || u.Destroyed {
		return nil
	}
	var reason event.DestroyReason
	switch {
	case u.Lost[unit.CenterTorso]:
		reason = event.DestroyedCenterTorso
	case u.Lost[unit.Head]:
		reason = event.DestroyedHead
	case u.Components.EngineHits >= unit.EngineHitsToDestroy:
		reason = event.DestroyedEngine
	case u.Pilot.Killed:
		reason = event.DestroyedPilotKilled
	default:
		return nil
	}
	return rs.emit(event.UnitDestroyed{UnitID: id, Reason: reason})
}

// ─── Pilot ──────────────────────────────────────────────────────────────────

var consciousnessTargets = [5]int{3, 5, 7, 10, 11}

// PilotKillWounds is the wound count that kills a pilot.
const PilotKillWounds = 6

// ConsciousnessTarget is the 2d6 target to stay conscious at total wounds.
func ConsciousnessTarget(wounds int) int {
	switch {
	case wounds <= 0:
		return 0
	case wounds >= PilotKillWounds:
		return 13
	}
	return consciousnessTargets[wounds-1]
}

// woundPilot applies n wounds and rolls for consciousness.
func (rs *resolver) woundPilot(id string, n int, source string) error {
	u := rs.unit(id)
	if u == nil || n <= 0 || u.Pilot.Killed {
		return nil
	}
	total := u.Pilot.Wounds + n
	hit := event.PilotHit{UnitID: id, Wounds: n, Total: total, Source: source}
	switch {
	case total >= PilotKillWounds:
		hit.Killed = true
	case u.Pilot.Unconscious:
		// Already out; the wake-up roll comes at the end of the turn.
	default:
		hit.ConsciousnessTarget = ConsciousnessTarget(total)
		roll := rs.roll2d6()
		hit.ConsciousnessRoll = roll.Total
		hit.Conscious = roll.Total >= hit.ConsciousnessTarget
	}
	if err := rs.emit(hit); err != nil {
		return err
	}
	return rs.checkDestroyed(id)
}

// wakePilots gives every unconscious pilot a roll to come round. It runs in
// the end phase, after the queued PSRs.
func (rs *resolver) wakePilots() error {
	for _, id := range rs.state().Order {
		u := rs.unit(id)
		if u == nil || u.Destroyed || u.Pilot.Killed || !u.Pilot.Unconscious {
			continue
		}
		tn := ConsciousnessTarget(u.Pilot.Wounds)
		roll := rs.roll2d6()
		err := rs.emit(event.PilotRecoveryRolled{
			UnitID: id, Wounds: u.Pilot.Wounds, TargetNumber: tn, Roll: roll, Recovered: roll.Total >= tn,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func integrityf(id, format string, args ...any) error {
	return &unit.IntegrityError{UnitID: id, Detail: fmt.Sprintf(format, args...)}
}
