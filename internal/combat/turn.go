package combat

import (
	"slices"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
)

// ─── Turn sequencing ────────────────────────────────────────────────────────

// End reasons recorded in GameEnded.
const (
	EndDestroyed = "destroyed"
	EndTurnLimit = "turn_limit"
)

// BeginTurn starts the next turn: shut-down units try to restart, then each
// side rolls initiative and the game moves on to movement.
func BeginTurn(sess *session.Session, r dice.Roller) (*session.Session, error) {
	if err := checkPhase(sess.State(), "begin turn", "", event.PhaseInitiative); err != nil {
		return sess, err
	}
	return run(sess, r, func(rs *resolver) error {
		g := rs.state()
		if err := rs.emit(event.TurnStarted{Turn: g.Turn + 1}); err != nil {
			return err
		}
		for _, id := range g.Order {
			if err := rs.startup(id); err != nil {
				return err
			}
		}
		if err := rs.emit(rs.initiative()); err != nil {
			return err
		}
		return rs.emit(event.PhaseChanged{From: event.PhaseInitiative, To: event.PhaseMovement})
	})
}

// initiative rolls 2d6 per side until no two sides tie. Sides act from the
// lowest roll up, so the winner moves and declares last. Units keep
// deployment order within their side.
func (rs *resolver) initiative() event.InitiativeRolled {
	g := rs.state()
	var ev event.InitiativeRolled
	totals := make(map[string]int, len(g.Sides))
	for {
		seen := make(map[int]bool, len(g.Sides))
		tie := false
		for _, side := range g.Sides {
			roll := rs.roll2d6()
			ev.Rolls = append(ev.Rolls, event.InitiativeRoll{Side: side, Roll: roll})
			totals[side] = roll.Total
			tie = tie || seen[roll.Total]
			seen[roll.Total] = true
		}
		if !tie {
			break
		}
	}

	sides := slices.Clone(g.Sides)
	slices.SortStableFunc(sides, func(a, b string) int { return totals[a] - totals[b] })
	ev.Winner = sides[len(sides)-1]
	for _, side := range sides {
		for _, u := range g.Operational(side) {
			ev.Order = append(ev.Order, u.ID)
		}
	}
	return ev
}

// EndPhase resolves every queued PSR and advances to the next phase. At the
// end of a turn unconscious pilots roll to recover, and the game ends once at
// most one side still has units.
func EndPhase(sess *session.Session, r dice.Roller) (*session.Session, error) {
	g := sess.State()
	if err := checkPhase(g, "end phase", "", event.PhaseMovement, event.PhaseWeaponAttack,
		event.PhasePhysicalAttack, event.PhaseHeat, event.PhaseEnd); err != nil {
		return sess, err
	}
	return run(sess, r, func(rs *resolver) error {
		if err := rs.resolvePSRs(); err != nil {
			return err
		}
		from := rs.state().Phase
		if from == event.PhaseEnd {
			if err := rs.wakePilots(); err != nil {
				return err
			}
			if ended, err := rs.victory(); ended || err != nil {
				return err
			}
		}
		return rs.emit(event.PhaseChanged{From: from, To: from.Next()})
	})
}

// Standing returns the sides that still have a unit that is not destroyed.
func Standing(sess *session.Session) []string { return standing(sess.State()) }

func standing(g *state.GameState) []string {
	var out []string
	for _, side := range g.Sides {
		if len(g.Operational(side)) > 0 {
			out = append(out, side)
		}
	}
	return out
}

func (rs *resolver) victory() (bool, error) {
	alive := standing(rs.state())
	switch len(alive) {
	case 0:
		return true, rs.emit(event.GameEnded{Reason: EndDestroyed})
	case 1:
		return true, rs.emit(event.GameEnded{Winner: alive[0], Reason: EndDestroyed})
	}
	return false, nil
}

// EndGame stops a game that has not been decided, for example at a turn
// limit. No winner is recorded.
func EndGame(sess *session.Session, reason string) (*session.Session, error) {
	if sess.State().Over {
		return sess, reject("end game", "", ErrGameOver, "")
	}
	return sess.Append(event.GameEnded{Reason: reason})
}

// ─── Driving a turn ─────────────────────────────────────────────────────────

// Decider chooses what each unit does. It is asked once per unit per phase,
// in initiative order, with the session as it stands at that moment.
type Decider interface {
	Move(sess *session.Session, unitID string) Movement
	Fire(sess *session.Session, unitID string) []WeaponAttack
	Physical(sess *session.Session, unitID string) []PhysicalAttack
}

// PlayTurn runs one whole turn from initiative to the end phase. A rejected
// move falls back to standing still; rejected attacks are skipped. Any other
// error stops the turn and returns the session as it was before it.
func PlayTurn(sess *session.Session, d Decider, r dice.Roller) (*session.Session, error) {
	start := sess
	fail := func(err error) (*session.Session, error) { return start, err }

	sess, err := BeginTurn(sess, r)
	if err != nil {
		return fail(err)
	}

	for _, id := range actors(sess) {
		next, err := DeclareMovement(sess, d.Move(sess, id), r)
		if IsRejection(err) {
			next, err = DeclareMovement(sess, Stationary(id), r)
		}
		if err != nil {
			return fail(err)
		}
		sess = next
	}
	if sess, err = EndPhase(sess, r); err != nil {
		return fail(err)
	}

	for _, id := range actors(sess) {
		for _, a := range d.Fire(sess, id) {
			next, err := ResolveWeaponAttack(sess, a, r)
			if IsRejection(err) {
				continue
			}
			if err != nil {
				return fail(err)
			}
			sess = next
		}
	}
	if sess, err = EndPhase(sess, r); err != nil {
		return fail(err)
	}

	for _, id := range actors(sess) {
		for _, a := range d.Physical(sess, id) {
			next, err := ResolvePhysicalAttack(sess, a, r)
			if IsRejection(err) {
				continue
			}
			if err != nil {
				return fail(err)
			}
			sess = next
		}
	}
	if sess, err = EndPhase(sess, r); err != nil {
		return fail(err)
	}

	if sess, err = ResolveHeatPhase(sess, r); err != nil {
		return fail(err)
	}
	if sess, err = EndPhase(sess, r); err != nil {
		return fail(err)
	}
	if sess, err = EndPhase(sess, r); err != nil {
		return fail(err)
	}
	return sess, nil
}

// actors lists the units able to act right now, in initiative order.
func actors(sess *session.Session) []string {
	g := sess.State()
	var out []string
	for _, id := range g.ActingOrder() {
		if u := g.Unit(id); u != nil && u.CanAct() {
			out = append(out, id)
		}
	}
	return out
}
