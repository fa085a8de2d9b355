// Package game runs an interactive session: each side has a Controller,
// which may be a person behind some interface or the computer planner, and
// the game asks them for orders one phase at a time.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/combat"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/tactics"
)

//go:generate mockgen -destination=./mocks/controller_mock.go -package=mocks . Controller

// Controller gives orders for the units of one side. It sees the session
// as it stands when it is asked, in initiative order.
type Controller interface {
	Move(sess *session.Session, unitID string) combat.Movement
	Fire(sess *session.Session, unitID string) []combat.WeaponAttack
	Physical(sess *session.Session, unitID string) []combat.PhysicalAttack
}

// AI is a Controller backed by the computer planner.
func AI() Controller { return tactics.New() }

var ErrNoController = errors.New("game: side has no controller")

// Rejection is an order the rules refused.
type Rejection struct {
	Turn   int
	Phase  event.Phase
	UnitID string
	Err    error
}

type Game struct {
	sess        *session.Session
	roll        dice.Roller
	controllers map[string]Controller
	log         zerolog.Logger
	rejections  []Rejection
}

// New wraps a session. Every side in the session needs a controller.
func New(sess *session.Session, r dice.Roller, controllers map[string]Controller, log zerolog.Logger) (*Game, error) {
	for _, side := range sess.State().Sides {
		if controllers[side] == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoController, side)
		}
	}
	return &Game{
		sess:        sess,
		roll:        r,
		controllers: controllers,
		log:         log.With().Str("game_id", sess.ID().String()).Logger(),
	}, nil
}

func (g *Game) Session() *session.Session { return g.sess }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.sess.State().Over }

// Rejections lists every refused order so far.
func (g *Game) Rejections() []Rejection { return append([]Rejection(nil), g.rejections...) }

func (g *Game) controller(unitID string) Controller {
	u := g.sess.State().Unit(unitID)
	if u == nil {
		return nil
	}
	return g.controllers[u.Side]
}

func (g *Game) reject(unitID string, err error) {
	st := g.sess.State()
	g.rejections = append(g.rejections, Rejection{Turn: st.Turn, Phase: st.Phase, UnitID: unitID, Err: err})
	g.log.Info().Err(err).Str("unit", unitID).Int("turn", st.Turn).Str("phase", string(st.Phase)).Msg("order rejected")
}

// ─── Stepping ───────────────────────────────────────────────────────────────

// Step plays the current phase and moves to the next one. At the heat
// phase the heat is resolved first.
func (g *Game) Step() error {
	st := g.sess.State()
	if st.Over {
		return combat.ErrGameOver
	}
	var err error
	switch st.Phase {
	case event.PhaseInitiative:
		g.sess, err = combat.BeginTurn(g.sess, g.roll)
		return err
	case event.PhaseMovement:
		err = g.movement()
	case event.PhaseWeaponAttack:
		err = g.weapons()
	case event.PhasePhysicalAttack:
		err = g.physical()
	case event.PhaseHeat:
		g.sess, err = combat.ResolveHeatPhase(g.sess, g.roll)
	}
	if err != nil {
		return err
	}
	next, err := combat.EndPhase(g.sess, g.roll)
	if err != nil {
		return err
	}
	g.sess = next
	return nil
}

// PlayTurn steps until the next initiative phase or the end of the game.
func (g *Game) PlayTurn(ctx context.Context) error {
	if err := g.Step(); err != nil {
		return err
	}
	for !g.Over() && g.sess.State().Phase != event.PhaseInitiative {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.Step(); err != nil {
			return err
		}
	}
	if g.Over() {
		st := g.sess.State()
		g.log.Info().Str("winner", st.Winner).Str("reason", st.EndReason).Int("turn", st.Turn).Msg("game over")
	}
	return nil
}

// Play runs turns until the game ends or maxTurns have been played, then
// ends it at the turn limit.
func (g *Game) Play(ctx context.Context, maxTurns int) error {
	for !g.Over() {
		if g.sess.State().Turn >= maxTurns {
			next, err := combat.EndGame(g.sess, combat.EndTurnLimit)
			if err != nil {
				return err
			}
			g.sess = next
			return nil
		}
		if err := g.PlayTurn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) actors() []string {
	st := g.sess.State()
	var out []string
	for _, id := range st.ActingOrder() {
		if u := st.Unit(id); u != nil && u.CanAct() {
			out = append(out, id)
		}
	}
	return out
}

// movement asks each unit for a move. A refused move stands the unit still.
func (g *Game) movement() error {
	for _, id := range g.actors() {
		next, err := combat.DeclareMovement(g.sess, g.controller(id).Move(g.sess, id), g.roll)
		if combat.IsRejection(err) {
			g.reject(id, err)
			next, err = combat.DeclareMovement(g.sess, combat.Stationary(id), g.roll)
		}
		if err != nil {
			return err
		}
		g.sess = next
	}
	return nil
}

func (g *Game) weapons() error {
	for _, id := range g.actors() {
		for _, a := range g.controller(id).Fire(g.sess, id) {
			next, err := combat.ResolveWeaponAttack(g.sess, a, g.roll)
			if combat.IsRejection(err) {
				g.reject(id, err)
				continue
			}
			if err != nil {
				return err
			}
			g.sess = next
		}
	}
	return nil
}

func (g *Game) physical() error {
	for _, id := range g.actors() {
		for _, a := range g.controller(id).Physical(g.sess, id) {
			next, err := combat.ResolvePhysicalAttack(g.sess, a, g.roll)
			if combat.IsRejection(err) {
				g.reject(id, err)
				continue
			}
			if err != nil {
				return err
			}
			g.sess = next
		}
	}
	return nil
}
