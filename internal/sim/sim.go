// Package sim plays duels without a human in the loop. Each duel owns its
// session and seeded roller, so a batch can run them side by side.
package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/combat"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/tactics"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// DefaultMaxTurns ends a duel that nobody has won.
const DefaultMaxTurns = 30

// Start hexes: the two units begin eleven hexes apart, facing each other.
var (
	RedStart  = hexgrid.Coord{Col: 5, Row: 12}
	BlueStart = hexgrid.Coord{Col: 5, Row: 1}
)

// Duel is one red-versus-blue game.
type Duel struct {
	Name  string
	Seed  uint64
	Red   unit.Spec
	Blue  unit.Spec
	Rules event.Rules
}

// Options are the session options the duel is created with.
func (d Duel) Options() session.Options {
	return session.Options{Name: d.Name, Seed: d.Seed, Rules: d.Rules}
}

// Participants places red at the south edge and blue at the north.
func (d Duel) Participants() []session.Participant {
	return []session.Participant{
		{Spec: d.Red, Side: "red", Position: RedStart, Facing: 0},
		{Spec: d.Blue, Side: "blue", Position: BlueStart, Facing: 3},
	}
}

// Result is a finished duel.
type Result struct {
	Name    string
	GameID  string
	Seed    uint64
	Winner  string
	Reason  string
	Turns   int
	Session *session.Session
}

// ─── Runner ─────────────────────────────────────────────────────────────────

type Runner struct {
	decider  combat.Decider
	maxTurns int
	log      zerolog.Logger
	metrics  *metrics
}

type Option func(*Runner)

// WithDecider replaces the default planner.
func WithDecider(d combat.Decider) Option { return func(r *Runner) { r.decider = d } }

// WithMaxTurns sets the turn limit. Values below one are ignored.
func WithMaxTurns(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxTurns = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(r *Runner) { r.log = l } }

// New builds a runner. Metrics go to the global OpenTelemetry meter, which
// is a no-op unless the host installs a provider.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{decider: tactics.New(), maxTurns: DefaultMaxTurns, log: zerolog.Nop()}
	for _, o := range opts {
		o(r)
	}
	m, err := newMetrics()
	if err != nil {
		return nil, err
	}
	r.metrics = m
	return r, nil
}

// Run plays one duel to the end or the turn limit.
func (r *Runner) Run(ctx context.Context, d Duel) (Result, error) {
	sess, err := session.New(d.Options(), d.Participants())
	if err != nil {
		return Result{}, fmt.Errorf("sim: %s: %w", d.Name, err)
	}
	log := r.log.With().Str("game_id", sess.ID().String()).Uint64("seed", d.Seed).Logger()
	roll := dice.NewSeeded(d.Seed)

	for !sess.State().Over {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if sess.State().Turn >= r.maxTurns {
			if sess, err = combat.EndGame(sess, combat.EndTurnLimit); err != nil {
				return Result{}, fmt.Errorf("sim: %s: %w", d.Name, err)
			}
			break
		}
		next, err := combat.PlayTurn(sess, r.decider, roll)
		if err != nil {
			return Result{}, fmt.Errorf("sim: %s turn %d: %w", d.Name, sess.State().Turn+1, err)
		}
		sess = next
		log.Debug().Int("turn", sess.State().Turn).Int("events", sess.Len()).Msg("turn played")
	}

	g := sess.State()
	res := Result{
		Name: d.Name, GameID: sess.ID().String(), Seed: d.Seed,
		Winner: g.Winner, Reason: g.EndReason, Turns: g.Turn, Session: sess,
	}
	log.Info().Str("winner", res.Winner).Str("reason", res.Reason).Int("turn", res.Turns).Msg("duel finished")
	r.metrics.record(ctx, res)
	return res, nil
}

// RunBatch plays every duel on up to workers goroutines and returns the
// results in input order. The first failure cancels the rest.
func (r *Runner) RunBatch(ctx context.Context, duels []Duel, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(duels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range duels {
		g.Go(func() error {
			res, err := r.Run(ctx, d)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Seeds derives n duel seeds from one batch seed.
func Seeds(base uint64, n int) []uint64 {
	r := dice.NewSeeded(base)
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(r.IntN(1<<31))<<32 | uint64(r.IntN(1<<31))
	}
	return out
}
