package combat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// Red starts at the south edge facing north, blue five hexes north of it
// facing south, so each is in the other's front arc.
var (
	redHex  = hexgrid.Coord{Col: 5, Row: 6}
	blueHex = hexgrid.Coord{Col: 5, Row: 1}
)

func duelAt(t *testing.T, red, blue unit.Spec, bluePos hexgrid.Coord) *session.Session {
	t.Helper()
	sess, err := session.New(session.Options{Name: t.Name(), Seed: 1}, []session.Participant{
		{Spec: red, Side: "red", Position: redHex, Facing: 0},
		{Spec: blue, Side: "blue", Position: bluePos, Facing: 3},
	})
	require.NoError(t, err)
	return sess
}

// newDuel is duelAt for callers without a *testing.T.
func newDuel(blue unit.Spec) (*session.Session, error) {
	return session.New(session.Options{Name: blue.Model, Seed: 1}, []session.Participant{
		{Spec: unit.Hunchback4P("red"), Side: "red", Position: redHex, Facing: 0},
		{Spec: blue, Side: "blue", Position: blueHex, Facing: 3},
	})
}

func duel(t *testing.T, red, blue unit.Spec) *session.Session {
	t.Helper()
	return duelAt(t, red, blue, blueHex)
}

func hunchbacks(t *testing.T) *session.Session {
	t.Helper()
	return duel(t, unit.Hunchback4P("red"), unit.Hunchback4P("blue"))
}

func appendAll(t *testing.T, sess *session.Session, ps ...event.Payload) *session.Session {
	t.Helper()
	next, err := sess.Append(ps...)
	require.NoError(t, err)
	return next
}

// toPhase starts the next turn and walks forward to ph without rolling.
func toPhase(t *testing.T, sess *session.Session, ph event.Phase) *session.Session {
	t.Helper()
	ps := []event.Payload{event.TurnStarted{Turn: sess.State().Turn + 1}}
	for from := event.PhaseInitiative; from != ph; from = from.Next() {
		ps = append(ps, event.PhaseChanged{From: from, To: from.Next()})
	}
	return appendAll(t, sess, ps...)
}

// since returns the events appended after the first n.
func since(sess *session.Session, n int) []event.Event { return sess.Events()[n:] }

func kinds(evs []event.Event) []event.Kind {
	out := make([]event.Kind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind()
	}
	return out
}

func payloads[T event.Payload](evs []event.Event) []T {
	var out []T
	for _, e := range evs {
		if p, ok := e.Payload.(T); ok {
			out = append(out, p)
		}
	}
	return out
}

func payloadKinds(ps []event.Payload) []event.Kind {
	out := make([]event.Kind, len(ps))
	for i, p := range ps {
		out[i] = p.Kind()
	}
	return out
}

func payloadsOf[T event.Payload](ps []event.Payload) []T {
	var out []T
	for _, p := range ps {
		if v, ok := p.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
