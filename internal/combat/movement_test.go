package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// north returns the n hexes straight north of redHex.
func north(n int) []hexgrid.Coord {
	out := make([]hexgrid.Coord, n)
	for i := range out {
		out[i] = hexgrid.Coord{Col: redHex.Col, Row: redHex.Row - i - 1}
	}
	return out
}

func TestWalk(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseMovement)
	next, err := DeclareMovement(sess, Movement{UnitID: "red", Mode: event.MoveWalk, Path: north(2), Facing: 0}, dice.NewScripted())
	require.NoError(t, err)

	evs := since(next, sess.Len())
	assert.Equal(t, []event.Kind{event.KindUnitMoved, event.KindHeatAdded}, kinds(evs))
	moved := payloads[event.UnitMoved](evs)[0]
	assert.Equal(t, redHex, moved.From)
	assert.Equal(t, hexgrid.Coord{Col: 5, Row: 4}, moved.To)
	assert.Equal(t, 2, moved.Hexes)
	assert.Equal(t, 2, moved.MPUsed)
	assert.Equal(t, 1, payloads[event.HeatAdded](evs)[0].Amount)

	red := next.State().Unit("red")
	assert.True(t, red.Movement.Moved)
	assert.Equal(t, hexgrid.Coord{Col: 5, Row: 4}, red.Position)

	_, err = DeclareMovement(next, Stationary("red"), dice.NewScripted())
	assert.ErrorIs(t, err, ErrAlreadyMoved)
}

func TestMovementRejections(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseMovement)
	tests := []struct {
		name string
		m    Movement
		want error
	}{
		{"too far", Movement{UnitID: "red", Mode: event.MoveWalk, Path: north(4), Facing: 1}, ErrInvalidMove},
		{"turning costs MP", Movement{UnitID: "red", Mode: event.MoveWalk, Path: north(2), Facing: 3}, ErrInvalidMove},
		{"gap in path", Movement{UnitID: "red", Mode: event.MoveWalk, Path: north(3)[1:], Facing: 0}, ErrInvalidMove},
		{"onto an occupied hex", Movement{UnitID: "red", Mode: event.MoveRun, Path: north(5), Facing: 0}, ErrInvalidMove},
		{"no jump jets", Movement{UnitID: "red", Mode: event.MoveJump, Path: north(1), Facing: 0}, ErrInvalidMove},
		{"twisted too far", Movement{UnitID: "red", Mode: event.MoveStationary, TorsoTwist: 2}, ErrInvalidMove},
		{"stand while upright", Movement{UnitID: "red", Stand: true}, ErrInvalidMove},
		{"unknown unit", Movement{UnitID: "ghost", Mode: event.MoveStationary}, ErrUnknownUnit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := DeclareMovement(sess, tt.m, dice.NewScripted())
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsRejection(err))
			assert.Same(t, sess, next)
		})
	}

	ok := []Movement{
		{UnitID: "red", Mode: event.MoveWalk, Path: north(3), Facing: 1},
		{UnitID: "red", Mode: event.MoveRun, Path: north(4), Facing: 1},
		{UnitID: "red", Mode: event.MoveStationary, TorsoTwist: -1},
	}
	for _, m := range ok {
		assert.NoError(t, CheckMovement(sess, m), "%+v", m)
	}
}

func TestHazards(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseMovement)
	rough := []Hazard{{At: north(1)[0], Terrain: TerrainRough}}

	walked, err := DeclareMovement(sess, Movement{UnitID: "red", Mode: event.MoveWalk, Path: north(1), Hazards: rough}, dice.NewScripted())
	require.NoError(t, err)
	assert.Empty(t, walked.State().Unit("red").PendingPSRs)

	ran, err := DeclareMovement(sess, Movement{UnitID: "red", Mode: event.MoveRun, Path: north(1), Hazards: rough}, dice.NewScripted())
	require.NoError(t, err)
	require.Len(t, ran.State().Unit("red").PendingPSRs, 1)
	assert.Equal(t, event.PSRRoughRunning, ran.State().Unit("red").PendingPSRs[0].Reason)

	// running over ice and turning at the end also skids
	ice := []Hazard{{At: north(1)[0], Terrain: TerrainIce}, {At: north(2)[1], Terrain: TerrainWater, Depth: 2}}
	iced, err := DeclareMovement(sess, Movement{UnitID: "red", Mode: event.MoveRun, Path: north(2), Facing: 1, Hazards: ice}, dice.NewScripted())
	require.NoError(t, err)
	var reasons []event.PSRReason
	var extra []int
	for _, p := range iced.State().Unit("red").PendingPSRs {
		reasons = append(reasons, p.Reason)
		extra = append(extra, p.AdditionalModifier)
	}
	assert.Equal(t, []event.PSRReason{event.PSRIce, event.PSRWater, event.PSRSkid}, reasons)
	assert.Equal(t, []int{4, 0, 0}, extra)
}

func TestStandUp(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseMovement)
	sess = appendAll(t, sess, event.UnitFell{UnitID: "red", NewFacing: 0})

	_, err := DeclareMovement(sess, Movement{UnitID: "red", Mode: event.MoveWalk, Path: north(1)}, dice.NewScripted())
	assert.ErrorIs(t, err, ErrInvalidMove)

	r := dice.NewScripted().Totals(6)
	next, err := DeclareMovement(sess, Movement{UnitID: "red", Stand: true, Facing: 1}, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	evs := since(next, sess.Len())
	assert.Equal(t, []event.Kind{
		event.KindPSRTriggered, event.KindPSRResolved, event.KindUnitStoodUp,
		event.KindUnitMoved, event.KindHeatAdded,
	}, kinds(evs))
	moved := payloads[event.UnitMoved](evs)[0]
	assert.Equal(t, event.MoveWalk, moved.Mode)
	assert.Equal(t, 4, moved.MPUsed)
	assert.Equal(t, 1, moved.Facing)

	red := next.State().Unit("red")
	assert.False(t, red.Prone)
	assert.Empty(t, red.PendingPSRs)
}

func TestFailedStandKeepsFacing(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseMovement)
	sess = appendAll(t, sess, event.UnitFell{UnitID: "red", NewFacing: 2})
	next, err := DeclareMovement(sess, Movement{UnitID: "red", Stand: true, Facing: 0}, dice.NewScripted().Totals(4))
	require.NoError(t, err)
	red := next.State().Unit("red")
	assert.True(t, red.Prone)
	assert.Equal(t, 2, red.Facing)
	assert.True(t, red.Movement.Moved)
}

func TestEffectiveMP(t *testing.T) {
	sess := appendAll(t, hunchbacks(t), event.HeatResolved{UnitID: "red", Heat: 10})
	red := sess.State().Unit("red")
	assert.Equal(t, 2, EffectiveWalkMP(red))
	assert.Equal(t, 3, EffectiveRunMP(red))

	sess = appendAll(t, hunchbacks(t), event.LocationDestroyed{UnitID: "red", Location: unit.LeftLeg, Cause: event.CauseDamage})
	assert.Zero(t, EffectiveWalkMP(sess.State().Unit("red")))

	assert.Equal(t, 0, FacingCost(2, 2))
	assert.Equal(t, 1, FacingCost(0, 5))
	assert.Equal(t, 3, FacingCost(1, 4))
}
