package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

func TestHeatScale(t *testing.T) {
	for heat, want := range map[int]int{0: 0, 7: 0, 8: 1, 13: 2, 17: 3, 24: 4, 40: 4} {
		assert.Equal(t, want, HeatToHitModifier(heat), "heat %d", heat)
	}
	assert.Equal(t, 0, HeatMPReduction(4))
	assert.Equal(t, 2, HeatMPReduction(12))

	tests := []struct {
		heat int
		tn   int
		auto bool
	}{
		{13, 0, false},
		{14, 4, false},
		{18, 6, false},
		{22, 8, false},
		{26, 10, false},
		{29, 10, false},
		{30, 0, true},
	}
	for _, tt := range tests {
		tn, auto := ShutdownTarget(tt.heat)
		assert.Equal(t, tt.tn, tn, "heat %d", tt.heat)
		assert.Equal(t, tt.auto, auto, "heat %d", tt.heat)
	}

	assert.Zero(t, AmmoExplosionTarget(18))
	assert.Equal(t, 4, AmmoExplosionTarget(19))
	assert.Equal(t, 6, AmmoExplosionTarget(23))
	assert.Equal(t, 8, AmmoExplosionTarget(28))

	assert.Zero(t, PilotHeatDamage(14, false))
	assert.Equal(t, 1, PilotHeatDamage(15, false))
	assert.Equal(t, 4, PilotHeatDamage(25, true))

	assert.Equal(t, 1, MovementHeat(event.MoveWalk, 4))
	assert.Equal(t, 2, MovementHeat(event.MoveRun, 6))
	assert.Equal(t, 3, MovementHeat(event.MoveJump, 2))
	assert.Equal(t, 5, MovementHeat(event.MoveJump, 5))
	assert.Zero(t, MovementHeat(event.MoveStationary, 0))
}

func TestHeatPhaseDissipates(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseHeat)
	sess = appendAll(t, sess, event.HeatAdded{UnitID: "red", Amount: 30, Source: "test"})

	next, err := ResolveHeatPhase(sess, dice.NewScripted())
	require.NoError(t, err)
	res := payloads[event.HeatResolved](since(next, sess.Len()))
	require.Len(t, res, 2)
	assert.Equal(t, event.HeatResolved{UnitID: "red", Generated: 30, Dissipated: 23, Heat: 7}, res[0])
	assert.Zero(t, res[1].Heat)
	assert.Equal(t, 7, next.State().Unit("red").Heat)
	assert.Zero(t, next.State().Unit("red").HeatThisTurn)
}

func TestShutdownAtThirty(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseHeat)
	sess = appendAll(t, sess, event.HeatAdded{UnitID: "red", Amount: 53, Source: "test"})

	// consciousness after two heat wounds
	r := dice.NewScripted().Totals(10)
	next, err := ResolveHeatPhase(sess, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	evs := since(next, sess.Len())
	chk := payloads[event.ShutdownCheck](evs)
	require.Len(t, chk, 1)
	assert.True(t, chk[0].Automatic)
	assert.True(t, chk[0].Shutdown)
	hit := payloads[event.PilotHit](evs)
	require.Len(t, hit, 1)
	assert.Equal(t, 2, hit[0].Wounds)
	assert.Equal(t, 5, hit[0].ConsciousnessTarget)

	red := next.State().Unit("red")
	assert.True(t, red.Shutdown)
	require.Len(t, red.PendingPSRs, 1)
	assert.Equal(t, event.PSRShutdown, red.PendingPSRs[0].Reason)

	// The fall check on shutdown is a flat 3.
	next, err = EndPhase(next, dice.NewScripted().Totals(3))
	require.NoError(t, err)
	psr := payloads[event.PSRResolved](next.Events())
	require.Len(t, psr, 1)
	assert.Equal(t, 3, psr[0].TargetNumber)
	assert.True(t, psr[0].Passed)

	next, err = EndPhase(next, dice.NewScripted())
	require.NoError(t, err)
	require.Equal(t, event.PhaseInitiative, next.State().Phase)

	// Still at 30, so restarting is impossible; then initiative.
	r = dice.NewScripted().Totals(5, 9)
	next, err = BeginTurn(next, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())
	start := payloads[event.StartupAttempt](next.Events())
	require.Len(t, start, 1)
	assert.True(t, start[0].Automatic)
	assert.False(t, start[0].Started)

	_, err = DeclareMovement(next, Movement{UnitID: "red", Mode: event.MoveWalk, Facing: 0}, dice.NewScripted())
	assert.ErrorIs(t, err, ErrUnitShutdown)
	assert.NotContains(t, actors(next), "red")
}

func TestStartupRoll(t *testing.T) {
	sess := appendAll(t, hunchbacks(t),
		event.HeatResolved{UnitID: "red", Heat: 18},
		event.ShutdownCheck{UnitID: "red", Heat: 18, TargetNumber: 6, Shutdown: true},
	)
	// startup at 18 needs a 6, then initiative
	next, err := BeginTurn(sess, dice.NewScripted().Totals(6, 3, 8))
	require.NoError(t, err)
	assert.False(t, next.State().Unit("red").Shutdown)
}

func TestEngineHitsAddHeat(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseHeat)
	sess = appendAll(t, sess,
		event.CriticalSlotHit{UnitID: "blue", Location: unit.CenterTorso, Slot: 0, SlotKind: unit.SlotEngine},
		event.CriticalSlotHit{UnitID: "blue", Location: unit.CenterTorso, Slot: 1, SlotKind: unit.SlotEngine},
	)
	next, err := ResolveHeatPhase(sess, dice.NewScripted())
	require.NoError(t, err)
	added := payloads[event.HeatAdded](since(next, sess.Len()))
	require.Len(t, added, 1)
	assert.Equal(t, event.HeatAdded{UnitID: "blue", Amount: 10, Source: "engine"}, added[0])
	assert.Zero(t, next.State().Unit("blue").Heat)
}

func TestEngineHeatWhileShutDown(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseHeat)
	sess = appendAll(t, sess,
		event.ShutdownCheck{UnitID: "blue", Heat: 30, TargetNumber: 13, Automatic: true, Shutdown: true},
		event.CriticalSlotHit{UnitID: "blue", Location: unit.CenterTorso, Slot: 0, SlotKind: unit.SlotEngine},
	)
	require.True(t, sess.State().Unit("blue").Shutdown)

	next, err := ResolveHeatPhase(sess, dice.NewScripted())
	require.NoError(t, err)
	evs := since(next, sess.Len())
	added := payloads[event.HeatAdded](evs)
	require.Len(t, added, 1)
	assert.Equal(t, event.HeatAdded{UnitID: "blue", Amount: 5, Source: "engine"}, added[0])
	assert.Empty(t, payloads[event.ShutdownCheck](evs))
}

func TestHeatAmmoExplosion(t *testing.T) {
	sess := toPhase(t, duel(t, unit.Hunchback4P("red"), unit.Hunchback4G("blue")), event.PhaseHeat)
	sess = appendAll(t, sess, event.HeatAdded{UnitID: "blue", Amount: 32, Source: "test"})

	// Blue ends at 19: the shutdown check needs 6 and passes on 8, the ammo
	// check needs 4 and fails on 3. The first bin guts both torsos, rolling a
	// critical in each, and the pilot rolls once for the wound.
	r := dice.NewScripted().Totals(8, 3, 7, 7, 7)
	next, err := ResolveHeatPhase(sess, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	evs := since(next, sess.Len())
	chk := payloads[event.AmmoExplosionCheck](evs)
	require.Len(t, chk, 1)
	assert.True(t, chk[0].Exploded)
	ex := payloads[event.AmmoExplosion](evs)
	require.NotEmpty(t, ex)
	assert.Equal(t, "heat", ex[0].Cause)
	assert.Equal(t, 100, ex[0].Damage)
	assert.True(t, next.State().Unit("blue").Lost[unit.LeftTorso])
	assert.Equal(t, event.DestroyedCenterTorso, next.State().Unit("blue").DestroyReason)
}
