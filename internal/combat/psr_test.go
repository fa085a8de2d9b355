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

func TestFirstFailureDropsTheQueue(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseWeaponAttack)
	sess = appendAll(t, sess,
		event.PSRTriggered{UnitID: "blue", Reason: event.PSRDamage, AdditionalModifier: 1},
		event.PSRTriggered{UnitID: "blue", Reason: event.PSRKicked},
		event.PSRTriggered{UnitID: "blue", Reason: event.PSRPushed},
	)
	n := sess.Len()

	// fail on 2 against 6, fall facing die, fall location, consciousness
	r := dice.NewScripted().Totals(2).Faces(1).Totals(7, 10)
	next, err := EndPhase(sess, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	evs := since(next, n)
	res := payloads[event.PSRResolved](evs)
	require.Len(t, res, 1)
	assert.False(t, res[0].Passed)
	assert.Equal(t, 6, res[0].TargetNumber)
	assert.Equal(t, []event.Modifier{{Name: "piloting", Value: 5}, {Name: "damage_20", Value: 1}}, res[0].Modifiers)

	cleared := payloads[event.PSRQueueCleared](evs)
	require.Len(t, cleared, 1)
	assert.Equal(t, 2, cleared[0].Dropped)
	assert.Equal(t, "failed", cleared[0].Why)

	fell := payloads[event.UnitFell](evs)
	require.Len(t, fell, 1)
	assert.Equal(t, 5, fell[0].Damage)
	assert.Equal(t, hexgrid.ArcFront, fell[0].Side)

	u := next.State().Unit("blue")
	assert.True(t, u.Prone)
	assert.Empty(t, u.PendingPSRs)
	assert.Equal(t, 1, u.Pilot.Wounds)
	assert.Equal(t, event.PhasePhysicalAttack, next.State().Phase)
}

func TestPassingEveryRollKeepsFooting(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseWeaponAttack)
	sess = appendAll(t, sess,
		event.PSRTriggered{UnitID: "blue", Reason: event.PSRDamage, AdditionalModifier: 1},
		event.PSRTriggered{UnitID: "blue", Reason: event.PSRKicked},
	)
	next, err := EndPhase(sess, dice.NewScripted().Totals(6, 5))
	require.NoError(t, err)
	assert.False(t, next.State().Unit("blue").Prone)
	assert.Len(t, payloads[event.PSRResolved](since(next, sess.Len())), 2)
}

func TestProneUnitDropsItsRolls(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseWeaponAttack)
	sess = appendAll(t, sess,
		event.UnitFell{UnitID: "blue", NewFacing: 3},
		event.PSRTriggered{UnitID: "blue", Reason: event.PSRKicked},
	)
	next, err := EndPhase(sess, dice.NewScripted())
	require.NoError(t, err)
	cleared := payloads[event.PSRQueueCleared](since(next, sess.Len()))
	require.Len(t, cleared, 1)
	assert.Equal(t, "prone", cleared[0].Why)
}

func TestDestroyedGyroFailsAutomatically(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseWeaponAttack)
	sess = appendAll(t, sess,
		event.CriticalSlotHit{UnitID: "blue", Location: unit.CenterTorso, Slot: 3, SlotKind: unit.SlotGyro},
		event.CriticalSlotHit{UnitID: "blue", Location: unit.CenterTorso, Slot: 4, SlotKind: unit.SlotGyro},
		event.PSRTriggered{UnitID: "blue", Reason: event.PSRKicked},
	)
	next, err := EndPhase(sess, dice.NewScripted().Faces(2).Totals(7, 10))
	require.NoError(t, err)
	res := payloads[event.PSRResolved](since(next, sess.Len()))
	require.Len(t, res, 1)
	assert.True(t, res[0].Automatic)
	assert.False(t, res[0].Passed)
	assert.Equal(t, 4, next.State().Unit("blue").Facing)
}

func TestStandingModifiers(t *testing.T) {
	sess := appendAll(t, hunchbacks(t),
		event.CriticalSlotHit{UnitID: "blue", Location: unit.CenterTorso, Slot: 3, SlotKind: unit.SlotGyro},
		event.CriticalSlotHit{UnitID: "blue", Location: unit.LeftLeg, Slot: 0, SlotKind: unit.SlotActuator, Actuator: unit.Hip},
		event.PilotHit{UnitID: "blue", Wounds: 2, Total: 2, Source: "test", Conscious: true},
		event.LocationDestroyed{UnitID: "blue", Location: unit.RightLeg, Cause: event.CauseDamage},
	)
	mods := StandingModifiers(sess.State().Unit("blue"))
	assert.Equal(t, []event.Modifier{
		{Name: "gyro damage", Value: 3},
		{Name: "pilot wounds", Value: 2},
		{Name: "LL hip", Value: 2},
		{Name: "RL destroyed", Value: 5},
	}, mods)
}

func TestPSRTables(t *testing.T) {
	assert.Equal(t, 1, TriggerModifier(event.PSRDamage))
	assert.Equal(t, 2, TriggerModifier(event.PSRCharged))
	assert.Equal(t, 4, TriggerModifier(event.PSRDFAMissed))
	assert.Zero(t, TriggerModifier(event.PSRKicked))

	assert.Equal(t, -1, WaterModifier(1))
	assert.Zero(t, WaterModifier(2))
	assert.Equal(t, 1, WaterModifier(3))

	assert.Equal(t, 5, FallDamage(50, 0))
	assert.Equal(t, 20, FallDamage(100, 1))
	assert.Equal(t, 4, FallDamage(35, 0))

	want := []hexgrid.Arc{hexgrid.ArcFront, hexgrid.ArcRight, hexgrid.ArcRight, hexgrid.ArcRear, hexgrid.ArcLeft, hexgrid.ArcLeft}
	for offset, arc := range want {
		assert.Equal(t, arc, FallSide(offset), "offset %d", offset)
	}

	for wounds, tn := range map[int]int{0: 0, 1: 3, 2: 5, 3: 7, 4: 10, 5: 11, 6: 13} {
		assert.Equal(t, tn, ConsciousnessTarget(wounds), "%d wounds", wounds)
	}
}
