package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

func TestCritsForRoll(t *testing.T) {
	tests := []struct {
		total  int
		loc    unit.Location
		crits  int
		effect event.CritEffect
	}{
		{2, unit.CenterTorso, 0, event.CritNone},
		{7, unit.CenterTorso, 0, event.CritNone},
		{8, unit.CenterTorso, 1, event.CritNone},
		{9, unit.LeftArm, 1, event.CritNone},
		{10, unit.RightTorso, 2, event.CritNone},
		{11, unit.Head, 2, event.CritNone},
		{12, unit.CenterTorso, 3, event.CritNone},
		{12, unit.LeftArm, 0, event.CritLimbBlownOff},
		{12, unit.RightLeg, 0, event.CritLimbBlownOff},
		{12, unit.Head, 0, event.CritHeadDestroyed},
	}
	for _, tt := range tests {
		crits, effect := CritsForRoll(tt.total, tt.loc, unit.Biped)
		assert.Equal(t, tt.crits, crits, "%d at %s", tt.total, tt.loc)
		assert.Equal(t, tt.effect, effect, "%d at %s", tt.total, tt.loc)
	}
}

func TestDetermineCriticalsHardened(t *testing.T) {
	hardened := func(loc unit.Location) CriticalRequest {
		return CriticalRequest{Location: loc, ArmorType: unit.ArmorHardened, Config: unit.Biped}
	}
	tests := []struct {
		name   string
		req    CriticalRequest
		totals []int
		want   CriticalResult
	}{
		{"worse of two", hardened(unit.CenterTorso), []int{8, 10},
			CriticalResult{Rolls: []int{8, 10}, Crits: 1, Hardened: true}},
		{"torso twelve against nine", hardened(unit.CenterTorso), []int{12, 9},
			CriticalResult{Rolls: []int{12, 9}, Crits: 1, Hardened: true}},
		{"both special", hardened(unit.LeftArm), []int{12, 12},
			CriticalResult{Rolls: []int{12, 12}, Effect: event.CritLimbBlownOff, Hardened: true}},
		{"one special counts as three", hardened(unit.LeftArm), []int{12, 8},
			CriticalResult{Rolls: []int{12, 8}, Crits: 1, Hardened: true}},
		{"no crit", hardened(unit.CenterTorso), []int{7, 12},
			CriticalResult{Rolls: []int{7, 12}, Hardened: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := dice.NewScripted().Totals(tt.totals...)
			assert.Equal(t, tt.want, DetermineCriticals(tt.req, r))
			assert.Zero(t, r.Remaining())
		})
	}
}

func TestDetermineCriticalsSkipsAndForces(t *testing.T) {
	r := dice.NewScripted()
	res := DetermineCriticals(CriticalRequest{
		Location: unit.CenterTorso, ArmorType: unit.ArmorHardened, ThroughArmor: true,
	}, r)
	assert.True(t, res.Skipped)

	two := 2
	res = DetermineCriticals(CriticalRequest{Location: unit.CenterTorso, ForceCrits: &two}, r)
	assert.Equal(t, CriticalResult{Crits: 2, Forced: true}, res)
}

func TestSecondGyroHitFallsOnce(t *testing.T) {
	sess := hunchbacks(t)
	n := sess.Len()
	// fall facing die, fall damage location, consciousness
	r := dice.NewScripted().Faces(1).Totals(7, 10)
	next, err := run(sess, r, func(rs *resolver) error {
		if err := rs.slotHit("blue", unit.CenterTorso, 3); err != nil {
			return err
		}
		return rs.slotHit("blue", unit.CenterTorso, 4)
	})
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	u := next.State().Unit("blue")
	assert.Equal(t, 2, u.Components.GyroHits)
	assert.True(t, u.Prone)
	assert.Empty(t, u.PendingPSRs)

	evs := since(next, n)
	assert.Len(t, payloads[event.UnitFell](evs), 1)
	psr := payloads[event.PSRTriggered](evs)
	require.Len(t, psr, 1)
	assert.Equal(t, event.PSRGyroCritical, psr[0].Reason)
}

func TestCockpitHitKillsPilot(t *testing.T) {
	sess := hunchbacks(t)
	next, err := run(sess, dice.NewScripted(), func(rs *resolver) error {
		return rs.slotHit("blue", unit.Head, 2)
	})
	require.NoError(t, err)
	u := next.State().Unit("blue")
	assert.True(t, u.Pilot.Killed)
	assert.True(t, u.Destroyed)
	assert.Equal(t, event.DestroyedPilotKilled, u.DestroyReason)
}

func TestThirdEngineHitDestroys(t *testing.T) {
	sess := hunchbacks(t)
	next, err := run(sess, dice.NewScripted(), func(rs *resolver) error {
		for _, i := range []int{0, 1, 2} {
			if err := rs.slotHit("blue", unit.CenterTorso, i); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	u := next.State().Unit("blue")
	assert.Equal(t, 3, u.Components.EngineHits)
	assert.Equal(t, event.DestroyedEngine, u.DestroyReason)
}

func TestLegActuatorQueuesPSR(t *testing.T) {
	sess := hunchbacks(t)
	next, err := run(sess, dice.NewScripted(), func(rs *resolver) error {
		if err := rs.slotHit("blue", unit.LeftLeg, 0); err != nil {
			return err
		}
		return rs.slotHit("blue", unit.LeftLeg, 3)
	})
	require.NoError(t, err)
	var reasons []event.PSRReason
	for _, p := range next.State().Unit("blue").PendingPSRs {
		reasons = append(reasons, p.Reason)
	}
	assert.Equal(t, []event.PSRReason{event.PSRHipCritical, event.PSRLegActuator}, reasons)

	// hip halves walking MP after the foot is taken off
	assert.Equal(t, 1, EffectiveWalkMP(next.State().Unit("blue")))
}

func TestSlotPicksComeFromRoller(t *testing.T) {
	sess := hunchbacks(t)
	n := sess.Len()
	// two crits in the right arm: shoulder then the laser, which is index 3 of
	// the slots left once the shoulder is gone.
	r := dice.NewScripted().Totals(10).WithPicks(0, 3)
	next, err := run(sess, r, func(rs *resolver) error {
		return rs.rollCriticals("blue", unit.RightArm, false, false)
	})
	require.NoError(t, err)
	hits := payloads[event.CriticalSlotHit](since(next, n))
	require.Len(t, hits, 2)
	assert.Equal(t, unit.Shoulder, hits[0].Actuator)
	assert.Equal(t, "ml-ra", hits[1].Component)
	assert.True(t, next.State().Unit("blue").WeaponDestroyed("ml-ra"))
}
