package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

func TestWeaponAttackHit(t *testing.T) {
	red := unit.Hunchback4P("red")
	red.Pilot.Gunnery = 5
	sess := toPhase(t, duel(t, red, unit.Hunchback4P("blue")), event.PhaseWeaponAttack)
	a := WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ml-ra"}

	th, err := CheckWeaponAttack(sess, a)
	require.NoError(t, err)
	assert.Equal(t, 7, th.Target)
	assert.Equal(t, []event.Modifier{{Name: "gunnery", Value: 5}, {Name: "medium range", Value: 2}}, th.Modifiers)

	r := dice.NewScripted().Totals(8, 7)
	next, err := ResolveWeaponAttack(sess, a, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	evs := since(next, sess.Len())
	assert.Equal(t, []event.Kind{
		event.KindAttackDeclared, event.KindAttackResolved, event.KindHeatAdded, event.KindDamageApplied,
	}, kinds(evs))
	res := payloads[event.AttackResolved](evs)[0]
	assert.True(t, res.Hit)
	assert.Equal(t, 7, res.TargetNumber)
	assert.Equal(t, 8, res.Roll.Total)

	dmg := payloads[event.DamageApplied](evs)[0]
	assert.Equal(t, unit.CenterTorso, dmg.Location)
	assert.Equal(t, 7, dmg.LocationRoll)
	assert.False(t, dmg.CriticalCandidate)
	assert.Equal(t, 5, dmg.ArmorDamage)
	assert.Equal(t, 21.0, next.State().Unit("blue").Armor[unit.CenterTorso])
	assert.True(t, next.State().Unit("red").WeaponsFired["ml-ra"])
	assert.Equal(t, 3, next.State().Unit("red").HeatThisTurn)

	// The original session is untouched.
	assert.Equal(t, 26.0, sess.State().Unit("blue").Armor[unit.CenterTorso])
}

func TestLocationTwelveIsAPlainHeadHit(t *testing.T) {
	sess := toPhase(t, duel(t, unit.Hunchback4P("red"), unit.Hunchback4P("blue")), event.PhaseWeaponAttack)
	r := dice.NewScripted().Totals(11, 12)
	next, err := ResolveWeaponAttack(sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ml-ra"}, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	evs := since(next, sess.Len())
	dmg := payloads[event.DamageApplied](evs)
	require.Len(t, dmg, 1)
	assert.Equal(t, unit.Head, dmg[0].Location)
	assert.Equal(t, 12, dmg[0].LocationRoll)
	assert.True(t, dmg[0].CriticalCandidate)
	assert.Equal(t, 5, dmg[0].ArmorDamage)
	assert.Empty(t, payloads[event.CriticalHitRolled](evs))
}

func TestWeaponAttackMiss(t *testing.T) {
	red := unit.Hunchback4P("red")
	red.Pilot.Gunnery = 5
	sess := toPhase(t, duel(t, red, unit.Hunchback4P("blue")), event.PhaseWeaponAttack)

	r := dice.NewScripted().Totals(6)
	next, err := ResolveWeaponAttack(sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ml-ra"}, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	evs := since(next, sess.Len())
	assert.Equal(t, []event.Kind{event.KindAttackDeclared, event.KindAttackResolved, event.KindHeatAdded}, kinds(evs))
	assert.False(t, payloads[event.AttackResolved](evs)[0].Hit)
	assert.Equal(t, sess.State().Unit("blue").Armor, next.State().Unit("blue").Armor)
}

func TestWeaponAttackRejections(t *testing.T) {
	sess := toPhase(t, duel(t, unit.Atlas7D("red"), unit.Hunchback4G("blue")), event.PhaseWeaponAttack)
	fired, err := ResolveWeaponAttack(sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ml-la"}, dice.NewScripted().Totals(2))
	require.NoError(t, err)

	dry := appendAll(t, sess,
		event.AmmoConsumed{UnitID: "red", BinID: "ammo-ac20", WeaponID: "ac20-rt", Remaining: 0},
	)
	movement := toPhase(t, duel(t, unit.Atlas7D("red"), unit.Hunchback4G("blue")), event.PhaseMovement)

	tests := []struct {
		name string
		sess *session.Session
		a    WeaponAttack
		want error
	}{
		{"wrong phase", movement, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ml-la"}, ErrWrongPhase},
		{"unknown unit", sess, WeaponAttack{AttackerID: "ghost", TargetID: "blue", WeaponID: "ml-la"}, ErrUnknownUnit},
		{"unknown weapon", sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ppc"}, ErrUnknownWeapon},
		{"self", sess, WeaponAttack{AttackerID: "red", TargetID: "red", WeaponID: "ml-la"}, ErrInvalidTarget},
		{"rear weapon forward", sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ml-ct-r1"}, ErrOutOfArc},
		{"already fired", fired, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ml-la"}, ErrAlreadyFired},
		{"no ammo", dry, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ac20-rt"}, ErrOutOfAmmo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.sess
			next, err := ResolveWeaponAttack(s, tt.a, dice.NewScripted())
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsRejection(err))
			assert.Same(t, s, next)
		})
	}
}

func TestOutOfRange(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseWeaponAttack)
	_, err := CheckWeaponAttack(sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "sl-hd"})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestShutdownTargetIsImmobile(t *testing.T) {
	sess := toPhase(t, hunchbacks(t), event.PhaseWeaponAttack)
	sess = appendAll(t, sess, event.ShutdownCheck{UnitID: "blue", Heat: 30, Automatic: true, Shutdown: true})
	th, err := CheckWeaponAttack(sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "ml-ra"})
	require.NoError(t, err)
	// gunnery 4, medium range +2, immobile -4
	assert.Equal(t, 2, th.Target)
}

func TestLRMClusterGroups(t *testing.T) {
	sess := toPhase(t, duel(t, unit.Atlas7D("red"), unit.Hunchback4P("blue")), event.PhaseWeaponAttack)
	// Five hexes is inside the LRM's minimum range of six: +2.
	th, err := CheckWeaponAttack(sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "lrm20-lt"})
	require.NoError(t, err)
	assert.Equal(t, 6, th.Target)

	// hit on 9, cluster roll 7 lands 12 of 20, then three groups of 5, 5, 2.
	r := dice.NewScripted().Totals(9, 7, 7, 7, 7)
	next, err := ResolveWeaponAttack(sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "lrm20-lt"}, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())

	evs := since(next, sess.Len())
	res := payloads[event.AttackResolved](evs)[0]
	assert.Equal(t, 7, res.ClusterRoll)
	assert.Equal(t, 12, res.ClusterHits)
	var amounts []int
	for _, d := range payloads[event.DamageApplied](evs) {
		amounts = append(amounts, d.Damage)
	}
	assert.Equal(t, []int{5, 5, 2}, amounts)
	assert.Len(t, payloads[event.AmmoConsumed](evs), 1)
}

func TestExpectedClusterTableThrowsNoDice(t *testing.T) {
	sess, err := session.New(session.Options{Name: t.Name(), Rules: event.Rules{ClusterTable: event.ClusterExpected}}, []session.Participant{
		{Spec: unit.Atlas7D("red"), Side: "red", Position: redHex, Facing: 0},
		{Spec: unit.Hunchback4P("blue"), Side: "blue", Position: blueHex, Facing: 3},
	})
	require.NoError(t, err)
	sess = toPhase(t, sess, event.PhaseWeaponAttack)

	// hit, then one location roll per SRM missile: round(6*0.58) = 3.
	r := dice.NewScripted().Totals(12, 7, 7, 7)
	next, err := ResolveWeaponAttack(sess, WeaponAttack{AttackerID: "red", TargetID: "blue", WeaponID: "srm6-lt"}, r)
	require.NoError(t, err)
	assert.Zero(t, r.Remaining())
	res := payloads[event.AttackResolved](since(next, sess.Len()))[0]
	assert.Zero(t, res.ClusterRoll)
	assert.Equal(t, 3, res.ClusterHits)
}
