package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

func TestHitLocation(t *testing.T) {
	tests := []struct {
		roll  int
		arc   hexgrid.Arc
		table HitTable
		want  HitResult
	}{
		{2, hexgrid.ArcFront, TableWeapon, HitResult{Location: unit.CenterTorso, Roll: 2, ThroughArmor: true, CriticalCandidate: true}},
		{7, hexgrid.ArcFront, TableWeapon, HitResult{Location: unit.CenterTorso, Roll: 7}},
		{12, hexgrid.ArcFront, TableWeapon, HitResult{Location: unit.Head, Roll: 12, CriticalCandidate: true}},
		{7, hexgrid.ArcRear, TableWeapon, HitResult{Location: unit.CenterTorso, Roll: 7, Rear: true}},
		{4, hexgrid.ArcRear, TableWeapon, HitResult{Location: unit.RightArm, Roll: 4}},
		{2, hexgrid.ArcLeft, TableWeapon, HitResult{Location: unit.LeftTorso, Roll: 2, ThroughArmor: true, CriticalCandidate: true}},
		{9, hexgrid.ArcRight, TableWeapon, HitResult{Location: unit.LeftTorso, Roll: 9}},
		{6, hexgrid.ArcFront, TablePunch, HitResult{Location: unit.Head, Roll: 6}},
		{1, hexgrid.ArcLeft, TablePunch, HitResult{Location: unit.LeftTorso, Roll: 1}},
		{5, hexgrid.ArcFront, TableKick, HitResult{Location: unit.LeftLeg, Roll: 5}},
		{1, hexgrid.ArcRight, TableKick, HitResult{Location: unit.RightLeg, Roll: 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HitLocation(tt.roll, tt.arc, tt.table), "%d from %s", tt.roll, tt.arc)
	}
}

func TestMovementModifiers(t *testing.T) {
	for hexes, want := range map[int]int{0: 0, 2: 0, 3: 1, 5: 2, 7: 3, 10: 4, 18: 5, 25: 6} {
		assert.Equal(t, want, TargetMovementModifier(hexes, false), "%d hexes", hexes)
	}
	assert.Equal(t, 2, TargetMovementModifier(3, true))

	assert.Zero(t, AttackerMovementModifier(event.MoveStationary))
	assert.Equal(t, 1, AttackerMovementModifier(event.MoveWalk))
	assert.Equal(t, 2, AttackerMovementModifier(event.MoveRun))
	assert.Equal(t, 3, AttackerMovementModifier(event.MoveJump))
}

func TestRangeBands(t *testing.T) {
	ml := unit.Weapon{Short: 3, Medium: 6, Long: 9}
	for dist, want := range map[int]Bracket{1: RangeShort, 3: RangeShort, 4: RangeMedium, 6: RangeMedium, 9: RangeLong, 10: RangeOut} {
		assert.Equal(t, want, RangeOf(ml, dist), "distance %d", dist)
	}
	assert.Equal(t, RangeOut, RangeOf(unit.Weapon{}, 1))
	assert.Equal(t, 4, RangeModifier(RangeLong))

	assert.Zero(t, MinimumRangeModifier(0, 1))
	assert.Zero(t, MinimumRangeModifier(6, 7))
	assert.Equal(t, 1, MinimumRangeModifier(6, 6))
	assert.Equal(t, 6, MinimumRangeModifier(6, 1))
}

func TestHitProbability(t *testing.T) {
	assert.Equal(t, 1.0, HitProbability(2))
	assert.Equal(t, 1.0, HitProbability(-3))
	assert.InDelta(t, 21.0/36, HitProbability(7), 1e-9)
	assert.InDelta(t, 1.0/36, HitProbability(12), 1e-9)
	assert.Zero(t, HitProbability(13))
	for tn := 3; tn <= 12; tn++ {
		assert.Less(t, HitProbability(tn), HitProbability(tn-1))
	}
}

func TestClusterTable(t *testing.T) {
	assert.Equal(t, 12, ClusterLookup(7, 20))
	assert.Equal(t, 20, ClusterLookup(12, 20))
	assert.Equal(t, 1, ClusterLookup(2, 2))
	assert.Equal(t, 4, ClusterLookup(8, 6))
	// a rack between two columns reads the smaller one
	assert.Equal(t, ClusterLookup(9, 6), ClusterLookup(9, 7))

	assert.Equal(t, 1, ExpectedClusterHits(2))
	assert.Equal(t, 3, ExpectedClusterHits(6))
	assert.Equal(t, 12, ExpectedClusterHits(20))
	assert.InDelta(t, 51.0/36, ClusterAverage(2), 1e-9)

	r := dice.NewScripted().Totals(11)
	roll, hits := ClusterHits(event.ClusterStandard, 10, r)
	assert.Equal(t, 11, roll)
	assert.Equal(t, 10, hits)
	assert.Zero(t, r.Remaining())

	roll, hits = ClusterHits(event.ClusterStandard, 1, dice.NewScripted())
	assert.Zero(t, roll)
	assert.Equal(t, 1, hits)
}

func TestWeaponArcs(t *testing.T) {
	tests := []struct {
		loc  unit.Location
		rear bool
		arc  hexgrid.Arc
		want bool
	}{
		{unit.CenterTorso, false, hexgrid.ArcFront, true},
		{unit.CenterTorso, false, hexgrid.ArcLeft, false},
		{unit.CenterTorso, true, hexgrid.ArcRear, true},
		{unit.CenterTorso, true, hexgrid.ArcFront, false},
		{unit.LeftArm, false, hexgrid.ArcLeft, true},
		{unit.LeftArm, false, hexgrid.ArcRight, false},
		{unit.RightArm, false, hexgrid.ArcRight, true},
		{unit.RightTorso, false, hexgrid.ArcRight, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeaponArcs(tt.loc, tt.rear, unit.Biped, tt.arc), "%s rear=%v into %s", tt.loc, tt.rear, tt.arc)
	}
}

func TestAttackArc(t *testing.T) {
	// blue faces south, so red to the south is in its front arc
	assert.Equal(t, hexgrid.ArcFront, AttackArc(blueHex, redHex, 3, 0))
	assert.Equal(t, hexgrid.ArcRear, AttackArc(blueHex, redHex, 0, 0))
	assert.Equal(t, hexgrid.ArcRear, AttackArc(blueHex, redHex, 0, 1))
	assert.Equal(t, hexgrid.ArcFront, AttackArc(blueHex, redHex, 4, 0))
}

func TestTorsoTwistWidensFrontArc(t *testing.T) {
	center := hexgrid.Coord{Col: 5, Row: 5}
	tests := []struct {
		twist int
		want  [6]hexgrid.Arc
	}{
		{0, [6]hexgrid.Arc{hexgrid.ArcFront, hexgrid.ArcFront, hexgrid.ArcRight, hexgrid.ArcRear, hexgrid.ArcLeft, hexgrid.ArcFront}},
		{1, [6]hexgrid.Arc{hexgrid.ArcFront, hexgrid.ArcFront, hexgrid.ArcFront, hexgrid.ArcRear, hexgrid.ArcLeft, hexgrid.ArcFront}},
		{-1, [6]hexgrid.Arc{hexgrid.ArcFront, hexgrid.ArcFront, hexgrid.ArcRight, hexgrid.ArcRear, hexgrid.ArcFront, hexgrid.ArcFront}},
	}
	for _, tt := range tests {
		for dir, want := range tt.want {
			attacker := hexgrid.Neighbor(center, dir)
			assert.Equal(t, want, AttackArc(center, attacker, 0, tt.twist), "twist %d, attacker on side %d", tt.twist, dir)
		}
	}
	// the widening follows the target's facing
	assert.Equal(t, hexgrid.ArcFront, AttackArc(center, hexgrid.Neighbor(center, 4), 2, 1))
	assert.Equal(t, hexgrid.ArcLeft, AttackArc(center, hexgrid.Neighbor(center, 0), 2, 1))
}
