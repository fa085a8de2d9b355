package unit

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceUnitsValidate(t *testing.T) {
	for _, model := range []string{"HBK-4P", "HBK-4G", "AS7-D"} {
		s, ok := Reference(model, "u1")
		require.True(t, ok, model)
		assert.NoError(t, s.Validate(), model)
	}
}

func TestTransferChain(t *testing.T) {
	tests := []struct {
		from, want Location
	}{
		{LeftArm, LeftTorso},
		{RightArm, RightTorso},
		{LeftLeg, LeftTorso},
		{RightLeg, RightTorso},
		{LeftTorso, CenterTorso},
		{RightTorso, CenterTorso},
		{CenterTorso, NoLocation},
		{Head, NoLocation},
	}
	for _, tt := range tests {
		if got := tt.from.TransferTarget(); got != tt.want {
			t.Errorf("%s.TransferTarget() = %s, want %s", tt.from, got, tt.want)
		}
	}
	assert.Equal(t, LeftArm, LeftTorso.AttachedLimb())
	assert.Equal(t, NoLocation, CenterTorso.AttachedLimb())
}

func TestLocationText(t *testing.T) {
	b, err := json.Marshal(map[string]Location{"a": RightTorso, "b": NoLocation})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"RT","b":"none"}`, string(b))

	var back map[string]Location
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, RightTorso, back["a"])
	assert.Equal(t, NoLocation, back["b"])

	_, err = ParseLocation("XX")
	assert.Error(t, err)
}

func TestQuadLegs(t *testing.T) {
	assert.True(t, Quad.IsLeg(LeftArm))
	assert.False(t, Quad.IsArm(LeftArm))
	assert.True(t, Biped.IsArm(LeftArm))
	assert.Len(t, Quad.Legs(), 4)

	is := StructureForTonnage(50, Quad)
	assert.Equal(t, is[LeftLeg], is[LeftArm])
}

func TestStructureRoundsDown(t *testing.T) {
	assert.Equal(t, StructureForTonnage(50, Biped), StructureForTonnage(52, Biped))
	assert.Equal(t, 3, StructureForTonnage(100, Biped)[Head])
}

func TestValidateRejectsDanglingSlot(t *testing.T) {
	s := Hunchback4P("u1")
	s.Slots[LeftArm][4] = SlotSpec{Kind: SlotWeapon, Component: "missing"}
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegrity))

	var ie *IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "u1", ie.UnitID)
}

func TestValidateRejectsUnslottedAmmo(t *testing.T) {
	s := Hunchback4G("u1")
	s.Ammo = append(s.Ammo, AmmoBin{ID: "loose", Location: LeftTorso, AmmoType: "ac/20", Rounds: 5, DamagePerRound: 20, Explosive: true})
	assert.ErrorIs(t, s.Validate(), ErrIntegrity)
}

func TestManifestHittable(t *testing.T) {
	m, err := BuildManifest(Hunchback4G("u1"))
	require.NoError(t, err)

	// Left torso: two ammo bins and a heat sink, the rest empty.
	all := m.Hittable(LeftTorso, nil)
	assert.Equal(t, []int{0, 1, 2}, all)

	destroyed := make([]bool, m.Count(LeftTorso))
	destroyed[1] = true
	assert.Equal(t, []int{0, 2}, m.Hittable(LeftTorso, destroyed))
	assert.Equal(t, ContainmentNone, m.Containment(LeftTorso))
	assert.Equal(t, 6, m.CountKind(CenterTorso, SlotEngine, nil))
}

func TestManifestContainment(t *testing.T) {
	s := Hunchback4G("u1")
	s.Slots[LeftTorso][3] = SlotSpec{Kind: SlotCASE}
	m, err := BuildManifest(s)
	require.NoError(t, err)
	assert.Equal(t, ContainmentCASE, m.Containment(LeftTorso))

	s.Slots[LeftTorso][4] = SlotSpec{Kind: SlotCASEII}
	m, err = BuildManifest(s)
	require.NoError(t, err)
	assert.Equal(t, ContainmentCASEII, m.Containment(LeftTorso))
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"LRM-20":        "lrm 20",
		"ISLRM20":       "lrm 20",
		"Medium Laser":  "medium laser",
		"Autocannon/20": "ac/20",
		"  SRM 6 ":      "srm 6",
	}
	for in, want := range tests {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGyroHitsToDestroy(t *testing.T) {
	assert.Equal(t, 2, GyroStandard.HitsToDestroy())
	assert.Equal(t, 3, GyroHeavyDuty.HitsToDestroy())
}
