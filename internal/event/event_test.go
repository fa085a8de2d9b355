package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

func TestRegistryCoversAllKinds(t *testing.T) {
	assert.Len(t, registry, len(AllKinds))
	for _, k := range AllKinds {
		p, err := New(k)
		require.NoError(t, err, k)
		assert.Equal(t, k, deref(p).Kind())
	}
	_, err := New("bogus.kind")
	assert.Error(t, err)
}

func TestLogRoundTrip(t *testing.T) {
	game := GameID("seed-7")
	events := []Event{
		{Seq: 1, ID: EventID(game, 1), Phase: PhaseInitiative, Payload: GameCreated{GameID: game.String(), Seed: 7, Sides: []string{"a", "b"}}},
		{Seq: 2, ID: EventID(game, 2), Turn: 1, Phase: PhaseWeaponAttack, Payload: AttackResolved{
			AttackID: "atk-1", AttackerID: "u1", TargetID: "u2", WeaponID: "ml",
			TargetNumber: 7, Modifiers: []Modifier{{Name: "gunnery", Value: 4}},
			Roll: dice.Roll{Dice: [2]int{3, 5}, Total: 8}, Hit: true,
		}},
		{Seq: 3, ID: EventID(game, 3), Turn: 1, Phase: PhaseWeaponAttack, Payload: DamageApplied{
			UnitID: "u2", Location: unit.LeftArm, DamageKind: DamageWeapon, Damage: 20,
			ArmorDamage: 5, ArmorRemoved: 2.5, StructureDamage: 8, Overflow: 7, TransferTo: unit.LeftTorso,
		}},
	}
	b, err := MarshalLog(events)
	require.NoError(t, err)

	assert.Contains(t, string(b), `"kind":"weapon"`)

	back, err := UnmarshalLog(b)
	require.NoError(t, err)
	assert.Equal(t, events, back)

	again, err := MarshalLog(back)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(again))
}

func TestUnmarshalLogRejectsGaps(t *testing.T) {
	_, err := UnmarshalLog([]byte(`[{"seq":2,"kind":"game.turn_started","payload":{"turn":1}}]`))
	assert.Error(t, err)
}

func TestUnmarshalDefaultsMissingFields(t *testing.T) {
	// An older log written before rear armor and containment existed.
	raw := `[{"seq":1,"kind":"game.unit_deployed","payload":{"unitId":"u1","tonnage":50}}]`
	events, err := UnmarshalLog([]byte(raw))
	require.NoError(t, err)
	d, ok := events[0].Payload.(UnitDeployed)
	require.True(t, ok)
	assert.Equal(t, "u1", d.UnitID)
	assert.Zero(t, d.RearArmor)
	assert.Empty(t, d.Ammo)
}

func TestEventIDStable(t *testing.T) {
	g := GameID("x")
	assert.Equal(t, EventID(g, 5), EventID(g, 5))
	assert.NotEqual(t, EventID(g, 5), EventID(g, 6))
	assert.NotEqual(t, GameID("x"), GameID("y"))
}

func TestPhaseNext(t *testing.T) {
	assert.Equal(t, PhaseMovement, PhaseInitiative.Next())
	assert.Equal(t, PhaseEnd, PhaseHeat.Next())
	assert.Equal(t, PhaseInitiative, PhaseEnd.Next())
}
