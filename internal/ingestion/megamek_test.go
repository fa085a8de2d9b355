package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/sim"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

const hunchback = `Version:1.0
chassis:Hunchback
model:HBK-4G
mul id:1411
Config:Biped
techbase:Inner Sphere
era:2572
source:TRO 3039
quirk:imp_target_short
quirk:cramped_cockpit

Mass:50
Engine:200 Fusion Engine
Structure:IS Standard
Myomer:Standard
Gyro:Standard Gyro

Heat Sinks:13 Single
Walk MP:4
Jump MP:0

Armor:Standard(Inner Sphere)
LA armor:16
RA armor:16
LT armor:20
RT armor:20
CT armor:26
HD armor:9
LL armor:20
RL armor:20
RTL armor:4
RTR armor:4
RTC armor:5

Weapons:5
Autocannon/20, Right Torso
Medium Laser, Left Arm
Medium Laser, Right Arm
Small Laser, Head
Medium Laser (R), Center Torso

Left Arm:
Shoulder
Upper Arm Actuator
Lower Arm Actuator
Hand Actuator
Medium Laser
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-

Right Arm:
Shoulder
Upper Arm Actuator
Lower Arm Actuator
Hand Actuator
Medium Laser
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-

Left Torso:
IS Ammo AC/20
IS Ammo AC/20
Heat Sink
Guardian ECM Suite
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-
-Empty-

Right Torso:
Autocannon/20
Autocannon/20
Autocannon/20
Autocannon/20
Autocannon/20
Autocannon/20
Autocannon/20
Autocannon/20
Autocannon/20
Autocannon/20
Heat Sink
-Empty-

Center Torso:
Fusion Engine
Fusion Engine
Fusion Engine
Gyro
Gyro
Gyro
Gyro
Fusion Engine
Fusion Engine
Fusion Engine
Medium Laser (R)
-Empty-

Head:
Life Support
Sensors
Cockpit
Small Laser
Sensors
Life Support

Left Leg:
Hip
Upper Leg Actuator
Lower Leg Actuator
Foot Actuator
-Empty-
-Empty-

Right Leg:
Hip
Upper Leg Actuator
Lower Leg Actuator
Foot Actuator
Heat Sink
-Empty-

overview:The Hunchback is a brawler.
`

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(hunchback))
	require.NoError(t, err)

	assert.Equal(t, "Hunchback HBK-4G", d.FullName())
	assert.Equal(t, 50, d.Mass)
	assert.Equal(t, 200, d.EngineRating)
	assert.Equal(t, "Fusion Engine", d.EngineType)
	assert.Equal(t, 13, d.HeatSinkCount)
	assert.Equal(t, "Single", d.HeatSinkType)
	assert.Equal(t, 4, d.WalkMP)
	assert.Equal(t, 5, d.ArmorValues["RTC"])
	assert.Equal(t, 9, d.ArmorValues["HD"])
	assert.Equal(t, 160, d.TotalArmor())
	assert.Equal(t, []string{"imp_target_short", "cramped_cockpit"}, d.Quirks)

	assert.Len(t, d.Slots["Right Torso"], 12)
	assert.Len(t, d.Slots["Head"], 6)
	// the lore field closes the last block
	assert.Len(t, d.Slots["Right Leg"], 6)
}

func TestParseNeedsChassis(t *testing.T) {
	_, err := Parse(strings.NewReader("model:X-1\nMass:20\n"))
	assert.ErrorContains(t, err, "missing chassis")
}

func TestParseArmorValue(t *testing.T) {
	assert.Equal(t, 26, parseArmorValue("26"))
	assert.Equal(t, 12, parseArmorValue("Reactive(Inner Sphere):12"))
	assert.Zero(t, parseArmorValue("none"))
}

func TestToSpec(t *testing.T) {
	d, err := Parse(strings.NewReader(hunchback))
	require.NoError(t, err)
	conv, err := ToSpec(d, "hbk")
	require.NoError(t, err)
	s := conv.Spec

	assert.Equal(t, []string{"Left Torso: Guardian ECM Suite"}, conv.Skipped)
	assert.Equal(t, unit.Biped, s.Config)
	assert.Equal(t, unit.EngineStandard, s.Engine)
	assert.Equal(t, unit.GyroStandard, s.Gyro)
	assert.Equal(t, unit.ArmorStandard, s.Armor)
	assert.False(t, s.DoubleHeatSinks)
	assert.Equal(t, 26, s.ArmorPoints[unit.CenterTorso])
	assert.Equal(t, 5, s.RearArmor[unit.CenterTorso])
	assert.Equal(t, []string{"improved_targeting_short"}, s.Quirks)

	var ids []string
	for _, w := range s.Weapons {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"small-laser-hd-1", "medium-laser-ct-1", "ac20-rt-1", "medium-laser-la-1", "medium-laser-ra-1"}, ids)

	rear, ok := s.Weapon("medium-laser-ct-1")
	require.True(t, ok)
	assert.True(t, rear.Rear)
	ac, ok := s.Weapon("ac20-rt-1")
	require.True(t, ok)
	assert.Equal(t, 20, ac.Damage)
	assert.Equal(t, "ac/20", ac.AmmoType)
	assert.Equal(t, "Autocannon/20", ac.Name)

	require.Len(t, s.Ammo, 2)
	assert.Equal(t, "ammo-ac20-lt-1", s.Ammo[0].ID)
	assert.Equal(t, "ammo-ac20-lt-2", s.Ammo[1].ID)
	assert.Equal(t, 5, s.Ammo[0].Rounds)

	m, err := unit.BuildManifest(s)
	require.NoError(t, err)
	assert.Equal(t, unit.ContainmentNone, m.Containment(unit.LeftTorso))
	sl, ok := m.Slot(unit.RightTorso, 9)
	require.True(t, ok)
	assert.Equal(t, "ac20-rt-1", sl.Component)
	sl, ok = m.Slot(unit.RightTorso, 10)
	require.True(t, ok)
	assert.Equal(t, unit.SlotHeatSink, sl.Kind)
}

func TestConvertedUnitPlays(t *testing.T) {
	d, err := Parse(strings.NewReader(hunchback))
	require.NoError(t, err)
	conv, err := ToSpec(d, "blue")
	require.NoError(t, err)

	r, err := sim.New(sim.WithMaxTurns(3))
	require.NoError(t, err)
	res, err := r.Run(context.Background(), sim.Duel{Name: "mtf", Seed: 4, Red: unit.Hunchback4P("red"), Blue: conv.Spec})
	require.NoError(t, err)
	assert.True(t, res.Session.State().Over)
}

func TestUnsupportedConfig(t *testing.T) {
	_, err := ToSpec(&MTFData{Chassis: "Ostrich", Config: "LAM", Mass: 30}, "x")
	assert.ErrorIs(t, err, ErrUnsupported)

	cfg, err := configOf("Quad Omnimech")
	require.NoError(t, err)
	assert.Equal(t, unit.Quad, cfg)
}

func TestTypeMapping(t *testing.T) {
	tests := []struct {
		in   string
		want unit.EngineType
	}{
		{"Fusion Engine", unit.EngineStandard},
		{"XL Engine(IS)", unit.EngineXL},
		{"XL Engine(Clan)", unit.EngineClanXL},
		{"Light Fusion Engine", unit.EngineLight},
		{"Compact Engine", unit.EngineCompact},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EngineType(tt.in), tt.in)
	}
	assert.Equal(t, unit.GyroHeavyDuty, GyroType("Heavy Duty Gyro"))
	assert.Equal(t, unit.GyroXL, GyroType("XL Gyro"))
	assert.Equal(t, unit.ArmorHardened, ArmorType("Hardened Armor"))
	assert.Equal(t, unit.ArmorFerro, ArmorType("Ferro-Fibrous(Clan)"))
	assert.Equal(t, "ac/10", ammoType("ISAC10 Ammo"))
	assert.Equal(t, "lrm 20", ammoType("IS Ammo LRM-20"))
	assert.Equal(t, "ac/20", weaponKey("ISAC20"))
}
