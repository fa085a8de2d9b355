package unit

import "fmt"

// ─── Slot layout helpers ────────────────────────────────────────────────────

func fill(n int) []SlotSpec {
	out := make([]SlotSpec, n)
	for i := range out {
		out[i] = SlotSpec{Kind: SlotEmpty}
	}
	return out
}

func actuators(names ...Actuator) []SlotSpec {
	out := make([]SlotSpec, len(names))
	for i, a := range names {
		out[i] = SlotSpec{Kind: SlotActuator, Actuator: a}
	}
	return out
}

func repeat(n int, s SlotSpec) []SlotSpec {
	out := make([]SlotSpec, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func pad(slots []SlotSpec, n int) []SlotSpec {
	if len(slots) < n {
		slots = append(slots, fill(n-len(slots))...)
	}
	return slots
}

// HeadSlots is the standard cockpit layout with one free slot.
func HeadSlots(free SlotSpec) []SlotSpec {
	if free.Kind == "" {
		free.Kind = SlotEmpty
	}
	return []SlotSpec{
		{Kind: SlotLifeSupport}, {Kind: SlotSensors}, {Kind: SlotCockpit},
		free,
		{Kind: SlotSensors}, {Kind: SlotLifeSupport},
	}
}

// CenterTorsoSlots lays out the engine around the gyro, followed by extras.
func CenterTorsoSlots(g GyroType, extra ...SlotSpec) []SlotSpec {
	gyroSlots := 4
	switch g {
	case GyroCompact:
		gyroSlots = 2
	case GyroXL:
		gyroSlots = 6
	}
	out := repeat(3, SlotSpec{Kind: SlotEngine})
	out = append(out, repeat(gyroSlots, SlotSpec{Kind: SlotGyro})...)
	out = append(out, repeat(3, SlotSpec{Kind: SlotEngine})...)
	out = append(out, extra...)
	return pad(out, 12)
}

// SideTorsoSlots places the engine's side-torso slots first for XL and
// light engines.
func SideTorsoSlots(e EngineType, extra ...SlotSpec) []SlotSpec {
	var out []SlotSpec
	switch e {
	case EngineXL:
		out = repeat(3, SlotSpec{Kind: SlotEngine})
	case EngineClanXL, EngineLight:
		out = repeat(2, SlotSpec{Kind: SlotEngine})
	}
	return pad(append(out, extra...), 12)
}

// ArmSlots is a full four-actuator arm followed by extras.
func ArmSlots(extra ...SlotSpec) []SlotSpec {
	out := actuators(Shoulder, UpperArm, LowerArm, Hand)
	return pad(append(out, extra...), 12)
}

// LegSlots is a four-actuator leg followed by extras.
func LegSlots(extra ...SlotSpec) []SlotSpec {
	out := actuators(Hip, UpperLeg, LowerLeg, Foot)
	return pad(append(out, extra...), 6)
}

// Mount returns the slots a weapon occupies.
func Mount(w Weapon) []SlotSpec {
	return repeat(WeaponSlots(w.Name), SlotSpec{Kind: SlotWeapon, Name: w.Name, Component: w.ID})
}

// Bin returns the single slot an ammunition ton occupies.
func Bin(b AmmoBin) SlotSpec {
	return SlotSpec{Kind: SlotAmmo, Name: b.AmmoType + " ammo", Component: b.ID}
}

// Sinks returns n heat sink slots.
func Sinks(n int) []SlotSpec {
	return repeat(n, SlotSpec{Kind: SlotHeatSink, Name: "Heat Sink"})
}

func concat(parts ...[]SlotSpec) []SlotSpec {
	var out []SlotSpec
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func mustWeapon(id, name string, loc Location) Weapon {
	w, ok := StandardWeapon(id, name, loc)
	if !ok {
		panic(fmt.Sprintf("unit: no standard profile for %q", name))
	}
	return w
}

func mustAmmo(id, ammoType string, loc Location) AmmoBin {
	b, ok := StandardAmmo(id, ammoType, loc)
	if !ok {
		panic(fmt.Sprintf("unit: no standard ammunition for %q", ammoType))
	}
	return b
}

// ─── Reference units ────────────────────────────────────────────────────────

// Hunchback4P is the all-laser Hunchback: eight medium lasers, a small laser
// and 23 single heat sinks.
func Hunchback4P(id string) Spec {
	s := Spec{
		ID: id, Chassis: "Hunchback", Model: "HBK-4P", Tonnage: 50, Config: Biped,
		WalkMP: 4, Engine: EngineStandard, Gyro: GyroStandard, Armor: ArmorStandard,
		HeatSinks:   23,
		ArmorPoints: [NumLocations]int{9, 26, 20, 20, 16, 16, 20, 20},
		RearArmor:   [NumLocations]int{CenterTorso: 5, LeftTorso: 4, RightTorso: 4},
		Pilot:       DefaultPilot,
	}
	var rt []SlotSpec
	for i := 1; i <= 6; i++ {
		w := mustWeapon(fmt.Sprintf("ml-rt-%d", i), "Medium Laser", RightTorso)
		s.Weapons = append(s.Weapons, w)
		rt = append(rt, Mount(w)...)
	}
	la := mustWeapon("ml-la", "Medium Laser", LeftArm)
	ra := mustWeapon("ml-ra", "Medium Laser", RightArm)
	sl := mustWeapon("sl-hd", "Small Laser", Head)
	s.Weapons = append(s.Weapons, la, ra, sl)

	s.Slots[Head] = HeadSlots(Mount(sl)[0])
	s.Slots[CenterTorso] = CenterTorsoSlots(GyroStandard, Sinks(2)...)
	s.Slots[LeftTorso] = SideTorsoSlots(EngineStandard, Sinks(7)...)
	s.Slots[RightTorso] = SideTorsoSlots(EngineStandard, concat(Sinks(2), rt)...)
	s.Slots[LeftArm] = ArmSlots(Mount(la)...)
	s.Slots[RightArm] = ArmSlots(Mount(ra)...)
	s.Slots[LeftLeg] = LegSlots(Sinks(2)...)
	s.Slots[RightLeg] = LegSlots(Sinks(2)...)
	return s
}

// Hunchback4G carries the AC/20 in the right torso with two tons of
// ammunition in the left torso and no CASE.
func Hunchback4G(id string) Spec {
	s := Spec{
		ID: id, Chassis: "Hunchback", Model: "HBK-4G", Tonnage: 50, Config: Biped,
		WalkMP: 4, Engine: EngineStandard, Gyro: GyroStandard, Armor: ArmorStandard,
		HeatSinks:   13,
		ArmorPoints: [NumLocations]int{9, 26, 20, 20, 16, 16, 20, 20},
		RearArmor:   [NumLocations]int{CenterTorso: 5, LeftTorso: 4, RightTorso: 4},
		Pilot:       DefaultPilot,
	}
	ac := mustWeapon("ac20-rt", "AC/20", RightTorso)
	la := mustWeapon("ml-la", "Medium Laser", LeftArm)
	ra := mustWeapon("ml-ra", "Medium Laser", RightArm)
	sl := mustWeapon("sl-hd", "Small Laser", Head)
	b1 := mustAmmo("ammo-ac20-1", "AC/20", LeftTorso)
	b2 := mustAmmo("ammo-ac20-2", "AC/20", LeftTorso)
	s.Weapons = []Weapon{ac, la, ra, sl}
	s.Ammo = []AmmoBin{b1, b2}

	s.Slots[Head] = HeadSlots(Mount(sl)[0])
	s.Slots[CenterTorso] = CenterTorsoSlots(GyroStandard)
	s.Slots[LeftTorso] = SideTorsoSlots(EngineStandard, Bin(b1), Bin(b2), Sinks(1)[0])
	s.Slots[RightTorso] = SideTorsoSlots(EngineStandard, concat(Mount(ac), Sinks(1))...)
	s.Slots[LeftArm] = ArmSlots(Mount(la)...)
	s.Slots[RightArm] = ArmSlots(Mount(ra)...)
	s.Slots[LeftLeg] = LegSlots()
	s.Slots[RightLeg] = LegSlots(Sinks(1)...)
	return s
}

// Atlas7D is the 100-ton assault reference with mixed ballistic, missile and
// energy weapons and two rear-facing lasers.
func Atlas7D(id string) Spec {
	s := Spec{
		ID: id, Chassis: "Atlas", Model: "AS7-D", Tonnage: 100, Config: Biped,
		WalkMP: 3, Engine: EngineStandard, Gyro: GyroStandard, Armor: ArmorStandard,
		HeatSinks:   20,
		ArmorPoints: [NumLocations]int{9, 47, 32, 32, 34, 34, 41, 41},
		RearArmor:   [NumLocations]int{CenterTorso: 14, LeftTorso: 10, RightTorso: 10},
		Pilot:       DefaultPilot,
	}
	ac := mustWeapon("ac20-rt", "AC/20", RightTorso)
	lrm := mustWeapon("lrm20-lt", "LRM 20", LeftTorso)
	srm := mustWeapon("srm6-lt", "SRM 6", LeftTorso)
	la := mustWeapon("ml-la", "Medium Laser", LeftArm)
	ra := mustWeapon("ml-ra", "Medium Laser", RightArm)
	r1 := mustWeapon("ml-ct-r1", "Medium Laser", CenterTorso)
	r2 := mustWeapon("ml-ct-r2", "Medium Laser", CenterTorso)
	r1.Rear, r2.Rear = true, true
	acAmmo := mustAmmo("ammo-ac20", "AC/20", LeftTorso)
	lrmAmmo1 := mustAmmo("ammo-lrm20-1", "LRM 20", LeftTorso)
	lrmAmmo2 := mustAmmo("ammo-lrm20-2", "LRM 20", LeftTorso)
	srmAmmo := mustAmmo("ammo-srm6", "SRM 6", LeftTorso)
	s.Weapons = []Weapon{ac, lrm, srm, la, ra, r1, r2}
	s.Ammo = []AmmoBin{acAmmo, lrmAmmo1, lrmAmmo2, srmAmmo}

	s.Slots[Head] = HeadSlots(SlotSpec{})
	s.Slots[CenterTorso] = CenterTorsoSlots(GyroStandard, concat(Mount(r1), Mount(r2))...)
	s.Slots[LeftTorso] = SideTorsoSlots(EngineStandard,
		concat(Mount(lrm), Mount(srm), []SlotSpec{Bin(acAmmo), Bin(lrmAmmo1), Bin(lrmAmmo2), Bin(srmAmmo)})...)
	s.Slots[RightTorso] = SideTorsoSlots(EngineStandard, concat(Mount(ac), Sinks(2))...)
	s.Slots[LeftArm] = ArmSlots(concat(Mount(la), Sinks(1))...)
	s.Slots[RightArm] = ArmSlots(concat(Mount(ra), Sinks(1))...)
	s.Slots[LeftLeg] = LegSlots(Sinks(2)...)
	s.Slots[RightLeg] = LegSlots(Sinks(2)...)
	return s
}

// Reference returns a built-in unit by model code.
func Reference(model, id string) (Spec, bool) {
	switch model {
	case "HBK-4P":
		return Hunchback4P(id), true
	case "HBK-4G":
		return Hunchback4G(id), true
	case "AS7-D":
		return Atlas7D(id), true
	}
	return Spec{}, false
}
