// Package unit describes a combat unit as it leaves construction: armor,
// structure, weapons, ammunition, the critical slot layout and the pilot.
//
// A Spec is read-only input to a game. Everything that changes during play
// lives in the derived state, never here.
package unit

import (
	"errors"
	"fmt"
	"math"
)

// ─── Component types ────────────────────────────────────────────────────────

type ArmorType string

const (
	ArmorStandard ArmorType = "standard"
	ArmorFerro    ArmorType = "ferro_fibrous"
	ArmorHardened ArmorType = "hardened"
)

type GyroType string

const (
	GyroStandard  GyroType = "standard"
	GyroXL        GyroType = "xl"
	GyroCompact   GyroType = "compact"
	GyroHeavyDuty GyroType = "heavy_duty"
)

// HitsToDestroy is the number of critical hits that knock the gyro out.
func (g GyroType) HitsToDestroy() int {
	if g == GyroHeavyDuty {
		return 3
	}
	return 2
}

type EngineType string

const (
	EngineStandard EngineType = "standard"
	EngineXL       EngineType = "xl"
	EngineClanXL   EngineType = "clan_xl"
	EngineLight    EngineType = "light"
	EngineCompact  EngineType = "compact"
)

// EngineHitsToDestroy is the same for every engine type.
const EngineHitsToDestroy = 3

// Containment is the ammunition explosion protection installed in a location.
type Containment string

const (
	ContainmentNone   Containment = ""
	ContainmentCASE   Containment = "case"
	ContainmentCASEII Containment = "case_ii"
)

// ─── Weapons and ammunition ─────────────────────────────────────────────────

// Category selects how a weapon's hits are resolved.
type Category string

const (
	// Direct weapons hit one location with their full damage.
	Direct Category = "direct"
	// MissileLRM racks roll on the cluster table and strike in 5-point groups.
	MissileLRM Category = "lrm"
	// MissileSRM racks roll on the cluster table and strike per missile.
	MissileSRM Category = "srm"
	// Melee weapons are only used in the physical attack phase. Their damage
	// follows from the unit's tonnage.
	Melee Category = "melee"
)

type Weapon struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Location Location `json:"location"`
	Rear     bool     `json:"rear,omitempty"`
	Category Category `json:"category"`

	// Damage is per hit for direct weapons and per missile for racks.
	Damage   int `json:"damage"`
	Heat     int `json:"heat"`
	RackSize int `json:"rackSize,omitempty"`

	MinRange int `json:"minRange,omitempty"`
	Short    int `json:"short"`
	Medium   int `json:"medium"`
	Long     int `json:"long"`

	ToHitModifier int `json:"toHitModifier,omitempty"`

	// AmmoType is empty for energy weapons.
	AmmoType string `json:"ammoType,omitempty"`
	// ExplosionDamage is non-zero for weapons that explode when critically hit.
	ExplosionDamage int `json:"explosionDamage,omitempty"`
}

// UsesAmmo reports whether firing consumes rounds.
func (w Weapon) UsesAmmo() bool { return w.AmmoType != "" }

type AmmoBin struct {
	ID             string   `json:"id"`
	Location       Location `json:"location"`
	AmmoType       string   `json:"ammoType"`
	Rounds         int      `json:"rounds"`
	DamagePerRound int      `json:"damagePerRound"`
	// Explosive is false for inert rounds such as gauss slugs.
	Explosive bool `json:"explosive"`
}

type Pilot struct {
	Name      string   `json:"name"`
	Gunnery   int      `json:"gunnery"`
	Piloting  int      `json:"piloting"`
	Abilities []string `json:"abilities,omitempty"`
}

// DefaultPilot is the regular 4/5 crew.
var DefaultPilot = Pilot{Name: "Regular", Gunnery: 4, Piloting: 5}

// ─── Spec ───────────────────────────────────────────────────────────────────

type Spec struct {
	ID      string `json:"id"`
	Chassis string `json:"chassis"`
	Model   string `json:"model"`
	Tonnage int    `json:"tonnage"`
	Config  Config `json:"config"`

	WalkMP int `json:"walkMP"`
	JumpMP int `json:"jumpMP,omitempty"`

	Engine EngineType `json:"engine"`
	Gyro   GyroType   `json:"gyro"`
	Armor  ArmorType  `json:"armor"`

	HeatSinks       int  `json:"heatSinks"`
	DoubleHeatSinks bool `json:"doubleHeatSinks,omitempty"`

	ArmorPoints [NumLocations]int `json:"armorPoints"`
	// RearArmor is only meaningful for the three torso locations.
	RearArmor [NumLocations]int `json:"rearArmor"`
	// Structure defaults to the standard table for the tonnage when all zero.
	Structure [NumLocations]int `json:"structure"`

	Weapons []Weapon                 `json:"weapons"`
	Ammo    []AmmoBin                `json:"ammo,omitempty"`
	Slots   [NumLocations][]SlotSpec `json:"slots"`

	Pilot  Pilot    `json:"pilot"`
	Quirks []string `json:"quirks,omitempty"`
}

// Name is the display name, "Chassis Model".
func (s Spec) Name() string {
	if s.Model == "" {
		return s.Chassis
	}
	return s.Chassis + " " + s.Model
}

// RunMP is one and a half times walking MP, rounded up.
func (s Spec) RunMP() int { return int(math.Ceil(float64(s.WalkMP) * 1.5)) }

// Dissipation is the heat shed per turn with every sink intact.
func (s Spec) Dissipation() int {
	if s.DoubleHeatSinks {
		return s.HeatSinks * 2
	}
	return s.HeatSinks
}

// StructurePoints returns the explicit structure or the tonnage default.
func (s Spec) StructurePoints() [NumLocations]int {
	if s.Structure != ([NumLocations]int{}) {
		return s.Structure
	}
	return StructureForTonnage(s.Tonnage, s.layout())
}

func (s Spec) layout() Config {
	if s.Config == "" {
		return Biped
	}
	return s.Config
}

// Layout is the chassis configuration, biped unless set.
func (s Spec) Layout() Config { return s.layout() }

// GyroType returns the gyro, standard unless set.
func (s Spec) GyroType() GyroType {
	if s.Gyro == "" {
		return GyroStandard
	}
	return s.Gyro
}

// Weapon looks a weapon up by ID.
func (s Spec) Weapon(id string) (Weapon, bool) {
	for _, w := range s.Weapons {
		if w.ID == id {
			return w, true
		}
	}
	return Weapon{}, false
}

// AmmoBin looks an ammunition bin up by ID.
func (s Spec) AmmoBin(id string) (AmmoBin, bool) {
	for _, b := range s.Ammo {
		if b.ID == id {
			return b, true
		}
	}
	return AmmoBin{}, false
}

// ─── Validation ─────────────────────────────────────────────────────────────

// ErrIntegrity marks unit data that cannot be resolved safely.
var ErrIntegrity = errors.New("unit data integrity violation")

// IntegrityError names the unit and the inconsistency found in it.
type IntegrityError struct {
	UnitID string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("unit %s: %s", e.UnitID, e.Detail)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

func (s Spec) integrity(format string, args ...any) error {
	return &IntegrityError{UnitID: s.ID, Detail: fmt.Sprintf(format, args...)}
}

// Validate checks the references a game depends on. It does not judge
// construction legality.
func (s Spec) Validate() error {
	if s.ID == "" {
		return s.integrity("missing id")
	}
	if s.Tonnage < 10 || s.Tonnage > 100 {
		return s.integrity("tonnage %d out of range", s.Tonnage)
	}
	if s.WalkMP < 0 || s.JumpMP < 0 {
		return s.integrity("negative movement")
	}
	if s.Pilot.Gunnery < 0 || s.Pilot.Gunnery > 8 || s.Pilot.Piloting < 0 || s.Pilot.Piloting > 8 {
		return s.integrity("pilot skills %d/%d out of range", s.Pilot.Gunnery, s.Pilot.Piloting)
	}
	weapons := make(map[string]Weapon, len(s.Weapons))
	for _, w := range s.Weapons {
		if w.ID == "" {
			return s.integrity("weapon %q has no id", w.Name)
		}
		if _, dup := weapons[w.ID]; dup {
			return s.integrity("duplicate weapon id %s", w.ID)
		}
		if !w.Location.Valid() {
			return s.integrity("weapon %s at invalid location", w.ID)
		}
		switch w.Category {
		case Direct, MissileLRM, MissileSRM, Melee:
		default:
			return s.integrity("weapon %s has unknown category %q", w.ID, w.Category)
		}
		if (w.Category == MissileLRM || w.Category == MissileSRM) && w.RackSize <= 0 {
			return s.integrity("missile weapon %s has no rack size", w.ID)
		}
		weapons[w.ID] = w
	}
	bins := make(map[string]AmmoBin, len(s.Ammo))
	for _, b := range s.Ammo {
		if b.ID == "" || !b.Location.Valid() {
			return s.integrity("ammo bin %q is malformed", b.ID)
		}
		if _, dup := bins[b.ID]; dup {
			return s.integrity("duplicate ammo bin id %s", b.ID)
		}
		if b.Rounds < 0 || b.DamagePerRound < 0 {
			return s.integrity("ammo bin %s has negative contents", b.ID)
		}
		bins[b.ID] = b
	}

	seen := make(map[string]bool)
	for _, loc := range Locations {
		if len(s.Slots[loc]) > maxSlots(loc) {
			return s.integrity("%s has %d critical slots", loc, len(s.Slots[loc]))
		}
		for i, sl := range s.Slots[loc] {
			switch sl.Kind {
			case SlotWeapon:
				w, ok := weapons[sl.Component]
				if !ok {
					return s.integrity("%s slot %d references missing weapon %q", loc, i, sl.Component)
				}
				if w.Location != loc {
					return s.integrity("weapon %s mounted in %s but slotted in %s", w.ID, w.Location, loc)
				}
			case SlotAmmo:
				b, ok := bins[sl.Component]
				if !ok {
					return s.integrity("%s slot %d references missing ammo bin %q", loc, i, sl.Component)
				}
				if b.Location != loc {
					return s.integrity("ammo bin %s located in %s but slotted in %s", b.ID, b.Location, loc)
				}
			case SlotActuator:
				if !sl.Actuator.valid() {
					return s.integrity("%s slot %d has unknown actuator %q", loc, i, sl.Actuator)
				}
			case SlotEmpty, SlotEngine, SlotGyro, SlotCockpit, SlotSensors, SlotLifeSupport,
				SlotHeatSink, SlotJumpJet, SlotCASE, SlotCASEII, SlotStructural:
			default:
				return s.integrity("%s slot %d has unknown kind %q", loc, i, sl.Kind)
			}
			if sl.Component != "" {
				seen[sl.Component] = true
			}
		}
	}
	for id := range weapons {
		if !seen[id] {
			return s.integrity("weapon %s occupies no critical slot", id)
		}
	}
	for id := range bins {
		if !seen[id] {
			return s.integrity("ammo bin %s occupies no critical slot", id)
		}
	}
	return nil
}

func maxSlots(loc Location) int {
	switch loc {
	case Head, LeftLeg, RightLeg:
		return 6
	default:
		return 12
	}
}
