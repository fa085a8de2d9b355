package event

import (
	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// Payload is implemented only by the event structs in this package. Each
// payload carries the data needed to reproduce its effect on state without
// re-rolling anything.
type Payload interface {
	Kind() Kind
	isPayload()
}

type sealed struct{}

func (sealed) isPayload() {}

// ─── Game lifecycle ─────────────────────────────────────────────────────────

type GameCreated struct {
	sealed
	GameID string   `json:"gameId"`
	Seed   uint64   `json:"seed"`
	Rules  Rules    `json:"rules"`
	Sides  []string `json:"sides"`
}

// WeaponMount is the part of a weapon profile the state needs.
type WeaponMount struct {
	ID       string        `json:"id"`
	Location unit.Location `json:"location"`
}

// AmmoBinState is an ammunition bin as deployed.
type AmmoBinState struct {
	ID             string           `json:"id"`
	Location       unit.Location    `json:"location"`
	AmmoType       string           `json:"ammoType"`
	Rounds         int              `json:"rounds"`
	DamagePerRound int              `json:"damagePerRound"`
	Explosive      bool             `json:"explosive"`
	Containment    unit.Containment `json:"containment,omitempty"`
}

type UnitDeployed struct {
	sealed
	UnitID   string         `json:"unitId"`
	Name     string         `json:"name"`
	Side     string         `json:"side"`
	Tonnage  int            `json:"tonnage"`
	Config   unit.Config    `json:"config"`
	Position hexgrid.Coord  `json:"position"`
	Facing   int            `json:"facing"`
	WalkMP   int            `json:"walkMP"`
	RunMP    int            `json:"runMP"`
	JumpMP   int            `json:"jumpMP"`
	Gunnery  int            `json:"gunnery"`
	Piloting int            `json:"piloting"`
	Armor    unit.ArmorType `json:"armorType"`
	Gyro     unit.GyroType  `json:"gyro"`

	HeatSinks       int  `json:"heatSinks"`
	DoubleHeatSinks bool `json:"doubleHeatSinks,omitempty"`

	ArmorPoints [unit.NumLocations]float64 `json:"armorPoints"`
	RearArmor   [unit.NumLocations]float64 `json:"rearArmor"`
	Structure   [unit.NumLocations]int     `json:"structure"`
	SlotCounts  [unit.NumLocations]int     `json:"slotCounts"`

	Weapons []WeaponMount  `json:"weapons"`
	Ammo    []AmmoBinState `json:"ammo,omitempty"`
}

type TurnStarted struct {
	sealed
	Turn int `json:"turn"`
}

type PhaseChanged struct {
	sealed
	From Phase `json:"from"`
	To   Phase `json:"to"`
}

type InitiativeRoll struct {
	Side string    `json:"side"`
	Roll dice.Roll `json:"roll"`
}

type InitiativeRolled struct {
	sealed
	Rolls []InitiativeRoll `json:"rolls"`
	// Winner moves last and fires last.
	Winner string `json:"winner"`
	// Order is the unit order for movement and declarations.
	Order []string `json:"order"`
}

type GameEnded struct {
	sealed
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason"`
}

// ─── Movement ───────────────────────────────────────────────────────────────

type UnitMoved struct {
	sealed
	UnitID     string        `json:"unitId"`
	Mode       MoveMode      `json:"mode"`
	From       hexgrid.Coord `json:"from"`
	To         hexgrid.Coord `json:"to"`
	Facing     int           `json:"facing"`
	Hexes      int           `json:"hexes"`
	MPUsed     int           `json:"mpUsed"`
	TorsoTwist int           `json:"torsoTwist,omitempty"`
}

type UnitStoodUp struct {
	sealed
	UnitID string `json:"unitId"`
}

// ─── Attacks ────────────────────────────────────────────────────────────────

type AttackDeclared struct {
	sealed
	AttackID   string      `json:"attackId"`
	AttackerID string      `json:"attackerId"`
	TargetID   string      `json:"targetId"`
	WeaponID   string      `json:"weaponId"`
	Range      int         `json:"range"`
	Arc        hexgrid.Arc `json:"arc"`
}

type AttackResolved struct {
	sealed
	AttackID     string     `json:"attackId"`
	AttackerID   string     `json:"attackerId"`
	TargetID     string     `json:"targetId"`
	WeaponID     string     `json:"weaponId"`
	TargetNumber int        `json:"targetNumber"`
	Modifiers    []Modifier `json:"modifiers"`
	Roll         dice.Roll  `json:"roll"`
	Hit          bool       `json:"hit"`
	// ClusterRoll is zero for direct weapons and for the expected table.
	ClusterRoll int `json:"clusterRoll,omitempty"`
	ClusterHits int `json:"clusterHits,omitempty"`
}

type AmmoConsumed struct {
	sealed
	UnitID    string `json:"unitId"`
	BinID     string `json:"binId"`
	WeaponID  string `json:"weaponId"`
	Remaining int    `json:"remaining"`
}

type HeatAdded struct {
	sealed
	UnitID string `json:"unitId"`
	Amount int    `json:"amount"`
	Source string `json:"source"`
}

type PhysicalAttackDeclared struct {
	sealed
	AttackID   string        `json:"attackId"`
	AttackerID string        `json:"attackerId"`
	TargetID   string        `json:"targetId"`
	Type       PhysicalType  `json:"type"`
	Limb       unit.Location `json:"limb"`
}

type PhysicalAttackResolved struct {
	sealed
	AttackID     string       `json:"attackId"`
	AttackerID   string       `json:"attackerId"`
	TargetID     string       `json:"targetId"`
	Type         PhysicalType `json:"type"`
	TargetNumber int          `json:"targetNumber"`
	Modifiers    []Modifier   `json:"modifiers"`
	Roll         dice.Roll    `json:"roll"`
	Hit          bool         `json:"hit"`
	Damage       int          `json:"damage"`
	SelfDamage   int          `json:"selfDamage,omitempty"`
}

// ─── Damage ─────────────────────────────────────────────────────────────────

// DamageApplied is one step of the damage chain at one location.
// ArmorDamage + StructureDamage + Overflow always equals Damage.
type DamageApplied struct {
	sealed
	UnitID     string        `json:"unitId"`
	Location   unit.Location `json:"location"`
	Rear       bool          `json:"rear,omitempty"`
	DamageKind DamageKind    `json:"kind"`
	Source     string        `json:"source,omitempty"`

	Damage          int     `json:"damage"`
	ArmorDamage     int     `json:"armorDamage"`
	ArmorRemoved    float64 `json:"armorRemoved"`
	StructureDamage int     `json:"structureDamage"`
	Overflow        int     `json:"overflow"`
	// TransferTo is where Overflow continues, or none when the chain ends.
	TransferTo unit.Location `json:"transferTo"`

	ArmorAfter     float64 `json:"armorAfter"`
	StructureAfter int     `json:"structureAfter"`
	// Incoming is the raw amount when a cap reduced Damage: the head limit
	// for a single hit, or explosion containment.
	Incoming int `json:"incoming,omitempty"`
	// LocationRoll opens a chain that began with a hit location roll.
	// CriticalCandidate marks a 2 or 12 on the weapon table.
	LocationRoll      int  `json:"locationRoll,omitempty"`
	CriticalCandidate bool `json:"criticalCandidate,omitempty"`
}

type LocationDestroyed struct {
	sealed
	UnitID   string        `json:"unitId"`
	Location unit.Location `json:"location"`
	Cause    LocationCause `json:"cause"`
	// EngineHits is the number of engine slots lost with the location.
	EngineHits int `json:"engineHits,omitempty"`
}

type CriticalHitRolled struct {
	sealed
	UnitID       string        `json:"unitId"`
	Location     unit.Location `json:"location"`
	Rolls        []int         `json:"rolls,omitempty"`
	Crits        int           `json:"crits"`
	Effect       CritEffect    `json:"effect,omitempty"`
	ThroughArmor bool          `json:"throughArmor,omitempty"`
	Hardened     bool          `json:"hardened,omitempty"`
	Forced       bool          `json:"forced,omitempty"`
}

type CriticalSlotHit struct {
	sealed
	UnitID    string        `json:"unitId"`
	Location  unit.Location `json:"location"`
	Slot      int           `json:"slot"`
	SlotKind  unit.SlotKind `json:"slotKind"`
	Component string        `json:"component,omitempty"`
	Actuator  unit.Actuator `json:"actuator,omitempty"`
	// DoubleSink is set for double heat sink hits.
	DoubleSink bool `json:"doubleSink,omitempty"`
}

// AmmoExplosion covers both ammunition bins and explosive weapons; exactly
// one of BinID and WeaponID is set.
type AmmoExplosion struct {
	sealed
	UnitID      string           `json:"unitId"`
	BinID       string           `json:"binId,omitempty"`
	WeaponID    string           `json:"weaponId,omitempty"`
	Location    unit.Location    `json:"location"`
	Rounds      int              `json:"rounds"`
	Damage      int              `json:"damage"`
	Containment unit.Containment `json:"containment,omitempty"`
	Cause       string           `json:"cause"`
}

type PilotHit struct {
	sealed
	UnitID string `json:"unitId"`
	Wounds int    `json:"wounds"`
	Total  int    `json:"total"`
	Source string `json:"source"`

	ConsciousnessTarget int  `json:"consciousnessTarget,omitempty"`
	ConsciousnessRoll   int  `json:"consciousnessRoll,omitempty"`
	Conscious           bool `json:"conscious"`
	Killed              bool `json:"killed,omitempty"`
}

// PilotRecoveryRolled is the end-of-turn roll an unconscious pilot makes to
// come round, against the same target as staying conscious.
type PilotRecoveryRolled struct {
	sealed
	UnitID       string    `json:"unitId"`
	Wounds       int       `json:"wounds"`
	TargetNumber int       `json:"targetNumber"`
	Roll         dice.Roll `json:"roll"`
	Recovered    bool      `json:"recovered"`
}

type UnitDestroyed struct {
	sealed
	UnitID string        `json:"unitId"`
	Reason DestroyReason `json:"reason"`
}

// ─── Piloting skill rolls ───────────────────────────────────────────────────

type PSRTriggered struct {
	sealed
	UnitID             string    `json:"unitId"`
	Reason             PSRReason `json:"reason"`
	AdditionalModifier int       `json:"additionalModifier"`
	Source             string    `json:"source,omitempty"`
}

type PSRResolved struct {
	sealed
	UnitID       string     `json:"unitId"`
	Reason       PSRReason  `json:"reason"`
	TargetNumber int        `json:"targetNumber"`
	Modifiers    []Modifier `json:"modifiers"`
	Roll         dice.Roll  `json:"roll"`
	Passed       bool       `json:"passed"`
	// Automatic is set when no dice were thrown.
	Automatic bool `json:"automatic,omitempty"`
}

type PSRQueueCleared struct {
	sealed
	UnitID  string `json:"unitId"`
	Dropped int    `json:"dropped"`
	Why     string `json:"why"`
}

type UnitFell struct {
	sealed
	UnitID     string      `json:"unitId"`
	Height     int         `json:"height"`
	Damage     int         `json:"damage"`
	FacingRoll int         `json:"facingRoll"`
	NewFacing  int         `json:"newFacing"`
	Side       hexgrid.Arc `json:"side"`
}

// ─── Heat ───────────────────────────────────────────────────────────────────

type HeatResolved struct {
	sealed
	UnitID     string `json:"unitId"`
	Generated  int    `json:"generated"`
	Dissipated int    `json:"dissipated"`
	Heat       int    `json:"heat"`
}

type ShutdownCheck struct {
	sealed
	UnitID       string    `json:"unitId"`
	Heat         int       `json:"heat"`
	TargetNumber int       `json:"targetNumber"`
	Roll         dice.Roll `json:"roll"`
	Automatic    bool      `json:"automatic,omitempty"`
	Shutdown     bool      `json:"shutdown"`
}

type StartupAttempt struct {
	sealed
	UnitID       string    `json:"unitId"`
	Heat         int       `json:"heat"`
	TargetNumber int       `json:"targetNumber"`
	Roll         dice.Roll `json:"roll"`
	Automatic    bool      `json:"automatic,omitempty"`
	Started      bool      `json:"started"`
}

type AmmoExplosionCheck struct {
	sealed
	UnitID       string    `json:"unitId"`
	Heat         int       `json:"heat"`
	TargetNumber int       `json:"targetNumber"`
	Roll         dice.Roll `json:"roll"`
	Exploded     bool      `json:"exploded"`
}
