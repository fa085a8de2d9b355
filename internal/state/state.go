// Package state holds the game state derived from an event log. Nothing
// outside this package mutates a GameState; the reducer is the only writer.
package state

import (
	"maps"
	"slices"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// GameState is the fold of every event applied so far.
type GameState struct {
	GameID string      `json:"gameId"`
	Seed   uint64      `json:"seed"`
	Rules  event.Rules `json:"rules"`
	Sides  []string    `json:"sides"`

	Turn  int         `json:"turn"`
	Phase event.Phase `json:"phase"`

	// Order is deployment order; map iteration is never used for resolution.
	Order []string              `json:"order"`
	Units map[string]*UnitState `json:"units"`

	Initiative Initiative `json:"initiative"`

	Over      bool   `json:"over,omitempty"`
	Winner    string `json:"winner,omitempty"`
	EndReason string `json:"endReason,omitempty"`

	LastSeq uint64 `json:"lastSeq"`
}

type Initiative struct {
	Winner string   `json:"winner,omitempty"`
	Order  []string `json:"order,omitempty"`
}

// New returns the state before any event.
func New() *GameState {
	return &GameState{Units: make(map[string]*UnitState)}
}

// Unit returns the unit with id, or nil.
func (g *GameState) Unit(id string) *UnitState {
	if g == nil {
		return nil
	}
	return g.Units[id]
}

// UnitsInOrder returns units in deployment order.
func (g *GameState) UnitsInOrder() []*UnitState {
	out := make([]*UnitState, 0, len(g.Order))
	for _, id := range g.Order {
		if u, ok := g.Units[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// ActingOrder is the initiative order for the current turn, falling back to
// deployment order before the first initiative roll.
func (g *GameState) ActingOrder() []string {
	if len(g.Initiative.Order) > 0 {
		return g.Initiative.Order
	}
	return g.Order
}

// Operational reports the units of side that can still fight.
func (g *GameState) Operational(side string) []*UnitState {
	var out []*UnitState
	for _, u := range g.UnitsInOrder() {
		if u.Side == side && !u.Destroyed {
			out = append(out, u)
		}
	}
	return out
}

// Clone returns a deep copy.
func (g *GameState) Clone() *GameState {
	c := *g
	c.Sides = slices.Clone(g.Sides)
	c.Order = slices.Clone(g.Order)
	c.Initiative.Order = slices.Clone(g.Initiative.Order)
	c.Units = make(map[string]*UnitState, len(g.Units))
	for id, u := range g.Units {
		c.Units[id] = u.Clone()
	}
	return &c
}

// ─── Unit state ─────────────────────────────────────────────────────────────

type UnitState struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Side    string      `json:"side"`
	Tonnage int         `json:"tonnage"`
	Config  unit.Config `json:"config"`

	WalkMP   int `json:"walkMP"`
	RunMP    int `json:"runMP"`
	JumpMP   int `json:"jumpMP"`
	Gunnery  int `json:"gunnery"`
	Piloting int `json:"piloting"`

	ArmorType       unit.ArmorType `json:"armorType"`
	Gyro            unit.GyroType  `json:"gyro"`
	HeatSinks       int            `json:"heatSinks"`
	DoubleHeatSinks bool           `json:"doubleHeatSinks,omitempty"`

	Armor        [unit.NumLocations]float64 `json:"armor"`
	RearArmor    [unit.NumLocations]float64 `json:"rearArmor"`
	Structure    [unit.NumLocations]int     `json:"structure"`
	MaxStructure [unit.NumLocations]int     `json:"maxStructure"`
	Lost         [unit.NumLocations]bool    `json:"lost"`
	// SlotDestroyed flags critical slots by manifest index.
	SlotDestroyed [unit.NumLocations][]bool `json:"slotDestroyed"`

	Components ComponentDamage     `json:"components"`
	Weapons    []event.WeaponMount `json:"weapons"`
	Ammo       []AmmoState         `json:"ammo"`

	Heat         int   `json:"heat"`
	HeatThisTurn int   `json:"heatThisTurn"`
	Prone        bool  `json:"prone"`
	Shutdown     bool  `json:"shutdown"`
	Pilot        Pilot `json:"pilot"`

	PendingPSRs     []PendingPSR `json:"pendingPSRs"`
	DamageThisPhase int          `json:"damageThisPhase"`

	Position   hexgrid.Coord `json:"position"`
	Facing     int           `json:"facing"`
	TorsoTwist int           `json:"torsoTwist"`
	Movement   Movement      `json:"movement"`

	WeaponsFired  map[string]bool `json:"weaponsFired,omitempty"`
	PhysicalLimbs []unit.Location `json:"physicalLimbs,omitempty"`
	PhysicalMade  bool            `json:"physicalMade,omitempty"`

	Destroyed     bool                `json:"destroyed"`
	DestroyReason event.DestroyReason `json:"destroyReason,omitempty"`
}

type ComponentDamage struct {
	EngineHits      int  `json:"engineHits"`
	GyroHits        int  `json:"gyroHits"`
	SensorHits      int  `json:"sensorHits"`
	LifeSupportHits int  `json:"lifeSupportHits"`
	CockpitHit      bool `json:"cockpitHit"`

	Actuators [unit.NumLocations][]unit.Actuator `json:"actuators"`

	HeatSinksDestroyed int `json:"heatSinksDestroyed"`
	DissipationLost    int `json:"dissipationLost"`
	JumpJetsDestroyed  int `json:"jumpJetsDestroyed"`

	DestroyedWeapons map[string]bool `json:"destroyedWeapons,omitempty"`
}

type AmmoState struct {
	ID             string           `json:"id"`
	Location       unit.Location    `json:"location"`
	AmmoType       string           `json:"ammoType"`
	Remaining      int              `json:"remaining"`
	Max            int              `json:"max"`
	DamagePerRound int              `json:"damagePerRound"`
	Explosive      bool             `json:"explosive"`
	Containment    unit.Containment `json:"containment,omitempty"`
}

// Pilot is stored so that the zero value is a healthy, conscious pilot.
type Pilot struct {
	Wounds      int  `json:"wounds"`
	Unconscious bool `json:"unconscious,omitempty"`
	Killed      bool `json:"killed,omitempty"`
}

type PendingPSR struct {
	UnitID             string          `json:"unitId"`
	Reason             event.PSRReason `json:"reason"`
	AdditionalModifier int             `json:"additionalModifier"`
	Source             string          `json:"source,omitempty"`
}

type Movement struct {
	Mode   event.MoveMode `json:"mode"`
	Hexes  int            `json:"hexes"`
	MPUsed int            `json:"mpUsed"`
	Moved  bool           `json:"moved"`
}

// Clone returns a deep copy.
func (u *UnitState) Clone() *UnitState {
	c := *u
	for i := range u.SlotDestroyed {
		c.SlotDestroyed[i] = slices.Clone(u.SlotDestroyed[i])
	}
	for i := range u.Components.Actuators {
		c.Components.Actuators[i] = slices.Clone(u.Components.Actuators[i])
	}
	c.Components.DestroyedWeapons = maps.Clone(u.Components.DestroyedWeapons)
	c.Weapons = slices.Clone(u.Weapons)
	c.Ammo = slices.Clone(u.Ammo)
	c.PendingPSRs = slices.Clone(u.PendingPSRs)
	c.WeaponsFired = maps.Clone(u.WeaponsFired)
	c.PhysicalLimbs = slices.Clone(u.PhysicalLimbs)
	return &c
}

// ─── Queries ────────────────────────────────────────────────────────────────

// ArmorAt returns the armor protecting loc from the front or the rear.
func (u *UnitState) ArmorAt(loc unit.Location, rear bool) float64 {
	if rear && loc.HasRear() {
		return u.RearArmor[loc]
	}
	return u.Armor[loc]
}

// WeaponMount returns the mount for weapon id.
func (u *UnitState) WeaponMount(id string) (event.WeaponMount, bool) {
	for _, w := range u.Weapons {
		if w.ID == id {
			return w, true
		}
	}
	return event.WeaponMount{}, false
}

// WeaponDestroyed reports whether a weapon can no longer fire.
func (u *UnitState) WeaponDestroyed(id string) bool {
	if u.Components.DestroyedWeapons[id] {
		return true
	}
	if w, ok := u.WeaponMount(id); ok {
		return u.Lost[w.Location]
	}
	return false
}

// Bin returns the index of ammo bin id, or -1.
func (u *UnitState) Bin(id string) int {
	for i, b := range u.Ammo {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// NextBin returns the index of the first non-empty bin of ammoType, or -1.
func (u *UnitState) NextBin(ammoType string) int {
	for i, b := range u.Ammo {
		if b.AmmoType == ammoType && b.Remaining > 0 && !u.Lost[b.Location] {
			return i
		}
	}
	return -1
}

// ActuatorHit reports whether actuator a in loc is destroyed.
func (u *UnitState) ActuatorHit(loc unit.Location, a unit.Actuator) bool {
	if !loc.Valid() {
		return false
	}
	return slices.Contains(u.Components.Actuators[loc], a)
}

// LegsLost counts destroyed legs.
func (u *UnitState) LegsLost() int {
	n := 0
	for _, l := range u.layout().Legs() {
		if u.Lost[l] {
			n++
		}
	}
	return n
}

func (u *UnitState) layout() unit.Config {
	if u.Config == "" {
		return unit.Biped
	}
	return u.Config
}

// Layout returns the chassis configuration.
func (u *UnitState) Layout() unit.Config { return u.layout() }

// GyroDestroyed reports whether the gyro has taken its limit of hits.
func (u *UnitState) GyroDestroyed() bool {
	return u.Components.GyroHits >= u.gyroType().HitsToDestroy()
}

func (u *UnitState) gyroType() unit.GyroType {
	if u.Gyro == "" {
		return unit.GyroStandard
	}
	return u.Gyro
}

// Dissipation is the heat shed in the heat phase after sink losses.
func (u *UnitState) Dissipation() int {
	per := 1
	if u.DoubleHeatSinks {
		per = 2
	}
	d := u.HeatSinks*per - u.Components.DissipationLost
	if d < 0 {
		return 0
	}
	return d
}

// CanAct reports whether the unit can move or attack at all.
func (u *UnitState) CanAct() bool {
	return !u.Destroyed && !u.Shutdown && !u.Pilot.Unconscious && !u.Pilot.Killed
}

// EffectiveJumpMP is jump MP after destroyed jump jets.
func (u *UnitState) EffectiveJumpMP() int {
	j := u.JumpMP - u.Components.JumpJetsDestroyed
	if j < 0 {
		return 0
	}
	return j
}

// Operational is the inverse of Destroyed, for readability at call sites.
func (u *UnitState) Operational() bool { return !u.Destroyed }
