package state

import (
	"errors"
	"fmt"
	"slices"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ErrIntegrity marks an event that cannot be applied to the current state.
// A log that produces it is corrupt; replay stops at the offending event.
var ErrIntegrity = errors.New("event log integrity violation")

func integrity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIntegrity, fmt.Sprintf(format, args...))
}

// armorEpsilon absorbs float noise when comparing half-point armor values.
const armorEpsilon = 1e-9

// Derive folds events from an empty state. Deriving the same log twice
// always gives identical states.
func Derive(events []event.Event) (*GameState, error) {
	g := New()
	for _, e := range events {
		if err := g.apply(e); err != nil {
			return nil, fmt.Errorf("apply event %d (%s): %w", e.Seq, e.Kind(), err)
		}
	}
	return g, nil
}

// Apply returns a new state with e applied. g is not modified.
func Apply(g *GameState, e event.Event) (*GameState, error) {
	next := g.Clone()
	if err := next.apply(e); err != nil {
		return nil, fmt.Errorf("apply event %d (%s): %w", e.Seq, e.Kind(), err)
	}
	return next, nil
}

// ApplyAll applies events in order to a copy of g.
func ApplyAll(g *GameState, events []event.Event) (*GameState, error) {
	next := g.Clone()
	for _, e := range events {
		if err := next.apply(e); err != nil {
			return nil, fmt.Errorf("apply event %d (%s): %w", e.Seq, e.Kind(), err)
		}
	}
	return next, nil
}

func (g *GameState) unit(id string) (*UnitState, error) {
	u, ok := g.Units[id]
	if !ok {
		return nil, integrity("unknown unit %q", id)
	}
	return u, nil
}

func (g *GameState) apply(e event.Event) error {
	if e.Seq != g.LastSeq+1 {
		return integrity("sequence %d follows %d", e.Seq, g.LastSeq)
	}
	if err := g.reduce(e.Payload); err != nil {
		return err
	}
	g.LastSeq = e.Seq
	return nil
}

// reduce handles every payload kind. A new payload type must be added here;
// the package tests fail for any kind that falls through to the default.
func (g *GameState) reduce(p event.Payload) error {
	switch p := p.(type) {
	case event.GameCreated:
		if g.GameID != "" {
			return integrity("game already created")
		}
		g.GameID, g.Seed, g.Rules = p.GameID, p.Seed, p.Rules
		g.Sides = slices.Clone(p.Sides)
		g.Phase = event.PhaseInitiative
		return nil

	case event.UnitDeployed:
		return g.deploy(p)

	case event.TurnStarted:
		if p.Turn != g.Turn+1 {
			return integrity("turn %d started after turn %d", p.Turn, g.Turn)
		}
		g.Turn = p.Turn
		for _, u := range g.Units {
			u.WeaponsFired = nil
			u.PhysicalLimbs = nil
			u.PhysicalMade = false
			u.Movement = Movement{}
			u.TorsoTwist = 0
			u.DamageThisPhase = 0
		}
		return nil

	case event.PhaseChanged:
		if p.From != g.Phase {
			return integrity("phase change from %s while in %s", p.From, g.Phase)
		}
		for _, id := range g.Order {
			if n := len(g.Units[id].PendingPSRs); n > 0 {
				return integrity("unit %s has %d unresolved PSRs at phase change", id, n)
			}
		}
		g.Phase = p.To
		for _, u := range g.Units {
			u.DamageThisPhase = 0
		}
		return nil

	case event.InitiativeRolled:
		g.Initiative = Initiative{Winner: p.Winner, Order: slices.Clone(p.Order)}
		return nil

	case event.GameEnded:
		g.Over, g.Winner, g.EndReason = true, p.Winner, p.Reason
		return nil

	case event.UnitMoved:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		u.Position, u.Facing, u.TorsoTwist = p.To, p.Facing, p.TorsoTwist
		u.Movement = Movement{Mode: p.Mode, Hexes: p.Hexes, MPUsed: p.MPUsed, Moved: true}
		return nil

	case event.UnitStoodUp:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		u.Prone = false
		return nil

	case event.AttackDeclared:
		u, err := g.unit(p.AttackerID)
		if err != nil {
			return err
		}
		if u.WeaponsFired == nil {
			u.WeaponsFired = make(map[string]bool)
		}
		u.WeaponsFired[p.WeaponID] = true
		return nil

	case event.AttackResolved, event.PhysicalAttackResolved, event.CriticalHitRolled, event.AmmoExplosionCheck:
		return nil

	case event.AmmoConsumed:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		i := u.Bin(p.BinID)
		if i < 0 {
			return integrity("unit %s has no ammo bin %q", p.UnitID, p.BinID)
		}
		if p.Remaining < 0 || p.Remaining >= u.Ammo[i].Remaining {
			return integrity("bin %s remaining %d after holding %d", p.BinID, p.Remaining, u.Ammo[i].Remaining)
		}
		u.Ammo[i].Remaining = p.Remaining
		return nil

	case event.HeatAdded:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		u.HeatThisTurn += p.Amount
		return nil

	case event.PhysicalAttackDeclared:
		u, err := g.unit(p.AttackerID)
		if err != nil {
			return err
		}
		u.PhysicalMade = true
		if p.Limb.Valid() {
			u.PhysicalLimbs = append(u.PhysicalLimbs, p.Limb)
		}
		return nil

	case event.DamageApplied:
		return g.damage(p)

	case event.LocationDestroyed:
		return g.loseLocation(p)

	case event.CriticalSlotHit:
		return g.slotHit(p)

	case event.AmmoExplosion:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		if p.BinID != "" {
			i := u.Bin(p.BinID)
			if i < 0 {
				return integrity("unit %s has no ammo bin %q", p.UnitID, p.BinID)
			}
			u.Ammo[i].Remaining = 0
		}
		if p.WeaponID != "" {
			u.destroyWeapon(p.WeaponID)
		}
		return nil

	case event.PilotHit:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		u.Pilot.Wounds = p.Total
		u.Pilot.Unconscious = !p.Conscious
		u.Pilot.Killed = u.Pilot.Killed || p.Killed
		return nil

	case event.PilotRecoveryRolled:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		if p.Recovered {
			u.Pilot.Unconscious = false
		}
		return nil

	case event.UnitDestroyed:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		if u.Destroyed {
			return integrity("unit %s destroyed twice", p.UnitID)
		}
		u.Destroyed, u.DestroyReason = true, p.Reason
		u.PendingPSRs = nil
		return nil

	case event.PSRTriggered:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		if p.Reason == event.PSRStandUp {
			return nil
		}
		u.PendingPSRs = append(u.PendingPSRs, PendingPSR{
			UnitID: p.UnitID, Reason: p.Reason, AdditionalModifier: p.AdditionalModifier, Source: p.Source,
		})
		return nil

	case event.PSRResolved:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		if p.Reason == event.PSRStandUp {
			return nil
		}
		if len(u.PendingPSRs) == 0 || u.PendingPSRs[0].Reason != p.Reason {
			return integrity("unit %s resolved %s PSR that is not next in its queue", p.UnitID, p.Reason)
		}
		if p.Passed {
			u.PendingPSRs = u.PendingPSRs[1:]
		} else {
			u.PendingPSRs = nil
		}
		return nil

	case event.PSRQueueCleared:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		u.PendingPSRs = nil
		return nil

	case event.UnitFell:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		u.Prone = true
		u.Facing = p.NewFacing
		u.TorsoTwist = 0
		u.PendingPSRs = nil
		return nil

	case event.HeatResolved:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		if p.Heat < 0 {
			return integrity("unit %s heat %d", p.UnitID, p.Heat)
		}
		u.Heat = p.Heat
		u.HeatThisTurn = 0
		return nil

	case event.ShutdownCheck:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		if p.Shutdown {
			u.Shutdown = true
		}
		return nil

	case event.StartupAttempt:
		u, err := g.unit(p.UnitID)
		if err != nil {
			return err
		}
		if p.Started {
			u.Shutdown = false
		}
		return nil

	default:
		return integrity("unhandled payload %T", p)
	}
}

func (g *GameState) deploy(p event.UnitDeployed) error {
	if g.GameID == "" {
		return integrity("unit %s deployed before game creation", p.UnitID)
	}
	if _, dup := g.Units[p.UnitID]; dup {
		return integrity("unit %s deployed twice", p.UnitID)
	}
	u := &UnitState{
		ID: p.UnitID, Name: p.Name, Side: p.Side, Tonnage: p.Tonnage, Config: p.Config,
		WalkMP: p.WalkMP, RunMP: p.RunMP, JumpMP: p.JumpMP,
		Gunnery: p.Gunnery, Piloting: p.Piloting,
		ArmorType: p.Armor, Gyro: p.Gyro,
		HeatSinks: p.HeatSinks, DoubleHeatSinks: p.DoubleHeatSinks,
		Armor: p.ArmorPoints, RearArmor: p.RearArmor,
		Structure: p.Structure, MaxStructure: p.Structure,
		Position: p.Position, Facing: p.Facing,
		Weapons: slices.Clone(p.Weapons),
	}
	if u.Config == "" {
		u.Config = unit.Biped
	}
	if u.ArmorType == "" {
		u.ArmorType = unit.ArmorStandard
	}
	if u.Gyro == "" {
		u.Gyro = unit.GyroStandard
	}
	for _, loc := range unit.Locations {
		u.SlotDestroyed[loc] = make([]bool, p.SlotCounts[loc])
	}
	for _, b := range p.Ammo {
		u.Ammo = append(u.Ammo, AmmoState{
			ID: b.ID, Location: b.Location, AmmoType: b.AmmoType,
			Remaining: b.Rounds, Max: b.Rounds, DamagePerRound: b.DamagePerRound,
			Explosive: b.Explosive, Containment: b.Containment,
		})
	}
	g.Units[p.UnitID] = u
	g.Order = append(g.Order, p.UnitID)
	return nil
}

func (g *GameState) damage(p event.DamageApplied) error {
	u, err := g.unit(p.UnitID)
	if err != nil {
		return err
	}
	if !p.Location.Valid() {
		return integrity("damage at invalid location %d", p.Location)
	}
	if p.ArmorDamage+p.StructureDamage+p.Overflow != p.Damage {
		return integrity("damage %d at %s does not balance (%d+%d+%d)",
			p.Damage, p.Location, p.ArmorDamage, p.StructureDamage, p.Overflow)
	}
	armor := &u.Armor[p.Location]
	if p.Rear && p.Location.HasRear() {
		armor = &u.RearArmor[p.Location]
	}
	if p.ArmorRemoved < 0 || p.ArmorRemoved > *armor+armorEpsilon {
		return integrity("remove %.1f armor from %s holding %.1f", p.ArmorRemoved, p.Location, *armor)
	}
	if p.StructureDamage < 0 || p.StructureDamage > u.Structure[p.Location] {
		return integrity("remove %d structure from %s holding %d", p.StructureDamage, p.Location, u.Structure[p.Location])
	}
	*armor -= p.ArmorRemoved
	if *armor < armorEpsilon {
		*armor = 0
	}
	u.Structure[p.Location] -= p.StructureDamage
	u.DamageThisPhase += p.ArmorDamage + p.StructureDamage
	return nil
}

func (g *GameState) loseLocation(p event.LocationDestroyed) error {
	u, err := g.unit(p.UnitID)
	if err != nil {
		return err
	}
	if !p.Location.Valid() {
		return integrity("destroy invalid location %d", p.Location)
	}
	if u.Lost[p.Location] {
		return integrity("unit %s lost %s twice", p.UnitID, p.Location)
	}
	loc := p.Location
	u.Lost[loc] = true
	u.Armor[loc], u.RearArmor[loc], u.Structure[loc] = 0, 0, 0
	for i := range u.SlotDestroyed[loc] {
		u.SlotDestroyed[loc][i] = true
	}
	u.Components.EngineHits += p.EngineHits
	for _, w := range u.Weapons {
		if w.Location == loc {
			u.destroyWeapon(w.ID)
		}
	}
	for i := range u.Ammo {
		if u.Ammo[i].Location == loc {
			u.Ammo[i].Remaining = 0
		}
	}
	return nil
}

func (g *GameState) slotHit(p event.CriticalSlotHit) error {
	u, err := g.unit(p.UnitID)
	if err != nil {
		return err
	}
	if !p.Location.Valid() || p.Slot < 0 {
		return integrity("critical hit at %s slot %d", p.Location, p.Slot)
	}
	flags := u.SlotDestroyed[p.Location]
	if p.Slot >= len(flags) {
		// Logs written before slot counts were recorded.
		grown := make([]bool, p.Slot+1)
		copy(grown, flags)
		flags = grown
	}
	if flags[p.Slot] {
		return integrity("unit %s %s slot %d hit twice", p.UnitID, p.Location, p.Slot)
	}
	flags[p.Slot] = true
	u.SlotDestroyed[p.Location] = flags

	c := &u.Components
	switch p.SlotKind {
	case unit.SlotEngine:
		c.EngineHits++
	case unit.SlotGyro:
		c.GyroHits++
	case unit.SlotCockpit:
		c.CockpitHit = true
	case unit.SlotSensors:
		c.SensorHits++
	case unit.SlotLifeSupport:
		c.LifeSupportHits++
	case unit.SlotActuator:
		if !slices.Contains(c.Actuators[p.Location], p.Actuator) {
			c.Actuators[p.Location] = append(c.Actuators[p.Location], p.Actuator)
		}
	case unit.SlotWeapon:
		u.destroyWeapon(p.Component)
	case unit.SlotHeatSink:
		c.HeatSinksDestroyed++
		if p.DoubleSink {
			c.DissipationLost += 2
		} else {
			c.DissipationLost++
		}
	case unit.SlotJumpJet:
		c.JumpJetsDestroyed++
	}
	return nil
}

func (u *UnitState) destroyWeapon(id string) {
	if u.Components.DestroyedWeapons == nil {
		u.Components.DestroyedWeapons = make(map[string]bool)
	}
	u.Components.DestroyedWeapons[id] = true
}

// Fold applies e to g in place. It is for owners of a private copy, such as
// a transaction building on a cloned state.
func (g *GameState) Fold(e event.Event) error {
	if err := g.apply(e); err != nil {
		return fmt.Errorf("apply event %d (%s): %w", e.Seq, e.Kind(), err)
	}
	return nil
}
