// Package event defines the append-only combat log: a closed set of payload
// types, the envelope every payload travels in, and the JSON record format
// used to store and replay logs.
package event

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies a payload type in serialized logs.
type Kind string

const (
	KindGameCreated            Kind = "game.created"
	KindUnitDeployed           Kind = "game.unit_deployed"
	KindTurnStarted            Kind = "game.turn_started"
	KindPhaseChanged           Kind = "game.phase_changed"
	KindInitiativeRolled       Kind = "game.initiative_rolled"
	KindGameEnded              Kind = "game.ended"
	KindUnitMoved              Kind = "move.unit_moved"
	KindUnitStoodUp            Kind = "move.unit_stood_up"
	KindAttackDeclared         Kind = "attack.declared"
	KindAttackResolved         Kind = "attack.resolved"
	KindAmmoConsumed           Kind = "attack.ammo_consumed"
	KindHeatAdded              Kind = "heat.added"
	KindPhysicalAttackDeclared Kind = "physical.declared"
	KindPhysicalAttackResolved Kind = "physical.resolved"
	KindDamageApplied          Kind = "damage.applied"
	KindLocationDestroyed      Kind = "damage.location_destroyed"
	KindCriticalHitRolled      Kind = "critical.rolled"
	KindCriticalSlotHit        Kind = "critical.slot_hit"
	KindAmmoExplosion          Kind = "critical.ammo_explosion"
	KindPilotHit               Kind = "pilot.hit"
	KindPilotRecoveryRolled    Kind = "pilot.recovery_rolled"
	KindUnitDestroyed          Kind = "unit.destroyed"
	KindPSRTriggered           Kind = "psr.triggered"
	KindPSRResolved            Kind = "psr.resolved"
	KindPSRQueueCleared        Kind = "psr.queue_cleared"
	KindUnitFell               Kind = "psr.unit_fell"
	KindHeatResolved           Kind = "heat.resolved"
	KindShutdownCheck          Kind = "heat.shutdown_check"
	KindStartupAttempt         Kind = "heat.startup_attempt"
	KindAmmoExplosionCheck     Kind = "heat.ammo_explosion_check"
)

func (GameCreated) Kind() Kind            { return KindGameCreated }
func (UnitDeployed) Kind() Kind           { return KindUnitDeployed }
func (TurnStarted) Kind() Kind            { return KindTurnStarted }
func (PhaseChanged) Kind() Kind           { return KindPhaseChanged }
func (InitiativeRolled) Kind() Kind       { return KindInitiativeRolled }
func (GameEnded) Kind() Kind              { return KindGameEnded }
func (UnitMoved) Kind() Kind              { return KindUnitMoved }
func (UnitStoodUp) Kind() Kind            { return KindUnitStoodUp }
func (AttackDeclared) Kind() Kind         { return KindAttackDeclared }
func (AttackResolved) Kind() Kind         { return KindAttackResolved }
func (AmmoConsumed) Kind() Kind           { return KindAmmoConsumed }
func (HeatAdded) Kind() Kind              { return KindHeatAdded }
func (PhysicalAttackDeclared) Kind() Kind { return KindPhysicalAttackDeclared }
func (PhysicalAttackResolved) Kind() Kind { return KindPhysicalAttackResolved }
func (DamageApplied) Kind() Kind          { return KindDamageApplied }
func (LocationDestroyed) Kind() Kind      { return KindLocationDestroyed }
func (CriticalHitRolled) Kind() Kind      { return KindCriticalHitRolled }
func (CriticalSlotHit) Kind() Kind        { return KindCriticalSlotHit }
func (AmmoExplosion) Kind() Kind          { return KindAmmoExplosion }
func (PilotHit) Kind() Kind               { return KindPilotHit }
func (PilotRecoveryRolled) Kind() Kind    { return KindPilotRecoveryRolled }
func (UnitDestroyed) Kind() Kind          { return KindUnitDestroyed }
func (PSRTriggered) Kind() Kind           { return KindPSRTriggered }
func (PSRResolved) Kind() Kind            { return KindPSRResolved }
func (PSRQueueCleared) Kind() Kind        { return KindPSRQueueCleared }
func (UnitFell) Kind() Kind               { return KindUnitFell }
func (HeatResolved) Kind() Kind           { return KindHeatResolved }
func (ShutdownCheck) Kind() Kind          { return KindShutdownCheck }
func (StartupAttempt) Kind() Kind         { return KindStartupAttempt }
func (AmmoExplosionCheck) Kind() Kind     { return KindAmmoExplosionCheck }

// registry maps each kind to a constructor for decoding.
var registry = map[Kind]func() Payload{
	KindGameCreated:            func() Payload { return &GameCreated{} },
	KindUnitDeployed:           func() Payload { return &UnitDeployed{} },
	KindTurnStarted:            func() Payload { return &TurnStarted{} },
	KindPhaseChanged:           func() Payload { return &PhaseChanged{} },
	KindInitiativeRolled:       func() Payload { return &InitiativeRolled{} },
	KindGameEnded:              func() Payload { return &GameEnded{} },
	KindUnitMoved:              func() Payload { return &UnitMoved{} },
	KindUnitStoodUp:            func() Payload { return &UnitStoodUp{} },
	KindAttackDeclared:         func() Payload { return &AttackDeclared{} },
	KindAttackResolved:         func() Payload { return &AttackResolved{} },
	KindAmmoConsumed:           func() Payload { return &AmmoConsumed{} },
	KindHeatAdded:              func() Payload { return &HeatAdded{} },
	KindPhysicalAttackDeclared: func() Payload { return &PhysicalAttackDeclared{} },
	KindPhysicalAttackResolved: func() Payload { return &PhysicalAttackResolved{} },
	KindDamageApplied:          func() Payload { return &DamageApplied{} },
	KindLocationDestroyed:      func() Payload { return &LocationDestroyed{} },
	KindCriticalHitRolled:      func() Payload { return &CriticalHitRolled{} },
	KindCriticalSlotHit:        func() Payload { return &CriticalSlotHit{} },
	KindAmmoExplosion:          func() Payload { return &AmmoExplosion{} },
	KindPilotHit:               func() Payload { return &PilotHit{} },
	KindPilotRecoveryRolled:    func() Payload { return &PilotRecoveryRolled{} },
	KindUnitDestroyed:          func() Payload { return &UnitDestroyed{} },
	KindPSRTriggered:           func() Payload { return &PSRTriggered{} },
	KindPSRResolved:            func() Payload { return &PSRResolved{} },
	KindPSRQueueCleared:        func() Payload { return &PSRQueueCleared{} },
	KindUnitFell:               func() Payload { return &UnitFell{} },
	KindHeatResolved:           func() Payload { return &HeatResolved{} },
	KindShutdownCheck:          func() Payload { return &ShutdownCheck{} },
	KindStartupAttempt:         func() Payload { return &StartupAttempt{} },
	KindAmmoExplosionCheck:     func() Payload { return &AmmoExplosionCheck{} },
}

// AllKinds lists every payload kind, in declaration order.
var AllKinds = []Kind{
	KindGameCreated, KindUnitDeployed, KindTurnStarted, KindPhaseChanged, KindInitiativeRolled, KindGameEnded,
	KindUnitMoved, KindUnitStoodUp,
	KindAttackDeclared, KindAttackResolved, KindAmmoConsumed, KindHeatAdded,
	KindPhysicalAttackDeclared, KindPhysicalAttackResolved,
	KindDamageApplied, KindLocationDestroyed,
	KindCriticalHitRolled, KindCriticalSlotHit, KindAmmoExplosion,
	KindPilotHit, KindPilotRecoveryRolled, KindUnitDestroyed,
	KindPSRTriggered, KindPSRResolved, KindPSRQueueCleared, KindUnitFell,
	KindHeatResolved, KindShutdownCheck, KindStartupAttempt, KindAmmoExplosionCheck,
}

// New returns an empty payload for kind, for decoding.
func New(kind Kind) (Payload, error) {
	mk, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
	return mk(), nil
}

// ─── Envelope ───────────────────────────────────────────────────────────────

// Event is one immutable entry in a game log.
type Event struct {
	Seq     uint64
	ID      uuid.UUID
	Turn    int
	Phase   Phase
	Payload Payload
}

// Kind returns the payload kind.
func (e Event) Kind() Kind {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

// EventID derives the ID of the seq-th event in a game. The same game and
// sequence number always give the same ID.
func EventID(gameID uuid.UUID, seq uint64) uuid.UUID {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return uuid.NewSHA1(gameID, b[:])
}

// gameNamespace scopes game IDs derived from seeds.
var gameNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://mekstation.dev/games"))

// GameID derives a stable game ID from a caller-supplied name or seed.
func GameID(name string) uuid.UUID {
	return uuid.NewSHA1(gameNamespace, []byte(name))
}

type record struct {
	Seq     uint64          `json:"seq"`
	ID      uuid.UUID       `json:"id"`
	Turn    int             `json:"turn"`
	Phase   Phase           `json:"phase"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("event %d: nil payload", e.Seq)
	}
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("event %d: marshal %s: %w", e.Seq, e.Kind(), err)
	}
	return json.Marshal(record{Seq: e.Seq, ID: e.ID, Turn: e.Turn, Phase: e.Phase, Kind: e.Kind(), Payload: raw})
}

func (e *Event) UnmarshalJSON(b []byte) error {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	p, err := New(r.Kind)
	if err != nil {
		return fmt.Errorf("event %d: %w", r.Seq, err)
	}
	if len(r.Payload) > 0 && !bytes.Equal(r.Payload, []byte("null")) {
		if err := json.Unmarshal(r.Payload, p); err != nil {
			return fmt.Errorf("event %d: decode %s: %w", r.Seq, r.Kind, err)
		}
	}
	*e = Event{Seq: r.Seq, ID: r.ID, Turn: r.Turn, Phase: r.Phase, Payload: deref(p)}
	return nil
}

// deref turns the pointer used for decoding back into the value type that
// producers emit, so decoded and freshly built logs compare equal.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *GameCreated:
		return *v
	case *UnitDeployed:
		return *v
	case *TurnStarted:
		return *v
	case *PhaseChanged:
		return *v
	case *InitiativeRolled:
		return *v
	case *GameEnded:
		return *v
	case *UnitMoved:
		return *v
	case *UnitStoodUp:
		return *v
	case *AttackDeclared:
		return *v
	case *AttackResolved:
		return *v
	case *AmmoConsumed:
		return *v
	case *HeatAdded:
		return *v
	case *PhysicalAttackDeclared:
		return *v
	case *PhysicalAttackResolved:
		return *v
	case *DamageApplied:
		return *v
	case *LocationDestroyed:
		return *v
	case *CriticalHitRolled:
		return *v
	case *CriticalSlotHit:
		return *v
	case *AmmoExplosion:
		return *v
	case *PilotHit:
		return *v
	case *PilotRecoveryRolled:
		return *v
	case *UnitDestroyed:
		return *v
	case *PSRTriggered:
		return *v
	case *PSRResolved:
		return *v
	case *PSRQueueCleared:
		return *v
	case *UnitFell:
		return *v
	case *HeatResolved:
		return *v
	case *ShutdownCheck:
		return *v
	case *StartupAttempt:
		return *v
	case *AmmoExplosionCheck:
		return *v
	}
	return p
}

// MarshalLog encodes a log as a JSON array of records in emission order.
func MarshalLog(events []Event) ([]byte, error) {
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(events)
}

// UnmarshalLog decodes a log written by MarshalLog and checks that sequence
// numbers are contiguous from 1.
func UnmarshalLog(b []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(b, &events); err != nil {
		return nil, fmt.Errorf("decode event log: %w", err)
	}
	for i, e := range events {
		if e.Seq != uint64(i+1) {
			return nil, fmt.Errorf("decode event log: record %d has seq %d", i, e.Seq)
		}
	}
	return events, nil
}
