// Package session owns a game's append-only event log. A Session value is
// immutable: appending returns a new Session and leaves the old one intact,
// so callers can keep earlier snapshots for undo or comparison.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// Participant places one unit on the map.
type Participant struct {
	Spec     unit.Spec
	Side     string
	Position hexgrid.Coord
	Facing   int
}

// Options configures a new game.
type Options struct {
	// Name seeds the game ID. Games with the same name and seed share an ID;
	// an empty name derives the ID from the seed alone.
	Name  string
	Seed  uint64
	Rules event.Rules
}

var ErrNoParticipants = errors.New("session: a game needs units on at least two sides")

type Session struct {
	id        uuid.UUID
	specs     map[string]unit.Spec
	manifests map[string]unit.Manifest
	events    []event.Event
	state     *state.GameState
}

// New validates every unit, freezes its critical slot manifest, and opens
// the log with the game and deployment events.
func New(opts Options, parts []Participant) (*Session, error) {
	sides := make([]string, 0, 2)
	for _, p := range parts {
		if !slices.Contains(sides, p.Side) {
			sides = append(sides, p.Side)
		}
	}
	if len(sides) < 2 {
		return nil, ErrNoParticipants
	}

	name := opts.Name
	if name == "" {
		name = "seed:" + strconv.FormatUint(opts.Seed, 10)
	}
	s := &Session{
		id:        event.GameID(name),
		specs:     make(map[string]unit.Spec, len(parts)),
		manifests: make(map[string]unit.Manifest, len(parts)),
		state:     state.New(),
	}
	for _, p := range parts {
		if _, dup := s.specs[p.Spec.ID]; dup {
			return nil, fmt.Errorf("session: duplicate unit id %q", p.Spec.ID)
		}
		m, err := unit.BuildManifest(p.Spec)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		s.specs[p.Spec.ID] = p.Spec
		s.manifests[p.Spec.ID] = m
	}

	tx := s.Begin()
	if err := tx.Emit(event.GameCreated{GameID: s.id.String(), Seed: opts.Seed, Rules: opts.Rules, Sides: sides}); err != nil {
		return nil, err
	}
	for _, p := range parts {
		if err := tx.Emit(Deployment(p, s.manifests[p.Spec.ID])); err != nil {
			return nil, err
		}
	}
	return tx.Commit(), nil
}

// Deployment builds the event that introduces a unit to the log.
func Deployment(p Participant, m unit.Manifest) event.UnitDeployed {
	sp := p.Spec
	d := event.UnitDeployed{
		UnitID:          sp.ID,
		Name:            sp.Name(),
		Side:            p.Side,
		Tonnage:         sp.Tonnage,
		Config:          sp.Layout(),
		Position:        p.Position,
		Facing:          hexgrid.Facing(p.Facing),
		WalkMP:          sp.WalkMP,
		RunMP:           sp.RunMP(),
		JumpMP:          sp.JumpMP,
		Gunnery:         sp.Pilot.Gunnery,
		Piloting:        sp.Pilot.Piloting,
		Armor:           sp.Armor,
		Gyro:            sp.GyroType(),
		HeatSinks:       sp.HeatSinks,
		DoubleHeatSinks: sp.DoubleHeatSinks,
		Structure:       sp.StructurePoints(),
		SlotCounts:      m.Counts(),
	}
	if d.Armor == "" {
		d.Armor = unit.ArmorStandard
	}
	for _, loc := range unit.Locations {
		d.ArmorPoints[loc] = float64(sp.ArmorPoints[loc])
		if loc.HasRear() {
			d.RearArmor[loc] = float64(sp.RearArmor[loc])
		}
	}
	for _, w := range sp.Weapons {
		d.Weapons = append(d.Weapons, event.WeaponMount{ID: w.ID, Location: w.Location})
	}
	for _, b := range sp.Ammo {
		d.Ammo = append(d.Ammo, event.AmmoBinState{
			ID: b.ID, Location: b.Location, AmmoType: b.AmmoType, Rounds: b.Rounds,
			DamagePerRound: b.DamagePerRound, Explosive: b.Explosive,
			Containment: m.Containment(b.Location),
		})
	}
	return d
}

// Restore rebuilds a session from a stored log and the unit data it was
// played with. Every deployed unit must have a matching spec.
func Restore(specs []unit.Spec, events []event.Event) (*Session, error) {
	st, err := state.Derive(events)
	if err != nil {
		return nil, fmt.Errorf("session: restore: %w", err)
	}
	id, err := uuid.Parse(st.GameID)
	if err != nil {
		return nil, fmt.Errorf("session: restore: game id: %w", err)
	}
	s := &Session{
		id:        id,
		specs:     make(map[string]unit.Spec, len(specs)),
		manifests: make(map[string]unit.Manifest, len(specs)),
		events:    slices.Clone(events),
		state:     st,
	}
	for _, sp := range specs {
		m, err := unit.BuildManifest(sp)
		if err != nil {
			return nil, fmt.Errorf("session: restore: %w", err)
		}
		s.specs[sp.ID], s.manifests[sp.ID] = sp, m
	}
	for _, uid := range st.Order {
		m, ok := s.manifests[uid]
		if !ok {
			return nil, fmt.Errorf("session: restore: no unit data for %s", uid)
		}
		if m.Counts() != slotCounts(st.Unit(uid)) {
			return nil, fmt.Errorf("session: restore: %w: unit %s slot layout differs from log", unit.ErrIntegrity, uid)
		}
	}
	return s, nil
}

func slotCounts(u *state.UnitState) [unit.NumLocations]int {
	var c [unit.NumLocations]int
	for _, loc := range unit.Locations {
		c[loc] = len(u.SlotDestroyed[loc])
	}
	return c
}

// ID is the game ID.
func (s *Session) ID() uuid.UUID { return s.id }

// State is the state after the last event. It is shared; callers must not
// modify it.
func (s *Session) State() *state.GameState { return s.state }

// Events returns a copy of the log.
func (s *Session) Events() []event.Event { return slices.Clone(s.events) }

// Len is the number of events in the log.
func (s *Session) Len() int { return len(s.events) }

// Spec returns the unit data for id.
func (s *Session) Spec(id string) (unit.Spec, bool) {
	sp, ok := s.specs[id]
	return sp, ok
}

// Manifest returns the frozen slot layout for id.
func (s *Session) Manifest(id string) (unit.Manifest, bool) {
	m, ok := s.manifests[id]
	return m, ok
}

// Specs returns unit data in deployment order.
func (s *Session) Specs() []unit.Spec {
	out := make([]unit.Spec, 0, len(s.state.Order))
	for _, id := range s.state.Order {
		out = append(out, s.specs[id])
	}
	return out
}

// Replay derives the state from the log alone.
func (s *Session) Replay() (*state.GameState, error) { return state.Derive(s.events) }

// MarshalLog encodes the log.
func (s *Session) MarshalLog() ([]byte, error) { return event.MarshalLog(s.events) }

// Append emits payloads in order and returns the extended session.
func (s *Session) Append(payloads ...event.Payload) (*Session, error) {
	tx := s.Begin()
	for _, p := range payloads {
		if err := tx.Emit(p); err != nil {
			return nil, err
		}
	}
	return tx.Commit(), nil
}

// ─── Transactions ───────────────────────────────────────────────────────────

// Tx stages events on a private copy of the state. Nothing is visible to
// the parent session until Commit; an abandoned Tx leaves no trace.
type Tx struct {
	parent *Session
	st     *state.GameState
	staged []event.Event
}

// Begin starts a transaction on the current state.
func (s *Session) Begin() *Tx {
	return &Tx{parent: s, st: s.state.Clone()}
}

// State is the transaction's working state, including staged events.
func (tx *Tx) State() *state.GameState { return tx.st }

// Session is the session the transaction started from.
func (tx *Tx) Session() *Session { return tx.parent }

// Emit stamps p with the next sequence number and applies it to the
// working state.
func (tx *Tx) Emit(p event.Payload) error {
	seq := tx.st.LastSeq + 1
	e := event.Event{
		Seq:     seq,
		ID:      event.EventID(tx.parent.id, seq),
		Turn:    tx.st.Turn,
		Phase:   tx.st.Phase,
		Payload: p,
	}
	if err := tx.st.Fold(e); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	tx.staged = append(tx.staged, e)
	return nil
}

// Staged returns the events emitted so far.
func (tx *Tx) Staged() []event.Event { return slices.Clone(tx.staged) }

// Commit returns a new session with the staged events appended.
func (tx *Tx) Commit() *Session {
	next := *tx.parent
	next.events = append(slices.Clip(tx.parent.events), tx.staged...)
	next.state = tx.st
	return &next
}
