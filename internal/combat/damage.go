package combat

import (
	"math"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── Damage pipeline ────────────────────────────────────────────────────────

// HeadCap is the most a single standard hit deals to the head.
const HeadCap = 3

// PSRDamageThreshold is the damage in one phase that forces a PSR.
const PSRDamageThreshold = 20

// hardenedPerPoint is the armor a hardened plate loses per damage point.
const hardenedPerPoint = 0.5

type DamageRequest struct {
	UnitID   string
	Location unit.Location
	Amount   int
	Rear     bool
	Kind     event.DamageKind
	Source   string
	// StructureOnly skips armor at the first location. Transfers hit armor
	// normally.
	StructureOnly bool
	// Containment caps an explosion at its own location.
	Containment unit.Containment
	// LocationRoll and CriticalCandidate carry the hit location roll that
	// chose Location, when there was one.
	LocationRoll      int
	CriticalCandidate bool
}

// ApplyDamage runs req through the damage pipeline against g and returns the
// resulting state and the events it produced. g is not modified.
func ApplyDamage(g *state.GameState, sp unit.Spec, req DamageRequest, r dice.Roller) (*state.GameState, []event.Payload, error) {
	m, err := unit.BuildManifest(sp)
	if err != nil {
		return nil, nil, err
	}
	sc := newScratch(g)
	rs := &resolver{em: sc, units: single{spec: sp, manifest: m}, r: r}
	if err := rs.applyDamage(req); err != nil {
		return nil, nil, err
	}
	return sc.st, sc.out, nil
}

// firstStepCap limits the opening step of a request. It returns the capped
// amount and whether a cap applied.
func firstStepCap(u *state.UnitState, req DamageRequest, loc unit.Location) (int, bool) {
	amount := req.Amount
	switch {
	case loc == unit.Head && (req.Kind == event.DamageWeapon || req.Kind == event.DamagePhysical):
		if amount > HeadCap {
			return HeadCap, true
		}
	case req.Kind == event.DamageExplosion && req.Containment != unit.ContainmentNone:
		limit := u.Structure[loc]
		if req.Containment == unit.ContainmentCASEII {
			limit++
		}
		if amount > limit {
			return limit, true
		}
	}
	return amount, false
}

// nextLive follows the transfer chain past locations that are already gone.
func nextLive(u *state.UnitState, loc unit.Location) unit.Location {
	for loc.Valid() && u.Lost[loc] {
		loc = loc.TransferTarget()
	}
	return loc
}

func (rs *resolver) applyDamage(req DamageRequest) error {
	u := rs.unit(req.UnitID)
	if u == nil {
		return integrityf(req.UnitID, "damage to unknown unit")
	}
	if !req.Location.Valid() {
		return integrityf(req.UnitID, "damage at invalid location %d", req.Location)
	}
	if u.Destroyed || req.Amount <= 0 {
		return nil
	}

	top := rs.damageDepth == 0
	rs.damageDepth++
	defer func() { rs.damageDepth-- }()
	before := u.DamageThisPhase

	loc := nextLive(u, req.Location)
	if !loc.Valid() {
		return nil
	}
	amount, capped := firstStepCap(u, req, loc)
	incoming := 0
	if capped {
		incoming = req.Amount
	}
	structureOnly := req.StructureOnly
	locRoll, candidate := req.LocationRoll, req.CriticalCandidate

	for amount > 0 && loc.Valid() {
		if u.Destroyed {
			break
		}
		step := event.DamageApplied{
			UnitID:     req.UnitID,
			Location:   loc,
			Rear:       req.Rear && loc.HasRear(),
			DamageKind: req.Kind,
			Source:     req.Source,
			Damage:     amount,
			Incoming:   incoming,
		}
		step.LocationRoll, step.CriticalCandidate = locRoll, candidate
		remaining := amount
		armor := u.ArmorAt(loc, step.Rear)
		step.ArmorAfter = armor
		if !structureOnly {
			per := 1.0
			if u.ArmorType == unit.ArmorHardened {
				per = hardenedPerPoint
			}
			capacity := int(math.Ceil(armor/per - 1e-9))
			step.ArmorDamage = min(remaining, capacity)
			step.ArmorRemoved = math.Min(float64(step.ArmorDamage)*per, armor)
			step.ArmorAfter = armor - step.ArmorRemoved
			remaining -= step.ArmorDamage
		}
		step.StructureDamage = min(remaining, u.Structure[loc])
		step.StructureAfter = u.Structure[loc] - step.StructureDamage
		remaining -= step.StructureDamage
		step.Overflow = remaining

		destroyed := step.StructureAfter == 0
		next := unit.NoLocation
		if destroyed && remaining > 0 {
			next = nextLive(u, loc.TransferTarget())
		}
		step.TransferTo = next

		if err := rs.emit(step); err != nil {
			return err
		}
		if step.StructureDamage > 0 {
			if err := rs.rollCriticals(req.UnitID, loc, false, destroyed); err != nil {
				return err
			}
		}
		if destroyed {
			if err := rs.destroyLocation(req.UnitID, loc, event.CauseDamage); err != nil {
				return err
			}
		}

		amount, loc = remaining, next
		incoming, structureOnly = 0, false
		locRoll, candidate = 0, false
	}

	if top && before < PSRDamageThreshold && u.DamageThisPhase >= PSRDamageThreshold {
		return rs.queuePSR(req.UnitID, event.PSRDamage, TriggerModifier(event.PSRDamage), "damage")
	}
	return nil
}

// destroyLocation marks loc lost with any engine slots it held, cascades to
// the attached limb, and checks the unit and its footing.
func (rs *resolver) destroyLocation(id string, loc unit.Location, cause event.LocationCause) error {
	u := rs.unit(id)
	if u.Lost[loc] {
		return nil
	}
	m, err := rs.manifest(id)
	if err != nil {
		return err
	}
	ld := event.LocationDestroyed{UnitID: id, Location: loc, Cause: cause}
	if loc.IsSideTorso() {
		live := m.CountKind(loc, unit.SlotEngine, u.SlotDestroyed[loc])
		ld.EngineHits = max(0, min(live, unit.EngineHitsToDestroy-u.Components.EngineHits))
	}
	if err := rs.emit(ld); err != nil {
		return err
	}
	if limb := loc.AttachedLimb(); limb.Valid() && !u.Lost[limb] {
		if err := rs.destroyLocation(id, limb, event.CauseCascade); err != nil {
			return err
		}
	}
	if err := rs.checkDestroyed(id); err != nil {
		return err
	}
	if u.Layout().IsLeg(loc) {
		return rs.queuePSR(id, event.PSRLegDestroyed, TriggerModifier(event.PSRLegDestroyed), loc.String())
	}
	return nil
}
