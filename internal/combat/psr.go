package combat

import (
	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── PSR modifiers ──────────────────────────────────────────────────────────

// PSRRoll is a resolved piloting skill roll.
type PSRRoll struct {
	Target    int
	Modifiers []event.Modifier
	Roll      dice.Roll
	Passed    bool
}

// ResolvePSR rolls 2d6 against skill plus every modifier.
func ResolvePSR(skill int, mods []event.Modifier, r dice.Roller) PSRRoll {
	res := PSRRoll{Target: skill, Modifiers: append([]event.Modifier{{Name: "piloting", Value: skill}}, mods...)}
	for _, m := range mods {
		res.Target += m.Value
	}
	res.Roll = dice.Roll2d6(r)
	res.Passed = res.Roll.Total >= res.Target
	return res
}

// StandingModifiers are the modifiers every PSR carries for the unit's
// damage: +3 per gyro hit, +1 per pilot wound, and leg damage.
func StandingModifiers(u *state.UnitState) []event.Modifier {
	var out []event.Modifier
	if h := u.Components.GyroHits; h > 0 {
		out = append(out, event.Modifier{Name: "gyro damage", Value: 3 * h})
	}
	if w := u.Pilot.Wounds; w > 0 {
		out = append(out, event.Modifier{Name: "pilot wounds", Value: w})
	}
	for _, leg := range u.Layout().Legs() {
		if u.Lost[leg] {
			out = append(out, event.Modifier{Name: leg.String() + " destroyed", Value: 5})
			continue
		}
		if u.ActuatorHit(leg, unit.Hip) {
			out = append(out, event.Modifier{Name: leg.String() + " hip", Value: 2})
		}
		for _, a := range []unit.Actuator{unit.UpperLeg, unit.LowerLeg, unit.Foot} {
			if u.ActuatorHit(leg, a) {
				out = append(out, event.Modifier{Name: leg.String() + " " + string(a), Value: 1})
			}
		}
	}
	return out
}

// TriggerModifier is the extra modifier a trigger carries into the queue.
func TriggerModifier(reason event.PSRReason) int {
	switch reason {
	case event.PSRDamage:
		return 1
	case event.PSRCharged, event.PSRDeathFromAbove:
		return 2
	case event.PSRDFAMissed, event.PSRIce:
		return 4
	}
	return 0
}

// WaterModifier is the PSR modifier for entering water of depth.
func WaterModifier(depth int) int {
	switch {
	case depth <= 1:
		return -1
	case depth == 2:
		return 0
	}
	return 1
}

// queuePSR appends a pending roll. Destroyed units never roll.
func (rs *resolver) queuePSR(id string, reason event.PSRReason, extra int, source string) error {
	u := rs.unit(id)
	if u == nil || u.Destroyed {
		return nil
	}
	return rs.emit(event.PSRTriggered{UnitID: id, Reason: reason, AdditionalModifier: extra, Source: source})
}

// ─── Queue resolution ───────────────────────────────────────────────────────

// resolvePSRs works through every unit's queue in deployment order.
func (rs *resolver) resolvePSRs() error {
	for _, id := range rs.state().Order {
		if err := rs.resolveQueue(id); err != nil {
			return err
		}
	}
	return nil
}

// resolveQueue rolls a unit's pending PSRs in the order they were queued.
// The first failure drops the rest unrolled and the unit falls.
func (rs *resolver) resolveQueue(id string) error {
	u := rs.unit(id)
	if n := len(u.PendingPSRs); n > 0 && (u.Prone || u.Destroyed) {
		why := "prone"
		if u.Destroyed {
			why = "destroyed"
		}
		return rs.emit(event.PSRQueueCleared{UnitID: id, Dropped: n, Why: why})
	}
	for len(u.PendingPSRs) > 0 {
		p := u.PendingPSRs[0]
		res := rs.rollPending(u, p)
		remaining := len(u.PendingPSRs) - 1
		if err := rs.emit(res); err != nil {
			return err
		}
		if res.Passed {
			continue
		}
		if remaining > 0 {
			if err := rs.emit(event.PSRQueueCleared{UnitID: id, Dropped: remaining, Why: "failed"}); err != nil {
				return err
			}
		}
		if err := rs.fall(id, 0); err != nil {
			return err
		}
		return rs.resolveQueue(id)
	}
	return nil
}

func (rs *resolver) rollPending(u *state.UnitState, p state.PendingPSR) event.PSRResolved {
	res := event.PSRResolved{UnitID: u.ID, Reason: p.Reason}
	switch {
	case u.GyroDestroyed() || u.Pilot.Unconscious || u.Pilot.Killed:
		res.Automatic = true
		return res
	case p.Reason == event.PSRShutdown:
		res.TargetNumber = ShutdownPSRTarget
		res.Modifiers = []event.Modifier{{Name: "shutdown", Value: ShutdownPSRTarget}}
		res.Roll = rs.roll2d6()
		res.Passed = res.Roll.Total >= res.TargetNumber
		return res
	}
	mods := StandingModifiers(u)
	if p.AdditionalModifier != 0 {
		mods = append(mods, event.Modifier{Name: string(p.Reason), Value: p.AdditionalModifier})
	}
	roll := ResolvePSR(u.Piloting, mods, rs.r)
	res.TargetNumber, res.Modifiers, res.Roll, res.Passed = roll.Target, roll.Modifiers, roll.Roll, roll.Passed
	return res
}

// ─── Falls ──────────────────────────────────────────────────────────────────

// fallClusterSize is how fall, charge and DFA damage is grouped.
const fallClusterSize = 5

// FallSide maps the d6 facing offset after a fall (0..5) to the side that
// takes the damage.
func FallSide(offset int) hexgrid.Arc {
	switch offset {
	case 0:
		return hexgrid.ArcFront
	case 1, 2:
		return hexgrid.ArcRight
	case 3:
		return hexgrid.ArcRear
	}
	return hexgrid.ArcLeft
}

// FallDamage is ceil(tons/10) per level fallen plus one.
func FallDamage(tonnage, height int) int {
	return ceilDiv(tonnage, 10) * (height + 1)
}

// fall knocks a unit prone, applies fall damage, and wounds the pilot.
func (rs *resolver) fall(id string, height int) error {
	u := rs.unit(id)
	if u == nil || u.Destroyed {
		return nil
	}
	face := rs.r.D6()
	offset := face - 1
	side := FallSide(offset)
	dmg := FallDamage(u.Tonnage, height)
	if err := rs.emit(event.UnitFell{
		UnitID: id, Height: height, Damage: dmg,
		FacingRoll: face, NewFacing: hexgrid.Facing(u.Facing + offset), Side: side,
	}); err != nil {
		return err
	}
	if err := rs.clusterDamage(id, dmg, side, TableWeapon, event.DamageFall, "fall"); err != nil {
		return err
	}
	return rs.woundPilot(id, 1, "fall")
}

// clusterDamage deals amount in 5-point groups, rolling a location for each.
func (rs *resolver) clusterDamage(id string, amount int, arc hexgrid.Arc, table HitTable, kind event.DamageKind, source string) error {
	for amount > 0 {
		if u := rs.unit(id); u == nil || u.Destroyed {
			return nil
		}
		n := min(fallClusterSize, amount)
		amount -= n
		hit := rs.rollHit(arc, table)
		if err := rs.applyDamage(DamageRequest{
			UnitID: id, Location: hit.Location, Amount: n, Rear: hit.Rear, Kind: kind, Source: source,
			LocationRoll: hit.Roll,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ─── Standing ───────────────────────────────────────────────────────────────

// standUp rolls immediately; a failure leaves the unit prone.
func (rs *resolver) standUp(id string) (bool, error) {
	u := rs.unit(id)
	if err := rs.emit(event.PSRTriggered{UnitID: id, Reason: event.PSRStandUp, Source: "stand"}); err != nil {
		return false, err
	}
	res := event.PSRResolved{UnitID: id, Reason: event.PSRStandUp}
	if u.GyroDestroyed() || u.LegsLost() == len(u.Layout().Legs()) {
		res.Automatic = true
	} else {
		roll := ResolvePSR(u.Piloting, StandingModifiers(u), rs.r)
		res.TargetNumber, res.Modifiers, res.Roll, res.Passed = roll.Target, roll.Modifiers, roll.Roll, roll.Passed
	}
	if err := rs.emit(res); err != nil {
		return false, err
	}
	if !res.Passed {
		return false, nil
	}
	return true, rs.emit(event.UnitStoodUp{UnitID: id})
}
