package combat

import (
	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── Critical determination ─────────────────────────────────────────────────

type CriticalRequest struct {
	Location     unit.Location
	ArmorType    unit.ArmorType
	Config       unit.Config
	ThroughArmor bool
	// ForceCrits skips the determination roll.
	ForceCrits *int
}

type CriticalResult struct {
	Rolls    []int
	Crits    int
	Effect   event.CritEffect
	Hardened bool
	Forced   bool
	// Skipped is set when no determination happens at all.
	Skipped bool
}

// CritsForRoll reads the determination table for one 2d6 total.
func CritsForRoll(total int, loc unit.Location, cfg unit.Config) (int, event.CritEffect) {
	switch {
	case total <= 7:
		return 0, event.CritNone
	case total <= 9:
		return 1, event.CritNone
	case total <= 11:
		return 2, event.CritNone
	}
	switch {
	case loc == unit.Head:
		return 0, event.CritHeadDestroyed
	case cfg.IsArm(loc) || cfg.IsLeg(loc):
		return 0, event.CritLimbBlownOff
	}
	return 3, event.CritNone
}

// DetermineCriticals rolls how many slots a location loses. Hardened armor
// rolls twice and keeps the worse result for the attacker; a special result
// only applies when both rolls produce it and otherwise counts as 3.
func DetermineCriticals(req CriticalRequest, r dice.Roller) CriticalResult {
	hardened := req.ArmorType == unit.ArmorHardened
	if req.ForceCrits != nil {
		return CriticalResult{Crits: *req.ForceCrits, Forced: true}
	}
	if hardened && req.ThroughArmor {
		return CriticalResult{Skipped: true}
	}
	first := dice.Roll2d6(r).Total
	n, effect := CritsForRoll(first, req.Location, req.Config)
	if !hardened {
		return CriticalResult{Rolls: []int{first}, Crits: n, Effect: effect}
	}

	second := dice.Roll2d6(r).Total
	n2, effect2 := CritsForRoll(second, req.Location, req.Config)
	res := CriticalResult{Rolls: []int{first, second}, Hardened: true}
	if effect != event.CritNone && effect2 != event.CritNone {
		res.Effect = effect
		return res
	}
	if effect != event.CritNone {
		n = 3
	}
	if effect2 != event.CritNone {
		n2 = 3
	}
	res.Crits = min(n, n2)
	return res
}

// ─── Slot effects ───────────────────────────────────────────────────────────

// rollCriticals runs a determination at loc. When the location was just
// destroyed by the same step the roll is recorded without slot effects.
func (rs *resolver) rollCriticals(id string, loc unit.Location, throughArmor, locationGone bool) error {
	u := rs.unit(id)
	res := DetermineCriticals(CriticalRequest{
		Location: loc, ArmorType: u.ArmorType, Config: u.Layout(), ThroughArmor: throughArmor,
	}, rs.r)
	return rs.applyCriticals(id, loc, throughArmor, locationGone, res)
}

func (rs *resolver) applyCriticals(id string, loc unit.Location, throughArmor, locationGone bool, res CriticalResult) error {
	if res.Skipped {
		return nil
	}
	if err := rs.emit(event.CriticalHitRolled{
		UnitID: id, Location: loc, Rolls: res.Rolls, Crits: res.Crits, Effect: res.Effect,
		ThroughArmor: throughArmor, Hardened: res.Hardened, Forced: res.Forced,
	}); err != nil {
		return err
	}
	if locationGone {
		return nil
	}
	switch res.Effect {
	case event.CritLimbBlownOff:
		return rs.destroyLocation(id, loc, event.CauseBlownOff)
	case event.CritHeadDestroyed:
		return rs.destroyLocation(id, unit.Head, event.CauseHeadHit)
	}

	m, err := rs.manifest(id)
	if err != nil {
		return err
	}
	for range res.Crits {
		u := rs.unit(id)
		if u.Destroyed || u.Lost[loc] {
			return nil
		}
		open := m.Hittable(loc, u.SlotDestroyed[loc])
		if len(open) == 0 {
			return nil
		}
		if err := rs.slotHit(id, loc, open[rs.r.IntN(len(open))]); err != nil {
			return err
		}
	}
	return nil
}

// slotHit destroys one slot and applies what was in it.
func (rs *resolver) slotHit(id string, loc unit.Location, idx int) error {
	m, err := rs.manifest(id)
	if err != nil {
		return err
	}
	slot, ok := m.Slot(loc, idx)
	if !ok {
		return integrityf(id, "%s has no slot %d", loc, idx)
	}
	u := rs.unit(id)
	hit := event.CriticalSlotHit{
		UnitID: id, Location: loc, Slot: idx, SlotKind: slot.Kind,
		Component: slot.Component, Actuator: slot.Actuator,
	}

	var explodeWeapon unit.Weapon
	switch slot.Kind {
	case unit.SlotWeapon:
		sp, err := rs.spec(id)
		if err != nil {
			return err
		}
		w, ok := sp.Weapon(slot.Component)
		if !ok {
			return integrityf(id, "slot %s/%d names unknown weapon %q", loc, idx, slot.Component)
		}
		if w.ExplosionDamage > 0 && !u.WeaponDestroyed(w.ID) {
			explodeWeapon = w
		}
	case unit.SlotAmmo:
		if u.Bin(slot.Component) < 0 {
			return integrityf(id, "slot %s/%d names unknown ammo bin %q", loc, idx, slot.Component)
		}
	case unit.SlotActuator:
		if slot.Actuator == "" {
			return integrityf(id, "actuator slot %s/%d has no actuator", loc, idx)
		}
	case unit.SlotHeatSink:
		hit.DoubleSink = u.DoubleHeatSinks
	}
	if err := rs.emit(hit); err != nil {
		return err
	}

	switch slot.Kind {
	case unit.SlotEngine:
		return rs.checkDestroyed(id)
	case unit.SlotGyro:
		if !u.GyroDestroyed() {
			return rs.queuePSR(id, event.PSRGyroCritical, TriggerModifier(event.PSRGyroCritical), "gyro")
		}
		if u.Prone {
			return nil
		}
		return rs.fall(id, 0)
	case unit.SlotCockpit:
		return rs.killPilot(id, "cockpit")
	case unit.SlotActuator:
		switch slot.Actuator {
		case unit.Hip:
			return rs.queuePSR(id, event.PSRHipCritical, TriggerModifier(event.PSRHipCritical), loc.String())
		case unit.UpperLeg, unit.LowerLeg, unit.Foot:
			return rs.queuePSR(id, event.PSRLegActuator, TriggerModifier(event.PSRLegActuator), loc.String())
		}
	case unit.SlotWeapon:
		if explodeWeapon.ID != "" {
			return rs.explodeWeapon(id, explodeWeapon)
		}
	case unit.SlotAmmo:
		b := u.Ammo[u.Bin(slot.Component)]
		if b.Explosive && b.Remaining > 0 {
			return rs.explodeBin(id, b, "critical")
		}
	}
	return nil
}

// killPilot records a fatal pilot hit.
func (rs *resolver) killPilot(id, source string) error {
	u := rs.unit(id)
	if u.Pilot.Killed {
		return rs.checkDestroyed(id)
	}
	if err := rs.emit(event.PilotHit{
		UnitID: id, Wounds: max(1, PilotKillWounds-u.Pilot.Wounds), Total: max(PilotKillWounds, u.Pilot.Wounds),
		Source: source, Killed: true,
	}); err != nil {
		return err
	}
	return rs.checkDestroyed(id)
}
