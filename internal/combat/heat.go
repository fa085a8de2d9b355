package combat

import (
	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
)

// ─── Heat scale ─────────────────────────────────────────────────────────────

// HeatToHitModifier is the only heat to-hit table.
func HeatToHitModifier(heat int) int {
	switch {
	case heat >= 24:
		return 4
	case heat >= 17:
		return 3
	case heat >= 13:
		return 2
	case heat >= 8:
		return 1
	default:
		return 0
	}
}

// HeatMPReduction is one walking MP per five points of heat.
func HeatMPReduction(heat int) int {
	if heat <= 0 {
		return 0
	}
	return heat / 5
}

const (
	AutoShutdownHeat  = 30
	ShutdownCheckHeat = 14
	// ShutdownPSRTarget is the fixed target for the fall check on shutdown.
	ShutdownPSRTarget = 3
	// EngineHeatPerHit is added each heat phase per engine critical.
	EngineHeatPerHit = 5
)

// ShutdownTarget is the 2d6 roll needed to stay running at heat. automatic is
// set at 30 and above, where no roll is allowed; tn 0 means no check.
func ShutdownTarget(heat int) (tn int, automatic bool) {
	switch {
	case heat >= AutoShutdownHeat:
		return 0, true
	case heat >= ShutdownCheckHeat:
		return 4 + ((heat-ShutdownCheckHeat)/4)*2, false
	}
	return 0, false
}

// AmmoExplosionTarget is the 2d6 roll needed to avoid a heat-induced ammo
// explosion, 0 below 19.
func AmmoExplosionTarget(heat int) int {
	switch {
	case heat >= 28:
		return 8
	case heat >= 23:
		return 6
	case heat >= 19:
		return 4
	}
	return 0
}

// PilotHeatDamage is the wounds taken at the end of the heat phase.
func PilotHeatDamage(heat int, lifeSupportHit bool) int {
	var d int
	switch {
	case heat >= 25:
		d = 2
	case heat >= 15:
		d = 1
	}
	if lifeSupportHit {
		d *= 2
	}
	return d
}

// MovementHeat is the heat a move generates.
func MovementHeat(mode event.MoveMode, jumpMPUsed int) int {
	switch mode {
	case event.MoveWalk:
		return 1
	case event.MoveRun:
		return 2
	case event.MoveJump:
		return max(3, jumpMPUsed)
	}
	return 0
}

// ─── Heat phase ─────────────────────────────────────────────────────────────

// ResolveHeatPhase adds engine heat, dissipates, and runs the shutdown, ammo
// explosion and pilot damage checks for every unit in deployment order.
func ResolveHeatPhase(sess *session.Session, r dice.Roller) (*session.Session, error) {
	if err := checkPhase(sess.State(), "heat phase", "", event.PhaseHeat); err != nil {
		return sess, err
	}
	return run(sess, r, func(rs *resolver) error {
		for _, id := range rs.state().Order {
			if err := rs.heatPhase(id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (rs *resolver) heatPhase(id string) error {
	u := rs.unit(id)
	if u.Destroyed {
		return nil
	}
	if hits := u.Components.EngineHits; hits > 0 {
		if err := rs.emit(event.HeatAdded{UnitID: id, Amount: hits * EngineHeatPerHit, Source: "engine"}); err != nil {
			return err
		}
	}

	u = rs.unit(id)
	gen, diss := u.HeatThisTurn, u.Dissipation()
	heat := max(0, u.Heat+gen-diss)
	if err := rs.emit(event.HeatResolved{UnitID: id, Generated: gen, Dissipated: diss, Heat: heat}); err != nil {
		return err
	}

	if !u.Shutdown {
		if err := rs.shutdownCheck(id, heat); err != nil {
			return err
		}
	}
	if err := rs.heatAmmoCheck(id, heat); err != nil {
		return err
	}
	u = rs.unit(id)
	if u.Destroyed {
		return nil
	}
	return rs.woundPilot(id, PilotHeatDamage(heat, u.Components.LifeSupportHits > 0), "heat")
}

func (rs *resolver) shutdownCheck(id string, heat int) error {
	tn, auto := ShutdownTarget(heat)
	if tn == 0 && !auto {
		return nil
	}
	chk := event.ShutdownCheck{UnitID: id, Heat: heat, TargetNumber: tn, Automatic: auto, Shutdown: auto}
	if !auto {
		chk.Roll = rs.roll2d6()
		chk.Shutdown = chk.Roll.Total < tn
	}
	if err := rs.emit(chk); err != nil {
		return err
	}
	if !chk.Shutdown {
		return nil
	}
	return rs.queuePSR(id, event.PSRShutdown, 0, "shutdown")
}

func (rs *resolver) heatAmmoCheck(id string, heat int) error {
	tn := AmmoExplosionTarget(heat)
	if tn == 0 || !hasLiveExplosive(rs.unit(id)) {
		return nil
	}
	roll := rs.roll2d6()
	chk := event.AmmoExplosionCheck{UnitID: id, Heat: heat, TargetNumber: tn, Roll: roll, Exploded: roll.Total < tn}
	if err := rs.emit(chk); err != nil {
		return err
	}
	if !chk.Exploded {
		return nil
	}
	return rs.heatExplosions(id)
}

func hasLiveExplosive(u *state.UnitState) bool {
	for _, b := range u.Ammo {
		if b.Explosive && b.Remaining > 0 && !u.Lost[b.Location] {
			return true
		}
	}
	return false
}

// ─── Startup ────────────────────────────────────────────────────────────────

// startup rolls to restart a shut-down unit at the start of a turn. Below
// the check threshold it restarts automatically; at 30 and above it cannot.
func (rs *resolver) startup(id string) error {
	u := rs.unit(id)
	if u.Destroyed || !u.Shutdown {
		return nil
	}
	att := event.StartupAttempt{UnitID: id, Heat: u.Heat}
	tn, auto := ShutdownTarget(u.Heat)
	switch {
	case auto:
		att.Automatic = true
	case tn == 0:
		att.Automatic, att.Started = true, true
	default:
		att.TargetNumber = tn
		att.Roll = rs.roll2d6()
		att.Started = att.Roll.Total >= tn
	}
	return rs.emit(att)
}
