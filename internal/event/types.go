package event

// ─── Turn structure ─────────────────────────────────────────────────────────

type Phase string

const (
	PhaseInitiative     Phase = "initiative"
	PhaseMovement       Phase = "movement"
	PhaseWeaponAttack   Phase = "weapon_attack"
	PhasePhysicalAttack Phase = "physical_attack"
	PhaseHeat           Phase = "heat"
	PhaseEnd            Phase = "end"
)

// Phases lists a turn's phases in order.
var Phases = []Phase{PhaseInitiative, PhaseMovement, PhaseWeaponAttack, PhasePhysicalAttack, PhaseHeat, PhaseEnd}

// Next returns the phase after p. The end phase wraps to initiative when a
// new turn starts.
func (p Phase) Next() Phase {
	for i, ph := range Phases {
		if ph == p && i+1 < len(Phases) {
			return Phases[i+1]
		}
	}
	return PhaseInitiative
}

type MoveMode string

const (
	MoveStationary MoveMode = "stationary"
	MoveWalk       MoveMode = "walk"
	MoveRun        MoveMode = "run"
	MoveJump       MoveMode = "jump"
)

// ─── Rules options ──────────────────────────────────────────────────────────

// ClusterTable selects how missile racks determine the number of missiles
// that hit.
type ClusterTable string

const (
	// ClusterStandard rolls 2d6 on the cluster hits table.
	ClusterStandard ClusterTable = "standard"
	// ClusterExpected uses the fixed expected-hits approximation the batch
	// runner historically applied, with no roll.
	ClusterExpected ClusterTable = "expected"
)

type Rules struct {
	ClusterTable ClusterTable `json:"clusterTable,omitempty"`
}

// Cluster returns the table in force, standard when unset.
func (r Rules) Cluster() ClusterTable {
	if r.ClusterTable == "" {
		return ClusterStandard
	}
	return r.ClusterTable
}

// ─── Resolution vocabulary ──────────────────────────────────────────────────

// Modifier is one named contribution to a target number.
type Modifier struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PSRReason names what forced a piloting skill roll.
type PSRReason string

const (
	PSRDamage         PSRReason = "damage_20"
	PSRLegDestroyed   PSRReason = "leg_destroyed"
	PSRHipCritical    PSRReason = "hip_critical"
	PSRGyroCritical   PSRReason = "gyro_critical"
	PSRLegActuator    PSRReason = "leg_actuator_critical"
	PSRKicked         PSRReason = "kicked"
	PSRCharged        PSRReason = "charged"
	PSRDeathFromAbove PSRReason = "death_from_above"
	PSRPushed         PSRReason = "pushed"
	PSRKickMissed     PSRReason = "kick_missed"
	PSRChargeMissed   PSRReason = "charge_missed"
	PSRDFAMissed      PSRReason = "dfa_missed"
	PSRRubble         PSRReason = "rubble"
	PSRRoughRunning   PSRReason = "rough_running"
	PSRIce            PSRReason = "ice"
	PSRWater          PSRReason = "water"
	PSRSkid           PSRReason = "skid"
	PSRShutdown       PSRReason = "shutdown"
	PSRStandUp        PSRReason = "stand_up"
)

type PhysicalType string

const (
	Punch          PhysicalType = "punch"
	Kick           PhysicalType = "kick"
	Charge         PhysicalType = "charge"
	DeathFromAbove PhysicalType = "death_from_above"
	Push           PhysicalType = "push"
	Hatchet        PhysicalType = "hatchet"
	Sword          PhysicalType = "sword"
)

type DamageKind string

const (
	DamageWeapon    DamageKind = "weapon"
	DamagePhysical  DamageKind = "physical"
	DamageFall      DamageKind = "fall"
	DamageExplosion DamageKind = "explosion"
	DamageSelf      DamageKind = "self"
)

// CritEffect is the special outcome of a critical determination roll of 12.
type CritEffect string

const (
	CritNone          CritEffect = ""
	CritLimbBlownOff  CritEffect = "limb_blown_off"
	CritHeadDestroyed CritEffect = "head_destroyed"
)

type DestroyReason string

const (
	DestroyedCenterTorso DestroyReason = "center_torso_destroyed"
	DestroyedHead        DestroyReason = "head_destroyed"
	DestroyedEngine      DestroyReason = "engine_destroyed"
	DestroyedPilotKilled DestroyReason = "pilot_killed"
	DestroyedLegs        DestroyReason = "legs_destroyed"
)

// LocationCause says why a location was lost.
type LocationCause string

const (
	CauseDamage   LocationCause = "damage"
	CauseCascade  LocationCause = "cascade"
	CauseBlownOff LocationCause = "blown_off"
	CauseHeadHit  LocationCause = "head_destroyed"
)
