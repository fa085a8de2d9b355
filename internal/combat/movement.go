package combat

import (
	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── Movement ───────────────────────────────────────────────────────────────

type Terrain string

const (
	TerrainRubble Terrain = "rubble"
	TerrainRough  Terrain = "rough"
	TerrainIce    Terrain = "ice"
	TerrainWater  Terrain = "water"
)

// Hazard is terrain entered during a move that may force a PSR.
type Hazard struct {
	At      hexgrid.Coord `json:"at"`
	Terrain Terrain       `json:"terrain"`
	// Depth is only used for water.
	Depth int `json:"depth,omitempty"`
}

type Movement struct {
	UnitID string         `json:"unitId"`
	Mode   event.MoveMode `json:"mode"`
	// Path lists the hexes entered in order. A jump only looks at the last.
	Path       []hexgrid.Coord `json:"path,omitempty"`
	Facing     int             `json:"facing"`
	TorsoTwist int             `json:"torsoTwist,omitempty"`
	Hazards    []Hazard        `json:"hazards,omitempty"`
	// Stand makes a prone unit try to get up, which takes its whole move.
	Stand bool `json:"stand,omitempty"`
}

// Stationary is the move of a unit that stays put.
func Stationary(id string) Movement { return Movement{UnitID: id, Mode: event.MoveStationary} }

// EffectiveWalkMP is walking MP after heat and leg damage. A biped with a
// leg gone cannot walk.
func EffectiveWalkMP(u *state.UnitState) int {
	if u.Layout() == unit.Biped && u.LegsLost() > 0 {
		return 0
	}
	mp := u.WalkMP - HeatMPReduction(u.Heat)
	hip := false
	for _, leg := range u.Layout().Legs() {
		for _, a := range []unit.Actuator{unit.UpperLeg, unit.LowerLeg, unit.Foot} {
			if u.ActuatorHit(leg, a) {
				mp--
			}
		}
		hip = hip || u.ActuatorHit(leg, unit.Hip)
	}
	if hip {
		mp /= 2
	}
	return max(0, mp)
}

// EffectiveRunMP is one and a half times effective walking MP.
func EffectiveRunMP(u *state.UnitState) int { return ceilDiv(EffectiveWalkMP(u)*3, 2) }

// FacingCost is the MP spent turning from one facing to another.
func FacingCost(from, to int) int {
	d := hexgrid.Facing(to - from)
	return min(d, 6-d)
}

type movePlan struct {
	m       Movement
	unit    *state.UnitState
	dest    hexgrid.Coord
	facing  int
	hexes   int
	mpUsed  int
	hazards []Hazard
}

func planMovement(sess *session.Session, m Movement) (movePlan, error) {
	const action = "movement"
	g := sess.State()
	if err := checkPhase(g, action, m.UnitID, event.PhaseMovement); err != nil {
		return movePlan{}, err
	}
	u, err := checkActor(g, action, m.UnitID)
	if err != nil {
		return movePlan{}, err
	}
	bad := func(format string, args ...any) (movePlan, error) {
		return movePlan{}, reject(action, u.ID, ErrInvalidMove, format, args...)
	}
	if u.Movement.Moved {
		return movePlan{}, reject(action, u.ID, ErrAlreadyMoved, "")
	}
	if m.TorsoTwist < -1 || m.TorsoTwist > 1 {
		return bad("torso twist %d", m.TorsoTwist)
	}
	p := movePlan{m: m, unit: u, dest: u.Position, facing: u.Facing}

	switch {
	case m.Stand:
		if !u.Prone {
			return bad("unit is not prone")
		}
		if len(m.Path) > 0 {
			return bad("standing takes the whole move")
		}
		p.m.Mode = event.MoveWalk
		p.facing = hexgrid.Facing(m.Facing)
		p.mpUsed = EffectiveWalkMP(u)
		if p.mpUsed == 0 {
			return bad("no walking MP to stand with")
		}
		return p, nil
	case u.Prone && m.Mode != event.MoveStationary:
		return bad("prone units can only stand")
	}

	switch m.Mode {
	case event.MoveStationary:
		if len(m.Path) > 0 {
			return bad("stationary unit with a path")
		}
		return p, nil
	case event.MoveWalk, event.MoveRun:
		prev := u.Position
		for _, c := range m.Path {
			if !hexgrid.Adjacent(prev, c) {
				return bad("path jumps from %s to %s", prev, c)
			}
			prev = c
		}
		limit := EffectiveWalkMP(u)
		if m.Mode == event.MoveRun {
			limit = EffectiveRunMP(u)
		}
		p.facing = hexgrid.Facing(m.Facing)
		p.hexes = len(m.Path)
		p.mpUsed = p.hexes + FacingCost(u.Facing, p.facing)
		if p.mpUsed > limit {
			return bad("%d MP needed, %d available", p.mpUsed, limit)
		}
		if p.hexes > 0 {
			p.dest = m.Path[len(m.Path)-1]
		}
		p.hazards = m.Hazards
	case event.MoveJump:
		if len(m.Path) == 0 {
			return bad("jump without a destination")
		}
		p.dest = m.Path[len(m.Path)-1]
		p.facing = hexgrid.Facing(m.Facing)
		p.hexes = hexgrid.Distance(u.Position, p.dest)
		p.mpUsed = p.hexes
		if limit := u.EffectiveJumpMP(); p.mpUsed > limit || p.hexes == 0 {
			return bad("jump of %d hexes, %d jump MP", p.hexes, limit)
		}
		for _, h := range m.Hazards {
			if h.At == p.dest {
				p.hazards = append(p.hazards, h)
			}
		}
	default:
		return bad("unknown mode %q", m.Mode)
	}
	if p.dest != u.Position && occupied(g, p.dest, u.ID) {
		return bad("%s is occupied", p.dest)
	}
	return p, nil
}

// CheckMovement reports why a move would be rejected.
func CheckMovement(sess *session.Session, m Movement) error {
	_, err := planMovement(sess, m)
	return err
}

// DeclareMovement moves one unit and records its heat and terrain checks.
func DeclareMovement(sess *session.Session, m Movement, r dice.Roller) (*session.Session, error) {
	p, err := planMovement(sess, m)
	if err != nil {
		return sess, err
	}
	return run(sess, r, func(rs *resolver) error { return rs.move(p) })
}

func (rs *resolver) move(p movePlan) error {
	u := p.unit
	facing := p.facing
	if p.m.Stand {
		stood, err := rs.standUp(u.ID)
		if err != nil {
			return err
		}
		if !stood {
			facing = u.Facing
		}
	}
	if err := rs.emit(event.UnitMoved{
		UnitID: u.ID, Mode: p.m.Mode, From: u.Position, To: p.dest, Facing: facing,
		Hexes: p.hexes, MPUsed: p.mpUsed, TorsoTwist: p.m.TorsoTwist,
	}); err != nil {
		return err
	}
	if h := MovementHeat(p.m.Mode, p.mpUsed); h > 0 {
		if err := rs.emit(event.HeatAdded{UnitID: u.ID, Amount: h, Source: "movement"}); err != nil {
			return err
		}
	}

	iced := false
	for _, h := range p.hazards {
		var err error
		switch h.Terrain {
		case TerrainRubble:
			err = rs.queuePSR(u.ID, event.PSRRubble, TriggerModifier(event.PSRRubble), h.At.String())
		case TerrainRough:
			if p.m.Mode == event.MoveRun {
				err = rs.queuePSR(u.ID, event.PSRRoughRunning, TriggerModifier(event.PSRRoughRunning), h.At.String())
			}
		case TerrainIce:
			iced = true
			err = rs.queuePSR(u.ID, event.PSRIce, TriggerModifier(event.PSRIce), h.At.String())
		case TerrainWater:
			if h.Depth > 0 {
				err = rs.queuePSR(u.ID, event.PSRWater, WaterModifier(h.Depth), h.At.String())
			}
		}
		if err != nil {
			return err
		}
	}
	if iced && p.m.Mode == event.MoveRun && facing != u.Facing {
		return rs.queuePSR(u.ID, event.PSRSkid, TriggerModifier(event.PSRSkid), "skid")
	}
	return nil
}
