package combat

import (
	"github.com/SwiggitySwerve/MekStation-sub016/internal/dice"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/hexgrid"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/session"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── Physical attacks ───────────────────────────────────────────────────────

type PhysicalAttack struct {
	AttackerID string             `json:"attackerId"`
	TargetID   string             `json:"targetId"`
	Type       event.PhysicalType `json:"type"`
	// Limb is the arm or leg used. Charge, DFA and push ignore it.
	Limb unit.Location `json:"limb"`
}

// armAttack reports whether t is made with one arm.
func armAttack(t event.PhysicalType) bool {
	return t == event.Punch || t == event.Hatchet || t == event.Sword
}

// usesLimb reports whether t names a single limb.
func usesLimb(t event.PhysicalType) bool { return armAttack(t) || t == event.Kick }

// PhysicalBaseModifier is the flat adjustment to piloting for each attack.
func PhysicalBaseModifier(t event.PhysicalType) int {
	switch t {
	case event.Kick, event.Sword:
		return -2
	case event.Push, event.Hatchet:
		return -1
	}
	return 0
}

// PhysicalDamage is the damage an undamaged limb deals. hexes only matters
// for a charge.
func PhysicalDamage(t event.PhysicalType, tonnage, hexes int) int {
	switch t {
	case event.Punch:
		return ceilDiv(tonnage, 10)
	case event.Kick, event.Hatchet:
		return ceilDiv(tonnage, 5)
	case event.Charge:
		return ceilDiv(tonnage*hexes, 10)
	case event.DeathFromAbove:
		return ceilDiv(tonnage, 10) * 3
	case event.Sword:
		return ceilDiv(tonnage, 10) + 1
	}
	return 0
}

type physicalPlan struct {
	attack           PhysicalAttack
	attacker, target *state.UnitState
	arc              hexgrid.Arc
	tn               int
	mods             []event.Modifier
	damage           int
	selfDamage       int
}

func limbFired(u *state.UnitState, limb unit.Location) bool {
	for id := range u.WeaponsFired {
		if w, ok := u.WeaponMount(id); ok && w.Location == limb {
			return true
		}
	}
	return false
}

// hasMelee reports whether the arm carries an intact physical weapon of kind.
func hasMelee(sp unit.Spec, u *state.UnitState, arm unit.Location, kind event.PhysicalType) bool {
	for _, w := range sp.Weapons {
		if w.Category == unit.Melee && w.Location == arm && unit.NormalizeName(w.Name) == string(kind) && !u.WeaponDestroyed(w.ID) {
			return true
		}
	}
	return false
}

func planPhysicalAttack(sess *session.Session, a PhysicalAttack) (physicalPlan, error) {
	action := "physical attack (" + string(a.Type) + ")"
	g := sess.State()
	if err := checkPhase(g, action, a.AttackerID, event.PhasePhysicalAttack); err != nil {
		return physicalPlan{}, err
	}
	att, err := checkActor(g, action, a.AttackerID)
	if err != nil {
		return physicalPlan{}, err
	}
	sp, ok := sess.Spec(att.ID)
	if !ok {
		return physicalPlan{}, integrityf(att.ID, "no unit data")
	}
	tgt, err := checkTarget(g, action, att, a.TargetID)
	if err != nil {
		return physicalPlan{}, err
	}
	no := func(format string, args ...any) (physicalPlan, error) {
		return physicalPlan{}, reject(action, att.ID, ErrIneligible, format, args...)
	}
	if !hexgrid.Adjacent(att.Position, tgt.Position) {
		return physicalPlan{}, reject(action, att.ID, ErrOutOfRange, "target not adjacent")
	}
	if att.Prone {
		return no("attacker is prone")
	}
	if tgt.Prone && a.Type != event.Kick && a.Type != event.Charge && a.Type != event.DeathFromAbove {
		return no("target is prone")
	}

	cfg := att.Layout()
	if !usesLimb(a.Type) {
		a.Limb = unit.NoLocation
	}
	if att.PhysicalMade {
		// The only second attack allowed is with the other arm.
		prev := att.PhysicalLimbs
		if !armAttack(a.Type) || len(prev) != 1 || !isArmLimb(prev[0]) || prev[0] == a.Limb {
			return no("already made a physical attack this turn")
		}
	}
	switch {
	case armAttack(a.Type) && (cfg == unit.Quad || !cfg.IsArm(a.Limb)):
		return no("%s needs an arm", a.Type)
	case a.Type == event.Kick && a.Limb != unit.LeftLeg && a.Limb != unit.RightLeg:
		return no("kick needs a leg")
	case (a.Type == event.Punch || a.Type == event.Push) && cfg == unit.Quad:
		return no("quads cannot %s", a.Type)
	}

	if usesLimb(a.Type) {
		switch {
		case att.Lost[a.Limb]:
			return no("%s is destroyed", a.Limb)
		case limbFired(att, a.Limb):
			return no("%s fired a weapon this turn", a.Limb)
		case armAttack(a.Type) && att.ActuatorHit(a.Limb, unit.Shoulder):
			return no("%s shoulder destroyed", a.Limb)
		case a.Type == event.Kick && att.ActuatorHit(a.Limb, unit.Hip):
			return no("%s hip destroyed", a.Limb)
		case (a.Type == event.Hatchet || a.Type == event.Sword) && att.ActuatorHit(a.Limb, unit.Hand):
			return no("%s hand destroyed", a.Limb)
		case (a.Type == event.Hatchet || a.Type == event.Sword) && !hasMelee(sp, att, a.Limb, a.Type):
			return no("no %s in %s", a.Type, a.Limb)
		}
	}
	switch a.Type {
	case event.Push:
		for _, arm := range []unit.Location{unit.LeftArm, unit.RightArm} {
			if att.Lost[arm] || att.ActuatorHit(arm, unit.Shoulder) || limbFired(att, arm) {
				return no("push needs both arms free")
			}
		}
	case event.Charge:
		if len(att.WeaponsFired) > 0 {
			return no("fired weapons this turn")
		}
		if m := att.Movement.Mode; (m != event.MoveWalk && m != event.MoveRun) || att.Movement.Hexes < 1 {
			return no("charge needs a ground move")
		}
	case event.DeathFromAbove:
		if len(att.WeaponsFired) > 0 {
			return no("fired weapons this turn")
		}
		if att.Movement.Mode != event.MoveJump {
			return no("death from above needs a jump")
		}
	}

	fwd := hexgrid.ArcOf(att.Position, hexgrid.Facing(att.Facing+att.TorsoTwist), tgt.Position)
	if a.Type == event.Kick || a.Type == event.Charge || a.Type == event.DeathFromAbove {
		fwd = hexgrid.ArcOf(att.Position, att.Facing, tgt.Position)
	}
	okArc := fwd == hexgrid.ArcFront
	if a.Type == event.Punch {
		okArc = okArc || (a.Limb == unit.LeftArm && fwd == hexgrid.ArcLeft) || (a.Limb == unit.RightArm && fwd == hexgrid.ArcRight)
	}
	if !okArc {
		return physicalPlan{}, reject(action, att.ID, ErrOutOfArc, "target in %s arc", fwd)
	}

	p := physicalPlan{
		attack:   a,
		attacker: att,
		target:   tgt,
		arc:      AttackArc(tgt.Position, att.Position, tgt.Facing, tgt.TorsoTwist),
		damage:   PhysicalDamage(a.Type, att.Tonnage, att.Movement.Hexes),
	}
	p.mods = physicalModifiers(att, tgt, a)
	for _, m := range p.mods {
		p.tn += m.Value
	}
	p.damage = limbDamage(att, a, p.damage)
	switch a.Type {
	case event.Charge:
		p.selfDamage = ceilDiv(tgt.Tonnage, 10)
	case event.DeathFromAbove:
		p.selfDamage = ceilDiv(att.Tonnage, 5)
	}
	return p, nil
}

func isArmLimb(l unit.Location) bool { return l == unit.LeftArm || l == unit.RightArm }

// limbDamage halves damage once per upper or lower actuator lost in the
// limb used.
func limbDamage(u *state.UnitState, a PhysicalAttack, dmg int) int {
	var halving []unit.Actuator
	switch a.Type {
	case event.Punch:
		halving = []unit.Actuator{unit.UpperArm, unit.LowerArm}
	case event.Kick:
		halving = []unit.Actuator{unit.UpperLeg, unit.LowerLeg}
	}
	for _, act := range halving {
		if u.ActuatorHit(a.Limb, act) {
			dmg = ceilDiv(dmg, 2)
		}
	}
	return dmg
}

func physicalModifiers(att, tgt *state.UnitState, a PhysicalAttack) []event.Modifier {
	mods := []event.Modifier{{Name: "piloting", Value: att.Piloting}}
	add := func(name string, v int) {
		if v != 0 {
			mods = append(mods, event.Modifier{Name: name, Value: v})
		}
	}
	add(string(a.Type), PhysicalBaseModifier(a.Type))
	add("attacker movement", AttackerMovementModifier(att.Movement.Mode))
	add("target movement", TargetMovementModifier(tgt.Movement.Hexes, tgt.Movement.Mode == event.MoveJump))
	if tgt.Prone {
		add("target prone", -2)
	}
	if Immobile(tgt) {
		add("immobile target", -4)
	}
	if usesLimb(a.Type) {
		upper, lower, end := unit.UpperArm, unit.LowerArm, unit.Hand
		if a.Type == event.Kick {
			upper, lower, end = unit.UpperLeg, unit.LowerLeg, unit.Foot
		}
		if att.ActuatorHit(a.Limb, upper) {
			add(string(upper)+" actuator", 2)
		}
		if att.ActuatorHit(a.Limb, lower) {
			add(string(lower)+" actuator", 2)
		}
		if att.ActuatorHit(a.Limb, end) {
			add(string(end)+" actuator", 1)
		}
	}
	return mods
}

// CheckPhysicalAttack reports why an attack would be rejected and returns
// the target number when it is allowed.
func CheckPhysicalAttack(sess *session.Session, a PhysicalAttack) (ToHit, error) {
	p, err := planPhysicalAttack(sess, a)
	if err != nil {
		return ToHit{}, err
	}
	return ToHit{Target: p.tn, Modifiers: p.mods}, nil
}

// ResolvePhysicalAttack declares and resolves one physical attack.
func ResolvePhysicalAttack(sess *session.Session, a PhysicalAttack, r dice.Roller) (*session.Session, error) {
	p, err := planPhysicalAttack(sess, a)
	if err != nil {
		return sess, err
	}
	return run(sess, r, func(rs *resolver) error { return rs.physicalAttack(p) })
}

func (rs *resolver) physicalAttack(p physicalPlan) error {
	a := p.attack
	what := string(a.Type)
	if a.Limb.Valid() {
		what += ":" + a.Limb.String()
	}
	aid := AttackID(a.AttackerID, what, rs.state().Turn)
	if err := rs.emit(event.PhysicalAttackDeclared{
		AttackID: aid, AttackerID: a.AttackerID, TargetID: a.TargetID, Type: a.Type, Limb: a.Limb,
	}); err != nil {
		return err
	}
	roll := rs.roll2d6()
	hit := roll.Total >= p.tn
	res := event.PhysicalAttackResolved{
		AttackID: aid, AttackerID: a.AttackerID, TargetID: a.TargetID, Type: a.Type,
		TargetNumber: p.tn, Modifiers: p.mods, Roll: roll, Hit: hit,
	}
	if hit {
		res.Damage, res.SelfDamage = p.damage, p.selfDamage
	}
	if err := rs.emit(res); err != nil {
		return err
	}

	if !hit {
		switch a.Type {
		case event.Kick:
			return rs.queuePSR(a.AttackerID, event.PSRKickMissed, TriggerModifier(event.PSRKickMissed), aid)
		case event.Charge:
			return rs.queuePSR(a.AttackerID, event.PSRChargeMissed, TriggerModifier(event.PSRChargeMissed), aid)
		case event.DeathFromAbove:
			return rs.queuePSR(a.AttackerID, event.PSRDFAMissed, TriggerModifier(event.PSRDFAMissed), aid)
		}
		return nil
	}

	switch a.Type {
	case event.Punch, event.Hatchet, event.Sword:
		if err := rs.physicalStrike(a.TargetID, p.arc, TablePunch, p.damage, aid); err != nil {
			return err
		}
	case event.Kick:
		if err := rs.physicalStrike(a.TargetID, p.arc, TableKick, p.damage, aid); err != nil {
			return err
		}
		return rs.queuePSR(a.TargetID, event.PSRKicked, TriggerModifier(event.PSRKicked), aid)
	case event.Charge:
		if err := rs.clusterDamage(a.TargetID, p.damage, p.arc, TableWeapon, event.DamagePhysical, aid); err != nil {
			return err
		}
		if err := rs.clusterDamage(a.AttackerID, p.selfDamage, hexgrid.ArcFront, TableWeapon, event.DamageSelf, aid); err != nil {
			return err
		}
		return rs.queuePSR(a.TargetID, event.PSRCharged, TriggerModifier(event.PSRCharged), aid)
	case event.DeathFromAbove:
		if err := rs.clusterDamage(a.TargetID, p.damage, p.arc, TablePunch, event.DamagePhysical, aid); err != nil {
			return err
		}
		if err := rs.clusterDamage(a.AttackerID, p.selfDamage, hexgrid.ArcFront, TableKick, event.DamageSelf, aid); err != nil {
			return err
		}
		return rs.queuePSR(a.TargetID, event.PSRDeathFromAbove, TriggerModifier(event.PSRDeathFromAbove), aid)
	case event.Push:
		if err := rs.displace(p.attacker, p.target); err != nil {
			return err
		}
		return rs.queuePSR(a.TargetID, event.PSRPushed, TriggerModifier(event.PSRPushed), aid)
	}
	return nil
}

// physicalStrike is one physical hit at a location rolled on table.
func (rs *resolver) physicalStrike(targetID string, arc hexgrid.Arc, table HitTable, amount int, source string) error {
	hit := rs.rollHit(arc, table)
	return rs.applyDamage(DamageRequest{
		UnitID: targetID, Location: hit.Location, Amount: amount, Rear: hit.Rear,
		Kind: event.DamagePhysical, Source: source, LocationRoll: hit.Roll,
	})
}

// displace moves a pushed unit one hex directly away from the attacker when
// that hex is free. Its movement record for the turn is kept.
func (rs *resolver) displace(att, tgt *state.UnitState) error {
	to := hexgrid.Neighbor(tgt.Position, hexgrid.Bearing(att.Position, tgt.Position))
	if occupied(rs.state(), to, tgt.ID) {
		return nil
	}
	u := rs.unit(tgt.ID)
	return rs.emit(event.UnitMoved{
		UnitID: u.ID, Mode: u.Movement.Mode, From: u.Position, To: to, Facing: u.Facing,
		Hexes: u.Movement.Hexes, MPUsed: u.Movement.MPUsed, TorsoTwist: u.TorsoTwist,
	})
}

// occupied reports whether a live unit other than self stands on c.
func occupied(g *state.GameState, c hexgrid.Coord, self string) bool {
	for _, u := range g.UnitsInOrder() {
		if u.ID != self && !u.Destroyed && u.Position == c {
			return true
		}
	}
	return false
}
