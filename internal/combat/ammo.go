package combat

import (
	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/state"
	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ─── Ammunition ─────────────────────────────────────────────────────────────

// consumeAmmo takes one round from the first bin of the weapon's type that
// still holds any.
func (rs *resolver) consumeAmmo(id string, w unit.Weapon) error {
	u := rs.unit(id)
	i := u.NextBin(w.AmmoType)
	if i < 0 {
		return integrityf(id, "no %s ammunition for %s", w.AmmoType, w.ID)
	}
	b := u.Ammo[i]
	return rs.emit(event.AmmoConsumed{UnitID: id, BinID: b.ID, WeaponID: w.ID, Remaining: b.Remaining - 1})
}

// explodeBin detonates what is left in a bin.
func (rs *resolver) explodeBin(id string, b state.AmmoState, cause string) error {
	dmg := b.Remaining * b.DamagePerRound
	if err := rs.emit(event.AmmoExplosion{
		UnitID: id, BinID: b.ID, Location: b.Location, Rounds: b.Remaining,
		Damage: dmg, Containment: b.Containment, Cause: cause,
	}); err != nil {
		return err
	}
	return rs.explosionDamage(id, b.Location, dmg, b.Containment, "ammo:"+b.ID)
}

// explodeWeapon detonates a weapon that explodes when hit, such as a gauss
// rifle.
func (rs *resolver) explodeWeapon(id string, w unit.Weapon) error {
	m, err := rs.manifest(id)
	if err != nil {
		return err
	}
	cont := m.Containment(w.Location)
	if err := rs.emit(event.AmmoExplosion{
		UnitID: id, WeaponID: w.ID, Location: w.Location,
		Damage: w.ExplosionDamage, Containment: cont, Cause: "critical",
	}); err != nil {
		return err
	}
	return rs.explosionDamage(id, w.Location, w.ExplosionDamage, cont, "weapon:"+w.ID)
}

// explosionDamage goes straight to structure. Without CASE it transfers
// normally and the pilot takes a wound; CASE keeps it in the location and
// CASE II lets a single point through.
func (rs *resolver) explosionDamage(id string, loc unit.Location, dmg int, cont unit.Containment, source string) error {
	if err := rs.applyDamage(DamageRequest{
		UnitID: id, Location: loc, Amount: dmg, Kind: event.DamageExplosion,
		Source: source, StructureOnly: true, Containment: cont,
	}); err != nil {
		return err
	}
	if cont != unit.ContainmentNone {
		return nil
	}
	return rs.woundPilot(id, 1, "ammo explosion")
}

// heatExplosions blows every loaded explosive bin in a location without
// containment.
func (rs *resolver) heatExplosions(id string) error {
	for _, b := range rs.unit(id).Ammo {
		u := rs.unit(id)
		if u.Destroyed {
			return nil
		}
		i := u.Bin(b.ID)
		cur := u.Ammo[i]
		if !cur.Explosive || cur.Remaining <= 0 || u.Lost[cur.Location] || cur.Containment != unit.ContainmentNone {
			continue
		}
		if err := rs.explodeBin(id, cur, "heat"); err != nil {
			return err
		}
	}
	return nil
}
