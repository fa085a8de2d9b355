package ingestion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/unit"
)

// ErrUnsupported marks a unit the combat rules cannot represent, such as a
// tripod or a land-air mech.
var ErrUnsupported = errors.New("unsupported unit")

// Conversion is a unit spec built from an MTF file. Skipped lists the slot
// entries that had no combat profile; they are kept as inert slots.
type Conversion struct {
	Spec    unit.Spec
	Skipped []string
}

var blockLocations = map[string]unit.Location{
	"Head":            unit.Head,
	"Center Torso":    unit.CenterTorso,
	"Left Torso":      unit.LeftTorso,
	"Right Torso":     unit.RightTorso,
	"Left Arm":        unit.LeftArm,
	"Right Arm":       unit.RightArm,
	"Left Leg":        unit.LeftLeg,
	"Right Leg":       unit.RightLeg,
	"Front Left Leg":  unit.LeftArm,
	"Front Right Leg": unit.RightArm,
	"Rear Left Leg":   unit.LeftLeg,
	"Rear Right Leg":  unit.RightLeg,
}

// blockOrder fixes the order weapons and bins are added to the spec.
var blockOrder = []string{
	"Head", "Center Torso", "Left Torso", "Right Torso",
	"Left Arm", "Right Arm", "Left Leg", "Right Leg",
	"Front Left Leg", "Front Right Leg", "Rear Left Leg", "Rear Right Leg",
}

// Front armor codes, quad legs folded onto the arm and leg slots.
var armorCodes = map[string]unit.Location{
	"HD": unit.Head, "CT": unit.CenterTorso, "LT": unit.LeftTorso, "RT": unit.RightTorso,
	"LA": unit.LeftArm, "RA": unit.RightArm, "LL": unit.LeftLeg, "RL": unit.RightLeg,
	"FLL": unit.LeftArm, "FRL": unit.RightArm, "RLL": unit.LeftLeg, "RRL": unit.RightLeg,
}

var rearCodes = map[string]unit.Location{
	"RTC": unit.CenterTorso, "RTL": unit.LeftTorso, "RTR": unit.RightTorso,
}

// MegaMek quirk codes the to-hit rules know about.
var quirkNames = map[string]string{
	"imp_target_short":  "improved_targeting_short",
	"imp_target_med":    "improved_targeting_medium",
	"imp_target_long":   "improved_targeting_long",
	"poor_target_short": "poor_targeting_short",
	"poor_target_med":   "poor_targeting_medium",
	"poor_target_long":  "poor_targeting_long",
}

var actuatorNames = map[string]unit.Actuator{
	"shoulder":           unit.Shoulder,
	"upper arm actuator": unit.UpperArm,
	"lower arm actuator": unit.LowerArm,
	"hand actuator":      unit.Hand,
	"hip":                unit.Hip,
	"upper leg actuator": unit.UpperLeg,
	"lower leg actuator": unit.LowerLeg,
	"foot actuator":      unit.Foot,
}

// ToSpec converts parsed MTF data into a unit spec with the given ID and the
// default pilot.
func ToSpec(d *MTFData, id string) (Conversion, error) {
	cfg, err := configOf(d.Config)
	if err != nil {
		return Conversion{}, fmt.Errorf("%s: %w", d.FullName(), err)
	}
	s := unit.Spec{
		ID:              id,
		Chassis:         d.Chassis,
		Model:           d.Model,
		Tonnage:         d.Mass,
		Config:          cfg,
		WalkMP:          d.WalkMP,
		JumpMP:          d.JumpMP,
		Engine:          EngineType(d.EngineType),
		Gyro:            GyroType(d.Gyro),
		Armor:           ArmorType(d.ArmorType),
		HeatSinks:       d.HeatSinkCount,
		DoubleHeatSinks: strings.Contains(strings.ToLower(d.HeatSinkType), "double"),
		Pilot:           unit.DefaultPilot,
	}
	for code, v := range d.ArmorValues {
		if loc, ok := armorCodes[code]; ok {
			s.ArmorPoints[loc] = v
		} else if loc, ok := rearCodes[code]; ok {
			s.RearArmor[loc] = v
		}
	}
	for _, q := range d.Quirks {
		if name, ok := quirkNames[strings.ToLower(q)]; ok {
			s.Quirks = append(s.Quirks, name)
		}
	}

	for block := range d.Slots {
		if _, ok := blockLocations[block]; !ok {
			return Conversion{}, fmt.Errorf("%s: %w: location %q", d.FullName(), ErrUnsupported, block)
		}
	}
	var conv Conversion
	for _, block := range blockOrder {
		lines, ok := d.Slots[block]
		if !ok {
			continue
		}
		loc := blockLocations[block]
		b := slotBuilder{spec: &s, loc: loc}
		for _, line := range lines {
			if !b.add(line) {
				conv.Skipped = append(conv.Skipped, block+": "+line)
			}
		}
		s.Slots[loc] = b.slots
	}

	if _, err := unit.BuildManifest(s); err != nil {
		return Conversion{}, fmt.Errorf("%s: %w", d.FullName(), err)
	}
	conv.Spec = s
	return conv, nil
}

func configOf(c string) (unit.Config, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(c), "Omnimech"))) {
	case "", "biped":
		return unit.Biped, nil
	case "quad":
		return unit.Quad, nil
	}
	return "", fmt.Errorf("%w: config %q", ErrUnsupported, c)
}

// EngineType maps an MTF engine name. Anything unrecognised is a standard
// fusion engine.
func EngineType(name string) unit.EngineType {
	up := strings.ToUpper(name)
	switch {
	case strings.Contains(up, "XXL"):
		return unit.EngineStandard
	case strings.Contains(up, "XL") && strings.Contains(up, "CLAN"):
		return unit.EngineClanXL
	case strings.Contains(up, "XL"), strings.Contains(up, "EXTRA-LIGHT"):
		return unit.EngineXL
	case strings.Contains(up, "LIGHT"):
		return unit.EngineLight
	case strings.Contains(up, "COMPACT"):
		return unit.EngineCompact
	}
	return unit.EngineStandard
}

// GyroType maps an MTF gyro name.
func GyroType(name string) unit.GyroType {
	low := strings.ToLower(name)
	switch {
	case strings.Contains(low, "heavy"):
		return unit.GyroHeavyDuty
	case strings.Contains(low, "xl"), strings.Contains(low, "extra-light"):
		return unit.GyroXL
	case strings.Contains(low, "compact"):
		return unit.GyroCompact
	}
	return unit.GyroStandard
}

// ArmorType maps an MTF armor name. Armor kinds the damage rules do not
// distinguish count as standard.
func ArmorType(name string) unit.ArmorType {
	low := strings.ToLower(name)
	switch {
	case strings.Contains(low, "hardened"):
		return unit.ArmorHardened
	case strings.Contains(low, "ferro"):
		return unit.ArmorFerro
	}
	return unit.ArmorStandard
}

// ─── Critical slots ─────────────────────────────────────────────────────────

// slotBuilder turns one location block into slots, weapons and ammo bins.
// A weapon spanning several slots is listed once per slot in the file.
type slotBuilder struct {
	spec  *unit.Spec
	loc   unit.Location
	slots []unit.SlotSpec

	open     string // weapon name still taking slots
	openID   string
	openLeft int
}

func (b *slotBuilder) add(line string) bool {
	name, rear := cleanName(line)
	low := strings.ToLower(name)

	if b.openLeft > 0 && name == b.open {
		b.openLeft--
		b.slots = append(b.slots, unit.SlotSpec{Kind: unit.SlotWeapon, Name: name, Component: b.openID})
		return true
	}
	b.openLeft = 0

	if a, ok := actuatorNames[low]; ok {
		b.slots = append(b.slots, unit.SlotSpec{Kind: unit.SlotActuator, Name: name, Actuator: a})
		return true
	}
	if k, ok := fixedKind(low); ok {
		b.slots = append(b.slots, unit.SlotSpec{Kind: k, Name: name})
		return true
	}
	if strings.Contains(low, "ammo") {
		return b.ammo(name)
	}

	key := weaponKey(name)
	id := b.nextID(slug(key))
	w, ok := unit.StandardWeapon(id, key, b.loc)
	if !ok {
		b.slots = append(b.slots, unit.SlotSpec{Kind: unit.SlotEmpty, Name: name})
		return false
	}
	w.Rear = rear
	w.Name = name
	b.spec.Weapons = append(b.spec.Weapons, w)
	b.slots = append(b.slots, unit.SlotSpec{Kind: unit.SlotWeapon, Name: name, Component: id})
	b.open, b.openID, b.openLeft = name, id, unit.WeaponSlots(key)-1
	return true
}

func (b *slotBuilder) ammo(name string) bool {
	t := ammoType(name)
	id := b.nextID("ammo-" + slug(t))
	bin, ok := unit.StandardAmmo(id, t, b.loc)
	if !ok {
		b.slots = append(b.slots, unit.SlotSpec{Kind: unit.SlotEmpty, Name: name})
		return false
	}
	b.spec.Ammo = append(b.spec.Ammo, bin)
	b.slots = append(b.slots, unit.Bin(bin))
	return true
}

// nextID numbers components of the same kind within the location. A
// multi-slot weapon is counted once.
func (b *slotBuilder) nextID(base string) string {
	prefix := base + "-" + strings.ToLower(b.loc.String()) + "-"
	seen := map[string]bool{}
	for _, sl := range b.slots {
		if strings.HasPrefix(sl.Component, prefix) {
			seen[sl.Component] = true
		}
	}
	return prefix + strconv.Itoa(len(seen)+1)
}

func fixedKind(low string) (unit.SlotKind, bool) {
	switch {
	case low == "-empty-":
		return unit.SlotEmpty, true
	case strings.Contains(low, "engine"):
		return unit.SlotEngine, true
	case strings.Contains(low, "gyro"):
		return unit.SlotGyro, true
	case strings.Contains(low, "life support"):
		return unit.SlotLifeSupport, true
	case low == "sensors":
		return unit.SlotSensors, true
	case strings.Contains(low, "cockpit"):
		return unit.SlotCockpit, true
	case strings.Contains(low, "heat sink"):
		return unit.SlotHeatSink, true
	case strings.Contains(low, "jump jet"):
		return unit.SlotJumpJet, true
	case strings.Contains(low, "case ii"), strings.HasSuffix(low, "caseii"):
		return unit.SlotCASEII, true
	case low == "case", strings.HasSuffix(low, "case"):
		return unit.SlotCASE, true
	case strings.Contains(low, "endo"), strings.Contains(low, "ferro-fibrous"):
		return unit.SlotStructural, true
	}
	return "", false
}

// cleanName strips the mounting suffixes MegaMek appends to slot names.
func cleanName(line string) (name string, rear bool) {
	name = strings.TrimSpace(line)
	for _, suf := range []string{"(OMNIPOD)", "(ARMORED)"} {
		name = strings.TrimSpace(strings.TrimSuffix(name, suf))
	}
	if n, ok := strings.CutSuffix(name, "(R)"); ok {
		name, rear = strings.TrimSpace(n), true
	}
	return name, rear
}

// weaponKey is the profile name for a slot entry, so that "ISAC20" and
// "Autocannon/20" both find the AC/20.
func weaponKey(name string) string {
	n := unit.NormalizeName(name)
	if len(n) > 2 && strings.HasPrefix(n, "ac") && n[2] >= '0' && n[2] <= '9' {
		n = "ac/" + n[2:]
	}
	return n
}

// ammoType reduces "IS Ammo AC/20" or "ISAC20 Ammo" to the ammunition key.
func ammoType(name string) string {
	n := unit.NormalizeName(name)
	n = strings.Join(strings.Fields(strings.ReplaceAll(n, "ammo", "")), " ")
	if strings.HasPrefix(n, "ac") && !strings.HasPrefix(n, "ac/") {
		n = "ac/" + strings.TrimSpace(n[2:])
	}
	if n == "mg" {
		n = "machine gun"
	}
	return n
}

func slug(s string) string {
	s = strings.ReplaceAll(s, "/", "")
	return strings.Join(strings.Fields(s), "-")
}
