package unit

// SlotKind classifies what occupies a critical slot.
type SlotKind string

const (
	SlotEmpty       SlotKind = "empty"
	SlotEngine      SlotKind = "engine"
	SlotGyro        SlotKind = "gyro"
	SlotCockpit     SlotKind = "cockpit"
	SlotSensors     SlotKind = "sensors"
	SlotLifeSupport SlotKind = "life_support"
	SlotActuator    SlotKind = "actuator"
	SlotWeapon      SlotKind = "weapon"
	SlotAmmo        SlotKind = "ammo"
	SlotHeatSink    SlotKind = "heat_sink"
	SlotJumpJet     SlotKind = "jump_jet"
	SlotCASE        SlotKind = "case"
	SlotCASEII      SlotKind = "case_ii"
	// SlotStructural covers endo steel and ferro-fibrous filler. A critical
	// hit never lands on it.
	SlotStructural SlotKind = "structural"
)

// Actuator names the limb actuators.
type Actuator string

const (
	Shoulder Actuator = "shoulder"
	UpperArm Actuator = "upper_arm"
	LowerArm Actuator = "lower_arm"
	Hand     Actuator = "hand"
	Hip      Actuator = "hip"
	UpperLeg Actuator = "upper_leg"
	LowerLeg Actuator = "lower_leg"
	Foot     Actuator = "foot"
)

func (a Actuator) valid() bool {
	switch a {
	case Shoulder, UpperArm, LowerArm, Hand, Hip, UpperLeg, LowerLeg, Foot:
		return true
	}
	return false
}

// IsLegActuator reports whether a belongs to a leg.
func (a Actuator) IsLegActuator() bool {
	return a == Hip || a == UpperLeg || a == LowerLeg || a == Foot
}

// SlotSpec is one critical slot as written in unit data. Component holds the
// weapon or ammo bin ID for those kinds.
type SlotSpec struct {
	Kind      SlotKind `json:"kind"`
	Name      string   `json:"name,omitempty"`
	Component string   `json:"component,omitempty"`
	Actuator  Actuator `json:"actuator,omitempty"`
}

// hittable reports whether a critical hit can select the slot.
func (s SlotSpec) hittable() bool {
	return s.Kind != SlotEmpty && s.Kind != SlotStructural && s.Kind != ""
}

// Manifest is the fixed critical slot layout of a unit, indexed by location
// and slot number. Destroyed slots are tracked by index in the game state;
// the manifest itself never changes once built.
type Manifest struct {
	unitID string
	slots  [NumLocations][]SlotSpec
	guard  [NumLocations]Containment
}

// BuildManifest validates s and freezes its slot layout.
func BuildManifest(s Spec) (Manifest, error) {
	if err := s.Validate(); err != nil {
		return Manifest{}, err
	}
	m := Manifest{unitID: s.ID}
	for _, loc := range Locations {
		m.slots[loc] = append([]SlotSpec(nil), s.Slots[loc]...)
		for _, sl := range s.Slots[loc] {
			switch sl.Kind {
			case SlotCASEII:
				m.guard[loc] = ContainmentCASEII
			case SlotCASE:
				if m.guard[loc] == ContainmentNone {
					m.guard[loc] = ContainmentCASE
				}
			}
		}
	}
	return m, nil
}

// UnitID is the unit the manifest was built for.
func (m Manifest) UnitID() string { return m.unitID }

// Count is the number of slots in loc.
func (m Manifest) Count(loc Location) int {
	if !loc.Valid() {
		return 0
	}
	return len(m.slots[loc])
}

// Slot returns slot i of loc.
func (m Manifest) Slot(loc Location, i int) (SlotSpec, bool) {
	if !loc.Valid() || i < 0 || i >= len(m.slots[loc]) {
		return SlotSpec{}, false
	}
	return m.slots[loc][i], true
}

// Counts returns the slot count of every location.
func (m Manifest) Counts() [NumLocations]int {
	var c [NumLocations]int
	for _, loc := range Locations {
		c[loc] = len(m.slots[loc])
	}
	return c
}

// Hittable lists the slot indices of loc a critical hit may select, skipping
// indices flagged in destroyed.
func (m Manifest) Hittable(loc Location, destroyed []bool) []int {
	if !loc.Valid() {
		return nil
	}
	var out []int
	for i, sl := range m.slots[loc] {
		if !sl.hittable() {
			continue
		}
		if i < len(destroyed) && destroyed[i] {
			continue
		}
		out = append(out, i)
	}
	return out
}

// CountKind counts the slots of kind k in loc whose index is not destroyed.
func (m Manifest) CountKind(loc Location, k SlotKind, destroyed []bool) int {
	if !loc.Valid() {
		return 0
	}
	n := 0
	for i, sl := range m.slots[loc] {
		if sl.Kind == k && (i >= len(destroyed) || !destroyed[i]) {
			n++
		}
	}
	return n
}

// Containment is the ammunition protection installed in loc.
func (m Manifest) Containment(loc Location) Containment {
	if !loc.Valid() {
		return ContainmentNone
	}
	return m.guard[loc]
}
