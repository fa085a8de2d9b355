package unit

// structureTable holds internal structure points by tonnage, in Location order.
var structureTable = map[int][NumLocations]int{
	10:  {3, 4, 3, 3, 1, 1, 2, 2},
	15:  {3, 5, 4, 4, 2, 2, 3, 3},
	20:  {3, 6, 5, 5, 3, 3, 4, 4},
	25:  {3, 8, 6, 6, 4, 4, 6, 6},
	30:  {3, 10, 7, 7, 5, 5, 7, 7},
	35:  {3, 11, 8, 8, 6, 6, 8, 8},
	40:  {3, 12, 10, 10, 6, 6, 10, 10},
	45:  {3, 14, 11, 11, 7, 7, 11, 11},
	50:  {3, 16, 12, 12, 8, 8, 12, 12},
	55:  {3, 18, 13, 13, 9, 9, 13, 13},
	60:  {3, 20, 14, 14, 10, 10, 14, 14},
	65:  {3, 21, 15, 15, 10, 10, 15, 15},
	70:  {3, 22, 15, 15, 11, 11, 15, 15},
	75:  {3, 23, 16, 16, 12, 12, 16, 16},
	80:  {3, 25, 17, 17, 13, 13, 17, 17},
	85:  {3, 27, 18, 18, 14, 14, 18, 18},
	90:  {3, 29, 19, 19, 15, 15, 19, 19},
	95:  {3, 30, 20, 20, 16, 16, 20, 20},
	100: {3, 31, 21, 21, 17, 17, 21, 21},
}

// StructureForTonnage returns standard internal structure for a biped of the
// given weight. Unlisted weights round down to the nearest listed class.
// Quads use the leg values for all four limbs.
func StructureForTonnage(tons int, cfg Config) [NumLocations]int {
	v, ok := structureTable[tons]
	if !ok {
		best := 10
		for t := range structureTable {
			if t <= tons && t > best {
				best = t
			}
		}
		v = structureTable[best]
	}
	if cfg == Quad {
		v[LeftArm], v[RightArm] = v[LeftLeg], v[RightLeg]
	}
	return v
}
