// Package hexgrid implements the odd-q offset hex map used for positions,
// ranges and firing arcs.
package hexgrid

import "fmt"

// ─── Coordinates ────────────────────────────────────────────────────────────
// Offsets are 1-indexed (col, row) as printed on MegaMek boards, with odd
// columns shifted down. Distances and bearings go through cube coordinates.

type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func (c Coord) String() string { return fmt.Sprintf("%02d%02d", c.Col, c.Row) }

type Cube struct {
	Q, R, S int
}

// ToCube converts an odd-q offset coordinate.
func ToCube(h Coord) Cube {
	q := h.Col - 1
	r := h.Row - 1
	z := r - (q-(q&1))/2
	return Cube{Q: q, R: -q - z, S: z}
}

// FromCube converts back to a 1-indexed offset coordinate.
func FromCube(c Cube) Coord {
	row := c.S + (c.Q-(c.Q&1))/2
	return Coord{Col: c.Q + 1, Row: row + 1}
}

// Distance is the number of hexes between a and b.
func Distance(a, b Coord) int {
	ac, bc := ToCube(a), ToCube(b)
	return (abs(ac.Q-bc.Q) + abs(ac.R-bc.R) + abs(ac.S-bc.S)) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ─── Facing ─────────────────────────────────────────────────────────────────
// Facing 0-5 runs clockwise from north: 0=N 1=NE 2=SE 3=S 4=SW 5=NW.

// Facing normalizes any integer to 0..5.
func Facing(f int) int { return ((f % 6) + 6) % 6 }

var cubeDirs = [6]Cube{
	{0, 1, -1}, {1, 0, -1}, {1, -1, 0},
	{0, -1, 1}, {-1, 0, 1}, {-1, 1, 0},
}

// Neighbor returns the adjacent hex in direction dir.
func Neighbor(h Coord, dir int) Coord {
	c := ToCube(h)
	d := cubeDirs[Facing(dir)]
	return FromCube(Cube{Q: c.Q + d.Q, R: c.R + d.R, S: c.S + d.S})
}

// Neighbors returns the six adjacent hexes in facing order.
func Neighbors(h Coord) [6]Coord {
	var out [6]Coord
	for i := range out {
		out[i] = Neighbor(h, i)
	}
	return out
}

// Bearing returns which of the six directions best points from one hex to
// another. Ties resolve to the lower direction.
func Bearing(from, to Coord) int {
	if from == to {
		return 0
	}
	fc, tc := ToCube(from), ToCube(to)
	dq, dr, ds := tc.Q-fc.Q, tc.R-fc.R, tc.S-fc.S
	best, bestDot := 0, -(1 << 30)
	for i, d := range cubeDirs {
		if dot := dq*d.Q + dr*d.R + ds*d.S; dot > bestDot {
			best, bestDot = i, dot
		}
	}
	return best
}

// ─── Arcs ───────────────────────────────────────────────────────────────────

// Arc is the side of a unit another hex lies on.
type Arc string

const (
	ArcFront Arc = "front"
	ArcLeft  Arc = "left"
	ArcRight Arc = "right"
	ArcRear  Arc = "rear"
)

// ArcFromOffset maps the hexside difference between a bearing and a facing
// onto an arc. The front arc spans the facing hexside and its two
// neighbours.
func ArcFromOffset(diff int) Arc {
	switch Facing(diff) {
	case 0, 1, 5:
		return ArcFront
	case 2:
		return ArcRight
	case 4:
		return ArcLeft
	default:
		return ArcRear
	}
}

// ArcOf returns the arc of other relative to a unit at pos with facing.
func ArcOf(pos Coord, facing int, other Coord) Arc {
	return ArcFromOffset(Bearing(pos, other) - facing)
}

// Adjacent reports whether two hexes share a side.
func Adjacent(a, b Coord) bool { return Distance(a, b) == 1 }

// Toward returns the neighbour of from that is closest to to.
func Toward(from, to Coord) Coord {
	if from == to {
		return from
	}
	return Neighbor(from, Bearing(from, to))
}
