package dice

import "fmt"

// Scripted replays fixed die faces. It is meant for tests and for replaying a
// recorded sequence; running past the end of the script panics so a test
// never silently consumes an unplanned roll.
type Scripted struct {
	faces []int
	picks []int
	fi    int
	pi    int
}

// NewScripted returns a Roller that yields faces from D6 in order. IntN draws
// from the values given to WithPicks, or returns 0 when none were supplied.
func NewScripted(faces ...int) *Scripted {
	for _, f := range faces {
		if f < 1 || f > 6 {
			panic(fmt.Sprintf("dice: scripted face %d out of range", f))
		}
	}
	return &Scripted{faces: faces}
}

// WithPicks sets the values IntN returns, in order.
func (s *Scripted) WithPicks(picks ...int) *Scripted {
	s.picks = append(s.picks, picks...)
	return s
}

// Faces appends single die faces.
func (s *Scripted) Faces(faces ...int) *Scripted {
	s.faces = append(s.faces, NewScripted(faces...).faces...)
	return s
}

// Totals appends dice pairs producing each 2d6 total in order.
func (s *Scripted) Totals(totals ...int) *Scripted {
	for _, t := range totals {
		a, b := Split(t)
		s.faces = append(s.faces, a, b)
	}
	return s
}

func (s *Scripted) D6() int {
	if s.fi >= len(s.faces) {
		panic(fmt.Sprintf("dice: script exhausted after %d rolls", s.fi))
	}
	f := s.faces[s.fi]
	s.fi++
	return f
}

func (s *Scripted) IntN(n int) int {
	if s.pi >= len(s.picks) {
		return 0
	}
	p := s.picks[s.pi]
	s.pi++
	if p < 0 || p >= n {
		panic(fmt.Sprintf("dice: scripted pick %d out of range [0,%d)", p, n))
	}
	return p
}

// Remaining reports how many scripted faces have not been consumed.
func (s *Scripted) Remaining() int { return len(s.faces) - s.fi }

// Split returns two die faces that sum to total (2..12).
func Split(total int) (int, int) {
	if total < 2 || total > 12 {
		panic(fmt.Sprintf("dice: total %d out of range", total))
	}
	if total <= 7 {
		return 1, total - 1
	}
	return 6, total - 6
}
