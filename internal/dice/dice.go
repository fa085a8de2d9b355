// Package dice is the single source of randomness for combat resolution.
//
// Every resolver takes a Roller explicitly. Two rollers built from the same
// seed yield the same sequence, which is what makes event logs reproducible.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Roller produces die results. D6 returns 1..6 and IntN returns 0..n-1.
type Roller interface {
	D6() int
	IntN(n int) int
}

// Roll is the outcome of a 2d6 throw.
type Roll struct {
	Dice      [2]int `json:"dice"`
	Total     int    `json:"total"`
	SnakeEyes bool   `json:"snakeEyes,omitempty"`
	Boxcars   bool   `json:"boxcars,omitempty"`
}

// Roll2d6 throws two dice from r.
func Roll2d6(r Roller) Roll {
	a, b := r.D6(), r.D6()
	return Roll{
		Dice:      [2]int{a, b},
		Total:     a + b,
		SnakeEyes: a == 1 && b == 1,
		Boxcars:   a == 6 && b == 6,
	}
}

// Seeded is a PCG-backed Roller. It is not safe for concurrent use; the
// batch runner gives every simulated game its own instance.
type Seeded struct {
	seed uint64
	rng  *rand.Rand
}

// NewSeeded returns a Roller whose sequence is fully determined by seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{seed: seed, rng: rand.New(rand.NewPCG(seed, 0))}
}

// Seed reports the seed the roller was built from.
func (s *Seeded) Seed() uint64 { return s.seed }

func (s *Seeded) D6() int { return s.rng.IntN(6) + 1 }

func (s *Seeded) IntN(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("dice: IntN(%d)", n))
	}
	return s.rng.IntN(n)
}

// NewSeed draws a seed from the operating system's entropy source. It is only
// used when a caller does not supply one.
func NewSeed() (uint64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("generate seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
