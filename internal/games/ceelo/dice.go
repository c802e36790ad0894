package ceelo

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidSides indicates a die was configured with fewer than two faces.
var ErrInvalidSides = errors.New("dice must have at least 2 sides")

// Source supplies randomness for dice. Intn returns a value in [0, n).
type Source interface {
	Intn(n int) int
}

// NewSeededSource returns a deterministic pseudo-random source.
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Dice throws three dice with the configured number of sides.
type Dice struct {
	sides int
	src   Source
}

func NewDice(sides int, src Source) (*Dice, error) {
	if sides < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSides, sides)
	}
	if src == nil {
		return nil, errors.New("dice source is required")
	}
	return &Dice{sides: sides, src: src}, nil
}

func (d *Dice) Sides() int { return d.sides }

// Roll throws the three dice. Every face is in [1, Sides()].
func (d *Dice) Roll() Roll {
	var r Roll
	for i := range r {
		r[i] = d.src.Intn(d.sides) + 1
	}
	return r
}
