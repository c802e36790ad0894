package ceelo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays values as Intn results.
type fixedSource struct {
	values []int
}

func (f *fixedSource) Intn(n int) int {
	v := f.values[0]
	f.values = f.values[1:]
	return v % n
}

func TestNewDiceRejectsInvalidSides(t *testing.T) {
	for _, sides := range []int{-1, 0, 1} {
		_, err := NewDice(sides, NewSeededSource(1))
		assert.True(t, errors.Is(err, ErrInvalidSides), "sides %d", sides)
	}
	_, err := NewDice(6, nil)
	assert.Error(t, err)
}

func TestDiceRollStaysInRange(t *testing.T) {
	d, err := NewDice(6, NewSeededSource(42))
	require.NoError(t, err)
	assert.Equal(t, 6, d.Sides())

	for i := 0; i < 500; i++ {
		for _, face := range d.Roll() {
			assert.GreaterOrEqual(t, face, 1)
			assert.LessOrEqual(t, face, 6)
		}
	}
}

func TestDiceRollIsSeedDeterministic(t *testing.T) {
	a, _ := NewDice(6, NewSeededSource(7))
	b, _ := NewDice(6, NewSeededSource(7))
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Roll(), b.Roll())
	}
}

func TestDiceRollUsesSource(t *testing.T) {
	d, err := NewDice(6, &fixedSource{values: []int{3, 4, 5}})
	require.NoError(t, err)
	assert.Equal(t, Roll{4, 5, 6}, d.Roll())
}
