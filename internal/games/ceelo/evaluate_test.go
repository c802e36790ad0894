package ceelo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// permutations returns every ordering of the three faces.
func permutations(a, b, c int) []Roll {
	return []Roll{{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a}}
}

func TestEvaluateAutoLoss(t *testing.T) {
	for _, r := range permutations(1, 2, 3) {
		assert.Equal(t, AutoLoss{}, Evaluate(r), "roll %v", r)
	}
	assert.Equal(t, AutoLoss{}, Evaluate(Roll{3, 1, 2}))
}

func TestEvaluateCeeLo(t *testing.T) {
	for _, r := range permutations(4, 5, 6) {
		assert.Equal(t, AutoWin{Hand: HandCeeLo}, Evaluate(r), "roll %v", r)
	}
	assert.Equal(t, AutoWin{Hand: HandCeeLo}, Evaluate(Roll{6, 4, 5}))
}

func TestEvaluateTriples(t *testing.T) {
	for f := 1; f <= 6; f++ {
		assert.Equal(t, AutoWin{Hand: HandTriple, Face: f}, Evaluate(Roll{f, f, f}))
	}
}

func TestEvaluatePoint(t *testing.T) {
	for pair := 1; pair <= 6; pair++ {
		for odd := 1; odd <= 6; odd++ {
			if pair == odd {
				continue
			}
			for _, r := range permutations(pair, pair, odd) {
				assert.Equal(t, Point{Value: odd}, Evaluate(r), "roll %v", r)
			}
		}
	}
	assert.Equal(t, Point{Value: 5}, Evaluate(Roll{2, 2, 5}))
}

func TestEvaluateNoScore(t *testing.T) {
	count := 0
	for a := 1; a <= 6; a++ {
		for b := a + 1; b <= 6; b++ {
			for c := b + 1; c <= 6; c++ {
				r := Roll{a, b, c}
				if r == lowStraight || r == highStraight {
					continue
				}
				count++
				for _, p := range permutations(a, b, c) {
					assert.Equal(t, NoScore{}, Evaluate(p), "roll %v", p)
				}
			}
		}
	}
	assert.Equal(t, 18, count, "twenty distinct-face sets minus the two straights")
	assert.Equal(t, NoScore{}, Evaluate(Roll{1, 2, 4}))
}

func TestEvaluateIsDeterministic(t *testing.T) {
	for a := 1; a <= 6; a++ {
		for b := 1; b <= 6; b++ {
			for c := 1; c <= 6; c++ {
				r := Roll{a, b, c}
				assert.Equal(t, Evaluate(r), Evaluate(r))
			}
		}
	}
}

func TestOutcomeScoring(t *testing.T) {
	assert.True(t, AutoLoss{}.Scoring())
	assert.True(t, Point{Value: 3}.Scoring())
	assert.True(t, AutoWin{Hand: HandCeeLo}.Scoring())
	assert.False(t, NoScore{}.Scoring())
}

func TestOutcomeStrings(t *testing.T) {
	assert.Equal(t, "4-5-6 (Cee-lo!)", AutoWin{Hand: HandCeeLo}.String())
	assert.Equal(t, "Trips! (3-3-3)", AutoWin{Hand: HandTriple, Face: 3}.String())
	assert.Equal(t, "Point 5", Point{Value: 5}.String())
	assert.Equal(t, "1-2-3 (Automatic Loss)", AutoLoss{}.String())
	assert.Equal(t, "Auto Win", KindAutoWin.String())
	assert.Equal(t, "6-4-5", Roll{6, 4, 5}.String())
	assert.Equal(t, Roll{4, 5, 6}, Roll{6, 4, 5}.Sorted())
}
