package ceelo

import "fmt"

// Roll is the three dice of one throw, in the order they landed.
type Roll [3]int

var (
	lowStraight  = Roll{1, 2, 3}
	highStraight = Roll{4, 5, 6}
)

// Sorted returns the dice in ascending order.
func (r Roll) Sorted() Roll {
	s := r
	if s[0] > s[1] {
		s[0], s[1] = s[1], s[0]
	}
	if s[1] > s[2] {
		s[1], s[2] = s[2], s[1]
	}
	if s[0] > s[1] {
		s[0], s[1] = s[1], s[0]
	}
	return s
}

func (r Roll) String() string {
	return fmt.Sprintf("%d-%d-%d", r[0], r[1], r[2])
}

// Evaluate classifies a roll. Faces are assumed to be valid for the dice in use;
// Dice enforces that at generation time.
func Evaluate(r Roll) Outcome {
	s := r.Sorted()

	switch {
	case s == lowStraight:
		return AutoLoss{}
	case s == highStraight:
		return AutoWin{Hand: HandCeeLo}
	case s[0] == s[2]:
		return AutoWin{Hand: HandTriple, Face: s[0]}
	case s[0] == s[1]:
		return Point{Value: s[2]}
	case s[1] == s[2]:
		return Point{Value: s[0]}
	}
	return NoScore{}
}
