// Package ceelo implements the Cee-lo rule table: classifying a three-dice roll,
// ranking the result against other players, and settling a round's pot.
package ceelo

import "fmt"

// Kind is the category a roll falls into.
type Kind int

const (
	KindNoScore Kind = iota
	KindAutoLoss
	KindPoint
	KindAutoWin
)

func (k Kind) String() string {
	switch k {
	case KindNoScore:
		return "No Score"
	case KindAutoLoss:
		return "Auto Loss"
	case KindPoint:
		return "Point"
	case KindAutoWin:
		return "Auto Win"
	default:
		return "Unknown"
	}
}

// Hand distinguishes the ways an automatic win can happen.
type Hand int

const (
	// HandGeneric is reserved; the current rule table never produces it.
	HandGeneric Hand = iota
	HandTriple
	HandCeeLo
)

// Outcome is the classified result of a roll. The concrete type is one of
// AutoLoss, NoScore, Point or AutoWin.
type Outcome interface {
	Kind() Kind
	// Scoring reports whether the roll counts for the round. A NoScore roll is
	// rolled again.
	Scoring() bool
	String() string
	isOutcome()
}

// AutoLoss is a 1-2-3.
type AutoLoss struct{}

func (AutoLoss) Kind() Kind     { return KindAutoLoss }
func (AutoLoss) Scoring() bool  { return true }
func (AutoLoss) String() string { return "1-2-3 (Automatic Loss)" }
func (AutoLoss) isOutcome()     {}

// NoScore is three distinct faces other than 1-2-3 or 4-5-6.
type NoScore struct{}

func (NoScore) Kind() Kind     { return KindNoScore }
func (NoScore) Scoring() bool  { return false }
func (NoScore) String() string { return "No Score" }
func (NoScore) isOutcome()     {}

// Point is a pair plus one odd die; Value is the odd die.
type Point struct {
	Value int
}

func (Point) Kind() Kind       { return KindPoint }
func (Point) Scoring() bool    { return true }
func (p Point) String() string { return fmt.Sprintf("Point %d", p.Value) }
func (Point) isOutcome()       {}

// AutoWin is a 4-5-6 or a triple. Face is set only for HandTriple.
type AutoWin struct {
	Hand Hand
	Face int
}

func (AutoWin) Kind() Kind    { return KindAutoWin }
func (AutoWin) Scoring() bool { return true }

func (w AutoWin) String() string {
	switch w.Hand {
	case HandCeeLo:
		return "4-5-6 (Cee-lo!)"
	case HandTriple:
		return fmt.Sprintf("Trips! (%d-%d-%d)", w.Face, w.Face, w.Face)
	default:
		return "Automatic Win"
	}
}

func (AutoWin) isOutcome() {}
