package ceelo

import (
	"fmt"
	"slices"
	"strings"
)

// Bankroll is the player state a settlement reads and mutates.
type Bankroll interface {
	Has(name string) bool
	// Debit removes amount from the balance, clears the current bet and reports
	// whether the player is now out.
	Debit(name string, amount int) (eliminated bool, err error)
	// Award credits amount and counts a round won. It does not change whether
	// the player is out.
	Award(name string, amount int) error
	// Reinstate puts a player with money back in the game.
	Reinstate(name string) error
	ClearBet(name string) error
}

// BustPolicy decides what happens to a round where every roll was 1-2-3.
type BustPolicy int

const (
	// BustForced pays the pot to everyone tied at the AutoLoss tier.
	BustForced BustPolicy = iota
	// BustPush cancels the round: nothing is debited or credited.
	BustPush
)

func ParseBustPolicy(s string) (BustPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forced":
		return BustForced, nil
	case "push":
		return BustPush, nil
	}
	return BustForced, fmt.Errorf("unknown bust policy %q", s)
}

func (p BustPolicy) String() string {
	if p == BustPush {
		return "push"
	}
	return "forced"
}

// AllInPolicy decides whether a winner whose bet emptied their balance stays
// out after being paid.
type AllInPolicy int

const (
	// AllInOut keeps the winner out; the winnings stay on their balance.
	AllInOut AllInPolicy = iota
	// AllInReinstate puts the paid winner back in the game.
	AllInReinstate
)

func ParseAllInPolicy(s string) (AllInPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "out":
		return AllInOut, nil
	case "reinstate":
		return AllInReinstate, nil
	}
	return AllInOut, fmt.Errorf("unknown all-in winner policy %q", s)
}

func (p AllInPolicy) String() string {
	if p == AllInReinstate {
		return "reinstate"
	}
	return "out"
}

// Rules are the table settings a settlement depends on.
type Rules struct {
	Bust  BustPolicy
	AllIn AllInPolicy
}

// Payout describes how a pot was distributed.
type Payout struct {
	Pot       int
	Share     int // credited to each winner
	Remainder int // left undistributed when the pot does not divide evenly
}

// SplitPot credits the pot to the winners. A single winner takes the full pot;
// tied winners each take pot/len(winners) rounded down. Every winner's win count
// goes up by one.
func SplitPot(r *Round, winners []string, bank Bankroll) (Payout, error) {
	p := Payout{Pot: r.Pot()}
	if len(winners) == 0 {
		p.Remainder = p.Pot
		return p, nil
	}

	p.Share = p.Pot / len(winners)
	p.Remainder = p.Pot - p.Share*len(winners)
	for _, w := range winners {
		if err := bank.Award(w, p.Share); err != nil {
			return p, fmt.Errorf("award %s: %w", w, err)
		}
	}
	return p, nil
}

// Settlement is the result of resolving a round.
type Settlement struct {
	Entries    []Entry
	Winners    []string
	Payout     Payout
	Eliminated []string
	Push       bool
}

// Settle resolves a complete round against the bankroll. Every participant's bet
// is debited before any winner is credited, so a winner nets share - bet.
func Settle(r *Round, bank Bankroll, rules Rules) (Settlement, error) {
	if r.Len() == 0 {
		return Settlement{}, ErrEmptyRound
	}
	for _, e := range r.entries {
		if !bank.Has(e.Player) {
			return Settlement{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, e.Player)
		}
	}

	s := Settlement{Entries: r.Entries()}

	best, _ := BestRank(r)
	if rules.Bust == BustPush && best.Tier == TierAutoLoss {
		s.Push = true
		s.Payout = Payout{Pot: r.Pot()}
		for _, e := range r.entries {
			if err := bank.ClearBet(e.Player); err != nil {
				return s, fmt.Errorf("clear bet %s: %w", e.Player, err)
			}
		}
		return s, nil
	}

	s.Winners = DetermineWinners(r)

	for _, e := range r.entries {
		out, err := bank.Debit(e.Player, e.Bet)
		if err != nil {
			return s, fmt.Errorf("debit %s: %w", e.Player, err)
		}
		if out {
			s.Eliminated = append(s.Eliminated, e.Player)
		}
	}

	payout, err := SplitPot(r, s.Winners, bank)
	s.Payout = payout
	if err != nil {
		return s, err
	}

	if rules.AllIn == AllInReinstate && payout.Share > 0 {
		var back []string
		for _, w := range s.Winners {
			if slices.Contains(s.Eliminated, w) {
				if err := bank.Reinstate(w); err != nil {
					return s, fmt.Errorf("reinstate %s: %w", w, err)
				}
				back = append(back, w)
			}
		}
		if len(back) > 0 {
			s.Eliminated = exclude(s.Eliminated, back)
		}
	}
	return s, nil
}

func exclude(names, drop []string) []string {
	out := names[:0:0]
	for _, n := range names {
		if !slices.Contains(drop, n) {
			out = append(out, n)
		}
	}
	return out
}
