package ceelo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyRolled indicates a player already has a scoring roll in the round.
	ErrAlreadyRolled = errors.New("player already rolled this round")
	// ErrEmptyRound indicates a round was settled before anyone rolled.
	ErrEmptyRound = errors.New("round has no rolls")
	// ErrUnknownPlayer indicates a round participant is missing from the bankroll.
	ErrUnknownPlayer = errors.New("unknown player")
)

// Entry is one player's scoring roll and the bet riding on it.
type Entry struct {
	Player  string
	Roll    Roll
	Outcome Outcome
	Bet     int
}

// Round collects the scoring rolls of one round in the order they were made.
type Round struct {
	entries []Entry
	index   map[string]int
}

func NewRound() *Round {
	return &Round{index: make(map[string]int)}
}

// Record adds a player's scoring roll. Each player records at most once.
func (r *Round) Record(e Entry) error {
	if strings.TrimSpace(e.Player) == "" {
		return errors.New("entry needs a player name")
	}
	if e.Bet < 0 {
		return fmt.Errorf("entry for %s has a negative bet", e.Player)
	}
	if _, ok := r.index[e.Player]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRolled, e.Player)
	}
	if e.Outcome == nil {
		e.Outcome = Evaluate(e.Roll)
	}
	r.index[e.Player] = len(r.entries)
	r.entries = append(r.entries, e)
	return nil
}

func (r *Round) Has(player string) bool {
	_, ok := r.index[player]
	return ok
}

func (r *Round) Entry(player string) (Entry, bool) {
	i, ok := r.index[player]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns a copy of the recorded rolls in insertion order.
func (r *Round) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Round) Len() int { return len(r.entries) }

// Pot is the sum of every recorded bet, whatever the outcomes.
func (r *Round) Pot() int {
	pot := 0
	for _, e := range r.entries {
		pot += e.Bet
	}
	return pot
}

// DetermineWinners returns every player tied at the best rank in the round, in
// insertion order. A round where everyone rolled 1-2-3 still has winners at the
// AutoLoss tier; Settle decides what that means for the pot.
func DetermineWinners(r *Round) []string {
	var (
		best    Rank
		winners []string
	)
	for i, e := range r.entries {
		rank := RankOf(e.Outcome)
		switch c := rank.Compare(best); {
		case i == 0 || c > 0:
			best = rank
			winners = []string{e.Player}
		case c == 0:
			winners = append(winners, e.Player)
		}
	}
	return winners
}

// BestRank is the highest rank recorded in the round.
func BestRank(r *Round) (Rank, bool) {
	if len(r.entries) == 0 {
		return Rank{}, false
	}
	best := RankOf(r.entries[0].Outcome)
	for _, e := range r.entries[1:] {
		if rank := RankOf(e.Outcome); rank.Compare(best) > 0 {
			best = rank
		}
	}
	return best, true
}
