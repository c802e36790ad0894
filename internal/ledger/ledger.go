// Package ledger keeps the players at the table: balances, current bets, win
// counts and elimination flags. It implements ceelo.Bankroll.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"ceelo/internal/games/ceelo"
	"ceelo/pkg/config"
)

// Player is a seat at the table. Seat is the registration order.
type Player struct {
	Name        string
	Seat        int
	Balance     int
	CurrentBet  int
	IsOut       bool
	RoundsWon   int
	LastRoll    ceelo.Roll
	LastOutcome ceelo.Outcome
}

// Eligible reports whether the player can take part in a round.
func (p Player) Eligible() bool {
	return p.Balance > 0 && !p.IsOut
}

// Standing is one line of the leaderboard.
type Standing struct {
	Name      string
	RoundsWon int
	Balance   int
	IsOut     bool
}

// Ledger owns every Player. Callers get copies; all changes go through methods.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	cfg      config.GameConfig
	players  map[string]*Player
	order    []string
	nextSeat int
}

func New(cfg config.GameConfig) *Ledger {
	return &Ledger{
		cfg:     cfg,
		players: make(map[string]*Player),
	}
}

// Add registers a player with the starting balance.
func (l *Ledger) Add(name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fmt.Errorf("%w: player name cannot be empty", ErrInvalidInput)
	}
	if _, ok := l.players[name]; ok {
		return Player{}, fmt.Errorf("%w: player %q already exists", ErrInvalidInput, name)
	}
	p := &Player{Name: name, Seat: l.nextSeat, Balance: l.cfg.StartingBalance}
	l.nextSeat++
	l.players[name] = p
	l.order = append(l.order, name)
	return *p, nil
}

// Restore puts back a previously persisted player, keeping its seat.
func (l *Ledger) Restore(p Player) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: player name cannot be empty", ErrInvalidInput)
	}
	if _, ok := l.players[p.Name]; ok {
		return fmt.Errorf("%w: player %q already exists", ErrInvalidInput, p.Name)
	}
	cp := p
	l.players[p.Name] = &cp
	l.order = append(l.order, p.Name)
	sort.SliceStable(l.order, func(i, j int) bool {
		return l.players[l.order[i]].Seat < l.players[l.order[j]].Seat
	})
	if p.Seat >= l.nextSeat {
		l.nextSeat = p.Seat + 1
	}
	return nil
}

func (l *Ledger) Remove(name string) error {
	if _, err := l.lookup(name); err != nil {
		return err
	}
	delete(l.players, name)
	for i, n := range l.order {
		if n == name {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

func (l *Ledger) Get(name string) (Player, bool) {
	p, ok := l.players[name]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

func (l *Ledger) Has(name string) bool {
	_, ok := l.players[name]
	return ok
}

func (l *Ledger) Len() int { return len(l.order) }

// Players returns every player in seat order.
func (l *Ledger) Players() []Player {
	out := make([]Player, 0, len(l.order))
	for _, n := range l.order {
		out = append(out, *l.players[n])
	}
	return out
}

func (l *Ledger) Names() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// SetBet stakes amount for the next round. The balance is only touched when the
// round settles.
func (l *Ledger) SetBet(name string, amount int) error {
	p, err := l.lookup(name)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: bet must be positive", ErrInvalidInput)
	}
	if amount < l.cfg.MinBet {
		return fmt.Errorf("%w: minimum bet is %d", ErrInvalidInput, l.cfg.MinBet)
	}
	if amount > p.Balance {
		return fmt.Errorf("%w: %s has %d, cannot bet %d", ErrInsufficientFunds, name, p.Balance, amount)
	}
	p.CurrentBet = amount
	return nil
}

func (l *Ledger) ClearBet(name string) error {
	p, err := l.lookup(name)
	if err != nil {
		return err
	}
	p.CurrentBet = 0
	return nil
}

// Deposit adds money to a player's balance. It does not bring an eliminated
// player back into the game; ResetGame does that.
func (l *Ledger) Deposit(name string, amount int) error {
	p, err := l.lookup(name)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: deposit must be positive", ErrInvalidInput)
	}
	p.Balance += amount
	return nil
}

// RecordRoll remembers a player's latest throw for display.
func (l *Ledger) RecordRoll(name string, roll ceelo.Roll, outcome ceelo.Outcome) error {
	p, err := l.lookup(name)
	if err != nil {
		return err
	}
	p.LastRoll = roll
	p.LastOutcome = outcome
	return nil
}

// Debit takes a settled bet off the balance and clears it. A balance at or
// below zero puts the player out.
func (l *Ledger) Debit(name string, amount int) (bool, error) {
	p, err := l.lookup(name)
	if err != nil {
		return false, err
	}
	p.Balance -= amount
	p.CurrentBet = 0
	if p.Balance <= 0 {
		p.IsOut = true
	}
	return p.IsOut, nil
}

// Award credits a round's winnings and counts the win. A player who is out
// stays out.
func (l *Ledger) Award(name string, amount int) error {
	p, err := l.lookup(name)
	if err != nil {
		return err
	}
	p.Balance += amount
	p.RoundsWon++
	return nil
}

// Reinstate clears the out flag of a player who has money again.
func (l *Ledger) Reinstate(name string) error {
	p, err := l.lookup(name)
	if err != nil {
		return err
	}
	if p.Balance <= 0 {
		return fmt.Errorf("%w: %s has no money to play with", ErrInsufficientFunds, name)
	}
	p.IsOut = false
	return nil
}

// Eligible returns the players who can still play, in seat order.
func (l *Ledger) Eligible() []Player {
	var out []Player
	for _, n := range l.order {
		if p := l.players[n]; p.Eligible() {
			out = append(out, *p)
		}
	}
	return out
}

// Active returns the names of eligible players.
func (l *Ledger) Active() []string {
	var out []string
	for _, p := range l.Eligible() {
		out = append(out, p.Name)
	}
	return out
}

// Next returns the eligible player seated after current, wrapping around. An
// empty or unknown current starts from the first seat.
func (l *Ledger) Next(current string) (string, bool) {
	active := l.Active()
	if len(active) == 0 {
		return "", false
	}
	start := -1
	for i, n := range l.order {
		if n == current {
			start = i
			break
		}
	}
	if start < 0 {
		return active[0], true
	}
	for i := 1; i <= len(l.order); i++ {
		n := l.order[(start+i)%len(l.order)]
		if l.players[n].Eligible() {
			return n, true
		}
	}
	return "", false
}

// GameOver reports whether fewer than two players can still play, and who is
// left if exactly one can.
func (l *Ledger) GameOver() (string, bool) {
	active := l.Active()
	switch len(active) {
	case 0:
		return "", l.Len() > 0
	case 1:
		return active[0], l.Len() > 1
	}
	return "", false
}

// Leaderboard orders players by rounds won, seat order on ties.
func (l *Ledger) Leaderboard() []Standing {
	players := l.Players()
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].RoundsWon > players[j].RoundsWon
	})
	out := make([]Standing, len(players))
	for i, p := range players {
		out[i] = Standing{Name: p.Name, RoundsWon: p.RoundsWon, Balance: p.Balance, IsOut: p.IsOut}
	}
	return out
}

// ResetGame starts a new game with the same players: balances go back to the
// starting amount, bets, flags and last rolls are cleared. Win counts are kept.
func (l *Ledger) ResetGame() {
	for _, p := range l.players {
		p.Balance = l.cfg.StartingBalance
		p.CurrentBet = 0
		p.IsOut = false
		p.LastRoll = ceelo.Roll{}
		p.LastOutcome = nil
	}
}

func (l *Ledger) lookup(name string) (*Player, error) {
	p, ok := l.players[name]
	if !ok {
		return nil, fmt.Errorf("%w: player %q not found", ErrInvalidInput, name)
	}
	return p, nil
}
