package games

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ceelo/internal/games/ceelo"
	"ceelo/internal/ledger"
	"ceelo/pkg/config"
)

var (
	ErrNoBet           = errors.New("place a bet before rolling")
	ErrNotInRound      = errors.New("player is not part of this round")
	ErrRoundInProgress = errors.New("round in progress")
	ErrNotEligible     = errors.New("player is out of the game")
	ErrNoPlayers       = errors.New("no players with money at the table")
)

// DefaultHistoryLimit is how many settled rounds a table keeps in memory.
const DefaultHistoryLimit = 50

// RoundRecord is a settled round as it is stored and broadcast.
type RoundRecord struct {
	ID         string
	Number     int
	Settlement ceelo.Settlement
	SettledAt  time.Time
}

// Store persists table state. Calls happen outside the table lock.
type Store interface {
	SavePlayer(p ledger.Player) error
	DeletePlayer(name string) error
	RecordRound(rec RoundRecord) error
}

// Notifier is told about every settled round.
type Notifier interface {
	NotifyRound(rec RoundRecord)
}

// RollResult describes one throw at the table.
type RollResult struct {
	Player  string
	Roll    ceelo.Roll
	Outcome ceelo.Outcome
	// Reroll is set for a NoScore throw; the same player goes again.
	Reroll bool
	// Next is who rolls next, empty once the round settled.
	Next string
	// Settled is set when this throw completed the round.
	Settled *RoundRecord
	// GameOver is set when fewer than two players can continue. Winner is the
	// last player still in, if any.
	GameOver bool
	Winner   string
}

type Option func(*Table)

func WithStore(s Store) Option { return func(t *Table) { t.store = s } }

func WithNotifier(n Notifier) Option { return func(t *Table) { t.notifier = n } }

func WithLogger(l logrus.FieldLogger) Option { return func(t *Table) { t.log = l } }

func WithClock(now func() time.Time) Option { return func(t *Table) { t.now = now } }

// WithDispatcher runs persistence and notifications on d instead of inline.
func WithDispatcher(d *Dispatcher) Option { return func(t *Table) { t.dispatcher = d } }

// WithHistory seeds the table with rounds settled in an earlier session,
// oldest first. Round numbering continues from the last one.
func WithHistory(recs []RoundRecord) Option {
	return func(t *Table) {
		t.history = append(t.history[:0], recs...)
		if n := len(recs); n > 0 {
			t.number = recs[n-1].Number
		}
	}
}

func WithHistoryLimit(n int) Option { return func(t *Table) { t.historyLimit = n } }

// Table runs a Cee-lo game: bets, turn order, rolls and settlement. All state
// changes happen under one mutex, so a settlement is never interleaved with
// another roll.
type Table struct {
	mu sync.Mutex

	cfg    config.GameConfig
	rules  ceelo.Rules
	ledger *ledger.Ledger
	dice   *ceelo.Dice

	store        Store
	notifier     Notifier
	dispatcher   *Dispatcher
	log          logrus.FieldLogger
	now          func() time.Time
	historyLimit int

	round        *ceelo.Round
	participants []string
	number       int
	history      []RoundRecord
}

func NewTable(cfg config.GameConfig, l *ledger.Ledger, dice *ceelo.Dice, opts ...Option) (*Table, error) {
	if l == nil || dice == nil {
		return nil, errors.New("table needs a ledger and dice")
	}
	bust, err := ceelo.ParseBustPolicy(cfg.BustPolicy)
	if err != nil {
		return nil, err
	}
	allIn, err := ceelo.ParseAllInPolicy(cfg.AllInWinner)
	if err != nil {
		return nil, err
	}
	t := &Table{
		cfg:          cfg,
		rules:        ceelo.Rules{Bust: bust, AllIn: allIn},
		ledger:       l,
		dice:         dice,
		log:          logrus.StandardLogger(),
		now:          time.Now,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.WithField("component", "table")
	t.trimHistory()
	return t, nil
}

func (t *Table) AddPlayer(name string) (ledger.Player, error) {
	t.mu.Lock()
	p, err := t.ledger.Add(name)
	t.mu.Unlock()
	if err != nil {
		return p, err
	}
	t.log.WithField("player", p.Name).Info("player joined")
	t.persist(p)
	return p, nil
}

// RemovePlayer takes a player off the table. A player who already rolled in
// the open round stays until it settles. Removing the last player the round
// was waiting on settles it, and the record is returned.
func (t *Table) RemovePlayer(name string) (*RoundRecord, error) {
	t.mu.Lock()
	if t.round != nil && t.round.Has(name) {
		t.mu.Unlock()
		return nil, fmt.Errorf("%w: %s already rolled", ErrRoundInProgress, name)
	}
	if err := t.ledger.Remove(name); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.dropParticipant(name)

	var (
		rec     *RoundRecord
		players []ledger.Player
		err     error
	)
	if t.round != nil && t.round.Len() == len(t.participants) {
		rec, err = t.settleLocked()
		players = t.ledger.Players()
	}
	t.mu.Unlock()

	t.log.WithField("player", name).Info("player left")
	t.forget(name)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		t.afterSettle(*rec, players)
	}
	return rec, nil
}

func (t *Table) Deposit(name string, amount int) (ledger.Player, error) {
	t.mu.Lock()
	err := t.ledger.Deposit(name, amount)
	p, _ := t.ledger.Get(name)
	t.mu.Unlock()
	if err != nil {
		return ledger.Player{}, err
	}
	t.persist(p)
	return p, nil
}

// SetBet stakes amount for name. The bet is locked once the player has rolled
// in the open round.
func (t *Table) SetBet(name string, amount int) error {
	t.mu.Lock()
	if t.round != nil && t.round.Has(name) {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s already rolled", ErrRoundInProgress, name)
	}
	if p, ok := t.ledger.Get(name); ok && !p.Eligible() {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotEligible, name)
	}
	err := t.ledger.SetBet(name, amount)
	p, _ := t.ledger.Get(name)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	t.persist(p)
	return nil
}

// BetAll sets the same bet for every eligible player who has not rolled yet.
// Nothing changes unless every one of them can cover it.
func (t *Table) BetAll(amount int) ([]string, error) {
	t.mu.Lock()
	var names []string
	for _, p := range t.ledger.Eligible() {
		if t.round != nil && t.round.Has(p.Name) {
			continue
		}
		if amount <= 0 || amount < t.cfg.MinBet {
			t.mu.Unlock()
			return nil, fmt.Errorf("%w: bet must be at least %d", ledger.ErrInvalidInput, max(t.cfg.MinBet, 1))
		}
		if amount > p.Balance {
			t.mu.Unlock()
			return nil, fmt.Errorf("%w: %s has %d, cannot bet %d", ledger.ErrInsufficientFunds, p.Name, p.Balance, amount)
		}
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		t.mu.Unlock()
		return nil, ErrNoPlayers
	}
	var players []ledger.Player
	for _, n := range names {
		if err := t.ledger.SetBet(n, amount); err != nil {
			t.mu.Unlock()
			return nil, err
		}
		p, _ := t.ledger.Get(n)
		players = append(players, p)
	}
	t.mu.Unlock()

	t.log.WithFields(logrus.Fields{"amount": amount, "players": len(names)}).Info("bets placed for all players")
	t.persist(players...)
	return names, nil
}

// Roll throws the dice for name, or for the player whose turn it is when name
// is empty. A NoScore throw is not recorded and the player rolls again. The
// throw that completes the round settles it.
func (t *Table) Roll(name string) (RollResult, error) {
	t.mu.Lock()
	opening := t.round == nil
	participants := t.participants
	if opening {
		// Everyone with money when the first die is thrown takes part.
		participants = t.ledger.Active()
		if len(participants) == 0 {
			t.mu.Unlock()
			return RollResult{}, ErrNoPlayers
		}
	}
	if name == "" {
		name = participants[0]
		if !opening {
			name = t.pendingLocked()[0]
		}
	}

	p, ok := t.ledger.Get(name)
	switch {
	case !ok:
		t.mu.Unlock()
		return RollResult{}, fmt.Errorf("%w: player %q not found", ledger.ErrInvalidInput, name)
	case !p.Eligible():
		t.mu.Unlock()
		return RollResult{}, fmt.Errorf("%w: %s", ErrNotEligible, name)
	case !slices.Contains(participants, name):
		t.mu.Unlock()
		return RollResult{}, fmt.Errorf("%w: %s joined after it started", ErrNotInRound, name)
	case !opening && t.round.Has(name):
		t.mu.Unlock()
		return RollResult{}, fmt.Errorf("%w: %s", ceelo.ErrAlreadyRolled, name)
	case p.CurrentBet <= 0:
		t.mu.Unlock()
		return RollResult{}, fmt.Errorf("%w: %s", ErrNoBet, name)
	}

	if opening {
		t.round = ceelo.NewRound()
		t.participants = participants
		t.log.WithFields(logrus.Fields{"round": t.number + 1, "players": len(participants)}).Info("round started")
	}

	roll := t.dice.Roll()
	outcome := ceelo.Evaluate(roll)
	res := RollResult{Player: name, Roll: roll, Outcome: outcome}

	log := t.log.WithFields(logrus.Fields{"player": name, "roll": roll.String(), "outcome": outcome.String()})
	if err := t.ledger.RecordRoll(name, roll, outcome); err != nil {
		log.WithError(err).Warn("failed to record last roll")
	}
	if !outcome.Scoring() {
		res.Reroll = true
		res.Next = name
		t.mu.Unlock()
		log.Debug("no score, rolling again")
		return res, nil
	}

	if err := t.round.Record(ceelo.Entry{Player: name, Roll: roll, Outcome: outcome, Bet: p.CurrentBet}); err != nil {
		t.mu.Unlock()
		return res, err
	}
	log.Info("roll recorded")

	if pending := t.pendingLocked(); len(pending) > 0 {
		res.Next = pending[0]
		t.mu.Unlock()
		return res, nil
	}

	rec, err := t.settleLocked()
	if err != nil {
		t.mu.Unlock()
		return res, err
	}
	res.Settled = rec
	res.Winner, res.GameOver = t.ledger.GameOver()
	players := t.ledger.Players()
	t.mu.Unlock()

	t.afterSettle(*rec, players)
	if res.GameOver {
		t.log.WithField("winner", res.Winner).Info("game over")
	}
	return res, nil
}

// CurrentPlayer is who should roll next.
func (t *Table) CurrentPlayer() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.round == nil {
		return t.ledger.Next("")
	}
	pending := t.pendingLocked()
	if len(pending) == 0 {
		return "", false
	}
	return pending[0], true
}

// Pending lists the players still to roll in the open round. Before the first
// roll it lists everyone who would take part.
func (t *Table) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.round == nil {
		return t.ledger.Active()
	}
	return t.pendingLocked()
}

// InRound reports whether a round has started and not yet settled.
func (t *Table) InRound() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.round != nil
}

// Pot is the sum of bets recorded so far in the open round.
func (t *Table) Pot() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.round == nil {
		return 0
	}
	return t.round.Pot()
}

func (t *Table) Players() []ledger.Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Players()
}

func (t *Table) Player(name string) (ledger.Player, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Get(name)
}

func (t *Table) Leaderboard() []ledger.Standing {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Leaderboard()
}

// History returns settled rounds, oldest first.
func (t *Table) History() []RoundRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RoundRecord, len(t.history))
	copy(out, t.history)
	return out
}

// RoundNumber is the number of the last settled round.
func (t *Table) RoundNumber() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.number
}

// GameOver reports whether the game has ended and who won it.
func (t *Table) GameOver() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.GameOver()
}

// Reset starts a new game with the same players. An open round is discarded
// without touching any balance.
func (t *Table) Reset() {
	t.mu.Lock()
	t.round = nil
	t.participants = nil
	t.ledger.ResetGame()
	players := t.ledger.Players()
	t.mu.Unlock()

	t.log.Info("game reset")
	t.persist(players...)
}

func (t *Table) dropParticipant(name string) {
	for i, n := range t.participants {
		if n == name {
			t.participants = append(t.participants[:i:i], t.participants[i+1:]...)
			break
		}
	}
	if t.round != nil && len(t.participants) == 0 {
		t.round = nil
		t.participants = nil
	}
}

func (t *Table) pendingLocked() []string {
	var out []string
	for _, n := range t.participants {
		if !t.round.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

func (t *Table) settleLocked() (*RoundRecord, error) {
	s, err := ceelo.Settle(t.round, t.ledger, t.rules)
	if err != nil {
		return nil, fmt.Errorf("settle round %d: %w", t.number+1, err)
	}
	t.number++
	rec := RoundRecord{
		ID:         uuid.NewString(),
		Number:     t.number,
		Settlement: s,
		SettledAt:  t.now(),
	}
	t.history = append(t.history, rec)
	t.trimHistory()
	t.round = nil
	t.participants = nil

	t.log.WithFields(logrus.Fields{
		"round":      rec.Number,
		"winners":    s.Winners,
		"pot":        s.Payout.Pot,
		"share":      s.Payout.Share,
		"eliminated": s.Eliminated,
		"push":       s.Push,
	}).Info("round settled")
	return &rec, nil
}

func (t *Table) trimHistory() {
	if t.historyLimit > 0 && len(t.history) > t.historyLimit {
		t.history = append(t.history[:0:0], t.history[len(t.history)-t.historyLimit:]...)
	}
}

func (t *Table) afterSettle(rec RoundRecord, players []ledger.Player) {
	t.run(Job{Name: "round " + rec.ID, Run: func() error {
		if t.store != nil {
			if err := t.store.RecordRound(rec); err != nil {
				return fmt.Errorf("record round: %w", err)
			}
			for _, p := range players {
				if err := t.store.SavePlayer(p); err != nil {
					return fmt.Errorf("save player %s: %w", p.Name, err)
				}
			}
		}
		if t.notifier != nil {
			t.notifier.NotifyRound(rec)
		}
		return nil
	}})
}

func (t *Table) persist(players ...ledger.Player) {
	if t.store == nil || len(players) == 0 {
		return
	}
	t.run(Job{Name: "save players", Run: func() error {
		for _, p := range players {
			if err := t.store.SavePlayer(p); err != nil {
				return fmt.Errorf("save player %s: %w", p.Name, err)
			}
		}
		return nil
	}})
}

func (t *Table) forget(name string) {
	if t.store == nil {
		return
	}
	t.run(Job{Name: "delete player", Run: func() error {
		return t.store.DeletePlayer(name)
	}})
}

func (t *Table) run(job Job) {
	if t.dispatcher != nil {
		t.dispatcher.Enqueue(job)
		return
	}
	if err := job.Run(); err != nil {
		t.log.WithError(err).WithField("job", job.Name).Error("job failed")
	}
}
