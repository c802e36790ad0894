package games

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceelo/internal/games/ceelo"
	"ceelo/internal/ledger"
	"ceelo/pkg/config"
)

// scripted returns faces in order; each face f comes back as f-1 from Intn.
type scripted struct {
	faces []int
}

func (s *scripted) Intn(n int) int {
	f := s.faces[0]
	s.faces = s.faces[1:]
	return f - 1
}

func (s *scripted) push(rolls ...ceelo.Roll) {
	for _, r := range rolls {
		s.faces = append(s.faces, r[0], r[1], r[2])
	}
}

type memStore struct {
	mu      sync.Mutex
	players map[string]ledger.Player
	rounds  []RoundRecord
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{players: make(map[string]ledger.Player)}
}

func (m *memStore) SavePlayer(p ledger.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.Name] = p
	return nil
}

func (m *memStore) DeletePlayer(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, name)
	m.deleted = append(m.deleted, name)
	return nil
}

func (m *memStore) RecordRound(rec RoundRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, rec)
	return nil
}

type notifierFunc func(RoundRecord)

func (f notifierFunc) NotifyRound(rec RoundRecord) { f(rec) }

func newTestTable(t *testing.T, cfg config.GameConfig, src *scripted, opts ...Option) *Table {
	t.Helper()
	log, _ := test.NewNullLogger()
	dice, err := ceelo.NewDice(6, src)
	require.NoError(t, err)
	table, err := NewTable(cfg, ledger.New(cfg), dice, append([]Option{WithLogger(log)}, opts...)...)
	require.NoError(t, err)
	return table
}

func seat(t *testing.T, table *Table, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := table.AddPlayer(n)
		require.NoError(t, err)
	}
}

func TestRoundFlow(t *testing.T) {
	src := &scripted{}
	store := newMemStore()
	var notified []RoundRecord
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	table := newTestTable(t, config.Default().Game, src,
		WithStore(store),
		WithNotifier(notifierFunc(func(r RoundRecord) { notified = append(notified, r) })),
		WithClock(func() time.Time { return at }),
	)
	seat(t, table, "A", "B", "C")

	names, err := table.BetAll(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, names)

	src.push(ceelo.Roll{1, 2, 4}, ceelo.Roll{2, 2, 5}, ceelo.Roll{6, 6, 6}, ceelo.Roll{3, 3, 1})

	res, err := table.Roll("")
	require.NoError(t, err)
	assert.Equal(t, "A", res.Player)
	assert.True(t, res.Reroll, "no score rolls again")
	assert.Equal(t, "A", res.Next)
	assert.True(t, table.InRound())

	res, err = table.Roll("")
	require.NoError(t, err)
	assert.Equal(t, ceelo.Point{Value: 5}, res.Outcome)
	assert.Equal(t, "B", res.Next)
	assert.Equal(t, 10, table.Pot())

	_, err = table.Roll("A")
	assert.True(t, errors.Is(err, ceelo.ErrAlreadyRolled))
	assert.True(t, errors.Is(table.SetBet("A", 20), ErrRoundInProgress))

	res, err = table.Roll("B")
	require.NoError(t, err)
	assert.Equal(t, ceelo.AutoWin{Hand: ceelo.HandTriple, Face: 6}, res.Outcome)
	assert.Nil(t, res.Settled)

	res, err = table.Roll("C")
	require.NoError(t, err)
	require.NotNil(t, res.Settled)
	assert.Empty(t, res.Next)
	assert.False(t, res.GameOver)

	s := res.Settled.Settlement
	assert.Equal(t, []string{"B"}, s.Winners)
	assert.Equal(t, ceelo.Payout{Pot: 30, Share: 30}, s.Payout)
	assert.Equal(t, 1, res.Settled.Number)
	assert.Equal(t, at, res.Settled.SettledAt)
	assert.NotEmpty(t, res.Settled.ID)

	b, _ := table.Player("B")
	a, _ := table.Player("A")
	assert.Equal(t, 120, b.Balance)
	assert.Equal(t, 1, b.RoundsWon)
	assert.Equal(t, 90, a.Balance)
	assert.Equal(t, 0, a.CurrentBet)

	assert.False(t, table.InRound())
	assert.Equal(t, 1, table.RoundNumber())
	require.Len(t, table.History(), 1)

	require.Len(t, store.rounds, 1)
	assert.Equal(t, 120, store.players["B"].Balance)
	require.Len(t, notified, 1)
	assert.Equal(t, res.Settled.ID, notified[0].ID)
}

func TestRollRequiresBet(t *testing.T) {
	table := newTestTable(t, config.Default().Game, &scripted{})
	seat(t, table, "A", "B")

	_, err := table.Roll("A")
	assert.True(t, errors.Is(err, ErrNoBet))
	assert.False(t, table.InRound(), "a refused roll does not open the round")

	_, err = table.Roll("ghost")
	assert.True(t, errors.Is(err, ledger.ErrInvalidInput))
}

func TestRollWithoutPlayers(t *testing.T) {
	table := newTestTable(t, config.Default().Game, &scripted{})
	_, err := table.Roll("")
	assert.True(t, errors.Is(err, ErrNoPlayers))
}

func TestLateJoinerWaitsForNextRound(t *testing.T) {
	src := &scripted{}
	table := newTestTable(t, config.Default().Game, src)
	seat(t, table, "A", "B")
	_, err := table.BetAll(10)
	require.NoError(t, err)

	src.push(ceelo.Roll{2, 2, 3})
	_, err = table.Roll("A")
	require.NoError(t, err)

	seat(t, table, "C")
	require.NoError(t, table.SetBet("C", 10))
	_, err = table.Roll("C")
	assert.True(t, errors.Is(err, ErrNotInRound))
	assert.Equal(t, []string{"B"}, table.Pending())
}

func allInRound(t *testing.T, cfg config.GameConfig) (*Table, RollResult) {
	t.Helper()
	src := &scripted{}
	table := newTestTable(t, cfg, src)
	seat(t, table, "A", "B")
	_, err := table.BetAll(100)
	require.NoError(t, err)

	src.push(ceelo.Roll{4, 5, 6}, ceelo.Roll{2, 2, 3})
	_, err = table.Roll("A")
	require.NoError(t, err)
	res, err := table.Roll("B")
	require.NoError(t, err)
	require.NotNil(t, res.Settled)
	return table, res
}

func TestAllInWinnerStaysOut(t *testing.T) {
	table, res := allInRound(t, config.Default().Game)

	assert.Equal(t, []string{"A"}, res.Settled.Settlement.Winners)
	assert.Equal(t, []string{"A", "B"}, res.Settled.Settlement.Eliminated)
	assert.True(t, res.GameOver)
	assert.Empty(t, res.Winner)

	a, _ := table.Player("A")
	assert.Equal(t, 200, a.Balance)
	assert.Equal(t, 1, a.RoundsWon)
	assert.True(t, a.IsOut)

	assert.True(t, errors.Is(table.SetBet("A", 10), ErrNotEligible))
	_, err := table.Roll("A")
	assert.True(t, errors.Is(err, ErrNoPlayers))
}

func TestAllInWinnerReinstated(t *testing.T) {
	cfg := config.Default().Game
	cfg.AllInWinner = config.AllInWinnerReinstate
	table, res := allInRound(t, cfg)

	assert.Equal(t, []string{"B"}, res.Settled.Settlement.Eliminated)
	assert.True(t, res.GameOver)
	assert.Equal(t, "A", res.Winner)

	a, _ := table.Player("A")
	assert.Equal(t, 200, a.Balance)
	assert.False(t, a.IsOut)

	assert.True(t, errors.Is(table.SetBet("B", 10), ErrNotEligible))
	winner, over := table.GameOver()
	assert.True(t, over)
	assert.Equal(t, "A", winner)
}

func TestUnknownAllInPolicy(t *testing.T) {
	cfg := config.Default().Game
	cfg.AllInWinner = "revive"
	dice, err := ceelo.NewDice(6, &scripted{})
	require.NoError(t, err)
	_, err = NewTable(cfg, ledger.New(cfg), dice)
	assert.Error(t, err)
}

func TestTiedRoundSplitsPot(t *testing.T) {
	src := &scripted{}
	table := newTestTable(t, config.Default().Game, src)
	seat(t, table, "A", "B", "C")
	require.NoError(t, table.SetBet("A", 10))
	require.NoError(t, table.SetBet("B", 10))
	require.NoError(t, table.SetBet("C", 1))

	src.push(ceelo.Roll{5, 5, 6}, ceelo.Roll{6, 1, 1}, ceelo.Roll{2, 2, 4})
	for _, n := range []string{"A", "B", "C"} {
		_, err := table.Roll(n)
		require.NoError(t, err)
	}

	h := table.History()
	require.Len(t, h, 1)
	assert.Equal(t, []string{"A", "B"}, h[0].Settlement.Winners)
	assert.Equal(t, ceelo.Payout{Pot: 21, Share: 10, Remainder: 1}, h[0].Settlement.Payout)

	a, _ := table.Player("A")
	c, _ := table.Player("C")
	assert.Equal(t, 100, a.Balance)
	assert.Equal(t, 99, c.Balance)
}

func TestBustPolicyPush(t *testing.T) {
	cfg := config.Default().Game
	cfg.BustPolicy = config.BustPolicyPush
	src := &scripted{}
	table := newTestTable(t, cfg, src)
	seat(t, table, "A", "B")
	_, err := table.BetAll(25)
	require.NoError(t, err)

	src.push(ceelo.Roll{3, 2, 1}, ceelo.Roll{1, 3, 2})
	_, err = table.Roll("")
	require.NoError(t, err)
	res, err := table.Roll("")
	require.NoError(t, err)

	require.NotNil(t, res.Settled)
	assert.True(t, res.Settled.Settlement.Push)
	for _, p := range table.Players() {
		assert.Equal(t, 100, p.Balance)
		assert.Equal(t, 0, p.CurrentBet)
		assert.Equal(t, 0, p.RoundsWon)
	}
}

func TestBetAllIsAllOrNothing(t *testing.T) {
	table := newTestTable(t, config.Default().Game, &scripted{})
	seat(t, table, "A", "B")
	_, err := table.Deposit("A", 50)
	require.NoError(t, err)

	_, err = table.BetAll(120)
	assert.True(t, errors.Is(err, ledger.ErrInsufficientFunds))
	for _, p := range table.Players() {
		assert.Equal(t, 0, p.CurrentBet)
	}

	_, err = table.BetAll(0)
	assert.True(t, errors.Is(err, ledger.ErrInvalidInput))
}

func TestRemovePlayer(t *testing.T) {
	src := &scripted{}
	store := newMemStore()
	table := newTestTable(t, config.Default().Game, src, WithStore(store))
	seat(t, table, "A", "B", "C")
	_, err := table.BetAll(10)
	require.NoError(t, err)

	src.push(ceelo.Roll{4, 4, 2}, ceelo.Roll{3, 3, 5})
	_, err = table.Roll("A")
	require.NoError(t, err)

	_, err = table.RemovePlayer("A")
	assert.True(t, errors.Is(err, ErrRoundInProgress))

	_, err = table.Roll("B")
	require.NoError(t, err)

	rec, err := table.RemovePlayer("C")
	require.NoError(t, err)
	require.NotNil(t, rec, "removing the last player still to roll settles the round")
	assert.Equal(t, []string{"B"}, rec.Settlement.Winners)
	assert.Equal(t, 20, rec.Settlement.Payout.Pot)
	assert.Contains(t, store.deleted, "C")

	_, err = table.RemovePlayer("C")
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	src := &scripted{}
	table := newTestTable(t, config.Default().Game, src)
	seat(t, table, "A", "B")
	require.NoError(t, table.SetBet("A", 100))
	require.NoError(t, table.SetBet("B", 100))
	src.push(ceelo.Roll{6, 6, 6}, ceelo.Roll{2, 2, 1})
	_, err := table.Roll("")
	require.NoError(t, err)
	_, err = table.Roll("")
	require.NoError(t, err)

	table.Reset()

	_, over := table.GameOver()
	assert.False(t, over)
	for _, p := range table.Players() {
		assert.Equal(t, 100, p.Balance)
		assert.False(t, p.IsOut)
	}
	a, _ := table.Player("A")
	assert.Equal(t, 1, a.RoundsWon)
	assert.Equal(t, 1, table.RoundNumber(), "round numbering carries on")
}

func TestCurrentPlayer(t *testing.T) {
	src := &scripted{}
	table := newTestTable(t, config.Default().Game, src)

	_, ok := table.CurrentPlayer()
	assert.False(t, ok)

	seat(t, table, "A", "B")
	name, ok := table.CurrentPlayer()
	require.True(t, ok)
	assert.Equal(t, "A", name)

	_, err := table.BetAll(5)
	require.NoError(t, err)
	src.push(ceelo.Roll{5, 5, 5})
	_, err = table.Roll("")
	require.NoError(t, err)

	name, _ = table.CurrentPlayer()
	assert.Equal(t, "B", name)
}

func TestHistorySeedAndLimit(t *testing.T) {
	seed := []RoundRecord{{ID: "x", Number: 7}, {ID: "y", Number: 8}, {ID: "z", Number: 9}}
	table := newTestTable(t, config.Default().Game, &scripted{}, WithHistory(seed), WithHistoryLimit(2))

	assert.Equal(t, 9, table.RoundNumber())
	h := table.History()
	require.Len(t, h, 2)
	assert.Equal(t, "y", h[0].ID)
	assert.Equal(t, "z", h[1].ID)
}

func TestDispatcherRunsJobsInOrder(t *testing.T) {
	log, _ := test.NewNullLogger()
	d := NewDispatcher(4, log)

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 10; i++ {
		i := i
		d.Enqueue(Job{Name: "n", Run: func() error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		}})
	}
	d.Flush()
	mu.Lock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	mu.Unlock()

	d.Close()
	d.Close()
	d.Enqueue(Job{Name: "late", Run: func() error { t.Error("ran after close"); return nil }})
}

func TestDispatcherLogsFailures(t *testing.T) {
	log, hook := test.NewNullLogger()
	d := NewDispatcher(1, log)
	d.Enqueue(Job{Name: "boom", Run: func() error { return errors.New("boom") }})
	d.Close()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "job failed", hook.LastEntry().Message)
}

func TestTableWithDispatcher(t *testing.T) {
	src := &scripted{}
	store := newMemStore()
	log, _ := test.NewNullLogger()
	d := NewDispatcher(16, log)
	defer d.Close()

	table := newTestTable(t, config.Default().Game, src, WithStore(store), WithDispatcher(d))
	seat(t, table, "A", "B")
	_, err := table.BetAll(10)
	require.NoError(t, err)
	src.push(ceelo.Roll{4, 5, 6}, ceelo.Roll{2, 2, 2})
	_, err = table.Roll("")
	require.NoError(t, err)
	_, err = table.Roll("")
	require.NoError(t, err)

	d.Flush()
	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.rounds, 1)
	assert.Equal(t, 110, store.players["A"].Balance)
	assert.Equal(t, 90, store.players["B"].Balance)
}

func TestRollRecordsLastRoll(t *testing.T) {
	src := &scripted{}
	table := newTestTable(t, config.Default().Game, src)
	seat(t, table, "A", "B")
	_, err := table.BetAll(10)
	require.NoError(t, err)

	src.push(ceelo.Roll{1, 2, 4}, ceelo.Roll{3, 3, 5})
	_, err = table.Roll("A")
	require.NoError(t, err)
	a, _ := table.Player("A")
	assert.Equal(t, ceelo.Roll{1, 2, 4}, a.LastRoll, "no-score throws are shown too")
	assert.Equal(t, ceelo.NoScore{}, a.LastOutcome)

	_, err = table.Roll("A")
	require.NoError(t, err)
	a, _ = table.Player("A")
	assert.Equal(t, ceelo.Roll{3, 3, 5}, a.LastRoll)
	assert.Equal(t, ceelo.Point{Value: 5}, a.LastOutcome)
}
