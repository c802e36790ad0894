package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ceelo/internal/games"
	"ceelo/internal/games/ceelo"
)

type recorder struct {
	mu       sync.Mutex
	payloads []Payload
	status   int
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var p Payload
	if err := json.NewDecoder(req.Body).Decode(&p); err == nil {
		r.mu.Lock()
		r.payloads = append(r.payloads, p)
		r.mu.Unlock()
	}
	if r.status != 0 {
		w.WriteHeader(r.status)
	}
}

func sampleRound() games.RoundRecord {
	return games.RoundRecord{
		ID:     "abc",
		Number: 3,
		Settlement: ceelo.Settlement{
			Entries: []ceelo.Entry{
				{Player: "Ana", Roll: ceelo.Roll{4, 5, 6}, Outcome: ceelo.AutoWin{Hand: ceelo.HandCeeLo}, Bet: 10},
				{Player: "Bo", Roll: ceelo.Roll{3, 3, 1}, Outcome: ceelo.Point{Value: 1}, Bet: 11},
			},
			Winners: []string{"Ana"},
			Payout:  ceelo.Payout{Pot: 21, Share: 21},
		},
		SettledAt: time.Now(),
	}
}

func TestNotifyRoundPostsPayload(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	log, hook := test.NewNullLogger()
	s := NewSender(srv.URL, log)
	s.NotifyRound(sampleRound())
	s.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.payloads, 1)
	p := rec.payloads[0]
	assert.Equal(t, EventRoundSettled, p.Event)
	require.NotNil(t, p.Round)
	assert.Equal(t, "abc", p.Round.ID)
	assert.Equal(t, 3, p.Round.Number)
	assert.Equal(t, []string{"Ana"}, p.Round.Winners)
	assert.Equal(t, []string{}, p.Round.Eliminated)
	assert.Equal(t, 21, p.Round.Pot)
	require.Len(t, p.Round.Rolls, 2)
	assert.Equal(t, [3]int{4, 5, 6}, p.Round.Rolls[0].Dice)
	assert.Equal(t, "4-5-6 (Cee-lo!)", p.Round.Rolls[0].Outcome)
	assert.Equal(t, "Point 1", p.Round.Rolls[1].Outcome)
	assert.Empty(t, hook.AllEntries())
}

func TestNotifyRoundLogsFailures(t *testing.T) {
	srv := httptest.NewServer(&recorder{status: http.StatusInternalServerError})
	defer srv.Close()

	log, hook := test.NewNullLogger()
	s := NewSender(srv.URL, log)
	s.NotifyRound(sampleRound())
	s.Wait()

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "failed to trigger webhook", hook.LastEntry().Message)
}

func TestNotifyRoundWithoutURLIsNoop(t *testing.T) {
	log, hook := test.NewNullLogger()
	s := NewSender("", log)
	s.NotifyRound(sampleRound())
	s.Wait()
	assert.Empty(t, hook.AllEntries())
}

func TestPing(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec)
	defer srv.Close()

	require.NoError(t, NewSender(srv.URL, nil).Ping())
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.payloads, 1)
	assert.Equal(t, EventTest, rec.payloads[0].Event)
	assert.Nil(t, rec.payloads[0].Round)
}

func TestSenderImplementsNotifier(t *testing.T) {
	var _ games.Notifier = NewSender("", nil)
}
