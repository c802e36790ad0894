package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"ceelo/internal/games"
)

const (
	EventRoundSettled = "round_settled"
	EventTest         = "test"
)

type Payload struct {
	Event     string        `json:"event"`
	Round     *RoundPayload `json:"round,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type RollPayload struct {
	Player  string `json:"player"`
	Dice    [3]int `json:"dice"`
	Outcome string `json:"outcome"`
	Bet     int    `json:"bet"`
}

type RoundPayload struct {
	ID         string        `json:"id"`
	Number     int           `json:"number"`
	Rolls      []RollPayload `json:"rolls"`
	Winners    []string      `json:"winners"`
	Pot        int           `json:"pot"`
	Share      int           `json:"share"`
	Remainder  int           `json:"remainder"`
	Eliminated []string      `json:"eliminated"`
	Push       bool          `json:"push"`
}

// NewRoundPayload converte uma rodada liquidada no formato enviado.
func NewRoundPayload(rec games.RoundRecord) *RoundPayload {
	s := rec.Settlement
	rolls := make([]RollPayload, 0, len(s.Entries))
	for _, e := range s.Entries {
		rp := RollPayload{Player: e.Player, Dice: e.Roll, Bet: e.Bet}
		if e.Outcome != nil {
			rp.Outcome = e.Outcome.String()
		}
		rolls = append(rolls, rp)
	}
	return &RoundPayload{
		ID:         rec.ID,
		Number:     rec.Number,
		Rolls:      rolls,
		Winners:    orEmpty(s.Winners),
		Pot:        s.Payout.Pot,
		Share:      s.Payout.Share,
		Remainder:  s.Payout.Remainder,
		Eliminated: orEmpty(s.Eliminated),
		Push:       s.Push,
	}
}

// Sender manda os eventos da mesa para uma URL configurada. Implementa games.Notifier.
type Sender struct {
	url    string
	client *http.Client
	log    logrus.FieldLogger
	wg     sync.WaitGroup
}

func NewSender(url string, log logrus.FieldLogger) *Sender {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sender{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log.WithField("component", "webhook"),
	}
}

// NotifyRound envia a rodada de forma assíncrona; falhas só vão para o log.
func (s *Sender) NotifyRound(rec games.RoundRecord) {
	if s.url == "" {
		return
	}
	payload := Payload{
		Event:     EventRoundSettled,
		Round:     NewRoundPayload(rec),
		Timestamp: time.Now(),
	}

	// Send asynchronously
	s.wg.Add(1)
	go func(p Payload) {
		defer s.wg.Done()
		if err := s.post(p); err != nil {
			s.log.WithError(err).WithField("round", rec.Number).Warn("failed to trigger webhook")
		}
	}(payload)
}

// Wait espera os envios em andamento.
func (s *Sender) Wait() {
	s.wg.Wait()
}

// Ping manda um evento de teste e espera a resposta.
func (s *Sender) Ping() error {
	return s.post(Payload{Event: EventTest, Timestamp: time.Now()})
}

func (s *Sender) post(p Payload) error {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return err
	}
	resp, err := s.client.Post(s.url, "application/json", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

func orEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
