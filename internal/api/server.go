package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"ceelo/internal/games"
	"ceelo/internal/ledger"
	"ceelo/internal/webhook"
)

// TableReader é o que a API lê da mesa. Nenhum endpoint altera o jogo.
type TableReader interface {
	Players() []ledger.Player
	Player(name string) (ledger.Player, bool)
	Leaderboard() []ledger.Standing
	History() []games.RoundRecord
	RoundNumber() int
	Pending() []string
	InRound() bool
	Pot() int
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PlayerResponse struct {
	Name        string `json:"name"`
	Seat        int    `json:"seat"`
	Balance     int    `json:"balance"`
	CurrentBet  int    `json:"current_bet"`
	IsOut       bool   `json:"is_out"`
	RoundsWon   int    `json:"rounds_won"`
	LastRoll    []int  `json:"last_roll,omitempty"`
	LastOutcome string `json:"last_outcome,omitempty"`
}

type StandingResponse struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	RoundsWon int    `json:"rounds_won"`
	Balance   int    `json:"balance"`
	IsOut     bool   `json:"is_out"`
}

type StatusResponse struct {
	Round   int      `json:"round"`
	InRound bool     `json:"in_round"`
	Pot     int      `json:"pot"`
	Pending []string `json:"pending"`
}

func newPlayerResponse(p ledger.Player) PlayerResponse {
	resp := PlayerResponse{
		Name:       p.Name,
		Seat:       p.Seat,
		Balance:    p.Balance,
		CurrentBet: p.CurrentBet,
		IsOut:      p.IsOut,
		RoundsWon:  p.RoundsWon,
	}
	if p.LastOutcome != nil {
		resp.LastRoll = p.LastRoll[:]
		resp.LastOutcome = p.LastOutcome.String()
	}
	return resp
}

type Server struct {
	table  TableReader
	apiKey string
	log    logrus.FieldLogger

	mu  sync.Mutex
	srv *http.Server
}

// NewServer monta a API. Com apiKey vazia os endpoints ficam abertos.
func NewServer(table TableReader, apiKey string, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{table: table, apiKey: apiKey, log: log.WithField("component", "api")}
}

func (s *Server) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			next(w, r)
			return
		}
		key := r.Header.Get("X-API-Key")
		if key == "" {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing API Key"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid API Key"})
			return
		}
		next(w, r)
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.AuthMiddleware(s.HandleStatus))
	mux.HandleFunc("GET /api/v1/players", s.AuthMiddleware(s.HandlePlayers))
	mux.HandleFunc("GET /api/v1/players/{name}", s.AuthMiddleware(s.HandlePlayer))
	mux.HandleFunc("GET /api/v1/leaderboard", s.AuthMiddleware(s.HandleLeaderboard))
	mux.HandleFunc("GET /api/v1/rounds", s.AuthMiddleware(s.HandleRounds))
	return mux
}

func (s *Server) HandleStatus(w http.ResponseWriter, r *http.Request) {
	pending := s.table.Pending()
	if pending == nil {
		pending = []string{}
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Round:   s.table.RoundNumber(),
		InRound: s.table.InRound(),
		Pot:     s.table.Pot(),
		Pending: pending,
	})
}

func (s *Server) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	players := s.table.Players()
	out := make([]PlayerResponse, 0, len(players))
	for _, p := range players {
		out = append(out, newPlayerResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	p, ok := s.table.Player(r.PathValue("name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Player not found"})
		return
	}
	writeJSON(w, http.StatusOK, newPlayerResponse(p))
}

func (s *Server) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board := s.table.Leaderboard()
	out := make([]StandingResponse, len(board))
	for i, st := range board {
		out[i] = StandingResponse{Rank: i + 1, Name: st.Name, RoundsWon: st.RoundsWon, Balance: st.Balance, IsOut: st.IsOut}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleRounds lista as rodadas mais recentes primeiro. ?limit=N limita a resposta.
func (s *Server) HandleRounds(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive number"})
			return
		}
		limit = n
	}

	history := s.table.History()
	out := make([]*webhook.RoundPayload, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, webhook.NewRoundPayload(history[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Start sobe o servidor e bloqueia até Shutdown.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = ":8080"
	}
	s.mu.Lock()
	s.srv = &http.Server{Addr: addr, Handler: s.Handler()}
	srv := s.srv
	s.mu.Unlock()

	s.log.WithField("addr", addr).Info("starting API server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
