package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"ceelo/internal/games"
	"ceelo/internal/games/ceelo"
	"ceelo/internal/ledger"
	"ceelo/pkg/config"
)

// Store guarda jogadores e rodadas liquidadas. Implementa games.Store.
type Store struct {
	db  Database
	log logrus.FieldLogger
}

// Open conecta no banco configurado e devolve o Store pronto para uso.
func Open(cfg config.DatabaseConfig, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "database")
	db, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	return NewStore(db, log), nil
}

func NewStore(db Database, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{db: db, log: log}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) prepare(query string) string {
	return convertPlaceholders(s.db, query)
}

// SavePlayer grava o estado atual do jogador (upsert pelo nome).
func (s *Store) SavePlayer(p ledger.Player) error {
	query := s.db.UpsertSyntax("players",
		[]string{"name"},
		[]string{"seat", "balance", "current_bet", "is_out", "rounds_won"})
	_, err := s.db.Exec(query, p.Name, p.Seat, p.Balance, p.CurrentBet, p.IsOut, p.RoundsWon)
	if err != nil {
		return fmt.Errorf("save player %s: %w", p.Name, err)
	}
	return nil
}

func (s *Store) DeletePlayer(name string) error {
	if _, err := s.db.Exec(s.prepare("DELETE FROM players WHERE name = ?"), name); err != nil {
		return fmt.Errorf("delete player %s: %w", name, err)
	}
	return nil
}

// LoadPlayers devolve os jogadores salvos em ordem de assento.
func (s *Store) LoadPlayers() ([]ledger.Player, error) {
	rows, err := s.db.Query("SELECT name, seat, balance, current_bet, is_out, rounds_won FROM players ORDER BY seat")
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()

	var players []ledger.Player
	for rows.Next() {
		var p ledger.Player
		if err := rows.Scan(&p.Name, &p.Seat, &p.Balance, &p.CurrentBet, &p.IsOut, &p.RoundsWon); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// RecordRound grava a rodada e as jogadas numa única transação.
func (s *Store) RecordRound(rec games.RoundRecord) error {
	st := rec.Settlement
	winners, err := json.Marshal(nonNil(st.Winners))
	if err != nil {
		return err
	}
	eliminated, err := json.Marshal(nonNil(st.Eliminated))
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(s.prepare(`INSERT INTO rounds (id, number, pot, share, remainder, push, winners, eliminated, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Number, st.Payout.Pot, st.Payout.Share, st.Payout.Remainder, st.Push,
		string(winners), string(eliminated), rec.SettledAt.UTC())
	if err != nil {
		return fmt.Errorf("insert round %d: %w", rec.Number, err)
	}

	insertEntry := s.prepare(`INSERT INTO round_entries (round_id, seq, player, die1, die2, die3, bet)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for i, e := range st.Entries {
		if _, err := tx.Exec(insertEntry, rec.ID, i, e.Player, e.Roll[0], e.Roll[1], e.Roll[2], e.Bet); err != nil {
			return fmt.Errorf("insert roll of %s: %w", e.Player, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"round": rec.Number, "id": rec.ID}).Debug("round saved")
	return nil
}

// RecentRounds devolve as últimas limit rodadas, da mais antiga para a mais nova.
// Os resultados são recalculados a partir dos dados.
func (s *Store) RecentRounds(limit int) ([]games.RoundRecord, error) {
	rows, err := s.db.Query(s.prepare(`SELECT id, number, pot, share, remainder, push, winners, eliminated, settled_at
		FROM rounds ORDER BY number DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}

	var recs []games.RoundRecord
	for rows.Next() {
		var (
			rec                 games.RoundRecord
			winners, eliminated sql.NullString
		)
		p := &rec.Settlement.Payout
		if err := rows.Scan(&rec.ID, &rec.Number, &p.Pot, &p.Share, &p.Remainder, &rec.Settlement.Push,
			&winners, &eliminated, &rec.SettledAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan round: %w", err)
		}
		if err := decodeNames(winners, &rec.Settlement.Winners); err != nil {
			rows.Close()
			return nil, err
		}
		if err := decodeNames(eliminated, &rec.Settlement.Eliminated); err != nil {
			rows.Close()
			return nil, err
		}
		recs = append(recs, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// mais antiga primeiro
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}

	for i := range recs {
		entries, err := s.roundEntries(recs[i].ID)
		if err != nil {
			return nil, err
		}
		recs[i].Settlement.Entries = entries
	}
	return recs, nil
}

func (s *Store) roundEntries(roundID string) ([]ceelo.Entry, error) {
	rows, err := s.db.Query(s.prepare(`SELECT player, die1, die2, die3, bet FROM round_entries
		WHERE round_id = ? ORDER BY seq`), roundID)
	if err != nil {
		return nil, fmt.Errorf("load rolls of round %s: %w", roundID, err)
	}
	defer rows.Close()

	var entries []ceelo.Entry
	for rows.Next() {
		var e ceelo.Entry
		if err := rows.Scan(&e.Player, &e.Roll[0], &e.Roll[1], &e.Roll[2], &e.Bet); err != nil {
			return nil, fmt.Errorf("scan roll: %w", err)
		}
		e.Outcome = ceelo.Evaluate(e.Roll)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func decodeNames(raw sql.NullString, dst *[]string) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var names []string
	if err := json.Unmarshal([]byte(raw.String), &names); err != nil {
		return fmt.Errorf("decode names: %w", err)
	}
	if len(names) > 0 {
		*dst = names
	}
	return nil
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
