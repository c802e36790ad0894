package database

import (
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDatabase implementa Database sobre um arquivo SQLite local.
type SQLiteDatabase struct {
	conn
}

func NewSQLiteDatabase(connString string) *SQLiteDatabase {
	return &SQLiteDatabase{conn: conn{driver: "sqlite3", connString: connString}}
}

func (s *SQLiteDatabase) Open() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	// um escritor por vez
	db.SetMaxOpenConns(1)
	return nil
}

// Placeholder é sempre ? no SQLite.
func (s *SQLiteDatabase) Placeholder(int) string {
	return "?"
}

func (s *SQLiteDatabase) UpsertSyntax(table string, conflictCols []string, updateCols []string) string {
	return upsertSQL(table, conflictCols, updateCols, s.Placeholder)
}

func (s *SQLiteDatabase) CreateTables() error {
	return s.createTables(
		tableDDL{"players", `CREATE TABLE IF NOT EXISTS players (
			name        TEXT NOT NULL PRIMARY KEY,
			seat        INTEGER NOT NULL,
			balance     INTEGER NOT NULL DEFAULT 0,
			current_bet INTEGER NOT NULL DEFAULT 0,
			is_out      BOOLEAN NOT NULL DEFAULT FALSE,
			rounds_won  INTEGER NOT NULL DEFAULT 0
		)`},
		tableDDL{"rounds", `CREATE TABLE IF NOT EXISTS rounds (
			id         TEXT NOT NULL PRIMARY KEY,
			number     INTEGER NOT NULL,
			pot        INTEGER NOT NULL,
			share      INTEGER NOT NULL,
			remainder  INTEGER NOT NULL,
			push       BOOLEAN NOT NULL DEFAULT FALSE,
			winners    TEXT,
			eliminated TEXT,
			settled_at DATETIME
		)`},
		tableDDL{"round_entries", `CREATE TABLE IF NOT EXISTS round_entries (
			round_id TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
			seq      INTEGER NOT NULL,
			player   TEXT NOT NULL,
			die1     INTEGER NOT NULL,
			die2     INTEGER NOT NULL,
			die3     INTEGER NOT NULL,
			bet      INTEGER NOT NULL,
			PRIMARY KEY (round_id, seq)
		)`},
	)
}
