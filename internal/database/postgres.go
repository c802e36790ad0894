package database

import (
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

// PostgresDatabase implementa Database para PostgreSQL usando o driver pgx.
type PostgresDatabase struct {
	conn
	log logrus.FieldLogger
}

func NewPostgresDatabase(connString string, log logrus.FieldLogger) *PostgresDatabase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PostgresDatabase{conn: conn{driver: "pgx", connString: connString}, log: log}
}

func (p *PostgresDatabase) Open() error {
	p.log.WithField("conn", maskPassword(p.connString)).Info("connecting to PostgreSQL using pgx driver")
	db, err := p.open()
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return nil
}

// maskPassword oculta a senha na string de conexão para logs
func maskPassword(connString string) string {
	if idx := strings.Index(connString, "://"); idx >= 0 {
		start := idx + 3
		if at := strings.Index(connString[start:], "@"); at >= 0 {
			userPass := connString[start : start+at]
			if colon := strings.Index(userPass, ":"); colon >= 0 {
				return connString[:start] + userPass[:colon] + ":****@" + connString[start+at+1:]
			}
		}
		return connString
	}
	// formato key=value
	fields := strings.Fields(connString)
	for i, f := range fields {
		if strings.HasPrefix(f, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}

// Placeholder retorna $N (começa em 1).
func (p *PostgresDatabase) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (p *PostgresDatabase) UpsertSyntax(table string, conflictCols []string, updateCols []string) string {
	return upsertSQL(table, conflictCols, updateCols, p.Placeholder)
}

func (p *PostgresDatabase) CreateTables() error {
	p.log.Info("creating PostgreSQL tables if not exists")
	err := p.createTables(
		tableDDL{"players", `CREATE TABLE IF NOT EXISTS players (
			name        TEXT PRIMARY KEY,
			seat        INTEGER NOT NULL,
			balance     INTEGER NOT NULL DEFAULT 0,
			current_bet INTEGER NOT NULL DEFAULT 0,
			is_out      BOOLEAN NOT NULL DEFAULT FALSE,
			rounds_won  INTEGER NOT NULL DEFAULT 0
		)`},
		tableDDL{"rounds", `CREATE TABLE IF NOT EXISTS rounds (
			id         TEXT PRIMARY KEY,
			number     INTEGER NOT NULL,
			pot        INTEGER NOT NULL,
			share      INTEGER NOT NULL,
			remainder  INTEGER NOT NULL,
			push       BOOLEAN NOT NULL DEFAULT FALSE,
			winners    TEXT,
			eliminated TEXT,
			settled_at TIMESTAMPTZ
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
	if err != nil {
		return err
	}
	p.log.Info("table creation completed")
	return nil
}
