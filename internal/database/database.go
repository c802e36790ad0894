package database

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ceelo/pkg/config"
)

// Connect abre o banco configurado, verifica a conexão e cria as tabelas.
func Connect(cfg config.DatabaseConfig, log logrus.FieldLogger) (Database, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	connString, err := cfg.ConnString()
	if err != nil {
		return nil, err
	}

	var db Database
	switch cfg.Type {
	case "postgres":
		log.Info("initializing PostgreSQL database")
		db = NewPostgresDatabase(connString, log)
	case "sqlite":
		fallthrough
	default:
		log.WithField("path", connString).Info("initializing SQLite database")
		db = NewSQLiteDatabase(connString)
	}

	if err := db.Open(); err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.SkipTableCreation {
		log.Info("skipping table creation (DB_SKIP_TABLE_CREATION=true)")
	} else if err := db.CreateTables(); err != nil {
		db.Close()
		return nil, err
	}

	log.WithField("type", cfg.Type).Info("database initialized successfully")
	return db, nil
}

// convertPlaceholders troca os ? da query pelo placeholder do driver.
func convertPlaceholders(db Database, query string) string {
	if db.Placeholder(1) == "?" {
		return query
	}

	var b strings.Builder
	index := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			b.WriteString(db.Placeholder(index))
			index++
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
