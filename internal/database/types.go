package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Database define a interface para operações de banco de dados
type Database interface {
	// Connection
	Open() error
	Close() error
	Ping() error

	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
	Begin() (*sql.Tx, error)

	// Placeholder retorna o placeholder correto para o driver (? para SQLite, $N para PostgreSQL)
	Placeholder(index int) string

	// UpsertSyntax retorna a sintaxe correta para upsert
	UpsertSyntax(table string, conflictCols []string, updateCols []string) string

	CreateTables() error
}

// conn guarda o *sql.DB e repassa as chamadas comuns aos dois drivers.
type conn struct {
	driver     string
	connString string
	db         *sql.DB
}

func (c *conn) open() (*sql.DB, error) {
	db, err := sql.Open(c.driver, c.connString)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.driver, err)
	}
	c.db = db
	return db, nil
}

func (c *conn) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *conn) Ping() error {
	if c.db == nil {
		return errors.New("database not connected")
	}
	return c.db.Ping()
}

func (c *conn) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return c.db.Query(query, args...)
}

func (c *conn) QueryRow(query string, args ...interface{}) *sql.Row {
	return c.db.QueryRow(query, args...)
}

func (c *conn) Exec(query string, args ...interface{}) (sql.Result, error) {
	return c.db.Exec(query, args...)
}

func (c *conn) Begin() (*sql.Tx, error) {
	return c.db.Begin()
}

// tableDDL é um CREATE TABLE com o nome usado nas mensagens de erro.
type tableDDL struct {
	name string
	ddl  string
}

func (c *conn) createTables(tables ...tableDDL) error {
	for _, t := range tables {
		if _, err := c.db.Exec(t.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", t.name, err)
		}
	}
	return nil
}

// upsertSQL monta um INSERT ... ON CONFLICT DO UPDATE. Os dois drivers aceitam a
// mesma forma, só muda o placeholder. Os valores seguem a ordem conflictCols + updateCols.
func upsertSQL(table string, conflictCols, updateCols []string, placeholder func(int) string) string {
	allCols := append(append([]string{}, conflictCols...), updateCols...)

	placeholders := make([]string, len(allCols))
	for i := range allCols {
		placeholders[i] = placeholder(i + 1)
	}

	updates := make([]string, len(updateCols))
	for i, col := range updateCols {
		updates[i] = fmt.Sprintf("%s = excluded.%s", col, col)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		table,
		strings.Join(allCols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(conflictCols, ", "),
		strings.Join(updates, ", "))
}
