package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"promptbox/model"
	"promptbox/parser"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("prompt not found")

// DB archives rendered prompts across runs.
type DB struct {
	conn *sql.DB
}

// DefaultPath is ~/.promptbox/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".promptbox", "history.db"), nil
}

func New(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return db, nil
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS prompts (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			resource TEXT DEFAULT '',
			call TEXT NOT NULL,
			command_json TEXT NOT NULL,
			prompt TEXT NOT NULL,
			source TEXT DEFAULT '',
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_prompts_action ON prompts(action);
		CREATE INDEX IF NOT EXISTS idx_prompts_created ON prompts(created_at);
	`)
	return err
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// Save archives p. source names the file the call came from and may be
// empty.
func (d *DB) Save(p model.RenderedPrompt, source string) error {
	cmdJSON, err := json.Marshal(p.Command)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(
		`INSERT INTO prompts (id, action, resource, call, command_json, prompt, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.Command.Action), p.Command.Resource, parser.Format(p.Command),
		string(cmdJSON), p.Text, source, p.CreatedAt,
	)
	return err
}

// List returns the most recent limit records, oldest first. limit <= 0
// returns everything.
func (d *DB) List(limit int) ([]model.PromptRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.conn.Query(`
		SELECT id, action, resource, call, prompt, source, created_at FROM (
			SELECT rowid AS seq, id, action, resource, call, prompt, source, created_at
			FROM prompts
			ORDER BY rowid DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.PromptRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (d *DB) Get(id string) (model.PromptRecord, error) {
	row := d.conn.QueryRow(
		`SELECT id, action, resource, call, prompt, source, created_at FROM prompts WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PromptRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// Delete removes one archived prompt. Unknown ids report ErrNotFound.
func (d *DB) Delete(id string) error {
	result, err := d.conn.Exec(`DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Clear removes every archived prompt and reports how many were removed.
func (d *DB) Clear() (int64, error) {
	result, err := d.conn.Exec(`DELETE FROM prompts`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (d *DB) Count() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM prompts`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (model.PromptRecord, error) {
	var r model.PromptRecord
	var action string
	if err := s.Scan(&r.ID, &action, &r.Resource, &r.Call, &r.Prompt, &r.Source, &r.CreatedAt); err != nil {
		return model.PromptRecord{}, err
	}
	r.Action = model.Action(action)
	return r, nil
}
