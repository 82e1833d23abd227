// Package database holds the sqlx repositories backing the review, question,
// and attempt stores. Supports sqlite for single-node deployments and
// postgres for everything else, selected by configuration.
package database

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/example/nclexprep/internal/config"
)

// Connect opens the configured database and, for sqlite, initializes the
// schema. Postgres schemas are managed by migrations outside this binary.
func Connect(cfg config.Config) (*sqlx.DB, error) {
	if cfg.DBType == config.DBPostgres {
		db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to postgres")
		}
		return db, nil
	}

	path := cfg.SQLitePath
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create data directory")
		}
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to sqlite")
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, errors.Wrap(err, "failed to enable foreign keys")
	}

	if err := initializeSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist.
func initializeSchema(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			questions_per_day INTEGER NOT NULL DEFAULT 10,
			reminder_hour INTEGER NOT NULL DEFAULT 9,
			reminders_enabled BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			options TEXT NOT NULL,
			correct_index INTEGER NOT NULL,
			rationale TEXT NOT NULL DEFAULT '',
			difficulty INTEGER NOT NULL DEFAULT 2,
			source TEXT NOT NULL DEFAULT 'bank',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)`,
		`CREATE TABLE IF NOT EXISTS review_states (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			question_id INTEGER NOT NULL,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			interval INTEGER NOT NULL DEFAULT 1,
			repetitions INTEGER NOT NULL DEFAULT 0,
			next_review TIMESTAMP,
			last_review_at TIMESTAMP,
			last_is_correct BOOLEAN NOT NULL DEFAULT false,
			version INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (question_id) REFERENCES questions(id),
			UNIQUE(user_id, question_id)
		)`,
		`CREATE TABLE IF NOT EXISTS simulation_attempts (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			session_type TEXT NOT NULL,
			total_questions INTEGER NOT NULL,
			current_difficulty INTEGER NOT NULL DEFAULT 2,
			answered_count INTEGER NOT NULL DEFAULT 0,
			correct_count INTEGER NOT NULL DEFAULT 0,
			mastery_estimate REAL NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS attempt_answers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			attempt_id TEXT NOT NULL,
			question_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			answer_index INTEGER NOT NULL,
			is_correct BOOLEAN NOT NULL,
			time_spent_sec INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (attempt_id) REFERENCES simulation_attempts(id),
			FOREIGN KEY (question_id) REFERENCES questions(id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to initialize schema")
		}
	}
	return nil
}

// notFoundOr maps sql.ErrNoRows onto the given taxonomy sentinel and wraps
// anything else as-is.
func notFoundOr(err error, sentinel error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(sentinel, msg)
	}
	return errors.Wrap(err, msg)
}
