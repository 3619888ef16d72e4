package migrations

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/db"
)

// Migration20261017090000CreateRuns creates the runs table
func Migration20261017090000CreateRuns() db.Migration {
	return db.Migration{
		Version:     20261017090000,
		Description: "Create runs table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					skill TEXT NOT NULL DEFAULT '',
					input TEXT NOT NULL,
					output TEXT NOT NULL DEFAULT '',
					error TEXT NOT NULL DEFAULT '',
					error_kind TEXT NOT NULL DEFAULT '',
					selection_method TEXT NOT NULL DEFAULT '',
					provider TEXT NOT NULL DEFAULT '',
					steps_executed INTEGER NOT NULL DEFAULT 0,
					started_at DATETIME NOT NULL,
					finished_at DATETIME NOT NULL
				)
			`)
			return errors.Wrap(err, "failed to create runs table")
		},
		Down: func(tx *sql.Tx) error {
			_, err := tx.Exec("DROP TABLE IF EXISTS runs")
			return errors.Wrap(err, "failed to drop runs table")
		},
	}
}
