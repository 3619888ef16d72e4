package migrations

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/db"
)

// Migration20261017090001AddRunIndexes indexes runs for listing and filtering
func Migration20261017090001AddRunIndexes() db.Migration {
	return db.Migration{
		Version:     20261017090001,
		Description: "Add indexes for runs",
		Up: func(tx *sql.Tx) error {
			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC)",
				"CREATE INDEX IF NOT EXISTS idx_runs_skill ON runs(skill)",
			}
			for _, idx := range indexes {
				if _, err := tx.Exec(idx); err != nil {
					return errors.Wrap(err, "failed to create index")
				}
			}
			return nil
		},
		Down: func(tx *sql.Tx) error {
			for _, idx := range []string{"idx_runs_skill", "idx_runs_started_at"} {
				if _, err := tx.Exec("DROP INDEX IF EXISTS " + idx); err != nil {
					return errors.Wrap(err, "failed to drop index")
				}
			}
			return nil
		},
	}
}
