// Package migrations holds the history database schema changes, versioned
// by timestamp (YYYYMMDDHHmmss).
package migrations

import (
	"github.com/jingkaihe/genai/pkg/db"
)

// All returns every migration; append new ones at the end
func All() []db.Migration {
	return []db.Migration{
		Migration20261017090000CreateRuns(),
		Migration20261017090001AddRunIndexes(),
	}
}
