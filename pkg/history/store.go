// Package history persists the outcome of every skill run in SQLite.
package history

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jingkaihe/genai/pkg/db"
	"github.com/jingkaihe/genai/pkg/db/migrations"
)

// ErrNotFound is returned by Get for an unknown run id
var ErrNotFound = errors.New("run not found")

// Run is one recorded skill run. Skill is empty when selection failed.
type Run struct {
	ID              string    `db:"id" json:"id"`
	Skill           string    `db:"skill" json:"skill"`
	Input           string    `db:"input" json:"input"`
	Output          string    `db:"output" json:"output"`
	Error           string    `db:"error" json:"error,omitempty"`
	ErrorKind       string    `db:"error_kind" json:"error_kind,omitempty"`
	SelectionMethod string    `db:"selection_method" json:"selection_method"`
	Provider        string    `db:"provider" json:"provider"`
	StepsExecuted   int       `db:"steps_executed" json:"steps_executed"`
	StartedAt       time.Time `db:"started_at" json:"started_at"`
	FinishedAt      time.Time `db:"finished_at" json:"finished_at"`
}

// NewRun starts a run for input with a fresh id
func NewRun(input string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Input:     input,
		StartedAt: time.Now().UTC(),
	}
}

// Succeeded reports whether the run finished without error
func (r *Run) Succeeded() bool {
	return r.Error == ""
}

// Duration is the wall time between start and finish
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// QueryOptions filters and paginates List
type QueryOptions struct {
	Skill  string
	Limit  int
	Offset int
}

// QueryResult is a page of runs, newest first, plus the unpaginated total
type QueryResult struct {
	Runs  []Run `json:"runs"`
	Total int   `json:"total"`
}

// Store reads and writes runs
type Store struct {
	db *sqlx.DB
}

// Open opens the history database at path, creating and migrating it as needed
func Open(ctx context.Context, path string) (*Store, error) {
	sqlDB, err := db.OpenAndMigrate(ctx, path, migrations.All())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history database")
	}
	return &Store{db: sqlDB}, nil
}

// Record inserts run, or replaces the stored run with the same id
func (s *Store) Record(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO runs (
			id, skill, input, output, error, error_kind, selection_method,
			provider, steps_executed, started_at, finished_at
		) VALUES (
			:id, :skill, :input, :output, :error, :error_kind, :selection_method,
			:provider, :steps_executed, :started_at, :finished_at
		)
		ON CONFLICT(id) DO UPDATE SET
			skill = excluded.skill,
			output = excluded.output,
			error = excluded.error,
			error_kind = excluded.error_kind,
			selection_method = excluded.selection_method,
			provider = excluded.provider,
			steps_executed = excluded.steps_executed,
			finished_at = excluded.finished_at
	`
	if _, err := s.db.NamedExecContext(ctx, query, run); err != nil {
		return errors.Wrap(err, "failed to record run")
	}
	return nil
}

// Get loads the run with id
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run, `SELECT id, skill, input, output, error, error_kind,
		selection_method, provider, steps_executed, started_at, finished_at
		FROM runs WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "%s", id)
		}
		return nil, errors.Wrap(err, "failed to load run")
	}
	return &run, nil
}

// List returns runs newest first
func (s *Store) List(ctx context.Context, opts QueryOptions) (*QueryResult, error) {
	var conditions []string
	args := map[string]any{}

	if opts.Skill != "" {
		conditions = append(conditions, "skill = :skill")
		args["skill"] = opts.Skill
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, skill, input, output, error, error_kind, selection_method,
		provider, steps_executed, started_at, finished_at FROM runs` + where +
		" ORDER BY started_at DESC, id"
	pageArgs := map[string]any{}
	for k, v := range args {
		pageArgs[k] = v
	}
	if opts.Limit > 0 {
		query += " LIMIT :limit"
		pageArgs["limit"] = opts.Limit
		if opts.Offset > 0 {
			query += " OFFSET :offset"
			pageArgs["offset"] = opts.Offset
		}
	}

	runs := []Run{}
	if err := s.namedSelect(ctx, &runs, query, pageArgs); err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}

	var total int
	countQuery, countArgs, err := sqlx.Named("SELECT COUNT(*) FROM runs"+where, args)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build count query")
	}
	if err := s.db.GetContext(ctx, &total, s.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, errors.Wrap(err, "failed to count runs")
	}

	return &QueryResult{Runs: runs, Total: total}, nil
}

func (s *Store) namedSelect(ctx context.Context, dest any, query string, args map[string]any) error {
	bound, values, err := sqlx.Named(query, args)
	if err != nil {
		return errors.Wrap(err, "failed to build named query")
	}
	return s.db.SelectContext(ctx, dest, s.db.Rebind(bound), values...)
}

// Clear deletes every recorded run by rolling back all schema migrations
// and applying them again. It returns the number of runs removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM runs"); err != nil {
		return 0, errors.Wrap(err, "failed to count runs")
	}

	all := migrations.All()
	runner := db.NewMigrationRunner(s.db)
	for {
		applied, err := runner.GetAppliedVersions(ctx)
		if err != nil {
			return 0, err
		}
		if len(applied) == 0 {
			break
		}
		if err := runner.Rollback(ctx, all); err != nil {
			return 0, errors.Wrap(err, "failed to roll back history schema")
		}
	}

	if err := runner.Run(ctx, all); err != nil {
		return 0, errors.Wrap(err, "failed to recreate history schema")
	}
	return count, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
