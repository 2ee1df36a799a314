package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// GetTranslation returns the cached translation of text by source. found is
// false when nothing is cached.
func GetTranslation(ctx context.Context, db DBExecutor, source, text string) (t Translation, found bool, err error) {
	var present int
	err = db.QueryRowContext(ctx,
		`SELECT source, text, result, present, updated_at FROM translations WHERE source = ? AND text = ?`,
		source, text,
	).Scan(&t.Source, &t.Text, &t.Result, &present, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Translation{}, false, nil
	}
	if err != nil {
		return Translation{}, false, fmt.Errorf("select translation: %w", err)
	}
	t.Present = present != 0
	return t, true, nil
}

// PutTranslation inserts or replaces a cached translation.
func PutTranslation(ctx context.Context, db DBExecutor, t Translation) error {
	if strings.TrimSpace(t.Source) == "" {
		return fmt.Errorf("source must be non-empty")
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO translations (source, text, result, present, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(source, text) DO UPDATE SET
		   result = excluded.result,
		   present = excluded.present,
		   updated_at = excluded.updated_at`,
		t.Source, t.Text, t.Result, boolToInt(t.Present), t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert translation: %w", err)
	}
	return nil
}

// CountTranslations returns the number of cached entries for source, or for
// all sources when source is empty.
func CountTranslations(ctx context.Context, db DBExecutor, source string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM translations WHERE ? = '' OR source = ?`, source, source,
	).Scan(&n)
	return n, err
}

// CreateRun stores a new running run and returns its id.
func CreateRun(ctx context.Context, db DBExecutor, input, output, method string) (string, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, input, output, method, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, input, output, method, RunRunning, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// FinishRun records the outcome of a run. A non-nil runErr marks it failed.
func FinishRun(ctx context.Context, db DBExecutor, r Run, runErr error) error {
	status, msg := RunFinished, ""
	if runErr != nil {
		status, msg = RunFailed, runErr.Error()
	}
	res, err := db.ExecContext(ctx,
		`UPDATE runs SET status = ?, lemmas = ?, excluded = ?, translated = ?, untranslated = ?,
		   error = ?, finished_at = ?
		 WHERE id = ?`,
		status, r.Lemmas, r.Excluded, r.Translated, r.Untranslated, msg, time.Now().UTC(), r.ID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", r.ID, ErrRunNotFound)
	}
	return nil
}

// GetRun loads a run by id.
func GetRun(ctx context.Context, db DBExecutor, id string) (Run, error) {
	rows, err := db.QueryContext(ctx, selectRuns+` WHERE id = ?`, id)
	if err != nil {
		return Run{}, err
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	return runs[0], nil
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(ctx context.Context, db DBExecutor, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanRuns(rows)
}

const selectRuns = `SELECT id, input, output, method, status, lemmas, excluded, translated,
	untranslated, error, started_at, finished_at FROM runs`

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.Method, &r.Status, &r.Lemmas, &r.Excluded,
			&r.Translated, &r.Untranslated, &r.Error, &r.StartedAt, &finished); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RunStore exposes the run log functions as methods on a connection.
type RunStore struct {
	DB DBExecutor
}

// CreateRun calls CreateRun on s.DB.
func (s RunStore) CreateRun(ctx context.Context, input, output, method string) (string, error) {
	return CreateRun(ctx, s.DB, input, output, method)
}

// FinishRun calls FinishRun on s.DB.
func (s RunStore) FinishRun(ctx context.Context, r Run, runErr error) error {
	return FinishRun(ctx, s.DB, r, runErr)
}
