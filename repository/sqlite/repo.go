// Package sqlite implements the repository contracts on top of a local
// SQLite database. Every mutating operation runs inside a single
// transaction; the package holds no mutable cross-call state.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/taskhub/backend/domain"
)

const taskColumns = `id, title, description, requirements, priority, section, is_completed,
	created_at, due_date, completed_at, reset_weekday, reset_time, sort_order, deleted_at`

type Repository struct {
	db *sql.DB
}

// New returns a SQLite-backed repository over an already migrated database.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// withTx runs fn inside one transaction, committing on success and rolling
// back on any error.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StoreError("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.StoreError("commit transaction", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task         domain.Task
		completed    int
		createdAt    string
		dueDate      sql.NullString
		completedAt  sql.NullString
		resetWeekday sql.NullInt64
		resetTime    sql.NullString
		deletedAt    sql.NullString
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Requirements,
		&task.Priority,
		&task.Section,
		&completed,
		&createdAt,
		&dueDate,
		&completedAt,
		&resetWeekday,
		&resetTime,
		&task.SortOrder,
		&deletedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrTaskNotFound
		}
		return nil, domain.StoreError("scan task", err)
	}

	task.IsCompleted = completed != 0
	task.CreatedAt = parseTimestamp(createdAt)
	task.DueDate = parseNullDate(dueDate)
	task.CompletedAt = parseNullTimestamp(completedAt)
	task.DeletedAt = parseNullTimestamp(deletedAt)
	if resetWeekday.Valid && domain.ValidWeekday(int(resetWeekday.Int64)) {
		wd := int(resetWeekday.Int64)
		task.ResetWeekday = &wd
	}
	if resetTime.Valid {
		task.ResetTime = resetTime.String
	}
	return &task, nil
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatNullTimestamp(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func formatNullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func parseTimestamp(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	// legacy rows written without a zone
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

func parseNullTimestamp(value sql.NullString) *time.Time {
	if !value.Valid || value.String == "" {
		return nil
	}
	t := parseTimestamp(value.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

func parseNullDate(value sql.NullString) *time.Time {
	if !value.Valid || value.String == "" {
		return nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value.String, time.Local); err == nil {
		return &t
	}
	t := parseTimestamp(value.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// inClause builds a "(?, ?, ...)" placeholder list plus its argument slice.
func inClause(ids []int64) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return fmt.Sprintf("(%s)", strings.Join(placeholders, ", ")), args
}
