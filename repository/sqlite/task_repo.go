package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/repository"
)

// Add persists a task together with its tag links in one transaction and
// returns the store-assigned id.
func (r *Repository) Add(ctx context.Context, task *domain.Task) (int64, error) {
	if task == nil {
		return 0, domain.ErrEmptyTitle
	}
	task.Normalize()
	if task.Title == "" {
		return 0, domain.ErrEmptyTitle
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (
				title, description, requirements, priority, section, is_completed,
				created_at, due_date, completed_at, reset_weekday, reset_time,
				sort_order, deleted_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.Title,
			task.Description,
			task.Requirements,
			task.Priority,
			string(task.Section),
			boolToInt(task.IsCompleted),
			formatTimestamp(task.CreatedAt),
			formatNullDate(task.DueDate),
			formatNullTimestamp(task.CompletedAt),
			nullableWeekday(task.ResetWeekday),
			nullableString(task.ResetTime),
			task.SortOrder,
			formatNullTimestamp(task.DeletedAt),
		)
		if err != nil {
			return domain.StoreError("insert task", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return domain.StoreError("read inserted id", err)
		}
		return r.linkTags(ctx, tx, id, task.Tags)
	})
	if err != nil {
		return 0, err
	}
	task.ID = id
	return id, nil
}

// Get returns a single task with its tag names resolved. Soft-deleted rows
// are hidden unless includeDeleted is set.
func (r *Repository) Get(ctx context.Context, id int64, includeDeleted bool) (*domain.Task, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidTaskID
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	tags, err := r.taskTags(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Tags = tags
	return task, nil
}

// List returns tasks matching the filter, ordered by sort_order then newest
// first. Tags are attached through one batched lookup rather than one query
// per task.
func (r *Repository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `SELECT DISTINCT ` + taskColumnsAliased() + ` FROM tasks t`
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 2)

	if filter.Tag != "" {
		query += ` JOIN task_tags tt ON t.id = tt.task_id JOIN tags tg ON tt.tag_id = tg.id`
		conditions = append(conditions, "tg.name = ?")
		args = append(args, filter.Tag)
	}
	if !filter.IncludeDeleted {
		conditions = append(conditions, "t.deleted_at IS NULL")
	}
	if filter.Section != "" {
		conditions = append(conditions, "t.section = ?")
		args = append(args, string(domain.SectionFromString(string(filter.Section))))
	}
	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}
	query += " ORDER BY t.sort_order ASC, t.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("list tasks", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("list tasks", err)
	}

	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies a partial update. A non-nil Tags field replaces every
// existing link for the task. The whole change is one transaction.
func (r *Repository) Update(ctx context.Context, id int64, fields repository.UpdateFields) error {
	if id <= 0 {
		return domain.ErrInvalidTaskID
	}
	if fields.Empty() {
		return domain.ErrNoFields
	}

	setClauses, args, err := buildTaskUpdate(fields)
	if err != nil {
		return err
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		var exists int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM tasks WHERE id = ? AND deleted_at IS NULL`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return domain.ErrTaskNotFound
		}
		if err != nil {
			return domain.StoreError("lookup task", err)
		}

		if len(setClauses) > 0 {
			args = append(args, id)
			query := "UPDATE tasks SET " + joinClauses(setClauses) + " WHERE id = ?"
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return domain.StoreError("update task", err)
			}
		}

		if fields.Tags != nil {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM task_tags WHERE task_id = ?`, id); err != nil {
				return domain.StoreError("clear task tags", err)
			}
			return r.linkTags(ctx, tx, id, domain.NormalizeTags(fields.Tags))
		}
		return nil
	})
}

// SoftDelete moves a task to the recycle bin.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	return r.touchTask(ctx, id,
		`UPDATE tasks SET deleted_at = ? WHERE id = ?`,
		formatTimestamp(time.Now()))
}

// Restore brings a soft-deleted task back into normal visibility.
func (r *Repository) Restore(ctx context.Context, id int64) error {
	return r.touchTask(ctx, id, `UPDATE tasks SET deleted_at = NULL WHERE id = ?`)
}

// PermanentDelete removes the row unconditionally; tag links go with it via
// the cascading foreign key.
func (r *Repository) PermanentDelete(ctx context.Context, id int64) error {
	return r.touchTask(ctx, id, `DELETE FROM tasks WHERE id = ?`)
}

// Complete marks the task done and stamps completed_at in one statement.
func (r *Repository) Complete(ctx context.Context, id int64) error {
	return r.touchTask(ctx, id,
		`UPDATE tasks SET is_completed = 1, completed_at = ? WHERE id = ?`,
		formatTimestamp(time.Now()))
}

// Uncomplete clears both the flag and the timestamp.
func (r *Repository) Uncomplete(ctx context.Context, id int64) error {
	return r.touchTask(ctx, id,
		`UPDATE tasks SET is_completed = 0, completed_at = NULL WHERE id = ?`)
}

// ResetDaily clears completion on every non-deleted daily task and returns
// the number of rows affected.
func (r *Repository) ResetDaily(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET is_completed = 0, completed_at = NULL
		WHERE section = ?
		  AND deleted_at IS NULL
		  AND is_completed = 1`,
		string(domain.SectionDaily))
	if err != nil {
		return 0, domain.StoreError("reset daily tasks", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// ResetWeekly clears completion on weekly tasks whose reset day matches.
// An out-of-range weekday is a no-op returning zero.
func (r *Repository) ResetWeekly(ctx context.Context, weekday int) (int, error) {
	if !domain.ValidWeekday(weekday) {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET is_completed = 0, completed_at = NULL
		WHERE section = ?
		  AND reset_weekday = ?
		  AND deleted_at IS NULL
		  AND is_completed = 1`,
		string(domain.SectionWeekly), weekday)
	if err != nil {
		return 0, domain.StoreError("reset weekly tasks", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// CountBySection groups pending/completed counts in a single query.
func (r *Repository) CountBySection(ctx context.Context) (map[domain.Section]domain.SectionStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT section, is_completed, COUNT(*)
		FROM tasks
		WHERE deleted_at IS NULL
		GROUP BY section, is_completed`)
	if err != nil {
		return nil, domain.StoreError("count tasks", err)
	}
	defer rows.Close()

	stats := map[domain.Section]domain.SectionStats{
		domain.SectionDaily:  {},
		domain.SectionWeekly: {},
		domain.SectionOnce:   {},
	}
	for rows.Next() {
		var (
			section   string
			completed int
			count     int
		)
		if err := rows.Scan(&section, &completed, &count); err != nil {
			return nil, domain.StoreError("scan counts", err)
		}
		entry, ok := stats[domain.Section(section)]
		if !ok {
			continue
		}
		if completed == 0 {
			entry.Pending = count
		} else {
			entry.Completed = count
		}
		entry.Total = entry.Pending + entry.Completed
		stats[domain.Section(section)] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("count tasks", err)
	}
	return stats, nil
}

// touchTask runs a single-row statement and maps zero affected rows onto
// the not-found sentinel.
func (r *Repository) touchTask(ctx context.Context, id int64, query string, extra ...interface{}) error {
	if id <= 0 {
		return domain.ErrInvalidTaskID
	}
	args := append(extra, id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.StoreError("update task row", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.StoreError("read affected rows", err)
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
