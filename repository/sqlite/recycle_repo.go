package sqlite

import (
	"context"
	"time"

	"github.com/taskhub/backend/domain"
)

// DeletedTasks lists the recycle bin, most recently deleted first.
func (r *Repository) DeletedTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC, id DESC`)
	if err != nil {
		return nil, domain.StoreError("list deleted tasks", err)
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
		return nil, domain.StoreError("list deleted tasks", err)
	}

	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// EmptyRecycleBin permanently removes every soft-deleted task and returns
// the count.
func (r *Repository) EmptyRecycleBin(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE deleted_at IS NOT NULL`)
	if err != nil {
		return 0, domain.StoreError("empty recycle bin", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// DeleteOlderThan purges soft-deleted tasks whose deletion is older than
// the given number of days.
func (r *Repository) DeleteOlderThan(ctx context.Context, days int) (int, error) {
	if days < 1 {
		return 0, nil
	}
	cutoff := formatTimestamp(time.Now().AddDate(0, 0, -days))
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM tasks
		WHERE deleted_at IS NOT NULL
		  AND deleted_at < ?`, cutoff)
	if err != nil {
		return 0, domain.StoreError("purge old deleted tasks", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// KeepLatestN trims the recycle bin down to the given capacity, dropping
// the oldest deletions first.
func (r *Repository) KeepLatestN(ctx context.Context, limit int) (int, error) {
	if limit < 0 {
		return 0, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM tasks
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC, id DESC
		LIMIT -1 OFFSET ?`, limit)
	if err != nil {
		return 0, domain.StoreError("select overflow tasks", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, domain.StoreError("scan overflow id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, domain.StoreError("select overflow tasks", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders, args := inClause(ids)
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id IN `+placeholders, args...)
	if err != nil {
		return 0, domain.StoreError("trim recycle bin", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}
