package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/taskhub/backend/domain"
)

// linkTags resolves each tag name (creating missing ones) and inserts the
// task links, all inside the caller's transaction.
func (r *Repository) linkTags(ctx context.Context, tx *sql.Tx, taskID int64, tags []string) error {
	for _, name := range tags {
		tagID, err := ensureTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if tagID <= 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`,
			taskID, tagID); err != nil {
			return domain.StoreError("link task tag", err)
		}
	}
	return nil
}

// ensureTag returns the id for a tag name, creating the tag on first use.
func ensureTag(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}

	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ? LIMIT 1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, domain.StoreError("lookup tag", err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO tags (name) VALUES (?)`, name)
	if err != nil {
		return 0, domain.StoreError("create tag", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, domain.StoreError("read tag id", err)
	}
	return id, nil
}

// taskTags returns the sorted tag names of one task.
func (r *Repository) taskTags(ctx context.Context, taskID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.name
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY t.name`, taskID)
	if err != nil {
		return nil, domain.StoreError("load task tags", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, domain.StoreError("scan tag", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// attachTags resolves the tags of many tasks with one IN query.
func (r *Repository) attachTags(ctx context.Context, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	placeholders, args := inClause(ids)

	rows, err := r.db.QueryContext(ctx, `
		SELECT tt.task_id, t.name
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id IN `+placeholders+`
		ORDER BY t.name`, args...)
	if err != nil {
		return domain.StoreError("batch load tags", err)
	}
	defer rows.Close()

	tagMap := make(map[int64][]string, len(tasks))
	for rows.Next() {
		var (
			taskID int64
			name   string
		)
		if err := rows.Scan(&taskID, &name); err != nil {
			return domain.StoreError("scan tag row", err)
		}
		tagMap[taskID] = append(tagMap[taskID], name)
	}
	if err := rows.Err(); err != nil {
		return domain.StoreError("batch load tags", err)
	}

	for i := range tasks {
		tasks[i].Tags = tagMap[tasks[i].ID]
	}
	return nil
}

// AllTags lists every tag ordered case-insensitively for display.
func (r *Repository) AllTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM tags ORDER BY LOWER(name)`)
	if err != nil {
		return nil, domain.StoreError("list tags", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, domain.StoreError("scan tag", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// AllTagsWithCount lists tags with their task counts in one JOIN query.
func (r *Repository) AllTagsWithCount(ctx context.Context) ([]domain.TagCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, COUNT(tt.task_id)
		FROM tags t
		LEFT JOIN task_tags tt ON t.id = tt.tag_id
		GROUP BY t.id, t.name
		ORDER BY LOWER(t.name)`)
	if err != nil {
		return nil, domain.StoreError("list tags with counts", err)
	}
	defer rows.Close()

	var tags []domain.TagCount
	for rows.Next() {
		var tag domain.TagCount
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.TaskCount); err != nil {
			return nil, domain.StoreError("scan tag count", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// RenameTag changes a tag's name; the store's unique constraint rejects
// collisions.
func (r *Repository) RenameTag(ctx context.Context, id int64, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.ErrEmptyTagName
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ? WHERE id = ?`, newName, id)
	if err != nil {
		return domain.StoreError("rename tag", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

// MergeTags re-parents every task association of source onto target,
// deduplicating links, then removes the source tag.
func (r *Repository) MergeTags(ctx context.Context, sourceID, targetID int64) error {
	if sourceID == targetID || sourceID <= 0 || targetID <= 0 {
		return domain.NewError(domain.ErrCodeValidation, "merge requires two distinct tag ids")
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range []int64{sourceID, targetID} {
			var exists int64
			err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE id = ?`, id).Scan(&exists)
			if err == sql.ErrNoRows {
				return domain.ErrTagNotFound
			}
			if err != nil {
				return domain.StoreError("lookup tag", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_tags (task_id, tag_id)
			SELECT task_id, ? FROM task_tags WHERE tag_id = ?`,
			targetID, sourceID); err != nil {
			return domain.StoreError("re-link merged tag", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM task_tags WHERE tag_id = ?`, sourceID); err != nil {
			return domain.StoreError("drop source links", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tags WHERE id = ?`, sourceID); err != nil {
			return domain.StoreError("drop source tag", err)
		}
		return nil
	})
}

// DeleteTag removes a tag; its task links go with it via the cascade.
func (r *Repository) DeleteTag(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return domain.StoreError("delete tag", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

// CleanupUnusedTags prunes tags that no task links to anymore.
func (r *Repository) CleanupUnusedTags(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM tags WHERE id IN (
			SELECT t.id
			FROM tags t
			LEFT JOIN task_tags tt ON t.id = tt.tag_id
			WHERE tt.task_id IS NULL
		)`)
	if err != nil {
		return 0, domain.StoreError("cleanup unused tags", err)
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}
