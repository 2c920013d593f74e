package repository

import (
	"context"

	"github.com/taskhub/backend/domain"
)

// TaskFilter narrows a task listing. Zero values mean "no filter".
type TaskFilter struct {
	Section        domain.Section
	Tag            string
	IncludeDeleted bool
}

// UpdateFields carries a partial task update. Nil pointers leave the
// corresponding column untouched; Tags non-nil triggers a full replace of
// the task's tag links.
type UpdateFields struct {
	Title        *string
	Description  *string
	Requirements *string
	Priority     *int
	Section      *domain.Section
	IsCompleted  *bool
	DueDate      *string // ISO date, empty string clears
	ResetWeekday *int
	ResetTime    *string
	SortOrder    *int
	Tags         []string
}

// Empty reports whether the update carries no fields at all.
func (f UpdateFields) Empty() bool {
	return f.Title == nil && f.Description == nil && f.Requirements == nil &&
		f.Priority == nil && f.Section == nil && f.IsCompleted == nil &&
		f.DueDate == nil && f.ResetWeekday == nil && f.ResetTime == nil &&
		f.SortOrder == nil && f.Tags == nil
}

// TaskRepository is the single writer for all durable task state. Each
// mutating call runs inside one store transaction.
type TaskRepository interface {
	Add(ctx context.Context, task *domain.Task) (int64, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, id int64, fields UpdateFields) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	PermanentDelete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) error
	Uncomplete(ctx context.Context, id int64) error

	ResetDaily(ctx context.Context) (int, error)
	ResetWeekly(ctx context.Context, weekday int) (int, error)

	CountBySection(ctx context.Context) (map[domain.Section]domain.SectionStats, error)
}

// TagRepository covers tag maintenance beyond the per-task fan-out.
type TagRepository interface {
	AllTags(ctx context.Context) ([]domain.Tag, error)
	AllTagsWithCount(ctx context.Context) ([]domain.TagCount, error)
	RenameTag(ctx context.Context, id int64, newName string) error
	MergeTags(ctx context.Context, sourceID, targetID int64) error
	DeleteTag(ctx context.Context, id int64) error
	CleanupUnusedTags(ctx context.Context) (int, error)
}

// RecycleBinRepository operates only on soft-deleted rows.
type RecycleBinRepository interface {
	DeletedTasks(ctx context.Context) ([]domain.Task, error)
	EmptyRecycleBin(ctx context.Context) (int, error)
	DeleteOlderThan(ctx context.Context, days int) (int, error)
	KeepLatestN(ctx context.Context, limit int) (int, error)
}

// AppStateRepository is the process-wide key/value watermark store.
type AppStateRepository interface {
	GetAppState(ctx context.Context, key string) (string, error)
	SetAppState(ctx context.Context, key, value string) error
}
