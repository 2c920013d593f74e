// Package task is the business-logic façade over the task repository. It
// validates input the repository does not, publishes change notifications
// after successful mutations and folds statistics.
package task

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/internal/events"
	"github.com/taskhub/backend/repository"
)

const (
	defaultDailyResetTime = "06:00"

	stateKeyDailyResetTime     = "daily_reset_time"
	stateKeyRecycleBinCapacity = "recycle_bin_capacity"
)

// Repository is the full data-access surface the service drives.
type Repository interface {
	repository.TaskRepository
	repository.TagRepository
	repository.RecycleBinRepository
	repository.AppStateRepository
}

type UseCase struct {
	repo        Repository
	bus         *events.Bus
	logger      *zap.Logger
	binCapacity int
}

// New builds the task service. binCapacity bounds the recycle bin; zero or
// negative disables trimming.
func New(repo Repository, bus *events.Bus, binCapacity int, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		repo:        repo,
		bus:         bus,
		logger:      logger,
		binCapacity: binCapacity,
	}
}

// CreateTaskInput carries the caller-supplied fields of a new task.
type CreateTaskInput struct {
	Title        string   `json:"title"`
	Section      string   `json:"section"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	Priority     int      `json:"priority"`
	DueDate      string   `json:"due_date"`
	ResetWeekday *int     `json:"reset_weekday"`
	ResetTime    string   `json:"reset_time"`
	SortOrder    int      `json:"sort_order"`
	Tags         []string `json:"tags"`
}

// AddTask validates and persists a new task, returning its id.
func (uc *UseCase) AddTask(ctx context.Context, input CreateTaskInput) (int64, error) {
	if strings.TrimSpace(input.Title) == "" {
		return 0, domain.ErrEmptyTitle
	}
	if strings.TrimSpace(input.Section) == "" {
		return 0, domain.ErrEmptySection
	}

	task := &domain.Task{
		Title:        input.Title,
		Description:  input.Description,
		Requirements: input.Requirements,
		Priority:     input.Priority,
		Section:      domain.SectionFromString(input.Section),
		ResetWeekday: input.ResetWeekday,
		SortOrder:    input.SortOrder,
		Tags:         input.Tags,
	}
	if input.DueDate != "" {
		due, err := domain.ParseDate(input.DueDate)
		if err != nil {
			return 0, err
		}
		task.DueDate = due
	}
	if input.ResetTime != "" {
		normalized, err := domain.NormalizeResetTime(input.ResetTime)
		if err != nil {
			return 0, err
		}
		task.ResetTime = normalized
	}

	id, err := uc.repo.Add(ctx, task)
	if err != nil {
		uc.logger.Error("add task failed", zap.String("title", input.Title), zap.Error(err))
		return 0, err
	}

	uc.logger.Info("task added", zap.Int64("task_id", id), zap.String("title", task.Title))
	uc.bus.Publish(events.TopicTaskAdded, id)
	if len(task.Tags) > 0 {
		uc.bus.Publish(events.TopicTagsUpdated, nil)
	}
	return id, nil
}

// GetTask returns one task or ErrTaskNotFound.
func (uc *UseCase) GetTask(ctx context.Context, id int64, includeDeleted bool) (*domain.Task, error) {
	return uc.repo.Get(ctx, id, includeDeleted)
}

// ListTasks filters by section and/or tag; empty strings mean no filter.
func (uc *UseCase) ListTasks(ctx context.Context, section, tag string) ([]domain.Task, error) {
	filter := repository.TaskFilter{Tag: strings.TrimSpace(tag)}
	if s := strings.TrimSpace(section); s != "" {
		filter.Section = domain.SectionFromString(s)
	}
	return uc.repo.List(ctx, filter)
}

// UpdateTask applies a partial update and notifies observers.
func (uc *UseCase) UpdateTask(ctx context.Context, id int64, fields repository.UpdateFields) error {
	if err := uc.repo.Update(ctx, id, fields); err != nil {
		uc.logger.Error("update task failed", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	uc.bus.Publish(events.TopicTaskUpdated, id)
	if fields.Tags != nil {
		uc.bus.Publish(events.TopicTagsUpdated, nil)
	}
	return nil
}

// DeleteTask soft-deletes a task into the recycle bin. The bin is then
// trimmed to its configured capacity.
func (uc *UseCase) DeleteTask(ctx context.Context, id int64) error {
	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		uc.logger.Error("delete task failed", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	uc.bus.Publish(events.TopicTaskDeleted, id)
	uc.bus.Publish(events.TopicRecycleBinUpdated, nil)
	uc.trimRecycleBin(ctx)
	return nil
}

// RestoreTask brings a task back from the recycle bin.
func (uc *UseCase) RestoreTask(ctx context.Context, id int64) error {
	if err := uc.repo.Restore(ctx, id); err != nil {
		uc.logger.Error("restore task failed", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	uc.bus.Publish(events.TopicTaskRestored, id)
	uc.bus.Publish(events.TopicRecycleBinUpdated, nil)
	return nil
}

// PermanentDeleteTask removes a task for good.
func (uc *UseCase) PermanentDeleteTask(ctx context.Context, id int64) error {
	if err := uc.repo.PermanentDelete(ctx, id); err != nil {
		uc.logger.Error("permanent delete failed", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	uc.bus.Publish(events.TopicTaskPermanentDeleted, id)
	uc.bus.Publish(events.TopicRecycleBinUpdated, nil)
	return nil
}

// CompleteTask marks a task done.
func (uc *UseCase) CompleteTask(ctx context.Context, id int64) error {
	if err := uc.repo.Complete(ctx, id); err != nil {
		uc.logger.Error("complete task failed", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	uc.bus.Publish(events.TopicTaskCompleted, id)
	return nil
}

// UncompleteTask clears the completion flag.
func (uc *UseCase) UncompleteTask(ctx context.Context, id int64) error {
	if err := uc.repo.Uncomplete(ctx, id); err != nil {
		uc.logger.Error("uncomplete task failed", zap.Int64("task_id", id), zap.Error(err))
		return err
	}
	uc.bus.Publish(events.TopicTaskUncompleted, id)
	return nil
}

// Stats folds the per-section counts and recycle-bin size into one result.
func (uc *UseCase) Stats(ctx context.Context) (*domain.Stats, error) {
	sections, err := uc.repo.CountBySection(ctx)
	if err != nil {
		return nil, err
	}
	deleted, err := uc.repo.DeletedTasks(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{Sections: sections}
	for _, entry := range sections {
		stats.Total.Pending += entry.Pending
		stats.Total.Completed += entry.Completed
	}
	stats.Total.Tasks = stats.Total.Pending + stats.Total.Completed
	stats.Total.Deleted = len(deleted)
	return stats, nil
}

// PerformDailyReset clears completion on daily tasks and reports the count.
func (uc *UseCase) PerformDailyReset(ctx context.Context) (int, error) {
	count, err := uc.repo.ResetDaily(ctx)
	if err != nil {
		uc.logger.Error("daily reset failed", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		uc.logger.Info("daily reset performed", zap.Int("count", count))
	}
	return count, nil
}

// PerformWeeklyReset clears completion on weekly tasks bound to the given
// reset weekday.
func (uc *UseCase) PerformWeeklyReset(ctx context.Context, weekday int) (int, error) {
	if !domain.ValidWeekday(weekday) {
		return 0, domain.ErrInvalidWeekday
	}
	count, err := uc.repo.ResetWeekly(ctx, weekday)
	if err != nil {
		uc.logger.Error("weekly reset failed", zap.Int("weekday", weekday), zap.Error(err))
		return 0, err
	}
	if count > 0 {
		uc.logger.Info("weekly reset performed", zap.Int("weekday", weekday), zap.Int("count", count))
	}
	return count, nil
}

// GlobalDailyResetTime reads the stored daily reset time, falling back to
// the built-in default.
func (uc *UseCase) GlobalDailyResetTime(ctx context.Context) string {
	value, err := uc.repo.GetAppState(ctx, stateKeyDailyResetTime)
	if err != nil || value == "" {
		return defaultDailyResetTime
	}
	return value
}

// SetGlobalDailyResetTime normalizes and stores the daily reset time. A
// malformed value is surfaced to the caller so the user can be told.
func (uc *UseCase) SetGlobalDailyResetTime(ctx context.Context, value string) error {
	normalized, err := domain.NormalizeResetTime(value)
	if err != nil {
		return err
	}
	if err := uc.repo.SetAppState(ctx, stateKeyDailyResetTime, normalized); err != nil {
		uc.logger.Error("store daily reset time failed", zap.Error(err))
		return err
	}
	uc.logger.Info("daily reset time updated", zap.String("reset_time", normalized))
	return nil
}

// AppState exposes watermark storage to the reset service; both services
// share the repository as the sole writer.
func (uc *UseCase) AppState(ctx context.Context, key string) (string, error) {
	return uc.repo.GetAppState(ctx, key)
}

// SetAppState persists one watermark key.
func (uc *UseCase) SetAppState(ctx context.Context, key, value string) error {
	return uc.repo.SetAppState(ctx, key, value)
}

// trimRecycleBin enforces the configured capacity after a soft delete.
func (uc *UseCase) trimRecycleBin(ctx context.Context) {
	capacity := uc.binCapacity
	if value, err := uc.repo.GetAppState(ctx, stateKeyRecycleBinCapacity); err == nil && value != "" {
		if parsed, convErr := parsePositiveInt(value); convErr == nil {
			capacity = parsed
		}
	}
	if capacity <= 0 {
		return
	}
	trimmed, err := uc.repo.KeepLatestN(ctx, capacity)
	if err != nil {
		uc.logger.Warn("recycle bin trim failed", zap.Error(err))
		return
	}
	if trimmed > 0 {
		uc.logger.Info("recycle bin trimmed", zap.Int("removed", trimmed))
		uc.bus.Publish(events.TopicRecycleBinUpdated, nil)
	}
}

func parsePositiveInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, domain.NewError(domain.ErrCodeValidation, "not a positive integer")
	}
	return n, nil
}
