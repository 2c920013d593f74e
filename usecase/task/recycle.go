package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/internal/events"
)

// DeletedTasks lists the recycle bin contents.
func (uc *UseCase) DeletedTasks(ctx context.Context) ([]domain.Task, error) {
	return uc.repo.DeletedTasks(ctx)
}

// EmptyRecycleBin permanently removes every soft-deleted task.
func (uc *UseCase) EmptyRecycleBin(ctx context.Context) (int, error) {
	count, err := uc.repo.EmptyRecycleBin(ctx)
	if err != nil {
		uc.logger.Error("empty recycle bin failed", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		uc.logger.Info("recycle bin emptied", zap.Int("count", count))
		uc.bus.Publish(events.TopicRecycleBinUpdated, nil)
	}
	return count, nil
}

// DeleteOlderThan purges recycle-bin entries older than the given days.
func (uc *UseCase) DeleteOlderThan(ctx context.Context, days int) (int, error) {
	count, err := uc.repo.DeleteOlderThan(ctx, days)
	if err != nil {
		uc.logger.Error("purge old deleted tasks failed", zap.Int("days", days), zap.Error(err))
		return 0, err
	}
	if count > 0 {
		uc.bus.Publish(events.TopicRecycleBinUpdated, nil)
	}
	return count, nil
}
