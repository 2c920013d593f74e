package task

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/internal/events"
)

// AllTags lists every tag with its task count.
func (uc *UseCase) AllTags(ctx context.Context) ([]domain.TagCount, error) {
	return uc.repo.AllTagsWithCount(ctx)
}

// RenameTag renames a tag and notifies observers.
func (uc *UseCase) RenameTag(ctx context.Context, id int64, newName string) error {
	if err := uc.repo.RenameTag(ctx, id, newName); err != nil {
		uc.logger.Error("rename tag failed", zap.Int64("tag_id", id), zap.Error(err))
		return err
	}
	uc.bus.Publish(events.TopicTagsUpdated, nil)
	return nil
}

// MergeTags folds the source tag into the target and notifies observers.
func (uc *UseCase) MergeTags(ctx context.Context, sourceID, targetID int64) error {
	if err := uc.repo.MergeTags(ctx, sourceID, targetID); err != nil {
		uc.logger.Error("merge tags failed",
			zap.Int64("source_id", sourceID), zap.Int64("target_id", targetID), zap.Error(err))
		return err
	}
	uc.logger.Info("tags merged", zap.Int64("source_id", sourceID), zap.Int64("target_id", targetID))
	uc.bus.Publish(events.TopicTagsUpdated, nil)
	return nil
}

// DeleteTag removes a tag entirely.
func (uc *UseCase) DeleteTag(ctx context.Context, id int64) error {
	if err := uc.repo.DeleteTag(ctx, id); err != nil {
		uc.logger.Error("delete tag failed", zap.Int64("tag_id", id), zap.Error(err))
		return err
	}
	uc.bus.Publish(events.TopicTagsUpdated, nil)
	return nil
}

// CleanupUnusedTags prunes tags no task references anymore.
func (uc *UseCase) CleanupUnusedTags(ctx context.Context) (int, error) {
	count, err := uc.repo.CleanupUnusedTags(ctx)
	if err != nil {
		uc.logger.Error("cleanup unused tags failed", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		uc.logger.Info("unused tags removed", zap.Int("count", count))
		uc.bus.Publish(events.TopicTagsUpdated, nil)
	}
	return count, nil
}
