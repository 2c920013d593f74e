package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/repository"
)

func TestAddAndGetRoundTrip(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)

	weekday := 2
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local)
	id := mustAdd(t, repo, &domain.Task{
		Title:        "  water plants ",
		Description:  "all of them",
		Requirements: "watering can",
		Priority:     2,
		Section:      domain.SectionWeekly,
		DueDate:      &due,
		ResetWeekday: &weekday,
		ResetTime:    "07:30",
		SortOrder:    3,
		Tags:         []string{"home", "home", "garden"},
	})

	got := mustGet(t, repo, id, false)
	if got.Title != "water plants" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Section != domain.SectionWeekly {
		t.Errorf("Section = %q", got.Section)
	}
	if got.Requirements != "watering can" || got.Priority != 2 {
		t.Errorf("Requirements/Priority = %q/%d", got.Requirements, got.Priority)
	}
	if got.ResetWeekday == nil || *got.ResetWeekday != 2 {
		t.Errorf("ResetWeekday = %v", got.ResetWeekday)
	}
	if got.ResetTime != "07:30" {
		t.Errorf("ResetTime = %q", got.ResetTime)
	}
	if got.DueDate == nil || got.DueDate.Day() != 15 {
		t.Errorf("DueDate = %v", got.DueDate)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v, want deduplicated pair", got.Tags)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be defaulted")
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)

	_, err := repo.Add(context.Background(), &domain.Task{Title: "   ", Section: domain.SectionDaily})
	if !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), 42, false)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestListFiltersAndOrder(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.Local)
	mustAdd(t, repo, &domain.Task{Title: "old daily", Section: domain.SectionDaily, CreatedAt: base, SortOrder: 1})
	mustAdd(t, repo, &domain.Task{Title: "new daily", Section: domain.SectionDaily, CreatedAt: base.Add(time.Hour), SortOrder: 1})
	mustAdd(t, repo, &domain.Task{Title: "first", Section: domain.SectionDaily, CreatedAt: base, SortOrder: 0})
	weeklyID := mustAdd(t, repo, &domain.Task{Title: "weekly", Section: domain.SectionWeekly, Tags: []string{"work"}})
	deletedID := mustAdd(t, repo, &domain.Task{Title: "gone", Section: domain.SectionDaily})
	if err := repo.SoftDelete(ctx, deletedID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	daily, err := repo.List(ctx, repository.TaskFilter{Section: domain.SectionDaily})
	if err != nil {
		t.Fatalf("list daily: %v", err)
	}
	if len(daily) != 3 {
		t.Fatalf("daily count = %d, want 3 (deleted excluded)", len(daily))
	}
	// sort_order ascending, then newest first within the same order
	if daily[0].Title != "first" || daily[1].Title != "new daily" || daily[2].Title != "old daily" {
		t.Errorf("order = %q, %q, %q", daily[0].Title, daily[1].Title, daily[2].Title)
	}

	tagged, err := repo.List(ctx, repository.TaskFilter{Tag: "work"})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(tagged) != 1 || tagged[0].ID != weeklyID {
		t.Errorf("tag filter = %v", tagged)
	}

	all, err := repo.List(ctx, repository.TaskFilter{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("all count = %d, want 5", len(all))
	}
}

func TestUpdateFieldsAndTagReplace(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustAdd(t, repo, &domain.Task{
		Title:   "draft",
		Section: domain.SectionOnce,
		Tags:    []string{"a", "b"},
	})

	title := "final"
	completed := true
	due := "2026-10-01"
	err := repo.Update(ctx, id, repository.UpdateFields{
		Title:       &title,
		IsCompleted: &completed,
		DueDate:     &due,
		Tags:        []string{"b", "c"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got := mustGet(t, repo, id, false)
	if got.Title != "final" {
		t.Errorf("Title = %q", got.Title)
	}
	if !got.IsCompleted || got.CompletedAt == nil {
		t.Errorf("IsCompleted = %v, CompletedAt = %v", got.IsCompleted, got.CompletedAt)
	}
	if got.DueDate == nil || got.DueDate.Month() != time.October {
		t.Errorf("DueDate = %v", got.DueDate)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "b" || got.Tags[1] != "c" {
		t.Errorf("Tags = %v, want full replace", got.Tags)
	}

	// clearing completion also clears the timestamp
	uncompleted := false
	if err := repo.Update(ctx, id, repository.UpdateFields{IsCompleted: &uncompleted}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got = mustGet(t, repo, id, false)
	if got.IsCompleted || got.CompletedAt != nil {
		t.Errorf("IsCompleted = %v, CompletedAt = %v after clear", got.IsCompleted, got.CompletedAt)
	}

	// clearing a due date with an empty string
	empty := ""
	if err := repo.Update(ctx, id, repository.UpdateFields{DueDate: &empty}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got = mustGet(t, repo, id, false); got.DueDate != nil {
		t.Errorf("DueDate = %v, want cleared", got.DueDate)
	}
}

func TestUpdateValidation(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustAdd(t, repo, &domain.Task{Title: "task", Section: domain.SectionDaily})

	if err := repo.Update(ctx, id, repository.UpdateFields{}); !errors.Is(err, domain.ErrNoFields) {
		t.Errorf("empty update err = %v, want ErrNoFields", err)
	}

	blank := "  "
	if err := repo.Update(ctx, id, repository.UpdateFields{Title: &blank}); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("blank title err = %v, want ErrEmptyTitle", err)
	}

	title := "x"
	if err := repo.Update(ctx, 99, repository.UpdateFields{Title: &title}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("missing task err = %v, want ErrTaskNotFound", err)
	}
}

func TestSoftDeleteRestoreLifecycle(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustAdd(t, repo, &domain.Task{Title: "cycle", Section: domain.SectionDaily})

	if err := repo.SoftDelete(ctx, id); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := repo.Get(ctx, id, false); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("deleted task visible without include_deleted: %v", err)
	}
	if got := mustGet(t, repo, id, true); !got.IsDeleted() {
		t.Error("DeletedAt not set")
	}

	// second soft delete hits no live row
	if err := repo.SoftDelete(ctx, id); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("double delete err = %v, want ErrTaskNotFound", err)
	}

	if err := repo.Restore(ctx, id); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := mustGet(t, repo, id, false); got.IsDeleted() {
		t.Error("restore left DeletedAt set")
	}

	if err := repo.PermanentDelete(ctx, id); err != nil {
		t.Fatalf("permanent delete: %v", err)
	}
	if _, err := repo.Get(ctx, id, true); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("row still present after permanent delete: %v", err)
	}
}

func TestCompleteUncomplete(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustAdd(t, repo, &domain.Task{Title: "tick", Section: domain.SectionDaily})

	if err := repo.Complete(ctx, id); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got := mustGet(t, repo, id, false)
	if !got.IsCompleted || got.CompletedAt == nil {
		t.Errorf("after complete: %v / %v", got.IsCompleted, got.CompletedAt)
	}

	if err := repo.Uncomplete(ctx, id); err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	got = mustGet(t, repo, id, false)
	if got.IsCompleted || got.CompletedAt != nil {
		t.Errorf("after uncomplete: %v / %v", got.IsCompleted, got.CompletedAt)
	}

	if err := repo.Complete(ctx, 77); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("missing task err = %v", err)
	}
}

func TestResetDailyTouchesOnlyCompletedDaily(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	d1 := mustAdd(t, repo, &domain.Task{Title: "done daily", Section: domain.SectionDaily})
	d2 := mustAdd(t, repo, &domain.Task{Title: "open daily", Section: domain.SectionDaily})
	w1 := mustAdd(t, repo, &domain.Task{Title: "done weekly", Section: domain.SectionWeekly})
	trash := mustAdd(t, repo, &domain.Task{Title: "deleted daily", Section: domain.SectionDaily})

	for _, id := range []int64{d1, w1, trash} {
		if err := repo.Complete(ctx, id); err != nil {
			t.Fatalf("complete %d: %v", id, err)
		}
	}
	if err := repo.SoftDelete(ctx, trash); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	count, err := repo.ResetDaily(ctx)
	if err != nil {
		t.Fatalf("reset daily: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if got := mustGet(t, repo, d1, false); got.IsCompleted || got.CompletedAt != nil {
		t.Error("daily task not reset")
	}
	if got := mustGet(t, repo, d2, false); got.IsCompleted {
		t.Error("pending task flipped")
	}
	if got := mustGet(t, repo, w1, false); !got.IsCompleted {
		t.Error("weekly task must be untouched")
	}
	if got := mustGet(t, repo, trash, true); !got.IsCompleted {
		t.Error("recycled task must be untouched")
	}
}

func TestResetWeeklyMatchesWeekday(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	monday, friday := 0, 4
	m := mustAdd(t, repo, &domain.Task{Title: "monday chore", Section: domain.SectionWeekly, ResetWeekday: &monday})
	f := mustAdd(t, repo, &domain.Task{Title: "friday chore", Section: domain.SectionWeekly, ResetWeekday: &friday})
	for _, id := range []int64{m, f} {
		if err := repo.Complete(ctx, id); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}

	count, err := repo.ResetWeekly(ctx, monday)
	if err != nil {
		t.Fatalf("reset weekly: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if got := mustGet(t, repo, m, false); got.IsCompleted {
		t.Error("monday chore not reset")
	}
	if got := mustGet(t, repo, f, false); !got.IsCompleted {
		t.Error("friday chore must keep completion")
	}

	// out of range weekday is a no-op, not an error
	count, err = repo.ResetWeekly(ctx, 9)
	if err != nil || count != 0 {
		t.Errorf("invalid weekday = (%d, %v), want (0, nil)", count, err)
	}
}

func TestCountBySection(t *testing.T) {
	t.Parallel()
	repo := newTestRepo(t)
	ctx := context.Background()

	a := mustAdd(t, repo, &domain.Task{Title: "a", Section: domain.SectionDaily})
	mustAdd(t, repo, &domain.Task{Title: "b", Section: domain.SectionDaily})
	mustAdd(t, repo, &domain.Task{Title: "c", Section: domain.SectionOnce})
	if err := repo.Complete(ctx, a); err != nil {
		t.Fatalf("complete: %v", err)
	}

	stats, err := repo.CountBySection(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	daily := stats[domain.SectionDaily]
	if daily.Pending != 1 || daily.Completed != 1 || daily.Total != 2 {
		t.Errorf("daily = %+v", daily)
	}
	if weekly := stats[domain.SectionWeekly]; weekly.Total != 0 {
		t.Errorf("weekly = %+v, want zero entry present", weekly)
	}
	if once := stats[domain.SectionOnce]; once.Pending != 1 {
		t.Errorf("once = %+v", once)
	}
}
