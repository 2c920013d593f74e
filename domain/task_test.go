package domain

import (
	"testing"
	"time"
)

func TestSectionFromString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Section
	}{
		{"daily", SectionDaily},
		{"weekly", SectionWeekly},
		{"once", SectionOnce},
		{" Weekly ", SectionWeekly},
		{"ONCE", SectionOnce},
		{"", SectionDaily},
		{"sometimes", SectionDaily},
	}
	for _, tc := range cases {
		if got := SectionFromString(tc.in); got != tc.want {
			t.Errorf("SectionFromString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	t.Parallel()

	// 2026-08-31 is a Monday, 2026-09-06 a Sunday.
	monday := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	if got := WeekdayOf(monday); got != 0 {
		t.Errorf("WeekdayOf(monday) = %d, want 0", got)
	}
	sunday := time.Date(2026, 9, 6, 12, 0, 0, 0, time.UTC)
	if got := WeekdayOf(sunday); got != 6 {
		t.Errorf("WeekdayOf(sunday) = %d, want 6", got)
	}
}

func TestNormalizeDropsInvalidWeekdayAndDedupesTags(t *testing.T) {
	t.Parallel()

	bad := 9
	task := Task{
		Title:        "  walk the dog  ",
		Section:      "whatever",
		ResetWeekday: &bad,
		Tags:         []string{" home ", "home", "", "pets"},
	}
	task.Normalize()

	if task.Title != "walk the dog" {
		t.Errorf("Title = %q", task.Title)
	}
	if task.Section != SectionDaily {
		t.Errorf("Section = %q, want daily", task.Section)
	}
	if task.ResetWeekday != nil {
		t.Errorf("ResetWeekday = %v, want nil", *task.ResetWeekday)
	}
	if len(task.Tags) != 2 || task.Tags[0] != "home" || task.Tags[1] != "pets" {
		t.Errorf("Tags = %v", task.Tags)
	}
}

func TestIsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	overdue := Task{Section: SectionOnce, DueDate: &yesterday}
	if !overdue.IsOverdue(now) {
		t.Error("past due date should be overdue")
	}

	sameDay := Task{Section: SectionOnce, DueDate: &now}
	if sameDay.IsOverdue(now) {
		t.Error("due today is not overdue")
	}

	future := Task{Section: SectionOnce, DueDate: &tomorrow}
	if future.IsOverdue(now) {
		t.Error("future due date is not overdue")
	}

	completed := Task{Section: SectionOnce, DueDate: &yesterday, IsCompleted: true}
	if completed.IsOverdue(now) {
		t.Error("completed tasks are never overdue")
	}

	daily := Task{Section: SectionDaily, DueDate: &yesterday}
	if daily.IsOverdue(now) {
		t.Error("only once tasks can be overdue")
	}
}

func TestDaysUntilDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	inThree := now.AddDate(0, 0, 3)
	past := now.AddDate(0, 0, -5)

	task := Task{Section: SectionOnce, DueDate: &inThree}
	if days, ok := task.DaysUntilDue(now); !ok || days != 3 {
		t.Errorf("DaysUntilDue = %d, %v; want 3, true", days, ok)
	}

	overdue := Task{Section: SectionOnce, DueDate: &past}
	if days, ok := overdue.DaysUntilDue(now); !ok || days != 0 {
		t.Errorf("overdue DaysUntilDue = %d, %v; want clamp to 0", days, ok)
	}

	noDue := Task{Section: SectionOnce}
	if _, ok := noDue.DaysUntilDue(now); ok {
		t.Error("no due date should report false")
	}
}
