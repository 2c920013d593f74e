package domain

import (
	"strings"
	"time"
)

// Section is the recurrence class of a task.
type Section string

const (
	SectionDaily  Section = "daily"
	SectionWeekly Section = "weekly"
	SectionOnce   Section = "once"
)

// SectionFromString parses a section value. Unrecognized input falls back
// to SectionDaily rather than failing.
func SectionFromString(value string) Section {
	switch Section(strings.ToLower(strings.TrimSpace(value))) {
	case SectionWeekly:
		return SectionWeekly
	case SectionOnce:
		return SectionOnce
	default:
		return SectionDaily
	}
}

// Valid reports whether s is one of the three known sections.
func (s Section) Valid() bool {
	return s == SectionDaily || s == SectionWeekly || s == SectionOnce
}

// Task is the central domain entity.
type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Requirements string     `json:"requirements,omitempty"`
	Priority     int        `json:"priority"`
	Section      Section    `json:"section"`
	IsCompleted  bool       `json:"is_completed"`
	CreatedAt    time.Time  `json:"created_at"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ResetWeekday *int       `json:"reset_weekday,omitempty"` // 0=Monday .. 6=Sunday
	ResetTime    string     `json:"reset_time,omitempty"`
	SortOrder    int        `json:"sort_order"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// Normalize trims free-text fields, coerces the section and drops an
// out-of-range reset weekday. Tags are trimmed and deduplicated.
func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	t.Requirements = strings.TrimSpace(t.Requirements)
	t.Section = SectionFromString(string(t.Section))
	if t.ResetWeekday != nil && !ValidWeekday(*t.ResetWeekday) {
		t.ResetWeekday = nil
	}
	t.Tags = NormalizeTags(t.Tags)
}

// IsDeleted reports whether the task sits in the recycle bin.
func (t *Task) IsDeleted() bool {
	return t != nil && t.DeletedAt != nil
}

// IsOverdue reports whether a one-off task's due date has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.Section != SectionOnce || t.IsCompleted || t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := now.Date()
	due := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return due.Before(today)
}

// DaysUntilDue returns the number of whole days until the due date, clamped
// at zero. The second return is false for tasks without a due date or
// outside the once section.
func (t *Task) DaysUntilDue(now time.Time) (int, bool) {
	if t == nil || t.Section != SectionOnce || t.DueDate == nil {
		return 0, false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := now.Date()
	due := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}

// Tag is a named label attached to tasks. Names are unique at the store
// level; storage is case sensitive, display ordering is not.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagCount pairs a tag with the number of tasks linked to it.
type TagCount struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TaskCount int    `json:"task_count"`
}

// SectionStats counts pending and completed tasks within one section.
type SectionStats struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// StatsTotal aggregates counts across sections.
type StatsTotal struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Tasks     int `json:"tasks"`
	Deleted   int `json:"deleted"`
}

// Stats is the per-section breakdown plus overall totals and the
// recycle-bin size.
type Stats struct {
	Sections map[Section]SectionStats `json:"sections"`
	Total    StatsTotal               `json:"total"`
}

// ValidWeekday reports whether d is a valid reset weekday (0=Monday .. 6=Sunday).
func ValidWeekday(d int) bool {
	return d >= 0 && d <= 6
}

// WeekdayOf maps a time to the 0=Monday .. 6=Sunday convention used
// throughout the task schema.
func WeekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NormalizeTags trims, drops empties and deduplicates while preserving
// first-occurrence order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
