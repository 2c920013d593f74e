package sqlite

import (
	"strings"
	"time"

	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/repository"
)

// buildTaskUpdate translates a partial update into SET clauses, normalizing
// booleans and date/time fields on the way in. Tags are handled by the
// caller inside the same transaction.
func buildTaskUpdate(fields repository.UpdateFields) ([]string, []interface{}, error) {
	var (
		clauses []string
		args    []interface{}
	)
	set := func(clause string, value interface{}) {
		clauses = append(clauses, clause)
		args = append(args, value)
	}

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return nil, nil, domain.ErrEmptyTitle
		}
		set("title = ?", title)
	}
	if fields.Description != nil {
		set("description = ?", strings.TrimSpace(*fields.Description))
	}
	if fields.Requirements != nil {
		set("requirements = ?", strings.TrimSpace(*fields.Requirements))
	}
	if fields.Priority != nil {
		set("priority = ?", *fields.Priority)
	}
	if fields.Section != nil {
		set("section = ?", string(domain.SectionFromString(string(*fields.Section))))
	}
	if fields.IsCompleted != nil {
		// completed_at tracks the flag so the pair never disagrees
		set("is_completed = ?", boolToInt(*fields.IsCompleted))
		if *fields.IsCompleted {
			set("completed_at = ?", formatTimestamp(time.Now()))
		} else {
			clauses = append(clauses, "completed_at = NULL")
		}
	}
	if fields.DueDate != nil {
		value := strings.TrimSpace(*fields.DueDate)
		if value == "" {
			clauses = append(clauses, "due_date = NULL")
		} else {
			parsed, err := domain.ParseDate(value)
			if err != nil {
				return nil, nil, err
			}
			set("due_date = ?", parsed.Format("2006-01-02"))
		}
	}
	if fields.ResetWeekday != nil {
		if domain.ValidWeekday(*fields.ResetWeekday) {
			set("reset_weekday = ?", *fields.ResetWeekday)
		} else {
			// out-of-range weekday drops to unset
			clauses = append(clauses, "reset_weekday = NULL")
		}
	}
	if fields.ResetTime != nil {
		value := strings.TrimSpace(*fields.ResetTime)
		if value == "" {
			clauses = append(clauses, "reset_time = NULL")
		} else {
			normalized, err := domain.NormalizeResetTime(value)
			if err != nil {
				return nil, nil, err
			}
			set("reset_time = ?", normalized)
		}
	}
	if fields.SortOrder != nil {
		set("sort_order = ?", *fields.SortOrder)
	}

	return clauses, args, nil
}

func joinClauses(clauses []string) string {
	return strings.Join(clauses, ", ")
}

func joinConditions(conditions []string) string {
	return strings.Join(conditions, " AND ")
}

func taskColumnsAliased() string {
	cols := strings.Split(taskColumns, ",")
	for i, col := range cols {
		cols[i] = "t." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func nullableString(value string) interface{} {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableWeekday(weekday *int) interface{} {
	if weekday == nil {
		return nil
	}
	return *weekday
}
