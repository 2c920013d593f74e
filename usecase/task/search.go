package task

import (
	"context"
	"regexp"
	"strings"

	"github.com/taskhub/backend/domain"
)

// Search modes. Fuzzy is a case-insensitive substring match; regular treats
// the keyword as a pattern and falls back to fuzzy when it does not compile.
const (
	SearchModeFuzzy   = "fuzzy"
	SearchModeRegular = "regular"
)

// SearchTasks scans all non-deleted tasks' title, description, requirements
// and tags and returns the union of any field match. This is a linear scan;
// task counts are personal-scale.
func (uc *UseCase) SearchTasks(ctx context.Context, keyword, mode string) ([]domain.Task, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return uc.ListTasks(ctx, "", "")
	}

	match := newMatcher(keyword, mode)

	all, err := uc.ListTasks(ctx, "", "")
	if err != nil {
		return nil, err
	}

	var results []domain.Task
	for _, t := range all {
		if match(t.Title) || match(t.Description) || match(t.Requirements) || matchAny(match, t.Tags) {
			results = append(results, t)
		}
	}
	return results, nil
}

func newMatcher(keyword, mode string) func(string) bool {
	fuzzy := func(text string) bool {
		if text == "" {
			return false
		}
		return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
	}

	if mode != SearchModeRegular {
		return fuzzy
	}

	pattern, err := regexp.Compile("(?i)" + keyword)
	if err != nil {
		// invalid pattern falls back to substring matching
		return fuzzy
	}
	return func(text string) bool {
		return text != "" && pattern.MatchString(text)
	}
}

func matchAny(match func(string) bool, values []string) bool {
	for _, v := range values {
		if match(v) {
			return true
		}
	}
	return false
}
