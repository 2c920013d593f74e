package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseResetTime parses an HH:MM reset time string. It returns
// ErrInvalidResetTime (CONFIG_FORMAT) on any malformed input.
func ParseResetTime(value string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, WrapError(ErrCodeConfigFormat, ErrInvalidResetTime.Message, fmt.Errorf("got %q", value))
	}
	hour, err = strconv.Atoi(parts[0])
	if err == nil {
		minute, err = strconv.Atoi(parts[1])
	}
	if err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, WrapError(ErrCodeConfigFormat, ErrInvalidResetTime.Message, fmt.Errorf("got %q", value))
	}
	return hour, minute, nil
}

// NormalizeResetTime pads a loosely formatted time ("6:5") to canonical
// HH:MM form, validating it in the process.
func NormalizeResetTime(value string) (string, error) {
	hour, minute, err := ParseResetTime(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// ParseDate parses an ISO date, accepting a full RFC3339 timestamp as a
// fallback, and returns a VALIDATION error otherwise.
func ParseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, NewError(ErrCodeValidation, "date must be in YYYY-MM-DD format")
}

// ResetInstant combines the date of now with an HH:MM reset time.
func ResetInstant(now time.Time, resetTime string) (time.Time, error) {
	hour, minute, err := ParseResetTime(resetTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
}
