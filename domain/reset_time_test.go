package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseResetTime(t *testing.T) {
	t.Parallel()

	hour, minute, err := ParseResetTime("06:30")
	if err != nil {
		t.Fatalf("ParseResetTime: %v", err)
	}
	if hour != 6 || minute != 30 {
		t.Errorf("got %d:%d, want 6:30", hour, minute)
	}

	for _, bad := range []string{"", "6", "25:00", "12:60", "ab:cd", "12:30:00"} {
		if _, _, err := ParseResetTime(bad); !errors.Is(err, ErrInvalidResetTime) {
			t.Errorf("ParseResetTime(%q) = %v, want ErrInvalidResetTime", bad, err)
		}
	}
}

func TestNormalizeResetTime(t *testing.T) {
	t.Parallel()

	got, err := NormalizeResetTime("6:5")
	if err != nil {
		t.Fatalf("NormalizeResetTime: %v", err)
	}
	if got != "06:05" {
		t.Errorf("got %q, want 06:05", got)
	}

	if _, err := NormalizeResetTime("24:00"); !IsDomainError(err, ErrCodeConfigFormat) {
		t.Errorf("out-of-range hour should be a CONFIG_FORMAT error, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate("2026-08-31")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.August || got.Day() != 31 {
		t.Errorf("got %v", got)
	}

	if _, err := ParseDate("2026-08-31T10:00:00Z"); err != nil {
		t.Errorf("RFC3339 fallback failed: %v", err)
	}

	if _, err := ParseDate("31/08/2026"); !IsDomainError(err, ErrCodeValidation) {
		t.Errorf("want VALIDATION error, got %v", err)
	}
}

func TestResetInstant(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 14, 45, 12, 0, time.UTC)
	instant, err := ResetInstant(now, "06:00")
	if err != nil {
		t.Fatalf("ResetInstant: %v", err)
	}
	want := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	if !instant.Equal(want) {
		t.Errorf("got %v, want %v", instant, want)
	}

	if _, err := ResetInstant(now, "noon"); err == nil {
		t.Error("malformed reset time should error")
	}
}
