package reset

import (
	"context"
	"testing"
	"time"

	"github.com/taskhub/backend/internal/events"
)

// fakeTasks is an in-memory stand-in for the task façade.
type fakeTasks struct {
	state       map[string]string
	dailyCalls  int
	weeklyCalls int
	dailyCount  int
	weeklyCount int
	lastWeekday int
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{
		state:       make(map[string]string),
		dailyCount:  1,
		weeklyCount: 1,
	}
}

func (f *fakeTasks) PerformDailyReset(context.Context) (int, error) {
	f.dailyCalls++
	return f.dailyCount, nil
}

func (f *fakeTasks) PerformWeeklyReset(_ context.Context, weekday int) (int, error) {
	f.weeklyCalls++
	f.lastWeekday = weekday
	return f.weeklyCount, nil
}

func (f *fakeTasks) AppState(_ context.Context, key string) (string, error) {
	return f.state[key], nil
}

func (f *fakeTasks) SetAppState(_ context.Context, key, value string) error {
	f.state[key] = value
	return nil
}

type fakeSettings struct {
	enabled   bool
	dailyTime string
	weekday   int
}

func (f *fakeSettings) AutoResetEnabled() bool { return f.enabled }
func (f *fakeSettings) DailyResetTime() string { return f.dailyTime }
func (f *fakeSettings) WeeklyResetDay() int    { return f.weekday }

func newTestService(t *testing.T, tasks *fakeTasks, settings *fakeSettings, at time.Time) *Service {
	t.Helper()
	s := New(tasks, settings, events.NewBus(), nil)
	s.now = func() time.Time { return at }
	return s
}

// 2026-08-31 is a Monday (weekday 0), ISO week 36.
var monday = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func TestDailyResetNotDueBeforeResetTime(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	settings := &fakeSettings{enabled: true, dailyTime: "06:00", weekday: 3}
	s := newTestService(t, tasks, settings, monday.Add(5*time.Hour+59*time.Minute))

	s.Evaluate(context.Background())

	if tasks.dailyCalls != 0 {
		t.Errorf("dailyCalls = %d, want 0 before the reset instant", tasks.dailyCalls)
	}
}

func TestDailyResetFiresOncePerDay(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	settings := &fakeSettings{enabled: true, dailyTime: "06:00", weekday: 3}
	s := newTestService(t, tasks, settings, monday.Add(6*time.Hour))

	s.Evaluate(context.Background())
	if tasks.dailyCalls != 1 {
		t.Fatalf("dailyCalls = %d, want 1 at the reset instant", tasks.dailyCalls)
	}
	if tasks.state[stateKeyLastDailyReset] == "" {
		t.Error("watermark not persisted")
	}

	// later the same day, nothing new
	s.now = func() time.Time { return monday.Add(6*time.Hour + 30*time.Minute) }
	s.Evaluate(context.Background())
	s.now = func() time.Time { return monday.Add(23 * time.Hour) }
	s.Evaluate(context.Background())
	if tasks.dailyCalls != 1 {
		t.Errorf("dailyCalls = %d, want still 1 within the same day", tasks.dailyCalls)
	}

	// next day after the reset instant it fires again
	s.now = func() time.Time { return monday.Add(24*time.Hour + 6*time.Hour) }
	s.Evaluate(context.Background())
	if tasks.dailyCalls != 2 {
		t.Errorf("dailyCalls = %d, want 2 on the next day", tasks.dailyCalls)
	}
}

func TestDailyResetZeroCountLeavesWatermarkUntouched(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	tasks.dailyCount = 0
	settings := &fakeSettings{enabled: true, dailyTime: "06:00", weekday: 3}
	s := newTestService(t, tasks, settings, monday.Add(7*time.Hour))

	s.Evaluate(context.Background())
	if tasks.state[stateKeyLastDailyReset] != "" {
		t.Error("zero-row reset must not advance the watermark")
	}

	// the next pass tries again
	s.Evaluate(context.Background())
	if tasks.dailyCalls != 2 {
		t.Errorf("dailyCalls = %d, want a retry while nothing was reset", tasks.dailyCalls)
	}
}

func TestWeeklyResetOnConfiguredWeekdayOncePerWeek(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	tasks.dailyCount = 0 // keep the daily path quiet
	settings := &fakeSettings{enabled: true, dailyTime: "06:00", weekday: 0}
	s := newTestService(t, tasks, settings, monday.Add(8*time.Hour))

	s.Evaluate(context.Background())
	if tasks.weeklyCalls != 1 || tasks.lastWeekday != 0 {
		t.Fatalf("weeklyCalls = %d (weekday %d), want one call for Monday", tasks.weeklyCalls, tasks.lastWeekday)
	}
	if tasks.state[stateKeyLastWeeklyReset] != "36" {
		t.Errorf("weekly watermark = %q, want ISO week 36", tasks.state[stateKeyLastWeeklyReset])
	}

	// same Monday, later: no second reset
	s.now = func() time.Time { return monday.Add(20 * time.Hour) }
	s.Evaluate(context.Background())
	if tasks.weeklyCalls != 1 {
		t.Errorf("weeklyCalls = %d, want still 1 within the week", tasks.weeklyCalls)
	}

	// Tuesday: weekday mismatch
	s.now = func() time.Time { return monday.AddDate(0, 0, 1).Add(8 * time.Hour) }
	s.Evaluate(context.Background())
	if tasks.weeklyCalls != 1 {
		t.Errorf("weeklyCalls = %d, wrong weekday must not fire", tasks.weeklyCalls)
	}

	// Monday of ISO week 37
	s.now = func() time.Time { return monday.AddDate(0, 0, 7).Add(8 * time.Hour) }
	s.Evaluate(context.Background())
	if tasks.weeklyCalls != 2 {
		t.Errorf("weeklyCalls = %d, want 2 on the next week", tasks.weeklyCalls)
	}
}

func TestWatermarksSurviveRestart(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	settings := &fakeSettings{enabled: true, dailyTime: "06:00", weekday: 0}
	s := newTestService(t, tasks, settings, monday.Add(9*time.Hour))
	s.Evaluate(context.Background())
	if tasks.dailyCalls != 1 || tasks.weeklyCalls != 1 {
		t.Fatalf("first run calls = %d/%d", tasks.dailyCalls, tasks.weeklyCalls)
	}

	// a fresh service over the same store re-reads the watermarks
	restarted := newTestService(t, tasks, settings, monday.Add(10*time.Hour))
	restarted.Evaluate(context.Background())
	if tasks.dailyCalls != 1 || tasks.weeklyCalls != 1 {
		t.Errorf("restart re-fired: calls = %d/%d", tasks.dailyCalls, tasks.weeklyCalls)
	}
}

func TestAutoResetDisabledSkipsEverything(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	settings := &fakeSettings{enabled: false, dailyTime: "06:00", weekday: 0}
	s := newTestService(t, tasks, settings, monday.Add(12*time.Hour))

	s.Evaluate(context.Background())
	if tasks.dailyCalls != 0 || tasks.weeklyCalls != 0 {
		t.Errorf("disabled service ran resets: %d/%d", tasks.dailyCalls, tasks.weeklyCalls)
	}
}

func TestMalformedResetTimeSkipsDailyOnly(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	settings := &fakeSettings{enabled: true, dailyTime: "sunrise", weekday: 0}
	s := newTestService(t, tasks, settings, monday.Add(12*time.Hour))

	s.Evaluate(context.Background())
	if tasks.dailyCalls != 0 {
		t.Errorf("dailyCalls = %d, want skip on bad config", tasks.dailyCalls)
	}
	if tasks.weeklyCalls != 1 {
		t.Errorf("weeklyCalls = %d, weekly must be unaffected", tasks.weeklyCalls)
	}
}

func TestForceResetsBypassGating(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	settings := &fakeSettings{enabled: true, dailyTime: "06:00", weekday: 3}
	// 03:00, well before the reset instant, and not the weekly day
	s := newTestService(t, tasks, settings, monday.Add(3*time.Hour))

	bus := events.NewBus()
	s.bus = bus
	dailyEvents := 0
	bus.Subscribe(events.TopicDailyResetPerformed, func(interface{}) { dailyEvents++ })

	count, err := s.ForceDailyReset(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("force daily = (%d, %v)", count, err)
	}
	if tasks.state[stateKeyLastDailyReset] == "" {
		t.Error("forced reset must persist the watermark")
	}
	if dailyEvents != 1 {
		t.Errorf("dailyEvents = %d, want notification", dailyEvents)
	}

	count, err = s.ForceWeeklyReset(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("force weekly = (%d, %v)", count, err)
	}
	if tasks.lastWeekday != 3 {
		t.Errorf("forced weekly used weekday %d, want configured 3", tasks.lastWeekday)
	}

	// the automatic pass now sees both watermarks as current
	s.now = func() time.Time { return monday.Add(7 * time.Hour) }
	s.Evaluate(context.Background())
	if tasks.dailyCalls != 1 {
		t.Errorf("dailyCalls = %d, forced watermark should gate the automatic pass", tasks.dailyCalls)
	}
}

func TestStatusProjectsNextResets(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	settings := &fakeSettings{enabled: true, dailyTime: "06:00", weekday: 2}
	now := monday.Add(10 * time.Hour) // past 06:00
	s := newTestService(t, tasks, settings, now)

	status := s.Status()
	if status.Running {
		t.Error("not started yet")
	}
	if status.NextDailyReset == nil {
		t.Fatal("NextDailyReset missing")
	}
	wantDaily := monday.AddDate(0, 0, 1).Add(6 * time.Hour)
	if !status.NextDailyReset.Equal(wantDaily) {
		t.Errorf("NextDailyReset = %v, want %v", status.NextDailyReset, wantDaily)
	}

	if status.NextWeeklyReset == nil {
		t.Fatal("NextWeeklyReset missing")
	}
	wantWeekly := monday.AddDate(0, 0, 2) // Wednesday midnight
	if !status.NextWeeklyReset.Equal(wantWeekly) {
		t.Errorf("NextWeeklyReset = %v, want %v", status.NextWeeklyReset, wantWeekly)
	}
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	tasks := newFakeTasks()
	settings := &fakeSettings{enabled: false, dailyTime: "06:00", weekday: 0}
	s := New(tasks, settings, events.NewBus(), nil)

	s.Start()
	if !s.Status().Running {
		t.Error("Running = false after Start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	if s.Status().Running {
		t.Error("Running = true after Stop")
	}
}
