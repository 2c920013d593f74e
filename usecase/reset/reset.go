// Package reset runs the scheduled completion resets. Evaluation happens
// once immediately at start and then on a fixed hourly cadence; persisted
// watermarks make re-evaluation idempotent across process restarts.
package reset

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/internal/events"
)

const (
	stateKeyLastDailyReset  = "last_daily_reset"
	stateKeyLastWeeklyReset = "last_weekly_reset"

	checkInterval = time.Hour
)

// TaskService is the slice of the task façade the scheduler drives.
type TaskService interface {
	PerformDailyReset(ctx context.Context) (int, error)
	PerformWeeklyReset(ctx context.Context, weekday int) (int, error)
	AppState(ctx context.Context, key string) (string, error)
	SetAppState(ctx context.Context, key, value string) error
}

// Settings supplies scheduling configuration. It is consulted on every
// evaluation pass so live edits take effect within one polling cycle.
type Settings interface {
	AutoResetEnabled() bool
	DailyResetTime() string
	WeeklyResetDay() int
}

// Status is a snapshot of the scheduler state.
type Status struct {
	Running             bool       `json:"running"`
	LastDailyReset      *time.Time `json:"last_daily_reset,omitempty"`
	LastWeeklyResetWeek *int       `json:"last_weekly_reset_week,omitempty"`
	NextDailyReset      *time.Time `json:"next_daily_reset,omitempty"`
	NextWeeklyReset     *time.Time `json:"next_weekly_reset,omitempty"`
}

// Service evaluates the daily and weekly reset windows on a background
// schedule and keeps the persisted watermarks consistent with every reset,
// automatic or forced.
type Service struct {
	tasks    TaskService
	settings Settings
	bus      *events.Bus
	logger   *zap.Logger
	cron     *cron.Cron
	now      func() time.Time

	mu        sync.Mutex
	running   bool
	lastDaily *time.Time // watermark cache, mirrored in app_state
	lastWeek  *int
}

// New builds the service and loads the persisted watermarks. A watermark
// load failure means "no prior reset recorded" rather than a failed start.
func New(tasks TaskService, settings Settings, bus *events.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		tasks:    tasks,
		settings: settings,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
	s.cron = cron.New()
	_, _ = s.cron.AddFunc(fmt.Sprintf("@every %s", checkInterval), func() {
		s.Evaluate(context.Background())
	})
	s.loadWatermarks()
	return s
}

// Start spawns the background schedule and runs one immediate evaluation.
func (s *Service) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("reset service already running")
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.Evaluate(context.Background())
	s.cron.Start()

	s.logger.Info("reset service started")
	s.bus.Publish(events.TopicResetServiceStarted, nil)
}

// Stop signals cancellation and waits up to the context deadline for the
// schedule to drain.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		s.logger.Warn("reset service stop timed out")
	}

	s.logger.Info("reset service stopped")
	s.bus.Publish(events.TopicResetServiceStopped, nil)
}

// Evaluate runs one pass of the daily and weekly checks. Both checks are
// independent and may fire in the same pass. Any error is logged and the
// schedule continues.
func (s *Service) Evaluate(ctx context.Context) {
	if !s.settings.AutoResetEnabled() {
		return
	}
	now := s.now()
	s.checkDaily(ctx, now)
	s.checkWeekly(ctx, now)
}

func (s *Service) checkDaily(ctx context.Context, now time.Time) {
	instant, err := domain.ResetInstant(now, s.settings.DailyResetTime())
	if err != nil {
		// malformed config inside the loop is a skipped check, never a crash
		s.logger.Error("daily reset time unparseable", zap.Error(err))
		return
	}

	s.mu.Lock()
	lastDaily := s.lastDaily
	s.mu.Unlock()

	due := !now.Before(instant) &&
		(lastDaily == nil || beforeDay(*lastDaily, now))
	if !due {
		return
	}

	count, err := s.tasks.PerformDailyReset(ctx)
	if err != nil {
		s.logger.Error("scheduled daily reset failed", zap.Error(err))
		return
	}
	if count == 0 {
		return
	}

	s.mu.Lock()
	s.lastDaily = &now
	s.mu.Unlock()
	s.saveWatermarks()

	s.logger.Info("automatic daily reset", zap.Int("count", count))
	s.bus.Publish(events.TopicDailyResetPerformed, count)
}

func (s *Service) checkWeekly(ctx context.Context, now time.Time) {
	resetWeekday := s.settings.WeeklyResetDay()
	currentWeekday := domain.WeekdayOf(now)
	_, currentWeek := now.ISOWeek()

	s.mu.Lock()
	lastWeek := s.lastWeek
	s.mu.Unlock()

	due := currentWeekday == resetWeekday &&
		(lastWeek == nil || *lastWeek < currentWeek)
	if !due {
		return
	}

	count, err := s.tasks.PerformWeeklyReset(ctx, resetWeekday)
	if err != nil {
		s.logger.Error("scheduled weekly reset failed", zap.Error(err))
		return
	}
	if count == 0 {
		return
	}

	s.mu.Lock()
	s.lastWeek = &currentWeek
	s.mu.Unlock()
	s.saveWatermarks()

	s.logger.Info("automatic weekly reset", zap.Int("weekday", resetWeekday), zap.Int("count", count))
	s.bus.Publish(events.TopicWeeklyResetPerformed, count)
}

// ForceDailyReset bypasses the time gating but keeps the watermark and
// notifications consistent with the automatic path.
func (s *Service) ForceDailyReset(ctx context.Context) (int, error) {
	count, err := s.tasks.PerformDailyReset(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		now := s.now()
		s.mu.Lock()
		s.lastDaily = &now
		s.mu.Unlock()
		s.saveWatermarks()
		s.bus.Publish(events.TopicDailyResetPerformed, count)
	}
	return count, nil
}

// ForceWeeklyReset resets the configured weekday regardless of the calendar.
func (s *Service) ForceWeeklyReset(ctx context.Context) (int, error) {
	count, err := s.tasks.PerformWeeklyReset(ctx, s.settings.WeeklyResetDay())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		_, week := s.now().ISOWeek()
		s.mu.Lock()
		s.lastWeek = &week
		s.mu.Unlock()
		s.saveWatermarks()
		s.bus.Publish(events.TopicWeeklyResetPerformed, count)
	}
	return count, nil
}

// Status reports the scheduler state including the computed next windows.
func (s *Service) Status() Status {
	s.mu.Lock()
	status := Status{
		Running:             s.running,
		LastDailyReset:      s.lastDaily,
		LastWeeklyResetWeek: s.lastWeek,
	}
	lastWeek := s.lastWeek
	s.mu.Unlock()

	now := s.now()
	if instant, err := domain.ResetInstant(now, s.settings.DailyResetTime()); err == nil {
		if !now.Before(instant) {
			instant = instant.AddDate(0, 0, 1)
		}
		status.NextDailyReset = &instant
	}

	resetWeekday := s.settings.WeeklyResetDay()
	if domain.ValidWeekday(resetWeekday) {
		daysUntil := (resetWeekday - domain.WeekdayOf(now) + 7) % 7
		_, currentWeek := now.ISOWeek()
		// today can still be due unless the watermark says this week is done
		if daysUntil == 0 && lastWeek != nil && *lastWeek == currentWeek {
			daysUntil = 7
		}
		next := now.AddDate(0, 0, daysUntil)
		next = time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, next.Location())
		status.NextWeeklyReset = &next
	}

	return status
}

func (s *Service) loadWatermarks() {
	ctx := context.Background()

	if value, err := s.tasks.AppState(ctx, stateKeyLastDailyReset); err != nil {
		s.logger.Error("loading daily watermark failed", zap.Error(err))
	} else if value != "" {
		if t, perr := time.Parse(time.RFC3339, value); perr == nil {
			s.mu.Lock()
			s.lastDaily = &t
			s.mu.Unlock()
		} else {
			s.logger.Error("daily watermark unparseable", zap.String("value", value))
		}
	}

	if value, err := s.tasks.AppState(ctx, stateKeyLastWeeklyReset); err != nil {
		s.logger.Error("loading weekly watermark failed", zap.Error(err))
	} else if value != "" {
		if week, perr := strconv.Atoi(value); perr == nil {
			s.mu.Lock()
			s.lastWeek = &week
			s.mu.Unlock()
		} else {
			s.logger.Error("weekly watermark unparseable", zap.String("value", value))
		}
	}
}

func (s *Service) saveWatermarks() {
	ctx := context.Background()

	s.mu.Lock()
	lastDaily := s.lastDaily
	lastWeek := s.lastWeek
	s.mu.Unlock()

	if lastDaily != nil {
		if err := s.tasks.SetAppState(ctx, stateKeyLastDailyReset, lastDaily.Format(time.RFC3339)); err != nil {
			s.logger.Error("persisting daily watermark failed", zap.Error(err))
		}
	}
	if lastWeek != nil {
		if err := s.tasks.SetAppState(ctx, stateKeyLastWeeklyReset, strconv.Itoa(*lastWeek)); err != nil {
			s.logger.Error("persisting weekly watermark failed", zap.Error(err))
		}
	}
}

// beforeDay reports whether a falls on a calendar day strictly before b.
func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
