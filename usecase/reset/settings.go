package reset

import (
	"context"

	"github.com/taskhub/backend/internal/config"
)

// stateReader is the app_state slice used to pick up live overrides.
type stateReader interface {
	AppState(ctx context.Context, key string) (string, error)
}

// StoreSettings layers the runtime daily-reset-time override from the
// store's app_state table over the configured defaults, so edits made while
// the service runs take effect on the next pass.
type StoreSettings struct {
	defaults config.TaskConfig
	state    stateReader
}

func NewStoreSettings(defaults config.TaskConfig, state stateReader) *StoreSettings {
	return &StoreSettings{defaults: defaults, state: state}
}

func (s *StoreSettings) AutoResetEnabled() bool {
	return s.defaults.AutoResetEnabled
}

func (s *StoreSettings) DailyResetTime() string {
	if s.state != nil {
		if value, err := s.state.AppState(context.Background(), "daily_reset_time"); err == nil && value != "" {
			return value
		}
	}
	return s.defaults.DailyResetTime
}

func (s *StoreSettings) WeeklyResetDay() int {
	return s.defaults.WeeklyResetDay
}
