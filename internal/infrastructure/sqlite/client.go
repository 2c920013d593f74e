package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO required

	"github.com/taskhub/backend/internal/config"
)

// Open creates (or opens) the SQLite database at the configured path and
// validates the connection.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// The store has single-writer semantics; one connection keeps every
	// logical operation on the same transaction boundary.
	db.SetMaxOpenConns(1)

	pragmas := fmt.Sprintf(
		"PRAGMA foreign_keys = ON; PRAGMA busy_timeout = %d;",
		cfg.BusyTimeout.Milliseconds(),
	)
	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	logger.Info("connected to sqlite", zap.String("path", cfg.Path))
	return db, nil
}

// Close releases the database handle and logs the result.
func Close(db *sql.DB, logger *zap.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil && logger != nil {
		logger.Error("closing sqlite failed", zap.Error(err))
		return
	}
	if logger != nil {
		logger.Info("sqlite closed")
	}
}
