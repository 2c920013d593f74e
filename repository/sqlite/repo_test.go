package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/internal/config"
	sqliteInfra "github.com/taskhub/backend/internal/infrastructure/sqlite"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := sqliteInfra.Open(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqliteInfra.RunMigrations(db, nil); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return New(db)
}

func mustAdd(t *testing.T, repo *Repository, task *domain.Task) int64 {
	t.Helper()
	id, err := repo.Add(context.Background(), task)
	if err != nil {
		t.Fatalf("add task %q: %v", task.Title, err)
	}
	return id
}

func mustGet(t *testing.T, repo *Repository, id int64, includeDeleted bool) *domain.Task {
	t.Helper()
	task, err := repo.Get(context.Background(), id, includeDeleted)
	if err != nil {
		t.Fatalf("get task %d: %v", id, err)
	}
	return task
}
