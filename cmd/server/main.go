package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskhub/backend/api/handler"
	"github.com/taskhub/backend/internal/config"
	"github.com/taskhub/backend/internal/events"
	sqliteInfra "github.com/taskhub/backend/internal/infrastructure/sqlite"
	"github.com/taskhub/backend/internal/router"
	"github.com/taskhub/backend/internal/services/lifecycle"
	"github.com/taskhub/backend/pkg/httpcontext"
	"github.com/taskhub/backend/pkg/logger"
	sqliteRepo "github.com/taskhub/backend/repository/sqlite"
	resetUC "github.com/taskhub/backend/usecase/reset"
	taskUC "github.com/taskhub/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	db, err := sqliteInfra.Open(cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("sqlite open failed", zap.Error(err))
	}
	manager.Register("sqlite", func(ctx context.Context) error {
		sqliteInfra.Close(db, zapLogger)
		return nil
	})

	if cfg.Migrations.Enabled {
		if err := sqliteInfra.RunMigrations(db, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
	}

	repo := sqliteRepo.New(db)
	bus := events.NewBus()

	taskService := taskUC.New(repo, bus, cfg.Task.RecycleBinCapacity, zapLogger)

	settings := resetUC.NewStoreSettings(cfg.Task, taskService)
	resetService := resetUC.New(taskService, settings, bus, zapLogger)
	resetService.Start()
	manager.Register("reset_scheduler", func(ctx context.Context) error {
		resetService.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskService, ctxAdapter, zapLogger),
		Tag:    apiHandler.NewTagHandler(taskService, ctxAdapter, zapLogger),
		Reset:  apiHandler.NewResetHandler(resetService, taskService, ctxAdapter, zapLogger),
		State:  apiHandler.NewStateHandler(taskService, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(db, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
