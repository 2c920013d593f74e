package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/taskhub/backend/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Tag    *apiHandler.TagHandler
	Reset  *apiHandler.ResetHandler
	State  *apiHandler.StateHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Tasks
	r.GET("/api/v1/tasks", handlers.Task.ListTasks)
	r.POST("/api/v1/tasks", handlers.Task.CreateTask)
	r.GET("/api/v1/tasks/search", handlers.Task.SearchTasks)
	r.GET("/api/v1/tasks/{id}", handlers.Task.GetTask)
	r.PATCH("/api/v1/tasks/{id}", handlers.Task.UpdateTask)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)
	r.POST("/api/v1/tasks/{id}/complete", handlers.Task.CompleteTask)
	r.POST("/api/v1/tasks/{id}/uncomplete", handlers.Task.UncompleteTask)
	r.POST("/api/v1/tasks/{id}/restore", handlers.Task.RestoreTask)
	r.DELETE("/api/v1/tasks/{id}/permanent", handlers.Task.PermanentDeleteTask)
	r.GET("/api/v1/stats", handlers.Task.Stats)

	// Recycle bin
	r.GET("/api/v1/recycle-bin", handlers.Task.ListDeleted)
	r.DELETE("/api/v1/recycle-bin", handlers.Task.PurgeDeleted)

	// Tags
	r.GET("/api/v1/tags", handlers.Tag.ListTags)
	r.POST("/api/v1/tags/merge", handlers.Tag.MergeTags)
	r.POST("/api/v1/tags/cleanup", handlers.Tag.CleanupTags)
	r.PUT("/api/v1/tags/{id}", handlers.Tag.RenameTag)
	r.DELETE("/api/v1/tags/{id}", handlers.Tag.DeleteTag)

	// Reset scheduler
	r.GET("/api/v1/reset/status", handlers.Reset.Status)
	r.POST("/api/v1/reset/daily", handlers.Reset.ForceDaily)
	r.POST("/api/v1/reset/weekly", handlers.Reset.ForceWeekly)
	r.GET("/api/v1/reset/time", handlers.Reset.GetResetTime)
	r.PUT("/api/v1/reset/time", handlers.Reset.SetResetTime)

	// Application state
	r.GET("/api/v1/state/{key}", handlers.State.GetState)
	r.PUT("/api/v1/state/{key}", handlers.State.SetState)

	return r
}
