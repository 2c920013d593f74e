package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhub/backend/api/transport"
	"github.com/taskhub/backend/domain"
	"github.com/taskhub/backend/pkg/httpcontext"
	"github.com/taskhub/backend/repository"
	taskUC "github.com/taskhub/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	section := string(ctx.QueryArgs().Peek("section"))
	tag := string(ctx.QueryArgs().Peek("tag"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, section, tag)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Search tasks
// @Tags tasks
// @Router /api/v1/tasks/search [get]
func (h *TaskHandler) SearchTasks(ctx *fasthttp.RequestCtx) {
	keyword := string(ctx.QueryArgs().Peek("q"))
	mode := string(ctx.QueryArgs().Peek("mode"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.SearchTasks(stdCtx, keyword, mode)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}
	includeDeleted := ctx.QueryArgs().GetBool("include_deleted")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, id, includeDeleted)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.uc.AddTask(stdCtx, taskUC.CreateTaskInput{
		Title:        req.Title,
		Section:      req.Section,
		Description:  req.Description,
		Requirements: req.Requirements,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ResetWeekday: req.ResetWeekday,
		ResetTime:    req.ResetTime,
		SortOrder:    req.SortOrder,
		Tags:         req.Tags,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]int64{"id": id})
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.UpdateTaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	fields := repository.UpdateFields{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Priority:     req.Priority,
		IsCompleted:  req.IsCompleted,
		DueDate:      req.DueDate,
		ResetWeekday: req.ResetWeekday,
		ResetTime:    req.ResetTime,
		SortOrder:    req.SortOrder,
		Tags:         req.Tags,
	}
	if req.Section != nil {
		section := domain.SectionFromString(*req.Section)
		fields.Section = &section
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.UpdateTask(stdCtx, id, fields); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Move task to recycle bin
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	h.touch(ctx, h.uc.DeleteTask)
}

// @Summary Restore task from recycle bin
// @Tags tasks
// @Router /api/v1/tasks/{id}/restore [post]
func (h *TaskHandler) RestoreTask(ctx *fasthttp.RequestCtx) {
	h.touch(ctx, h.uc.RestoreTask)
}

// @Summary Permanently delete task
// @Tags tasks
// @Router /api/v1/tasks/{id}/permanent [delete]
func (h *TaskHandler) PermanentDeleteTask(ctx *fasthttp.RequestCtx) {
	h.touch(ctx, h.uc.PermanentDeleteTask)
}

// @Summary Mark task completed
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	h.touch(ctx, h.uc.CompleteTask)
}

// @Summary Mark task not completed
// @Tags tasks
// @Router /api/v1/tasks/{id}/uncomplete [post]
func (h *TaskHandler) UncompleteTask(ctx *fasthttp.RequestCtx) {
	h.touch(ctx, h.uc.UncompleteTask)
}

// @Summary Section statistics
// @Tags tasks
// @Router /api/v1/stats [get]
func (h *TaskHandler) Stats(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.Stats(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// @Summary List deleted tasks
// @Tags recycle-bin
// @Router /api/v1/recycle-bin [get]
func (h *TaskHandler) ListDeleted(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.DeletedTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Empty the recycle bin, optionally only entries older than N days
// @Tags recycle-bin
// @Router /api/v1/recycle-bin [delete]
func (h *TaskHandler) PurgeDeleted(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var (
		count int
		err   error
	)
	if raw := string(ctx.QueryArgs().Peek("older_than_days")); raw != "" {
		days, convErr := strconv.Atoi(raw)
		if convErr != nil || days < 1 {
			h.respondInvalid(ctx, "older_than_days must be a positive integer")
			return
		}
		count, err = h.uc.DeleteOlderThan(stdCtx, days)
	} else {
		count, err = h.uc.EmptyRecycleBin(stdCtx)
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"deleted": count})
}

func (h *TaskHandler) touch(ctx *fasthttp.RequestCtx, op func(context.Context, int64) error) {
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := op(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondError(ctx, domain.ErrInvalidTaskID)
		return 0, false
	}
	return id, true
}
