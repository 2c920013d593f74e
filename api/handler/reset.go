package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhub/backend/api/transport"
	"github.com/taskhub/backend/pkg/httpcontext"
	resetUC "github.com/taskhub/backend/usecase/reset"
	taskUC "github.com/taskhub/backend/usecase/task"
)

type ResetHandler struct {
	baseHandler
	service *resetUC.Service
	tasks   *taskUC.UseCase
}

func NewResetHandler(service *resetUC.Service, tasks *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ResetHandler {
	return &ResetHandler{
		baseHandler: newBaseHandler(adapter, logger),
		service:     service,
		tasks:       tasks,
	}
}

// @Summary Scheduler status with next reset projections
// @Tags reset
// @Router /api/v1/reset/status [get]
func (h *ResetHandler) Status(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.service.Status())
}

// @Summary Force a daily reset now
// @Tags reset
// @Router /api/v1/reset/daily [post]
func (h *ResetHandler) ForceDaily(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.service.ForceDailyReset(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"reset": count})
}

// @Summary Force a weekly reset now
// @Tags reset
// @Router /api/v1/reset/weekly [post]
func (h *ResetHandler) ForceWeekly(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	count, err := h.service.ForceWeeklyReset(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"reset": count})
}

// @Summary Current global daily reset time
// @Tags reset
// @Router /api/v1/reset/time [get]
func (h *ResetHandler) GetResetTime(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusOK, map[string]string{"value": h.tasks.GlobalDailyResetTime(stdCtx)})
}

// @Summary Set global daily reset time
// @Tags reset
// @Router /api/v1/reset/time [put]
func (h *ResetHandler) SetResetTime(ctx *fasthttp.RequestCtx) {
	var req transport.ResetTimeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.tasks.SetGlobalDailyResetTime(stdCtx, req.Value); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}
