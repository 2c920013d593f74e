package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhub/backend/api/transport"
	"github.com/taskhub/backend/pkg/httpcontext"
	taskUC "github.com/taskhub/backend/usecase/task"
)

type StateHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewStateHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StateHandler {
	return &StateHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Read an application state entry
// @Tags state
// @Router /api/v1/state/{key} [get]
func (h *StateHandler) GetState(ctx *fasthttp.RequestCtx) {
	key, _ := ctx.UserValue("key").(string)
	if key == "" {
		h.respondInvalid(ctx, "missing state key")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	value, err := h.uc.AppState(stdCtx, key)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"key": key, "value": value})
}

// @Summary Write an application state entry
// @Tags state
// @Router /api/v1/state/{key} [put]
func (h *StateHandler) SetState(ctx *fasthttp.RequestCtx) {
	key, _ := ctx.UserValue("key").(string)
	if key == "" {
		h.respondInvalid(ctx, "missing state key")
		return
	}

	var req transport.AppStateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SetAppState(stdCtx, key, req.Value); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}
