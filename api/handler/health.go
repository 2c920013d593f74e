package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhub/backend/api/transport"
	"github.com/taskhub/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	db *sql.DB
}

func NewHealthHandler(db *sql.DB, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		db:          db,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
	}

	if err := h.db.PingContext(stdCtx); err != nil {
		payload["store"] = "down"
		h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "store unreachable", payload))
		return
	}
	payload["store"] = "ok"
	h.respondSuccess(ctx, http.StatusOK, payload)
}
