package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskmanager/api/transport"
	"github.com/fastygo/taskmanager/internal/infrastructure/monitor"
	"github.com/fastygo/taskmanager/pkg/httpcontext"
)

// StatusReporter exposes the cached dependency state.
type StatusReporter interface {
	Status() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusReporter
	driver  string
}

func NewHealthHandler(mon StatusReporter, driver string, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		driver:      driver,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.Status()
	report := transport.NewHealthReport(h.driver, status, time.Now())

	if status.Healthy() {
		h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(report))
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", report))
}
