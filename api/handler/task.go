package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskmanager/api/transport"
	"github.com/fastygo/taskmanager/pkg/httpcontext"
	taskUC "github.com/fastygo/taskmanager/usecase/task"
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
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Get task
// @Tags tasks
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := pathID(ctx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	task, err := h.uc.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Param timezone query string false "IANA zone used for logging, ignored when unknown"
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := transport.DecodeTask(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	created, err := h.uc.CreateTask(stdCtx, task, h.zone(ctx, stdCtx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Param timezone query string false "IANA zone used for logging, ignored when unknown"
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := pathID(ctx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	details, err := transport.DecodeTask(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	updated, err := h.uc.UpdateTask(stdCtx, id, details, h.zone(ctx, stdCtx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := pathID(ctx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondNoContent(ctx)
}
