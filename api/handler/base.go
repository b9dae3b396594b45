package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskmanager/api/transport"
	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/pkg/httpcontext"
	appLogger "github.com/fastygo/taskmanager/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("response encoding failed", zap.Error(err))
		transport.WriteError(ctx, err)
		return
	}
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
	ctx.ResetBody()
}

// respondError writes err as plain text. Errors without a client-facing code
// are logged and hidden behind a generic 500.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	if transport.WriteError(ctx, err) == http.StatusInternalServerError {
		appLogger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
	}
}

// zone resolves the timezone hint. An unknown zone is logged and ignored.
func (h baseHandler) zone(ctx *fasthttp.RequestCtx, stdCtx context.Context) *time.Location {
	raw := string(ctx.QueryArgs().Peek("timezone"))
	loc, err := transport.ParseZone(raw)
	if err != nil {
		appLogger.WithRequestID(stdCtx, h.logger).Warn("ignoring unknown timezone", zap.String("timezone", raw))
		return nil
	}
	return loc
}

func pathID(ctx *fasthttp.RequestCtx) (int64, error) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid(fmt.Sprintf("Invalid id: %s", raw))
	}
	return id, nil
}
