package middleware

import (
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskmanager/api/transport"
)

// Middleware wraps a handler with cross-cutting behaviour.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Chain applies mws so that the first one is the outermost.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

func abort(ctx *fasthttp.RequestCtx, err error) {
	transport.WriteError(ctx, err)
}
