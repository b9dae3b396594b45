package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
)

const (
	corsAllowHeaders = "Origin, Content-Type, Accept, Authorization, X-Request-ID"
	corsAllowMethods = "GET,POST,PUT,DELETE,OPTIONS"
)

// CORS allows browser calls from origins. A "*" entry allows any origin.
// Preflight requests are answered here and never reach the router.
func CORS(origins []string) Middleware {
	allowed := make(map[string]struct{}, len(origins))
	wildcard := false
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			wildcard = true
		}
		allowed[o] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek(fasthttp.HeaderOrigin))
			_, ok := allowed[origin]
			if origin != "" && (ok || wildcard) {
				h := &ctx.Response.Header
				h.Set(fasthttp.HeaderAccessControlAllowOrigin, origin)
				h.Set(fasthttp.HeaderAccessControlAllowMethods, corsAllowMethods)
				h.Set(fasthttp.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				h.Set(fasthttp.HeaderAccessControlExposeHeaders, "X-Request-ID")
				h.Add(fasthttp.HeaderVary, fasthttp.HeaderOrigin)
			}

			if ctx.IsOptions() && len(ctx.Request.Header.Peek(fasthttp.HeaderAccessControlRequestMethod)) > 0 {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}
