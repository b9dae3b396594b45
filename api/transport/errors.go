package transport

import (
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskmanager/domain"
)

// MsgInternal hides errors that carry no client-facing code.
const MsgInternal = "internal server error"

// StatusCode maps the code of err to an HTTP status. Uncoded errors are 500.
func StatusCode(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError replaces the response with err as a plain-text body and returns
// the status written.
func WriteError(ctx *fasthttp.RequestCtx, err error) int {
	status := StatusCode(err)
	msg := domain.Message(err)
	if status == http.StatusInternalServerError {
		msg = MsgInternal
	}

	ctx.ResetBody()
	ctx.SetStatusCode(status)
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString(msg)
	return status
}
