package httpcontext

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/taskmanager/pkg/logger"
)

func TestAttachPropagatesRequestID(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set(HeaderRequestID, "abc-123")
	ctx.Request.Header.SetUserAgent("test-agent")

	stdCtx, cancel := NewAdapter(time.Second).Attach(&ctx)
	defer cancel()

	assert.Equal(t, "abc-123", appLogger.RequestID(stdCtx))
	assert.Equal(t, "abc-123", string(ctx.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, "test-agent", stdCtx.Value(KeyUserAgent))

	deadline, ok := stdCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
}

func TestRequestIDGeneratedOnce(t *testing.T) {
	var ctx fasthttp.RequestCtx

	first := RequestID(&ctx)
	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, first, RequestID(&ctx))
	assert.Equal(t, first, string(ctx.Response.Header.Peek(HeaderRequestID)))
}
