package transport

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/internal/infrastructure/monitor"
)

func TestDecodeTask(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		task, err := DecodeTask([]byte(`{"id":9,"title":"Write spec","status":"In Progress","assignedTo":{"id":3,"firstName":"x"}}`))
		require.NoError(t, err)
		assert.Zero(t, task.ID)
		assert.Equal(t, "Write spec", task.Title)
		assert.Equal(t, domain.StatusInProgress, task.Status)
		assert.Equal(t, &domain.User{ID: 3}, task.AssignedTo)
	})

	t.Run("status may be omitted", func(t *testing.T) {
		task, err := DecodeTask([]byte(`{"title":"Write spec"}`))
		require.NoError(t, err)
		assert.Empty(t, task.Status)
		assert.Nil(t, task.AssignedTo)
	})

	t.Run("status may be null", func(t *testing.T) {
		task, err := DecodeTask([]byte(`{"title":"Write spec","status":null}`))
		require.NoError(t, err)
		assert.Empty(t, task.Status)
	})

	cases := map[string]struct {
		body string
		msg  string
	}{
		"missing title":       {`{"status":"Pending"}`, MsgTitleMandatory},
		"blank title":         {`{"title":"   "}`, MsgTitleMandatory},
		"unknown status":      {`{"title":"x","status":"Done"}`, MsgStatusInvalid},
		"title checked first": {`{"title":"","status":"Done"}`, MsgTitleMandatory},
		"empty status":        {`{"title":"x","status":""}`, MsgStatusInvalid},
		"lowercase status":    {`{"title":"x","status":"pending"}`, MsgStatusInvalid},
		"malformed":           {`{"title":`, MsgMalformedBody},
		"wrong type":          {`{"title":5}`, MsgMalformedBody},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTask([]byte(tc.body))
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
			assert.Equal(t, tc.msg, domain.Message(err))
		})
	}
}

func TestDecodeUser(t *testing.T) {
	user, err := DecodeUser([]byte(`{"firstName":"Ada","lastName":"Lovelace","timezone":"Europe/London","isActive":false}`))
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	require.NotNil(t, user.IsActive)
	assert.False(t, *user.IsActive)

	cases := map[string]struct {
		body string
		msg  string
	}{
		"missing first name": {`{"lastName":"L","timezone":"UTC"}`, MsgFirstNameRequired},
		"missing last name":  {`{"firstName":"F","timezone":"UTC"}`, MsgLastNameRequired},
		"missing timezone":   {`{"firstName":"F","lastName":"L"}`, MsgTimezoneRequired},
		"invalid timezone":   {`{"firstName":"F","lastName":"L","timezone":"Mars/Olympus"}`, MsgTimezoneInvalid},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeUser([]byte(tc.body))
			require.Error(t, err)
			assert.Equal(t, tc.msg, domain.Message(err))
		})
	}
}

func TestParseZone(t *testing.T) {
	loc, err := ParseZone("")
	require.NoError(t, err)
	assert.Nil(t, loc)

	loc, err = ParseZone("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())

	_, err = ParseZone("Nowhere/Special")
	require.Error(t, err)
	assert.Equal(t, MsgTimezoneInvalid, domain.Message(err))
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.Invalid("Title is mandatory"), 400},
		{domain.TaskNotFound(1), 404},
		{fmt.Errorf("loading: %w", domain.ErrUserNotFound), 404},
		{domain.ErrUnauthorized, 401},
		{domain.ErrTooManyRequests, 429},
		{errors.New("connection refused"), 500},
		{domain.WrapError(domain.ErrCodeInternal, "store unavailable", errors.New("boom")), 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusCode(tc.err), tc.err.Error())
	}
}

func TestWriteErrorHidesInternalErrors(t *testing.T) {
	ctx := &fasthttp.RequestCtx{}
	ctx.SetBodyString("partial")

	status := WriteError(ctx, errors.New("pq: relation does not exist"))
	assert.Equal(t, fasthttp.StatusInternalServerError, status)
	assert.Equal(t, MsgInternal, string(ctx.Response.Body()))

	ctx = &fasthttp.RequestCtx{}
	WriteError(ctx, domain.UserNotFound(3))
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	assert.Equal(t, "User not found with id: 3", string(ctx.Response.Body()))
	assert.Equal(t, "text/plain; charset=utf-8", string(ctx.Response.Header.ContentType()))
}

func TestNewHealthReport(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	report := NewHealthReport("bolt", monitor.Status{}, now)
	assert.Equal(t, "bolt", report.Driver)
	assert.NotNil(t, report.Services)
	assert.Equal(t, time.UTC, report.Timestamp.Location())
}
