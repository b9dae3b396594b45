package handler_test

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	apiHandler "github.com/fastygo/taskmanager/api/handler"
	"github.com/fastygo/taskmanager/domain"
	"github.com/fastygo/taskmanager/internal/config"
	"github.com/fastygo/taskmanager/internal/infrastructure/monitor"
	sqliteInfra "github.com/fastygo/taskmanager/internal/infrastructure/sqlite"
	"github.com/fastygo/taskmanager/internal/middleware"
	"github.com/fastygo/taskmanager/internal/router"
	"github.com/fastygo/taskmanager/pkg/httpcontext"
	"github.com/fastygo/taskmanager/repository/orm"
	taskUC "github.com/fastygo/taskmanager/usecase/task"
	userUC "github.com/fastygo/taskmanager/usecase/user"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)

type staticStatus monitor.Status

func (s staticStatus) Status() monitor.Status { return monitor.Status(s) }

type harness struct {
	handler fasthttp.RequestHandler
	db      *gorm.DB
}

func newHarness(t *testing.T, status monitor.Status, guard middleware.Middleware) *harness {
	t.Helper()

	db, err := sqliteInfra.Open(config.DatabaseConfig{SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteInfra.Close(db) })

	tasks := orm.NewTaskRepository(db)
	users := orm.NewUserRepository(db)
	adapter := httpcontext.NewAdapter(time.Second)

	r := router.New(router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUC.New(tasks, users, nil, taskUC.WithClock(func() time.Time { return fixedNow })), adapter, nil),
		User:   apiHandler.NewUserHandler(userUC.New(users, nil), adapter, nil),
		Health: apiHandler.NewHealthHandler(staticStatus(status), config.DriverSQLite, adapter, nil),
	}, guard)

	return &harness{handler: router.Handler(r, middleware.AccessLog(nil)), db: db}
}

func (h *harness) do(t *testing.T, method, uri, body string) *fasthttp.Response {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5000}, nil)
	h.handler(ctx)

	resp := &fasthttp.Response{}
	ctx.Response.CopyTo(resp)
	return resp
}

func decode[T any](t *testing.T, resp *fasthttp.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body(), &out), string(resp.Body()))
	return out
}

func TestTaskLifecycle(t *testing.T) {
	h := newHarness(t, monitor.Status{}, nil)

	resp := h.do(t, fasthttp.MethodPost, "/tasks", `{"title":"Write spec","status":"Pending"}`)
	require.Equal(t, fasthttp.StatusCreated, resp.StatusCode(), string(resp.Body()))
	assert.Equal(t, "application/json", string(resp.Header.ContentType()))
	created := decode[domain.Task](t, resp)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Write spec", created.Title)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))
	assert.True(t, created.CreatedAt.Equal(fixedNow.Truncate(time.Microsecond)))
	assert.Nil(t, created.AssignedTo)

	resp = h.do(t, fasthttp.MethodGet, "/tasks/1", "")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	fetched := decode[domain.Task](t, resp)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Title, fetched.Title)
	assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))

	resp = h.do(t, fasthttp.MethodPut, "/tasks/1", `{"title":"Write final spec","status":"Completed"}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))
	updated := decode[domain.Task](t, resp)
	assert.Equal(t, "Write final spec", updated.Title)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	resp = h.do(t, fasthttp.MethodDelete, "/tasks/1", "")
	assert.Equal(t, fasthttp.StatusNoContent, resp.StatusCode())
	assert.Empty(t, resp.Body())

	resp = h.do(t, fasthttp.MethodGet, "/tasks/1", "")
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "Task not found with id: 1", string(resp.Body()))

	resp = h.do(t, fasthttp.MethodDelete, "/tasks/1", "")
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())
}

func TestTaskValidation(t *testing.T) {
	h := newHarness(t, monitor.Status{}, nil)

	cases := []struct {
		name   string
		method string
		uri    string
		body   string
		status int
		msg    string
	}{
		{"missing title", fasthttp.MethodPost, "/tasks", `{"status":"Pending"}`, 400, "Title is mandatory"},
		{"bad status", fasthttp.MethodPost, "/tasks", `{"title":"x","status":"Done"}`, 400, "Status must be 'Pending', 'In Progress', or 'Completed'"},
		{"malformed body", fasthttp.MethodPost, "/tasks", `{"title":`, 400, "Malformed JSON request"},
		{"empty status", fasthttp.MethodPost, "/tasks", `{"title":"x","status":""}`, 400, "Status must be 'Pending', 'In Progress', or 'Completed'"},
		{"bad id", fasthttp.MethodGet, "/tasks/abc", "", 400, "Invalid id: abc"},
		{"update missing", fasthttp.MethodPut, "/tasks/7", `{"title":"x"}`, 404, "Task not found with id: 7"},
		{"unknown assignee", fasthttp.MethodPost, "/tasks", `{"title":"x","assignedTo":{"id":99}}`, 404, "User not found with id: 99"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := h.do(t, tc.method, tc.uri, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode())
			assert.Equal(t, tc.msg, string(resp.Body()))
			assert.Contains(t, string(resp.Header.ContentType()), "text/plain")
		})
	}

	resp := h.do(t, fasthttp.MethodGet, "/tasks", "")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Empty(t, decode[[]domain.Task](t, resp), "rejected writes must not persist")
}

func TestTaskTimezoneHint(t *testing.T) {
	h := newHarness(t, monitor.Status{}, nil)

	for _, uri := range []string{"/tasks?timezone=Europe/Paris", "/tasks?timezone=Nowhere/Special", "/tasks?timezone="} {
		resp := h.do(t, fasthttp.MethodPost, uri, `{"title":"x","status":null}`)
		require.Equal(t, fasthttp.StatusCreated, resp.StatusCode(), uri)
		created := decode[domain.Task](t, resp)
		assert.True(t, created.CreatedAt.Equal(fixedNow.Truncate(time.Microsecond)), uri)
		assert.Empty(t, created.Status)
	}

	resp := h.do(t, fasthttp.MethodPut, "/tasks/1?timezone=Not/AZone", `{"title":"y","status":"Completed"}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Equal(t, domain.StatusCompleted, decode[domain.Task](t, resp).Status)
}

func TestTaskAssignment(t *testing.T) {
	h := newHarness(t, monitor.Status{}, nil)

	resp := h.do(t, fasthttp.MethodPost, "/users", `{"firstName":"Ada","lastName":"Lovelace","timezone":"Europe/London","isActive":true}`)
	require.Equal(t, fasthttp.StatusCreated, resp.StatusCode(), string(resp.Body()))
	user := decode[domain.User](t, resp)

	resp = h.do(t, fasthttp.MethodPost, "/tasks?timezone=Asia/Tokyo", `{"title":"Review","assignedTo":{"id":1}}`)
	require.Equal(t, fasthttp.StatusCreated, resp.StatusCode(), string(resp.Body()))
	task := decode[domain.Task](t, resp)
	require.NotNil(t, task.AssignedTo)
	assert.Equal(t, user, *task.AssignedTo)
	assert.True(t, task.CreatedAt.Equal(fixedNow.Truncate(time.Microsecond)), "timezone never shifts the stored instant")

	resp = h.do(t, fasthttp.MethodGet, "/api/tasks", "")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	list := decode[[]domain.Task](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].AssignedTo.FirstName)

	// an update without assignedTo keeps the current assignee
	resp = h.do(t, fasthttp.MethodPut, "/tasks/1", `{"title":"Review again"}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	reviewed := decode[domain.Task](t, resp)
	assert.Equal(t, user.ID, reviewed.AssigneeID())

	resp = h.do(t, fasthttp.MethodDelete, "/users/1", "")
	require.Equal(t, fasthttp.StatusNoContent, resp.StatusCode())

	resp = h.do(t, fasthttp.MethodGet, "/tasks/1", "")
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "User not found with id: 1", string(resp.Body()))

	resp = h.do(t, fasthttp.MethodGet, "/tasks", "")
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "User not found with id: 1", string(resp.Body()))
}

func TestUserEndpoints(t *testing.T) {
	h := newHarness(t, monitor.Status{}, nil)

	resp := h.do(t, fasthttp.MethodPost, "/api/users", `{"firstName":"Grace","lastName":"Hopper","timezone":"America/New_York","isActive":true}`)
	require.Equal(t, fasthttp.StatusCreated, resp.StatusCode(), string(resp.Body()))
	assert.Equal(t, int64(1), decode[domain.User](t, resp).ID)

	resp = h.do(t, fasthttp.MethodPut, "/users/1", `{"firstName":"Grace","lastName":"Murray","timezone":"UTC"}`)
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode(), string(resp.Body()))
	replaced := decode[domain.User](t, resp)
	assert.Equal(t, "Murray", replaced.LastName)
	assert.Nil(t, replaced.IsActive, "update is a full replace")

	resp = h.do(t, fasthttp.MethodGet, "/users", "")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Len(t, decode[[]domain.User](t, resp), 1)

	resp = h.do(t, fasthttp.MethodPost, "/users", `{"firstName":"Alan","lastName":"Turing"}`)
	assert.Equal(t, fasthttp.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "Timezone is mandatory", string(resp.Body()))

	resp = h.do(t, fasthttp.MethodGet, "/users/5", "")
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "User not found with id: 5", string(resp.Body()))

	resp = h.do(t, fasthttp.MethodDelete, "/users/5", "")
	assert.Equal(t, fasthttp.StatusNotFound, resp.StatusCode())
}

func TestStoreFailureIsHidden(t *testing.T) {
	h := newHarness(t, monitor.Status{}, nil)
	require.NoError(t, sqliteInfra.Close(h.db))

	resp := h.do(t, fasthttp.MethodGet, "/tasks", "")
	assert.Equal(t, fasthttp.StatusInternalServerError, resp.StatusCode())
	assert.Equal(t, "internal server error", string(resp.Body()))
}

func TestHealth(t *testing.T) {
	h := newHarness(t, monitor.Status{Services: map[string]bool{"store": true}}, nil)
	resp := h.do(t, fasthttp.MethodGet, "/health", "")
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	body := decode[map[string]interface{}](t, resp)
	assert.Equal(t, "success", body["status"])
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, config.DriverSQLite, data["driver"])
	assert.Equal(t, map[string]interface{}{"store": true}, data["services"])

	h = newHarness(t, monitor.Status{Services: map[string]bool{"store": true, "redis": false}}, nil)
	resp = h.do(t, fasthttp.MethodGet, "/health", "")
	require.Equal(t, fasthttp.StatusServiceUnavailable, resp.StatusCode())
	body = decode[map[string]interface{}](t, resp)
	assert.Equal(t, "DEGRADED", body["code"])
	assert.Equal(t, "error", body["status"])
	assert.NotNil(t, body["data"])
}

func TestGuardProtectsResourcesOnly(t *testing.T) {
	h := newHarness(t, monitor.Status{Services: map[string]bool{"store": true}}, middleware.JWTAuth("secret", "", nil))

	resp := h.do(t, fasthttp.MethodGet, "/tasks", "")
	assert.Equal(t, fasthttp.StatusUnauthorized, resp.StatusCode())

	resp = h.do(t, fasthttp.MethodGet, "/health", "")
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
}
