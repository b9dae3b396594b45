package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskmanager/api/handler"
	"github.com/fastygo/taskmanager/internal/middleware"
)

// Prefixes under which the resource routes are mounted.
var Prefixes = []string{"", "/api"}

type Handlers struct {
	Task   *apiHandler.TaskHandler
	User   *apiHandler.UserHandler
	Health *apiHandler.HealthHandler
}

// New registers the health check and the task and user routes. guard wraps
// every resource route and may be nil.
func New(handlers Handlers, guard middleware.Middleware) *router.Router {
	r := router.New()
	protect := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Chain(h, guard)
	}

	r.GET("/health", handlers.Health.Check)

	for _, prefix := range Prefixes {
		r.GET(prefix+"/tasks", protect(handlers.Task.ListTasks))
		r.POST(prefix+"/tasks", protect(handlers.Task.CreateTask))
		r.GET(prefix+"/tasks/{id}", protect(handlers.Task.GetTask))
		r.PUT(prefix+"/tasks/{id}", protect(handlers.Task.UpdateTask))
		r.DELETE(prefix+"/tasks/{id}", protect(handlers.Task.DeleteTask))

		r.GET(prefix+"/users", protect(handlers.User.ListUsers))
		r.POST(prefix+"/users", protect(handlers.User.CreateUser))
		r.GET(prefix+"/users/{id}", protect(handlers.User.GetUser))
		r.PUT(prefix+"/users/{id}", protect(handlers.User.UpdateUser))
		r.DELETE(prefix+"/users/{id}", protect(handlers.User.DeleteUser))
	}

	return r
}

// Handler wraps the router with server-wide middleware, outermost first.
func Handler(r *router.Router, mws ...middleware.Middleware) fasthttp.RequestHandler {
	return middleware.Chain(r.Handler, mws...)
}
