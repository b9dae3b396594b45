package main

import (
	"context"
	"log"
	"os"
	_ "time/tzdata"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskmanager/api/handler"
	"github.com/fastygo/taskmanager/internal/config"
	"github.com/fastygo/taskmanager/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/taskmanager/internal/infrastructure/redis"
	"github.com/fastygo/taskmanager/internal/infrastructure/store"
	"github.com/fastygo/taskmanager/internal/middleware"
	"github.com/fastygo/taskmanager/internal/router"
	"github.com/fastygo/taskmanager/internal/services/lifecycle"
	"github.com/fastygo/taskmanager/pkg/httpcontext"
	"github.com/fastygo/taskmanager/pkg/logger"
	taskUC "github.com/fastygo/taskmanager/usecase/task"
	userUC "github.com/fastygo/taskmanager/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx := context.Background()
	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	st, err := store.Open(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("store initialization failed", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	manager.Register("store", st.Close)

	mon := monitor.New(cfg.Monitor.Interval, zapLogger)
	mon.Register("store", st.Ping)

	var counter middleware.Counter
	if cfg.Redis.URL != "" {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		mon.Register("redis", redisInfra.Ping(redisClient))
		if cfg.RateLimitEnabled() {
			counter = middleware.NewRedisCounter(redisClient)
		}
	}

	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor start failed", zap.Error(err))
	}
	manager.Register("monitor", mon.Stop)

	taskUseCase := taskUC.New(st.Tasks, st.Users, zapLogger)
	userUseCase := userUC.New(st.Users, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		User:   apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, st.Driver, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger))
	handler := router.Handler(r,
		middleware.AccessLog(zapLogger),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.RateLimit(counter, cfg.RateLimit.Requests, cfg.RateLimit.Window, zapLogger),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("driver", st.Driver),
			zap.Bool("auth", cfg.JWT.Secret != ""),
			zap.Bool("rate_limit", counter != nil),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	code := manager.Wait(appCtx)
	zapLogger.Info("application exited", zap.Int("code", code))
	_ = zapLogger.Sync()
	os.Exit(code)
}
