package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cuctask_bot/internal/bot"
	"cuctask_bot/internal/cache"
	"cuctask_bot/internal/command"
	"cuctask_bot/internal/config"
	"cuctask_bot/internal/db"
	"cuctask_bot/internal/domain"
	httpServer "cuctask_bot/internal/http"
	"cuctask_bot/internal/http/handlers"
	"cuctask_bot/internal/logger"
	"cuctask_bot/internal/ratelimit"
	"cuctask_bot/internal/reminder"
	"cuctask_bot/internal/repository"
	"cuctask_bot/internal/timeparse"

	"github.com/gin-gonic/gin"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

type taskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	FindAll(ctx context.Context) ([]*domain.Task, error)
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	store, closeStore := openStore(cfg)
	defer closeStore()

	rdb := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	parser := timeparse.New(cfg.Location)
	interpreter := command.NewInterpreter(store, parser, logger.Component("command"))
	limiter := ratelimit.NewLimiter(rdb, cfg.CommandRateLimit, cfg.CommandRateWindow)

	taskBot, err := bot.NewTaskBot(cfg.BotToken, interpreter, limiter)
	if err != nil {
		logger.Fatal("failed to start telegram bot", "error", err)
	}

	var claimer reminder.Claimer = reminder.NoopClaimer{}
	if rdb != nil {
		claimer = reminder.NewRedisClaimer(rdb)
	}
	scanner := reminder.NewScanner(store, taskBot, claimer, parser.Location(), logger.Component("reminder"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner.Start(ctx)
	go taskBot.Start()

	deps := map[string]handlers.Pinger{"database": store}
	if rdb != nil {
		deps["redis"] = cache.Health{Client: rdb}
	}

	r := gin.Default()
	httpServer.RegisterRoutes(r, deps, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("ops server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	taskBot.Stop()
	scanner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("exited")
}

func openStore(cfg *config.Config) (taskStore, func()) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory task store, tasks are lost on restart")
		return repository.NewMemoryTaskRepository(), func() {}
	}

	pool := db.Connect(cfg.DatabaseURL)
	return repository.NewTaskRepository(pool), pool.Close
}
