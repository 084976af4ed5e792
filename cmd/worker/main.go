package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/freightdesk/freightdesk/internal/app"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/gstin"
	jobmetrics "github.com/freightdesk/freightdesk/internal/jobs"
	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)

	customersRepo := customers.NewRepository(pool)
	gstinClient := gstin.NewClient(cfg.GSTINAPIBaseURL, cfg.GSTINAPIKey, 0)
	gstinService := gstin.NewService(logger, gstinClient, customersRepo, cfg.GSTINRefreshEvery, cfg.GSTINRefreshBatch)

	numberingRepo := numbering.NewRepository(pool)
	numberingService := numbering.NewService(numberingRepo)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskGSTINRefresh, Handler: jobs.HandleGSTINRefresh(gstinService, metrics, logger)},
			{Type: jobs.TaskNumberingResync, Handler: jobs.HandleNumberingResync(numberingService, metrics, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewGSTINRefreshTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 2 * * *", Task: jobs.NewNumberingResyncTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
