package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/freightdesk/freightdesk/internal/app"
	"github.com/freightdesk/freightdesk/internal/auth"
	"github.com/freightdesk/freightdesk/internal/backup"
	"github.com/freightdesk/freightdesk/internal/company"
	"github.com/freightdesk/freightdesk/internal/customers"
	"github.com/freightdesk/freightdesk/internal/invoices"
	"github.com/freightdesk/freightdesk/internal/ledger"
	"github.com/freightdesk/freightdesk/internal/lorryreceipts"
	"github.com/freightdesk/freightdesk/internal/numbering"
	"github.com/freightdesk/freightdesk/internal/observability"
	"github.com/freightdesk/freightdesk/internal/payments"
	"github.com/freightdesk/freightdesk/internal/platform/cache"
	"github.com/freightdesk/freightdesk/internal/platform/db"
	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/truckhiring"
	"github.com/freightdesk/freightdesk/internal/users"
	"github.com/freightdesk/freightdesk/jobs"
	"github.com/freightdesk/freightdesk/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "freightdesk_session", cfg.SessionTTL, cfg.IsProduction())

	numberingRepo := numbering.NewRepository(dbpool)
	numberingService := numbering.NewService(numberingRepo)
	numberingHandler := numbering.NewHandler(logger, numberingService)

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	lrRepo := lorryreceipts.NewRepository(dbpool)
	lrService := lorryreceipts.NewService(lrRepo, numberingService)
	lrHandler := lorryreceipts.NewHandler(logger, lrService)

	invoicesRepo := invoices.NewRepository(dbpool)
	invoicesService := invoices.NewService(invoicesRepo, numberingService)
	invoicesHandler := invoices.NewHandler(logger, invoicesService)

	paymentsRepo := payments.NewRepository(dbpool)
	paymentsService := payments.NewService(paymentsRepo)
	paymentsHandler := payments.NewHandler(logger, paymentsService)

	thnRepo := truckhiring.NewRepository(dbpool)
	thnService := truckhiring.NewService(thnRepo, numberingService)
	thnHandler := truckhiring.NewHandler(logger, thnService)

	ledgerService := ledger.NewService(invoicesRepo, paymentsRepo, thnRepo)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	companyRepo := company.NewRepository(dbpool)
	companyService := company.NewService(companyRepo)
	companyHandler := company.NewHandler(logger, companyService)

	backupRepo := backup.NewRepository(dbpool)
	backupService := backup.NewService(logger, customersRepo, lrRepo, invoicesRepo,
		paymentsRepo, thnRepo, companyRepo, numberingService, backupRepo)
	backupHandler := backup.NewHandler(logger, backupService)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	authService := auth.NewService(usersRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	reportClient := report.NewClient(cfg.GotenbergURL)
	reportService := report.NewService(logger, reportClient, companyService,
		customersService, lrService, invoicesService, ledgerService)
	reportHandler := report.NewHandler(logger, reportService, reportClient)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessionManager,
		Metrics:              metrics,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		CustomersHandler:     customersHandler,
		LorryReceiptsHandler: lrHandler,
		InvoicesHandler:      invoicesHandler,
		PaymentsHandler:      paymentsHandler,
		TruckHiringHandler:   thnHandler,
		NumberingHandler:     numberingHandler,
		LedgerHandler:        ledgerHandler,
		CompanyHandler:       companyHandler,
		BackupHandler:        backupHandler,
		ReportHandler:        reportHandler,
		JobHandler:           jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
