package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"loyalty-system/internal/api"
	"loyalty-system/internal/metrics"
	"loyalty-system/internal/repository"
	"loyalty-system/internal/service"
	"loyalty-system/internal/tier"
	"loyalty-system/pkg/config"
	"loyalty-system/pkg/database"
	"loyalty-system/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	logger := logging.Setup("loyalty-system", cfg.LogLevel)

	tokenTTL, err := time.ParseDuration(cfg.TokenTTL)
	if err != nil {
		logger.Error("invalid TOKEN_TTL", "value", cfg.TokenTTL, "error", err)
		os.Exit(1)
	}

	ladder, err := tier.NewLadder(cfg.Policy.Levels)
	if err != nil {
		logger.Error("invalid tier ladder", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(shutdownCtx); err != nil {
			logger.Error("failed to disconnect from MongoDB", "error", err)
		}
	}()

	logger.Info("connected to MongoDB", "database", cfg.MongoDB)

	memberRepo := repository.NewMemberRepository(db.Database)
	voucherTypeRepo := repository.NewVoucherTypeRepository(db.Database)
	voucherRepo := repository.NewVoucherRepository(db.Database)
	rechargeTierRepo := repository.NewRechargeTierRepository(db.Database)
	transactionRepo := repository.NewTransactionRepository(db.Database)
	financialRepo := repository.NewFinancialRepository(db.Database)
	pointsStoreRepo := repository.NewPointsStoreRepository(db.Database)
	balanceStoreRepo := repository.NewBalanceStoreRepository(db.Database)
	announcementRepo := repository.NewAnnouncementRepository(db.Database)
	idempotencyRepo := repository.NewIdempotencyRepository(db.Database)

	uow := database.NewUnitOfWork(db.Client)
	issuer := service.NewVoucherIssuer(voucherTypeRepo, voucherRepo, cfg.Policy.DefaultVoucherValidityDays)

	authService := service.NewAuthService(memberRepo, ladder, cfg.JWTSecret, tokenTTL)
	memberService := service.NewMemberService(memberRepo, voucherRepo, transactionRepo, ladder)
	ledgerService := service.NewLedgerService(
		memberRepo, voucherTypeRepo, voucherRepo, rechargeTierRepo,
		transactionRepo, financialRepo, pointsStoreRepo, balanceStoreRepo,
		issuer, uow, ladder, cfg.Policy,
	)
	catalogService := service.NewCatalogService(voucherTypeRepo, rechargeTierRepo, pointsStoreRepo, balanceStoreRepo, announcementRepo)
	reportService := service.NewReportService(transactionRepo, financialRepo, memberRepo)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	router := api.NewRouter(api.Services{
		Auth:        authService,
		Members:     memberService,
		Ledger:      ledgerService,
		Catalog:     catalogService,
		Reports:     reportService,
		Idempotency: idempotencyRepo,
		Metrics:     m,
		Logger:      logger,
		Location:    time.Local,
	})

	apiServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "port", cfg.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("metrics server starting", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("api server shutdown", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
