package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"libraryhub/database"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/handler"
	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// the dashboard cache is optional; run without it when redis is down
	var dashboardCache service.DashboardCache
	if cfg.CacheTTL > 0 {
		rdb, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			c := cache.NewDashboardRedisCache(rdb, cfg.CacheExpiry())
			defer c.Close()
			dashboardCache = c
		}
	}

	store := repository.NewStore(db)
	loanSvc := service.NewLoanService(store, dashboardCache, cfg.LoanPeriod, logger)
	svcs := handler.Services{
		Books:     service.NewBookService(store, dashboardCache, logger),
		Users:     service.NewUserService(store, dashboardCache, logger),
		Loans:     loanSvc,
		Dashboard: service.NewDashboardService(store, dashboardCache, logger),
	}

	router := handler.NewRouter(svcs, handler.RouterOptions{
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		CORSOrigins:    cfg.CORSOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OverdueSweepInterval > 0 {
		sweeper := service.NewOverdueSweeper(loanSvc, cfg.OverdueSweepInterval, cfg.RequestTimeout, logger)
		go sweeper.Run(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
