package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawdesk-platform/internal/audit"
	"lawdesk-platform/internal/auth"
	"lawdesk-platform/internal/booking"
	"lawdesk-platform/internal/cases"
	"lawdesk-platform/internal/config"
	"lawdesk-platform/internal/documents"
	"lawdesk-platform/internal/export"
	"lawdesk-platform/internal/httpapi"
	"lawdesk-platform/internal/ratelimit"
	"lawdesk-platform/internal/versions"
	"lawdesk-platform/pkg/logger"
	"lawdesk-platform/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Repositories and services. The cases and documents services reference
	// each other (rename cascade one way, case lookup the other), so documents
	// is constructed first and handed to cases.
	auditSvc := audit.NewService(audit.NewPostgresRepo(db))
	casesRepo := cases.NewPostgresRepo(db)
	docsRepo := documents.NewPostgresRepo(db)
	versionsRepo := versions.NewPostgresRepo(db)

	docsSvc := documents.NewService(docsRepo, casesRepo, auditSvc)
	casesSvc := cases.NewService(casesRepo, docsSvc, auditSvc)
	versionsSvc := versions.NewService(versionsRepo, docsRepo, auditSvc)
	exportGen := export.NewGenerator(versionsRepo, docsRepo, cfg.Export.VerifyBaseURL, cfg.Export.FontPath)
	bookingSvc := booking.NewService(booking.NewPostgresRepo(db))

	bookingLimiter := ratelimit.NewLimiter(rdb, "rl:booking", cfg.RateLimit.BookingLimit, cfg.RateLimit.BookingWindow)

	h := httpapi.Handlers{
		DB:        db,
		Auth:      authManager,
		Cases:     casesSvc,
		Documents: docsSvc,
		Versions:  versionsSvc,
		Export:    exportGen,
		Audit:     auditSvc,
		Bookings:  bookingSvc,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h, auth.RequireAccessToken(authManager), ratelimit.Middleware(bookingLimiter, log))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
