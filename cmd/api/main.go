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

	"hrms-gateway/internal/attendance"
	"hrms-gateway/internal/audit"
	"hrms-gateway/internal/auth"
	"hrms-gateway/internal/config"
	"hrms-gateway/internal/gateway"
	"hrms-gateway/internal/httpapi"
	"hrms-gateway/internal/session"
	"hrms-gateway/pkg/logger"
	"hrms-gateway/pkg/utils"

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

	authManager, err := auth.NewManager(cfg.Session)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
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

	sessions, err := session.NewRedisStore(rdb, cfg.Session.SessionTTL)
	if err != nil {
		log.Error("session store init failed", "err", err)
		os.Exit(1)
	}

	// Upstream clients read the caller's token at call time, so a fresh
	// login is picked up on the next call without client rebuilds.
	tokenSource := func(ctx context.Context) (string, bool) {
		sess, ok := auth.CurrentSession(ctx)
		if !ok || sess.UpstreamToken == "" {
			return "", false
		}
		return sess.UpstreamToken, true
	}
	authClient := gateway.NewClient(cfg.Upstream.AuthBaseURL, cfg.Upstream.RequestTimeout, tokenSource)
	attendanceClient := gateway.NewClient(cfg.Upstream.AttendanceBaseURL, cfg.Upstream.RequestTimeout, tokenSource)

	h := httpapi.Handlers{
		Auth:       authManager,
		Sessions:   sessions,
		AuthClient: authClient,
		Attendance: attendance.NewService(attendanceClient, sessions, rdb),
		Audit:      audit.NewService(audit.NewPostgresRepo(db)),
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(auth.LoadSession(authManager, sessions))

	registerRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No write timeout: the attendance elapsed stream holds its
		// response open for as long as the employee stays checked in.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("gateway listening", "addr", srv.Addr, "env", cfg.App.Env)
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

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
