package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/gsarma/codepad/internal/api"
	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/config"
	"github.com/gsarma/codepad/internal/limiter"
	"github.com/gsarma/codepad/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", os.Stderr).Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, os.Stderr)
	if cfg.Judge0.APIKey == "" && cfg.Judge0.AuthToken == "" {
		logger.Warn("no JUDGE0_API_KEY or JUDGE0_AUTH_TOKEN set; the remote service will likely reject submissions")
	}

	client := code.NewJudge0Client(cfg.Judge0, code.WithLogger(logger))
	rl := limiter.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	router := gin.New()
	router.Use(gin.Recovery())
	api.RegisterRoutes(router, api.NewHandler(client, logger), rl)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rl.StartCleanup(5*time.Minute, ctx.Done())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", "port", cfg.Port, "judge0", cfg.Judge0.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
