package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"korean_news_vn/internal/app"
	"korean_news_vn/internal/config"
	"korean_news_vn/internal/logger"
	"korean_news_vn/internal/metrics"
	"korean_news_vn/internal/server"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	logger.Init()
	defer logger.Log.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загрузка конфигурации
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Fatalf("Config load error: %v", err)
	}

	m := metrics.New()
	ctrl := app.NewController(cfg, m)
	defer ctrl.Close()

	// Первоначальная загрузка и автообновление
	go func() {
		if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.Errorf("Initial load failed: %v", err)
		}
	}()

	srv := server.NewServer(ctx, ctrl, app.NewTranslator(cfg.Translator), m, cfg.AutoRefreshInterval)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log.Infof("Starting HTTP server on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	cancel()
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Log.Errorf("Forced shutdown: %v", err)
	}
}
