package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/exchange/services/candlestick-service/app/service"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/config"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	opts := []logger.Options{
		logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)),
		logger.WithOutputPaths(cfg.App.LogOutputPaths),
		logger.WithTimeKey(cfg.App.LogTimeKey),
		logger.WithLevelKey(cfg.App.LogLevelKey),
		logger.WithCallerTraceSkip(cfg.App.LogCallerSkip),
	}
	if cfg.App.IsDevelopment() {
		opts = append(opts, logger.WithDevelopment())
	}

	log, err = logger.NewLogger(opts...)
	if err != nil {
		panic(err)
	}
}

func main() {
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	svc, err := service.New(ctx, *cfg, log)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "init_service",
		})
		return
	}

	if err := svc.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_service",
		})
		return
	}

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout+5*time.Second)
	defer shutdownCancel()

	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_service",
		})
	}

	log.Info("Candlestick service shutdown complete")
}
