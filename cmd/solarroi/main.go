package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maphoenix/solarroi/pkg/finance"
	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/mcs"
	"github.com/maphoenix/solarroi/pkg/roi"
	"github.com/maphoenix/solarroi/pkg/server"
	"github.com/maphoenix/solarroi/pkg/storage"
	"github.com/maphoenix/solarroi/pkg/tariff"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"
)

func main() {
	// init packages
	grid := mcs.Configured()
	fin := finance.Configured()
	db := storage.Configured()
	tariffs := tariff.Configured(db)
	engine := roi.Configured(mcs.NewEstimator(grid), fin)

	// init server
	srv := server.Configured(engine, tariffs, fin, db)

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	slog.Debug("logger configured", slog.String("level", level.String()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// If initialization inside lflag.Do failed, we wouldn't be here (panic).
	defer func() {
		if err := db.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	// keep the stored tariff catalog fresh
	if err := tariffs.StartScheduler(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to start tariff scheduler", "error", err)
		os.Exit(1)
	}

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
