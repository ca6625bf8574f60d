// Command seed loads the built-in tariff catalog into Firestore, typically
// against a local emulator when setting up a development environment.
package main

import (
	"context"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/storage"
	"github.com/maphoenix/solarroi/pkg/tariff"
)

func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	db := storage.Configured()
	lflag.Configure()

	ctx := context.Background()

	log.Ctx(ctx).InfoContext(ctx, "seeding tariff catalog")

	existing, version, err := db.GetTariffs(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to read existing catalog", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		log.Ctx(ctx).InfoContext(ctx, "catalog already seeded, overwriting", "tariffs", len(existing), "version", version)
	}

	if err := db.SetTariffs(ctx, tariff.DefaultTariffs(), version+1); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to seed tariffs", "error", err)
		os.Exit(1)
	}

	if err := db.Close(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
	}
	log.Ctx(ctx).InfoContext(ctx, "seeded tariff catalog", "tariffs", len(tariff.DefaultTariffs()), "version", version+1)
}
