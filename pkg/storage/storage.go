// Package storage persists the tariff catalog and saved calculation reports.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/maphoenix/solarroi/pkg/types"
)

var (
	ErrReportNotFound = errors.New("report not found")
)

// Database defines the interface for persisting tariffs and reports.
type Database interface {
	// Tariffs
	// GetTariffs returns the stored tariff catalog with its version, or an
	// empty catalog and version 0 when none has been stored yet.
	GetTariffs(ctx context.Context) ([]types.Tariff, int, error)
	SetTariffs(ctx context.Context, tariffs []types.Tariff, version int) error

	// Reports
	SaveReport(ctx context.Context, report types.Report) error
	GetReport(ctx context.Context, id string) (types.Report, error)
	ListRecentReports(ctx context.Context, limit int) ([]types.Report, error)

	// Lifecycle
	Close() error
}

// Configured sets up the Storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "firestore", "Storage provider to use (available: firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Validate(); err != nil {
				panic(fmt.Sprintf("firestore validation failed: %v", err))
			}
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
