// Package tariff provides the catalog of candidate tariffs for ROI
// calculations, either the built-in defaults or an operator-maintained
// catalog persisted in storage.
package tariff

import (
	"context"
	"fmt"
	"sync"

	"github.com/levenlabs/go-lflag"
	"github.com/maphoenix/solarroi/pkg/storage"
	"github.com/maphoenix/solarroi/pkg/types"
)

// Provider serves the current tariff catalog.
type Provider interface {
	// Tariffs returns the current catalog. The returned slice must not be
	// mutated by the caller.
	Tariffs(ctx context.Context) ([]types.Tariff, error)
	// Update replaces the catalog.
	Update(ctx context.Context, tariffs []types.Tariff) error
	// StartScheduler starts any background catalog refresh. It returns
	// immediately; the refresh stops when ctx is cancelled.
	StartScheduler(ctx context.Context) error
}

// Configured sets up the tariff provider based on flags.
func Configured(db storage.Database) Provider {
	provider := lflag.String("tariff-provider", "static", "Tariff provider to use (available: static, storage)")
	refreshCron := lflag.String("tariff-refresh-cron", "0 0 0 * * *", "Cron expression for refreshing the stored tariff catalog")

	var p struct{ Provider }

	lflag.Do(func() {
		switch *provider {
		case "static":
			p.Provider = NewStaticProvider(DefaultTariffs())
		case "storage":
			if db == nil {
				panic("tariff-provider storage requires a configured database")
			}
			p.Provider = NewStorageProvider(db, *refreshCron)
		default:
			panic(fmt.Sprintf("unknown tariff provider: %s", *provider))
		}
	})

	return &p
}

// StaticProvider serves an in-memory catalog. Updates are not persisted
// across restarts.
type StaticProvider struct {
	mu      sync.RWMutex
	tariffs []types.Tariff
}

// NewStaticProvider returns a provider serving the given catalog.
func NewStaticProvider(tariffs []types.Tariff) *StaticProvider {
	return &StaticProvider{tariffs: tariffs}
}

func (s *StaticProvider) Tariffs(ctx context.Context) ([]types.Tariff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tariffs, nil
}

// StartScheduler is a no-op; a static catalog has nothing to refresh.
func (s *StaticProvider) StartScheduler(ctx context.Context) error {
	return nil
}

func (s *StaticProvider) Update(ctx context.Context, tariffs []types.Tariff) error {
	if err := validateCatalog(tariffs); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tariffs = tariffs
	return nil
}

func validateCatalog(tariffs []types.Tariff) error {
	if len(tariffs) == 0 {
		return types.InvalidInputf("tariffs", "catalog cannot be empty")
	}
	seen := make(map[string]bool, len(tariffs))
	for i, t := range tariffs {
		if t.Name == "" {
			return types.InvalidInputf("tariffs", "tariff %d missing name", i)
		}
		if seen[t.Name] {
			return types.InvalidInputf("tariffs", "duplicate tariff name %q", t.Name)
		}
		seen[t.Name] = true
		if t.PeakRate < 0 || t.OffPeakRate < 0 || t.ExportRate < 0 {
			return types.InvalidInputf("tariffs", "tariff %q has negative rates", t.Name)
		}
	}
	return nil
}
