package tariff

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/storage"
	"github.com/maphoenix/solarroi/pkg/types"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
)

// StorageProvider serves the catalog stored in the database, cached in
// memory. The cache is refreshed on a cron schedule (midnight by default)
// so catalog edits made outside this process are eventually picked up.
type StorageProvider struct {
	db          storage.Database
	refreshCron string

	mu      sync.RWMutex
	tariffs []types.Tariff
	version int
	loaded  bool
}

// NewStorageProvider returns a provider backed by the database. The catalog
// is loaded lazily on first use; call StartScheduler to keep it fresh.
func NewStorageProvider(db storage.Database, refreshCron string) *StorageProvider {
	return &StorageProvider{db: db, refreshCron: refreshCron}
}

func (s *StorageProvider) Tariffs(ctx context.Context) ([]types.Tariff, error) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		return s.tariffs, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tariffs, nil
}

// Refresh reloads the catalog from storage. An empty stored catalog falls
// back to the built-in defaults.
func (s *StorageProvider) Refresh(ctx context.Context) error {
	tariffs, version, err := s.db.GetTariffs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tariff catalog: %w", err)
	}
	if len(tariffs) == 0 {
		tariffs = DefaultTariffs()
	}

	s.mu.Lock()
	s.tariffs = tariffs
	s.version = version
	s.loaded = true
	s.mu.Unlock()

	log.Ctx(ctx).InfoContext(ctx, "loaded tariff catalog",
		slog.Int("tariffs", len(tariffs)),
		slog.Int("version", version))
	return nil
}

// Update validates and persists a new catalog, bumping the stored version,
// and refreshes the cache.
func (s *StorageProvider) Update(ctx context.Context, tariffs []types.Tariff) error {
	if err := validateCatalog(tariffs); err != nil {
		return err
	}

	_, version, err := s.db.GetTariffs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current tariff version: %w", err)
	}
	if err := s.db.SetTariffs(ctx, tariffs, version+1); err != nil {
		return err
	}

	s.mu.Lock()
	s.tariffs = tariffs
	s.version = version + 1
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Version returns the version of the cached catalog.
func (s *StorageProvider) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// StartScheduler schedules periodic cache refreshes using the configured
// cron expression. The scheduler stops when ctx is cancelled.
func (s *StorageProvider) StartScheduler(ctx context.Context) error {
	trigger, err := quartz.NewCronTrigger(s.refreshCron)
	if err != nil {
		return fmt.Errorf("invalid tariff refresh cron %q: %w", s.refreshCron, err)
	}
	sched := quartz.NewStdScheduler()
	sched.Start(ctx)

	refresh := job.NewFunctionJob(func(ctx context.Context) (int, error) {
		if err := s.Refresh(ctx); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "tariff refresh failed", slog.Any("error", err))
			return 0, err
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.tariffs), nil
	})
	detail := quartz.NewJobDetail(refresh, quartz.NewJobKey("tariff-refresh"))
	if err := sched.ScheduleJob(detail, trigger); err != nil {
		return fmt.Errorf("failed to schedule tariff refresh: %w", err)
	}
	return nil
}
