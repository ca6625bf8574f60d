package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"context"
)

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. It persists the tariff catalog and saved reports as JSON blobs.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// Project ID verification could be here, but we allow empty if inferred.
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// GetTariffs retrieves the tariff catalog from the "config/tariffs" document.
func (f *FirestoreProvider) GetTariffs(ctx context.Context) ([]types.Tariff, int, error) {
	doc, err := f.client.Collection("config").Doc("tariffs").Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			// No catalog stored yet, the caller falls back to defaults
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to fetch tariffs doc: %w", err)
	}

	// Read version if available (default 0)
	var version int
	if v, err := doc.DataAt("version"); err == nil {
		if vInt, ok := v.(int64); ok {
			version = int(vInt)
		}
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "tariffs doc missing json")
		return nil, 0, fmt.Errorf("tariffs document missing 'json' field: %w", err)
	}

	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "tariffs doc json not string")
		return nil, 0, fmt.Errorf("tariffs 'json' field is not a string")
	}

	var tariffs []types.Tariff
	if err := json.Unmarshal([]byte(jsonStr), &tariffs); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal tariffs json", slog.Any("err", err))
		return nil, 0, fmt.Errorf("failed to unmarshal tariffs json: %w", err)
	}
	return tariffs, version, nil
}

// SetTariffs saves the tariff catalog to the "config/tariffs" document.
// It stores the catalog as a JSON string for portability.
func (f *FirestoreProvider) SetTariffs(ctx context.Context, tariffs []types.Tariff, version int) error {
	jsonBytes, err := json.Marshal(tariffs)
	if err != nil {
		return fmt.Errorf("failed to marshal tariffs: %w", err)
	}

	_, err = f.client.Collection("config").Doc("tariffs").Set(ctx, map[string]interface{}{
		"json":    string(jsonBytes),
		"version": version,
	})
	if err != nil {
		return fmt.Errorf("failed to save tariffs: %w", err)
	}
	return nil
}

// SaveReport stores a calculation report in the "reports" collection as a
// JSON blob keyed by the report ID.
func (f *FirestoreProvider) SaveReport(ctx context.Context, report types.Report) error {
	if report.ID == "" {
		return fmt.Errorf("report missing id")
	}
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report %s: %w", report.ID, err)
	}

	_, err = f.client.Collection("reports").Doc(report.ID).Set(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"timestamp": report.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetReport retrieves a report from the "reports" collection.
func (f *FirestoreProvider) GetReport(ctx context.Context, id string) (types.Report, error) {
	doc, err := f.client.Collection("reports").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, id)
		}
		return types.Report{}, fmt.Errorf("failed to get report %s: %w", id, err)
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "report doc missing json", slog.String("reportID", id))
		return types.Report{}, fmt.Errorf("report %s missing json: %w", id, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "report doc json not string", slog.String("reportID", id))
		return types.Report{}, fmt.Errorf("report %s json not string", id)
	}

	var report types.Report
	if err := json.Unmarshal([]byte(jsonStr), &report); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal report", slog.String("reportID", id), slog.Any("err", err))
		return types.Report{}, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return report, nil
}

// ListRecentReports retrieves the most recently created reports, newest
// first.
func (f *FirestoreProvider) ListRecentReports(ctx context.Context, limit int) ([]types.Report, error) {
	if limit <= 0 {
		limit = 50
	}

	// firestore automatically creates indexes for top-level fields
	iter := f.client.Collection("reports").
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var reports []types.Report
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating reports: %w", err)
		}

		val, err := doc.DataAt("json")
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "report doc missing json", slog.String("reportID", doc.Ref.ID))
			// Skip malformed documents
			continue
		}
		jsonStr, ok := val.(string)
		if !ok {
			log.Ctx(ctx).WarnContext(ctx, "report doc json not string", slog.String("reportID", doc.Ref.ID))
			continue
		}

		var r types.Report
		if err := json.Unmarshal([]byte(jsonStr), &r); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal report", slog.String("reportID", doc.Ref.ID), slog.Any("err", err))
			// Skip malformed JSON
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}
