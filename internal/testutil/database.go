// Package testutil provides test helpers for packages that need a seeded database.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/service"
	"github.com/Veraticus/shop-assist/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup func(context.Context, service.Storage) error
	Groups      []model.LaborRateGroup
	Jobs        []model.Job
}

// SetupTestDB creates a migrated in-memory database. It is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database and seeds it from opts.
//
// Example:
//
//	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
//		Groups: testutil.LaborRateGroups(),
//	})
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(opts.Groups) > 0 {
		if err := store.SaveLaborRateGroups(ctx, opts.Groups); err != nil {
			t.Fatalf("failed to seed labor rate groups: %v", err)
		}
	}
	if len(opts.Jobs) > 0 {
		if err := store.SaveJobs(ctx, opts.Jobs); err != nil {
			t.Fatalf("failed to seed jobs: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{Storage: store, t: t}
}

// MustGetJob returns the job with the given id or fails the test.
func (db *TestDB) MustGetJob(id int64) *model.Job {
	db.t.Helper()
	job, err := db.Storage.GetJob(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to get job %d: %v", id, err)
	}
	return job
}

// LaborRateGroups returns a typical three-group shop configuration.
func LaborRateGroups() []model.LaborRateGroup {
	return []model.LaborRateGroup{
		{Name: "Asian", Makes: []string{"Honda", "Toyota", "Nissan", "Subaru"}, LaborRate: 16000},
		{Name: "European", Makes: []string{"BMW", "Audi", "Mercedes-Benz", "Volkswagen"}, LaborRate: 19000},
		{Name: "Domestic", Makes: []string{"Ford", "Chevrolet", "Dodge"}, LaborRate: 14500},
	}
}

// Job builds a valid job; created is the number of days after 2024-01-01.
func Job(id int64, name, vehicle string, created int) model.Job {
	return model.Job{
		CreatedAt:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, created),
		Name:          name,
		Vehicle:       vehicle,
		ID:            id,
		RepairOrderID: 1000 + id,
		LaborHours:    1.0,
	}
}
