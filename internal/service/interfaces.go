// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/shop-assist/internal/model"
)

// JobFilter defines filtering options for job searches.
type JobFilter struct {
	Query  string
	Limit  int
	Offset int
}

// ConfigStore is the key-value store that holds shop configuration and small result caches.
type ConfigStore interface {
	// GetSetting decodes the value stored under key into dest and reports whether it existed.
	GetSetting(ctx context.Context, key string, dest any) (bool, error)
	SetSetting(ctx context.Context, key string, value any) error
}

// LaborRateGroupStore reads and edits the shop's labor-rate groups.
type LaborRateGroupStore interface {
	LaborRateGroups(ctx context.Context) ([]model.LaborRateGroup, error)
	SaveLaborRateGroups(ctx context.Context, groups []model.LaborRateGroup) error
	AddLaborRateGroup(ctx context.Context, group model.LaborRateGroup) error
	DeleteLaborRateGroup(ctx context.Context, name string) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	ConfigStore
	LaborRateGroupStore

	// Job operations
	SaveJobs(ctx context.Context, jobs []model.Job) error
	SearchJobs(ctx context.Context, filter JobFilter) ([]model.Job, error)
	GetJob(ctx context.Context, id int64) (*model.Job, error)
	CountJobs(ctx context.Context) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
