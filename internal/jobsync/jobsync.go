// Package jobsync copies historical jobs from the shop platform into local storage for search.
package jobsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/tekmetric"
)

// JobSaver persists synced jobs.
type JobSaver interface {
	SaveJobs(ctx context.Context, jobs []model.Job) error
}

// Config holds configuration options for the syncer.
type Config struct {
	PageSize int
	MaxPages int // 0 means no limit
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{PageSize: 100}
}

// Progress is reported after each page.
type Progress struct {
	Page       int
	TotalPages int
	Saved      int
	Skipped    int
}

// Result summarizes a finished sync.
type Result struct {
	Duration time.Duration
	Pages    int
	Saved    int
	Skipped  int
}

// Syncer pages through the job listing and upserts each page.
type Syncer struct {
	source   tekmetric.JobSource
	store    JobSaver
	vehicles map[int64]string
	logger   *slog.Logger
	config   Config
}

// New creates a syncer with the default configuration.
func New(source tekmetric.JobSource, store JobSaver) *Syncer {
	return NewWithConfig(source, store, DefaultConfig())
}

// NewWithConfig creates a syncer with custom configuration.
func NewWithConfig(source tekmetric.JobSource, store JobSaver, config Config) *Syncer {
	if config.PageSize <= 0 {
		config.PageSize = DefaultConfig().PageSize
	}
	return &Syncer{
		source:   source,
		store:    store,
		vehicles: make(map[int64]string),
		logger:   slog.Default().With("component", "jobsync"),
		config:   config,
	}
}

// Sync pulls every page of jobs. onProgress may be nil.
func (s *Syncer) Sync(ctx context.Context, onProgress func(Progress)) (*Result, error) {
	start := time.Now()
	result := &Result{}

	s.logger.Info("Starting job sync", "page_size", s.config.PageSize)

	for page := 0; ; page++ {
		if s.config.MaxPages > 0 && page >= s.config.MaxPages {
			break
		}
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		listing, err := s.source.ListJobs(ctx, page, s.config.PageSize)
		if err != nil {
			return result, fmt.Errorf("failed to list jobs page %d: %w", page, err)
		}
		result.Pages++

		jobs := make([]model.Job, 0, len(listing.Content))
		for _, j := range listing.Content {
			job, ok := s.convert(ctx, j)
			if !ok {
				result.Skipped++
				continue
			}
			jobs = append(jobs, job)
		}

		if len(jobs) > 0 {
			if err := s.store.SaveJobs(ctx, jobs); err != nil {
				return result, fmt.Errorf("failed to save jobs page %d: %w", page, err)
			}
			result.Saved += len(jobs)
		}

		if onProgress != nil {
			onProgress(Progress{
				Page:       page + 1,
				TotalPages: listing.TotalPages,
				Saved:      result.Saved,
				Skipped:    result.Skipped,
			})
		}

		if listing.Last || len(listing.Content) == 0 || (listing.TotalPages > 0 && page+1 >= listing.TotalPages) {
			break
		}
	}

	result.Duration = time.Since(start)
	s.logger.Info("Job sync complete",
		"pages", result.Pages,
		"saved", result.Saved,
		"skipped", result.Skipped,
		"duration", result.Duration)
	return result, nil
}

func (s *Syncer) convert(ctx context.Context, j tekmetric.Job) (model.Job, bool) {
	if j.ID <= 0 || j.RepairOrderID <= 0 || strings.TrimSpace(j.Name) == "" || j.CreatedDate.IsZero() {
		s.logger.Debug("Skipping incomplete job", "job_id", j.ID)
		return model.Job{}, false
	}

	job := model.Job{
		CreatedAt:         j.CreatedDate,
		Name:              strings.TrimSpace(j.Name),
		Note:              strings.TrimSpace(j.Note),
		ID:                j.ID,
		RepairOrderID:     j.RepairOrderID,
		RepairOrderNumber: j.RepairOrderNumber,
		LaborHours:        j.LaborHours,
		LaborTotal:        j.LaborTotal,
		PartsTotal:        j.PartsTotal,
		Authorized:        j.Authorized != nil && *j.Authorized,
	}
	job.Vehicle = s.vehicle(ctx, j.VehicleID)
	return job, true
}

// vehicle returns "year make model" for id, caching lookups for the life of the syncer.
func (s *Syncer) vehicle(ctx context.Context, id int64) string {
	if id <= 0 {
		return ""
	}
	if desc, ok := s.vehicles[id]; ok {
		return desc
	}

	v, err := s.source.GetVehicle(ctx, id)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Warn("Failed to look up vehicle", "vehicle_id", id, "error", err)
		}
		return ""
	}

	desc := DescribeVehicle(v)
	s.vehicles[id] = desc
	return desc
}

// DescribeVehicle formats a vehicle as "2015 Honda Civic", omitting missing parts.
func DescribeVehicle(v *tekmetric.Vehicle) string {
	if v == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if v.Year > 0 {
		parts = append(parts, strconv.Itoa(v.Year))
	}
	for _, p := range []string{v.Make, v.Model} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
