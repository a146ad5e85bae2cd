// Package storage provides the data persistence layer for the shop-assist application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/shop-assist/internal/model"
)

// Validation errors.
var (
	ErrNilContext            = errors.New("context cannot be nil")
	ErrEmptyString           = errors.New("string parameter cannot be empty")
	ErrNilParameter          = errors.New("parameter cannot be nil")
	ErrEmptySlice            = errors.New("slice cannot be empty")
	ErrInvalidJob            = errors.New("invalid job")
	ErrInvalidLaborRateGroup = errors.New("invalid labor rate group")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateJobs(jobs []model.Job) error {
	if jobs == nil {
		return fmt.Errorf("%w: jobs", ErrNilParameter)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: jobs", ErrEmptySlice)
	}

	for i, job := range jobs {
		if job.ID <= 0 {
			return fmt.Errorf("job at index %d: %w: missing ID", i, ErrInvalidJob)
		}
		if job.RepairOrderID <= 0 {
			return fmt.Errorf("job at index %d: %w: missing repair order ID", i, ErrInvalidJob)
		}
		if strings.TrimSpace(job.Name) == "" {
			return fmt.Errorf("job at index %d: %w: missing name", i, ErrInvalidJob)
		}
		if job.CreatedAt.IsZero() {
			return fmt.Errorf("job at index %d: %w: missing created date", i, ErrInvalidJob)
		}
	}
	return nil
}

// validateLaborRateGroups checks each group and rejects duplicate names and
// makes claimed by more than one group.
func validateLaborRateGroups(groups []model.LaborRateGroup) error {
	names := make(map[string]bool, len(groups))
	makes := make(map[string]string)

	for _, g := range groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return fmt.Errorf("%w: missing name", ErrInvalidLaborRateGroup)
		}
		if g.LaborRate <= 0 {
			return fmt.Errorf("%w: %s: labor rate must be positive", ErrInvalidLaborRateGroup, name)
		}
		if len(g.Makes) == 0 {
			return fmt.Errorf("%w: %s: at least one make is required", ErrInvalidLaborRateGroup, name)
		}

		key := strings.ToLower(name)
		if names[key] {
			return fmt.Errorf("%w: duplicate group %q", ErrInvalidLaborRateGroup, name)
		}
		names[key] = true

		for _, m := range g.Makes {
			mk := strings.ToLower(strings.TrimSpace(m))
			if mk == "" {
				return fmt.Errorf("%w: %s: empty make", ErrInvalidLaborRateGroup, name)
			}
			if owner, ok := makes[mk]; ok && owner != key {
				return fmt.Errorf("%w: make %q already belongs to %q", ErrInvalidLaborRateGroup, m, owner)
			}
			makes[mk] = key
		}
	}
	return nil
}
