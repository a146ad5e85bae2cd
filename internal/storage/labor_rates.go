package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/Veraticus/shop-assist/internal/model"
)

// LaborRateGroups returns the configured groups in their saved order.
// An unset configuration yields an empty list.
func (s *SQLiteStorage) LaborRateGroups(ctx context.Context) ([]model.LaborRateGroup, error) {
	var groups []model.LaborRateGroup
	if _, err := s.GetSetting(ctx, KeyLaborRateGroups, &groups); err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []model.LaborRateGroup{}
	}
	return groups, nil
}

// SaveLaborRateGroups validates and replaces the whole group list.
func (s *SQLiteStorage) SaveLaborRateGroups(ctx context.Context, groups []model.LaborRateGroup) error {
	if groups == nil {
		groups = []model.LaborRateGroup{}
	}
	if err := validateLaborRateGroups(groups); err != nil {
		return err
	}
	if err := s.SetSetting(ctx, KeyLaborRateGroups, groups); err != nil {
		return err
	}

	slog.Debug("saved labor rate groups", "count", len(groups))
	return nil
}

// AddLaborRateGroup appends a group, or replaces the group with the same name in place.
func (s *SQLiteStorage) AddLaborRateGroup(ctx context.Context, group model.LaborRateGroup) error {
	groups, err := s.LaborRateGroups(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i, g := range groups {
		if strings.EqualFold(g.Name, group.Name) {
			groups[i] = group
			replaced = true
			break
		}
	}
	if !replaced {
		groups = append(groups, group)
	}

	if err := s.SaveLaborRateGroups(ctx, groups); err != nil {
		return err
	}

	slog.Info("saved labor rate group", "name", group.Name, "rate", group.LaborRate, "replaced", replaced)
	return nil
}

// DeleteLaborRateGroup removes the named group.
func (s *SQLiteStorage) DeleteLaborRateGroup(ctx context.Context, name string) error {
	if err := validateString(name, "name"); err != nil {
		return err
	}

	groups, err := s.LaborRateGroups(ctx)
	if err != nil {
		return err
	}

	kept := groups[:0]
	for _, g := range groups {
		if !strings.EqualFold(g.Name, name) {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(groups) {
		return fmt.Errorf("labor rate group %q: %w", name, common.ErrNotFound)
	}

	return s.SaveLaborRateGroups(ctx, kept)
}
