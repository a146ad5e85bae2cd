package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/Veraticus/shop-assist/internal/config"
	"github.com/Veraticus/shop-assist/internal/service"
	"github.com/Veraticus/shop-assist/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseRate accepts a dollar amount such as "160", "160.5" or "$160.00" and returns cents.
func parseRate(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.TrimSuffix(s, "/hr")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0, common.NewUserError(
			fmt.Sprintf("invalid labor rate %q: use dollars per hour, e.g. 160.00", s),
			common.ErrInvalidConfig)
	}
	return int(math.Round(v * 100)), nil
}

// splitMakes parses a comma-separated make list, dropping blanks.
func splitMakes(s string) []string {
	var makes []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			makes = append(makes, m)
		}
	}
	return makes
}
