package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/service"
)

const defaultSearchLimit = 50

const jobColumns = `id, repair_order_id, repair_order_number, name, note, vehicle,
	labor_hours, labor_total, parts_total, authorized, created_at`

// SaveJobs upserts synced jobs in a single transaction.
func (s *SQLiteStorage) SaveJobs(ctx context.Context, jobs []model.Job) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateJobs(jobs); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO jobs (`+jobColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			repair_order_id = excluded.repair_order_id,
			repair_order_number = excluded.repair_order_number,
			name = excluded.name,
			note = excluded.note,
			vehicle = excluded.vehicle,
			labor_hours = excluded.labor_hours,
			labor_total = excluded.labor_total,
			parts_total = excluded.parts_total,
			authorized = excluded.authorized,
			created_at = excluded.created_at,
			synced_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("failed to prepare job insert: %w", err)
	}
	defer stmt.Close()

	for _, job := range jobs {
		_, err := stmt.ExecContext(ctx,
			job.ID, job.RepairOrderID, job.RepairOrderNumber, job.Name, job.Note, job.Vehicle,
			job.LaborHours, job.LaborTotal, job.PartsTotal, job.Authorized, job.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save job %d: %w", job.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit jobs: %w", err)
	}

	slog.Debug("saved jobs", "count", len(jobs))
	return nil
}

// SearchJobs returns jobs whose name, note or vehicle contain every term of the query,
// newest first. An empty query lists the most recent jobs.
func (s *SQLiteStorage) SearchJobs(ctx context.Context, filter service.JobFilter) ([]model.Job, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		where []string
		args  []any
	)
	for _, term := range strings.Fields(filter.Query) {
		pattern := "%" + escapeLike(term) + "%"
		where = append(where, `(name LIKE ? ESCAPE '\' OR note LIKE ? ESCAPE '\' OR vehicle LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

// GetJob returns a single job by its platform id.
func (s *SQLiteStorage) GetJob(ctx context.Context, id int64) (*model.Job, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// CountJobs returns the number of synced jobs.
func (s *SQLiteStorage) CountJobs(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var job model.Job
	err := row.Scan(&job.ID, &job.RepairOrderID, &job.RepairOrderNumber, &job.Name, &job.Note, &job.Vehicle,
		&job.LaborHours, &job.LaborTotal, &job.PartsTotal, &job.Authorized, &job.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}
	return &job, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
