package jobsync

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/shop-assist/internal/common"
	"github.com/Veraticus/shop-assist/internal/model"
	"github.com/Veraticus/shop-assist/internal/service"
	"github.com/Veraticus/shop-assist/internal/storage"
)

// JobStore is the storage needed to stage a job for the extension.
type JobStore interface {
	service.ConfigStore
	GetJob(ctx context.Context, id int64) (*model.Job, error)
}

// SendJob stages a synced job as the pending auto-fill payload.
func SendJob(ctx context.Context, store JobStore, id int64) (*model.PendingJob, error) {
	job, err := store.GetJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load job %d: %w", id, err)
	}

	pending := &model.PendingJob{SentAt: time.Now().UTC(), Job: *job}
	if err := store.SetSetting(ctx, storage.KeyLastJobPayload, pending); err != nil {
		return nil, fmt.Errorf("failed to stage job %d: %w", id, err)
	}
	return pending, nil
}

// PendingJob returns the staged payload, or common.ErrNotFound when nothing was sent.
func PendingJob(ctx context.Context, store service.ConfigStore) (*model.PendingJob, error) {
	var pending model.PendingJob
	found, err := store.GetSetting(ctx, storage.KeyLastJobPayload, &pending)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending job: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("pending job: %w", common.ErrNotFound)
	}
	return &pending, nil
}
