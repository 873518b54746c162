package usecase

import (
	"context"
	"fmt"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// MigrateGuestInput contains the parameters for a guest-to-account migration.
type MigrateGuestInput struct {
	// UserID is the authenticated account receiving the guest data.
	UserID string
	// Force re-runs a migration that was already recorded for this user.
	Force bool
}

// MigrateGuestOutput reports what happened to each guest task.
type MigrateGuestOutput struct {
	Migrated int
	Failed   []MigrateFailure
	// Cleared is true if local guest data was removed after a full success.
	Cleared bool
}

// MigrateFailure records a task that could not be uploaded.
type MigrateFailure struct {
	TaskID string
	Title  string
	Err    error
}

// MigrateGuest is the use case for replaying locally stored guest tasks into
// an account through the backend API. Uploads are per-task tolerant: one
// failure does not abort the rest. Local data is cleared only when every
// task made it across, so a partial migration can be retried.
type MigrateGuest struct {
	tasks  domain.TaskRepository
	api    domain.TaskAPI
	kv     domain.KeyValueStore
	logger domain.Logger
}

// NewMigrateGuest creates a new MigrateGuest use case.
func NewMigrateGuest(tasks domain.TaskRepository, api domain.TaskAPI, kv domain.KeyValueStore, logger domain.Logger) *MigrateGuest {
	return &MigrateGuest{tasks: tasks, api: api, kv: kv, logger: logger}
}

// Execute uploads all guest tasks for the given user. Returns
// domain.ErrAlreadyMigrated if a migration was already recorded and Force is
// not set, and domain.ErrMigrationFailed (with per-task details in the
// output) when any upload fails.
func (uc *MigrateGuest) Execute(ctx context.Context, in MigrateGuestInput) (*MigrateGuestOutput, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	var done bool
	found, err := uc.kv.Get(domain.MigratedKey(in.UserID), &done)
	if err != nil {
		return nil, fmt.Errorf("read migration flag: %w", err)
	}
	if found && done && !in.Force {
		return nil, fmt.Errorf("%w: user %s", domain.ErrAlreadyMigrated, in.UserID)
	}

	tasks, err := uc.tasks.List()
	if err != nil {
		return nil, fmt.Errorf("list guest tasks: %w", err)
	}

	out := &MigrateGuestOutput{}
	for _, task := range tasks {
		if _, err := uc.api.CreateTask(ctx, task); err != nil {
			uc.logger.Error("", "migrate", fmt.Sprintf("upload %q failed: %v", task.Title, err))
			out.Failed = append(out.Failed, MigrateFailure{TaskID: task.ID, Title: task.Title, Err: err})
			continue
		}
		out.Migrated++
	}

	if len(out.Failed) > 0 {
		return out, fmt.Errorf("%w: %d of %d tasks failed", domain.ErrMigrationFailed, len(out.Failed), len(tasks))
	}

	if err := uc.kv.Put(domain.MigratedKey(in.UserID), true); err != nil {
		return out, fmt.Errorf("record migration flag: %w", err)
	}
	if err := uc.tasks.Clear(); err != nil {
		return out, fmt.Errorf("clear guest store: %w", err)
	}
	out.Cleared = true
	uc.logger.Info("", "migrate", fmt.Sprintf("migrated %d tasks for user %s", out.Migrated, in.UserID))
	return out, nil
}
