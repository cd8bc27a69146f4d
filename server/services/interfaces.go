package services

import (
	"context"

	"github.com/rostersync/rostersync/common/models"
)

// SyncService reconciles the local store against the configured external directory.
type SyncService interface {
	// SyncNow runs a single reconciliation pass. If updateUserFields is true then
	// field mappings flagged update-on-sync are re-applied to existing users in
	// addition to the normal diff-and-converge work.
	// Returns gerror.ErrSyncNotConfigured if the sync configuration is incomplete.
	SyncNow(ctx context.Context, updateUserFields bool) (*models.SyncReport, error)
	// LastReport returns the report from the most recently completed run, or nil
	// if no run has completed since startup.
	LastReport() *models.SyncReport
	// Stop shuts down the periodic sync timer, if running.
	Stop()
}
