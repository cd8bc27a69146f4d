package documents

import (
	"github.com/rostersync/rostersync/common/models"
)

// TriggerSyncRequest is the body of a request to run a synchronization pass.
type TriggerSyncRequest struct {
	// UpdateUserFields re-applies the configured field mappings to existing
	// local accounts, in addition to the normal reconciliation work.
	UpdateUserFields bool `json:"update_user_fields"`
}

// SyncStatusDocument describes the most recent synchronization pass, if any.
type SyncStatusDocument struct {
	LastReport *models.SyncReport `json:"last_report"`
}

// GetRootDocumentResponse maps well-known document names to their URLs.
type GetRootDocumentResponse map[string]string
