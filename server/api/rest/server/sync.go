package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/server/api/rest/documents"
	"github.com/rostersync/rostersync/server/services"
)

type SyncAPI struct {
	syncService services.SyncService
	*APIBase
}

func NewSyncAPI(
	syncService services.SyncService,
	logFactory logger.LogFactory) *SyncAPI {

	return &SyncAPI{
		syncService: syncService,
		APIBase:     NewAPIBase(logFactory("SyncAPI")),
	}
}

// Trigger runs a synchronization pass immediately and returns the resulting report.
// Returns an error if a pass is already in progress.
func (a *SyncAPI) Trigger(w http.ResponseWriter, r *http.Request) {
	req := &documents.TriggerSyncRequest{}
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil && err != io.EOF {
		a.Error(w, r, gerror.NewErrValidationFailed("Invalid request body").Wrap(err))
		return
	}
	report, err := a.syncService.SyncNow(r.Context(), req.UpdateUserFields)
	if err != nil {
		a.Error(w, r, err)
		return
	}
	a.JSON(w, r, report)
}

// GetStatus returns the report from the most recent synchronization pass, if any.
func (a *SyncAPI) GetStatus(w http.ResponseWriter, r *http.Request) {
	doc := &documents.SyncStatusDocument{
		LastReport: a.syncService.LastReport(),
	}
	a.JSON(w, r, doc)
}
