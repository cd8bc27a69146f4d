package server

import (
	"net/http"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/version"
	"github.com/rostersync/rostersync/server/api/rest/documents"
)

type RootAPI struct {
	*APIBase
}

func NewRootAPI(logFactory logger.LogFactory) *RootAPI {
	return &RootAPI{
		APIBase: NewAPIBase(logFactory("RootAPI")),
	}
}

func (a *RootAPI) GetRootDocument(w http.ResponseWriter, r *http.Request) {
	res := documents.GetRootDocumentResponse{
		"sync_url":   "/api/v1/sync",
		"health_url": "/api/v1/health",
	}
	a.JSON(w, r, res)
}

func (a *RootAPI) GetHealth(w http.ResponseWriter, r *http.Request) {
	a.JSON(w, r, map[string]string{
		"status":  "ok",
		"version": version.VersionToString(),
	})
}
