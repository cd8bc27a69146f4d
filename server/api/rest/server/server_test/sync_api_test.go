package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/api/rest/documents"
	app_server_test "github.com/rostersync/rostersync/server/app/server_test"
	"github.com/rostersync/rostersync/server/services/directory"
	"github.com/rostersync/rostersync/server/services/directory/fake_directory"
)

func TestSyncAPI(t *testing.T) {
	testApp, cleanup, err := app_server_test.New(app_server_test.TestConfig(t))
	require.NoError(t, err)
	defer cleanup()
	testApp.AdminAPIServer.Start()
	defer func() { _ = testApp.AdminAPIServer.Stop(context.Background()) }()
	baseURL := testApp.AdminAPIServer.GetServerURL()

	dir, err := testApp.DirectoryRegistry.Get(fake_directory.FakeDirectoryName)
	require.NoError(t, err)
	fakeDirectory := dir.(*fake_directory.FakeDirectoryService)
	fakeDirectory.SetUsers(
		directory.UserRecord{"username": "alice"},
		directory.UserRecord{"username": "bob"},
	)

	t.Run("Health", func(t *testing.T) {
		res, err := http.Get(baseURL + "/api/v1/health")
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		var doc map[string]string
		require.NoError(t, json.NewDecoder(res.Body).Decode(&doc))
		assert.Equal(t, "ok", doc["status"])
	})

	t.Run("StatusBeforeFirstRun", func(t *testing.T) {
		res, err := http.Get(baseURL + "/api/v1/sync")
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		var doc documents.SyncStatusDocument
		require.NoError(t, json.NewDecoder(res.Body).Decode(&doc))
		assert.Nil(t, doc.LastReport)
	})

	t.Run("Trigger", func(t *testing.T) {
		body, err := json.Marshal(&documents.TriggerSyncRequest{UpdateUserFields: false})
		require.NoError(t, err)
		res, err := http.Post(baseURL+"/api/v1/sync", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		var report models.SyncReport
		require.NoError(t, json.NewDecoder(res.Body).Decode(&report))
		assert.Equal(t, 2, report.UsersCreated)
	})

	t.Run("StatusAfterRun", func(t *testing.T) {
		res, err := http.Get(baseURL + "/api/v1/sync")
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		var doc documents.SyncStatusDocument
		require.NoError(t, json.NewDecoder(res.Body).Decode(&doc))
		require.NotNil(t, doc.LastReport)
		assert.Equal(t, 2, doc.LastReport.UsersCreated)
	})

	t.Run("EmptyBodyTrigger", func(t *testing.T) {
		res, err := http.Post(baseURL+"/api/v1/sync", "application/json", http.NoBody)
		require.NoError(t, err)
		defer res.Body.Close()
		require.Equal(t, http.StatusOK, res.StatusCode)
		var report models.SyncReport
		require.NoError(t, json.NewDecoder(res.Body).Decode(&report))
		assert.Zero(t, report.UsersCreated)
	})
}
