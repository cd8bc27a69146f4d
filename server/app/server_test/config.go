package server_test

import (
	"testing"

	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/api/rest/server"
	"github.com/rostersync/rostersync/server/app"
	"github.com/rostersync/rostersync/server/services/directory/fake_directory"
	"github.com/rostersync/rostersync/server/services/sync"
)

// TestConfig returns a ServerConfig suitable for tests: the fake directory is
// selected, the sync timer is disabled, and removal policies default to keep.
// Tests adjust the config before passing it to New.
func TestConfig(t *testing.T) *app.ServerConfig {
	return &app.ServerConfig{
		SyncConfig: sync.SyncConfig{
			DirectoryName:     fake_directory.FakeDirectoryName,
			UserSyncEnabled:   true,
			RemoteUserField:   "username",
			LocalUserField:    models.UserLookupUsername,
			NewUserAuthType:   "external",
			UserRemovalAction: sync.UserRemovalKeep,
			LocalCourseField:  models.CourseLookupIDNumber,
			LocalRoleField:    models.RoleLookupShortName,
			UnenrolAction:     sync.UnenrolActionKeep,
			SyncInterval:      0, // tests trigger runs explicitly
		},
		AdminAPIConfig: server.AdminAPIServerConfig{
			HTTPServerConfig: server.HTTPServerConfig{
				Address: "", // Test is expected to use httptest server which picks its own address
			},
		},
		LogLevels: "",
	}
}
