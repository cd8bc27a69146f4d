//go:build wireinject
// +build wireinject

package server_test

import (
	"github.com/benbjohnson/clock"
	"github.com/google/wire"

	"github.com/rostersync/rostersync/common/logger"
	rest_server "github.com/rostersync/rostersync/server/api/rest/server"
	"github.com/rostersync/rostersync/server/api/rest/server/servertest"
	"github.com/rostersync/rostersync/server/app"
	"github.com/rostersync/rostersync/server/services"
	"github.com/rostersync/rostersync/server/services/directory"
	"github.com/rostersync/rostersync/server/services/directory/fake_directory"
	"github.com/rostersync/rostersync/server/services/directory/json_directory"
	"github.com/rostersync/rostersync/server/services/sync"
	"github.com/rostersync/rostersync/server/store"
	"github.com/rostersync/rostersync/server/store/courses"
	"github.com/rostersync/rostersync/server/store/enrolments"
	"github.com/rostersync/rostersync/server/store/group_memberships"
	"github.com/rostersync/rostersync/server/store/groups"
	"github.com/rostersync/rostersync/server/store/role_assignments"
	"github.com/rostersync/rostersync/server/store/roles"
	"github.com/rostersync/rostersync/server/store/store_test"
	"github.com/rostersync/rostersync/server/store/users"
)

func MakeDirectories(
	directoryRegistry *directory.Registry,
	jsonDirectoryConfig json_directory.JSONDirectoryConfig,
	logFactory logger.LogFactory,
) []directory.Directory {
	jsonDirectory := json_directory.NewJSONDirectoryService(jsonDirectoryConfig, logFactory)
	directoryRegistry.Register(jsonDirectory)

	fakeDirectory := fake_directory.NewFakeDirectoryService(logFactory)
	directoryRegistry.Register(fakeDirectory)

	return []directory.Directory{
		jsonDirectory,
		fakeDirectory,
	}
}

func New(config *app.ServerConfig) (*TestServer, func(), error) {
	panic(wire.Build(
		NewTestServer,
		wire.FieldsOf(new(*app.ServerConfig), "SyncConfig", "JSONDirectoryConfig", "AdminAPIConfig", "LogLevels"),
		store_test.Connect,
		directory.NewRegistry,

		users.NewStore,
		wire.Bind(new(store.UserStore), new(*users.UserStore)),
		courses.NewStore,
		wire.Bind(new(store.CourseStore), new(*courses.CourseStore)),
		roles.NewStore,
		wire.Bind(new(store.RoleStore), new(*roles.RoleStore)),
		enrolments.NewStore,
		wire.Bind(new(store.EnrolmentStore), new(*enrolments.EnrolmentStore)),
		role_assignments.NewStore,
		wire.Bind(new(store.RoleAssignmentStore), new(*role_assignments.RoleAssignmentStore)),
		groups.NewStore,
		wire.Bind(new(store.GroupStore), new(*groups.GroupStore)),
		group_memberships.NewStore,
		wire.Bind(new(store.GroupMembershipStore), new(*group_memberships.GroupMembershipStore)),

		sync.NewSyncService,
		wire.Bind(new(services.SyncService), new(*sync.SyncService)),

		rest_server.NewRootAPI,
		rest_server.NewSyncAPI,
		rest_server.NewAdminAPIServer,
		rest_server.NewAdminAPIRouter,
		servertest.HTTPTestServerFactory,

		MakeDirectories,
		logger.NewLogRegistry,
		logger.MakeLogrusLogFactoryStdOut,
		clock.New,
	))
}
