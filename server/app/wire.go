//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/google/wire"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/server/api/rest/server"
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
	"github.com/rostersync/rostersync/server/store/migrations"
	"github.com/rostersync/rostersync/server/store/role_assignments"
	"github.com/rostersync/rostersync/server/store/roles"
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

func New(ctx context.Context, config *ServerConfig) (*Server, func(), error) {
	panic(wire.Build(
		NewServer,
		wire.FieldsOf(new(*ServerConfig), "DatabaseConfig", "SyncConfig", "JSONDirectoryConfig", "AdminAPIConfig", "LogLevels"),
		directory.NewRegistry,
		store.NewDatabase,
		migrations.NewServerMigrateRunner,
		wire.Bind(new(store.MigrationRunner), new(*migrations.GolangMigrateRunner)),

		// Stores
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

		// Services
		sync.NewSyncService,
		wire.Bind(new(services.SyncService), new(*sync.SyncService)),

		// APIs
		server.NewRootAPI,
		server.NewSyncAPI,

		// HTTP Servers
		server.NewAdminAPIServer,
		server.NewAdminAPIRouter,
		server.RealHTTPServerFactory,

		MakeDirectories,
		logger.NewLogRegistry,
		logger.MakeLogrusLogFactoryStdOut,
		clock.New,
	))
}
