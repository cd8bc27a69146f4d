package server_test

import (
	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/server/api/rest/server"
	"github.com/rostersync/rostersync/server/services"
	"github.com/rostersync/rostersync/server/services/directory"
	"github.com/rostersync/rostersync/server/store"
)

type TestServer struct {
	DB                   *store.DB
	DirectoryRegistry    *directory.Registry
	UserStore            store.UserStore
	CourseStore          store.CourseStore
	RoleStore            store.RoleStore
	EnrolmentStore       store.EnrolmentStore
	RoleAssignmentStore  store.RoleAssignmentStore
	GroupStore           store.GroupStore
	GroupMembershipStore store.GroupMembershipStore
	SyncService          services.SyncService
	LogFactory           logger.LogFactory

	AdminAPIServer *server.AdminAPIServer
}

func NewTestServer(
	db *store.DB,
	directoryRegistry *directory.Registry,
	userStore store.UserStore,
	courseStore store.CourseStore,
	roleStore store.RoleStore,
	enrolmentStore store.EnrolmentStore,
	roleAssignmentStore store.RoleAssignmentStore,
	groupStore store.GroupStore,
	groupMembershipStore store.GroupMembershipStore,
	syncService services.SyncService,
	logFactory logger.LogFactory,
	adminAPIServer *server.AdminAPIServer,
	allDirectories []directory.Directory, // tell Wire the app has a dependency on the directories, to ensure they're created
) *TestServer {
	return &TestServer{
		DB:                   db,
		DirectoryRegistry:    directoryRegistry,
		UserStore:            userStore,
		CourseStore:          courseStore,
		RoleStore:            roleStore,
		EnrolmentStore:       enrolmentStore,
		RoleAssignmentStore:  roleAssignmentStore,
		GroupStore:           groupStore,
		GroupMembershipStore: groupMembershipStore,
		SyncService:          syncService,
		LogFactory:           logFactory,
		AdminAPIServer:       adminAPIServer,
	}
}
