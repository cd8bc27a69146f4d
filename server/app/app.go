package app

import (
	"github.com/rostersync/rostersync/server/api/rest/server"
	"github.com/rostersync/rostersync/server/services"
	"github.com/rostersync/rostersync/server/services/directory"
	"github.com/rostersync/rostersync/server/store"
)

type Server struct {
	DB                   *store.DB
	UserStore            store.UserStore
	CourseStore          store.CourseStore
	RoleStore            store.RoleStore
	EnrolmentStore       store.EnrolmentStore
	RoleAssignmentStore  store.RoleAssignmentStore
	GroupStore           store.GroupStore
	GroupMembershipStore store.GroupMembershipStore
	SyncService          services.SyncService
	DirectoryRegistry    *directory.Registry
	AdminAPIServer       *server.AdminAPIServer
}

func NewServer(
	db *store.DB,
	userStore store.UserStore,
	courseStore store.CourseStore,
	roleStore store.RoleStore,
	enrolmentStore store.EnrolmentStore,
	roleAssignmentStore store.RoleAssignmentStore,
	groupStore store.GroupStore,
	groupMembershipStore store.GroupMembershipStore,
	syncService services.SyncService,
	directoryRegistry *directory.Registry,
	adminAPIServer *server.AdminAPIServer,
	allDirectories []directory.Directory, // tell Wire the app has a dependency on the directories, to ensure they're created
) *Server {
	return &Server{
		DB:                   db,
		UserStore:            userStore,
		CourseStore:          courseStore,
		RoleStore:            roleStore,
		EnrolmentStore:       enrolmentStore,
		RoleAssignmentStore:  roleAssignmentStore,
		GroupStore:           groupStore,
		GroupMembershipStore: groupMembershipStore,
		SyncService:          syncService,
		DirectoryRegistry:    directoryRegistry,
		AdminAPIServer:       adminAPIServer,
	}
}
