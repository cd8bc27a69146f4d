package sync

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/services/directory"
	"github.com/rostersync/rostersync/server/store"
)

// SyncService implements the diff-and-converge reconciliation of the local store
// against an external directory snapshot. One run processes all external users
// sequentially; a failure on one record is reported and skipped, never aborting
// the rest of the run. Only the initial fetch can fail a run outright.
type SyncService struct {
	db                   *store.DB
	userStore            store.UserStore
	courseStore          store.CourseStore
	roleStore            store.RoleStore
	enrolmentStore       store.EnrolmentStore
	roleAssignmentStore  store.RoleAssignmentStore
	groupStore           store.GroupStore
	groupMembershipStore store.GroupMembershipStore
	directoryRegistry    *directory.Registry
	fieldMapper          *FieldMapper
	config               SyncConfig
	syncTimer            *SyncTimer
	running              atomic.Bool
	lastReport           atomic.Pointer[models.SyncReport]
	logger.Log
}

func NewSyncService(
	db *store.DB,
	userStore store.UserStore,
	courseStore store.CourseStore,
	roleStore store.RoleStore,
	enrolmentStore store.EnrolmentStore,
	roleAssignmentStore store.RoleAssignmentStore,
	groupStore store.GroupStore,
	groupMembershipStore store.GroupMembershipStore,
	directoryRegistry *directory.Registry,
	config SyncConfig,
	clk clock.Clock,
	logFactory logger.LogFactory,
) *SyncService {
	s := &SyncService{
		db:                   db,
		userStore:            userStore,
		courseStore:          courseStore,
		roleStore:            roleStore,
		enrolmentStore:       enrolmentStore,
		roleAssignmentStore:  roleAssignmentStore,
		groupStore:           groupStore,
		groupMembershipStore: groupMembershipStore,
		directoryRegistry:    directoryRegistry,
		fieldMapper:          NewFieldMapper(config.FieldMappings, logFactory),
		config:               config,
		Log:                  logFactory("SyncService"),
	}
	if config.SyncInterval > 0 {
		s.syncTimer = NewSyncTimer(s, config, clk, logFactory)
		s.syncTimer.Start()
	}
	return s
}

func (s *SyncService) Stop() {
	if s.syncTimer != nil {
		s.syncTimer.Stop()
	}
}

// LastReport returns the report from the most recently completed run, or nil if no
// run has completed since startup.
func (s *SyncService) LastReport() *models.SyncReport {
	return s.lastReport.Load()
}

// SyncNow runs a single reconciliation pass against the configured external directory.
// If updateUserFields is true then field mappings flagged update-on-sync are
// re-applied to existing users. Only one run executes at a time; a second caller gets
// an error rather than queueing behind the first.
func (s *SyncService) SyncNow(ctx context.Context, updateUserFields bool) (*models.SyncReport, error) {
	if !s.config.IsConfigured() {
		s.Infof("Sync is not configured; nothing to do")
		return nil, gerror.NewErrSyncNotConfigured("Directory name, remote user field and local user field must all be configured")
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, gerror.NewErrAlreadyExists("A sync run is already in progress")
	}
	defer s.running.Store(false)

	dir, err := s.directoryRegistry.Get(s.config.DirectoryName)
	if err != nil {
		return nil, fmt.Errorf("error getting directory: %w", err)
	}

	s.Infof("Beginning reconciliation run against directory '%s'", dir.Name())
	run := newRunState()

	if s.config.UserSyncEnabled {
		externalUsers, orderedKeys, err := s.fetchUsers(ctx, dir)
		if err != nil {
			return nil, err
		}
		s.syncUsers(ctx, externalUsers, orderedKeys, updateUserFields, run)
	}

	externalEnrolments, err := dir.FetchEnrolments(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching external enrolment list: %w", err)
	}
	s.syncEnrolments(ctx, externalEnrolments, run)

	report := run.finish(models.NewTime(time.Now()))
	s.lastReport.Store(report)
	s.Infof("Reconciliation run completed: %d users created, %d users enrolled, %d enrolments removed, %d missing users, %d missing courses",
		report.UsersCreated, report.UsersEnrolled, report.EnrolmentsRemoved, len(report.MissingUsers), len(report.MissingCourses))
	return report, nil
}

// fetchUsers retrieves the external user list and indexes it by the configured
// remote user key. A record missing the key field invalidates the whole fetch;
// duplicate keys keep the first occurrence and log a warning.
func (s *SyncService) fetchUsers(
	ctx context.Context,
	dir directory.Directory,
) (map[string]directory.UserRecord, []string, error) {
	records, err := dir.FetchUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error fetching external user list: %w", err)
	}
	externalUsers := make(map[string]directory.UserRecord, len(records))
	orderedKeys := make([]string, 0, len(records))
	for _, record := range records {
		key, ok := record[s.config.RemoteUserField]
		if !ok || key == "" {
			return nil, nil, gerror.NewErrInvalidPayload(
				fmt.Sprintf("External user record is missing the mandatory %q field", s.config.RemoteUserField), nil)
		}
		if _, seen := externalUsers[key]; seen {
			s.Warnf("Duplicate external user key %q; keeping the first occurrence", key)
			continue
		}
		externalUsers[key] = record
		orderedKeys = append(orderedKeys, key)
	}
	return externalUsers, orderedKeys, nil
}
