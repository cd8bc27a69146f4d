package sync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/app"
	"github.com/rostersync/rostersync/server/app/server_test"
	"github.com/rostersync/rostersync/server/services/directory"
	"github.com/rostersync/rostersync/server/services/directory/fake_directory"
	"github.com/rostersync/rostersync/server/services/sync"
)

func TestSyncUserRemovalSuspend(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UserRemovalAction = sync.UserRemovalSuspend
	})
	defer cleanup()

	// A manually created account under a different authentication method must never
	// be a removal candidate, no matter what the directory serves.
	manualUser, err := testApp.UserStore.Create(context.Background(), nil, &models.UserData{
		Name:      "manual-admin",
		AuthType:  "manual",
		Email:     "admin@example.com",
		Confirmed: true,
	})
	require.NoError(t, err)

	fakeDirectory.SetUsers(
		directory.UserRecord{"username": testUserName1},
		directory.UserRecord{"username": testUserName2},
	)
	report := runSync(t, testApp)
	assert.Equal(t, 2, report.UsersCreated)

	// Drop bob from the directory; he is suspended, alice and the manual account are not.
	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	report = runSync(t, testApp)
	assert.Equal(t, 1, report.UsersSuspended)
	assert.True(t, readUserByUsername(t, testApp, testUserName2).Suspended)
	assert.False(t, readUserByUsername(t, testApp, testUserName1).Suspended)
	untouched, err := testApp.UserStore.Read(context.Background(), nil, manualUser.ID)
	require.NoError(t, err)
	assert.False(t, untouched.Suspended)

	// An already-suspended user is not suspended again.
	report = runSync(t, testApp)
	assert.Zero(t, report.UsersSuspended)

	// Bob reappearing in the directory revives the account as-is.
	fakeDirectory.SetUsers(
		directory.UserRecord{"username": testUserName1},
		directory.UserRecord{"username": testUserName2},
	)
	report = runSync(t, testApp)
	assert.Equal(t, 1, report.UsersRevived)
	assert.Zero(t, report.UsersCreated)
	assert.False(t, readUserByUsername(t, testApp, testUserName2).Suspended)
}

func TestSyncUserRemovalDelete(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UserRemovalAction = sync.UserRemovalDelete
	})
	defer cleanup()

	fakeDirectory.SetUsers(
		directory.UserRecord{"username": testUserName1},
		directory.UserRecord{"username": testUserName2},
	)
	report := runSync(t, testApp)
	assert.Equal(t, 2, report.UsersCreated)

	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	report = runSync(t, testApp)
	assert.Equal(t, 1, report.UsersDeleted)

	_, err := testApp.UserStore.ReadByLookupField(context.Background(), nil, models.UserLookupUsername, testUserName2)
	require.Error(t, err)
	assert.NotNil(t, gerror.ToNotFound(err))
}

func TestSyncUserRemovalKeep(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, nil)
	defer cleanup()

	fakeDirectory.SetUsers(
		directory.UserRecord{"username": testUserName1},
		directory.UserRecord{"username": testUserName2},
	)
	report := runSync(t, testApp)
	assert.Equal(t, 2, report.UsersCreated)

	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	report = runSync(t, testApp)
	assert.Zero(t, report.UsersSuspended)
	assert.Zero(t, report.UsersDeleted)
	assert.False(t, readUserByUsername(t, testApp, testUserName2).Suspended)
}

// TestSyncEmptyUserListSkipsRemovals verifies the guard against an empty external
// user list: user reconciliation is skipped entirely rather than treating every
// local user as removed.
func TestSyncEmptyUserListSkipsRemovals(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UserRemovalAction = sync.UserRemovalDelete
	})
	defer cleanup()

	fakeDirectory.SetUsers(
		directory.UserRecord{"username": testUserName1},
		directory.UserRecord{"username": testUserName2},
	)
	report := runSync(t, testApp)
	assert.Equal(t, 2, report.UsersCreated)

	fakeDirectory.SetUsers()
	report = runSync(t, testApp)
	assert.Zero(t, report.UsersDeleted)
	readUserByUsername(t, testApp, testUserName1)
	readUserByUsername(t, testApp, testUserName2)
}

// setUpEnrolledUser builds the standard two-course fixture for the unenrol action
// tests: alice enrolled as a student in both courses, then course 2 dropped from
// her external memberships.
func setUpEnrolledUser(t *testing.T, testApp *server_test.TestServer, fakeDirectory *fake_directory.FakeDirectoryService) (*models.User, *models.Course, *models.Course) {
	course1 := createCourse(t, testApp, "Course One", "course-1", testCourseKey1)
	course2 := createCourse(t, testApp, "Course Two", "course-2", testCourseKey2)
	createRole(t, testApp, "Student", testRoleStudent)

	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	fakeDirectory.SetUserEnrolments(testUserName1,
		directory.CourseMembership{CourseKey: testCourseKey1, RoleKey: testRoleStudent},
		directory.CourseMembership{CourseKey: testCourseKey2, RoleKey: testRoleStudent},
	)
	report := runSync(t, testApp)
	require.Equal(t, 1, report.UsersCreated)
	require.Equal(t, 2, report.UsersEnrolled)
	require.Equal(t, 2, report.RoleAssignmentsAdded)

	user := readUserByUsername(t, testApp, testUserName1)
	fakeDirectory.SetUserEnrolments(testUserName1,
		directory.CourseMembership{CourseKey: testCourseKey1, RoleKey: testRoleStudent},
	)
	return user, course1, course2
}

func TestSyncUnenrolActionUnenrol(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UnenrolAction = sync.UnenrolActionUnenrol
	})
	defer cleanup()
	user, course1, course2 := setUpEnrolledUser(t, testApp, fakeDirectory)

	report := runSync(t, testApp)
	assert.Equal(t, 1, report.EnrolmentsRemoved)
	assert.Equal(t, 1, report.RoleAssignmentsRemoved)

	// Course 2's enrolment and role assignment are gone; course 1 is untouched.
	course2Read, err := testApp.CourseStore.Read(context.Background(), nil, course2.ID)
	require.NoError(t, err)
	_, err = testApp.EnrolmentStore.ReadByUserCourseMethod(context.Background(), nil, user.ID, course2.ID, *course2Read.SyncMethodID)
	require.Error(t, err)
	assert.NotNil(t, gerror.ToNotFound(err))
	assert.Empty(t, listSyncRoleAssignments(t, testApp, user.ID, course2.ID))
	assert.Equal(t, models.EnrolmentStatusActive, readSyncEnrolment(t, testApp, user.ID, course1.ID).Status)
	assert.Len(t, listSyncRoleAssignments(t, testApp, user.ID, course1.ID), 1)
}

func TestSyncUnenrolActionSuspend(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UnenrolAction = sync.UnenrolActionSuspend
	})
	defer cleanup()
	user, _, course2 := setUpEnrolledUser(t, testApp, fakeDirectory)

	report := runSync(t, testApp)
	assert.Equal(t, 1, report.EnrolmentsSuspended)
	assert.Equal(t, models.EnrolmentStatusSuspended, readSyncEnrolment(t, testApp, user.ID, course2.ID).Status)
	// Suspension keeps the role assignment so reactivation restores the user fully.
	assert.Len(t, listSyncRoleAssignments(t, testApp, user.ID, course2.ID), 1)

	// Already suspended; a second run records nothing.
	report = runSync(t, testApp)
	assert.Zero(t, report.EnrolmentsSuspended)

	// The membership reappearing reactivates the suspended enrolment.
	fakeDirectory.SetUserEnrolments(testUserName1,
		directory.CourseMembership{CourseKey: testCourseKey1, RoleKey: testRoleStudent},
		directory.CourseMembership{CourseKey: testCourseKey2, RoleKey: testRoleStudent},
	)
	report = runSync(t, testApp)
	assert.Equal(t, 1, report.EnrolmentsReactivated)
	assert.Zero(t, report.UsersEnrolled)
	assert.Equal(t, models.EnrolmentStatusActive, readSyncEnrolment(t, testApp, user.ID, course2.ID).Status)
}

func TestSyncUnenrolActionSuspendNoRoles(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UnenrolAction = sync.UnenrolActionSuspendNoRoles
	})
	defer cleanup()
	user, course1, course2 := setUpEnrolledUser(t, testApp, fakeDirectory)

	report := runSync(t, testApp)
	assert.Equal(t, 1, report.EnrolmentsSuspended)
	assert.Equal(t, models.EnrolmentStatusSuspended, readSyncEnrolment(t, testApp, user.ID, course2.ID).Status)
	assert.Empty(t, listSyncRoleAssignments(t, testApp, user.ID, course2.ID))
	assert.Len(t, listSyncRoleAssignments(t, testApp, user.ID, course1.ID), 1)
}

func TestSyncUnenrolActionKeep(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, nil)
	defer cleanup()
	user, _, course2 := setUpEnrolledUser(t, testApp, fakeDirectory)

	report := runSync(t, testApp)
	assert.Zero(t, report.EnrolmentsRemoved)
	assert.Zero(t, report.EnrolmentsSuspended)
	assert.Equal(t, models.EnrolmentStatusActive, readSyncEnrolment(t, testApp, user.ID, course2.ID).Status)
	assert.Len(t, listSyncRoleAssignments(t, testApp, user.ID, course2.ID), 1)
}

// TestSyncUnenrolActionUnrecognized verifies an unrecognized unenrol action is
// treated as keep rather than escalating to a removal.
func TestSyncUnenrolActionUnrecognized(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UnenrolAction = sync.UnenrolAction("purge")
	})
	defer cleanup()
	user, _, course2 := setUpEnrolledUser(t, testApp, fakeDirectory)

	report := runSync(t, testApp)
	assert.Zero(t, report.EnrolmentsRemoved)
	assert.Zero(t, report.EnrolmentsSuspended)
	assert.Equal(t, models.EnrolmentStatusActive, readSyncEnrolment(t, testApp, user.ID, course2.ID).Status)
	assert.Len(t, listSyncRoleAssignments(t, testApp, user.ID, course2.ID), 1)
}

// TestSyncUserRemovalUnrecognized verifies an unrecognized user removal action is
// treated as keep rather than escalating to a suspension or deletion.
func TestSyncUserRemovalUnrecognized(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UserRemovalAction = sync.UserRemovalAction("purge")
	})
	defer cleanup()

	fakeDirectory.SetUsers(
		directory.UserRecord{"username": testUserName1},
		directory.UserRecord{"username": testUserName2},
	)
	report := runSync(t, testApp)
	assert.Equal(t, 2, report.UsersCreated)

	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	report = runSync(t, testApp)
	assert.Zero(t, report.UsersSuspended)
	assert.Zero(t, report.UsersDeleted)
	assert.False(t, readUserByUsername(t, testApp, testUserName2).Suspended)
}
