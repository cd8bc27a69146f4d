package sync_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/app"
	"github.com/rostersync/rostersync/server/services/directory"
	"github.com/rostersync/rostersync/server/services/sync"
)

func TestSyncNotConfigured(t *testing.T) {
	testApp, _, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.DirectoryName = ""
	})
	defer cleanup()

	report, err := testApp.SyncService.SyncNow(context.Background(), false)
	require.Error(t, err)
	assert.True(t, gerror.IsSyncNotConfigured(err))
	assert.Nil(t, report)
}

func TestSyncFetchErrors(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, nil)
	defer cleanup()

	fakeDirectory.SetUsersError(errors.New("directory unavailable"))
	_, err := testApp.SyncService.SyncNow(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory unavailable")
	assert.Nil(t, testApp.SyncService.LastReport())

	fakeDirectory.SetUsersError(nil)
	fakeDirectory.SetEnrolmentsError(errors.New("enrolment feed unavailable"))
	_, err = testApp.SyncService.SyncNow(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enrolment feed unavailable")
	assert.Nil(t, testApp.SyncService.LastReport())

	fakeDirectory.SetEnrolmentsError(nil)
	report := runSync(t, testApp)
	assert.Equal(t, report, testApp.SyncService.LastReport())
}

// TestSyncInvalidUserRecord verifies a record without the configured remote key
// field invalidates the entire fetch; no users from the batch are created.
func TestSyncInvalidUserRecord(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, nil)
	defer cleanup()

	fakeDirectory.SetUsers(
		directory.UserRecord{"username": testUserName1},
		directory.UserRecord{"email": "nokey@example.com"},
	)

	report, err := testApp.SyncService.SyncNow(context.Background(), false)
	require.Error(t, err)
	assert.True(t, gerror.IsInvalidPayload(err))
	assert.Nil(t, report)

	_, err = testApp.UserStore.ReadByLookupField(context.Background(), nil, models.UserLookupUsername, testUserName1)
	require.Error(t, err)
	assert.NotNil(t, gerror.ToNotFound(err))
}

// TestSyncUsernameCollision verifies that a new external user whose computed account
// name collides with an existing local account is skipped rather than merged. Users
// are matched on idnumber here so the username can collide independently.
func TestSyncUsernameCollision(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.RemoteUserField = "idnumber"
		config.SyncConfig.LocalUserField = models.UserLookupIDNumber
		config.SyncConfig.FieldMappings = []sync.FieldMapping{
			{RemoteField: "username", LocalField: "username"},
		}
	})
	defer cleanup()

	ctx := context.Background()
	_, err := testApp.UserStore.Create(ctx, nil, &models.UserData{
		Name:      "carol",
		AuthType:  "manual",
		Email:     "carol@example.com",
		Confirmed: true,
	})
	require.NoError(t, err)
	_, err = testApp.UserStore.Create(ctx, nil, &models.UserData{
		Name:      "dave",
		AuthType:  "external",
		Email:     "dave@example.com",
		Confirmed: true,
	})
	require.NoError(t, err)

	fakeDirectory.SetUsers(
		// Collides with the manually created account under another auth method.
		directory.UserRecord{"idnumber": "1001", "username": "carol"},
		// Same auth method but the existing account has no matching idnumber.
		directory.UserRecord{"idnumber": "1002", "username": "dave"},
	)

	report := runSync(t, testApp)
	assert.Zero(t, report.UsersCreated)
	assert.Equal(t, 2, report.UsersSkipped)

	// Neither existing account was modified.
	carol, err := testApp.UserStore.ReadByName(ctx, nil, "carol")
	require.NoError(t, err)
	assert.Equal(t, "manual", carol.AuthType)
	assert.Empty(t, carol.IDNumber)
	dave, err := testApp.UserStore.ReadByName(ctx, nil, "dave")
	require.NoError(t, err)
	assert.Empty(t, dave.IDNumber)
}

// TestSyncHiddenCourses verifies hidden courses are skipped and reported when
// configured to be ignored, and synced normally otherwise.
func TestSyncHiddenCourses(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.IgnoreHiddenCourses = true
	})
	defer cleanup()

	ctx := context.Background()
	hidden, err := testApp.CourseStore.Create(ctx, nil, &models.CourseData{
		Name:      "Hidden Course",
		ShortName: "hidden-1",
		IDNumber:  testCourseKey1,
		Hidden:    true,
	})
	require.NoError(t, err)

	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{CourseKey: testCourseKey1})

	report := runSync(t, testApp)
	assert.Equal(t, []string{testCourseKey1}, report.HiddenCourses)
	assert.Zero(t, report.UsersEnrolled)
	assert.Zero(t, report.SyncMethodsCreated)

	// No sync enrolment method was provisioned on the skipped course.
	hiddenRead, err := testApp.CourseStore.Read(ctx, nil, hidden.ID)
	require.NoError(t, err)
	assert.Nil(t, hiddenRead.SyncMethodID)
}

// TestSyncCourseBecomesHidden verifies an enrolment in a course that later becomes
// hidden is left untouched while its membership is still declared externally, even
// with the unenrol action configured to delete unmatched enrolments.
func TestSyncCourseBecomesHidden(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.IgnoreHiddenCourses = true
		config.SyncConfig.UnenrolAction = sync.UnenrolActionUnenrol
	})
	defer cleanup()

	ctx := context.Background()
	course1 := createCourse(t, testApp, "Course One", "course-1", testCourseKey1)
	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{CourseKey: testCourseKey1})

	report := runSync(t, testApp)
	require.Equal(t, 1, report.UsersEnrolled)
	user1 := readUserByUsername(t, testApp, testUserName1)

	courseRead, err := testApp.CourseStore.Read(ctx, nil, course1.ID)
	require.NoError(t, err)
	courseRead.Hidden = true
	err = testApp.CourseStore.Update(ctx, nil, courseRead)
	require.NoError(t, err)

	// The membership is still declared, so hiding the course must not feed the
	// enrolment to the removal sweep.
	report = runSync(t, testApp)
	assert.Equal(t, []string{testCourseKey1}, report.HiddenCourses)
	assert.Zero(t, report.EnrolmentsRemoved)
	assert.Zero(t, report.EnrolmentsSuspended)

	enrolment := readSyncEnrolment(t, testApp, user1.ID, course1.ID)
	assert.Equal(t, models.EnrolmentStatusActive, enrolment.Status)
}

// TestSyncUserSyncDisabled verifies that with user sync off the user phase is
// skipped entirely while enrolments still reconcile against existing users.
func TestSyncUserSyncDisabled(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.UserSyncEnabled = false
	})
	defer cleanup()

	ctx := context.Background()
	user, err := testApp.UserStore.Create(ctx, nil, &models.UserData{
		Name:      testUserName1,
		AuthType:  "external",
		Confirmed: true,
	})
	require.NoError(t, err)
	course1 := createCourse(t, testApp, "Course One", "course-1", testCourseKey1)

	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName2})
	fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{CourseKey: testCourseKey1})

	report := runSync(t, testApp)
	assert.Zero(t, report.UsersCreated)
	assert.Equal(t, 1, report.UsersEnrolled)
	assert.Equal(t, models.EnrolmentStatusActive, readSyncEnrolment(t, testApp, user.ID, course1.ID).Status)
}
