package sync_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/app"
	"github.com/rostersync/rostersync/server/app/server_test"
	"github.com/rostersync/rostersync/server/services/directory"
	"github.com/rostersync/rostersync/server/services/directory/fake_directory"
	"github.com/rostersync/rostersync/server/services/sync"
)

const (
	testUserName1   = "alice"
	testUserName2   = "bob"
	testCourseKey1  = "COURSE-101"
	testCourseKey2  = "COURSE-102"
	testRoleTeacher = "teacher"
	testRoleStudent = "student"
)

// newSyncTestApp boots a test server wired to the fake directory. The configure
// callback can adjust the sync policy before the app is built; pass nil for the
// defaults from TestConfig.
func newSyncTestApp(t *testing.T, configure func(config *app.ServerConfig)) (*server_test.TestServer, *fake_directory.FakeDirectoryService, func()) {
	config := server_test.TestConfig(t)
	if configure != nil {
		configure(config)
	}
	testApp, cleanup, err := server_test.New(config)
	require.NoError(t, err)
	dir, err := testApp.DirectoryRegistry.Get(fake_directory.FakeDirectoryName)
	require.NoError(t, err)
	fakeDirectory, ok := dir.(*fake_directory.FakeDirectoryService)
	require.True(t, ok)
	return testApp, fakeDirectory, cleanup
}

// runSync performs a reconciliation run without the field-update pass and requires it to succeed.
func runSync(t *testing.T, testApp *server_test.TestServer) *models.SyncReport {
	report, err := testApp.SyncService.SyncNow(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func createCourse(t *testing.T, testApp *server_test.TestServer, name string, shortName string, idNumber string) *models.Course {
	course, err := testApp.CourseStore.Create(context.Background(), nil, &models.CourseData{
		Name:      name,
		ShortName: shortName,
		IDNumber:  idNumber,
	})
	require.NoError(t, err)
	return course
}

func createRole(t *testing.T, testApp *server_test.TestServer, name string, shortName string) *models.Role {
	role := models.NewRole(models.NewTime(time.Now()), name, shortName)
	err := testApp.RoleStore.Create(context.Background(), nil, role)
	require.NoError(t, err)
	return role
}

func readUserByUsername(t *testing.T, testApp *server_test.TestServer, username string) *models.User {
	user, err := testApp.UserStore.ReadByLookupField(context.Background(), nil, models.UserLookupUsername, username)
	require.NoError(t, err)
	return user
}

// readSyncEnrolment reads the enrolment created under the course's sync-managed
// enrolment method.
func readSyncEnrolment(t *testing.T, testApp *server_test.TestServer, userID models.UserID, courseID models.CourseID) *models.Enrolment {
	ctx := context.Background()
	course, err := testApp.CourseStore.Read(ctx, nil, courseID)
	require.NoError(t, err)
	require.NotNil(t, course.SyncMethodID, "course has no sync enrolment method provisioned")
	enrolment, err := testApp.EnrolmentStore.ReadByUserCourseMethod(ctx, nil, userID, courseID, *course.SyncMethodID)
	require.NoError(t, err)
	return enrolment
}

func listSyncRoleAssignments(t *testing.T, testApp *server_test.TestServer, userID models.UserID, courseID models.CourseID) []*models.RoleAssignment {
	component := models.RosterSyncSystem
	assignments, _, err := testApp.RoleAssignmentStore.ListByUserCourse(
		context.Background(), nil, userID, courseID, &component, models.NewPagination(100, nil))
	require.NoError(t, err)
	return assignments
}

// checkReportCounts asserts counters for the phases every test exercises; group
// counters are checked separately by the group convergence tests.
func checkReportCounts(t *testing.T, report *models.SyncReport, usersCreated, usersEnrolled, methodsCreated, rolesAdded int) {
	assert.Equal(t, usersCreated, report.UsersCreated)
	assert.Equal(t, usersEnrolled, report.UsersEnrolled)
	assert.Equal(t, methodsCreated, report.SyncMethodsCreated)
	assert.Equal(t, rolesAdded, report.RoleAssignmentsAdded)
}

func checkReportEmpty(t *testing.T, report *models.SyncReport) {
	assert.Zero(t, report.UsersCreated)
	assert.Zero(t, report.UsersUpdated)
	assert.Zero(t, report.UsersSuspended)
	assert.Zero(t, report.UsersRevived)
	assert.Zero(t, report.UsersDeleted)
	assert.Zero(t, report.UsersSkipped)
	assert.Zero(t, report.UsersEnrolled)
	assert.Zero(t, report.EnrolmentsReactivated)
	assert.Zero(t, report.EnrolmentsSuspended)
	assert.Zero(t, report.EnrolmentsRemoved)
	assert.Zero(t, report.SyncMethodsCreated)
	assert.Zero(t, report.RoleAssignmentsAdded)
	assert.Zero(t, report.RoleAssignmentsRemoved)
	assert.Zero(t, report.GroupsCreated)
	assert.Zero(t, report.GroupMembershipsAdded)
	assert.Zero(t, report.GroupMembershipsRemoved)
	assert.Empty(t, report.MissingUsers)
	assert.Empty(t, report.MissingCourses)
	assert.Empty(t, report.HiddenCourses)
}

func TestSyncWithFakeDirectory(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.FieldMappings = []sync.FieldMapping{
			{RemoteField: "email", LocalField: "email", UpdateOnSync: true},
			{RemoteField: "givenName", LocalField: "firstname"},
			{RemoteField: "familyName", LocalField: "lastname"},
			{RemoteField: "dept", LocalField: "department", IsCustom: true, UpdateOnSync: true},
		}
	})
	defer cleanup()

	course1 := createCourse(t, testApp, "Introduction to Testing", "test-101", testCourseKey1)
	createRole(t, testApp, "Teacher", testRoleTeacher)
	createRole(t, testApp, "Student", testRoleStudent)

	fakeDirectory.SetUsers(
		directory.UserRecord{"username": testUserName1, "email": "alice@example.com", "givenName": "Alice", "familyName": "Anderson", "dept": "Physics"},
		directory.UserRecord{"username": testUserName2, "email": "bob@example.com", "givenName": "Bob", "familyName": "Brown"},
	)
	fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{CourseKey: testCourseKey1, RoleKey: testRoleTeacher})

	report := runSync(t, testApp)
	checkReportCounts(t, report, 2, 1, 1, 1)
	assert.Empty(t, report.MissingUsers)
	assert.Empty(t, report.MissingCourses)

	user1 := readUserByUsername(t, testApp, testUserName1)
	assert.Equal(t, models.ResourceName(testUserName1), user1.Name)
	assert.Equal(t, "external", user1.AuthType)
	assert.Equal(t, "alice@example.com", user1.Email)
	assert.Equal(t, "Alice", user1.FirstName)
	assert.Equal(t, "Anderson", user1.LastName)
	assert.Equal(t, "Physics", user1.CustomFields["department"])
	assert.True(t, user1.Confirmed)
	assert.False(t, user1.Suspended)
	require.NotNil(t, user1.ExternalID)
	assert.Equal(t, fake_directory.FakeDirectoryName, user1.ExternalID.ExternalSystem)
	assert.Equal(t, testUserName1, user1.ExternalID.ResourceID)

	enrolment := readSyncEnrolment(t, testApp, user1.ID, course1.ID)
	assert.Equal(t, models.EnrolmentStatusActive, enrolment.Status)
	assert.Len(t, listSyncRoleAssignments(t, testApp, user1.ID, course1.ID), 1)

	t.Run("SecondRunChangesNothing", testSyncIsIdempotent(testApp))
	t.Run("FieldUpdates", testSyncFieldUpdates(testApp, fakeDirectory))
	t.Run("RoleConvergence", testSyncRoleConvergence(testApp, fakeDirectory, user1, course1))
	t.Run("MissingCourse", testSyncMissingCourse(testApp, fakeDirectory, user1, course1))
	t.Run("MissingUser", testSyncMissingUser(testApp, fakeDirectory))
	t.Run("DuplicateUserKeys", testSyncDuplicateUserKeys(testApp, fakeDirectory))
}

// testSyncIsIdempotent verifies a second run against unchanged external data
// records no work at all.
func testSyncIsIdempotent(testApp *server_test.TestServer) func(t *testing.T) {
	return func(t *testing.T) {
		report := runSync(t, testApp)
		checkReportEmpty(t, report)
	}
}

// testSyncFieldUpdates verifies mapped fields are only re-applied to existing users
// when the field-update pass is requested, and then only for mappings flagged
// update-on-sync.
func testSyncFieldUpdates(
	testApp *server_test.TestServer,
	fakeDirectory *fake_directory.FakeDirectoryService,
) func(t *testing.T) {
	return func(t *testing.T) {
		fakeDirectory.SetUsers(
			directory.UserRecord{"username": testUserName1, "email": "alice.anderson@example.com", "givenName": "Alicia", "dept": "Chemistry"},
			directory.UserRecord{"username": testUserName2, "email": "bob@example.com"},
		)

		// A plain run leaves existing users alone.
		report := runSync(t, testApp)
		assert.Zero(t, report.UsersUpdated)
		unchanged := readUserByUsername(t, testApp, testUserName1)
		assert.Equal(t, "alice@example.com", unchanged.Email)

		// The update pass applies only the update-on-sync mappings; givenName is
		// not flagged so FirstName keeps its creation-time value.
		report, err := testApp.SyncService.SyncNow(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, 1, report.UsersUpdated)
		updated := readUserByUsername(t, testApp, testUserName1)
		assert.Equal(t, "alice.anderson@example.com", updated.Email)
		assert.Equal(t, "Chemistry", updated.CustomFields["department"])
		assert.Equal(t, "Alice", updated.FirstName)

		// A second update pass finds nothing left to change.
		report, err = testApp.SyncService.SyncNow(context.Background(), true)
		require.NoError(t, err)
		assert.Zero(t, report.UsersUpdated)
	}
}

// testSyncRoleConvergence verifies that changing the externally declared role swaps
// the sync-owned role assignment rather than accumulating a second one, and that
// stale and legacy sync-owned assignments are cleared in the same pass.
func testSyncRoleConvergence(
	testApp *server_test.TestServer,
	fakeDirectory *fake_directory.FakeDirectoryService,
	user1 *models.User,
	course1 *models.Course,
) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.Background()
		enrolment := readSyncEnrolment(t, testApp, user1.ID, course1.ID)
		visitorRole := createRole(t, testApp, "Visitor", "visitor")
		guestRole := createRole(t, testApp, "Guest", "guest")

		// A second stale sync-owned assignment plus a legacy assignment with no
		// owning enrolment method, both of which convergence must clear.
		_, err := testApp.RoleAssignmentStore.Create(ctx, nil, &models.RoleAssignmentData{
			UserID:    user1.ID,
			CourseID:  course1.ID,
			RoleID:    visitorRole.ID,
			Component: models.RosterSyncSystem,
			ItemID:    enrolment.MethodID,
		})
		require.NoError(t, err)
		_, err = testApp.RoleAssignmentStore.Create(ctx, nil, &models.RoleAssignmentData{
			UserID:    user1.ID,
			CourseID:  course1.ID,
			RoleID:    guestRole.ID,
			Component: models.RosterSyncSystem,
			ItemID:    models.EnrolmentMethodID{},
		})
		require.NoError(t, err)

		fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{CourseKey: testCourseKey1, RoleKey: testRoleStudent})

		report := runSync(t, testApp)
		assert.Equal(t, 1, report.RoleAssignmentsAdded)
		assert.Equal(t, 3, report.RoleAssignmentsRemoved)

		assignments := listSyncRoleAssignments(t, testApp, user1.ID, course1.ID)
		require.Len(t, assignments, 1)
		role, err := testApp.RoleStore.Read(context.Background(), nil, assignments[0].RoleID)
		require.NoError(t, err)
		assert.Equal(t, testRoleStudent, role.ShortName)

		// Converged; another run has nothing to do.
		report = runSync(t, testApp)
		assert.Zero(t, report.RoleAssignmentsAdded)
		assert.Zero(t, report.RoleAssignmentsRemoved)
	}
}

// testSyncMissingCourse verifies a membership referencing an unknown course key is
// skipped and reported once, without disturbing memberships in known courses.
func testSyncMissingCourse(
	testApp *server_test.TestServer,
	fakeDirectory *fake_directory.FakeDirectoryService,
	user1 *models.User,
	course1 *models.Course,
) func(t *testing.T) {
	return func(t *testing.T) {
		fakeDirectory.SetUserEnrolments(testUserName1,
			directory.CourseMembership{CourseKey: testCourseKey1, RoleKey: testRoleStudent},
			directory.CourseMembership{CourseKey: "no-such-course", RoleKey: testRoleStudent},
		)
		fakeDirectory.SetUserEnrolments(testUserName2,
			directory.CourseMembership{CourseKey: "no-such-course", RoleKey: testRoleStudent},
		)

		report := runSync(t, testApp)
		assert.Equal(t, []string{"no-such-course"}, report.MissingCourses)

		// The existing enrolment in the known course is untouched.
		enrolment := readSyncEnrolment(t, testApp, user1.ID, course1.ID)
		assert.Equal(t, models.EnrolmentStatusActive, enrolment.Status)

		fakeDirectory.SetUserEnrolments(testUserName2)
	}
}

// testSyncMissingUser verifies an enrolment record for an unknown user key is
// skipped and reported once.
func testSyncMissingUser(
	testApp *server_test.TestServer,
	fakeDirectory *fake_directory.FakeDirectoryService,
) func(t *testing.T) {
	return func(t *testing.T) {
		fakeDirectory.SetUserEnrolments("nobody",
			directory.CourseMembership{CourseKey: testCourseKey1, RoleKey: testRoleStudent},
			directory.CourseMembership{CourseKey: testCourseKey1, RoleKey: testRoleTeacher},
		)

		report := runSync(t, testApp)
		assert.Equal(t, []string{"nobody"}, report.MissingUsers)
		assert.Zero(t, report.UsersEnrolled)

		fakeDirectory.SetEnrolments(directory.EnrolmentRecord{
			UserKey: testUserName1,
			Memberships: []directory.CourseMembership{
				{CourseKey: testCourseKey1, RoleKey: testRoleStudent},
			},
		})
	}
}

// testSyncDuplicateUserKeys verifies that when the directory serves two records with
// the same key, the first occurrence wins and the duplicate is discarded.
func testSyncDuplicateUserKeys(
	testApp *server_test.TestServer,
	fakeDirectory *fake_directory.FakeDirectoryService,
) func(t *testing.T) {
	return func(t *testing.T) {
		fakeDirectory.SetUsers(
			directory.UserRecord{"username": testUserName1, "email": "alice.anderson@example.com", "dept": "Chemistry"},
			directory.UserRecord{"username": testUserName1, "email": "impostor@example.com", "dept": "Impostoring"},
			directory.UserRecord{"username": testUserName2, "email": "bob@example.com"},
		)

		report, err := testApp.SyncService.SyncNow(context.Background(), true)
		require.NoError(t, err)
		assert.Zero(t, report.UsersCreated)
		assert.Zero(t, report.UsersUpdated)

		user := readUserByUsername(t, testApp, testUserName1)
		assert.Equal(t, "alice.anderson@example.com", user.Email)
	}
}
