package sync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"

	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/app"
	"github.com/rostersync/rostersync/server/app/server_test"
	"github.com/rostersync/rostersync/server/services/directory"
)

const (
	testGroupName1 = "group-red"
	testGroupName2 = "group-green"
	testGroupName3 = "group-blue"
)

func readGroupByName(t *testing.T, testApp *server_test.TestServer, courseID models.CourseID, name string) *models.Group {
	group, err := testApp.GroupStore.ReadByLookupField(context.Background(), nil, courseID, models.GroupLookupName, name)
	require.NoError(t, err)
	return group
}

func isGroupMember(t *testing.T, testApp *server_test.TestServer, groupID models.GroupID, userID models.UserID) bool {
	_, err := testApp.GroupMembershipStore.ReadByMember(context.Background(), nil, groupID, userID, models.RosterSyncSystem)
	return err == nil
}

func TestSyncGroupConvergence(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.LocalGroupField = models.GroupLookupName
	})
	defer cleanup()

	course1 := createCourse(t, testApp, "Course One", "course-1", testCourseKey1)
	createRole(t, testApp, "Student", testRoleStudent)

	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{
		CourseKey: testCourseKey1,
		RoleKey:   testRoleStudent,
		Groups:    []string{testGroupName1, testGroupName2},
	})

	// Both groups are auto-created on first sight and the user joins them.
	report := runSync(t, testApp)
	assert.Equal(t, 2, report.GroupsCreated)
	assert.Equal(t, 2, report.GroupMembershipsAdded)
	assert.Zero(t, report.GroupMembershipsRemoved)

	user := readUserByUsername(t, testApp, testUserName1)
	group1 := readGroupByName(t, testApp, course1.ID, testGroupName1)
	group2 := readGroupByName(t, testApp, course1.ID, testGroupName2)
	assert.True(t, isGroupMember(t, testApp, group1.ID, user.ID))
	assert.True(t, isGroupMember(t, testApp, group2.ID, user.ID))

	t.Run("ConvergeOnNewGroupSet", func(t *testing.T) {
		fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{
			CourseKey: testCourseKey1,
			RoleKey:   testRoleStudent,
			Groups:    []string{testGroupName2, testGroupName3},
		})

		report := runSync(t, testApp)
		assert.Equal(t, 1, report.GroupsCreated)
		assert.Equal(t, 1, report.GroupMembershipsAdded)
		assert.Equal(t, 1, report.GroupMembershipsRemoved)

		group3 := readGroupByName(t, testApp, course1.ID, testGroupName3)
		assert.False(t, isGroupMember(t, testApp, group1.ID, user.ID))
		assert.True(t, isGroupMember(t, testApp, group2.ID, user.ID))
		assert.True(t, isGroupMember(t, testApp, group3.ID, user.ID))

		// The emptied group itself is kept; only the membership is sync-owned.
		readGroupByName(t, testApp, course1.ID, testGroupName1)
	})

	t.Run("NoDeclaredGroupsLeavesMembershipsAlone", func(t *testing.T) {
		fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{
			CourseKey: testCourseKey1,
			RoleKey:   testRoleStudent,
		})

		report := runSync(t, testApp)
		assert.Zero(t, report.GroupMembershipsAdded)
		assert.Zero(t, report.GroupMembershipsRemoved)
		assert.True(t, isGroupMember(t, testApp, group2.ID, user.ID))
	})
}

// TestSyncGroupsDisabled verifies that with no local group field configured the
// declared groups are ignored entirely.
func TestSyncGroupsDisabled(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, nil)
	defer cleanup()

	createCourse(t, testApp, "Course One", "course-1", testCourseKey1)
	createRole(t, testApp, "Student", testRoleStudent)
	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{
		CourseKey: testCourseKey1,
		RoleKey:   testRoleStudent,
		Groups:    []string{testGroupName1},
	})

	report := runSync(t, testApp)
	assert.Equal(t, 1, report.UsersEnrolled)
	assert.Zero(t, report.GroupsCreated)
	assert.Zero(t, report.GroupMembershipsAdded)
}

// TestSyncDefaultRole verifies memberships that declare no role fall back to the
// configured default role, and memberships with an unknown role key do the same.
func TestSyncDefaultRole(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, func(config *app.ServerConfig) {
		config.SyncConfig.DefaultRoleKey = testRoleStudent
	})
	defer cleanup()

	course1 := createCourse(t, testApp, "Course One", "course-1", testCourseKey1)
	course2 := createCourse(t, testApp, "Course Two", "course-2", testCourseKey2)
	studentRole := createRole(t, testApp, "Student", testRoleStudent)

	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	fakeDirectory.SetUserEnrolments(testUserName1,
		directory.CourseMembership{CourseKey: testCourseKey1},
		directory.CourseMembership{CourseKey: testCourseKey2, RoleKey: "no-such-role"},
	)

	report := runSync(t, testApp)
	assert.Equal(t, 2, report.UsersEnrolled)
	assert.Equal(t, 2, report.RoleAssignmentsAdded)

	user := readUserByUsername(t, testApp, testUserName1)
	for _, course := range []*models.Course{course1, course2} {
		assignments := listSyncRoleAssignments(t, testApp, user.ID, course.ID)
		require.Len(t, assignments, 1)
		assert.Equal(t, studentRole.ID, assignments[0].RoleID)
	}
}

// TestSyncNoRole verifies that without a default role a membership declaring no role
// still enrols the user but assigns nothing.
func TestSyncNoRole(t *testing.T) {
	testApp, fakeDirectory, cleanup := newSyncTestApp(t, nil)
	defer cleanup()

	course1 := createCourse(t, testApp, "Course One", "course-1", testCourseKey1)
	fakeDirectory.SetUsers(directory.UserRecord{"username": testUserName1})
	fakeDirectory.SetUserEnrolments(testUserName1, directory.CourseMembership{CourseKey: testCourseKey1})

	report := runSync(t, testApp)
	assert.Equal(t, 1, report.UsersEnrolled)
	assert.Zero(t, report.RoleAssignmentsAdded)

	user := readUserByUsername(t, testApp, testUserName1)
	assert.Equal(t, models.EnrolmentStatusActive, readSyncEnrolment(t, testApp, user.ID, course1.ID).Status)
	assert.Empty(t, listSyncRoleAssignments(t, testApp, user.ID, course1.ID))
}
