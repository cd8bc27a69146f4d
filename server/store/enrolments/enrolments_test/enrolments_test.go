package enrolments_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/app/server_test"
)

// setUpCourseWithSyncMethod creates a course and provisions its sync-managed
// enrolment method, the way a reconciliation run does on first contact.
func setUpCourseWithSyncMethod(t *testing.T, ctx context.Context, app *server_test.TestServer, idNumber string) *models.Course {
	course, err := app.CourseStore.Create(ctx, nil, &models.CourseData{
		Name:      "Course " + idNumber,
		ShortName: "course-" + idNumber,
		IDNumber:  idNumber,
	})
	require.NoError(t, err)
	methodID := models.NewEnrolmentMethodID()
	course.SyncMethodID = &methodID
	require.NoError(t, app.CourseStore.Update(ctx, nil, course))
	return course
}

func TestEnrolment(t *testing.T) {
	app, cleanup, err := server_test.New(server_test.TestConfig(t))
	if err != nil {
		t.Fatalf("Error initializing app: %s", err)
	}
	defer cleanup()

	ctx := context.Background()

	user, err := app.UserStore.Create(ctx, nil, &models.UserData{
		Name:      "enrolled-user",
		AuthType:  "external",
		Email:     "enrolled@example.com",
		Confirmed: true,
	})
	require.NoError(t, err)
	course := setUpCourseWithSyncMethod(t, ctx, app, "E-101")

	enrolment, err := app.EnrolmentStore.Create(ctx, nil, &models.EnrolmentData{
		UserID:   user.ID,
		CourseID: course.ID,
		MethodID: *course.SyncMethodID,
		Status:   models.EnrolmentStatusActive,
	})
	require.NoError(t, err)

	t.Run("Read", func(t *testing.T) {
		read, err := app.EnrolmentStore.Read(ctx, nil, enrolment.ID)
		require.NoError(t, err)
		assert.Equal(t, enrolment.ID, read.ID)
		assert.Equal(t, user.ID, read.UserID)
		assert.Equal(t, course.ID, read.CourseID)
		assert.Equal(t, *course.SyncMethodID, read.MethodID)
		assert.Equal(t, models.EnrolmentStatusActive, read.Status)
	})

	t.Run("ReadByUserCourseMethod", func(t *testing.T) {
		read, err := app.EnrolmentStore.ReadByUserCourseMethod(ctx, nil, user.ID, course.ID, *course.SyncMethodID)
		require.NoError(t, err)
		assert.Equal(t, enrolment.ID, read.ID)

		// A different method instance never matches.
		_, err = app.EnrolmentStore.ReadByUserCourseMethod(ctx, nil, user.ID, course.ID, models.NewEnrolmentMethodID())
		require.Error(t, err)
		assert.True(t, gerror.IsNotFound(err))
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		_, err := app.EnrolmentStore.Create(ctx, nil, &models.EnrolmentData{
			UserID:   user.ID,
			CourseID: course.ID,
			MethodID: *course.SyncMethodID,
			Status:   models.EnrolmentStatusActive,
		})
		require.Error(t, err)
		require.NotNil(t, gerror.ToAlreadyExists(err))
	})

	t.Run("Update", func(t *testing.T) {
		enrolment.Status = models.EnrolmentStatusSuspended
		require.NoError(t, app.EnrolmentStore.Update(ctx, nil, enrolment))
		read, err := app.EnrolmentStore.Read(ctx, nil, enrolment.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EnrolmentStatusSuspended, read.Status)
	})

	t.Run("ListSyncOwnedByUser", func(t *testing.T) {
		// A second enrolment under another course's sync method, plus one under a
		// foreign method instance which must not be listed.
		course2 := setUpCourseWithSyncMethod(t, ctx, app, "E-102")
		second, err := app.EnrolmentStore.Create(ctx, nil, &models.EnrolmentData{
			UserID:   user.ID,
			CourseID: course2.ID,
			MethodID: *course2.SyncMethodID,
			Status:   models.EnrolmentStatusActive,
		})
		require.NoError(t, err)
		course3, err := app.CourseStore.Create(ctx, nil, &models.CourseData{
			Name:      "Manual Course",
			ShortName: "course-manual",
			IDNumber:  "E-103",
		})
		require.NoError(t, err)
		_, err = app.EnrolmentStore.Create(ctx, nil, &models.EnrolmentData{
			UserID:   user.ID,
			CourseID: course3.ID,
			MethodID: models.NewEnrolmentMethodID(),
			Status:   models.EnrolmentStatusActive,
		})
		require.NoError(t, err)

		var all []*models.Enrolment
		pagination := models.NewPagination(1, nil)
		for moreResults := true; moreResults; {
			enrolments, cursor, err := app.EnrolmentStore.ListSyncOwnedByUser(ctx, nil, user.ID, pagination)
			require.NoError(t, err)
			all = append(all, enrolments...)
			if cursor != nil && cursor.Next != nil {
				pagination.Cursor = cursor.Next // move on to next page of results
			} else {
				moreResults = false
			}
		}
		require.Len(t, all, 2)
		ids := []models.EnrolmentID{all[0].ID, all[1].ID}
		assert.Contains(t, ids, enrolment.ID)
		assert.Contains(t, ids, second.ID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, app.EnrolmentStore.Delete(ctx, nil, enrolment.ID))
		_, err := app.EnrolmentStore.Read(ctx, nil, enrolment.ID)
		assert.True(t, gerror.IsNotFound(err))
		// Deleting again is a no-op.
		require.NoError(t, app.EnrolmentStore.Delete(ctx, nil, enrolment.ID))
	})
}
