package groups_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/app/server_test"
)

func TestGroup(t *testing.T) {
	app, cleanup, err := server_test.New(server_test.TestConfig(t))
	if err != nil {
		t.Fatalf("Error initializing app: %s", err)
	}
	defer cleanup()

	ctx := context.Background()

	course, err := app.CourseStore.Create(ctx, nil, &models.CourseData{
		Name:      "Group Course",
		ShortName: "group-course",
		IDNumber:  "G-101",
	})
	require.NoError(t, err)

	group, err := app.GroupStore.Create(ctx, nil, &models.GroupData{
		CourseID: course.ID,
		Name:     "group-red",
		IDNumber: "RED-1",
	})
	require.NoError(t, err)

	t.Run("Read", func(t *testing.T) {
		read, err := app.GroupStore.Read(ctx, nil, group.ID)
		require.NoError(t, err)
		assert.Equal(t, group.ID, read.ID)
		assert.Equal(t, course.ID, read.CourseID)
		assert.Equal(t, "group-red", read.Name)
		assert.Equal(t, "RED-1", read.IDNumber)
	})

	t.Run("ReadByLookupField", func(t *testing.T) {
		byName, err := app.GroupStore.ReadByLookupField(ctx, nil, course.ID, models.GroupLookupName, "group-red")
		require.NoError(t, err)
		assert.Equal(t, group.ID, byName.ID)

		byIDNumber, err := app.GroupStore.ReadByLookupField(ctx, nil, course.ID, models.GroupLookupIDNumber, "RED-1")
		require.NoError(t, err)
		assert.Equal(t, group.ID, byIDNumber.ID)

		// Lookups are scoped to the course.
		otherCourse, err := app.CourseStore.Create(ctx, nil, &models.CourseData{
			Name:      "Other Course",
			ShortName: "other-course",
			IDNumber:  "G-102",
		})
		require.NoError(t, err)
		_, err = app.GroupStore.ReadByLookupField(ctx, nil, otherCourse.ID, models.GroupLookupName, "group-red")
		require.Error(t, err)
		assert.True(t, gerror.IsNotFound(err))
	})

	t.Run("FindOrCreate", func(t *testing.T) {
		existing, created, err := app.GroupStore.FindOrCreate(ctx, nil, models.GroupLookupName, &models.GroupData{
			CourseID: course.ID,
			Name:     "group-red",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, group.ID, existing.ID)

		fresh, created, err := app.GroupStore.FindOrCreate(ctx, nil, models.GroupLookupName, &models.GroupData{
			CourseID: course.ID,
			Name:     "group-green",
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, group.ID, fresh.ID)

		// The read is keyed by the given lookup field: matching on idnumber finds
		// the existing group regardless of its name, and a different idnumber
		// creates a new group even though a group with a matching name exists.
		byIDNumber, created, err := app.GroupStore.FindOrCreate(ctx, nil, models.GroupLookupIDNumber, &models.GroupData{
			CourseID: course.ID,
			Name:     "group-crimson",
			IDNumber: "RED-1",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, group.ID, byIDNumber.ID)

		newIDNumber, created, err := app.GroupStore.FindOrCreate(ctx, nil, models.GroupLookupIDNumber, &models.GroupData{
			CourseID: course.ID,
			Name:     "group-crimson",
			IDNumber: "RED-2",
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, group.ID, newIDNumber.ID)
	})
}
