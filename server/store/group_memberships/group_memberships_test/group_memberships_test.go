package group_memberships_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/app/server_test"
)

func TestGroupMembership(t *testing.T) {
	app, cleanup, err := server_test.New(server_test.TestConfig(t))
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	component := models.RosterSyncSystem

	user, err := app.UserStore.Create(ctx, nil, &models.UserData{
		Name:      "group-member",
		AuthType:  "external",
		Email:     "member@example.com",
		Confirmed: true,
	})
	require.NoError(t, err)
	course, err := app.CourseStore.Create(ctx, nil, &models.CourseData{
		Name:      "Membership Course",
		ShortName: "membership-course",
		IDNumber:  "G-201",
	})
	require.NoError(t, err)
	group, err := app.GroupStore.Create(ctx, nil, &models.GroupData{
		CourseID: course.ID,
		Name:     "group-blue",
	})
	require.NoError(t, err)

	membership, created, err := app.GroupMembershipStore.FindOrCreate(ctx, nil,
		models.NewGroupMembershipData(group.ID, user.ID, component))
	require.NoError(t, err)
	require.True(t, created)

	t.Run("FindOrCreateExisting", func(t *testing.T) {
		again, created, err := app.GroupMembershipStore.FindOrCreate(ctx, nil,
			models.NewGroupMembershipData(group.ID, user.ID, component))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, membership.ID, again.ID)
	})

	t.Run("ReadByMember", func(t *testing.T) {
		read, err := app.GroupMembershipStore.ReadByMember(ctx, nil, group.ID, user.ID, component)
		require.NoError(t, err)
		assert.Equal(t, membership.ID, read.ID)

		// A membership owned by another component is a distinct record.
		_, err = app.GroupMembershipStore.ReadByMember(ctx, nil, group.ID, user.ID, "manual")
		require.Error(t, err)
		assert.True(t, gerror.IsNotFound(err))
	})

	t.Run("ListByUserCourse", func(t *testing.T) {
		_, err := app.GroupMembershipStore.Create(ctx, nil,
			models.NewGroupMembershipData(group.ID, user.ID, "manual"))
		require.NoError(t, err)

		memberships, _, err := app.GroupMembershipStore.ListByUserCourse(
			ctx, nil, user.ID, course.ID, &component, models.NewPagination(100, nil))
		require.NoError(t, err)
		require.Len(t, memberships, 1)
		assert.Equal(t, membership.ID, memberships[0].ID)

		all, _, err := app.GroupMembershipStore.ListByUserCourse(
			ctx, nil, user.ID, course.ID, nil, models.NewPagination(100, nil))
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("DeleteByMember", func(t *testing.T) {
		require.NoError(t, app.GroupMembershipStore.DeleteByMember(ctx, nil, group.ID, user.ID, component))
		_, err := app.GroupMembershipStore.ReadByMember(ctx, nil, group.ID, user.ID, component)
		assert.True(t, gerror.IsNotFound(err))
		// The other component's membership survives, and deleting again is a no-op.
		_, err = app.GroupMembershipStore.ReadByMember(ctx, nil, group.ID, user.ID, "manual")
		require.NoError(t, err)
		require.NoError(t, app.GroupMembershipStore.DeleteByMember(ctx, nil, group.ID, user.ID, component))
	})
}
