package group_memberships

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/store"
)

func init() {
	store.MustDBModel(&models.GroupMembership{})
}

type GroupMembershipStore struct {
	table *store.ResourceTable
}

func NewStore(db *store.DB, logFactory logger.LogFactory) *GroupMembershipStore {
	return &GroupMembershipStore{
		table: store.NewResourceTable(db, logFactory, &models.GroupMembership{}),
	}
}

// Create a new group membership.
// Returns store.ErrAlreadyExists if a group membership with matching unique properties already exists.
func (d *GroupMembershipStore) Create(ctx context.Context, txOrNil *store.Tx, membershipData *models.GroupMembershipData) (*models.GroupMembership, error) {
	membership := &models.GroupMembership{
		GroupMembershipData: *membershipData,
		GroupMembershipMetadata: models.GroupMembershipMetadata{
			ID:        models.NewGroupMembershipID(),
			CreatedAt: models.NewTime(time.Now()),
		},
	}
	err := d.table.Create(ctx, txOrNil, membership)
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// ReadByMember reads an existing group membership, looking it up by group, user and the
// component that created it. Returns models.ErrNotFound if the group membership does not exist.
func (d *GroupMembershipStore) ReadByMember(
	ctx context.Context,
	txOrNil *store.Tx,
	groupID models.GroupID,
	userID models.UserID,
	component models.SystemName,
) (*models.GroupMembership, error) {
	membership := &models.GroupMembership{}
	whereClause := goqu.Ex{
		"group_membership_group_id":  groupID,
		"group_membership_user_id":   userID,
		"group_membership_component": component,
	}
	return membership, d.table.ReadWhere(ctx, txOrNil, membership, whereClause)
}

// FindOrCreate finds and returns the group membership with the group, user and component
// specified in the supplied membership data.
// If no such membership exists then a new one is created and returned, and true is returned for 'created'.
func (d *GroupMembershipStore) FindOrCreate(
	ctx context.Context,
	txOrNil *store.Tx,
	membershipData *models.GroupMembershipData,
) (membership *models.GroupMembership, created bool, err error) {
	resource, created, err := d.table.FindOrCreate(ctx, txOrNil,
		func(ctx context.Context, tx *store.Tx) (models.Resource, error) {
			return d.ReadByMember(ctx, tx, membershipData.GroupID, membershipData.UserID, membershipData.Component)
		},
		func(ctx context.Context, tx *store.Tx) (models.Resource, error) {
			return d.Create(ctx, tx, membershipData)
		},
	)
	if err != nil {
		return nil, false, err
	}
	return resource.(*models.GroupMembership), created, nil
}

// DeleteByMember removes a user from a group by deleting the membership record owned by
// the specified component. Membership records created by other components are not touched.
// This method is idempotent.
func (d *GroupMembershipStore) DeleteByMember(
	ctx context.Context,
	txOrNil *store.Tx,
	groupID models.GroupID,
	userID models.UserID,
	component models.SystemName,
) error {
	whereClause := goqu.Ex{
		"group_membership_group_id":  groupID,
		"group_membership_user_id":   userID,
		"group_membership_component": component,
	}
	return d.table.DeleteWhere(ctx, txOrNil, whereClause)
}

// ListByUserCourse lists a user's group memberships across all groups belonging to the
// specified course. If component is provided then only memberships owned by that component
// are returned. Use cursor to page through results, if any.
func (d *GroupMembershipStore) ListByUserCourse(
	ctx context.Context,
	txOrNil *store.Tx,
	userID models.UserID,
	courseID models.CourseID,
	component *models.SystemName,
	pagination models.Pagination,
) ([]*models.GroupMembership, *models.Cursor, error) {
	membershipSelect := goqu.
		From(d.table.TableName()).
		Select(&models.GroupMembership{}).
		Join(goqu.T("groups"),
			goqu.On(goqu.Ex{"group_memberships.group_membership_group_id": goqu.I("groups.group_id")})).
		Where(goqu.Ex{
			"group_membership_user_id": userID,
			"group_course_id":          courseID,
		})
	if component != nil {
		membershipSelect = membershipSelect.Where(goqu.Ex{"group_membership_component": component})
	}

	var memberships []*models.GroupMembership
	cursor, err := d.table.ListIn(ctx, txOrNil, &memberships, pagination, membershipSelect)
	if err != nil {
		return nil, nil, err
	}
	return memberships, cursor, nil
}
