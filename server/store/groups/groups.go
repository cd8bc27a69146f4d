package groups

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/store"
)

func init() {
	_ = models.MutableResource(&models.Group{})
	store.MustDBModel(&models.Group{})
}

type GroupStore struct {
	table *store.ResourceTable
}

func NewStore(db *store.DB, logFactory logger.LogFactory) *GroupStore {
	return &GroupStore{
		table: store.NewResourceTable(db, logFactory, &models.Group{}),
	}
}

// Create a new group.
// Returns store.ErrAlreadyExists if a group with matching unique properties already exists.
func (d *GroupStore) Create(ctx context.Context, txOrNil *store.Tx, groupData *models.GroupData) (*models.Group, error) {
	now := models.NewTime(time.Now())
	group := &models.Group{
		GroupData: *groupData,
		GroupMetadata: models.GroupMetadata{
			ID:        models.NewGroupID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	err := d.table.Create(ctx, txOrNil, group)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Read an existing group, looking it up by ResourceID.
// Returns models.ErrNotFound if the group does not exist.
func (d *GroupStore) Read(ctx context.Context, txOrNil *store.Tx, id models.GroupID) (*models.Group, error) {
	group := &models.Group{}
	return group, d.table.ReadByID(ctx, txOrNil, id.ResourceID, group)
}

// ReadByLookupField reads an existing group within a course, looking it up by the configured
// local lookup attribute. Returns models.ErrNotFound if the group does not exist.
func (d *GroupStore) ReadByLookupField(
	ctx context.Context,
	txOrNil *store.Tx,
	courseID models.CourseID,
	field models.GroupLookupField,
	value string,
) (*models.Group, error) {
	column, err := lookupColumn(field)
	if err != nil {
		return nil, err
	}
	group := &models.Group{}
	whereClause := goqu.Ex{
		"group_course_id": courseID,
		column:            value,
	}
	return group, d.table.ReadWhere(ctx, txOrNil, group, whereClause)
}

// FindOrCreate creates a group if no group in the same course matches on the given
// lookup field, otherwise it reads and returns the existing group.
// Returns the group as it is in the database, and true iff a new group was created.
func (d *GroupStore) FindOrCreate(
	ctx context.Context,
	txOrNil *store.Tx,
	field models.GroupLookupField,
	groupData *models.GroupData,
) (group *models.Group, created bool, err error) {
	lookupValue := groupData.Name
	if field == models.GroupLookupIDNumber {
		lookupValue = groupData.IDNumber
	}
	resource, created, err := d.table.FindOrCreate(ctx, txOrNil,
		func(ctx context.Context, tx *store.Tx) (models.Resource, error) {
			return d.ReadByLookupField(ctx, tx, groupData.CourseID, field, lookupValue)
		},
		func(ctx context.Context, tx *store.Tx) (models.Resource, error) {
			return d.Create(ctx, tx, groupData)
		},
	)
	if err != nil {
		return nil, false, err
	}
	return resource.(*models.Group), created, nil
}

func lookupColumn(field models.GroupLookupField) (string, error) {
	switch field {
	case models.GroupLookupName:
		return "group_name", nil
	case models.GroupLookupIDNumber:
		return "group_id_number", nil
	}
	return "", fmt.Errorf("error unsupported group lookup field: %q", field)
}
