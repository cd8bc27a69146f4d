package role_assignments

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/store"
)

func init() {
	store.MustDBModel(&models.RoleAssignment{})
}

type RoleAssignmentStore struct {
	table *store.ResourceTable
}

func NewStore(db *store.DB, logFactory logger.LogFactory) *RoleAssignmentStore {
	return &RoleAssignmentStore{
		table: store.NewResourceTable(db, logFactory, &models.RoleAssignment{}),
	}
}

// Create a new role assignment.
// Returns store.ErrAlreadyExists if a role assignment with matching unique properties already exists.
func (d *RoleAssignmentStore) Create(ctx context.Context, txOrNil *store.Tx, assignmentData *models.RoleAssignmentData) (*models.RoleAssignment, error) {
	now := models.NewTime(time.Now())
	assignment := &models.RoleAssignment{
		RoleAssignmentData: *assignmentData,
		RoleAssignmentMetadata: models.RoleAssignmentMetadata{
			ID:        models.NewRoleAssignmentID(),
			CreatedAt: now,
		},
	}
	err := d.table.Create(ctx, txOrNil, assignment)
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// Delete permanently and idempotently deletes a role assignment.
func (d *RoleAssignmentStore) Delete(ctx context.Context, txOrNil *store.Tx, id models.RoleAssignmentID) error {
	return d.table.DeleteByID(ctx, txOrNil, id.ResourceID)
}

// DeleteAllForItem permanently and idempotently deletes all role assignments for a user
// in a course context that are owned by the specified component and owning item.
func (d *RoleAssignmentStore) DeleteAllForItem(
	ctx context.Context,
	txOrNil *store.Tx,
	userID models.UserID,
	courseID models.CourseID,
	component models.SystemName,
	itemID models.EnrolmentMethodID,
) error {
	whereClause := goqu.Ex{
		"role_assignment_user_id":   userID,
		"role_assignment_course_id": courseID,
		"role_assignment_component": component,
		"role_assignment_item_id":   itemID,
	}
	return d.table.DeleteWhere(ctx, txOrNil, whereClause)
}

// ListByUserCourse lists the role assignments for a user in a course context.
// If component is provided then only assignments owned by that component are returned.
// Use cursor to page through results, if any.
func (d *RoleAssignmentStore) ListByUserCourse(
	ctx context.Context,
	txOrNil *store.Tx,
	userID models.UserID,
	courseID models.CourseID,
	component *models.SystemName,
	pagination models.Pagination,
) ([]*models.RoleAssignment, *models.Cursor, error) {
	assignmentsSelect := goqu.
		From(d.table.TableName()).
		Select(&models.RoleAssignment{}).
		Where(goqu.Ex{
			"role_assignment_user_id":   userID,
			"role_assignment_course_id": courseID,
		})
	if component != nil {
		assignmentsSelect = assignmentsSelect.Where(goqu.Ex{"role_assignment_component": component})
	}
	var assignments []*models.RoleAssignment
	cursor, err := d.table.ListIn(ctx, txOrNil, &assignments, pagination, assignmentsSelect)
	if err != nil {
		return nil, nil, err
	}
	return assignments, cursor, nil
}
