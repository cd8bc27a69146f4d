package enrolments

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/store"
)

func init() {
	_ = models.MutableResource(&models.Enrolment{})
	store.MustDBModel(&models.Enrolment{})
}

type EnrolmentStore struct {
	table *store.ResourceTable
}

func NewStore(db *store.DB, logFactory logger.LogFactory) *EnrolmentStore {
	return &EnrolmentStore{
		table: store.NewResourceTable(db, logFactory, &models.Enrolment{}),
	}
}

// Create a new enrolment.
// Returns store.ErrAlreadyExists if an enrolment with matching unique properties already exists.
func (d *EnrolmentStore) Create(ctx context.Context, txOrNil *store.Tx, enrolmentData *models.EnrolmentData) (*models.Enrolment, error) {
	now := models.NewTime(time.Now())
	enrolment := &models.Enrolment{
		EnrolmentData: *enrolmentData,
		EnrolmentMetadata: models.EnrolmentMetadata{
			ID:        models.NewEnrolmentID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	err := d.table.Create(ctx, txOrNil, enrolment)
	if err != nil {
		return nil, err
	}
	return enrolment, nil
}

// Read an existing enrolment, looking it up by ResourceID.
// Returns models.ErrNotFound if the enrolment does not exist.
func (d *EnrolmentStore) Read(ctx context.Context, txOrNil *store.Tx, id models.EnrolmentID) (*models.Enrolment, error) {
	enrolment := &models.Enrolment{}
	return enrolment, d.table.ReadByID(ctx, txOrNil, id.ResourceID, enrolment)
}

// ReadByUserCourseMethod reads the enrolment for the specified user and course under the
// specified enrolment method instance. Returns models.ErrNotFound if no enrolment exists.
func (d *EnrolmentStore) ReadByUserCourseMethod(
	ctx context.Context,
	txOrNil *store.Tx,
	userID models.UserID,
	courseID models.CourseID,
	methodID models.EnrolmentMethodID,
) (*models.Enrolment, error) {
	enrolment := &models.Enrolment{}
	whereClause := goqu.Ex{
		"enrolment_user_id":   userID,
		"enrolment_course_id": courseID,
		"enrolment_method_id": methodID,
	}
	return enrolment, d.table.ReadWhere(ctx, txOrNil, enrolment, whereClause)
}

// Update an existing enrolment with optimistic locking. Overrides all previous values using the supplied model.
// Returns store.ErrOptimisticLockFailed if there is an optimistic lock mismatch.
func (d *EnrolmentStore) Update(ctx context.Context, txOrNil *store.Tx, enrolment *models.Enrolment) error {
	return d.table.UpdateByID(ctx, txOrNil, enrolment)
}

// Delete permanently and idempotently deletes an enrolment.
func (d *EnrolmentStore) Delete(ctx context.Context, txOrNil *store.Tx, id models.EnrolmentID) error {
	return d.table.DeleteByID(ctx, txOrNil, id.ResourceID)
}

// ListSyncOwnedByUser lists all of a user's enrolments created under a course's sync-managed
// enrolment method instance. Enrolments under any other method are not returned.
// Use cursor to page through results, if any.
func (d *EnrolmentStore) ListSyncOwnedByUser(
	ctx context.Context,
	txOrNil *store.Tx,
	userID models.UserID,
	pagination models.Pagination,
) ([]*models.Enrolment, *models.Cursor, error) {
	enrolmentsSelect := goqu.
		From(d.table.TableName()).
		Select(&models.Enrolment{}).
		Join(goqu.T("courses"),
			goqu.On(goqu.Ex{"enrolments.enrolment_method_id": goqu.I("courses.course_sync_method_id")})).
		Where(goqu.Ex{"enrolment_user_id": userID})

	var enrolments []*models.Enrolment
	cursor, err := d.table.ListIn(ctx, txOrNil, &enrolments, pagination, enrolmentsSelect)
	if err != nil {
		return nil, nil, err
	}
	return enrolments, cursor, nil
}
