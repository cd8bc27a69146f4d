package courses

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
	_ = models.MutableResource(&models.Course{})
	store.MustDBModel(&models.Course{})
}

type CourseStore struct {
	table *store.ResourceTable
}

func NewStore(db *store.DB, logFactory logger.LogFactory) *CourseStore {
	return &CourseStore{
		table: store.NewResourceTable(db, logFactory, &models.Course{}),
	}
}

// Create a new course.
// Returns store.ErrAlreadyExists if a course with matching unique properties already exists.
func (d *CourseStore) Create(ctx context.Context, txOrNil *store.Tx, courseData *models.CourseData) (*models.Course, error) {
	now := models.NewTime(time.Now())
	course := &models.Course{
		CourseData: *courseData,
		CourseMetadata: models.CourseMetadata{
			ID:        models.NewCourseID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	err := d.table.Create(ctx, txOrNil, course)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Read an existing course, looking it up by ResourceID.
// Returns models.ErrNotFound if the course does not exist.
func (d *CourseStore) Read(ctx context.Context, txOrNil *store.Tx, id models.CourseID) (*models.Course, error) {
	course := &models.Course{}
	return course, d.table.ReadByID(ctx, txOrNil, id.ResourceID, course)
}

// ReadByLookupField reads an existing course, looking it up by the configured local lookup attribute.
// Returns models.ErrNotFound if the course does not exist.
func (d *CourseStore) ReadByLookupField(ctx context.Context, txOrNil *store.Tx, field models.CourseLookupField, value string) (*models.Course, error) {
	column, err := lookupColumn(field)
	if err != nil {
		return nil, err
	}
	course := &models.Course{}
	return course, d.table.ReadWhere(ctx, txOrNil, course, goqu.Ex{column: value})
}

// Update an existing course with optimistic locking. Overrides all previous values using the supplied model.
// Returns store.ErrOptimisticLockFailed if there is an optimistic lock mismatch.
func (d *CourseStore) Update(ctx context.Context, txOrNil *store.Tx, course *models.Course) error {
	return d.table.UpdateByID(ctx, txOrNil, course)
}

func lookupColumn(field models.CourseLookupField) (string, error) {
	switch field {
	case models.CourseLookupID:
		return "course_id", nil
	case models.CourseLookupIDNumber:
		return "course_id_number", nil
	case models.CourseLookupShortName:
		return "course_short_name", nil
	}
	return "", fmt.Errorf("error unsupported course lookup field: %q", field)
}
