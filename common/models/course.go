package models

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

const CourseResourceKind ResourceKind = "course"

type CourseID struct {
	ResourceID
}

func NewCourseID() CourseID {
	return CourseID{ResourceID: NewResourceID(CourseResourceKind)}
}

func CourseIDFromResourceID(id ResourceID) CourseID {
	return CourseID{ResourceID: id}
}

// EnrolmentMethodResourceKind identifies a sync-managed enrolment method instance
// attached to a course. At most one exists per course; all enrolments, role
// assignments and group memberships created by the reconciler reference it.
const EnrolmentMethodResourceKind ResourceKind = "enrolment-method"

type EnrolmentMethodID struct {
	ResourceID
}

func NewEnrolmentMethodID() EnrolmentMethodID {
	return EnrolmentMethodID{ResourceID: NewResourceID(EnrolmentMethodResourceKind)}
}

func EnrolmentMethodIDFromResourceID(id ResourceID) EnrolmentMethodID {
	return EnrolmentMethodID{ResourceID: id}
}

type CourseMetadata struct {
	ID        CourseID `json:"id" goqu:"skipupdate" db:"course_id"`
	CreatedAt Time     `json:"created_at" goqu:"skipupdate" db:"course_created_at"`
	UpdatedAt Time     `json:"updated_at" db:"course_updated_at"`
	ETag      ETag     `json:"etag" db:"course_etag" hash:"ignore"`
}

type CourseData struct {
	// Name is the full human-readable name of the course.
	Name string `json:"name" db:"course_name"`
	// ShortName is the short, unique name of the course.
	ShortName string `json:"short_name" db:"course_short_name"`
	// IDNumber is the institutional identifier for the course, often matching an
	// external directory's course key. May be empty.
	IDNumber string `json:"id_number" db:"course_id_number"`
	// Hidden courses are not visible to students and can be excluded from sync.
	Hidden bool `json:"hidden" db:"course_hidden"`
	// SyncMethodID is the id of the sync-managed enrolment method instance attached
	// to this course, or nil if none has been provisioned yet.
	SyncMethodID *EnrolmentMethodID `json:"sync_method_id" db:"course_sync_method_id"`
}

type Course struct {
	CourseMetadata
	CourseData
}

func NewCourse(now Time, data *CourseData) *Course {
	return &Course{
		CourseMetadata: CourseMetadata{
			ID:        NewCourseID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CourseData: *data,
	}
}

func (m *Course) GetID() ResourceID {
	return m.ID.ResourceID
}

func (m *Course) GetKind() ResourceKind {
	return CourseResourceKind
}

func (m *Course) GetCreatedAt() Time {
	return m.CreatedAt
}

func (m *Course) GetUpdatedAt() Time {
	return m.UpdatedAt
}

func (m *Course) SetUpdatedAt(t Time) {
	m.UpdatedAt = t
}

func (m *Course) GetETag() ETag {
	return m.ETag
}

func (m *Course) SetETag(eTag ETag) {
	m.ETag = eTag
}

func (m *Course) Validate() error {
	var result *multierror.Error
	if !m.ID.Valid() {
		result = multierror.Append(result, errors.New("error id must be set"))
	}
	if m.CreatedAt.IsZero() {
		result = multierror.Append(result, errors.New("error created at must be set"))
	}
	if m.UpdatedAt.IsZero() {
		result = multierror.Append(result, errors.New("error updated at must be set"))
	}
	if m.ShortName == "" {
		result = multierror.Append(result, errors.New("error short name must be set"))
	}
	if m.SyncMethodID != nil && !m.SyncMethodID.Valid() {
		result = multierror.Append(result, errors.New("error sync method id must be valid when set"))
	}
	return result.ErrorOrNil()
}
