package models

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const EnrolmentResourceKind ResourceKind = "enrolment"

type EnrolmentID struct {
	ResourceID
}

func NewEnrolmentID() EnrolmentID {
	return EnrolmentID{ResourceID: NewResourceID(EnrolmentResourceKind)}
}

func EnrolmentIDFromResourceID(id ResourceID) EnrolmentID {
	return EnrolmentID{ResourceID: id}
}

type EnrolmentStatus string

const (
	EnrolmentStatusActive    EnrolmentStatus = "active"
	EnrolmentStatusSuspended EnrolmentStatus = "suspended"
)

func (s EnrolmentStatus) String() string {
	return string(s)
}

func (s EnrolmentStatus) Valid() bool {
	return s == EnrolmentStatusActive || s == EnrolmentStatusSuspended
}

func (s *EnrolmentStatus) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	t, ok := src.(string)
	if !ok {
		return fmt.Errorf("error expected string: %#v", src)
	}
	*s = EnrolmentStatus(t)
	return nil
}

func (s EnrolmentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

type EnrolmentMetadata struct {
	ID        EnrolmentID `json:"id" goqu:"skipupdate" db:"enrolment_id"`
	CreatedAt Time        `json:"created_at" goqu:"skipupdate" db:"enrolment_created_at"`
	UpdatedAt Time        `json:"updated_at" db:"enrolment_updated_at"`
	ETag      ETag        `json:"etag" db:"enrolment_etag" hash:"ignore"`
}

type EnrolmentData struct {
	// UserID is the id of the enrolled user.
	UserID UserID `json:"user_id" db:"enrolment_user_id"`
	// CourseID is the id of the course the user is enrolled in.
	CourseID CourseID `json:"course_id" db:"enrolment_course_id"`
	// MethodID is the id of the enrolment method instance the enrolment was created
	// under. Exactly one enrolment exists per (user, course, method).
	MethodID EnrolmentMethodID `json:"method_id" db:"enrolment_method_id"`
	// Status is active or suspended; it is the only mutable part of an enrolment.
	Status EnrolmentStatus `json:"status" db:"enrolment_status"`
}

type Enrolment struct {
	EnrolmentMetadata
	EnrolmentData
}

func NewEnrolment(now Time, data *EnrolmentData) *Enrolment {
	return &Enrolment{
		EnrolmentMetadata: EnrolmentMetadata{
			ID:        NewEnrolmentID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		EnrolmentData: *data,
	}
}

func (m *Enrolment) GetID() ResourceID {
	return m.ID.ResourceID
}

func (m *Enrolment) GetKind() ResourceKind {
	return EnrolmentResourceKind
}

func (m *Enrolment) GetCreatedAt() Time {
	return m.CreatedAt
}

func (m *Enrolment) GetUpdatedAt() Time {
	return m.UpdatedAt
}

func (m *Enrolment) SetUpdatedAt(t Time) {
	m.UpdatedAt = t
}

func (m *Enrolment) GetETag() ETag {
	return m.ETag
}

func (m *Enrolment) SetETag(eTag ETag) {
	m.ETag = eTag
}

func (m *Enrolment) Validate() error {
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
	if !m.UserID.Valid() {
		result = multierror.Append(result, errors.New("error user id must be set"))
	}
	if !m.CourseID.Valid() {
		result = multierror.Append(result, errors.New("error course id must be set"))
	}
	if !m.MethodID.Valid() {
		result = multierror.Append(result, errors.New("error method id must be set"))
	}
	if !m.Status.Valid() {
		result = multierror.Append(result, fmt.Errorf("error status %q is not a valid enrolment status", m.Status))
	}
	return result.ErrorOrNil()
}
