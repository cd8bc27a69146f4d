package models

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

const GroupResourceKind ResourceKind = "group"

type GroupID struct {
	ResourceID
}

func NewGroupID() GroupID {
	return GroupID{ResourceID: NewResourceID(GroupResourceKind)}
}

func GroupIDFromResourceID(id ResourceID) GroupID {
	return GroupID{ResourceID: id}
}

type GroupMetadata struct {
	ID        GroupID `json:"id" goqu:"skipupdate" db:"group_id"`
	CreatedAt Time    `json:"created_at" goqu:"skipupdate" db:"group_created_at"`
	UpdatedAt Time    `json:"updated_at" db:"group_updated_at"`
	ETag      ETag    `json:"etag" db:"group_etag" hash:"ignore"`
}

type GroupData struct {
	// CourseID is the id of the course the group belongs to.
	CourseID CourseID `json:"course_id" db:"group_course_id"`
	// Name of the group, unique within its course.
	Name string `json:"name" db:"group_name"`
	// IDNumber is an optional institutional identifier for the group.
	IDNumber string `json:"id_number" db:"group_id_number"`
}

type Group struct {
	GroupMetadata
	GroupData
}

func NewGroup(now Time, data *GroupData) *Group {
	return &Group{
		GroupMetadata: GroupMetadata{
			ID:        NewGroupID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		GroupData: *data,
	}
}

func (m *Group) GetID() ResourceID {
	return m.ID.ResourceID
}

func (m *Group) GetKind() ResourceKind {
	return GroupResourceKind
}

func (m *Group) GetCreatedAt() Time {
	return m.CreatedAt
}

func (m *Group) GetUpdatedAt() Time {
	return m.UpdatedAt
}

func (m *Group) SetUpdatedAt(t Time) {
	m.UpdatedAt = t
}

func (m *Group) GetETag() ETag {
	return m.ETag
}

func (m *Group) SetETag(eTag ETag) {
	m.ETag = eTag
}

func (m *Group) Validate() error {
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
	if !m.CourseID.Valid() {
		result = multierror.Append(result, errors.New("error course id must be set"))
	}
	if m.Name == "" {
		result = multierror.Append(result, errors.New("error name must be set"))
	}
	return result.ErrorOrNil()
}
