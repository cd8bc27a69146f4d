package models

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const RoleAssignmentResourceKind ResourceKind = "role-assignment"

type RoleAssignmentID struct {
	ResourceID
}

func NewRoleAssignmentID() RoleAssignmentID {
	return RoleAssignmentID{ResourceID: NewResourceID(RoleAssignmentResourceKind)}
}

func RoleAssignmentIDFromResourceID(id ResourceID) RoleAssignmentID {
	return RoleAssignmentID{ResourceID: id}
}

type RoleAssignmentMetadata struct {
	ID        RoleAssignmentID `json:"id" goqu:"skipupdate" db:"role_assignment_id"`
	CreatedAt Time             `json:"created_at" db:"role_assignment_created_at"`
}

type RoleAssignmentData struct {
	// UserID is the id of the user the role is assigned to.
	UserID UserID `json:"user_id" db:"role_assignment_user_id"`
	// CourseID is the course context the role applies within.
	CourseID CourseID `json:"course_id" db:"role_assignment_course_id"`
	// RoleID is the id of the assigned role.
	RoleID RoleID `json:"role_id" db:"role_assignment_role_id"`
	// Component names the system that created the assignment. Only assignments
	// carrying the sync engine's SystemName are ever removed or replaced by it.
	Component SystemName `json:"component" db:"role_assignment_component"`
	// ItemID is the id of the enrolment method instance that owns the assignment.
	// A zero ItemID on a sync-owned assignment is a legacy defect and is removed
	// unconditionally during reconciliation.
	ItemID EnrolmentMethodID `json:"item_id" db:"role_assignment_item_id"`
}

type RoleAssignment struct {
	RoleAssignmentMetadata
	RoleAssignmentData
}

func NewRoleAssignment(now Time, data *RoleAssignmentData) *RoleAssignment {
	return &RoleAssignment{
		RoleAssignmentMetadata: RoleAssignmentMetadata{
			ID:        NewRoleAssignmentID(),
			CreatedAt: now,
		},
		RoleAssignmentData: *data,
	}
}

func (m *RoleAssignment) GetID() ResourceID {
	return m.ID.ResourceID
}

func (m *RoleAssignment) GetKind() ResourceKind {
	return RoleAssignmentResourceKind
}

func (m *RoleAssignment) GetCreatedAt() Time {
	return m.CreatedAt
}

func (m *RoleAssignment) Validate() error {
	var result *multierror.Error
	if !m.ID.Valid() {
		result = multierror.Append(result, errors.New("error id must be set"))
	}
	if m.CreatedAt.IsZero() {
		result = multierror.Append(result, errors.New("error created at must be set"))
	}
	err := m.RoleAssignmentData.Validate()
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("data is invalid: %s", err))
	}
	return result.ErrorOrNil()
}

func (m *RoleAssignmentData) Validate() error {
	var result *multierror.Error
	if !m.UserID.Valid() {
		result = multierror.Append(result, errors.New("error user id must be set"))
	}
	if !m.CourseID.Valid() {
		result = multierror.Append(result, errors.New("error course id must be set"))
	}
	if !m.RoleID.Valid() {
		result = multierror.Append(result, errors.New("error role id must be set"))
	}
	if m.Component == "" {
		result = multierror.Append(result, errors.New("error component must be set"))
	}
	return result.ErrorOrNil()
}
