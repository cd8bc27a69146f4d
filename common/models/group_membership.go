package models

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const GroupMembershipResourceKind ResourceKind = "group-membership"

type GroupMembershipID struct {
	ResourceID
}

func NewGroupMembershipID() GroupMembershipID {
	return GroupMembershipID{ResourceID: NewResourceID(GroupMembershipResourceKind)}
}

func GroupMembershipIDFromResourceID(id ResourceID) GroupMembershipID {
	return GroupMembershipID{ResourceID: id}
}

type GroupMembershipMetadata struct {
	ID        GroupMembershipID `json:"id" goqu:"skipupdate" db:"group_membership_id"`
	CreatedAt Time              `json:"created_at" db:"group_membership_created_at"`
}

type GroupMembershipData struct {
	// GroupID is the id of the group the user is a member of.
	GroupID GroupID `json:"group_id" db:"group_membership_group_id"`
	// UserID is the id of the member user.
	UserID UserID `json:"user_id" db:"group_membership_user_id"`
	// Component names the system that created the membership. Only memberships
	// carrying the sync engine's SystemName are ever removed by it.
	Component SystemName `json:"component" db:"group_membership_component"`
}

type GroupMembership struct {
	GroupMembershipMetadata
	GroupMembershipData
}

func NewGroupMembershipData(groupID GroupID, userID UserID, component SystemName) *GroupMembershipData {
	return &GroupMembershipData{
		GroupID:   groupID,
		UserID:    userID,
		Component: component,
	}
}

func (m *GroupMembership) GetID() ResourceID {
	return m.ID.ResourceID
}

func (m *GroupMembership) GetKind() ResourceKind {
	return GroupMembershipResourceKind
}

func (m *GroupMembership) GetCreatedAt() Time {
	return m.CreatedAt
}

func (m *GroupMembership) Validate() error {
	var result *multierror.Error
	if !m.ID.Valid() {
		result = multierror.Append(result, errors.New("error id must be set"))
	}
	if m.CreatedAt.IsZero() {
		result = multierror.Append(result, errors.New("error created at must be set"))
	}
	err := m.GroupMembershipData.Validate()
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("data is invalid: %s", err))
	}
	return result.ErrorOrNil()
}

func (m *GroupMembershipData) Validate() error {
	var result *multierror.Error
	if !m.GroupID.Valid() {
		result = multierror.Append(result, errors.New("error group id must be set"))
	}
	if !m.UserID.Valid() {
		result = multierror.Append(result, errors.New("error user id must be set"))
	}
	if m.Component == "" {
		result = multierror.Append(result, errors.New("error component must be set"))
	}
	return result.ErrorOrNil()
}
