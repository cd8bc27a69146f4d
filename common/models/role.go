package models

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

const RoleResourceKind ResourceKind = "role"

type RoleID struct {
	ResourceID
}

func NewRoleID() RoleID {
	return RoleID{ResourceID: NewResourceID(RoleResourceKind)}
}

func RoleIDFromResourceID(id ResourceID) RoleID {
	return RoleID{ResourceID: id}
}

// Role is an entry in the role lookup table. Roles are administered locally;
// the reconciler only ever references them by the configured local role field.
type Role struct {
	ID        RoleID `json:"id" goqu:"skipupdate" db:"role_id"`
	CreatedAt Time   `json:"created_at" goqu:"skipupdate" db:"role_created_at"`
	// Name is the human-readable name of the role e.g. "Teacher".
	Name string `json:"name" db:"role_name"`
	// ShortName is the unique short name of the role e.g. "teacher".
	ShortName string `json:"short_name" db:"role_short_name"`
}

func NewRole(now Time, name string, shortName string) *Role {
	return &Role{
		ID:        NewRoleID(),
		CreatedAt: now,
		Name:      name,
		ShortName: shortName,
	}
}

func (m *Role) GetID() ResourceID {
	return m.ID.ResourceID
}

func (m *Role) GetKind() ResourceKind {
	return RoleResourceKind
}

func (m *Role) GetCreatedAt() Time {
	return m.CreatedAt
}

func (m *Role) Validate() error {
	var result *multierror.Error
	if !m.ID.Valid() {
		result = multierror.Append(result, errors.New("error id must be set"))
	}
	if m.CreatedAt.IsZero() {
		result = multierror.Append(result, errors.New("error created at must be set"))
	}
	if m.ShortName == "" {
		result = multierror.Append(result, errors.New("error short name must be set"))
	}
	return result.ErrorOrNil()
}
