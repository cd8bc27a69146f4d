package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const UserResourceKind ResourceKind = "user"

type UserID struct {
	ResourceID
}

func NewUserID() UserID {
	return UserID{ResourceID: NewResourceID(UserResourceKind)}
}

func UserIDFromResourceID(id ResourceID) UserID {
	return UserID{ResourceID: id}
}

// CustomFields holds a user's custom profile attributes, persisted as a single
// JSON document. Standard attributes live in their own columns; attributes whose
// field mapping targets a profile field are written here instead.
type CustomFields map[string]string

func (f *CustomFields) Scan(src interface{}) error {
	if src == nil {
		*f = nil
		return nil
	}
	str, ok := src.(string)
	if !ok {
		return fmt.Errorf("error expected string: %#v", src)
	}
	if str == "" {
		*f = nil
		return nil
	}
	return json.Unmarshal([]byte(str), f)
}

func (f CustomFields) Value() (driver.Value, error) {
	if len(f) == 0 {
		return "", nil
	}
	buf, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

type UserMetadata struct {
	ID        UserID `json:"id" goqu:"skipupdate" db:"user_id"`
	CreatedAt Time   `json:"created_at" goqu:"skipupdate" db:"user_created_at"`
	UpdatedAt Time   `json:"updated_at" db:"user_updated_at"`
	DeletedAt *Time  `json:"deleted_at,omitempty" db:"user_deleted_at"`
	ETag      ETag   `json:"etag" db:"user_etag" hash:"ignore"`
}

type UserData struct {
	// Name is the unique local account name the user logs in with.
	Name ResourceName `json:"name" db:"user_name"`
	// AuthType is the authentication method the account was created with.
	// Accounts whose auth type differs from the sync's configured method are never touched.
	AuthType string `json:"auth_type" db:"user_auth_type"`
	Email    string `json:"email" db:"user_email"`
	// IDNumber is the institutional identifier, typically supplied by the external directory.
	IDNumber  string `json:"id_number" db:"user_id_number"`
	FirstName string `json:"first_name" db:"user_first_name"`
	LastName  string `json:"last_name" db:"user_last_name"`
	// Confirmed is set on accounts created from directory data; unconfirmed accounts
	// are self-registrations awaiting email verification.
	Confirmed bool `json:"confirmed" db:"user_confirmed"`
	// Suspended users cannot log in but retain all their data.
	Suspended bool `json:"suspended" db:"user_suspended"`
	// ExternalID records which external system the account was sourced from, if any.
	ExternalID *ExternalResourceID `json:"external_id" db:"user_external_id"`
	// CustomFields holds the user's custom profile attributes.
	CustomFields CustomFields `json:"custom_fields" db:"user_custom_fields"`
}

type User struct {
	UserMetadata
	UserData
}

func NewUser(now Time, data *UserData) *User {
	return &User{
		UserMetadata: UserMetadata{
			ID:        NewUserID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserData: *data,
	}
}

func (m *User) GetID() ResourceID {
	return m.ID.ResourceID
}

func (m *User) GetKind() ResourceKind {
	return UserResourceKind
}

func (m *User) GetCreatedAt() Time {
	return m.CreatedAt
}

func (m *User) GetUpdatedAt() Time {
	return m.UpdatedAt
}

func (m *User) SetUpdatedAt(t Time) {
	m.UpdatedAt = t
}

func (m *User) GetETag() ETag {
	return m.ETag
}

func (m *User) SetETag(eTag ETag) {
	m.ETag = eTag
}

func (m *User) GetDeletedAt() *Time {
	return m.DeletedAt
}

func (m *User) SetDeletedAt(deletedAt *Time) {
	m.DeletedAt = deletedAt
}

func (m *User) IsUnreachable() bool {
	return true
}

func (m *User) Validate() error {
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
	if m.DeletedAt != nil && m.DeletedAt.IsZero() {
		result = multierror.Append(result, errors.New("error deleted at must be set to a valid time"))
	}
	if err := m.Name.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if m.AuthType == "" {
		result = multierror.Append(result, errors.New("error auth type must be set"))
	}
	return result.ErrorOrNil()
}
