package sync

import (
	"time"

	"github.com/rostersync/rostersync/common/models"
)

// UserRemovalAction controls what happens to a local user that is absent from the
// external directory's user list.
type UserRemovalAction string

const (
	// UserRemovalKeep leaves the local user untouched.
	UserRemovalKeep UserRemovalAction = "keep"
	// UserRemovalSuspend marks the local user suspended; the user is revived if it
	// reappears in the external directory.
	UserRemovalSuspend UserRemovalAction = "suspend"
	// UserRemovalDelete removes the local user. Not reversible by a later run.
	UserRemovalDelete UserRemovalAction = "delete"
)

func (a UserRemovalAction) Valid() bool {
	switch a {
	case UserRemovalKeep, UserRemovalSuspend, UserRemovalDelete:
		return true
	}
	return false
}

// UnenrolAction controls what happens to a sync-owned enrolment whose (user, course)
// pairing is absent from the external directory's enrolment list.
type UnenrolAction string

const (
	// UnenrolActionUnenrol removes the enrolment record entirely.
	UnenrolActionUnenrol UnenrolAction = "unenrol"
	// UnenrolActionKeep leaves the enrolment untouched; the sync is purely additive.
	UnenrolActionKeep UnenrolAction = "keep"
	// UnenrolActionSuspend marks the enrolment suspended.
	UnenrolActionSuspend UnenrolAction = "suspend"
	// UnenrolActionSuspendNoRoles marks the enrolment suspended and removes all
	// sync-owned role assignments for the user in that course.
	UnenrolActionSuspendNoRoles UnenrolAction = "suspend-no-roles"
)

func (a UnenrolAction) Valid() bool {
	switch a {
	case UnenrolActionUnenrol, UnenrolActionKeep, UnenrolActionSuspend, UnenrolActionSuspendNoRoles:
		return true
	}
	return false
}

// FieldMapping maps one attribute of an external user record onto a local user field.
// LocalField either names a standard user field (see field_mapper.go) or, when
// IsCustom is set, a custom profile attribute stored on the user's CustomFields map.
type FieldMapping struct {
	RemoteField  string
	LocalField   string
	IsCustom     bool
	UpdateOnSync bool
}

// SyncConfig is the complete, immutable configuration for reconciliation runs.
// It is passed into the sync service at construction; nothing reads settings from
// process-wide state at run time.
type SyncConfig struct {
	// DirectoryName selects the registered external directory to sync against.
	DirectoryName models.SystemName

	// UserSyncEnabled gates the user reconciliation phase. When false only
	// enrolments, roles and groups are synced.
	UserSyncEnabled bool
	// RemoteUserField names the attribute on external user records that carries the
	// user's remote key. A record without it makes the whole fetch invalid.
	RemoteUserField string
	// LocalUserField selects which local user attribute remote keys are matched against.
	LocalUserField models.UserLookupField
	// NewUserAuthType is the authentication method assigned to users this sync creates.
	// Removal actions only ever apply to local users with this authentication method.
	NewUserAuthType string
	// UserRemovalAction is applied to local users absent from the external user list.
	UserRemovalAction UserRemovalAction
	// FieldMappings populate new users from external records and, for mappings
	// flagged UpdateOnSync, refresh existing users when an update pass is requested.
	FieldMappings []FieldMapping

	// LocalCourseField selects which local course attribute remote course keys are
	// matched against.
	LocalCourseField models.CourseLookupField
	// IgnoreHiddenCourses skips memberships referencing hidden courses.
	IgnoreHiddenCourses bool

	// LocalRoleField selects which local role attribute remote role keys are matched against.
	LocalRoleField models.RoleLookupField
	// DefaultRoleKey is the role used when a membership declares no role, looked up
	// via LocalRoleField. Empty means memberships without a role get no role assignment.
	DefaultRoleKey string

	// LocalGroupField selects which local group attribute remote group keys are
	// matched against. Empty disables group reconciliation entirely.
	LocalGroupField models.GroupLookupField

	// UnenrolAction is applied to sync-owned enrolments absent from the external
	// enrolment list.
	UnenrolAction UnenrolAction

	// SyncInterval is how often the sync timer runs a scheduled reconciliation.
	// Zero disables the timer.
	SyncInterval time.Duration
	// InitialSyncDelay is how long after startup the timer waits before its first run.
	InitialSyncDelay time.Duration
	// RunTimeout bounds a single scheduled reconciliation run. Zero means no limit.
	RunTimeout time.Duration
}

// IsConfigured returns true if enough configuration is present for a reconciliation
// run to be attempted.
func (c SyncConfig) IsConfigured() bool {
	return c.DirectoryName != "" && c.RemoteUserField != "" && c.LocalUserField.Valid()
}
