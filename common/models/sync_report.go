package models

// SyncReport summarizes a single reconciliation run against the external directory.
// Counters cover only mutations made by the run; a second run over an unchanged
// snapshot produces a report with all counters at zero.
type SyncReport struct {
	StartedAt  Time `json:"started_at"`
	FinishedAt Time `json:"finished_at"`

	UsersCreated   int `json:"users_created"`
	UsersUpdated   int `json:"users_updated"`
	UsersSuspended int `json:"users_suspended"`
	UsersRevived   int `json:"users_revived"`
	UsersDeleted   int `json:"users_deleted"`
	UsersSkipped   int `json:"users_skipped"`

	UsersEnrolled         int `json:"users_enrolled"`
	EnrolmentsReactivated int `json:"enrolments_reactivated"`
	EnrolmentsSuspended   int `json:"enrolments_suspended"`
	EnrolmentsRemoved     int `json:"enrolments_removed"`
	SyncMethodsCreated    int `json:"sync_methods_created"`

	RoleAssignmentsAdded   int `json:"role_assignments_added"`
	RoleAssignmentsRemoved int `json:"role_assignments_removed"`

	GroupsCreated           int `json:"groups_created"`
	GroupMembershipsAdded   int `json:"group_memberships_added"`
	GroupMembershipsRemoved int `json:"group_memberships_removed"`

	// Deduplicated remote keys that could not be matched to local records.
	MissingUsers   []string `json:"missing_users"`
	MissingCourses []string `json:"missing_courses"`
	HiddenCourses  []string `json:"hidden_courses"`
}
