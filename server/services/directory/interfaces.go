package directory

import (
	"context"

	"github.com/rostersync/rostersync/common/models"
)

// UserRecord is one opaque user entry from the external directory. Keys are remote
// attribute names; the sync configuration decides which key identifies the user and
// how the remaining attributes map onto local user fields.
type UserRecord map[string]string

// CourseMembership is one course the external directory declares a user to be a
// member of. RoleKey and Groups are optional; an empty RoleKey means the directory
// does not declare a role for this membership.
type CourseMembership struct {
	CourseKey string
	RoleKey   string
	Groups    []string
}

// EnrolmentRecord is the full set of course memberships the external directory
// declares for a single user, keyed by the user's remote key.
type EnrolmentRecord struct {
	UserKey     string
	Memberships []CourseMembership
}

// Directory is an external source of user and enrolment data that the local store
// is reconciled against. Implementations own transport, authentication and timeouts;
// a fetch either returns a complete decoded snapshot or an error, never a partial one.
type Directory interface {
	// Name returns the unique name of the directory.
	Name() models.SystemName
	// FetchUsers retrieves the complete external user list.
	FetchUsers(ctx context.Context) ([]UserRecord, error)
	// FetchEnrolments retrieves the complete external enrolment list, one record per user.
	FetchEnrolments(ctx context.Context) ([]EnrolmentRecord, error)
}
