package store

import (
	"context"

	"github.com/rostersync/rostersync/common/models"
)

type UserStore interface {
	// Create a new user.
	// Returns store.ErrAlreadyExists if a user with matching unique properties already exists.
	Create(ctx context.Context, txOrNil *Tx, userData *models.UserData) (*models.User, error)
	// Read an existing user, looking it up by ID.
	// Returns models.ErrNotFound if the user does not exist.
	Read(ctx context.Context, txOrNil *Tx, id models.UserID) (*models.User, error)
	// ReadByName reads an existing user, looking it up by its unique account name.
	// Returns models.ErrNotFound if the user does not exist.
	ReadByName(ctx context.Context, txOrNil *Tx, name models.ResourceName) (*models.User, error)
	// ReadByLookupField reads an existing user, looking it up by the configured local
	// lookup attribute. Returns models.ErrNotFound if the user does not exist.
	ReadByLookupField(ctx context.Context, txOrNil *Tx, field models.UserLookupField, value string) (*models.User, error)
	// Update an existing user with optimistic locking. Overrides all previous values using the supplied model.
	// Returns store.ErrOptimisticLockFailed if there is an optimistic lock mismatch.
	Update(ctx context.Context, txOrNil *Tx, user *models.User) error
	// SoftDelete marks an existing user as deleted. The user's enrolment records are not touched.
	SoftDelete(ctx context.Context, txOrNil *Tx, user *models.User) error
	// ListByAuthType lists all users created with the specified authentication method.
	// If excludeSuspended is true then suspended users are not returned.
	// Use cursor to page through results, if any.
	ListByAuthType(ctx context.Context, txOrNil *Tx, authType string, excludeSuspended bool, pagination models.Pagination) ([]*models.User, *models.Cursor, error)
}

type CourseStore interface {
	// Create a new course.
	// Returns store.ErrAlreadyExists if a course with matching unique properties already exists.
	Create(ctx context.Context, txOrNil *Tx, courseData *models.CourseData) (*models.Course, error)
	// Read an existing course, looking it up by ID.
	// Returns models.ErrNotFound if the course does not exist.
	Read(ctx context.Context, txOrNil *Tx, id models.CourseID) (*models.Course, error)
	// ReadByLookupField reads an existing course, looking it up by the configured local
	// lookup attribute. Returns models.ErrNotFound if the course does not exist.
	ReadByLookupField(ctx context.Context, txOrNil *Tx, field models.CourseLookupField, value string) (*models.Course, error)
	// Update an existing course with optimistic locking. Overrides all previous values using the supplied model.
	// Returns store.ErrOptimisticLockFailed if there is an optimistic lock mismatch.
	Update(ctx context.Context, txOrNil *Tx, course *models.Course) error
}

type RoleStore interface {
	// Create a new role.
	// Returns store.ErrAlreadyExists if a role with matching unique properties already exists.
	Create(ctx context.Context, txOrNil *Tx, role *models.Role) error
	// Read an existing role, looking it up by ID.
	// Returns models.ErrNotFound if the role does not exist.
	Read(ctx context.Context, txOrNil *Tx, id models.RoleID) (*models.Role, error)
	// ReadByLookupField reads an existing role, looking it up by the configured local
	// lookup attribute. Returns models.ErrNotFound if the role does not exist.
	ReadByLookupField(ctx context.Context, txOrNil *Tx, field models.RoleLookupField, value string) (*models.Role, error)
}

type EnrolmentStore interface {
	// Create a new enrolment.
	// Returns store.ErrAlreadyExists if an enrolment with matching unique properties already exists.
	Create(ctx context.Context, txOrNil *Tx, enrolmentData *models.EnrolmentData) (*models.Enrolment, error)
	// Read an existing enrolment, looking it up by ID.
	// Returns models.ErrNotFound if the enrolment does not exist.
	Read(ctx context.Context, txOrNil *Tx, id models.EnrolmentID) (*models.Enrolment, error)
	// ReadByUserCourseMethod reads the enrolment for the specified user and course under the
	// specified enrolment method instance. Returns models.ErrNotFound if no enrolment exists.
	ReadByUserCourseMethod(ctx context.Context, txOrNil *Tx, userID models.UserID, courseID models.CourseID, methodID models.EnrolmentMethodID) (*models.Enrolment, error)
	// Update an existing enrolment with optimistic locking. Overrides all previous values using the supplied model.
	// Returns store.ErrOptimisticLockFailed if there is an optimistic lock mismatch.
	Update(ctx context.Context, txOrNil *Tx, enrolment *models.Enrolment) error
	// Delete permanently and idempotently deletes an enrolment.
	Delete(ctx context.Context, txOrNil *Tx, id models.EnrolmentID) error
	// ListSyncOwnedByUser lists all of a user's enrolments created under a course's
	// sync-managed enrolment method instance. Use cursor to page through results, if any.
	ListSyncOwnedByUser(ctx context.Context, txOrNil *Tx, userID models.UserID, pagination models.Pagination) ([]*models.Enrolment, *models.Cursor, error)
}

type RoleAssignmentStore interface {
	// Create a new role assignment.
	// Returns store.ErrAlreadyExists if a role assignment with matching unique properties already exists.
	Create(ctx context.Context, txOrNil *Tx, assignmentData *models.RoleAssignmentData) (*models.RoleAssignment, error)
	// Delete permanently and idempotently deletes a role assignment.
	Delete(ctx context.Context, txOrNil *Tx, id models.RoleAssignmentID) error
	// DeleteAllForItem permanently and idempotently deletes all role assignments for
	// a user in a course context that are owned by the specified component and owning item.
	DeleteAllForItem(ctx context.Context, txOrNil *Tx, userID models.UserID, courseID models.CourseID, component models.SystemName, itemID models.EnrolmentMethodID) error
	// ListByUserCourse lists the role assignments for a user in a course context.
	// If component is provided then only assignments owned by that component are returned.
	// Use cursor to page through results, if any.
	ListByUserCourse(ctx context.Context, txOrNil *Tx, userID models.UserID, courseID models.CourseID, component *models.SystemName, pagination models.Pagination) ([]*models.RoleAssignment, *models.Cursor, error)
}

type GroupStore interface {
	// Create a new group.
	// Returns store.ErrAlreadyExists if a group with matching unique properties already exists.
	Create(ctx context.Context, txOrNil *Tx, groupData *models.GroupData) (*models.Group, error)
	// Read an existing group, looking it up by ID.
	// Returns models.ErrNotFound if the group does not exist.
	Read(ctx context.Context, txOrNil *Tx, id models.GroupID) (*models.Group, error)
	// ReadByLookupField reads an existing group within a course, looking it up by the
	// configured local lookup attribute. Returns models.ErrNotFound if the group does not exist.
	ReadByLookupField(ctx context.Context, txOrNil *Tx, courseID models.CourseID, field models.GroupLookupField, value string) (*models.Group, error)
	// FindOrCreate creates a group if no group in the same course matches on the given lookup field,
	// otherwise it reads and returns the existing group.
	// Returns the group as it is in the database, and true iff a new group was created.
	FindOrCreate(ctx context.Context, txOrNil *Tx, field models.GroupLookupField, groupData *models.GroupData) (group *models.Group, created bool, err error)
}

type GroupMembershipStore interface {
	// Create a new group membership.
	// Returns store.ErrAlreadyExists if a group membership with matching unique properties already exists.
	Create(ctx context.Context, txOrNil *Tx, membershipData *models.GroupMembershipData) (*models.GroupMembership, error)
	// ReadByMember reads an existing group membership, looking it up by group, user and component.
	// Returns models.ErrNotFound if the group membership does not exist.
	ReadByMember(ctx context.Context, txOrNil *Tx, groupID models.GroupID, userID models.UserID, component models.SystemName) (*models.GroupMembership, error)
	// FindOrCreate finds and returns the group membership with the group, user and component
	// specified in the supplied membership data.
	// If no such membership exists then a new one is created and returned, and true is returned for 'created'.
	FindOrCreate(ctx context.Context, txOrNil *Tx, membershipData *models.GroupMembershipData) (membership *models.GroupMembership, created bool, err error)
	// DeleteByMember removes a user from a group by deleting the membership record owned by
	// the specified component. This method is idempotent.
	DeleteByMember(ctx context.Context, txOrNil *Tx, groupID models.GroupID, userID models.UserID, component models.SystemName) error
	// ListByUserCourse lists a user's group memberships across all groups belonging to the
	// specified course. If component is provided then only memberships owned by that component
	// are returned. Use cursor to page through results, if any.
	ListByUserCourse(ctx context.Context, txOrNil *Tx, userID models.UserID, courseID models.CourseID, component *models.SystemName, pagination models.Pagination) ([]*models.GroupMembership, *models.Cursor, error)
}
