package users

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/store"
)

func init() {
	_ = models.MutableResource(&models.User{})
	_ = models.SoftDeletableResource(&models.User{})
	store.MustDBModel(&models.User{})
}

type UserStore struct {
	table *store.ResourceTable
}

func NewStore(db *store.DB, logFactory logger.LogFactory) *UserStore {
	return &UserStore{
		table: store.NewResourceTable(db, logFactory, &models.User{}),
	}
}

// Create a new user.
// Returns store.ErrAlreadyExists if a user with matching unique properties already exists.
func (d *UserStore) Create(ctx context.Context, txOrNil *store.Tx, userData *models.UserData) (*models.User, error) {
	now := models.NewTime(time.Now())
	user := &models.User{
		UserData: *userData,
		UserMetadata: models.UserMetadata{
			ID:        models.NewUserID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	err := d.table.Create(ctx, txOrNil, user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Read an existing user, looking it up by ResourceID.
// Returns models.ErrNotFound if the user does not exist.
func (d *UserStore) Read(ctx context.Context, txOrNil *store.Tx, id models.UserID) (*models.User, error) {
	user := &models.User{}
	return user, d.table.ReadByID(ctx, txOrNil, id.ResourceID, user)
}

// ReadByName reads an existing user, looking it up by its unique account name.
// Returns models.ErrNotFound if the user does not exist.
func (d *UserStore) ReadByName(ctx context.Context, txOrNil *store.Tx, name models.ResourceName) (*models.User, error) {
	user := &models.User{}
	return user, d.table.ReadWhere(ctx, txOrNil, user, goqu.Ex{"user_name": name})
}

// ReadByLookupField reads an existing user, looking it up by the configured local lookup attribute.
// Returns models.ErrNotFound if the user does not exist.
func (d *UserStore) ReadByLookupField(ctx context.Context, txOrNil *store.Tx, field models.UserLookupField, value string) (*models.User, error) {
	column, err := lookupColumn(field)
	if err != nil {
		return nil, err
	}
	user := &models.User{}
	return user, d.table.ReadWhere(ctx, txOrNil, user, goqu.Ex{column: value})
}

// Update an existing user with optimistic locking. Overrides all previous values using the supplied model.
// Returns store.ErrOptimisticLockFailed if there is an optimistic lock mismatch.
func (d *UserStore) Update(ctx context.Context, txOrNil *store.Tx, user *models.User) error {
	return d.table.UpdateByID(ctx, txOrNil, user)
}

// SoftDelete marks an existing user as deleted. The user's enrolment records are not touched.
func (d *UserStore) SoftDelete(ctx context.Context, txOrNil *store.Tx, user *models.User) error {
	return d.table.SoftDelete(ctx, txOrNil, user)
}

// ListByAuthType lists all users created with the specified authentication method.
// If excludeSuspended is true then suspended users are not returned.
// Use cursor to page through results, if any.
func (d *UserStore) ListByAuthType(
	ctx context.Context,
	txOrNil *store.Tx,
	authType string,
	excludeSuspended bool,
	pagination models.Pagination,
) ([]*models.User, *models.Cursor, error) {
	usersSelect := goqu.
		From(d.table.TableName()).
		Select(&models.User{}).
		Where(goqu.Ex{"user_auth_type": authType})
	if excludeSuspended {
		usersSelect = usersSelect.Where(goqu.Ex{"user_suspended": false})
	}
	var users []*models.User
	cursor, err := d.table.ListIn(ctx, txOrNil, &users, pagination, usersSelect)
	if err != nil {
		return nil, nil, err
	}
	return users, cursor, nil
}

func lookupColumn(field models.UserLookupField) (string, error) {
	switch field {
	case models.UserLookupID:
		return "user_id", nil
	case models.UserLookupIDNumber:
		return "user_id_number", nil
	case models.UserLookupEmail:
		return "user_email", nil
	case models.UserLookupUsername:
		return "user_name", nil
	}
	return "", fmt.Errorf("error unsupported user lookup field: %q", field)
}
