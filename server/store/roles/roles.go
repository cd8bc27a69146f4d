package roles

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/store"
)

func init() {
	store.MustDBModel(&models.Role{})
}

type RoleStore struct {
	table *store.ResourceTable
}

func NewStore(db *store.DB, logFactory logger.LogFactory) *RoleStore {
	return &RoleStore{
		table: store.NewResourceTable(db, logFactory, &models.Role{}),
	}
}

// Create a new role.
// Returns store.ErrAlreadyExists if a role with matching unique properties already exists.
func (d *RoleStore) Create(ctx context.Context, txOrNil *store.Tx, role *models.Role) error {
	return d.table.Create(ctx, txOrNil, role)
}

// Read an existing role, looking it up by ResourceID.
// Returns models.ErrNotFound if the role does not exist.
func (d *RoleStore) Read(ctx context.Context, txOrNil *store.Tx, id models.RoleID) (*models.Role, error) {
	role := &models.Role{}
	return role, d.table.ReadByID(ctx, txOrNil, id.ResourceID, role)
}

// ReadByLookupField reads an existing role, looking it up by the configured local lookup attribute.
// Returns models.ErrNotFound if the role does not exist.
func (d *RoleStore) ReadByLookupField(ctx context.Context, txOrNil *store.Tx, field models.RoleLookupField, value string) (*models.Role, error) {
	column, err := lookupColumn(field)
	if err != nil {
		return nil, err
	}
	role := &models.Role{}
	return role, d.table.ReadWhere(ctx, txOrNil, role, goqu.Ex{column: value})
}

func lookupColumn(field models.RoleLookupField) (string, error) {
	switch field {
	case models.RoleLookupID:
		return "role_id", nil
	case models.RoleLookupShortName:
		return "role_short_name", nil
	}
	return "", fmt.Errorf("error unsupported role lookup field: %q", field)
}
