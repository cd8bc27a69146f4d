package sync

import (
	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/services/directory"
)

// Standard local user fields a mapping may target. Any other local field name must
// be flagged IsCustom and is written through the user's CustomFields map instead of
// a standard column.
const (
	localFieldUsername  = "username"
	localFieldEmail     = "email"
	localFieldIDNumber  = "idnumber"
	localFieldFirstName = "firstname"
	localFieldLastName  = "lastname"
)

// FieldMapper translates external record attributes into local user fields using a
// configured mapping table. It only ever writes a field whose recomputed value
// differs from the stored one, so callers can use its return value to decide
// whether an update is needed at all.
type FieldMapper struct {
	mappings []FieldMapping
	logger.Log
}

func NewFieldMapper(mappings []FieldMapping, logFactory logger.LogFactory) *FieldMapper {
	return &FieldMapper{
		mappings: mappings,
		Log:      logFactory("FieldMapper"),
	}
}

// NewUserData builds the data for a new local user from an external record.
// The user is created confirmed, with the supplied account name and authentication
// method; every configured mapping present on the record is applied, so a mapping
// for the username field may refine the supplied name.
func (m *FieldMapper) NewUserData(record directory.UserRecord, name models.ResourceName, authType string) *models.UserData {
	data := &models.UserData{
		Name:         name,
		AuthType:     authType,
		Confirmed:    true,
		CustomFields: models.CustomFields{},
	}
	for _, mapping := range m.mappings {
		value, ok := record[mapping.RemoteField]
		if !ok {
			continue
		}
		m.apply(data, mapping, value)
	}
	return data
}

// ApplyUpdates recomputes the mappings flagged update-on-sync against an existing
// user and returns true if any field actually changed. Mappings whose remote
// attribute is absent from the record are left alone.
func (m *FieldMapper) ApplyUpdates(user *models.User, record directory.UserRecord) (changed bool) {
	for _, mapping := range m.mappings {
		if !mapping.UpdateOnSync {
			continue
		}
		value, ok := record[mapping.RemoteField]
		if !ok {
			continue
		}
		if m.apply(&user.UserData, mapping, value) {
			changed = true
		}
	}
	return changed
}

func (m *FieldMapper) apply(data *models.UserData, mapping FieldMapping, value string) bool {
	if mapping.IsCustom {
		if data.CustomFields == nil {
			data.CustomFields = models.CustomFields{}
		}
		if data.CustomFields[mapping.LocalField] == value {
			return false
		}
		data.CustomFields[mapping.LocalField] = value
		return true
	}
	switch mapping.LocalField {
	case localFieldUsername:
		name := models.ResourceName(value)
		if data.Name == name {
			return false
		}
		data.Name = name
		return true
	case localFieldEmail:
		if data.Email == value {
			return false
		}
		data.Email = value
		return true
	case localFieldIDNumber:
		if data.IDNumber == value {
			return false
		}
		data.IDNumber = value
		return true
	case localFieldFirstName:
		if data.FirstName == value {
			return false
		}
		data.FirstName = value
		return true
	case localFieldLastName:
		if data.LastName == value {
			return false
		}
		data.LastName = value
		return true
	default:
		m.Warnf("Ignoring mapping for unknown standard user field %q; flag it as custom to store it as a profile attribute", mapping.LocalField)
		return false
	}
}
