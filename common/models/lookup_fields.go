package models

// Lookup fields name the local attribute used to correlate records in the external
// directory with local records. Each entity type supports a fixed set of attributes.

type UserLookupField string

const (
	UserLookupID       UserLookupField = "id"
	UserLookupIDNumber UserLookupField = "idnumber"
	UserLookupEmail    UserLookupField = "email"
	UserLookupUsername UserLookupField = "username"
)

func (f UserLookupField) String() string {
	return string(f)
}

func (f UserLookupField) Valid() bool {
	switch f {
	case UserLookupID, UserLookupIDNumber, UserLookupEmail, UserLookupUsername:
		return true
	}
	return false
}

type CourseLookupField string

const (
	CourseLookupID        CourseLookupField = "id"
	CourseLookupIDNumber  CourseLookupField = "idnumber"
	CourseLookupShortName CourseLookupField = "shortname"
)

func (f CourseLookupField) String() string {
	return string(f)
}

func (f CourseLookupField) Valid() bool {
	switch f {
	case CourseLookupID, CourseLookupIDNumber, CourseLookupShortName:
		return true
	}
	return false
}

type RoleLookupField string

const (
	RoleLookupID        RoleLookupField = "id"
	RoleLookupShortName RoleLookupField = "shortname"
)

func (f RoleLookupField) String() string {
	return string(f)
}

func (f RoleLookupField) Valid() bool {
	switch f {
	case RoleLookupID, RoleLookupShortName:
		return true
	}
	return false
}

type GroupLookupField string

const (
	GroupLookupName     GroupLookupField = "name"
	GroupLookupIDNumber GroupLookupField = "idnumber"
)

func (f GroupLookupField) String() string {
	return string(f)
}

func (f GroupLookupField) Valid() bool {
	switch f {
	case GroupLookupName, GroupLookupIDNumber:
		return true
	}
	return false
}

// LocalKey returns the value of the user's configured lookup attribute, used to
// correlate the user with external directory records.
func (m *User) LocalKey(field UserLookupField) string {
	switch field {
	case UserLookupID:
		return m.ID.String()
	case UserLookupIDNumber:
		return m.IDNumber
	case UserLookupEmail:
		return m.Email
	case UserLookupUsername:
		return m.Name.String()
	}
	return ""
}
