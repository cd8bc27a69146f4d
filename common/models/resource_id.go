package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ResourceID is the globally unique, immutable identifier of a resource, rendered
// as "kind:uuid" e.g. "user:7d44ff2a-914e-4f32-8c25-6b87c2e1a0b4". The zero value
// is invalid and means "no resource".
type ResourceID struct {
	kind ResourceKind
	name string
}

// NewResourceID creates a new random ResourceID of the specified kind.
func NewResourceID(kind ResourceKind) ResourceID {
	return ResourceID{kind: kind, name: uuid.New().String()}
}

// ParseResourceID parses a ResourceID from its "kind:name" string form.
func ParseResourceID(str string) (ResourceID, error) {
	parts := strings.SplitN(str, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ResourceID{}, errors.Errorf("error parsing resource id %q: expected kind:name", str)
	}
	return ResourceID{kind: ResourceKind(parts[0]), name: parts[1]}, nil
}

func (s ResourceID) Kind() ResourceKind {
	return s.kind
}

func (s ResourceID) String() string {
	if !s.Valid() {
		return ""
	}
	return fmt.Sprintf("%s:%s", s.kind, s.name)
}

func (s ResourceID) Valid() bool {
	return s.kind != "" && s.name != ""
}

func (s ResourceID) Equal(other ResourceID) bool {
	return s == other
}

func (s *ResourceID) Scan(src interface{}) error {
	if src == nil {
		*s = ResourceID{}
		return nil
	}
	str, ok := src.(string)
	if !ok {
		return errors.Errorf("error expected string but found: %T", src)
	}
	// Empty string is a valid nil ResourceID
	if str == "" {
		*s = ResourceID{}
		return nil
	}
	id, err := ParseResourceID(str)
	if err != nil {
		return err
	}
	*s = id
	return nil
}

func (s ResourceID) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s ResourceID) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ResourceID) UnmarshalJSON(data []byte) error {
	var str string
	err := json.Unmarshal(data, &str)
	if err != nil {
		return err
	}
	if str == "" {
		*s = ResourceID{}
		return nil
	}
	id, err := ParseResourceID(str)
	if err != nil {
		return err
	}
	*s = id
	return nil
}
