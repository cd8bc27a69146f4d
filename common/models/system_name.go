package models

// SystemName is the name of a system that has provided data stored in the database.
// This can include external directories as well as our own sync engine and tools.
type SystemName string

func (s SystemName) String() string {
	return string(s)
}

// RosterSyncSystem is the system name recorded against enrolments, role assignments
// and group memberships created by the reconciler. Records carrying any other system
// name are treated as manually managed and are never altered by a sync run.
const RosterSyncSystem SystemName = "rostersync"

// TestsSystem is the system name to use when data is being created for unit or integration tests
const TestsSystem SystemName = "tests"
