package fake_directory

import (
	"context"
	"sync"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/services/directory"
)

const FakeDirectoryName = models.SystemName("fake-directory")

// fakeDirectoryState holds the data the fake directory will serve. Tests set this
// state directly and it is returned through the standard Directory interface.
type fakeDirectoryState struct {
	users         []directory.UserRecord
	enrolments    []directory.EnrolmentRecord
	usersErr      error
	enrolmentsErr error
}

// FakeDirectoryService is an implementation of the Directory interface designed for
// testing. It serves exactly the snapshot a test configures, and can be told to fail
// either fetch to exercise fetch-level error handling.
type FakeDirectoryService struct {
	state fakeDirectoryState
	mutex sync.Mutex
	logger.Log
}

func NewFakeDirectoryService(logFactory logger.LogFactory) *FakeDirectoryService {
	return &FakeDirectoryService{
		Log: logFactory("FakeDirectoryService"),
	}
}

func (s *FakeDirectoryService) Name() models.SystemName {
	return FakeDirectoryName
}

func (s *FakeDirectoryService) FetchUsers(ctx context.Context) ([]directory.UserRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state.usersErr != nil {
		return nil, s.state.usersErr
	}
	users := make([]directory.UserRecord, len(s.state.users))
	copy(users, s.state.users)
	return users, nil
}

func (s *FakeDirectoryService) FetchEnrolments(ctx context.Context) ([]directory.EnrolmentRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.state.enrolmentsErr != nil {
		return nil, s.state.enrolmentsErr
	}
	enrolments := make([]directory.EnrolmentRecord, len(s.state.enrolments))
	copy(enrolments, s.state.enrolments)
	return enrolments, nil
}

// SetUsers replaces the user list the directory will serve.
func (s *FakeDirectoryService) SetUsers(users ...directory.UserRecord) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state.users = users
}

// AddUser appends a record to the user list the directory will serve.
func (s *FakeDirectoryService) AddUser(user directory.UserRecord) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state.users = append(s.state.users, user)
}

// SetEnrolments replaces the enrolment list the directory will serve.
func (s *FakeDirectoryService) SetEnrolments(enrolments ...directory.EnrolmentRecord) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state.enrolments = enrolments
}

// SetUserEnrolments replaces the enrolment record for the specified user key,
// appending a new record if the user has none yet.
func (s *FakeDirectoryService) SetUserEnrolments(userKey string, memberships ...directory.CourseMembership) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i, record := range s.state.enrolments {
		if record.UserKey == userKey {
			s.state.enrolments[i].Memberships = memberships
			return
		}
	}
	s.state.enrolments = append(s.state.enrolments, directory.EnrolmentRecord{
		UserKey:     userKey,
		Memberships: memberships,
	})
}

// SetUsersError makes FetchUsers fail with the supplied error until cleared with nil.
func (s *FakeDirectoryService) SetUsersError(err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state.usersErr = err
}

// SetEnrolmentsError makes FetchEnrolments fail with the supplied error until cleared with nil.
func (s *FakeDirectoryService) SetEnrolmentsError(err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.state.enrolmentsErr = err
}
