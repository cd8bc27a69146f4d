package sync

import (
	"time"

	"github.com/rostersync/rostersync/common/models"
)

// courseResolution is the cached outcome of resolving one external course key.
// A key classified missing or hidden stays that way for the remainder of the run.
type courseResolution struct {
	course   *models.Course
	methodID models.EnrolmentMethodID
	missing  bool
	hidden   bool
}

// runState carries the working set for a single reconciliation run: the report under
// construction plus the caches that guarantee each course and role key is resolved
// at most once, and that each missing key is reported exactly once.
type runState struct {
	report         *models.SyncReport
	courseCache    map[string]*courseResolution
	roleCache      map[string]*models.Role // a nil value records an unresolvable key
	defaultRole    *models.Role
	defaultRoleSet bool
	missingUsers   map[string]bool
	missingCourses map[string]bool
	hiddenCourses  map[string]bool
}

func newRunState() *runState {
	return &runState{
		report: &models.SyncReport{
			StartedAt: models.NewTime(time.Now()),
		},
		courseCache:    make(map[string]*courseResolution),
		roleCache:      make(map[string]*models.Role),
		missingUsers:   make(map[string]bool),
		missingCourses: make(map[string]bool),
		hiddenCourses:  make(map[string]bool),
	}
}

// addMissingUser records a remote user key with no matching local user.
// Returns true the first time the key is seen in this run.
func (r *runState) addMissingUser(key string) bool {
	if r.missingUsers[key] {
		return false
	}
	r.missingUsers[key] = true
	r.report.MissingUsers = append(r.report.MissingUsers, key)
	return true
}

// addMissingCourse records a remote course key with no matching local course.
// Returns true the first time the key is seen in this run.
func (r *runState) addMissingCourse(key string) bool {
	if r.missingCourses[key] {
		return false
	}
	r.missingCourses[key] = true
	r.report.MissingCourses = append(r.report.MissingCourses, key)
	return true
}

// addHiddenCourse records a remote course key that resolved to a hidden course
// while hidden courses are being ignored.
// Returns true the first time the key is seen in this run.
func (r *runState) addHiddenCourse(key string) bool {
	if r.hiddenCourses[key] {
		return false
	}
	r.hiddenCourses[key] = true
	r.report.HiddenCourses = append(r.report.HiddenCourses, key)
	return true
}

func (r *runState) finish(now models.Time) *models.SyncReport {
	r.report.FinishedAt = now
	return r.report
}
