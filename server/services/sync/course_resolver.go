package sync

import (
	"context"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
)

// resolveCourse maps an external course key to a local course plus its sync-managed
// enrolment method, provisioning the method on first use. Outcomes are cached for
// the run, so a key classified missing or hidden is never re-queried and is recorded
// in the report exactly once. Returns nil on a transient store error; transient
// failures are not cached so a later membership may still resolve the key.
func (s *SyncService) resolveCourse(ctx context.Context, courseKey string, run *runState) *courseResolution {
	if resolution, cached := run.courseCache[courseKey]; cached {
		return resolution
	}

	course, err := s.courseStore.ReadByLookupField(ctx, nil, s.config.LocalCourseField, courseKey)
	if err != nil {
		if gerror.IsNotFound(err) {
			resolution := &courseResolution{missing: true}
			run.courseCache[courseKey] = resolution
			if run.addMissingCourse(courseKey) {
				s.Warnf("External course %q has no matching local course; skipping every membership that references it", courseKey)
			}
			return resolution
		}
		s.Warnf("Will ignore error looking up local course for external key %q: %v", courseKey, err)
		return nil
	}

	if course.Hidden && s.config.IgnoreHiddenCourses {
		resolution := &courseResolution{course: course, hidden: true}
		run.courseCache[courseKey] = resolution
		if run.addHiddenCourse(courseKey) {
			s.Infof("Course %q is hidden; skipping its memberships", course.ShortName)
		}
		return resolution
	}

	if course.SyncMethodID == nil {
		methodID := models.NewEnrolmentMethodID()
		course.SyncMethodID = &methodID
		err = s.courseStore.Update(ctx, nil, course)
		if err != nil {
			s.Warnf("Will ignore error provisioning sync enrolment method on course %q: %v", course.ShortName, err)
			return nil
		}
		s.Infof("Provisioned sync enrolment method on course %q", course.ShortName)
		run.report.SyncMethodsCreated++
	}

	resolution := &courseResolution{course: course, methodID: *course.SyncMethodID}
	run.courseCache[courseKey] = resolution
	return resolution
}
