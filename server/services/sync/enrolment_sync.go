package sync

import (
	"context"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/services/directory"
)

// syncEnrolments reconciles enrolments, role assignments and group memberships for
// every user the external directory declares memberships for. Each user is processed
// in isolation; a failure affecting one user never aborts the others.
func (s *SyncService) syncEnrolments(ctx context.Context, records []directory.EnrolmentRecord, run *runState) {
	if len(records) == 0 {
		s.Infof("External directory returned no enrolment records")
		return
	}
	for _, record := range records {
		s.syncUserEnrolments(ctx, record, run)
	}
}

// syncUserEnrolments converges one user's sync-owned enrolments onto their external
// membership list, then sweeps enrolments the external data no longer confirms.
func (s *SyncService) syncUserEnrolments(ctx context.Context, record directory.EnrolmentRecord, run *runState) {
	user, err := s.userStore.ReadByLookupField(ctx, nil, s.config.LocalUserField, record.UserKey)
	if err != nil {
		if gerror.IsNotFound(err) {
			if run.addMissingUser(record.UserKey) {
				s.Warnf("External user %q has no matching local user; skipping their enrolments", record.UserKey)
			}
		} else {
			s.Warnf("Will ignore error looking up local user for external key %q: %v", record.UserKey, err)
		}
		return
	}

	if len(record.Memberships) == 0 {
		s.Infof("External user %q has no enrolments", record.UserKey)
	}

	// confirmed records the enrolment IDs verified present in the external snapshot;
	// everything sync-owned and unconfirmed is a removal candidate for the sweep.
	confirmed := make(map[string]bool)
	for _, membership := range record.Memberships {
		s.syncMembership(ctx, user, membership, confirmed, run)
	}
	s.sweepUnconfirmed(ctx, user, confirmed, run)
}

// syncMembership drives one (user, course) pairing to an active enrolment and then
// converges its role assignment and group memberships.
func (s *SyncService) syncMembership(
	ctx context.Context,
	user *models.User,
	membership directory.CourseMembership,
	confirmed map[string]bool,
	run *runState,
) {
	resolution := s.resolveCourse(ctx, membership.CourseKey, run)
	if resolution == nil || resolution.missing {
		return
	}
	if resolution.hidden {
		// The membership is still declared externally, so an existing enrolment
		// must stay confirmed and out of reach of the removal sweep. Only new
		// enrolments and role and group changes are skipped for hidden courses.
		s.confirmHiddenCourseEnrolment(ctx, user, resolution.course, confirmed)
		return
	}
	course := resolution.course

	enrolment, err := s.enrolmentStore.ReadByUserCourseMethod(ctx, nil, user.ID, course.ID, resolution.methodID)
	switch {
	case err == nil && enrolment.Status == models.EnrolmentStatusActive:
		// Already enrolled and active; only the role needs re-validating.
	case err == nil && enrolment.Status == models.EnrolmentStatusSuspended:
		enrolment.Status = models.EnrolmentStatusActive
		err = s.enrolmentStore.Update(ctx, nil, enrolment)
		if err != nil {
			s.Warnf("Will ignore error reactivating enrolment for user %q in course %q: %v", user.Name, course.ShortName, err)
			return
		}
		s.Infof("Reactivated enrolment for user %q in course %q", user.Name, course.ShortName)
		run.report.EnrolmentsReactivated++
	case gerror.IsNotFound(err):
		enrolment, err = s.enrolmentStore.Create(ctx, nil, &models.EnrolmentData{
			UserID:   user.ID,
			CourseID: course.ID,
			MethodID: resolution.methodID,
			Status:   models.EnrolmentStatusActive,
		})
		if err != nil {
			s.Warnf("Will ignore error enrolling user %q in course %q: %v", user.Name, course.ShortName, err)
			return
		}
		s.Infof("Enrolled user %q in course %q", user.Name, course.ShortName)
		run.report.UsersEnrolled++
	default:
		s.Warnf("Will ignore error reading enrolment for user %q in course %q: %v", user.Name, course.ShortName, err)
		return
	}
	confirmed[enrolment.ID.String()] = true

	targetRole := s.resolveTargetRole(ctx, membership.RoleKey, run)
	s.syncRoles(ctx, user, resolution, targetRole, run)
	s.syncGroups(ctx, user, resolution, membership.Groups, run)
}

// confirmHiddenCourseEnrolment marks an existing enrolment in a hidden course as
// confirmed so the removal sweep leaves it alone while the course stays hidden.
func (s *SyncService) confirmHiddenCourseEnrolment(
	ctx context.Context,
	user *models.User,
	course *models.Course,
	confirmed map[string]bool,
) {
	if course.SyncMethodID == nil {
		return
	}
	enrolment, err := s.enrolmentStore.ReadByUserCourseMethod(ctx, nil, user.ID, course.ID, *course.SyncMethodID)
	if err != nil {
		if !gerror.IsNotFound(err) {
			s.Warnf("Will ignore error reading enrolment for user %q in hidden course %q: %v", user.Name, course.ShortName, err)
		}
		return
	}
	confirmed[enrolment.ID.String()] = true
}

// resolveTargetRole determines the role a confirmed membership should carry: the
// externally declared role if it maps to a local role, else the configured default
// role, else no role at all. Lookups are cached for the run.
func (s *SyncService) resolveTargetRole(ctx context.Context, roleKey string, run *runState) *models.Role {
	if roleKey != "" {
		role, cached := run.roleCache[roleKey]
		if !cached {
			var err error
			role, err = s.roleStore.ReadByLookupField(ctx, nil, s.config.LocalRoleField, roleKey)
			if err != nil {
				role = nil
				if gerror.IsNotFound(err) {
					s.Warnf("External role %q has no matching local role; falling back to the default role", roleKey)
				} else {
					s.Warnf("Will ignore error looking up local role for external key %q: %v", roleKey, err)
				}
			}
			run.roleCache[roleKey] = role
		}
		if role != nil {
			return role
		}
	}
	return s.resolveDefaultRole(ctx, run)
}

func (s *SyncService) resolveDefaultRole(ctx context.Context, run *runState) *models.Role {
	if run.defaultRoleSet {
		return run.defaultRole
	}
	run.defaultRoleSet = true
	if s.config.DefaultRoleKey == "" {
		return nil
	}
	role, err := s.roleStore.ReadByLookupField(ctx, nil, s.config.LocalRoleField, s.config.DefaultRoleKey)
	if err != nil {
		s.Warnf("Default role %q could not be resolved; memberships without a mapped role will get no role: %v", s.config.DefaultRoleKey, err)
		return nil
	}
	run.defaultRole = role
	return role
}

// syncRoles converges the sync-owned role assignments for a (user, course) pairing
// onto the target role. Assignments carrying the zero owning-item sentinel are a
// legacy defect and are removed unconditionally before comparison. Afterwards at
// most one sync-owned assignment exists and, if targetRole is set, it matches it.
func (s *SyncService) syncRoles(
	ctx context.Context,
	user *models.User,
	resolution *courseResolution,
	targetRole *models.Role,
	run *runState,
) {
	course := resolution.course
	component := models.RosterSyncSystem
	assignments, err := s.listRoleAssignments(ctx, user.ID, course.ID, component)
	if err != nil {
		s.Warnf("Will ignore error listing role assignments for user %q in course %q: %v", user.Name, course.ShortName, err)
		return
	}

	matched := false
	for _, assignment := range assignments {
		if !assignment.ItemID.Valid() {
			err = s.roleAssignmentStore.Delete(ctx, nil, assignment.ID)
			if err != nil {
				s.Warnf("Will ignore error removing legacy role assignment %s: %v", assignment.ID, err)
				continue
			}
			s.Infof("Removed legacy role assignment with no owning item for user %q in course %q", user.Name, course.ShortName)
			run.report.RoleAssignmentsRemoved++
			continue
		}
		if targetRole != nil && assignment.RoleID == targetRole.ID && !matched {
			matched = true
			continue
		}
		err = s.roleAssignmentStore.Delete(ctx, nil, assignment.ID)
		if err != nil {
			s.Warnf("Will ignore error removing role assignment %s: %v", assignment.ID, err)
			continue
		}
		s.Infof("Removed role assignment for user %q in course %q: does not match the externally declared role", user.Name, course.ShortName)
		run.report.RoleAssignmentsRemoved++
	}

	if targetRole != nil && !matched {
		_, err = s.roleAssignmentStore.Create(ctx, nil, &models.RoleAssignmentData{
			UserID:    user.ID,
			CourseID:  course.ID,
			RoleID:    targetRole.ID,
			Component: component,
			ItemID:    resolution.methodID,
		})
		if err != nil {
			s.Warnf("Will ignore error assigning role %q to user %q in course %q: %v", targetRole.ShortName, user.Name, course.ShortName, err)
			return
		}
		s.Infof("Assigned role %q to user %q in course %q", targetRole.ShortName, user.Name, course.ShortName)
		run.report.RoleAssignmentsAdded++
	}
}

// syncGroups converges the user's sync-owned group memberships within a course onto
// the externally declared group set, auto-creating groups that do not exist locally.
// A membership that omits groups entirely leaves existing memberships alone, as does
// an unset local group field.
func (s *SyncService) syncGroups(
	ctx context.Context,
	user *models.User,
	resolution *courseResolution,
	groupKeys []string,
	run *runState,
) {
	if s.config.LocalGroupField == "" || len(groupKeys) == 0 {
		return
	}
	course := resolution.course
	component := models.RosterSyncSystem

	memberships, err := s.listGroupMemberships(ctx, user.ID, course.ID, component)
	if err != nil {
		s.Warnf("Will ignore error listing group memberships for user %q in course %q: %v", user.Name, course.ShortName, err)
		return
	}
	current := make(map[models.GroupID]*models.GroupMembership, len(memberships))
	for _, membership := range memberships {
		current[membership.GroupID] = membership
	}

	desired := make(map[models.GroupID]bool, len(groupKeys))
	for _, groupKey := range groupKeys {
		group := s.resolveGroup(ctx, course, groupKey, run)
		if group == nil {
			continue
		}
		desired[group.ID] = true
		if _, isMember := current[group.ID]; isMember {
			continue
		}
		_, created, err := s.groupMembershipStore.FindOrCreate(ctx, nil, models.NewGroupMembershipData(group.ID, user.ID, component))
		if err != nil {
			s.Warnf("Will ignore error adding user %q to group %q: %v", user.Name, group.Name, err)
			continue
		}
		if created {
			s.Infof("Added user %q to group %q in course %q", user.Name, group.Name, course.ShortName)
			run.report.GroupMembershipsAdded++
		}
	}

	for groupID := range current {
		if desired[groupID] {
			continue
		}
		err = s.groupMembershipStore.DeleteByMember(ctx, nil, groupID, user.ID, component)
		if err != nil {
			s.Warnf("Will ignore error removing user %q from group %s: %v", user.Name, groupID, err)
			continue
		}
		s.Infof("Removed user %q from group %s in course %q: no longer declared externally", user.Name, groupID, course.ShortName)
		run.report.GroupMembershipsRemoved++
	}
}

// resolveGroup looks up a group in a course by the configured local group attribute,
// creating it with the external key as its name if it does not exist.
func (s *SyncService) resolveGroup(ctx context.Context, course *models.Course, groupKey string, run *runState) *models.Group {
	group, err := s.groupStore.ReadByLookupField(ctx, nil, course.ID, s.config.LocalGroupField, groupKey)
	if err == nil {
		return group
	}
	if !gerror.IsNotFound(err) {
		s.Warnf("Will ignore error looking up group %q in course %q: %v", groupKey, course.ShortName, err)
		return nil
	}

	groupData := &models.GroupData{CourseID: course.ID, Name: groupKey}
	if s.config.LocalGroupField == models.GroupLookupIDNumber {
		groupData.IDNumber = groupKey
	}
	group, created, err := s.groupStore.FindOrCreate(ctx, nil, s.config.LocalGroupField, groupData)
	if err != nil {
		s.Warnf("Will ignore error creating group %q in course %q: %v", groupKey, course.ShortName, err)
		return nil
	}
	if created {
		s.Infof("Created group %q in course %q", group.Name, course.ShortName)
		run.report.GroupsCreated++
	}
	return group
}

// sweepUnconfirmed applies the configured unenrol action to the user's sync-owned
// enrolments that this run did not confirm against the external snapshot.
// Candidates are collected first and mutated in a second pass so the paginated
// listing is not invalidated by its own removals.
func (s *SyncService) sweepUnconfirmed(ctx context.Context, user *models.User, confirmed map[string]bool, run *runState) {
	action := s.config.UnenrolAction
	if action == UnenrolActionKeep {
		return
	}

	var candidates []*models.Enrolment
	pagination := models.NewPagination(models.DefaultPaginationLimit, nil)
	for moreResults := true; moreResults; {
		enrolments, cursor, err := s.enrolmentStore.ListSyncOwnedByUser(ctx, nil, user.ID, pagination)
		if err != nil {
			s.Warnf("Will ignore error listing enrolments for user %q: %v", user.Name, err)
			return
		}
		for _, enrolment := range enrolments {
			if !confirmed[enrolment.ID.String()] {
				candidates = append(candidates, enrolment)
			}
		}
		if cursor != nil && cursor.Next != nil {
			pagination.Cursor = cursor.Next // move on to next page of results
		} else {
			moreResults = false
		}
	}
	if len(candidates) == 0 {
		return
	}

	if !action.Valid() {
		// Never escalate an unrecognized action to a deletion.
		s.Warnf("Unenrolment is currently disabled (unrecognized unenrol action %q); keeping %d unmatched enrolments for user %q", action, len(candidates), user.Name)
		return
	}

	component := models.RosterSyncSystem
	for _, enrolment := range candidates {
		switch action {
		case UnenrolActionUnenrol:
			s.unenrol(ctx, user, enrolment, component, run)
		case UnenrolActionSuspend, UnenrolActionSuspendNoRoles:
			if enrolment.Status != models.EnrolmentStatusSuspended {
				enrolment.Status = models.EnrolmentStatusSuspended
				err := s.enrolmentStore.Update(ctx, nil, enrolment)
				if err != nil {
					s.Warnf("Will ignore error suspending enrolment %s for user %q: %v", enrolment.ID, user.Name, err)
					continue
				}
				s.Infof("Suspended enrolment for user %q in course %s: not confirmed by the external directory data", user.Name, enrolment.CourseID)
				run.report.EnrolmentsSuspended++
			}
			if action == UnenrolActionSuspendNoRoles {
				err := s.roleAssignmentStore.DeleteAllForItem(ctx, nil, user.ID, enrolment.CourseID, component, enrolment.MethodID)
				if err != nil {
					s.Warnf("Will ignore error removing role assignments for suspended enrolment %s: %v", enrolment.ID, err)
				}
			}
		}
	}
}

// unenrol fully removes an enrolment record along with the sync-owned role
// assignments and group memberships that exist only because of it.
func (s *SyncService) unenrol(ctx context.Context, user *models.User, enrolment *models.Enrolment, component models.SystemName, run *runState) {
	err := s.roleAssignmentStore.DeleteAllForItem(ctx, nil, user.ID, enrolment.CourseID, component, enrolment.MethodID)
	if err != nil {
		s.Warnf("Will ignore error removing role assignments while unenrolling user %q: %v", user.Name, err)
	}
	memberships, err := s.listGroupMemberships(ctx, user.ID, enrolment.CourseID, component)
	if err != nil {
		s.Warnf("Will ignore error listing group memberships while unenrolling user %q: %v", user.Name, err)
	}
	for _, membership := range memberships {
		err = s.groupMembershipStore.DeleteByMember(ctx, nil, membership.GroupID, user.ID, component)
		if err != nil {
			s.Warnf("Will ignore error removing group membership %s while unenrolling user %q: %v", membership.ID, user.Name, err)
			continue
		}
		run.report.GroupMembershipsRemoved++
	}
	err = s.enrolmentStore.Delete(ctx, nil, enrolment.ID)
	if err != nil {
		s.Warnf("Will ignore error unenrolling user %q from course %s: %v", user.Name, enrolment.CourseID, err)
		return
	}
	s.Infof("Unenrolled user %q from course %s: not confirmed by the external directory data", user.Name, enrolment.CourseID)
	run.report.EnrolmentsRemoved++
}

// listRoleAssignments pages through all sync-owned role assignments for a user in a course.
func (s *SyncService) listRoleAssignments(ctx context.Context, userID models.UserID, courseID models.CourseID, component models.SystemName) ([]*models.RoleAssignment, error) {
	var all []*models.RoleAssignment
	pagination := models.NewPagination(models.DefaultPaginationLimit, nil)
	for moreResults := true; moreResults; {
		assignments, cursor, err := s.roleAssignmentStore.ListByUserCourse(ctx, nil, userID, courseID, &component, pagination)
		if err != nil {
			return nil, err
		}
		all = append(all, assignments...)
		if cursor != nil && cursor.Next != nil {
			pagination.Cursor = cursor.Next
		} else {
			moreResults = false
		}
	}
	return all, nil
}

// listGroupMemberships pages through all sync-owned group memberships for a user in a course.
func (s *SyncService) listGroupMemberships(ctx context.Context, userID models.UserID, courseID models.CourseID, component models.SystemName) ([]*models.GroupMembership, error) {
	var all []*models.GroupMembership
	pagination := models.NewPagination(models.DefaultPaginationLimit, nil)
	for moreResults := true; moreResults; {
		memberships, cursor, err := s.groupMembershipStore.ListByUserCourse(ctx, nil, userID, courseID, &component, pagination)
		if err != nil {
			return nil, err
		}
		all = append(all, memberships...)
		if cursor != nil && cursor.Next != nil {
			pagination.Cursor = cursor.Next
		} else {
			moreResults = false
		}
	}
	return all, nil
}
