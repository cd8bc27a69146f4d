package sync

import (
	"context"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/services/directory"
)

// syncUsers reconciles local users against the external user list. Removals are
// applied before additions so that a remote key moving between accounts frees the
// old record first. Every failure is reported against the one user it affects and
// the remaining users are still processed.
func (s *SyncService) syncUsers(
	ctx context.Context,
	externalUsers map[string]directory.UserRecord,
	orderedKeys []string,
	updateUserFields bool,
	run *runState,
) {
	if len(externalUsers) == 0 {
		s.Warnf("External directory returned no users; skipping user reconciliation to avoid mass removal")
		return
	}

	s.applyUserRemovals(ctx, externalUsers, run)

	for _, key := range orderedKeys {
		s.syncUser(ctx, key, externalUsers[key], updateUserFields, run)
	}
}

// applyUserRemovals applies the configured removal action to local users absent from
// the external user list. Only users created with the configured authentication
// method are candidates; accounts under any other method are never touched.
// Candidates are collected first and mutated in a second pass so the paginated
// listing is not invalidated by its own removals.
func (s *SyncService) applyUserRemovals(ctx context.Context, externalUsers map[string]directory.UserRecord, run *runState) {
	action := s.config.UserRemovalAction
	if action == UserRemovalKeep {
		return
	}
	if !action.Valid() {
		s.Warnf("Unrecognized user removal action %q; local users absent from the directory will be kept", action)
		return
	}

	// Under the suspend action, already-suspended users are not candidates; they are
	// only ever touched again if their key reappears in the directory.
	excludeSuspended := action == UserRemovalSuspend

	var candidates []*models.User
	pagination := models.NewPagination(models.DefaultPaginationLimit, nil)
	for moreResults := true; moreResults; {
		users, cursor, err := s.userStore.ListByAuthType(ctx, nil, s.config.NewUserAuthType, excludeSuspended, pagination)
		if err != nil {
			s.Warnf("Will ignore error listing local users for removal check: %v", err)
			return
		}
		for _, user := range users {
			key := user.LocalKey(s.config.LocalUserField)
			if key == "" {
				s.Tracef("Local user %s has no %s value; not a removal candidate", user.ID, s.config.LocalUserField)
				continue
			}
			if _, found := externalUsers[key]; !found {
				candidates = append(candidates, user)
			}
		}
		if cursor != nil && cursor.Next != nil {
			pagination.Cursor = cursor.Next // move on to next page of results
		} else {
			moreResults = false
		}
	}

	for _, user := range candidates {
		switch action {
		case UserRemovalSuspend:
			user.Suspended = true
			err := s.userStore.Update(ctx, nil, user)
			if err != nil {
				s.Warnf("Will ignore error suspending user %q: %v", user.Name, err)
				continue
			}
			s.Infof("Suspended user %q: absent from external directory", user.Name)
			run.report.UsersSuspended++
		case UserRemovalDelete:
			err := s.userStore.SoftDelete(ctx, nil, user)
			if err != nil {
				s.Warnf("Will ignore error deleting user %q: %v", user.Name, err)
				continue
			}
			s.Infof("Deleted user %q: absent from external directory", user.Name)
			run.report.UsersDeleted++
		}
	}
}

// syncUser brings one external user record into agreement with the local store:
// creating a missing user, reviving a suspended one whose key reappeared, or
// optionally refreshing mapped fields on an existing one.
func (s *SyncService) syncUser(ctx context.Context, key string, record directory.UserRecord, updateUserFields bool, run *runState) {
	user, err := s.userStore.ReadByLookupField(ctx, nil, s.config.LocalUserField, key)
	if err != nil && !gerror.IsNotFound(err) {
		s.Warnf("Will ignore error looking up local user for external key %q: %v", key, err)
		return
	}

	if err == nil {
		if user.Suspended && s.config.UserRemovalAction == UserRemovalSuspend {
			// A suspended user reappearing in the directory is revived as-is;
			// mapped fields are deliberately not re-applied on revival.
			user.Suspended = false
			err = s.userStore.Update(ctx, nil, user)
			if err != nil {
				s.Warnf("Will ignore error reviving user %q: %v", user.Name, err)
				return
			}
			s.Infof("Revived user %q: reappeared in external directory", user.Name)
			run.report.UsersRevived++
			return
		}
		if updateUserFields {
			if changed := s.fieldMapper.ApplyUpdates(user, record); changed {
				err = s.userStore.Update(ctx, nil, user)
				if err != nil {
					s.Warnf("Will ignore error updating fields for user %q: %v", user.Name, err)
					return
				}
				s.Infof("Updated mapped fields for user %q", user.Name)
				run.report.UsersUpdated++
			}
		}
		return
	}

	// No local match for the key; create a new user from the external record.
	userData := s.fieldMapper.NewUserData(record, models.ResourceName(key), s.config.NewUserAuthType)
	externalID := models.NewExternalResourceID(s.config.DirectoryName, key)
	userData.ExternalID = &externalID
	existing, err := s.userStore.ReadByName(ctx, nil, userData.Name)
	if err != nil && !gerror.IsNotFound(err) {
		s.Warnf("Will ignore error checking for username collision for %q: %v", userData.Name, err)
		return
	}
	if err == nil {
		if existing.AuthType != s.config.NewUserAuthType {
			s.Warnf("Username %q already exists with authentication method %q; will not overwrite a foreign-authenticated account", userData.Name, existing.AuthType)
		} else {
			s.Warnf("Username %q already exists but does not match on %s; skipping", userData.Name, s.config.LocalUserField)
		}
		run.report.UsersSkipped++
		return
	}

	created, err := s.userStore.Create(ctx, nil, userData)
	if err != nil {
		s.Warnf("Will ignore error creating user for external key %q: %v", key, err)
		run.report.UsersSkipped++
		return
	}
	s.Infof("Created user %q from external directory", created.Name)
	run.report.UsersCreated++
}
