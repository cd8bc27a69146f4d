package app

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/api/rest/server"
	"github.com/rostersync/rostersync/server/services/directory/json_directory"
	"github.com/rostersync/rostersync/server/services/sync"
	"github.com/rostersync/rostersync/server/store"
)

const defaultSQLiteConnectionString = "file:rostersync.db?cache=shared&mode=rwc&_busy_timeout=10000&_journal=WAL"

// LogSafeFlags is the set of flags whose values may be echoed to the log at startup.
// Values of flags not on this list are masked before logging.
var LogSafeFlags = []string{
	"admin_api_server_address",
	"database_driver",
	"database_max_idle_connections",
	"database_max_open_connections",
	"directory_name",
	"directory_users_url",
	"directory_enrolments_url",
	"directory_username",
	"directory_user_field",
	"directory_course_field",
	"directory_role_field",
	"directory_group_field",
	"directory_connect_timeout",
	"directory_request_timeout",
	"sync_user_sync_enabled",
	"sync_remote_user_field",
	"sync_local_user_field",
	"sync_new_user_auth_type",
	"sync_user_removal_action",
	"sync_field_mappings",
	"sync_local_course_field",
	"sync_ignore_hidden_courses",
	"sync_local_role_field",
	"sync_default_role",
	"sync_local_group_field",
	"sync_unenrol_action",
	"sync_interval",
	"sync_initial_delay",
	"sync_run_timeout",
	"log_levels",
}

type ServerConfig struct {
	DatabaseConfig      store.DatabaseConfig
	SyncConfig          sync.SyncConfig
	JSONDirectoryConfig json_directory.JSONDirectoryConfig
	AdminAPIConfig      server.AdminAPIServerConfig
	LogLevels           logger.LogLevelConfig
}

// ConfigFromFlags parses the process command line into a ServerConfig.
func ConfigFromFlags() (*ServerConfig, error) {
	config := &ServerConfig{}
	var (
		databaseConnectionString string
		databaseDriverStr        string
		directoryName            string
		localUserField           string
		userRemovalAction        string
		fieldMappings            string
		localCourseField         string
		localRoleField           string
		localGroupField          string
		unenrolAction            string
		logLevels                string
	)

	// Database
	flag.StringVar(&databaseConnectionString, "database_connection_string",
		defaultSQLiteConnectionString, "The connection string for the database")
	flag.StringVar(&databaseDriverStr, "database_driver",
		string(store.Sqlite), "The Database Driver to use (i.e sqlite3|postgres)")
	flag.IntVar(&config.DatabaseConfig.MaxIdleConnections, "database_max_idle_connections",
		store.DefaultDatabaseMaxIdleConnections, "The maximum number of idle database connections to use")
	flag.IntVar(&config.DatabaseConfig.MaxOpenConnections, "database_max_open_connections",
		store.DefaultDatabaseMaxOpenConnections, "The maximum number of open database connections to use")

	// External directory
	flag.StringVar(&directoryName, "directory_name",
		string(json_directory.JSONDirectoryName), "The name of the registered external directory to sync against.")
	flag.StringVar(&config.JSONDirectoryConfig.UsersURL, "directory_users_url",
		"", "The URL serving the external directory's complete user list as a JSON array.")
	flag.StringVar(&config.JSONDirectoryConfig.EnrolmentsURL, "directory_enrolments_url",
		"", "The URL serving the external directory's complete enrolment list as a JSON array.")
	flag.StringVar(&config.JSONDirectoryConfig.Username, "directory_username",
		"", "The username to send as HTTP basic auth when fetching from the external directory. Empty disables auth.")
	flag.StringVar(&config.JSONDirectoryConfig.Password, "directory_password",
		"", "The password to send as HTTP basic auth when fetching from the external directory.")
	flag.StringVar(&config.JSONDirectoryConfig.UserField, "directory_user_field",
		"username", "The attribute on each external enrolment record that holds the user's remote key.")
	flag.StringVar(&config.JSONDirectoryConfig.CourseField, "directory_course_field",
		"course", "The attribute on each external course membership that holds the course's remote key.")
	flag.StringVar(&config.JSONDirectoryConfig.RoleField, "directory_role_field",
		"role", "The attribute on each external course membership that holds the optional role key.")
	flag.StringVar(&config.JSONDirectoryConfig.GroupField, "directory_group_field",
		"name", "The attribute on each external group entry that holds the group's remote key.")
	flag.DurationVar(&config.JSONDirectoryConfig.ConnectTimeout, "directory_connect_timeout",
		15*time.Second, "The maximum time to wait when establishing a connection to the external directory.")
	flag.DurationVar(&config.JSONDirectoryConfig.RequestTimeout, "directory_request_timeout",
		5*time.Minute, "The maximum time to wait for a complete response from the external directory.")

	// User sync
	flag.BoolVar(&config.SyncConfig.UserSyncEnabled, "sync_user_sync_enabled",
		true, "True to reconcile local user accounts against the external directory's user list.")
	flag.StringVar(&config.SyncConfig.RemoteUserField, "sync_remote_user_field",
		"username", "The attribute on each external user record that holds the user's remote key.")
	flag.StringVar(&localUserField, "sync_local_user_field",
		models.UserLookupUsername.String(), "The local user attribute remote user keys are matched against. Options: id, idnumber, email, username")
	flag.StringVar(&config.SyncConfig.NewUserAuthType, "sync_new_user_auth_type",
		"external", "The authentication method assigned to user accounts created by the sync.")
	flag.StringVar(&userRemovalAction, "sync_user_removal_action",
		string(sync.UserRemovalKeep), "What to do with local users absent from the external user list. Options: keep, suspend, delete")
	flag.StringVar(&fieldMappings, "sync_field_mappings",
		"", "A comma separated list of remote=local field mappings. Append :custom for custom profile fields and :update to re-apply on update passes.")

	// Enrolment sync
	flag.StringVar(&localCourseField, "sync_local_course_field",
		models.CourseLookupIDNumber.String(), "The local course attribute remote course keys are matched against. Options: id, idnumber, shortname")
	flag.BoolVar(&config.SyncConfig.IgnoreHiddenCourses, "sync_ignore_hidden_courses",
		false, "True to skip external memberships that reference hidden courses.")
	flag.StringVar(&localRoleField, "sync_local_role_field",
		models.RoleLookupShortName.String(), "The local role attribute remote role keys are matched against. Options: id, shortname")
	flag.StringVar(&config.SyncConfig.DefaultRoleKey, "sync_default_role",
		"", "The role assigned to memberships that declare no role, looked up via the local role field. Empty assigns no role.")
	flag.StringVar(&localGroupField, "sync_local_group_field",
		"", "The local group attribute remote group keys are matched against. Options: name, idnumber. Empty disables group sync.")
	flag.StringVar(&unenrolAction, "sync_unenrol_action",
		string(sync.UnenrolActionKeep), "What to do with sync-owned enrolments absent from the external enrolment list. Options: unenrol, keep, suspend, suspend-no-roles")

	// Scheduling
	flag.DurationVar(&config.SyncConfig.SyncInterval, "sync_interval",
		0, "How often to run a scheduled reconciliation. Zero disables the sync timer.")
	flag.DurationVar(&config.SyncConfig.InitialSyncDelay, "sync_initial_delay",
		0, "How long after startup to wait before the first scheduled reconciliation.")
	flag.DurationVar(&config.SyncConfig.RunTimeout, "sync_run_timeout",
		0, "The maximum duration of a single scheduled reconciliation run. Zero means no limit.")

	// Admin API
	flag.StringVar(&config.AdminAPIConfig.Address, "admin_api_server_address",
		"127.0.0.1:8080", "The interface and port to bind the admin API server to.")

	// Misc
	flag.StringVar(&logLevels, "log_levels",
		"", fmt.Sprintf("A comma separated list of name=level pairs where name is the name of the logger and level is one of: %s", logger.ListLogLevels()))
	flag.Parse()

	// Database
	config.DatabaseConfig.Driver = store.DBDriver(databaseDriverStr)
	config.DatabaseConfig.ConnectionString = store.DatabaseConnectionString(databaseConnectionString)

	// Sync
	config.SyncConfig.DirectoryName = models.SystemName(directoryName)
	config.SyncConfig.LocalUserField = models.UserLookupField(localUserField)
	if !config.SyncConfig.LocalUserField.Valid() {
		return nil, errors.Errorf("--sync_local_user_field %q is not a recognized user field", localUserField)
	}
	config.SyncConfig.UserRemovalAction = sync.UserRemovalAction(userRemovalAction)
	if !config.SyncConfig.UserRemovalAction.Valid() {
		return nil, errors.Errorf("--sync_user_removal_action %q is not a recognized action", userRemovalAction)
	}
	mappings, err := ParseFieldMappings(fieldMappings)
	if err != nil {
		return nil, err
	}
	config.SyncConfig.FieldMappings = mappings
	config.SyncConfig.LocalCourseField = models.CourseLookupField(localCourseField)
	if !config.SyncConfig.LocalCourseField.Valid() {
		return nil, errors.Errorf("--sync_local_course_field %q is not a recognized course field", localCourseField)
	}
	config.SyncConfig.LocalRoleField = models.RoleLookupField(localRoleField)
	if !config.SyncConfig.LocalRoleField.Valid() {
		return nil, errors.Errorf("--sync_local_role_field %q is not a recognized role field", localRoleField)
	}
	if localGroupField != "" {
		config.SyncConfig.LocalGroupField = models.GroupLookupField(localGroupField)
		if !config.SyncConfig.LocalGroupField.Valid() {
			return nil, errors.Errorf("--sync_local_group_field %q is not a recognized group field", localGroupField)
		}
	}
	config.SyncConfig.UnenrolAction = sync.UnenrolAction(unenrolAction)
	if !config.SyncConfig.UnenrolAction.Valid() {
		return nil, errors.Errorf("--sync_unenrol_action %q is not a recognized action", unenrolAction)
	}

	// Misc
	config.LogLevels = logger.LogLevelConfig(logLevels)

	return config, nil
}

// ParseFieldMappings parses a comma separated list of field mappings of the form
// remote=local[:custom][:update] into the sync service's mapping config.
func ParseFieldMappings(raw string) ([]sync.FieldMapping, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var mappings []sync.FieldMapping
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, errors.Errorf("field mapping %q must have the form remote=local", entry)
		}
		mapping := sync.FieldMapping{RemoteField: parts[0]}
		options := strings.Split(parts[1], ":")
		mapping.LocalField = options[0]
		for _, option := range options[1:] {
			switch option {
			case "custom":
				mapping.IsCustom = true
			case "update":
				mapping.UpdateOnSync = true
			default:
				return nil, errors.Errorf("field mapping %q has unknown option %q", entry, option)
			}
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}
