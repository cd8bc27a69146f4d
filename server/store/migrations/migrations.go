package migrations

// DialectTemplate is used as the templating control for differing SQL syntax between our supported databases
type DialectTemplate struct {
	Binary            string
	IntegerPrimaryKey string
}

// MigrationSet provides a set of migrations that can be applied to a database.
type MigrationSet []MigrationData

// MigrationData provides the data for a single migration, including Up and Down SQL.
// Templated values are supported and will be substituted for database-specific values
// before the migrations are applied.
type MigrationData struct {
	SequenceNumber int64
	Name           string
	UpSQL          string
	DownSQL        string
}

// RosterSyncServerMigrations is the set of migrations to set up the database for the RosterSync server.
var RosterSyncServerMigrations = MigrationSet{
	{
		SequenceNumber: 1,
		Name:           "create_users",
		UpSQL: `CREATE TABLE IF NOT EXISTS users
				(
					user_id text NOT NULL PRIMARY KEY,
					user_created_at timestamp without time zone NOT NULL,
					user_updated_at timestamp without time zone NOT NULL,
					user_deleted_at timestamp without time zone,
					user_etag text NOT NULL,
					user_name text NOT NULL,
					user_auth_type text NOT NULL,
					user_email text NOT NULL,
					user_id_number text NOT NULL,
					user_first_name text NOT NULL,
					user_last_name text NOT NULL,
					user_confirmed bool NOT NULL,
					user_suspended bool NOT NULL,
					user_external_id text,
					user_custom_fields text
				);
				CREATE UNIQUE INDEX IF NOT EXISTS users_name_unique_index ON users(user_name)
				WHERE user_deleted_at IS NULL;
				CREATE INDEX IF NOT EXISTS users_email_index ON users(user_email);
				CREATE INDEX IF NOT EXISTS users_id_number_index ON users(user_id_number);
				CREATE UNIQUE INDEX IF NOT EXISTS users_created_at_id_desc_unique_index ON users(
					user_created_at DESC,
					user_id DESC);`,
		DownSQL: `DROP TABLE users;`,
	},
	{
		SequenceNumber: 2,
		Name:           "create_courses",
		UpSQL: `CREATE TABLE IF NOT EXISTS courses
				(
					course_id text NOT NULL PRIMARY KEY,
					course_created_at timestamp without time zone NOT NULL,
					course_updated_at timestamp without time zone NOT NULL,
					course_etag text NOT NULL,
					course_name text NOT NULL,
					course_short_name text NOT NULL,
					course_id_number text NOT NULL,
					course_hidden bool NOT NULL,
					course_sync_method_id text
				);
				CREATE UNIQUE INDEX IF NOT EXISTS courses_short_name_unique_index ON courses(course_short_name);
				CREATE INDEX IF NOT EXISTS courses_id_number_index ON courses(course_id_number);
				CREATE UNIQUE INDEX IF NOT EXISTS courses_sync_method_id_unique_index ON courses(course_sync_method_id)
				WHERE course_sync_method_id IS NOT NULL;
				CREATE UNIQUE INDEX IF NOT EXISTS courses_created_at_id_desc_unique_index ON courses(
					course_created_at DESC,
					course_id DESC);`,
		DownSQL: `DROP TABLE courses;`,
	},
	{
		SequenceNumber: 3,
		Name:           "create_roles",
		UpSQL: `CREATE TABLE IF NOT EXISTS roles
				(
					role_id text NOT NULL PRIMARY KEY,
					role_created_at timestamp without time zone NOT NULL,
					role_name text NOT NULL,
					role_short_name text NOT NULL
				);
				CREATE UNIQUE INDEX IF NOT EXISTS roles_short_name_unique_index ON roles(role_short_name);`,
		DownSQL: `DROP TABLE roles;`,
	},
	{
		SequenceNumber: 4,
		Name:           "create_enrolments",
		UpSQL: `CREATE TABLE IF NOT EXISTS enrolments
				(
					enrolment_id text NOT NULL PRIMARY KEY,
					enrolment_created_at timestamp without time zone NOT NULL,
					enrolment_updated_at timestamp without time zone NOT NULL,
					enrolment_etag text NOT NULL,
					enrolment_user_id text NOT NULL REFERENCES users (user_id) ON UPDATE NO ACTION ON DELETE NO ACTION,
					enrolment_course_id text NOT NULL REFERENCES courses (course_id) ON UPDATE NO ACTION ON DELETE NO ACTION,
					enrolment_method_id text NOT NULL,
					enrolment_status text NOT NULL
				);
				CREATE UNIQUE INDEX IF NOT EXISTS enrolments_user_course_method_unique_index ON enrolments(
					enrolment_user_id,
					enrolment_course_id,
					enrolment_method_id);
				CREATE INDEX IF NOT EXISTS enrolments_method_id_index ON enrolments(enrolment_method_id);
				CREATE UNIQUE INDEX IF NOT EXISTS enrolments_created_at_id_desc_unique_index ON enrolments(
					enrolment_created_at DESC,
					enrolment_id DESC);`,
		DownSQL: `DROP TABLE enrolments;`,
	},
	{
		SequenceNumber: 5,
		Name:           "create_role_assignments",
		UpSQL: `CREATE TABLE IF NOT EXISTS role_assignments
				(
					role_assignment_id text NOT NULL PRIMARY KEY,
					role_assignment_created_at timestamp without time zone NOT NULL,
					role_assignment_user_id text NOT NULL REFERENCES users (user_id) ON UPDATE NO ACTION ON DELETE NO ACTION,
					role_assignment_course_id text NOT NULL REFERENCES courses (course_id) ON UPDATE NO ACTION ON DELETE NO ACTION,
					role_assignment_role_id text NOT NULL REFERENCES roles (role_id) ON UPDATE NO ACTION ON DELETE NO ACTION,
					role_assignment_component text NOT NULL,
					role_assignment_item_id text
				);
				CREATE UNIQUE INDEX IF NOT EXISTS role_assignments_user_course_role_unique_index ON role_assignments(
					role_assignment_user_id,
					role_assignment_course_id,
					role_assignment_role_id,
					role_assignment_component);
				CREATE INDEX IF NOT EXISTS role_assignments_user_course_index ON role_assignments(
					role_assignment_user_id,
					role_assignment_course_id);
				CREATE UNIQUE INDEX IF NOT EXISTS role_assignments_created_at_id_desc_unique_index ON role_assignments(
					role_assignment_created_at DESC,
					role_assignment_id DESC);`,
		DownSQL: `DROP TABLE role_assignments;`,
	},
	{
		SequenceNumber: 6,
		Name:           "create_groups",
		UpSQL: `CREATE TABLE IF NOT EXISTS groups
				(
					group_id text NOT NULL PRIMARY KEY,
					group_created_at timestamp without time zone NOT NULL,
					group_updated_at timestamp without time zone NOT NULL,
					group_etag text NOT NULL,
					group_course_id text NOT NULL REFERENCES courses (course_id) ON UPDATE NO ACTION ON DELETE NO ACTION,
					group_name text NOT NULL,
					group_id_number text NOT NULL
				);
				CREATE UNIQUE INDEX IF NOT EXISTS groups_course_name_unique_index ON groups(
					group_course_id,
					group_name);
				CREATE UNIQUE INDEX IF NOT EXISTS groups_created_at_id_desc_unique_index ON groups(
					group_created_at DESC,
					group_id DESC);`,
		DownSQL: `DROP TABLE groups;`,
	},
	{
		SequenceNumber: 7,
		Name:           "create_group_memberships",
		UpSQL: `CREATE TABLE IF NOT EXISTS group_memberships
				(
					group_membership_id text NOT NULL PRIMARY KEY,
					group_membership_created_at timestamp without time zone NOT NULL,
					group_membership_group_id text NOT NULL REFERENCES groups (group_id) ON UPDATE NO ACTION ON DELETE NO ACTION,
					group_membership_user_id text NOT NULL REFERENCES users (user_id) ON UPDATE NO ACTION ON DELETE NO ACTION,
					group_membership_component text NOT NULL
				);
				CREATE UNIQUE INDEX IF NOT EXISTS group_memberships_group_user_component_unique_index ON group_memberships(
					group_membership_group_id,
					group_membership_user_id,
					group_membership_component);
				CREATE INDEX IF NOT EXISTS group_memberships_user_id_index ON group_memberships(group_membership_user_id);
				CREATE UNIQUE INDEX IF NOT EXISTS group_memberships_created_at_id_desc_unique_index ON group_memberships(
					group_membership_created_at DESC,
					group_membership_id DESC);`,
		DownSQL: `DROP TABLE group_memberships;`,
	},
}
