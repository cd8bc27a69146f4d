package dump

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rostersync/rostersync/common/logger"
	"github.com/rostersync/rostersync/common/models"
	"github.com/rostersync/rostersync/server/cmd/rostersync-tools/cli"
	"github.com/rostersync/rostersync/server/cmd/rostersync-tools/commands"
	"github.com/rostersync/rostersync/server/store"
	"github.com/rostersync/rostersync/server/store/courses"
	"github.com/rostersync/rostersync/server/store/enrolments"
	"github.com/rostersync/rostersync/server/store/role_assignments"
	"github.com/rostersync/rostersync/server/store/users"
)

const defaultSQLiteConnectionString = "file:rostersync.db?cache=shared"

func init() {
	dumpRootCmd.PersistentFlags().StringVar(
		&dumpCmdConfig.databaseDriver,
		"driver",
		string(store.Sqlite),
		"The Database Driver to use for fetching data (i.e sqlite3|postgres)")
	dumpRootCmd.PersistentFlags().StringVar(
		&dumpCmdConfig.databaseConnectionString,
		"connection",
		defaultSQLiteConnectionString,
		"The connection string for the database to use for fetching data")
	dumpRootCmd.PersistentFlags().BoolVarP(
		&dumpCmdConfig.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose log output")

	commands.RootCmd.AddCommand(dumpRootCmd)
	dumpRootCmd.AddCommand(dumpUsersByAuthTypeCmd)
	dumpRootCmd.AddCommand(dumpUserCmd)
	dumpRootCmd.AddCommand(dumpUserEnrolmentsCmd)
}

var dumpCmdConfig = struct {
	databaseConfig           store.DatabaseConfig
	databaseDriver           string
	databaseConnectionString string
	verbose                  bool
	logFactory               logger.LogFactory
	db                       *store.DB
	dbCleanup                func()
	userStore                store.UserStore
	courseStore              store.CourseStore
	enrolmentStore           store.EnrolmentStore
	roleAssignmentStore      store.RoleAssignmentStore
}{}

var dumpRootCmd = &cobra.Command{
	Use:   "dump (command)",
	Short: "Dumps the data from of all objects of the specified type from the database",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dumpCmdConfig.databaseConfig = store.DatabaseConfig{
			ConnectionString:   store.DatabaseConnectionString(dumpCmdConfig.databaseConnectionString),
			Driver:             store.DBDriver(dumpCmdConfig.databaseDriver),
			MaxIdleConnections: store.DefaultDatabaseMaxIdleConnections,
			MaxOpenConnections: store.DefaultDatabaseMaxOpenConnections,
		}

		// stores need a log factory; use a very plain log format
		logRegistry, err := logger.NewLogRegistry("")
		if err != nil {
			return err
		}
		logFactory := logger.MakeLogrusLogFactoryStdOutPlain(logRegistry)
		dumpCmdConfig.logFactory = logFactory

		// open the database but do not perform migrations
		db, cleanup, err := store.NewDatabase(context.Background(), dumpCmdConfig.databaseConfig, nil)
		if err != nil {
			return fmt.Errorf("error opening %s database for dump: %w", dumpCmdConfig.databaseConfig.Driver, err)
		}
		dumpCmdConfig.db = db
		dumpCmdConfig.dbCleanup = cleanup

		// make some stores we might need for dumping database data
		dumpCmdConfig.userStore = users.NewStore(db, logFactory)
		dumpCmdConfig.courseStore = courses.NewStore(db, logFactory)
		dumpCmdConfig.enrolmentStore = enrolments.NewStore(db, logFactory)
		dumpCmdConfig.roleAssignmentStore = role_assignments.NewStore(db, logFactory)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dumpCmdConfig.dbCleanup != nil {
			dumpCmdConfig.dbCleanup()
			dumpCmdConfig.dbCleanup = nil
		}
	},
}

var dumpUsersByAuthTypeCmd = &cobra.Command{
	Use:           "users-by-auth-type auth-type",
	Short:         "Dumps a list of all users with the specified authentication method from the database",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		authType := args[0]
		return dumpCmdConfig.db.WithTx(ctx, nil, func(tx *store.Tx) error {
			cli.Stdout.Printf("\nALL USERS WITH AUTH TYPE '%s'\n\n", authType)
			count := 0
			pagination := models.NewPagination(models.DefaultPaginationLimit, nil)
			for moreResults := true; moreResults; {
				userList, cursor, err := dumpCmdConfig.userStore.ListByAuthType(ctx, tx, authType, false, pagination)
				if err != nil {
					return fmt.Errorf("error reading list of users: %w", err)
				}
				for _, user := range userList {
					count++
					suspended := ""
					if user.Suspended {
						suspended = " (suspended)"
					}
					cli.Stdout.Printf("%d: Name '%s', email '%s', ID '%s'%s:\n", count, user.Name, user.Email, user.ID, suspended)
				}
				if cursor != nil && cursor.Next != nil {
					pagination.Cursor = cursor.Next // move on to next page of results
				} else {
					moreResults = false
				}
			}
			cli.Stdout.Printf("\n")
			return nil
		})
	},
}

var dumpUserCmd = &cobra.Command{
	Use:           "user name",
	Short:         "Dumps the contents of the user with the specified account name, from the database",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if len(name) == 0 {
			return fmt.Errorf("error: user name must be specified")
		}

		user, err := dumpCmdConfig.userStore.ReadByName(context.Background(), nil, models.ResourceName(name))
		if err != nil {
			return fmt.Errorf("error reading user with name '%s': %w", name, err)
		}

		cli.Stdout.Printf("User '%s':\n", name)
		cli.Stdout.Printf("  ID: %s", user.ID)
		cli.Stdout.Printf("  Created At: %s", user.CreatedAt.String())
		cli.Stdout.Printf("  Updated At: %s", user.UpdatedAt.String())
		cli.Stdout.Printf("  Name: %s", user.Name)
		cli.Stdout.Printf("  AuthType: %s", user.AuthType)
		cli.Stdout.Printf("  Email: %s", user.Email)
		cli.Stdout.Printf("  IDNumber: %s", user.IDNumber)
		cli.Stdout.Printf("  FirstName: %s", user.FirstName)
		cli.Stdout.Printf("  LastName: %s", user.LastName)
		cli.Stdout.Printf("  Confirmed: %t", user.Confirmed)
		cli.Stdout.Printf("  Suspended: %t", user.Suspended)
		for field, value := range user.CustomFields {
			cli.Stdout.Printf("  Custom '%s': %s", field, value)
		}

		return nil
	},
}

var dumpUserEnrolmentsCmd = &cobra.Command{
	Use:           "user-enrolments name",
	Short:         "Dumps info about the sync-owned enrolments and role assignments of the user with the specified account name, from the database",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		name := args[0]
		if len(name) == 0 {
			return fmt.Errorf("error: user name must be specified")
		}

		user, err := dumpCmdConfig.userStore.ReadByName(ctx, nil, models.ResourceName(name))
		if err != nil {
			return fmt.Errorf("error reading user with name '%s': %w", name, err)
		}
		cli.Stdout.Printf("\nUSER ENROLMENTS AND ROLE ASSIGNMENTS REPORT\n\n")
		cli.Stdout.Printf("Name '%s', email '%s', ID '%s'\n", user.Name, user.Email, user.ID)

		return dumpCmdConfig.db.WithTx(ctx, nil, func(tx *store.Tx) error {
			cli.Stdout.Printf("\nSync-owned enrolments:\n")
			count := 0
			pagination := models.NewPagination(models.DefaultPaginationLimit, nil)
			for moreResults := true; moreResults; {
				enrolmentList, cursor, err := dumpCmdConfig.enrolmentStore.ListSyncOwnedByUser(ctx, tx, user.ID, pagination)
				if err != nil {
					return fmt.Errorf("error reading list of enrolments: %w", err)
				}
				for _, enrolment := range enrolmentList {
					count++
					course, err := dumpCmdConfig.courseStore.Read(ctx, tx, enrolment.CourseID)
					if err != nil {
						return fmt.Errorf("error reading course for enrolment '%s': %w", enrolment.ID, err)
					}
					cli.Stdout.Printf("%d: Course '%s', status '%s', enrolment ID '%s'\n", count, course.ShortName, enrolment.Status, enrolment.ID)

					assignments, _, err := dumpCmdConfig.roleAssignmentStore.ListByUserCourse(
						ctx, tx, user.ID, enrolment.CourseID, nil, models.NewPagination(models.DefaultPaginationLimit, nil))
					if err != nil {
						return fmt.Errorf("error reading role assignments for enrolment '%s': %w", enrolment.ID, err)
					}
					for _, assignment := range assignments {
						cli.Stdout.Printf("     Role assignment: role ID '%s', component '%s'\n", assignment.RoleID, assignment.Component)
					}
				}
				if cursor != nil && cursor.Next != nil {
					pagination.Cursor = cursor.Next // move on to next page of results
				} else {
					moreResults = false
				}
			}
			cli.Stdout.Printf("\n")
			return nil
		})
	},
}
