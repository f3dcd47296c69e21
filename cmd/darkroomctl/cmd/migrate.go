package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/darkroom/internal/db"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(a appDB) error {
				return db.RunMigrations(a.sql, a.driver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(a appDB) error {
				return db.MigrateDown(a.sql, a.driver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(a appDB) error {
				version, err := db.MigrationVersion(a.sql, a.driver)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
				return nil
			})
		},
	})

	return migrateCmd
}
