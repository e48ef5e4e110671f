// Package migrate provides the migrate command, which creates the notes
// table and exits.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/notes-go/internal/conf"
	"github.com/tphakala/notes-go/internal/datastore"
	"github.com/tphakala/notes-go/internal/logger"
)

// Command creates and returns the migrate command
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long:  "Open the configured database, create the notes table if it does not exist, and exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, settings)
		},
	}
}

func runMigrate(cmd *cobra.Command, settings *conf.Settings) error {
	store, err := datastore.New(settings, logger.Global().Module("datastore"), nil)
	if err != nil {
		return err
	}

	// Open runs the schema migration
	if err := store.Open(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := store.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database schema is up to date (%s)\n", store.Driver())
	return nil
}
