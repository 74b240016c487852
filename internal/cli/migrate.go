package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitbill/internal/storage/sqlstore"
)

func (a *app) newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
		Long: `Run the embedded schema migrations against the configured database.
The driver and URL come from the config file or DB_DRIVER and DB_URL.`,
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.migrate(cmd, sqlstore.Up)
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.migrate(cmd, sqlstore.Down)
		},
	})

	return migrateCmd
}

func (a *app) migrate(cmd *cobra.Command, dir sqlstore.Direction) error {
	if err := sqlstore.Migrate(a.storeOptions(), dir); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrations %s complete\n", dir)
	return nil
}

func (a *app) storeOptions() sqlstore.Options {
	return sqlstore.Options{
		Driver:       a.cfg.Database.Driver,
		URL:          a.cfg.Database.URL,
		MaxOpenConns: a.cfg.Database.MaxConnections,
		AutoMigrate:  a.cfg.Database.AutoMigrate,
	}
}
