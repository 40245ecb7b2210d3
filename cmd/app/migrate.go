package main

import (
	"github.com/DRSN-tech/storefront/internal/app"
	config "github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		down, _ := cmd.Flags().GetBool("down")

		dbCfg, err := config.LoadPGDBCfg(log)
		if err != nil {
			log.Errorf(err, "failed to load database config")
			return err
		}

		if err := app.Migrate(dbCfg, log, down); err != nil {
			log.Errorf(err, "migration failed")
			return err
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().Bool("down", false, "roll back the last applied migration")
}
