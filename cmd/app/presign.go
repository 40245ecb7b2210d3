package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/storefront/internal/app"
	config "github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/spf13/cobra"
)

var presignCmd = &cobra.Command{
	Use:   "presign <file-id>",
	Short: "Print a signed download URL for a product file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fileID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid file id %q: %w", args[0], err)
		}

		dbCfg, err := config.LoadPGDBCfg(log)
		if err != nil {
			return err
		}
		storageCfg, err := config.LoadStorageCfg(log)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		url, err := app.Presign(ctx, dbCfg, storageCfg, log, fileID)
		if err != nil {
			log.Errorf(err, "failed to sign download url for file %d", fileID)
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}
