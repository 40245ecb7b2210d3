package main

import (
	"os"

	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var log logger.Logger = logger.NewNop()

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Digital products storefront backend",
	Long: `Storefront serves the product catalog, protected product files
with signed download links, and the contact form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env необязателен, переменные окружения имеют приоритет
		_ = godotenv.Load()
		log = logger.NewSlogLogger()
		return nil
	},
	RunE: runServe,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, presignCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
