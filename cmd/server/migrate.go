package main

import (
	"os"

	"user_service/internal/config"
	"user_service/internal/logging"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations to the PostgreSQL database and exit.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	logger := logging.New(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	pool, err := config.ConnectDB(cmd.Context(), dbCfg, logger)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()

	if err := config.Migrate(cmd.Context(), pool, logger); err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	cmd.Println("migrations applied")
	return nil
}
