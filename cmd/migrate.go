package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/core/database"
	"github.com/frahmantamala/rbac-management/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// sqlite databases are built from the gorm models instead of the sql files
	if cfg.Database.Driver == internal.DriverSQLite {
		gdb, err := database.OpenSQLite(cfg.Database.Source)
		if err != nil {
			log.Fatalf("failed to open sqlite DB: %v\n", err)
		}
		if err := database.AutoMigrate(gdb); err != nil {
			log.Fatal(err)
		}
		logger.LoggerWrapper().Info("sqlite schema migrated", "source", cfg.Database.Source)
		return nil
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}

	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
