package database

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/core/datamodel/rbac"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const pgxDriver = "pgx"

// Handle bundles the pooled sql handle used for health checks with the gorm
// session built on top of the same pool.
type Handle struct {
	SQL  *sqlx.DB
	Gorm *gorm.DB
}

func (h *Handle) Close() error {
	return h.SQL.Close()
}

// Open connects using the configured driver. The postgres pool is opened
// through sqlx with the pgx stdlib driver and then handed to gorm, so both
// share one set of connections.
func Open(cfg internal.DatabaseConfig, lg *slog.Logger) (*Handle, error) {
	switch cfg.Driver {
	case internal.DriverSQLite:
		return openSQLite(cfg, lg)
	case internal.DriverPostgres, "":
		return openPostgres(cfg, lg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(cfg internal.DatabaseConfig, lg *slog.Logger) (*Handle, error) {
	sqlDB, err := sqlx.Connect(pgxDriver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), GormConfig(gormlogger.Warn))
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	lg.Info("connected to database", "driver", internal.DriverPostgres)
	return &Handle{SQL: sqlDB, Gorm: gdb}, nil
}

func openSQLite(cfg internal.DatabaseConfig, lg *slog.Logger) (*Handle, error) {
	gdb, err := OpenSQLite(cfg.Source)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := AutoMigrate(gdb); err != nil {
			return nil, err
		}
		lg.Info("schema auto-migrated", "driver", internal.DriverSQLite)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	lg.Info("connected to database", "driver", internal.DriverSQLite, "source", cfg.Source)
	return &Handle{SQL: sqlx.NewDb(sqlDB, "sqlite3"), Gorm: gdb}, nil
}

// OpenSQLite opens a sqlite database with foreign keys enforced. The pool is
// pinned to one connection so ":memory:" databases survive across queries.
func OpenSQLite(source string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(withForeignKeys(source)), GormConfig(gormlogger.Silent))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return gdb, nil
}

func withForeignKeys(source string) string {
	if source == "" {
		source = ":memory:"
	}
	if strings.Contains(source, "?") {
		return source + "&_foreign_keys=on"
	}
	return source + "?_foreign_keys=on"
}

// GormConfig enables error translation so unique violations surface as
// gorm.ErrDuplicatedKey on every dialect.
func GormConfig(level gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(rbac.Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
