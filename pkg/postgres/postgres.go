package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	migrations "github.com/DRSN-tech/storefront/db"
	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PgDatabase инкапсулирует подключение к PostgreSQL и управление миграциями.
type PgDatabase struct {
	Pool *pgxpool.Pool
	Dsn  string
}

func NewPgDatabase(pool *pgxpool.Pool, dsn string) *PgDatabase {
	return &PgDatabase{Pool: pool, Dsn: dsn}
}

// DSN собирает строку подключения из конфигурации.
func DSN(cfg *cfg.PGDBCfg) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// Connect устанавливает соединение с PostgreSQL.
func Connect(cfg *cfg.PGDBCfg) (*PgDatabase, error) {
	return ConnectDSN(DSN(cfg))
}

// ConnectDSN устанавливает соединение по готовой строке подключения.
func ConnectDSN(dsn string) (*PgDatabase, error) {
	const op = "PgDatabase.Connect"

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	db := NewPgDatabase(pool, dsn)
	if err := db.Ping(); err != nil {
		pool.Close()
		return nil, e.Wrap(op, err)
	}

	return db, nil
}

func (db *PgDatabase) Ping() error {
	const op = "PgDatabase.Ping"
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Close корректно закрывает пул соединений к базе данных.
func (db *PgDatabase) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// RunMigrations применяет ожидающие миграции, встроенные в бинарник.
func (db *PgDatabase) RunMigrations(logger logger.Logger) error {
	const op = "PgDatabase.RunMigrations"

	err := db.withMigrator(func(m *migrate.Migrate) error {
		return m.Up()
	})
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Infof("database schema is up to date")
			return nil
		}
		return e.Wrap(op, err)
	}

	logger.Infof("migrations applied successfully")
	return nil
}

// RollbackMigration откатывает последнюю применённую миграцию.
func (db *PgDatabase) RollbackMigration(logger logger.Logger) error {
	const op = "PgDatabase.RollbackMigration"

	if err := db.withMigrator(func(m *migrate.Migrate) error {
		return m.Steps(-1)
	}); err != nil {
		return e.Wrap(op, err)
	}

	logger.Infof("last migration rolled back")
	return nil
}

func (db *PgDatabase) withMigrator(fn func(m *migrate.Migrate) error) error {
	const (
		driverName         = "pgx"
		databaseDriverName = "postgres"
	)

	sqlDb, err := sql.Open(driverName, db.Dsn)
	if err != nil {
		return err
	}
	defer sqlDb.Close()

	driver, err := postgres.WithInstance(sqlDb, &postgres.Config{})
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.Migrations, migrations.MigrationsDir)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, databaseDriverName, driver)
	if err != nil {
		return err
	}

	return fn(m)
}
