package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"

	"github.com/Kyz7/lingopress/internal/config"
	"github.com/Kyz7/lingopress/internal/models"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Connect opens the process-wide pool. Callers own the handle and pass it on
// explicitly.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Println("Database migrated successfully!")
	return nil
}

// RunMigrations applies the embedded SQL migrations that AutoMigrate cannot
// express (partial and expression indexes).
func RunMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// WithConn checks a connection out of the pool for the duration of fn. The
// connection goes back to the pool on every return path.
func WithConn(ctx context.Context, db *gorm.DB, fn func(conn *sql.Conn) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(conn)
}

func Ping(ctx context.Context, db *gorm.DB) error {
	return WithConn(ctx, db, func(conn *sql.Conn) error {
		return conn.PingContext(ctx)
	})
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
