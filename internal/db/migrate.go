package db

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"useraccounts/internal/db/migrations"
)

// Migrate applies the embedded goose migrations. With reset set, every
// migration is rolled back first, dropping the users table.
func Migrate(ctx context.Context, gormDB *gorm.DB, reset bool) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("migrate: set dialect: %w", err)
	}

	if reset {
		if err := goose.ResetContext(ctx, sqlDB, "."); err != nil {
			return fmt.Errorf("migrate: reset: %w", err)
		}
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("migrate: up: %w", err)
	}
	return nil
}
