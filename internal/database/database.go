package database

import (
	"fmt"
	"log/slog"

	"github.com/hugh/linkstash/internal/database/models"
	"github.com/hugh/linkstash/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultMaxCardCount = "100000"

func Connect(cfg *config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.SSLMode == "disable" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying db: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to database", "host", cfg.Host, "database", cfg.Name)

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Tag{},
		&models.Bookmark{},
		&models.BookmarkTag{},
		&models.BookmarkOverride{},
		&models.Setting{},
	); err != nil {
		return err
	}
	return migrateIndexes(db)
}

// migrateIndexes creates the partial unique indexes that partition URL
// uniqueness by visibility. The application probes before writing for a
// friendlier error message, but these indexes are what actually closes the
// race between two concurrent creates of the same (url, is_public) pair.
func migrateIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookmarks_url_public
			ON bookmarks (url) WHERE is_public`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookmarks_url_owner_private
			ON bookmarks (url, owner_id) WHERE NOT is_public`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	// Seed default settings
	return db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
		models.SettingMaxCardCount, defaultMaxCardCount,
	).Error
}
