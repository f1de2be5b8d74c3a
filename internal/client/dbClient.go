package client

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"digistore/internal/config"
	"digistore/internal/model"
)

// InitDatabase opens the configured database, applies pool settings and
// migrates the schema. Driver "sqlite" is meant for development; production
// runs against mysql.
func InitDatabase(cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey on both drivers.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

// Migrate applies the schema for every persisted model. Tests reuse it
// against in-memory sqlite databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Coupon{},
		&model.Order{},
		&model.OrderItem{},
		&model.DownloadGrant{},
		&model.Review{},
		&model.BlogPost{},
		&model.ContactMessage{},
		&model.Setting{},
		&model.WebhookEvent{},
	)
}
