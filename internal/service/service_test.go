package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"digistore/internal/client"
	"digistore/internal/config"
	"digistore/internal/model"
	"digistore/internal/repository"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
// The pool is pinned to one connection; a second connection would see its
// own empty :memory: database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))

	return db
}

func testDownloadConfig() config.Downloads {
	return config.Downloads{
		TokenSecret: "download-test-secret",
		TokenTTL:    15 * time.Minute,
		GrantTTL:    30 * 24 * time.Hour,
	}
}

// newOrderService wires a full order service against db.
func newOrderService(t *testing.T, db *gorm.DB) OrderService {
	t.Helper()
	return NewOrderService(
		db, zap.NewNop(),
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
		repository.NewCouponRepository(db),
		repository.NewWebhookEventRepository(db),
		NewCouponService(repository.NewCouponRepository(db)),
		NewDownloadService(
			repository.NewDownloadRepository(db),
			repository.NewProductRepository(db),
			repository.NewOrderRepository(db),
			testDownloadConfig(),
		),
	)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "irrelevant", Name: "Test User"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, slug string) *model.Category {
	t.Helper()
	category := &model.Category{Name: slug, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

// seedProduct creates an active product under a fresh category. A non-empty
// fileURL makes it digital.
func seedProduct(t *testing.T, db *gorm.DB, slug, price, fileURL string, downloadLimit *int) *model.Product {
	t.Helper()
	category := seedCategory(t, db, "cat-"+slug)
	product := &model.Product{
		CategoryID:    category.ID,
		Name:          slug,
		Slug:          slug,
		Price:         decimal.RequireFromString(price),
		FileURL:       fileURL,
		DownloadLimit: downloadLimit,
		IsActive:      true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedCoupon(t *testing.T, db *gorm.DB, coupon *model.Coupon) *model.Coupon {
	t.Helper()
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int { return &n }

func timePtr(ts time.Time) *time.Time { return &ts }
