package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"digistore/internal/model"
)

func TestIncrementCountStopsAtLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewDownloadRepository(db)
	ctx := context.Background()

	grant := &model.DownloadGrant{UserID: "u1", ProductID: "p1", OrderID: "o1"}
	require.NoError(t, repo.CreateGrant(ctx, grant))

	limit := 3
	for i := 0; i < limit; i++ {
		require.NoError(t, repo.IncrementCount(ctx, grant.ID, &limit))
	}

	err := repo.IncrementCount(ctx, grant.ID, &limit)
	assert.ErrorIs(t, err, ErrDownloadLimitReached)

	stored, err := repo.FindGrantByID(ctx, grant.ID)
	require.NoError(t, err)
	assert.Equal(t, limit, stored.DownloadCount)
}

func TestIncrementCountUnlimited(t *testing.T) {
	db := newTestDB(t)
	repo := NewDownloadRepository(db)
	ctx := context.Background()

	grant := &model.DownloadGrant{UserID: "u1", ProductID: "p1", OrderID: "o1"}
	require.NoError(t, repo.CreateGrant(ctx, grant))

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.IncrementCount(ctx, grant.ID, nil))
	}

	stored, err := repo.FindGrantByID(ctx, grant.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.DownloadCount)
}

func TestIncrementCountMissingGrant(t *testing.T) {
	db := newTestDB(t)
	repo := NewDownloadRepository(db)

	err := repo.IncrementCount(context.Background(), "no-such-grant", nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateGrantIdempotentPerOrderLine(t *testing.T) {
	db := newTestDB(t)
	repo := NewDownloadRepository(db)
	ctx := context.Background()

	first := &model.DownloadGrant{UserID: "u1", ProductID: "p1", OrderID: "o1"}
	require.NoError(t, repo.CreateGrant(ctx, first))

	// same (user, product, order) triple lands on the existing row
	again := &model.DownloadGrant{UserID: "u1", ProductID: "p1", OrderID: "o1"}
	require.NoError(t, repo.CreateGrant(ctx, again))

	grants, err := repo.ListGrantsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}
