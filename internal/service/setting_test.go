package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digistore/internal/apperr"
	"digistore/internal/repository"
)

func TestSettingUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewSettingService(repository.NewSettingRepository(db))
	ctx := context.Background()

	_, err := svc.Set(ctx, "store_name", "Digistore")
	require.NoError(t, err)
	_, err = svc.Set(ctx, "currency", "USD")
	require.NoError(t, err)

	// setting an existing key overwrites in place
	_, err = svc.Set(ctx, "store_name", "Digistore EU")
	require.NoError(t, err)

	setting, err := svc.Get(ctx, "store_name")
	require.NoError(t, err)
	assert.Equal(t, "Digistore EU", setting.Value)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Get(ctx, "missing_key")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}
