package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digistore/internal/apperr"
	"digistore/internal/dto"
	"digistore/internal/repository"
)

func TestContactSubmitAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(repository.NewContactRepository(db))
	ctx := context.Background()

	first, err := svc.Submit(ctx, &dto.ContactRequest{
		Name:    "Alice",
		Email:   "alice@example.com",
		Subject: "Refund",
		Body:    "Please refund order 42.",
	})
	require.NoError(t, err)
	assert.False(t, first.IsRead)

	_, err = svc.Submit(ctx, &dto.ContactRequest{
		Name:  "Bob",
		Email: "bob@example.com",
		Body:  "Do you ship to Mars?",
	})
	require.NoError(t, err)

	unread, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	require.NoError(t, svc.MarkRead(ctx, first.ID))

	unread, err = svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "bob@example.com", unread[0].Email)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	err = svc.MarkRead(ctx, "no-such-message")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
}
