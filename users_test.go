package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetUserByEmail_NotFound(t *testing.T) {
	store := setupTestStore(t)

	user, err := store.GetUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestStore_GetUserByEmail_DuplicateEmails(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.CreateUser(ctx, "first", "hash1", "shared@example.com")
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, "second", "hash2", "shared@example.com")
	require.NoError(t, err, "duplicate emails are accepted")

	got, err := store.GetUserByEmail(ctx, "shared@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "hash1", got.Password)
}
