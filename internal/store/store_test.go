package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the real database; runs only when Postgres is reachable.
func TestUsers_CreateAndFind(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := Open(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	users := NewUsers(db)
	username := "it_" + uuid.NewString()[:8]

	created, err := users.Create(ctx, username, "hash", false)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = users.Create(ctx, username, "hash", false)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	found, err := users.FindByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	byID, err := users.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, username, byID.Username)

	_, err = users.FindByUsername(ctx, "nope_"+uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
