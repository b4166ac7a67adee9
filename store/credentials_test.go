package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkittipat/feedloop/models"
)

func newTestStore(t *testing.T) *SQLiteCredentialStore {
	db, err := NewSQLiteDB(t.Name(), &SQLiteDBOption{Mode: "memory", Cache: "shared"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return NewSQLiteCredentialStore(db.DB)
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SaveToken(ctx, "abc"))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	// saving again overwrites
	require.NoError(t, s.SaveToken(ctx, "xyz"))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)
}

func TestDeleteTokenIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveToken(ctx, "abc"))
	require.NoError(t, s.DeleteToken(ctx))
	require.NoError(t, s.DeleteToken(ctx))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	profile, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	managerID := 3
	user := models.User{
		ID:        7,
		Email:     "a@x.com",
		FullName:  "A Person",
		Role:      models.RoleEmployee,
		IsActive:  true,
		ManagerID: &managerID,
	}
	require.NoError(t, s.SaveProfile(ctx, user))

	profile, err = s.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, user, *profile)

	require.NoError(t, s.DeleteProfile(ctx))
	profile, err = s.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestTokenAndProfileAreIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveToken(ctx, "abc"))
	require.NoError(t, s.SaveProfile(ctx, models.User{ID: 1}))
	require.NoError(t, s.DeleteToken(ctx))

	profile, err := s.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, 1, profile.ID)
}
