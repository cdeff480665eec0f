package repository

import (
	"context"
	"testing"

	"tabletop/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, "alice", 100)
		require.NoError(t, err)

		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, int64(100), user.CreditBalance)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, "alice", 0)
		assert.Error(t, err)
	})
}

func TestUserRepository_AddBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "bob", 20)
	require.NoError(t, err)

	t.Run("credit", func(t *testing.T) {
		require.NoError(t, repo.AddBalance(ctx, user.ID, 10))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(30), got.CreditBalance)
	})

	t.Run("debit below zero is allowed", func(t *testing.T) {
		require.NoError(t, repo.AddBalance(ctx, user.ID, -100))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(-70), got.CreditBalance)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.AddBalance(ctx, 999999, 10)
		assert.Error(t, err)
	})
}

func TestUserRepository_ReliabilityStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "carol", 0)
	require.NoError(t, err)

	require.NoError(t, repo.IncrementCompletionStats(ctx, user.ID))
	require.NoError(t, repo.IncrementCompletionStats(ctx, user.ID))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SessionsCompleted)
	assert.Equal(t, 2, got.ReliabilityStreak)

	t.Run("cancellation without penalty keeps the streak", func(t *testing.T) {
		require.NoError(t, repo.IncrementCancellationStats(ctx, user.ID, false))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.SessionsCancelled)
		assert.Equal(t, 2, got.ReliabilityStreak)
	})

	t.Run("penalized cancellation resets the streak", func(t *testing.T) {
		require.NoError(t, repo.IncrementCancellationStats(ctx, user.ID, true))

		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.SessionsCancelled)
		assert.Equal(t, 0, got.ReliabilityStreak)
	})
}
