package repository

import (
	"context"
	"testing"

	"tabletop/models"
	"tabletop/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenueConfigRepository_GetOrCreate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewVenueConfigRepository(testDB.DB)
	ctx := context.Background()

	defaults := testutil.NewTestVenueDefaults()

	t.Run("creates the row from defaults", func(t *testing.T) {
		config, err := repo.GetOrCreate(ctx, defaults)
		require.NoError(t, err)

		assert.Equal(t, int64(1), config.ID)
		assert.Equal(t, defaults.MaxCapacity, config.MaxCapacity)
		assert.Equal(t, defaults.OpenHour, config.OpenHour)
		assert.Equal(t, defaults.CloseHour, config.CloseHour)
	})

	t.Run("second call returns the existing row untouched", func(t *testing.T) {
		other := &models.VenueConfig{MaxCapacity: 99, MaxTables: 1, OpenHour: 0, CloseHour: 1}

		config, err := repo.GetOrCreate(ctx, other)
		require.NoError(t, err)

		assert.Equal(t, defaults.MaxCapacity, config.MaxCapacity)
	})
}

func TestVenueConfigRepository_Update(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewVenueConfigRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.GetOrCreate(ctx, testutil.NewTestVenueDefaults())
	require.NoError(t, err)

	updated := &models.VenueConfig{MaxCapacity: 12, MaxTables: 3, OpenHour: 9, CloseHour: 21}
	require.NoError(t, repo.Update(ctx, updated))

	config, err := repo.GetOrCreate(ctx, testutil.NewTestVenueDefaults())
	require.NoError(t, err)
	assert.Equal(t, 12, config.MaxCapacity)
	assert.Equal(t, 3, config.MaxTables)
	assert.Equal(t, 9, config.OpenHour)
	assert.Equal(t, 21, config.CloseHour)
}
