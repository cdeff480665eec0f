package service

import (
	"context"
	"testing"

	"tabletop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetUserLedger_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.Factory())

	entries := []*models.LedgerEntry{{ID: 1, UserID: TestUser2ID, Amount: 10}}
	mocks.LedgerRepo.On("GetByUser", ctx, int64(TestUser2ID), 50).Return(entries, nil)

	got, err := service.GetUserLedger(ctx, TestUser2ID, 0)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	mocks.AssertAllExpectations(t)
}

func TestLedgerService_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("consistent", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewLedgerService(mocks.Factory())

		mocks.UserRepo.On("GetByID", ctx, int64(TestUser2ID)).Return(NewTestUser(TestUser2ID, 35), nil)
		mocks.LedgerRepo.On("SumByUser", ctx, int64(TestUser2ID)).Return(int64(35), nil)

		report, err := service.Reconcile(ctx, TestUser2ID)

		require.NoError(t, err)
		assert.True(t, report.Consistent)
		assert.Equal(t, int64(35), report.Balance)
		assert.Equal(t, int64(35), report.LedgerTotal)
		mocks.AssertAllExpectations(t)
	})

	t.Run("drift is reported, not repaired", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewLedgerService(mocks.Factory())

		mocks.UserRepo.On("GetByID", ctx, int64(TestUser2ID)).Return(NewTestUser(TestUser2ID, 35), nil)
		mocks.LedgerRepo.On("SumByUser", ctx, int64(TestUser2ID)).Return(int64(25), nil)

		report, err := service.Reconcile(ctx, TestUser2ID)

		require.NoError(t, err)
		assert.False(t, report.Consistent)
		mocks.AssertAllExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewLedgerService(mocks.Factory())

		mocks.UserRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

		report, err := service.Reconcile(ctx, 404)

		assert.Nil(t, report)
		assert.ErrorIs(t, err, ErrNotFound)
		mocks.AssertAllExpectations(t)
	})
}
