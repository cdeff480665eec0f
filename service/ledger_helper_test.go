package service

import (
	"context"
	"testing"

	"tabletop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordLedgerEntry_RejectsMismatchedAmount(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()

	entry := &models.LedgerEntry{
		UserID:        TestUser2ID,
		BalanceBefore: 100,
		BalanceAfter:  120,
		Amount:        10, // does not match the 20 delta
		Reason:        models.LedgerReasonAdminAdjustment,
	}

	err := RecordLedgerEntry(ctx, mocks.UoW, entry)

	assert.ErrorIs(t, err, ErrInvalidParameters)
	mocks.AssertAllExpectations(t)
}

func TestRecordLedgerEntry_PairsBalanceAndEntry(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()

	entry := &models.LedgerEntry{
		UserID:        TestUser2ID,
		BalanceBefore: -10,
		BalanceAfter:  0,
		Amount:        10,
		Reason:        models.LedgerReasonSessionReward,
	}

	mocks.UserRepo.On("AddBalance", ctx, int64(TestUser2ID), int64(10)).Return(nil)
	mocks.LedgerRepo.On("Record", ctx, entry).Return(nil)
	mocks.EventPublisher.On("Publish", mock.Anything).Return()

	err := RecordLedgerEntry(ctx, mocks.UoW, entry)

	require.NoError(t, err)
	mocks.AssertAllExpectations(t)
}
