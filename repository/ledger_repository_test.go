package repository

import (
	"context"
	"testing"
	"time"

	"tabletop/models"
	"tabletop/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_RecordAndReplay(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	ledgerRepo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "replayer", 0)
	require.NoError(t, err)

	// Apply a mixed run of credits and debits through the paired write path
	deltas := []struct {
		amount int64
		reason models.LedgerReason
	}{
		{10, models.LedgerReasonSessionReward},
		{10, models.LedgerReasonSessionReward},
		{-25, models.LedgerReasonCancellationPenalty},
		{50, models.LedgerReasonAdminAdjustment},
		{-60, models.LedgerReasonAdminAdjustment},
	}

	var balance int64
	for _, d := range deltas {
		entry := &models.LedgerEntry{
			UserID:        user.ID,
			BalanceBefore: balance,
			BalanceAfter:  balance + d.amount,
			Amount:        d.amount,
			Reason:        d.reason,
			Description:   "test entry",
		}
		require.NoError(t, userRepo.AddBalance(ctx, user.ID, d.amount))
		require.NoError(t, ledgerRepo.Record(ctx, entry))
		assert.NotZero(t, entry.ID)
		balance += d.amount
	}

	t.Run("ledger sum equals live balance", func(t *testing.T) {
		total, err := ledgerRepo.SumByUser(ctx, user.ID)
		require.NoError(t, err)

		got, err := userRepo.GetByID(ctx, user.ID)
		require.NoError(t, err)

		assert.Equal(t, got.CreditBalance, total)
		assert.Equal(t, int64(-15), total)
	})

	t.Run("entries come back newest first", func(t *testing.T) {
		entries, err := ledgerRepo.GetByUser(ctx, user.ID, 50)
		require.NoError(t, err)
		require.Len(t, entries, len(deltas))

		assert.Equal(t, int64(-60), entries[0].Amount)
		assert.Equal(t, int64(10), entries[len(entries)-1].Amount)

		// Each entry chains onto the previous one
		for i := 0; i < len(entries)-1; i++ {
			assert.Equal(t, entries[i+1].BalanceAfter, entries[i].BalanceBefore)
		}
	})

	t.Run("limit caps the result", func(t *testing.T) {
		entries, err := ledgerRepo.GetByUser(ctx, user.ID, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("date range", func(t *testing.T) {
		from := time.Now().Add(-time.Hour)
		to := time.Now().Add(time.Hour)

		entries, err := ledgerRepo.GetByDateRange(ctx, user.ID, from, to)
		require.NoError(t, err)
		assert.Len(t, entries, len(deltas))

		empty, err := ledgerRepo.GetByDateRange(ctx, user.ID, from.Add(-2*time.Hour), from)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("sum for a user with no entries is zero", func(t *testing.T) {
		other, err := userRepo.Create(ctx, "untouched", 0)
		require.NoError(t, err)

		total, err := ledgerRepo.SumByUser(ctx, other.ID)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
