package service

import (
	"context"
	"fmt"

	"tabletop/events"
	"tabletop/models"
)

// RecordLedgerEntry applies a balance change and appends its ledger entry as
// one pair. This is the single write path for every balance change in the
// system; the entry and the balance update always land in the same unit of
// work, preserving the reconciliation invariant.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, entry *models.LedgerEntry) error {
	if entry.BalanceAfter-entry.BalanceBefore != entry.Amount {
		return fmt.Errorf("%w: ledger amount %d does not match balance delta %d",
			ErrInvalidParameters, entry.Amount, entry.BalanceAfter-entry.BalanceBefore)
	}

	if err := uow.UserRepository().AddBalance(ctx, entry.UserID, entry.Amount); err != nil {
		return fmt.Errorf("failed to apply balance change: %w", err)
	}

	if err := uow.LedgerRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	// Flushed after the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       entry.UserID,
		OldBalance:   entry.BalanceBefore,
		NewBalance:   entry.BalanceAfter,
		Reason:       entry.Reason,
		ChangeAmount: entry.Amount,
	})

	return nil
}
