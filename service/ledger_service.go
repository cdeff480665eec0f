package service

import (
	"context"
	"fmt"

	"tabletop/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{uowFactory: uowFactory}
}

// GetUserLedger returns a user's ledger entries, newest first
func (s *ledgerService) GetUserLedger(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.LedgerRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}

	return entries, nil
}

// Reconcile replays a user's ledger and compares the entry sum with the
// live balance. The two must always agree; a mismatch means a balance
// write landed without its paired entry, or vice versa.
func (s *ledgerService) Reconcile(ctx context.Context, userID int64) (*ReconciliationReport, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	total, err := uow.LedgerRepository().SumByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return &ReconciliationReport{
		UserID:      userID,
		Balance:     user.CreditBalance,
		LedgerTotal: total,
		Consistent:  user.CreditBalance == total,
	}, nil
}
