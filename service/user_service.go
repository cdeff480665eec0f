package service

import (
	"context"
	"fmt"
	"strings"

	"tabletop/config"
	"tabletop/events"
	"tabletop/models"
)

type userService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, cfg *config.Config) UserService {
	return &userService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// GetOrCreateUser retrieves an existing user or creates one on first login.
// Identity is an already-resolved handle; there is no password here.
func (s *userService) GetOrCreateUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidParameters)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	// Database unique constraint on username prevents duplicate users
	user, err = uow.UserRepository().Create(ctx, username, s.config.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// A zero starting balance leaves no ledger trace; the ledger only
	// records actual balance changes.
	if s.config.StartingBalance != 0 {
		entry := &models.LedgerEntry{
			UserID:        user.ID,
			BalanceBefore: 0,
			BalanceAfter:  s.config.StartingBalance,
			Amount:        s.config.StartingBalance,
			Reason:        models.LedgerReasonInitial,
			Description:   "Starting balance",
		}
		if err := uow.LedgerRepository().Record(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:         user.ID,
		Username:       user.Username,
		InitialBalance: user.CreditBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
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

	return user, nil
}

// ListUsers returns all registered users, newest first
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// AdjustBalance applies an administrative balance change with its paired
// ledger entry. The only balance write path outside session lifecycle.
func (s *userService) AdjustBalance(ctx context.Context, userID int64, amount int64, description string) (*models.User, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: adjustment amount cannot be zero", ErrInvalidParameters)
	}

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

	entry := &models.LedgerEntry{
		UserID:        user.ID,
		BalanceBefore: user.CreditBalance,
		BalanceAfter:  user.CreditBalance + amount,
		Amount:        amount,
		Reason:        models.LedgerReasonAdminAdjustment,
		Description:   description,
	}
	if err := RecordLedgerEntry(ctx, uow, entry); err != nil {
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}

	user.CreditBalance += amount

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}
