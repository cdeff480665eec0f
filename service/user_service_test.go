package service

import (
	"context"
	"testing"

	"tabletop/events"
	"tabletop/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetOrCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("blank username", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewUserService(mocks.Factory(), NewTestConfig())

		user, err := service.GetOrCreateUser(ctx, "   ")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidParameters)
		mocks.AssertAllExpectations(t)
	})

	t.Run("existing user is returned as-is", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewUserService(mocks.Factory(), NewTestConfig())

		existing := NewTestUser(TestUser2ID, 75)
		existing.Username = "alice"
		mocks.UserRepo.On("GetByUsername", ctx, "alice").Return(existing, nil)

		user, err := service.GetOrCreateUser(ctx, "  alice ")

		require.NoError(t, err)
		assert.Equal(t, existing, user)
		mocks.AssertAllExpectations(t)
	})

	t.Run("zero starting balance leaves no ledger trace", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewUserService(mocks.Factory(), NewTestConfig())

		created := NewTestUser(TestUser2ID, 0)
		created.Username = "bob"
		mocks.UserRepo.On("GetByUsername", ctx, "bob").Return(nil, nil)
		mocks.UserRepo.On("Create", ctx, "bob", int64(0)).Return(created, nil)
		mocks.EventPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
			ue, ok := e.(events.UserCreatedEvent)
			return ok && ue.Username == "bob"
		})).Return()

		user, err := service.GetOrCreateUser(ctx, "bob")

		require.NoError(t, err)
		assert.Equal(t, created, user)
		assert.True(t, mocks.UoW.committed)
		mocks.AssertAllExpectations(t)
	})

	t.Run("nonzero starting balance writes an initial entry", func(t *testing.T) {
		mocks := NewTestMocks()
		cfg := NewTestConfig()
		cfg.StartingBalance = 100
		service := NewUserService(mocks.Factory(), cfg)

		created := NewTestUser(TestUser2ID, 100)
		created.Username = "carol"
		mocks.UserRepo.On("GetByUsername", ctx, "carol").Return(nil, nil)
		mocks.UserRepo.On("Create", ctx, "carol", int64(100)).Return(created, nil)
		mocks.LedgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
			return e.UserID == TestUser2ID &&
				e.BalanceBefore == 0 &&
				e.BalanceAfter == 100 &&
				e.Amount == 100 &&
				e.Reason == models.LedgerReasonInitial
		})).Return(nil)
		mocks.EventPublisher.On("Publish", mock.Anything).Return()

		user, err := service.GetOrCreateUser(ctx, "carol")

		require.NoError(t, err)
		assert.Equal(t, int64(100), user.CreditBalance)
		mocks.AssertAllExpectations(t)
	})
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewUserService(mocks.Factory(), NewTestConfig())

	mocks.UserRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

	user, err := service.GetUser(ctx, 404)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrNotFound)
	mocks.AssertAllExpectations(t)
}

func TestUserService_AdjustBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("zero amount", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewUserService(mocks.Factory(), NewTestConfig())

		user, err := service.AdjustBalance(ctx, TestUser2ID, 0, "noop")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrInvalidParameters)
		mocks.AssertAllExpectations(t)
	})

	t.Run("debit may push the balance negative", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewUserService(mocks.Factory(), NewTestConfig())

		mocks.UserRepo.On("GetByID", ctx, int64(TestUser2ID)).Return(NewTestUser(TestUser2ID, 10), nil)
		mocks.UserRepo.On("AddBalance", ctx, int64(TestUser2ID), int64(-40)).Return(nil)
		mocks.LedgerRepo.On("Record", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
			return e.BalanceBefore == 10 &&
				e.BalanceAfter == -30 &&
				e.Amount == -40 &&
				e.Reason == models.LedgerReasonAdminAdjustment
		})).Return(nil)
		mocks.EventPublisher.On("Publish", mock.Anything).Return()

		user, err := service.AdjustBalance(ctx, TestUser2ID, -40, "table damage")

		require.NoError(t, err)
		assert.Equal(t, int64(-30), user.CreditBalance)
		assert.True(t, mocks.UoW.committed)
		mocks.AssertAllExpectations(t)
	})
}
