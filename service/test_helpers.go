package service

import (
	"testing"

	"tabletop/config"
	"tabletop/models"
)

// Test IDs - Using meaningful constants instead of magic numbers
const (
	TestHostID       = 111111
	TestUser2ID      = 222222
	TestUser3ID      = 333333
	TestSessionID    = 1
	TestGameID       = 7
	TestVenueSeats   = 40
	TestRewardAmount = 10
)

// TestMocks holds all mock repositories for easy access
type TestMocks struct {
	UserRepo        *MockUserRepository
	LedgerRepo      *MockLedgerRepository
	GameRepo        *MockGameRepository
	SessionRepo     *MockSessionRepository
	VenueConfigRepo *MockVenueConfigRepository
	EventPublisher  *MockEventPublisher

	UoW *mockUnitOfWork
}

// NewTestMocks creates a new set of mocks wired into a single unit of work
func NewTestMocks() *TestMocks {
	m := &TestMocks{
		UserRepo:        new(MockUserRepository),
		LedgerRepo:      new(MockLedgerRepository),
		GameRepo:        new(MockGameRepository),
		SessionRepo:     new(MockSessionRepository),
		VenueConfigRepo: new(MockVenueConfigRepository),
		EventPublisher:  new(MockEventPublisher),
	}
	m.UoW = &mockUnitOfWork{
		userRepo:        m.UserRepo,
		ledgerRepo:      m.LedgerRepo,
		gameRepo:        m.GameRepo,
		sessionRepo:     m.SessionRepo,
		venueConfigRepo: m.VenueConfigRepo,
		publisher:       m.EventPublisher,
	}
	return m
}

// Factory returns a UnitOfWorkFactory handing out this mock set
func (m *TestMocks) Factory() UnitOfWorkFactory {
	return &mockUnitOfWorkFactory{uow: m.UoW}
}

// AssertAllExpectations asserts all mock expectations
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.UserRepo.AssertExpectations(t)
	m.LedgerRepo.AssertExpectations(t)
	m.GameRepo.AssertExpectations(t)
	m.SessionRepo.AssertExpectations(t)
	m.VenueConfigRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// NewTestConfig returns an app config with the engine defaults used in tests
func NewTestConfig() *config.Config {
	return &config.Config{
		StartingBalance:            0,
		SessionRewardAmount:        TestRewardAmount,
		CancellationPenaltyEnabled: false,
		CancellationPenaltyAmount:  25,
		VenueMaxCapacity:           TestVenueSeats,
		VenueMaxTables:             10,
		VenueOpenHour:              10,
		VenueCloseHour:             23,
		Environment:                "test",
	}
}

// NewTestUser builds a user with the given balance
func NewTestUser(id int64, balance int64) *models.User {
	return &models.User{
		ID:            id,
		Username:      "player",
		CreditBalance: balance,
	}
}

// NewTestVenueConfig builds a venue config with the given capacity
func NewTestVenueConfig(maxCapacity int) *models.VenueConfig {
	return &models.VenueConfig{
		ID:          1,
		MaxCapacity: maxCapacity,
		MaxTables:   10,
		OpenHour:    10,
		CloseHour:   23,
	}
}

// NewRecruitingSession builds a recruiting session hosted by TestHostID
func NewRecruitingSession(slotsTotal, slotsFilled int) *models.Session {
	return &models.Session{
		ID:          TestSessionID,
		GameID:      TestGameID,
		HostID:      TestHostID,
		Status:      models.SessionStatusRecruiting,
		SlotsTotal:  slotsTotal,
		SlotsFilled: slotsFilled,
	}
}

// NewActiveSession builds an active session hosted by TestHostID
func NewActiveSession(slotsTotal, slotsFilled int) *models.Session {
	session := NewRecruitingSession(slotsTotal, slotsFilled)
	session.Status = models.SessionStatusActive
	return session
}
