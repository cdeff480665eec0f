package service

import (
	"context"
	"time"

	"tabletop/events"
	"tabletop/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, username string, initialBalance int64) (*models.User, error) {
	args := m.Called(ctx, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementCompletionStats(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementCancellationStats(ctx context.Context, userID int64, resetStreak bool) error {
	args := m.Called(ctx, userID, resetStreak)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetByTitle(ctx context.Context, title string) (*models.Game, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetAll(ctx context.Context) ([]*models.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Game), args.Error(1)
}

func (m *MockGameRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateWithHost(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) GetForUpdate(ctx context.Context, id int64) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) GetDetailByID(ctx context.Context, id int64) (*models.SessionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionDetail), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByStatus(ctx context.Context, status models.SessionStatus) ([]*models.Session, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockSessionRepository) GetByParticipant(ctx context.Context, userID int64) ([]*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func (m *MockSessionRepository) ActiveOccupancy(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepository) AddParticipant(ctx context.Context, participant *models.SessionParticipant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockSessionRepository) GetParticipant(ctx context.Context, sessionID, userID int64) (*models.SessionParticipant, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionParticipant), args.Error(1)
}

func (m *MockSessionRepository) GetParticipants(ctx context.Context, sessionID int64) ([]*models.SessionParticipant, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SessionParticipant), args.Error(1)
}

func (m *MockSessionRepository) RemoveParticipant(ctx context.Context, sessionID, userID int64) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

// MockVenueConfigRepository is a mock implementation of VenueConfigRepository
type MockVenueConfigRepository struct {
	mock.Mock
}

func (m *MockVenueConfigRepository) GetOrCreate(ctx context.Context, defaults *models.VenueConfig) (*models.VenueConfig, error) {
	args := m.Called(ctx, defaults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VenueConfig), args.Error(1)
}

func (m *MockVenueConfigRepository) Update(ctx context.Context, config *models.VenueConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// mockUnitOfWork is a UnitOfWork over mock repositories. Begin, Commit and
// Rollback are bookkeeping only; there is no real transaction underneath.
type mockUnitOfWork struct {
	userRepo        *MockUserRepository
	ledgerRepo      *MockLedgerRepository
	gameRepo        *MockGameRepository
	sessionRepo     *MockSessionRepository
	venueConfigRepo *MockVenueConfigRepository
	publisher       *MockEventPublisher

	began      bool
	committed  bool
	rolledBack bool
}

func (u *mockUnitOfWork) Begin(ctx context.Context) error {
	u.began = true
	return nil
}

func (u *mockUnitOfWork) Commit() error {
	u.committed = true
	return nil
}

func (u *mockUnitOfWork) Rollback() error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}

func (u *mockUnitOfWork) UserRepository() UserRepository               { return u.userRepo }
func (u *mockUnitOfWork) LedgerRepository() LedgerRepository           { return u.ledgerRepo }
func (u *mockUnitOfWork) GameRepository() GameRepository               { return u.gameRepo }
func (u *mockUnitOfWork) SessionRepository() SessionRepository         { return u.sessionRepo }
func (u *mockUnitOfWork) VenueConfigRepository() VenueConfigRepository { return u.venueConfigRepo }
func (u *mockUnitOfWork) EventBus() EventPublisher                     { return u.publisher }

// mockUnitOfWorkFactory hands out the same mockUnitOfWork on every Create,
// so a test can assert across multiple service calls with one set of mocks.
type mockUnitOfWorkFactory struct {
	uow *mockUnitOfWork
}

func (f *mockUnitOfWorkFactory) Create() UnitOfWork {
	return f.uow
}
