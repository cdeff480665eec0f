package service

import (
	"context"
	"time"

	"tabletop/events"
	"tabletop/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername retrieves a user by their unique handle
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Create creates a new user with the initial balance
	Create(ctx context.Context, username string, initialBalance int64) (*models.User, error)

	// AddBalance applies a signed delta to a user's balance atomically.
	// Balances may go negative; debt is represented as a negative balance.
	AddBalance(ctx context.Context, userID int64, amount int64) error

	// IncrementCompletionStats bumps sessions_completed and reliability_streak
	IncrementCompletionStats(ctx context.Context, userID int64) error

	// IncrementCancellationStats bumps sessions_cancelled, optionally
	// resetting the reliability streak
	IncrementCancellationStats(ctx context.Context, userID int64, resetStreak bool) error

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*models.User, error)
}

// LedgerRepository defines the interface for the append-only credit ledger
type LedgerRepository interface {
	// Record appends a new ledger entry; entries are never edited or removed
	Record(ctx context.Context, entry *models.LedgerEntry) error

	// GetByUser returns ledger entries for a specific user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error)

	// GetByDateRange returns ledger entries within a date range
	GetByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*models.LedgerEntry, error)

	// SumByUser returns the sum of all entry amounts for a user
	SumByUser(ctx context.Context, userID int64) (int64, error)
}

// GameRepository defines the interface for catalog data access
type GameRepository interface {
	// Create creates a new catalog entry
	Create(ctx context.Context, game *models.Game) error

	// GetByID retrieves a game by its ID
	GetByID(ctx context.Context, id int64) (*models.Game, error)

	// GetByTitle retrieves a game by its unique title
	GetByTitle(ctx context.Context, title string) (*models.Game, error)

	// GetAll returns the full catalog
	GetAll(ctx context.Context) ([]*models.Game, error)

	// SetAvailability flips the shelf availability flag
	SetAvailability(ctx context.Context, id int64, available bool) error
}

// SessionRepository defines the interface for session and roster data access
type SessionRepository interface {
	// CreateWithHost creates a session and seats the host atomically
	CreateWithHost(ctx context.Context, session *models.Session) error

	// GetByID retrieves a session by its ID
	GetByID(ctx context.Context, id int64) (*models.Session, error)

	// GetForUpdate retrieves a session with a row lock so concurrent
	// operations against the same session serialize
	GetForUpdate(ctx context.Context, id int64) (*models.Session, error)

	// GetDetailByID returns the session with its game and roster
	GetDetailByID(ctx context.Context, id int64) (*models.SessionDetail, error)

	// Update persists status, slot counter and timestamp changes
	Update(ctx context.Context, session *models.Session) error

	// GetByStatus returns sessions in the given status, newest first
	GetByStatus(ctx context.Context, status models.SessionStatus) ([]*models.Session, error)

	// GetByParticipant returns sessions the user holds a seat in
	GetByParticipant(ctx context.Context, userID int64) ([]*models.Session, error)

	// ActiveOccupancy sums slots_filled over all ACTIVE sessions
	ActiveOccupancy(ctx context.Context) (int, error)

	// AddParticipant inserts a membership record
	AddParticipant(ctx context.Context, participant *models.SessionParticipant) error

	// GetParticipant returns the membership record, or nil when absent
	GetParticipant(ctx context.Context, sessionID, userID int64) (*models.SessionParticipant, error)

	// GetParticipants returns the full roster for a session
	GetParticipants(ctx context.Context, sessionID int64) ([]*models.SessionParticipant, error)

	// RemoveParticipant deletes a membership record
	RemoveParticipant(ctx context.Context, sessionID, userID int64) error
}

// VenueConfigRepository defines the interface for the venue config singleton
type VenueConfigRepository interface {
	// GetOrCreate retrieves the venue config, creating it from the given
	// defaults if no row exists yet
	GetOrCreate(ctx context.Context, defaults *models.VenueConfig) (*models.VenueConfig, error)

	// Update persists administrative changes to the venue config
	Update(ctx context.Context, config *models.VenueConfig) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	LedgerRepository() LedgerRepository
	GameRepository() GameRepository
	SessionRepository() SessionRepository
	VenueConfigRepository() VenueConfigRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create returns a new UnitOfWork
	Create() UnitOfWork
}

// SessionService owns session status transitions and roster discipline
type SessionService interface {
	// CreateSession opens a new recruiting session hosted by hostID
	CreateSession(ctx context.Context, hostID, gameID int64, slotsTotal int, scheduledStartAt *time.Time) (*models.SessionDetail, error)

	// JoinSession seats a user in a session
	JoinSession(ctx context.Context, sessionID, userID int64) (*models.SessionDetail, error)

	// LeaveSession releases a non-host user's seat
	LeaveSession(ctx context.Context, sessionID, userID int64) error

	// StartSession transitions RECRUITING to ACTIVE; host only
	StartSession(ctx context.Context, sessionID, callerID int64) (*models.Session, error)

	// CompleteSession transitions ACTIVE to COMPLETED and rewards the
	// roster; host only
	CompleteSession(ctx context.Context, sessionID, callerID int64) (*models.Session, error)

	// CancelSession transitions RECRUITING or ACTIVE to CANCELLED; host only
	CancelSession(ctx context.Context, sessionID, callerID int64) (*models.Session, error)

	// GetSessionDetail retrieves a session with its game and roster
	GetSessionDetail(ctx context.Context, sessionID int64) (*models.SessionDetail, error)

	// ListByStatus returns sessions in the given status
	ListByStatus(ctx context.Context, status models.SessionStatus) ([]*models.Session, error)

	// ListByParticipant returns sessions the user holds a seat in
	ListByParticipant(ctx context.Context, userID int64) ([]*models.Session, error)
}

// UserService defines the interface for user operations
type UserService interface {
	// GetOrCreateUser retrieves an existing user or creates one on first login
	GetOrCreateUser(ctx context.Context, username string) (*models.User, error)

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// ListUsers returns all registered users
	ListUsers(ctx context.Context) ([]*models.User, error)

	// AdjustBalance applies an administrative balance change with a paired
	// ledger entry
	AdjustBalance(ctx context.Context, userID int64, amount int64, description string) (*models.User, error)
}

// VenueService answers venue-wide admission-control queries and manages
// the venue configuration
type VenueService interface {
	// Occupancy returns total seats consumed by ACTIVE sessions
	Occupancy(ctx context.Context) (int, error)

	// AvailableCapacity returns max capacity minus occupancy, floored at zero
	AvailableCapacity(ctx context.Context) (int, error)

	// CanAccommodate checks whether n more occupants fit
	CanAccommodate(ctx context.Context, n int) (bool, error)

	// GetConfig returns the venue config, creating defaults if absent
	GetConfig(ctx context.Context) (*models.VenueConfig, error)

	// UpdateConfig applies administrative changes
	UpdateConfig(ctx context.Context, config *models.VenueConfig) (*models.VenueConfig, error)
}

// GameService defines the interface for catalog operations
type GameService interface {
	// CreateGame adds a catalog entry
	CreateGame(ctx context.Context, game *models.Game) (*models.Game, error)

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, gameID int64) (*models.Game, error)

	// ListGames returns the full catalog
	ListGames(ctx context.Context) ([]*models.Game, error)

	// SetAvailability flips the shelf availability flag
	SetAvailability(ctx context.Context, gameID int64, available bool) (*models.Game, error)
}

// LedgerService defines the interface for ledger reads and auditing
type LedgerService interface {
	// GetUserLedger returns a user's ledger entries, newest first
	GetUserLedger(ctx context.Context, userID int64, limit int) ([]*models.LedgerEntry, error)

	// Reconcile replays a user's ledger and compares it with the live balance
	Reconcile(ctx context.Context, userID int64) (*ReconciliationReport, error)
}

// ReconciliationReport is the result of replaying a user's ledger
type ReconciliationReport struct {
	UserID      int64
	Balance     int64
	LedgerTotal int64
	Consistent  bool
}
