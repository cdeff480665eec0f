package repository

import (
	"context"
	"fmt"

	"tabletop/database"
	"tabletop/models"

	"github.com/jackc/pgx/v5"
)

// SessionRepository implements the service.SessionRepository interface
type SessionRepository struct {
	q queryable
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{q: db.Pool}
}

// newSessionRepositoryWithTx creates a new session repository with a transaction
func newSessionRepositoryWithTx(tx queryable) *SessionRepository {
	return &SessionRepository{q: tx}
}

const sessionColumns = `
	id, game_id, host_id, table_number, status, slots_total, slots_filled,
	estimated_duration_minutes, scheduled_start_at, created_at, started_at, completed_at`

func scanSession(row pgx.Row) (*models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.ID,
		&session.GameID,
		&session.HostID,
		&session.TableNumber,
		&session.Status,
		&session.SlotsTotal,
		&session.SlotsFilled,
		&session.EstimatedDurationMinutes,
		&session.ScheduledStartAt,
		&session.CreatedAt,
		&session.StartedAt,
		&session.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateWithHost creates a session and seats the host atomically
func (r *SessionRepository) CreateWithHost(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (
			game_id, host_id, table_number, status, slots_total, slots_filled,
			estimated_duration_minutes, scheduled_start_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		session.GameID,
		session.HostID,
		session.TableNumber,
		session.Status,
		session.SlotsTotal,
		session.SlotsFilled,
		session.EstimatedDurationMinutes,
		session.ScheduledStartAt,
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	participantQuery := `
		INSERT INTO session_participants (session_id, user_id)
		VALUES ($1, $2)
	`
	if _, err := r.q.Exec(ctx, participantQuery, session.ID, session.HostID); err != nil {
		return fmt.Errorf("failed to seat host in session %d: %w", session.ID, err)
	}

	return nil
}

// GetByID retrieves a session by its ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query := `SELECT` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}

	return session, nil
}

// GetForUpdate retrieves a session with a row lock. Join, leave, start,
// complete and cancel all read-then-write slots_filled and status, so
// concurrent operations against the same session must serialize here.
func (r *SessionRepository) GetForUpdate(ctx context.Context, id int64) (*models.Session, error) {
	query := `SELECT` + sessionColumns + ` FROM sessions WHERE id = $1 FOR UPDATE`

	session, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock session %d: %w", id, err)
	}

	return session, nil
}

// GetDetailByID returns the session with its game and roster
func (r *SessionRepository) GetDetailByID(ctx context.Context, id int64) (*models.SessionDetail, error) {
	session, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	game, err := scanGame(r.q.QueryRow(ctx, `SELECT`+gameColumns+` FROM games WHERE id = $1`, session.GameID))
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get game for session %d: %w", id, err)
	}

	participants, err := r.GetParticipants(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.SessionDetail{
		Session:      session,
		Game:         game,
		Participants: participants,
	}, nil
}

// Update persists status, slot counter and timestamp changes
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	query := `
		UPDATE sessions
		SET table_number = $2,
		    status = $3,
		    slots_filled = $4,
		    estimated_duration_minutes = $5,
		    scheduled_start_at = $6,
		    started_at = $7,
		    completed_at = $8
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		session.ID,
		session.TableNumber,
		session.Status,
		session.SlotsFilled,
		session.EstimatedDurationMinutes,
		session.ScheduledStartAt,
		session.StartedAt,
		session.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update session %d: %w", session.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session %d not found", session.ID)
	}

	return nil
}

// GetByStatus returns sessions in the given status, newest first
func (r *SessionRepository) GetByStatus(ctx context.Context, status models.SessionStatus) ([]*models.Session, error) {
	query := `SELECT` + sessionColumns + ` FROM sessions WHERE status = $1 ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions by status: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// GetByParticipant returns sessions the user holds a seat in, newest first
func (r *SessionRepository) GetByParticipant(ctx context.Context, userID int64) ([]*models.Session, error) {
	query := `
		SELECT` + sessionColumns + `
		FROM sessions s
		WHERE EXISTS (
			SELECT 1 FROM session_participants sp
			WHERE sp.session_id = s.id AND sp.user_id = $1
		)
		ORDER BY created_at DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]*models.Session, error) {
	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// ActiveOccupancy sums slots_filled over all ACTIVE sessions. The explicit
// aggregate keeps the admission gate decoupled from object traversal.
func (r *SessionRepository) ActiveOccupancy(ctx context.Context) (int, error) {
	query := `
		SELECT COALESCE(SUM(slots_filled), 0)
		FROM sessions
		WHERE status = $1
	`

	var occupancy int
	if err := r.q.QueryRow(ctx, query, models.SessionStatusActive).Scan(&occupancy); err != nil {
		return 0, fmt.Errorf("failed to compute active occupancy: %w", err)
	}

	return occupancy, nil
}

// AddParticipant inserts a membership record
func (r *SessionRepository) AddParticipant(ctx context.Context, participant *models.SessionParticipant) error {
	query := `
		INSERT INTO session_participants (session_id, user_id)
		VALUES ($1, $2)
		RETURNING id, joined_at
	`

	err := r.q.QueryRow(ctx, query,
		participant.SessionID,
		participant.UserID,
	).Scan(&participant.ID, &participant.JoinedAt)

	if err != nil {
		return fmt.Errorf("failed to add participant to session %d: %w", participant.SessionID, err)
	}

	return nil
}

// GetParticipant returns the membership record, or nil when absent
func (r *SessionRepository) GetParticipant(ctx context.Context, sessionID, userID int64) (*models.SessionParticipant, error) {
	query := `
		SELECT id, session_id, user_id, joined_at
		FROM session_participants
		WHERE session_id = $1 AND user_id = $2
	`

	var participant models.SessionParticipant
	err := r.q.QueryRow(ctx, query, sessionID, userID).Scan(
		&participant.ID,
		&participant.SessionID,
		&participant.UserID,
		&participant.JoinedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return &participant, nil
}

// GetParticipants returns the full roster ordered by join time
func (r *SessionRepository) GetParticipants(ctx context.Context, sessionID int64) ([]*models.SessionParticipant, error) {
	query := `
		SELECT id, session_id, user_id, joined_at
		FROM session_participants
		WHERE session_id = $1
		ORDER BY joined_at, id
	`

	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	var participants []*models.SessionParticipant
	for rows.Next() {
		var participant models.SessionParticipant
		err := rows.Scan(
			&participant.ID,
			&participant.SessionID,
			&participant.UserID,
			&participant.JoinedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, &participant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// RemoveParticipant deletes a membership record
func (r *SessionRepository) RemoveParticipant(ctx context.Context, sessionID, userID int64) error {
	query := `
		DELETE FROM session_participants
		WHERE session_id = $1 AND user_id = $2
	`

	result, err := r.q.Exec(ctx, query, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove participant from session %d: %w", sessionID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d is not in session %d", userID, sessionID)
	}

	return nil
}
