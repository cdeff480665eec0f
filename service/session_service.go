package service

import (
	"context"
	"fmt"
	"time"

	"tabletop/config"
	"tabletop/events"
	"tabletop/models"
)

type sessionService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewSessionService creates a new session service
func NewSessionService(uowFactory UnitOfWorkFactory, cfg *config.Config) SessionService {
	return &sessionService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

// CreateSession opens a new recruiting session with the host seated
func (s *sessionService) CreateSession(ctx context.Context, hostID, gameID int64, slotsTotal int, scheduledStartAt *time.Time) (*models.SessionDetail, error) {
	// Validate inputs
	if slotsTotal < models.MinSlotsTotal || slotsTotal > models.MaxSlotsTotal {
		return nil, fmt.Errorf("%w: slots total must be between %d and %d",
			ErrInvalidParameters, models.MinSlotsTotal, models.MaxSlotsTotal)
	}
	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game reference is required", ErrInvalidParameters)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Host creation is never eligibility-gated; the host always gets a seat
	host, err := uow.UserRepository().GetByID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}
	if host == nil {
		return nil, fmt.Errorf("%w: host %d", ErrNotFound, hostID)
	}

	game, err := uow.GameRepository().GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}

	duration := game.EstimatedPlaytimeMinutes
	if duration <= 0 {
		duration = models.DefaultPlaytimeMinutes
	}

	session := &models.Session{
		GameID:                   gameID,
		HostID:                   hostID,
		Status:                   models.SessionStatusRecruiting,
		SlotsTotal:               slotsTotal,
		SlotsFilled:              1,
		EstimatedDurationMinutes: duration,
		ScheduledStartAt:         scheduledStartAt,
	}

	if err := uow.SessionRepository().CreateWithHost(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	detail, err := uow.SessionRepository().GetDetailByID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session detail: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}

// JoinSession seats a user in a session. Recruiting sessions are
// capacity-exempt; joining an active session needs venue headroom since the
// seat is occupied immediately.
func (s *sessionService) JoinSession(ctx context.Context, sessionID, userID int64) (*models.SessionDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().GetForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	if session.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot join a %s session", ErrInvalidTransition, session.Status)
	}
	if session.IsFull() {
		return nil, fmt.Errorf("%w: %d of %d slots filled", ErrSessionFull, session.SlotsFilled, session.SlotsTotal)
	}

	existing, err := uow.SessionRepository().GetParticipant(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing participation: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user %d already in session %d", ErrDuplicateParticipant, userID, sessionID)
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if !user.CanJoinSession() {
		return nil, fmt.Errorf("%w: credit balance %d is at or below %d",
			ErrIneligible, user.CreditBalance, models.MinJoinBalance)
	}

	if session.IsActive() {
		ok, err := s.venueCanAccommodate(ctx, uow, 1)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no seat available for session %d", ErrVenueAtCapacity, sessionID)
		}
	}

	participant := &models.SessionParticipant{
		SessionID: sessionID,
		UserID:    userID,
	}
	if err := uow.SessionRepository().AddParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	session.SlotsFilled++
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	detail, err := uow.SessionRepository().GetDetailByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session detail: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}

// LeaveSession releases a user's seat. The host's seat is permanent while
// the session is non-terminal, so the slot counter never drops below 1.
func (s *sessionService) LeaveSession(ctx context.Context, sessionID, userID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().GetForUpdate(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	if session.IsTerminal() {
		return fmt.Errorf("%w: cannot leave a %s session", ErrInvalidTransition, session.Status)
	}
	if userID == session.HostID {
		return fmt.Errorf("%w: host holds a permanent seat", ErrInvalidParameters)
	}

	participant, err := uow.SessionRepository().GetParticipant(ctx, sessionID, userID)
	if err != nil {
		return fmt.Errorf("failed to check participation: %w", err)
	}
	if participant == nil {
		return fmt.Errorf("%w: user %d is not in session %d", ErrNotFound, userID, sessionID)
	}

	if err := uow.SessionRepository().RemoveParticipant(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	if session.SlotsFilled > 1 {
		session.SlotsFilled--
	}
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// StartSession moves a recruiting session into active seating. The full
// roster occupies venue seats at once, so capacity is validated for the
// whole roster here.
func (s *sessionService) StartSession(ctx context.Context, sessionID, callerID int64) (*models.Session, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().GetForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	if callerID != session.HostID {
		return nil, fmt.Errorf("%w: only the host can start the session", ErrUnauthorized)
	}
	if !session.IsRecruiting() {
		return nil, fmt.Errorf("%w: cannot start a %s session", ErrInvalidTransition, session.Status)
	}
	if !session.CanStart() {
		return nil, fmt.Errorf("%w: have %d, need %d",
			ErrInsufficientPlayers, session.SlotsFilled, models.MinPlayersToStart)
	}

	ok, err := s.venueCanAccommodate(ctx, uow, session.SlotsFilled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d seats requested", ErrVenueAtCapacity, session.SlotsFilled)
	}

	now := time.Now()
	oldStatus := session.Status
	session.Status = models.SessionStatusActive
	session.StartedAt = &now

	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	uow.EventBus().Publish(events.SessionStateChangeEvent{
		SessionID: session.ID,
		HostID:    session.HostID,
		OldStatus: oldStatus,
		NewStatus: session.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session, nil
}

// CompleteSession finishes an active session and rewards every roster
// member inside the same transaction, so a failed write retains no
// partial rewards.
func (s *sessionService) CompleteSession(ctx context.Context, sessionID, callerID int64) (*models.Session, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().GetForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	if callerID != session.HostID {
		return nil, fmt.Errorf("%w: only the host can complete the session", ErrUnauthorized)
	}
	if !session.IsActive() {
		return nil, fmt.Errorf("%w: cannot complete a %s session", ErrInvalidTransition, session.Status)
	}

	now := time.Now()
	oldStatus := session.Status
	session.Status = models.SessionStatusCompleted
	session.CompletedAt = &now

	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	participants, err := uow.SessionRepository().GetParticipants(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	reward := s.config.SessionRewardAmount
	for _, participant := range participants {
		user, err := uow.UserRepository().GetByID(ctx, participant.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get participant user: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, participant.UserID)
		}

		if err := uow.UserRepository().IncrementCompletionStats(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to update completion stats: %w", err)
		}

		relatedID := session.ID
		relatedType := models.RelatedTypeSession
		entry := &models.LedgerEntry{
			UserID:        user.ID,
			BalanceBefore: user.CreditBalance,
			BalanceAfter:  user.CreditBalance + reward,
			Amount:        reward,
			Reason:        models.LedgerReasonSessionReward,
			Description:   fmt.Sprintf("Reward for completing session %d", session.ID),
			RelatedID:     &relatedID,
			RelatedType:   &relatedType,
		}
		if err := RecordLedgerEntry(ctx, uow, entry); err != nil {
			return nil, fmt.Errorf("failed to record reward for user %d: %w", user.ID, err)
		}
	}

	uow.EventBus().Publish(events.SessionStateChangeEvent{
		SessionID: session.ID,
		HostID:    session.HostID,
		OldStatus: oldStatus,
		NewStatus: session.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session, nil
}

// CancelSession abandons a recruiting or active session. Whether the host
// pays for it is a policy switch; the default is no penalty.
func (s *sessionService) CancelSession(ctx context.Context, sessionID, callerID int64) (*models.Session, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().GetForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	if callerID != session.HostID {
		return nil, fmt.Errorf("%w: only the host can cancel the session", ErrUnauthorized)
	}
	if session.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot cancel a %s session", ErrInvalidTransition, session.Status)
	}

	oldStatus := session.Status
	session.Status = models.SessionStatusCancelled

	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	penalized := s.config.CancellationPenaltyEnabled
	if err := uow.UserRepository().IncrementCancellationStats(ctx, session.HostID, penalized); err != nil {
		return nil, fmt.Errorf("failed to update cancellation stats: %w", err)
	}

	if penalized {
		host, err := uow.UserRepository().GetByID(ctx, session.HostID)
		if err != nil {
			return nil, fmt.Errorf("failed to get host: %w", err)
		}
		if host == nil {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, session.HostID)
		}

		penalty := s.config.CancellationPenaltyAmount
		relatedID := session.ID
		relatedType := models.RelatedTypeSession
		entry := &models.LedgerEntry{
			UserID:        host.ID,
			BalanceBefore: host.CreditBalance,
			BalanceAfter:  host.CreditBalance - penalty,
			Amount:        -penalty,
			Reason:        models.LedgerReasonCancellationPenalty,
			Description:   fmt.Sprintf("Penalty for cancelling session %d", session.ID),
			RelatedID:     &relatedID,
			RelatedType:   &relatedType,
		}
		if err := RecordLedgerEntry(ctx, uow, entry); err != nil {
			return nil, fmt.Errorf("failed to record cancellation penalty: %w", err)
		}
	}

	uow.EventBus().Publish(events.SessionStateChangeEvent{
		SessionID: session.ID,
		HostID:    session.HostID,
		OldStatus: oldStatus,
		NewStatus: session.Status,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return session, nil
}

// GetSessionDetail retrieves a session with its game and roster
func (s *sessionService) GetSessionDetail(ctx context.Context, sessionID int64) (*models.SessionDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	detail, err := uow.SessionRepository().GetDetailByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session detail: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: session %d", ErrNotFound, sessionID)
	}

	return detail, nil
}

// ListByStatus returns sessions in the given status
func (s *sessionService) ListByStatus(ctx context.Context, status models.SessionStatus) ([]*models.Session, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sessions, err := uow.SessionRepository().GetByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// ListByParticipant returns sessions the user holds a seat in
func (s *sessionService) ListByParticipant(ctx context.Context, userID int64) ([]*models.Session, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sessions, err := uow.SessionRepository().GetByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// venueCanAccommodate checks venue headroom for n more occupants inside the
// caller's unit of work, so the capacity read and the subsequent write are
// one serialized decision.
func (s *sessionService) venueCanAccommodate(ctx context.Context, uow UnitOfWork, n int) (bool, error) {
	venueCfg, err := uow.VenueConfigRepository().GetOrCreate(ctx, venueDefaults(s.config))
	if err != nil {
		return false, fmt.Errorf("failed to get venue config: %w", err)
	}

	occupancy, err := uow.SessionRepository().ActiveOccupancy(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to compute occupancy: %w", err)
	}

	return venueCfg.CanAccommodate(occupancy, n), nil
}

// venueDefaults builds the lazily-created venue config row from app config
func venueDefaults(cfg *config.Config) *models.VenueConfig {
	return &models.VenueConfig{
		MaxCapacity: cfg.VenueMaxCapacity,
		MaxTables:   cfg.VenueMaxTables,
		OpenHour:    cfg.VenueOpenHour,
		CloseHour:   cfg.VenueCloseHour,
	}
}
