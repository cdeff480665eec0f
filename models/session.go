package models

import (
	"time"
)

// SessionStatus represents the state of a session lobby
type SessionStatus string

const (
	SessionStatusRecruiting SessionStatus = "RECRUITING"
	SessionStatusActive     SessionStatus = "ACTIVE"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusCancelled  SessionStatus = "CANCELLED"
)

// Slot count bounds for a session, fixed at creation.
const (
	MinSlotsTotal = 2
	MaxSlotsTotal = 10
)

// MinPlayersToStart is the roster size required before a session may go active.
const MinPlayersToStart = 2

// Session represents a group of players gathered around one game,
// progressing from recruitment to completion or cancellation.
type Session struct {
	ID                       int64         `db:"id"`
	GameID                   int64         `db:"game_id"`
	HostID                   int64         `db:"host_id"`
	TableNumber              *int          `db:"table_number"`
	Status                   SessionStatus `db:"status"`
	SlotsTotal               int           `db:"slots_total"`
	SlotsFilled              int           `db:"slots_filled"`
	EstimatedDurationMinutes int           `db:"estimated_duration_minutes"`
	ScheduledStartAt         *time.Time    `db:"scheduled_start_at"`
	CreatedAt                time.Time     `db:"created_at"`
	StartedAt                *time.Time    `db:"started_at"`
	CompletedAt              *time.Time    `db:"completed_at"`
}

// SessionParticipant represents one user's seat in a session
type SessionParticipant struct {
	ID        int64     `db:"id"`
	SessionID int64     `db:"session_id"`
	UserID    int64     `db:"user_id"`
	JoinedAt  time.Time `db:"joined_at"`
}

// SessionDetail combines a session with its game and roster
type SessionDetail struct {
	Session      *Session
	Game         *Game
	Participants []*SessionParticipant
}

// IsRecruiting checks if the session is still gathering players
func (s *Session) IsRecruiting() bool {
	return s.Status == SessionStatusRecruiting
}

// IsActive checks if the session is currently occupying seats
func (s *Session) IsActive() bool {
	return s.Status == SessionStatusActive
}

// IsTerminal checks if the session has reached a final state
func (s *Session) IsTerminal() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusCancelled
}

// SlotsRemaining returns the open seats left in the roster, floored at zero
func (s *Session) SlotsRemaining() int {
	remaining := s.SlotsTotal - s.SlotsFilled
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull checks if every slot is taken
func (s *Session) IsFull() bool {
	return s.SlotsFilled >= s.SlotsTotal
}

// CanStart checks if the roster meets the minimum player count
func (s *Session) CanStart() bool {
	return s.SlotsFilled >= MinPlayersToStart
}

// EstimatedEndTime returns when the session is expected to wrap up.
// Nil until the session has started.
func (s *Session) EstimatedEndTime() *time.Time {
	if s.StartedAt == nil {
		return nil
	}
	end := s.StartedAt.Add(time.Duration(s.EstimatedDurationMinutes) * time.Minute)
	return &end
}

// TimeRemaining returns minutes until the estimated end, relative to now.
// Only meaningful while the session is active; advisory, never enforced.
func (s *Session) TimeRemaining(now time.Time) (minutes int, ok bool) {
	if !s.IsActive() {
		return 0, false
	}
	end := s.EstimatedEndTime()
	if end == nil {
		return 0, false
	}
	return int(end.Sub(now).Minutes()), true
}

// IsOverdue checks if an active session has run past its estimated end
func (s *Session) IsOverdue(now time.Time) bool {
	if !s.IsActive() {
		return false
	}
	end := s.EstimatedEndTime()
	if end == nil {
		return false
	}
	return now.After(*end)
}

// HasParticipant checks whether the given user holds a seat
func (sd *SessionDetail) HasParticipant(userID int64) bool {
	for _, p := range sd.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
