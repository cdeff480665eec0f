package service

import (
	"errors"
)

// Engine error kinds. Every failure returned by a service wraps one of these
// so callers can branch with errors.Is; the presentation layer maps them to
// user-facing responses.
var (
	// ErrNotFound indicates a referenced session, user or game does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the caller is not the host of the session
	// where a host-only operation was attempted.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition indicates an operation attempted from a status
	// that does not permit it.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrSessionFull indicates a join attempt against a full roster.
	ErrSessionFull = errors.New("session full")

	// ErrDuplicateParticipant indicates a join attempt by an existing member.
	ErrDuplicateParticipant = errors.New("duplicate participant")

	// ErrIneligible indicates the user's credit standing blocks joining.
	ErrIneligible = errors.New("ineligible")

	// ErrVenueAtCapacity indicates the operation would exceed the venue's
	// seat limit across active sessions.
	ErrVenueAtCapacity = errors.New("venue at capacity")

	// ErrInsufficientPlayers indicates a start attempt below the minimum
	// roster size.
	ErrInsufficientPlayers = errors.New("insufficient players")

	// ErrInvalidParameters indicates malformed input, such as a slot count
	// outside the allowed range or a missing game reference.
	ErrInvalidParameters = errors.New("invalid parameters")
)
