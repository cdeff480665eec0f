package models

import (
	"time"
)

// MinJoinBalance is the credit floor for joining sessions. A user whose
// balance is at or below this value is ineligible; hosts are never checked.
const MinJoinBalance = -50

// User represents a venue patron with a credit balance
type User struct {
	ID                int64     `db:"id"`
	Username          string    `db:"username"`
	CreditBalance     int64     `db:"credit_balance"`
	ReliabilityStreak int       `db:"reliability_streak"`
	SessionsCompleted int       `db:"sessions_completed"`
	SessionsCancelled int       `db:"sessions_cancelled"`
	Bio               *string   `db:"bio"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// CanJoinSession checks whether the user's credit standing permits joining.
// A balance of exactly MinJoinBalance is ineligible.
func (u *User) CanJoinSession() bool {
	return u.CreditBalance > MinJoinBalance
}
