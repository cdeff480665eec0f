package models

import (
	"time"
)

// LedgerReason represents why a credit balance changed
type LedgerReason string

const (
	LedgerReasonSessionReward       LedgerReason = "SESSION_REWARD"
	LedgerReasonCancellationPenalty LedgerReason = "CANCELLATION_PENALTY"
	LedgerReasonInitial             LedgerReason = "INITIAL"
	LedgerReasonAdminAdjustment     LedgerReason = "ADMIN_ADJUSTMENT"
)

// RelatedType represents what type of entity a ledger entry refers to
type RelatedType string

const (
	RelatedTypeSession RelatedType = "session"
)

// LedgerEntry is one immutable audit record of a credit balance change.
// Entries are never edited or removed; a user's balance must always equal
// the sum of that user's entry amounts.
type LedgerEntry struct {
	ID            int64        `db:"id"`
	UserID        int64        `db:"user_id"`
	BalanceBefore int64        `db:"balance_before"`
	BalanceAfter  int64        `db:"balance_after"`
	Amount        int64        `db:"amount"`
	Reason        LedgerReason `db:"reason"`
	Description   string       `db:"description"`
	RelatedID     *int64       `db:"related_id"`
	RelatedType   *RelatedType `db:"related_type"`
	CreatedAt     time.Time    `db:"created_at"`
}
