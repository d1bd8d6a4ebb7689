package match

import "time"

const (
	StatusDraft          = "DRAFT"
	StatusChallengeSent  = "CHALLENGE_SENT"
	StatusConfirmed      = "CONFIRMED"
	StatusPending        = "PENDING"
	StatusRulesPending   = "RULES_PENDING"
	StatusRulesConfirmed = "RULES_CONFIRMED"
	StatusInProgress     = "IN_PROGRESS"
	StatusCompleted      = "COMPLETED"
	StatusCancelled      = "CANCELLED"
)

// Record is one team's calendar entry for a friendly match. A real match is
// represented by two records: the host record (the challenging team's, which
// owns the challenge token and the ledger) and the mirror record created for
// the opponent once the pairing exists. The records point at each other via
// LinkedRecordID.
type Record struct {
	ID             string
	TeamID         string
	Host           bool
	ScheduledAt    time.Time
	Status         string
	OpponentTeamID string
	LinkedRecordID string
	ChallengeToken string
	TokenExpiresAt *time.Time
	TeamAScore     int
	TeamBScore     int
	MinimumPlayers int
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanCancel reports whether a record in the given status may still be cancelled.
func CanCancel(status string) bool {
	return !IsTerminalStatus(status)
}

// CanStart reports whether the pairing may move to IN_PROGRESS.
func CanStart(status string) bool {
	return status == StatusConfirmed || status == StatusRulesConfirmed
}

// IsPaired reports whether the record has a linked opposite-side record.
func (r Record) IsPaired() bool {
	return r.LinkedRecordID != ""
}

// TokenLive reports whether the record carries an unexpired challenge token.
func (r Record) TokenLive(now time.Time) bool {
	return r.Status == StatusChallengeSent &&
		r.ChallengeToken != "" &&
		r.TokenExpiresAt != nil &&
		now.Before(*r.TokenExpiresAt)
}

// SameDay reports whether the scheduled slot falls on the given day in UTC.
func (r Record) SameDay(now time.Time) bool {
	sy, sm, sd := r.ScheduledAt.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return sy == ny && sm == nm && sd == nd
}
