package usecase

import (
	"context"
	"time"
)

const (
	EventChallengeSent    = "challenge.sent"
	EventChallengeExpired = "challenge.expired"
	EventMatchConfirmed   = "match.confirmed"
	EventMatchPaired      = "match.paired"
	EventMatchCancelled   = "match.cancelled"
	EventMatchStarted     = "match.started"
	EventMatchCompleted   = "match.completed"
	EventRulesProposed    = "rules.proposed"
	EventRulesConfirmed   = "rules.confirmed"
)

// Event describes one lifecycle transition worth announcing to both teams.
type Event struct {
	Type       string
	MatchID    string
	TeamIDs    []string
	OccurredAt time.Time
	Payload    map[string]any
}

// Notifier dispatches lifecycle events to an external delivery system.
// Dispatch is fire-and-forget: failures are logged by the implementation and
// never fail the originating command.
type Notifier interface {
	Dispatch(ctx context.Context, event Event)
}

// NopNotifier discards all events. Used by tests and minimal wiring.
type NopNotifier struct{}

func (NopNotifier) Dispatch(context.Context, Event) {}
