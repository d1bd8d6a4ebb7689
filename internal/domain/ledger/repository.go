package ledger

import "context"

// Repository persists ledger entries against the host record id. AppendGoal
// recomputes the scores from the full ledger inside the same transaction that
// inserts the goal and writes the caches onto both match records, so the
// caches can never drift from the ledger even under concurrent appends.
type Repository interface {
	ListGoals(ctx context.Context, matchID string) ([]Goal, error)
	ListCards(ctx context.Context, matchID string) ([]Card, error)
	ListSubstitutions(ctx context.Context, matchID string) ([]Substitution, error)

	AppendGoal(ctx context.Context, goal Goal, hostID, mirrorID string) (Scores, error)
	AppendCard(ctx context.Context, card Card) error
	AppendSubstitution(ctx context.Context, substitution Substitution) error
}
