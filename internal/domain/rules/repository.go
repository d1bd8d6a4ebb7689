package rules

import "context"

// Repository persists the rules agreement, one per pairing keyed by the host
// record id.
type Repository interface {
	GetByMatch(ctx context.Context, matchID string) (Agreement, bool, error)
	Upsert(ctx context.Context, agreement Agreement) error
}
