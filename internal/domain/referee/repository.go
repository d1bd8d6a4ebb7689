package referee

import "context"

// Repository persists quarter referee assignments, keyed by host record id
// and quarter number.
type Repository interface {
	GetByMatchAndQuarter(ctx context.Context, matchID string, quarter int) (Assignment, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Assignment, error)
	Upsert(ctx context.Context, assignment Assignment) error
	ReplaceForMatch(ctx context.Context, matchID string, assignments []Assignment) error
}
