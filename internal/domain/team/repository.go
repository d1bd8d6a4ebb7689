package team

import "context"

// Repository exposes team and roster read operations.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	GetMember(ctx context.Context, teamID, userID string) (Member, bool, error)
}
