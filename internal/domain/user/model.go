package user

const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID string
	TeamID string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// AdminOf reports whether the principal administers the given team.
func (p Principal) AdminOf(teamID string) bool {
	return teamID != "" && p.TeamID == teamID && p.IsAdmin()
}

// MemberOf reports whether the principal belongs to the given team.
func (p Principal) MemberOf(teamID string) bool {
	return teamID != "" && p.TeamID == teamID
}
