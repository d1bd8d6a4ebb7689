package team

// Team is one independently administered club.
type Team struct {
	ID    string
	Name  string
	Short string
}

// Member is a roster entry for a team.
type Member struct {
	UserID    string
	TeamID    string
	Name      string
	Role      string
	Attending bool
}

// CountAttending returns how many roster members have confirmed attendance.
func CountAttending(members []Member) int {
	count := 0
	for _, m := range members {
		if m.Attending {
			count++
		}
	}
	return count
}
