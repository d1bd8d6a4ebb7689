package ledger

import "time"

const (
	SideTeamA = "TEAM_A"
	SideTeamB = "TEAM_B"
)

const (
	PerspectiveHost   = "host"
	PerspectiveMirror = "mirror"
)

const (
	CardYellow = "YELLOW"
	CardRed    = "RED"
)

// FlipSide translates a side label between the two teams' perspectives.
// FlipSide(FlipSide(x)) == x for the two valid labels.
func FlipSide(side string) string {
	switch side {
	case SideTeamA:
		return SideTeamB
	case SideTeamB:
		return SideTeamA
	default:
		return side
	}
}

// ValidSide reports whether the label is one of the two canonical sides.
func ValidSide(side string) bool {
	return side == SideTeamA || side == SideTeamB
}

// Goal is an append-only ledger entry, always stored host-oriented against
// the host record id. Side encodes the benefiting team, so an own goal still
// increments the side's counter and the flag is statistical only.
type Goal struct {
	ID          string
	MatchID     string
	Quarter     int
	Minute      int
	Side        string
	ScorerID    string
	AssistantID string
	OwnGoal     bool
	RecordedBy  string
	RecordedAt  time.Time
}

// Card is a disciplinary ledger entry. Does not feed score computation.
type Card struct {
	ID         string
	MatchID    string
	Quarter    int
	Minute     int
	Side       string
	PlayerID   string
	CardType   string
	RecordedBy string
	RecordedAt time.Time
}

// Substitution is a lineup-change ledger entry. Does not feed score
// computation.
type Substitution struct {
	ID          string
	MatchID     string
	Quarter     int
	Minute      int
	Side        string
	PlayerOutID string
	PlayerInID  string
	RecordedBy  string
	RecordedAt  time.Time
}

// Scores is the derived score pair in the host orientation.
type Scores struct {
	TeamA int
	TeamB int
}

// Recompute derives both counters from the full goal set. Pure; calling it
// twice over the same ledger yields identical scores.
func Recompute(goals []Goal) Scores {
	var scores Scores
	for _, g := range goals {
		switch g.Side {
		case SideTeamA:
			scores.TeamA++
		case SideTeamB:
			scores.TeamB++
		}
	}
	return scores
}
