package memory

import (
	"context"
	"sync"

	"github.com/pitchside/matchday/internal/domain/team"
)

type TeamRepository struct {
	mu      sync.RWMutex
	teams   map[string]team.Team
	members map[string][]team.Member
}

func NewTeamRepository(teams []team.Team, members []team.Member) *TeamRepository {
	byID := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		byID[item.ID] = item
	}
	byTeam := make(map[string][]team.Member)
	for _, item := range members {
		byTeam[item.TeamID] = append(byTeam[item.TeamID], item)
	}

	return &TeamRepository{teams: byID, members: byTeam}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) ListMembers(_ context.Context, teamID string) ([]team.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.members[teamID]
	out := make([]team.Member, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *TeamRepository) GetMember(_ context.Context, teamID, userID string) (team.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.members[teamID] {
		if item.UserID == userID {
			return item, true, nil
		}
	}

	return team.Member{}, false, nil
}

// SetAttendance flips a roster member's attendance flag. Used by seeds and
// tests to shape the attendance gate.
func (r *TeamRepository) SetAttendance(teamID, userID string, attending bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.members[teamID]
	for idx := range rows {
		if rows[idx].UserID == userID {
			rows[idx].Attending = attending
			break
		}
	}
	r.members[teamID] = rows
}
