package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pitchside/matchday/internal/domain/referee"
)

type RefereeRepository struct {
	mu    sync.RWMutex
	items map[string][]referee.Assignment
}

func NewRefereeRepository() *RefereeRepository {
	return &RefereeRepository{items: make(map[string][]referee.Assignment)}
}

func (r *RefereeRepository) GetByMatchAndQuarter(_ context.Context, matchID string, quarter int) (referee.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items[matchID] {
		if item.Quarter == quarter {
			return item, true, nil
		}
	}

	return referee.Assignment{}, false, nil
}

func (r *RefereeRepository) ListByMatch(_ context.Context, matchID string) ([]referee.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.items[matchID]
	out := make([]referee.Assignment, 0, len(rows))
	out = append(out, rows...)
	sort.Slice(out, func(i, j int) bool { return out[i].Quarter < out[j].Quarter })

	return out, nil
}

func (r *RefereeRepository) Upsert(_ context.Context, assignment referee.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.items[assignment.MatchID]
	for idx := range rows {
		if rows[idx].Quarter == assignment.Quarter {
			rows[idx] = assignment
			r.items[assignment.MatchID] = rows
			return nil
		}
	}
	r.items[assignment.MatchID] = append(rows, assignment)

	return nil
}

func (r *RefereeRepository) ReplaceForMatch(_ context.Context, matchID string, assignments []referee.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]referee.Assignment, 0, len(assignments))
	rows = append(rows, assignments...)
	r.items[matchID] = rows

	return nil
}
