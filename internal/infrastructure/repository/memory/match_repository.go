package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pitchside/matchday/internal/domain/ledger"
	"github.com/pitchside/matchday/internal/domain/match"
)

// MatchRepository keeps match records in process memory. Pair mutations hold
// the write lock across both records, which gives the same all-or-nothing
// behavior the SQL implementation gets from a transaction.
type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Record
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]match.Record)}
}

func (r *MatchRepository) GetByID(_ context.Context, recordID string) (match.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[recordID]
	return item, ok, nil
}

func (r *MatchRepository) GetByToken(_ context.Context, token string) (match.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if token == "" {
		return match.Record{}, false, nil
	}
	for _, item := range r.items {
		if item.ChallengeToken == token {
			return item, true, nil
		}
	}

	return match.Record{}, false, nil
}

func (r *MatchRepository) ListByTeam(_ context.Context, teamID string) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Record, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, record match.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[record.ID] = record
	return nil
}

func (r *MatchRepository) Update(_ context.Context, record match.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[record.ID] = record
	return nil
}

func (r *MatchRepository) CreatePair(_ context.Context, host, mirror match.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[host.ID] = host
	r.items[mirror.ID] = mirror
	return nil
}

func (r *MatchRepository) UpdatePair(_ context.Context, first, second match.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[first.ID] = first
	r.items[second.ID] = second
	return nil
}

func (r *MatchRepository) DeletePair(_ context.Context, hostID, mirrorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, hostID)
	if mirrorID != "" {
		delete(r.items, mirrorID)
	}
	return nil
}

// applyScoreCaches writes the recomputed scores onto both paired records,
// flipped on the mirror so each record reads from its own perspective.
func (r *MatchRepository) applyScoreCaches(hostID, mirrorID string, scores ledger.Scores) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if host, ok := r.items[hostID]; ok {
		host.TeamAScore = scores.TeamA
		host.TeamBScore = scores.TeamB
		r.items[hostID] = host
	}
	if mirror, ok := r.items[mirrorID]; ok {
		mirror.TeamAScore = scores.TeamB
		mirror.TeamBScore = scores.TeamA
		r.items[mirrorID] = mirror
	}
}

func (r *MatchRepository) ExpireChallenge(_ context.Context, recordID, reason string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[recordID]
	if !ok || item.Status != match.StatusChallengeSent {
		return false, nil
	}

	item.Status = match.StatusCancelled
	item.CancelReason = reason
	item.ChallengeToken = ""
	item.TokenExpiresAt = nil
	item.UpdatedAt = now
	r.items[recordID] = item

	return true, nil
}
