package memory

import (
	"context"
	"sync"

	"github.com/pitchside/matchday/internal/domain/ledger"
)

// LedgerRepository keeps the append-only event log in memory. Goal appends
// also push the recomputed score caches onto both match records, mirroring
// the single transaction the SQL implementation uses.
type LedgerRepository struct {
	mu            sync.RWMutex
	goals         map[string][]ledger.Goal
	cards         map[string][]ledger.Card
	substitutions map[string][]ledger.Substitution
	matches       *MatchRepository
}

func NewLedgerRepository(matches *MatchRepository) *LedgerRepository {
	return &LedgerRepository{
		goals:         make(map[string][]ledger.Goal),
		cards:         make(map[string][]ledger.Card),
		substitutions: make(map[string][]ledger.Substitution),
		matches:       matches,
	}
}

func (r *LedgerRepository) ListGoals(_ context.Context, matchID string) ([]ledger.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.goals[matchID]
	out := make([]ledger.Goal, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *LedgerRepository) ListCards(_ context.Context, matchID string) ([]ledger.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.cards[matchID]
	out := make([]ledger.Card, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *LedgerRepository) ListSubstitutions(_ context.Context, matchID string) ([]ledger.Substitution, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.substitutions[matchID]
	out := make([]ledger.Substitution, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

// AppendGoal appends the goal and recomputes the score caches from the full
// log while still holding the write lock, so concurrent appends each see the
// other's entry.
func (r *LedgerRepository) AppendGoal(_ context.Context, goal ledger.Goal, hostID, mirrorID string) (ledger.Scores, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.goals[goal.MatchID] = append(r.goals[goal.MatchID], goal)
	scores := ledger.Recompute(r.goals[goal.MatchID])
	r.matches.applyScoreCaches(hostID, mirrorID, scores)

	return scores, nil
}

func (r *LedgerRepository) AppendCard(_ context.Context, card ledger.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cards[card.MatchID] = append(r.cards[card.MatchID], card)
	return nil
}

func (r *LedgerRepository) AppendSubstitution(_ context.Context, substitution ledger.Substitution) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.substitutions[substitution.MatchID] = append(r.substitutions[substitution.MatchID], substitution)
	return nil
}
